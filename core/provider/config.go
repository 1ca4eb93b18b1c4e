package provider

// Config holds configuration for the remote show-data provider API.
type Config struct {
	// BaseURL is the root of the provider API, without trailing slash.
	BaseURL string `mapstructure:"base_url" default:"https://sgl-api.example.com/api"`
	// Origin is sent on every request; the provider rejects requests without it.
	Origin string `mapstructure:"origin" default:"https://www.wellingtoninternational.com"`
	// Username is the login username.
	Username string `mapstructure:"username" default:""`
	// Password is the login password.
	Password string `mapstructure:"password" default:""`
	// CustomerID scopes every request to one customer account.
	CustomerID string `mapstructure:"customer_id" default:"15"`
	// TimeoutSeconds is the per-request timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
