package notify

// Config holds configuration for notification delivery.
type Config struct {
	// WebhookURL is the endpoint pending notifications are posted to.
	// Delivery is disabled when empty.
	WebhookURL string `mapstructure:"webhook_url" default:""`
	// TimeoutSeconds is the per-request delivery timeout.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"10"`
	// BatchSize caps how many pending rows one delivery pass picks up.
	BatchSize int `mapstructure:"batch_size" default:"100"`
}
