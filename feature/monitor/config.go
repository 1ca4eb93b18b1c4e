package monitor

// Config holds configuration for the class monitoring cycle.
type Config struct {
	// Workers bounds how many classes are fetched concurrently.
	Workers int `mapstructure:"workers" default:"6"`
	// DeadlineSeconds caps the wall-clock duration of one cycle.
	DeadlineSeconds int `mapstructure:"deadline_seconds" default:"120"`
}
