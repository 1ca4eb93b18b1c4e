package schedule

// Config holds configuration for the daily schedule sync.
type Config struct {
	// DetailBatchSize is how many entry-detail requests run per batch.
	DetailBatchSize int `mapstructure:"detail_batch_size" default:"10"`
}
