package monitor

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"show-sync/core/archive"
	"show-sync/core/database"
	"show-sync/core/provider"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	runner  *Runner
	handler *Handler
}

// NewFeature creates the monitor feature. arc may be nil when archiving is
// disabled.
func NewFeature(db *gorm.DB, client provider.Client, arc *archive.Archive, recorder Recorder, cfg Config, farmID string, logger *zap.Logger) *Feature {
	runner := NewRunner(
		NewStore(db),
		NewFetcher(client, arc, logger),
		database.NewAdvisoryLocker(db),
		recorder,
		cfg,
		logger,
	)
	return &Feature{
		runner:  runner,
		handler: NewHandler(runner, farmID, logger),
	}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "monitor"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}

// Runner exposes the underlying runner for CLI use.
func (f *Feature) Runner() *Runner {
	return f.runner
}
