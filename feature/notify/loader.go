package notify

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the notify feature.
func NewFeature(db *gorm.DB, cfg Config, farmID string, logger *zap.Logger) *Feature {
	var sink Sink
	if webhook := NewWebhookSink(cfg); webhook != nil {
		sink = webhook
	}
	svc := NewService(db, sink, cfg, logger)
	return &Feature{
		service: svc,
		handler: NewHandler(svc, farmID, logger),
	}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "notify"
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

// Service exposes the underlying service, both as the monitor's change
// recorder and for CLI use.
func (f *Feature) Service() *Service {
	return f.service
}
