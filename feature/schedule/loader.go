package schedule

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"show-sync/core/provider"
	"show-sync/feature/registry"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the schedule feature.
func NewFeature(db *gorm.DB, client provider.Client, resolver *registry.Resolver, cfg Config, farmID string, logger *zap.Logger) *Feature {
	svc := NewService(db, client, resolver, cfg, logger)
	h := NewHandler(svc, farmID)
	return &Feature{service: svc, handler: h}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "schedule"
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

// Service exposes the underlying service for CLI use.
func (f *Feature) Service() *Service {
	return f.service
}
