package scheduleview

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	handler *Handler
}

// NewFeature creates the schedule view feature.
func NewFeature(db *gorm.DB, farmID string, logger *zap.Logger) *Feature {
	return &Feature{
		handler: NewHandler(NewService(db, logger), farmID, logger),
	}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "schedule-view"
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
