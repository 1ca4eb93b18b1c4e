package scheduleview

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"show-sync/core/logger"
)

// Handler handles HTTP requests for the schedule view feature.
type Handler struct {
	service *Service
	farmID  string
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, farmID string, logger *zap.Logger) *Handler {
	return &Handler{service: service, farmID: farmID, logger: logger}
}

// RegisterRoutes registers the schedule view routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/api/v1/schedule/view", h.HandleView)
}

// HandleView returns the nested schedule for one date, defaulting to today.
func (h *Handler) HandleView(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	date := c.Query("date")
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "date must be YYYY-MM-DD",
		})
	}

	view, err := h.service.View(c.Context(), h.farmID, date)
	if err != nil {
		l.Error("Failed to build schedule view", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(view)
}
