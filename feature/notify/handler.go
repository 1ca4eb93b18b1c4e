package notify

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"show-sync/core/logger"
)

// Handler handles HTTP requests for the notify feature.
type Handler struct {
	service *Service
	farmID  string
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, farmID string, logger *zap.Logger) *Handler {
	return &Handler{service: service, farmID: farmID, logger: logger}
}

// RegisterRoutes registers the notification routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/api/v1/notifications")
	group.Get("/", h.HandleList)
	group.Post("/deliver", h.HandleDeliver)
}

// HandleList returns the newest notifications.
func (h *Handler) HandleList(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	rows, err := h.service.Recent(c.Context(), h.farmID, c.QueryInt("limit"))
	if err != nil {
		l.Error("Failed to list notifications", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"count":         len(rows),
		"notifications": rows,
	})
}

// HandleDeliver runs one delivery pass over pending notifications.
func (h *Handler) HandleDeliver(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	report, err := h.service.DeliverPending(c.Context(), h.farmID)
	if err != nil {
		l.Error("Notification delivery run failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"task":   "completed",
		"report": report,
	})
}
