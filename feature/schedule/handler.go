package schedule

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"show-sync/core/logger"
)

// Handler handles HTTP requests for the schedule feature.
type Handler struct {
	service *Service
	farmID  string
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, farmID string) *Handler {
	return &Handler{service: service, farmID: farmID}
}

// RegisterRoutes registers the schedule routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/api/v1/schedule")
	group.Post("/sync", h.HandleSync)
}

type syncRequest struct {
	Date string `json:"date"`
}

// HandleSync runs one morning sync and returns its summary.
func (h *Handler) HandleSync(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req syncRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}
	}

	summary, err := h.service.RunDailySync(c.Context(), SyncParams{
		FarmID: h.farmID,
		Date:   req.Date,
	})
	if err != nil {
		l.Error("Morning sync failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"task":    "completed",
		"summary": summary,
	})
}
