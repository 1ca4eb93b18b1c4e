package monitor

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"show-sync/core/logger"
)

// Handler handles HTTP requests for the monitor feature.
type Handler struct {
	runner *Runner
	farmID string
	logger *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(runner *Runner, farmID string, logger *zap.Logger) *Handler {
	return &Handler{runner: runner, farmID: farmID, logger: logger}
}

// RegisterRoutes registers the monitor routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/api/v1/monitor")
	group.Post("/cycle", h.HandleCycle)
}

type cycleRequest struct {
	Date string `json:"date"`
}

// HandleCycle runs one reconciliation cycle and returns its report.
func (h *Handler) HandleCycle(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	var req cycleRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}
	}

	report, err := h.runner.RunCycle(c.Context(), Params{
		FarmID: h.farmID,
		Date:   req.Date,
	})
	if err != nil {
		l.Error("Reconciliation cycle failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"task":   "completed",
		"report": report,
	})
}
