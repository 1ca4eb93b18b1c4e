package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"show-sync/feature/monitor"
)

// Service records detected changes as pending notifications and delivers
// them. Recording happens inside the monitor's apply transaction; delivery is
// a separate step so a slow or dead channel never blocks reconciliation.
type Service struct {
	db     *gorm.DB
	sink   Sink // nil when no delivery channel is configured
	cfg    Config
	logger *zap.Logger

	// now is swappable in tests.
	now func() time.Time
}

// NewService creates a notify service. sink may be nil.
func NewService(db *gorm.DB, sink Sink, cfg Config, logger *zap.Logger) *Service {
	return &Service{db: db, sink: sink, cfg: cfg, logger: logger, now: time.Now}
}

// Record renders and inserts one notification row per change, inside the
// caller's transaction. Implements monitor.Recorder.
func (s *Service) Record(tx *gorm.DB, farmID string, changes []monitor.Change) error {
	if len(changes) == 0 {
		return nil
	}

	rows := make([]NotificationLog, 0, len(changes))
	for _, ch := range changes {
		payload, err := json.Marshal(ch)
		if err != nil {
			return fmt.Errorf("failed to encode change payload: %w", err)
		}
		rows = append(rows, NotificationLog{
			ID:               uuid.NewString(),
			FarmID:           farmID,
			EntryID:          ch.EntryID,
			Source:           SourceMonitor,
			NotificationType: string(ch.Kind),
			Message:          RenderMessage(ch),
			Payload:          payload,
			DetectedAt:       ch.DetectedAt,
		})
	}

	if err := tx.Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to insert notification logs: %w", err)
	}
	return nil
}

// DeliveryReport summarizes one delivery run.
type DeliveryReport struct {
	Pending   int `json:"pending"`
	Delivered int `json:"delivered"`
	Failed    int `json:"failed"`
}

// DeliverPending sends the oldest pending notifications. A row is stamped
// delivered only after the channel accepts it, so every notification is
// delivered at least once; failures stay pending for the next run.
func (s *Service) DeliverPending(ctx context.Context, farmID string) (*DeliveryReport, error) {
	batch := s.cfg.BatchSize
	if batch <= 0 {
		batch = 100
	}

	var pending []NotificationLog
	err := s.db.WithContext(ctx).
		Where("farm_id = ?", farmID).
		Where("delivered_at IS NULL").
		Order("created_at").
		Limit(batch).
		Find(&pending).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load pending notifications: %w", err)
	}

	report := &DeliveryReport{Pending: len(pending)}
	if len(pending) == 0 {
		return report, nil
	}
	if s.sink == nil {
		s.logger.Debug("no notification channel configured, leaving notifications pending",
			zap.Int("pending", len(pending)))
		return report, nil
	}

	for _, row := range pending {
		// Retries send the stored text verbatim.
		if err := s.sink.Deliver(ctx, row.Message); err != nil {
			report.Failed++
			s.logger.Warn("notification delivery failed",
				zap.String("notification_id", row.ID),
				zap.String("type", row.NotificationType),
				zap.Error(err))
			continue
		}
		deliveredAt := s.now().UTC()
		if err := s.db.WithContext(ctx).Model(&NotificationLog{}).
			Where("id = ?", row.ID).
			Update("delivered_at", deliveredAt).Error; err != nil {
			// The message went out but the stamp failed; the row will be
			// re-sent, which at-least-once delivery permits.
			report.Failed++
			s.logger.Error("failed to stamp delivered notification",
				zap.String("notification_id", row.ID), zap.Error(err))
			continue
		}
		report.Delivered++
	}
	return report, nil
}

// Recent returns the newest notifications for a farm.
func (s *Service) Recent(ctx context.Context, farmID string, limit int) ([]NotificationLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var rows []NotificationLog
	err := s.db.WithContext(ctx).
		Where("farm_id = ?", farmID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load notifications: %w", err)
	}
	return rows, nil
}
