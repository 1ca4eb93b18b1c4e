package notify

import "time"

// SourceMonitor marks notifications produced by the reconciliation monitor.
const SourceMonitor = "class_monitoring"

// NotificationLog is one outbound notification. The message text is rendered
// when the underlying change is detected and stored verbatim; delivery retries
// send the stored text and never re-render it. A null delivered_at means the
// row is still pending.
type NotificationLog struct {
	ID               string     `gorm:"column:id;type:char(36);primaryKey"`
	FarmID           string     `gorm:"column:farm_id;type:char(36);index"`
	EntryID          string     `gorm:"column:entry_id;type:char(36)"`
	Source           string     `gorm:"column:source;size:50"`
	NotificationType string     `gorm:"column:notification_type;size:32"`
	Message          string     `gorm:"column:message;type:text"`
	Payload          []byte     `gorm:"column:payload;type:json"`
	DetectedAt       time.Time  `gorm:"column:detected_at"`
	DeliveredAt      *time.Time `gorm:"column:delivered_at;index"`
	CreatedAt        time.Time  `gorm:"column:created_at"`
}

// TableName overrides the table name.
func (NotificationLog) TableName() string {
	return "notification_logs"
}
