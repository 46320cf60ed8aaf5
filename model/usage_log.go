package model

import "time"

// UsageLog is the append-only metering record behind both rate limiting and
// the suggestion audit trail. The rate limiter derives window counts from
// these rows; they are never updated after creation and are purged after the
// retention period by a scheduled sweep.
type UsageLog struct {
	ID        string    `json:"id" gorm:"primaryKey;type:text;not null"`
	UserID    string    `json:"user_id" gorm:"not null;size:255;index:idx_usage_window,priority:1"`
	EventType string    `json:"event_type" gorm:"not null;size:50;index:idx_usage_window,priority:2"`
	Action    string    `json:"action" gorm:"not null;size:20;index:idx_usage_window,priority:3"`
	Timestamp time.Time `json:"timestamp" gorm:"not null;index:idx_usage_window,priority:4"`
	Metadata  string    `json:"metadata,omitempty" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at" gorm:"not null"`
}

func (UsageLog) TableName() string { return "usage_logs" }
