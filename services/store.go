package services

import (
	"time"

	"github.com/inkwell-labs/inkwell_api/model"
	"gorm.io/gorm"
)

// SqlStore is the slice of the relational store the suggestion pipeline
// needs: append-only usage logs plus window counting and retention purge.
// Both the postgres and sqlite services satisfy it.
type SqlStore interface {
	Db() *gorm.DB
	HandleError(err error) error

	CreateUsageLog(entry *model.UsageLog) error
	CountUsageEvents(userID, eventType, action string, since time.Time) (int64, error)
	DeleteUsageLogsBefore(cutoff time.Time) (int64, error)
}

// UsageLogRetention is how long metering records are kept before the
// scheduled sweep purges them.
const UsageLogRetention = 30 * 24 * time.Hour
