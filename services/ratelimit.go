package services

import (
	"time"

	"github.com/alphabatem/common/context"
	"github.com/inkwell-labs/inkwell_api/dto"
	"github.com/inkwell-labs/inkwell_api/shared"
	log "github.com/sirupsen/logrus"
)

// RateLimitService enforces per-user suggestion quotas by counting usage log
// rows inside calendar windows. Windows are anchored to the start of the
// current hour, day, and month in server-local time, not rolling, so counts
// reset abruptly at window boundaries.
type RateLimitService struct {
	context.DefaultService

	store SqlStore
}

const RATE_LIMIT_SVC = "rate_limit_svc"

func (svc RateLimitService) Id() string {
	return RATE_LIMIT_SVC
}

func (svc *RateLimitService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *RateLimitService) Start() error {
	svc.store = svc.Service(POSTGRES_SVC).(SqlStore)
	return nil
}

// windowStarts returns the three accounting window anchors for now: first of
// the month, midnight, top of the hour. All in now's location.
func windowStarts(now time.Time) (monthly, daily, hourly time.Time) {
	monthly = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	daily = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	hourly = time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), 0, 0, 0, now.Location())
	return
}

// CheckRateLimit reports whether userID may make another suggestion request.
// Read-only: the request event is logged by the orchestrator after the
// pipeline completes, so two concurrent requests can both pass this check
// and briefly overshoot a quota. Accepted tradeoff, not a bug.
//
// Any store error denies the request. Failing closed here caps model spend
// when the database is unhealthy.
func (svc *RateLimitService) CheckRateLimit(userID string) bool {
	now := time.Now()
	monthly, daily, hourly := windowStarts(now)

	checks := []struct {
		window string
		since  time.Time
		limit  int64
	}{
		{"monthly", monthly, shared.MonthlyRequestLimit},
		{"daily", daily, shared.DailyRequestLimit},
		{"hourly", hourly, shared.HourlyRequestLimit},
	}

	for _, check := range checks {
		count, err := svc.store.CountUsageEvents(userID, shared.EventTypeSuggestion, shared.ActionRequest, check.since)
		if err != nil {
			log.WithError(err).WithFields(log.Fields{
				"user_id": userID,
				"window":  check.window,
			}).Error("Rate limit count failed, denying request")
			return false
		}
		if count >= check.limit {
			log.WithFields(log.Fields{
				"user_id": userID,
				"window":  check.window,
				"count":   count,
			}).Info("Rate limit exceeded")
			return false
		}
	}

	return true
}

// GetRateLimitStatus returns used/limit/remaining for all three windows.
func (svc *RateLimitService) GetRateLimitStatus(userID string) (*dto.RateLimitStatus, error) {
	now := time.Now()
	monthly, daily, hourly := windowStarts(now)

	monthlyUsed, err := svc.store.CountUsageEvents(userID, shared.EventTypeSuggestion, shared.ActionRequest, monthly)
	if err != nil {
		return nil, err
	}
	dailyUsed, err := svc.store.CountUsageEvents(userID, shared.EventTypeSuggestion, shared.ActionRequest, daily)
	if err != nil {
		return nil, err
	}
	hourlyUsed, err := svc.store.CountUsageEvents(userID, shared.EventTypeSuggestion, shared.ActionRequest, hourly)
	if err != nil {
		return nil, err
	}

	return &dto.RateLimitStatus{
		Monthly: makeWindow(monthlyUsed, shared.MonthlyRequestLimit),
		Daily:   makeWindow(dailyUsed, shared.DailyRequestLimit),
		Hourly:  makeWindow(hourlyUsed, shared.HourlyRequestLimit),
	}, nil
}

func makeWindow(used, limit int64) dto.RateLimitWindow {
	remaining := limit - used
	if remaining < 0 {
		remaining = 0
	}
	return dto.RateLimitWindow{Used: used, Limit: limit, Remaining: remaining}
}
