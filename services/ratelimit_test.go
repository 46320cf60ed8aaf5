package services

import (
	"errors"
	"testing"
	"time"

	"github.com/inkwell-labs/inkwell_api/model"
	"github.com/inkwell-labs/inkwell_api/shared"
	"gorm.io/gorm"
)

func newTestStore(t *testing.T) *SqliteService {
	t.Helper()

	store := &SqliteService{database: ":memory:"}
	if err := store.Start(); err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	return store
}

func seedRequests(t *testing.T, store *SqliteService, userID string, n int, at time.Time) {
	t.Helper()

	for i := 0; i < n; i++ {
		entry := model.UsageLog{
			UserID:    userID,
			EventType: shared.EventTypeSuggestion,
			Action:    shared.ActionRequest,
			Timestamp: at,
		}
		if err := store.CreateUsageLog(&entry); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}
}

func TestWindowStarts(t *testing.T) {
	now := time.Date(2025, time.March, 15, 14, 30, 45, 0, time.UTC)
	monthly, daily, hourly := windowStarts(now)

	if want := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC); !monthly.Equal(want) {
		t.Errorf("monthly = %v, want %v", monthly, want)
	}
	if want := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC); !daily.Equal(want) {
		t.Errorf("daily = %v, want %v", daily, want)
	}
	if want := time.Date(2025, time.March, 15, 14, 0, 0, 0, time.UTC); !hourly.Equal(want) {
		t.Errorf("hourly = %v, want %v", hourly, want)
	}
}

func TestCheckRateLimitUnderLimit(t *testing.T) {
	store := newTestStore(t)
	svc := &RateLimitService{store: store}

	seedRequests(t, store, "user-1", int(shared.HourlyRequestLimit)-1, time.Now())

	if !svc.CheckRateLimit("user-1") {
		t.Error("expected request to be allowed under the hourly limit")
	}
}

func TestCheckRateLimitHourlyExceeded(t *testing.T) {
	store := newTestStore(t)
	svc := &RateLimitService{store: store}

	seedRequests(t, store, "user-1", int(shared.HourlyRequestLimit), time.Now())

	if svc.CheckRateLimit("user-1") {
		t.Error("expected request to be denied at the hourly limit")
	}
}

func TestCheckRateLimitPerUser(t *testing.T) {
	store := newTestStore(t)
	svc := &RateLimitService{store: store}

	seedRequests(t, store, "heavy-user", int(shared.HourlyRequestLimit), time.Now())

	if !svc.CheckRateLimit("other-user") {
		t.Error("one user's usage must not count against another")
	}
}

func TestCheckRateLimitIgnoresFeedbackEvents(t *testing.T) {
	store := newTestStore(t)
	svc := &RateLimitService{store: store}

	// Feedback actions share the table but never consume quota.
	for i := 0; i < int(shared.HourlyRequestLimit)+5; i++ {
		entry := model.UsageLog{
			UserID:    "user-1",
			EventType: shared.EventTypeSuggestion,
			Action:    shared.ActionAccept,
			Timestamp: time.Now(),
		}
		if err := store.CreateUsageLog(&entry); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}

	if !svc.CheckRateLimit("user-1") {
		t.Error("feedback events should not consume request quota")
	}
}

// failingStore simulates a store outage.
type failingStore struct{}

func (failingStore) Db() *gorm.DB { return nil }

func (failingStore) HandleError(err error) error { return err }

func (failingStore) CreateUsageLog(entry *model.UsageLog) error { return errors.New("db down") }

func (failingStore) CountUsageEvents(userID, eventType, action string, since time.Time) (int64, error) {
	return 0, errors.New("db down")
}

func (failingStore) DeleteUsageLogsBefore(cutoff time.Time) (int64, error) {
	return 0, errors.New("db down")
}

func TestCheckRateLimitFailsClosed(t *testing.T) {
	svc := &RateLimitService{store: failingStore{}}

	if svc.CheckRateLimit("user-1") {
		t.Error("store errors must deny the request")
	}
}

func TestGetRateLimitStatus(t *testing.T) {
	store := newTestStore(t)
	svc := &RateLimitService{store: store}

	seedRequests(t, store, "user-1", 3, time.Now())

	status, err := svc.GetRateLimitStatus("user-1")
	if err != nil {
		t.Fatalf("GetRateLimitStatus failed: %v", err)
	}

	if status.Hourly.Used != 3 || status.Hourly.Limit != shared.HourlyRequestLimit || status.Hourly.Remaining != shared.HourlyRequestLimit-3 {
		t.Errorf("hourly = %+v", status.Hourly)
	}
	if status.Daily.Used != 3 || status.Daily.Remaining != shared.DailyRequestLimit-3 {
		t.Errorf("daily = %+v", status.Daily)
	}
	if status.Monthly.Used != 3 || status.Monthly.Remaining != shared.MonthlyRequestLimit-3 {
		t.Errorf("monthly = %+v", status.Monthly)
	}
}

func TestMakeWindowClampsRemaining(t *testing.T) {
	window := makeWindow(12, 10)
	if window.Remaining != 0 {
		t.Errorf("Remaining = %d, want 0", window.Remaining)
	}
	if window.Used != 12 || window.Limit != 10 {
		t.Errorf("window = %+v", window)
	}
}
