package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/inkwell-labs/inkwell_api/dto"
)

// fakeKV is a map-backed kvStore for cache tests.
type fakeKV struct {
	data   map[string]string
	getErr error
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: map[string]string{}}
}

func (f *fakeKV) Get(ctx context.Context, key string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	return f.data[key], nil
}

func (f *fakeKV) Set(ctx context.Context, key string, value []byte, expiration time.Duration) error {
	f.data[key] = string(value)
	return nil
}

func (f *fakeKV) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

func (f *fakeKV) Keys(ctx context.Context, pattern string) ([]string, error) {
	prefix := strings.TrimSuffix(pattern, "*")
	var keys []string
	for key := range f.data {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func TestFingerprintNormalization(t *testing.T) {
	svc := &SuggestionCacheService{}

	base := svc.Fingerprint("Hello World", "user-1")

	// Case and surrounding whitespace must not change the key.
	if got := svc.Fingerprint("hello world", "user-1"); got != base {
		t.Error("lowercased text produced a different fingerprint")
	}
	if got := svc.Fingerprint("  Hello World  \n", "user-1"); got != base {
		t.Error("padded text produced a different fingerprint")
	}

	// Interior whitespace is content, not formatting.
	if got := svc.Fingerprint("Hello  World", "user-1"); got == base {
		t.Error("interior whitespace change should produce a different fingerprint")
	}
}

func TestFingerprintPerUser(t *testing.T) {
	svc := &SuggestionCacheService{}

	a := svc.Fingerprint("same text", "user-1")
	b := svc.Fingerprint("same text", "user-2")
	if a == b {
		t.Error("different users must not share a fingerprint")
	}

	if !strings.HasSuffix(a, ":user-1") {
		t.Errorf("fingerprint %q should end with the user id", a)
	}
}

func TestCacheRoundTrip(t *testing.T) {
	kv := newFakeKV()
	svc := &SuggestionCacheService{kv: kv}
	ctx := context.Background()

	response := &dto.SuggestionResponse{
		Suggestions: []dto.WritingSuggestion{
			{ID: "s-1", Type: "grammar", Severity: "high", Title: "Fix", Description: "desc", Suggestion: "do it"},
		},
		WordCount:        42,
		ReadabilityScore: 8,
		ProcessingTime:   1234,
	}

	key := svc.Fingerprint("some analyzed text here", "user-1")
	if err := svc.Put(ctx, key, response); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got := svc.Get(ctx, key)
	if got == nil {
		t.Fatal("expected cache hit, got miss")
	}
	if !got.Cached {
		t.Error("cached response should have Cached=true")
	}
	if got.ProcessingTime != 0 {
		t.Errorf("cached response ProcessingTime = %d, want 0", got.ProcessingTime)
	}
	if got.WordCount != 42 || got.ReadabilityScore != 8 {
		t.Errorf("cached response lost fields: %+v", got)
	}
	if len(got.Suggestions) != 1 || got.Suggestions[0].ID != "s-1" {
		t.Errorf("cached suggestions wrong: %+v", got.Suggestions)
	}
}

func TestCacheMissOnUnknownKey(t *testing.T) {
	svc := &SuggestionCacheService{kv: newFakeKV()}

	if got := svc.Get(context.Background(), "nope"); got != nil {
		t.Errorf("expected miss, got %+v", got)
	}
}

func TestCacheStoreErrorIsMiss(t *testing.T) {
	kv := newFakeKV()
	kv.getErr = errors.New("connection refused")
	svc := &SuggestionCacheService{kv: kv}

	if got := svc.Get(context.Background(), "any"); got != nil {
		t.Errorf("store error should read as a miss, got %+v", got)
	}
}

func TestCacheExpiredEntryDeletedOnRead(t *testing.T) {
	kv := newFakeKV()
	svc := &SuggestionCacheService{kv: kv}
	ctx := context.Background()

	stored := time.Now().Add(-2 * time.Hour)
	entry := cacheEntry{
		Response:  dto.SuggestionResponse{WordCount: 5},
		StoredAt:  stored.UnixMilli(),
		ExpiresAt: stored.Add(CacheFreshness).UnixMilli(),
	}
	data, _ := json.Marshal(entry)
	kv.data[cacheKeyPrefix+"stale"] = string(data)

	if got := svc.Get(ctx, "stale"); got != nil {
		t.Errorf("expired entry should be a miss, got %+v", got)
	}
	if _, ok := kv.data[cacheKeyPrefix+"stale"]; ok {
		t.Error("expired entry should have been deleted on read")
	}
}

func TestCacheCorruptEntryDeletedOnRead(t *testing.T) {
	kv := newFakeKV()
	svc := &SuggestionCacheService{kv: kv}

	kv.data[cacheKeyPrefix+"bad"] = "{not json"

	if got := svc.Get(context.Background(), "bad"); got != nil {
		t.Errorf("corrupt entry should be a miss, got %+v", got)
	}
	if _, ok := kv.data[cacheKeyPrefix+"bad"]; ok {
		t.Error("corrupt entry should have been deleted on read")
	}
}

func TestSweepExpired(t *testing.T) {
	kv := newFakeKV()
	svc := &SuggestionCacheService{kv: kv}
	ctx := context.Background()

	if err := svc.Put(ctx, "fresh", &dto.SuggestionResponse{WordCount: 1}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	old := time.Now().Add(-3 * time.Hour)
	stale := cacheEntry{
		Response:  dto.SuggestionResponse{WordCount: 2},
		StoredAt:  old.UnixMilli(),
		ExpiresAt: old.Add(CacheFreshness).UnixMilli(),
	}
	data, _ := json.Marshal(stale)
	kv.data[cacheKeyPrefix+"stale"] = string(data)
	kv.data[cacheKeyPrefix+"corrupt"] = "???"

	removed, err := svc.SweepExpired(ctx)
	if err != nil {
		t.Fatalf("SweepExpired failed: %v", err)
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}

	if _, ok := kv.data[cacheKeyPrefix+"fresh"]; !ok {
		t.Error("fresh entry should survive the sweep")
	}
	if _, ok := kv.data[cacheKeyPrefix+"stale"]; ok {
		t.Error("stale entry should be swept")
	}
	if _, ok := kv.data[cacheKeyPrefix+"corrupt"]; ok {
		t.Error("corrupt entry should be swept")
	}
}
