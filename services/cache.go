package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/inkwell-labs/inkwell_api/dto"
	log "github.com/sirupsen/logrus"
)

const (
	// CacheFreshness is how long a cached analysis stays servable.
	CacheFreshness = time.Hour

	cacheKeyPrefix = "suggestion_cache:"
)

// kvStore is the slice of RedisService the cache needs. Narrow on purpose so
// tests can swap in a map-backed store.
type kvStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value []byte, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Keys(ctx context.Context, pattern string) ([]string, error)
}

// cacheEntry wraps a stored response with its freshness bookkeeping. The
// expiry marker is kept in the value rather than as a Redis TTL so lazy
// per-read expiry and the daily sweep see the same clock.
type cacheEntry struct {
	Response  dto.SuggestionResponse `json:"response"`
	StoredAt  int64                  `json:"stored_at"` // unix ms
	ExpiresAt int64                  `json:"expires_at"`
}

// SuggestionCacheService serves previously computed analyses keyed by a
// fingerprint of (text, user).
type SuggestionCacheService struct {
	appContext.DefaultService

	kv kvStore

	closed chan struct{}
}

const SUGGESTION_CACHE_SVC = "suggestion_cache_svc"

func (svc SuggestionCacheService) Id() string {
	return SUGGESTION_CACHE_SVC
}

func (svc *SuggestionCacheService) Configure(ctx *appContext.Context) error {
	svc.closed = make(chan struct{}, 1)
	return svc.DefaultService.Configure(ctx)
}

func (svc *SuggestionCacheService) Start() error {
	svc.kv = svc.Service(REDIS_SVC).(*RedisService)

	go svc.startSweepJob()

	return nil
}

func (svc *SuggestionCacheService) Shutdown() {
	svc.closed <- struct{}{}
}

// Fingerprint derives the cache key for a text/user pair. Text is trimmed
// and lowercased before hashing so trivially reformatted resubmissions hit.
// The user id is appended so identical text from different users never
// shares an entry; suggestions may one day vary per user preference.
func (svc *SuggestionCacheService) Fingerprint(text, userID string) string {
	normalized := strings.ToLower(strings.TrimSpace(text))
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:]) + ":" + userID
}

// Get returns the cached response for key, or nil on miss. An entry older
// than the freshness window counts as a miss and is deleted on the spot.
// A hit comes back with Cached=true and ProcessingTime=0; the time the
// original computation took is not replayed.
func (svc *SuggestionCacheService) Get(ctx context.Context, key string) *dto.SuggestionResponse {
	raw, err := svc.kv.Get(ctx, cacheKeyPrefix+key)
	if err != nil {
		// Store trouble degrades to a miss; the pipeline recomputes.
		log.WithError(err).Warn("Suggestion cache read failed")
		return nil
	}
	if raw == "" {
		return nil
	}

	var entry cacheEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		log.WithError(err).Warn("Corrupt suggestion cache entry, dropping")
		_ = svc.kv.Delete(ctx, cacheKeyPrefix+key)
		return nil
	}

	age := time.Now().UnixMilli() - entry.StoredAt
	if age >= CacheFreshness.Milliseconds() {
		if err := svc.kv.Delete(ctx, cacheKeyPrefix+key); err != nil {
			log.WithError(err).Warn("Failed to delete expired cache entry")
		}
		return nil
	}

	response := entry.Response
	response.Cached = true
	response.ProcessingTime = 0
	return &response
}

// Put stores response under key, overwriting whatever is there. Concurrent
// misses for the same key both write; last writer wins, which costs a
// duplicate model call and nothing else.
func (svc *SuggestionCacheService) Put(ctx context.Context, key string, response *dto.SuggestionResponse) error {
	now := time.Now()
	entry := cacheEntry{
		Response:  *response,
		StoredAt:  now.UnixMilli(),
		ExpiresAt: now.Add(CacheFreshness).UnixMilli(),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	return svc.kv.Set(ctx, cacheKeyPrefix+key, data, 0)
}

// SweepExpired deletes entries whose expiry marker has passed. Backstop for
// entries never re-read after going stale; lazy expiry in Get handles the
// rest.
func (svc *SuggestionCacheService) SweepExpired(ctx context.Context) (int, error) {
	keys, err := svc.kv.Keys(ctx, cacheKeyPrefix+"*")
	if err != nil {
		return 0, err
	}

	nowMs := time.Now().UnixMilli()
	removed := 0

	for _, key := range keys {
		raw, err := svc.kv.Get(ctx, key)
		if err != nil || raw == "" {
			continue
		}

		var entry cacheEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			_ = svc.kv.Delete(ctx, key)
			removed++
			continue
		}

		if entry.ExpiresAt <= nowMs {
			if err := svc.kv.Delete(ctx, key); err != nil {
				log.WithError(err).WithField("key", key).Warn("Cache sweep delete failed")
				continue
			}
			removed++
		}
	}

	return removed, nil
}

func (svc *SuggestionCacheService) startSweepJob() {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			removed, err := svc.SweepExpired(context.Background())
			if err != nil {
				log.WithError(err).Error("Suggestion cache sweep failed")
				continue
			}
			log.WithField("removed", removed).Info("Suggestion cache sweep completed")
		case <-svc.closed:
			return
		}
	}
}
