package formcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"wiremill/internal/kvstore"
)

// keyPrefix namespaces draft entries inside the shared key-value store.
// ClearExpired and ClearAll only ever touch keys under this prefix.
const keyPrefix = "draft:"

var (
	errDraftExpired = errors.New("draft expired")
	errDraftCorrupt = errors.New("draft corrupt")
)

type draftEnvelope struct {
	Data      map[string]interface{} `json:"data"`
	SavedAt   time.Time              `json:"saved_at"`
	ExpiresAt time.Time              `json:"expires_at"`
}

// Cache stores in-progress form input keyed by form id. Every public
// method is best-effort: storage failures degrade to a no-op plus a
// diagnostic log entry, never an error the caller must handle. The
// internal lower-case methods return errors so the failure paths stay
// observable in tests.
type Cache struct {
	kv     kvstore.Store
	ttl    time.Duration
	window time.Duration

	mu      sync.Mutex
	timers  map[string]*time.Timer
	pending map[string]map[string]interface{}

	now func() time.Time
}

// New 创建表单草稿缓存。
func New(kv kvstore.Store, ttl, debounceWindow time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if debounceWindow <= 0 {
		debounceWindow = 500 * time.Millisecond
	}
	return &Cache{
		kv:      kv,
		ttl:     ttl,
		window:  debounceWindow,
		timers:  make(map[string]*time.Timer),
		pending: make(map[string]map[string]interface{}),
		now:     time.Now,
	}
}

// Save overwrites the draft for formID with a fresh save timestamp and
// expiry.
func (c *Cache) Save(ctx context.Context, formID string, data map[string]interface{}) {
	if err := c.save(ctx, formID, data); err != nil {
		logrus.WithError(err).WithField("form_id", formID).Debug("draft save failed")
	}
}

func (c *Cache) save(ctx context.Context, formID string, data map[string]interface{}) error {
	savedAt := c.now()
	envelope := draftEnvelope{
		Data:      data,
		SavedAt:   savedAt,
		ExpiresAt: savedAt.Add(c.ttl),
	}
	raw, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	if err := c.kv.Set(ctx, keyPrefix+formID, string(raw)); err != nil {
		return fmt.Errorf("store draft: %w", err)
	}
	return nil
}

// Load returns the cached field mapping for formID, or nil when the
// draft is absent, corrupt or expired. Corrupt and expired entries are
// purged as a side effect of being observed.
func (c *Cache) Load(ctx context.Context, formID string) map[string]interface{} {
	data, err := c.load(ctx, formID)
	if err != nil && !errors.Is(err, errDraftExpired) && !errors.Is(err, errDraftCorrupt) {
		logrus.WithError(err).WithField("form_id", formID).Debug("draft load failed")
	}
	return data
}

func (c *Cache) load(ctx context.Context, formID string) (map[string]interface{}, error) {
	raw, ok, err := c.kv.Get(ctx, keyPrefix+formID)
	if err != nil {
		return nil, fmt.Errorf("read draft: %w", err)
	}
	if !ok {
		return nil, nil
	}

	var envelope draftEnvelope
	if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
		c.remove(ctx, formID)
		return nil, errDraftCorrupt
	}
	if !c.now().Before(envelope.ExpiresAt) {
		c.remove(ctx, formID)
		return nil, errDraftExpired
	}
	return envelope.Data, nil
}

// Clear removes the draft unconditionally; clearing an absent draft is
// a no-op.
func (c *Cache) Clear(ctx context.Context, formID string) {
	c.cancelPending(formID)
	c.remove(ctx, formID)
}

// ClearExpired sweeps every stored draft and removes the expired ones.
// Run once at process start. Individual corrupt entries are purged
// without aborting the scan, and keys outside the draft prefix are
// never touched.
func (c *Cache) ClearExpired(ctx context.Context) {
	keys, err := c.kv.ListKeys(ctx, keyPrefix)
	if err != nil {
		logrus.WithError(err).Debug("draft sweep failed")
		return
	}

	for _, key := range keys {
		raw, ok, err := c.kv.Get(ctx, key)
		if err != nil || !ok {
			continue
		}
		var envelope draftEnvelope
		if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
			c.removeKey(ctx, key)
			continue
		}
		if !c.now().Before(envelope.ExpiresAt) {
			c.removeKey(ctx, key)
		}
	}
}

// ClearAll removes every draft regardless of expiry.
func (c *Cache) ClearAll(ctx context.Context) {
	c.mu.Lock()
	for formID, timer := range c.timers {
		timer.Stop()
		delete(c.timers, formID)
		delete(c.pending, formID)
	}
	c.mu.Unlock()

	keys, err := c.kv.ListKeys(ctx, keyPrefix)
	if err != nil {
		logrus.WithError(err).Debug("draft clear-all failed")
		return
	}
	for _, key := range keys {
		c.removeKey(ctx, key)
	}
}

func (c *Cache) remove(ctx context.Context, formID string) {
	c.removeKey(ctx, keyPrefix+formID)
}

func (c *Cache) removeKey(ctx context.Context, key string) {
	if err := c.kv.Remove(ctx, key); err != nil {
		logrus.WithError(err).WithField("key", key).Debug("draft remove failed")
	}
}
