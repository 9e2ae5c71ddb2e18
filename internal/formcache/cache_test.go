package formcache

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"wiremill/internal/kvstore"
)

func newTestCache(t *testing.T) (*Cache, kvstore.Store) {
	t.Helper()
	kv, err := kvstore.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error creating kv store: %v", err)
	}
	return New(kv, 24*time.Hour, 20*time.Millisecond), kv
}

func TestDraftRoundTrip(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	data := map[string]interface{}{
		"name":     "Ali",
		"city":     "Lahore",
		"quantity": 12.5,
	}
	cache.Save(ctx, "customer-edit-7", data)

	loaded := cache.Load(ctx, "customer-edit-7")
	if !reflect.DeepEqual(loaded, data) {
		t.Fatalf("expected %v, got %v", data, loaded)
	}
}

func TestLoadAbsentDraft(t *testing.T) {
	cache, _ := newTestCache(t)
	if cache.Load(context.Background(), "never-saved") != nil {
		t.Fatal("expected nil for absent draft")
	}
}

func TestDraftExpiryPurgesEntry(t *testing.T) {
	cache, kv := newTestCache(t)
	ctx := context.Background()

	cache.Save(ctx, "inventory-edit-3", map[string]interface{}{"quantity": 40.0})

	cache.now = func() time.Time { return time.Now().Add(24*time.Hour + time.Millisecond) }

	if cache.Load(ctx, "inventory-edit-3") != nil {
		t.Fatal("expected expired draft to be treated as absent")
	}
	// The entry must be purged, not just masked.
	if _, ok, err := kv.Get(ctx, "draft:inventory-edit-3"); err != nil || ok {
		t.Fatalf("expected expired draft to be removed from storage, ok=%v err=%v", ok, err)
	}
	if cache.Load(ctx, "inventory-edit-3") != nil {
		t.Fatal("expected second load to still be nil")
	}
}

func TestCorruptDraftIsPurged(t *testing.T) {
	cache, kv := newTestCache(t)
	ctx := context.Background()

	if err := kv.Set(ctx, "draft:broken", "{not json"); err != nil {
		t.Fatalf("unexpected kv error: %v", err)
	}

	if cache.Load(ctx, "broken") != nil {
		t.Fatal("expected corrupt draft to be treated as absent")
	}
	if _, ok, err := kv.Get(ctx, "draft:broken"); err != nil || ok {
		t.Fatalf("expected corrupt draft to be purged, ok=%v err=%v", ok, err)
	}
}

func TestDebouncedSaveCoalescesWrites(t *testing.T) {
	cache, kv := newTestCache(t)
	ctx := context.Background()

	cache.SaveDebounced("customer-create", map[string]interface{}{"name": "Ali"})
	cache.SaveDebounced("customer-create", map[string]interface{}{"name": "Ali Khan"})

	time.Sleep(80 * time.Millisecond)

	keys, err := kv.ListKeys(ctx, "draft:")
	if err != nil {
		t.Fatalf("unexpected list error: %v", err)
	}
	if len(keys) != 1 || keys[0] != "draft:customer-create" {
		t.Fatalf("expected exactly one stored draft, got %v", keys)
	}

	loaded := cache.Load(ctx, "customer-create")
	if loaded == nil || loaded["name"] != "Ali Khan" {
		t.Fatalf("expected latest value to win, got %v", loaded)
	}
}

func TestFlushPersistsImmediately(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	cache.SaveDebounced("order-create", map[string]interface{}{"order_number": "WM-1001"})
	cache.Flush("order-create")

	loaded := cache.Load(ctx, "order-create")
	if loaded == nil || loaded["order_number"] != "WM-1001" {
		t.Fatalf("expected flushed draft to be readable, got %v", loaded)
	}
}

func TestClearRemovesDraftAndPendingSave(t *testing.T) {
	cache, kv := newTestCache(t)
	ctx := context.Background()

	cache.Save(ctx, "sale-create", map[string]interface{}{"amount": 900.0})
	cache.SaveDebounced("sale-create", map[string]interface{}{"amount": 950.0})
	cache.Clear(ctx, "sale-create")

	time.Sleep(80 * time.Millisecond)

	if cache.Load(ctx, "sale-create") != nil {
		t.Fatal("expected cleared draft to stay gone")
	}
	if _, ok, err := kv.Get(ctx, "draft:sale-create"); err != nil || ok {
		t.Fatalf("expected no stored entry after clear, ok=%v err=%v", ok, err)
	}
}

func TestClearExpiredSweep(t *testing.T) {
	cache, kv := newTestCache(t)
	ctx := context.Background()

	cache.Save(ctx, "fresh", map[string]interface{}{"a": "1"})

	// 过期草稿
	cache.now = func() time.Time { return time.Now().Add(-25 * time.Hour) }
	cache.Save(ctx, "stale", map[string]interface{}{"b": "2"})
	cache.now = time.Now

	if err := kv.Set(ctx, "draft:mangled", "???"); err != nil {
		t.Fatalf("unexpected kv error: %v", err)
	}
	// 同一存储中的非草稿键不得被清理
	if err := kv.Set(ctx, "session:current", "{}"); err != nil {
		t.Fatalf("unexpected kv error: %v", err)
	}

	cache.ClearExpired(ctx)

	if cache.Load(ctx, "fresh") == nil {
		t.Fatal("expected unexpired draft to survive the sweep")
	}
	if _, ok, _ := kv.Get(ctx, "draft:stale"); ok {
		t.Fatal("expected expired draft to be swept")
	}
	if _, ok, _ := kv.Get(ctx, "draft:mangled"); ok {
		t.Fatal("expected corrupt draft to be swept without aborting the scan")
	}
	if _, ok, _ := kv.Get(ctx, "session:current"); !ok {
		t.Fatal("sweep must not remove keys outside the draft prefix")
	}
}

func TestClearAll(t *testing.T) {
	cache, kv := newTestCache(t)
	ctx := context.Background()

	cache.Save(ctx, "one", map[string]interface{}{"a": "1"})
	cache.Save(ctx, "two", map[string]interface{}{"b": "2"})
	if err := kv.Set(ctx, "session:current", "{}"); err != nil {
		t.Fatalf("unexpected kv error: %v", err)
	}

	cache.ClearAll(ctx)

	keys, err := kv.ListKeys(ctx, "draft:")
	if err != nil {
		t.Fatalf("unexpected list error: %v", err)
	}
	if len(keys) != 0 {
		t.Fatalf("expected no drafts left, got %v", keys)
	}
	if _, ok, _ := kv.Get(ctx, "session:current"); !ok {
		t.Fatal("clear-all must not remove keys outside the draft prefix")
	}
}

type failingKV struct{}

func (failingKV) Get(ctx context.Context, key string) (string, bool, error) {
	return "", false, errors.New("kv offline")
}

func (failingKV) Set(ctx context.Context, key, value string) error {
	return errors.New("kv offline")
}

func (failingKV) Remove(ctx context.Context, key string) error {
	return errors.New("kv offline")
}

func (failingKV) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	return nil, errors.New("kv offline")
}

func TestStorageFailuresDegradeToNoop(t *testing.T) {
	cache := New(failingKV{}, 24*time.Hour, 20*time.Millisecond)
	ctx := context.Background()

	// 公共接口不抛错
	cache.Save(ctx, "any", map[string]interface{}{"a": "1"})
	if cache.Load(ctx, "any") != nil {
		t.Fatal("expected nil on storage failure")
	}
	cache.Clear(ctx, "any")
	cache.ClearExpired(ctx)
	cache.ClearAll(ctx)

	// 内部路径仍可观察到失败
	if err := cache.save(ctx, "any", map[string]interface{}{"a": "1"}); err == nil {
		t.Fatal("expected internal save to report the failure")
	}
	if _, err := cache.load(ctx, "any"); err == nil {
		t.Fatal("expected internal load to report the failure")
	}
}
