package kvstore

import (
	"context"
	"testing"
)

func TestLocalStoreLifecycle(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error creating store: %v", err)
	}
	ctx := context.Background()

	if _, ok, err := store.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected absent key, ok=%v err=%v", ok, err)
	}

	if err := store.Set(ctx, "draft:customer-create", `{"name":"Ali"}`); err != nil {
		t.Fatalf("unexpected set error: %v", err)
	}

	value, ok, err := store.Get(ctx, "draft:customer-create")
	if err != nil || !ok {
		t.Fatalf("expected stored key, ok=%v err=%v", ok, err)
	}
	if value != `{"name":"Ali"}` {
		t.Fatalf("unexpected value: %s", value)
	}

	if err := store.Remove(ctx, "draft:customer-create"); err != nil {
		t.Fatalf("unexpected remove error: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "draft:customer-create"); ok {
		t.Fatal("expected key to be removed")
	}

	// removing again is not an error
	if err := store.Remove(ctx, "draft:customer-create"); err != nil {
		t.Fatalf("expected idempotent remove, got %v", err)
	}
}

func TestLocalStoreListKeysFiltersByPrefix(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error creating store: %v", err)
	}
	ctx := context.Background()

	pairs := map[string]string{
		"draft:customer-create": "{}",
		"draft:order-edit/9":    "{}",
		"session:current":       "{}",
	}
	for key, value := range pairs {
		if err := store.Set(ctx, key, value); err != nil {
			t.Fatalf("unexpected set error for %s: %v", key, err)
		}
	}

	keys, err := store.ListKeys(ctx, "draft:")
	if err != nil {
		t.Fatalf("unexpected list error: %v", err)
	}
	if len(keys) != 2 {
		t.Fatalf("expected 2 draft keys, got %v", keys)
	}
	for _, key := range keys {
		if _, ok := pairs[key]; !ok {
			t.Fatalf("listed key %q was never stored", key)
		}
	}

	all, err := store.ListKeys(ctx, "")
	if err != nil {
		t.Fatalf("unexpected list error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 keys in total, got %v", all)
	}
}
