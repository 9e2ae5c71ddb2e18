package audit

import (
	"context"
	"errors"
	"testing"

	"wiremill/internal/entity"
)

type fakeLogStore struct {
	entries []entity.DbActivityLog
	err     error
}

func (f *fakeLogStore) CreateActivityLog(ctx context.Context, entry *entity.DbActivityLog) error {
	if f.err != nil {
		return f.err
	}
	stored := *entry
	stored.ID = uint(len(f.entries) + 1)
	f.entries = append(f.entries, stored)
	return nil
}

func (f *fakeLogStore) ListActivityLogs(ctx context.Context, params *entity.ActivityLogQuery) ([]entity.DbActivityLog, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []entity.DbActivityLog
	for i := len(f.entries) - 1; i >= 0; i-- {
		entry := f.entries[i]
		if params.ActionKind != "" && entry.ActionKind != params.ActionKind {
			continue
		}
		if params.EntityKind != "" && entry.EntityKind != params.EntityKind {
			continue
		}
		if params.UserID != 0 && entry.UserID != params.UserID {
			continue
		}
		out = append(out, entry)
		if params.Limit > 0 && len(out) >= params.Limit {
			break
		}
	}
	return out, nil
}

type fakeSessionSource struct {
	user *entity.UserSummary
}

func (f *fakeSessionSource) CurrentUser(ctx context.Context) *entity.UserSummary {
	return f.user
}

func TestRecordCapturesActorSnapshot(t *testing.T) {
	store := &fakeLogStore{}
	recorder := NewRecorder(store, &fakeSessionSource{user: &entity.UserSummary{ID: 7, DisplayName: "Nadia"}})

	recorder.Record(context.Background(), entity.ActionCreate, entity.EntityKindCustomer, "12", "Khan Traders",
		entity.JSONMap{"credit_limit": 50000})

	if len(store.entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(store.entries))
	}
	entry := store.entries[0]
	if entry.UserID != 7 || entry.UserName != "Nadia" {
		t.Fatalf("expected actor snapshot, got id=%d name=%q", entry.UserID, entry.UserName)
	}
	if entry.EntityName != "Khan Traders" {
		t.Fatalf("expected entity name snapshot, got %q", entry.EntityName)
	}
}

func TestRecordWithoutSessionUsesSentinel(t *testing.T) {
	store := &fakeLogStore{}
	recorder := NewRecorder(store, &fakeSessionSource{})

	recorder.Record(context.Background(), entity.ActionDelete, entity.EntityKindProduct, "3", "Copper 2.5mm", nil)

	entry := store.entries[0]
	if entry.UserID != 0 || entry.UserName != UnknownUserName {
		t.Fatalf("expected unknown-user sentinel, got id=%d name=%q", entry.UserID, entry.UserName)
	}
}

func TestRecordFailureIsSwallowed(t *testing.T) {
	store := &fakeLogStore{err: errors.New("log table gone")}
	recorder := NewRecorder(store, &fakeSessionSource{})

	// 公共接口不向调用方报告失败
	recorder.Record(context.Background(), entity.ActionCreate, entity.EntityKindOrder, "1", "WM-1001", nil)

	// 内部路径仍可观察到失败
	if err := recorder.record(context.Background(), entity.ActionCreate, entity.EntityKindOrder, "1", "WM-1001", nil); err == nil {
		t.Fatal("expected internal record to report the failure")
	}
}

func TestListEntriesNewestFirst(t *testing.T) {
	store := &fakeLogStore{}
	recorder := NewRecorder(store, &fakeSessionSource{})
	ctx := context.Background()

	recorder.Record(ctx, entity.ActionCreate, entity.EntityKindCustomer, "1", "E1", nil)
	recorder.Record(ctx, entity.ActionUpdate, entity.EntityKindOrder, "2", "E2", nil)
	recorder.Record(ctx, entity.ActionDelete, entity.EntityKindSale, "3", "E3", nil)

	entries, err := recorder.ListEntries(ctx, 10, entity.ActivityLogQuery{})
	if err != nil {
		t.Fatalf("unexpected list error: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	for i, want := range []string{"E3", "E2", "E1"} {
		if entries[i].EntityName != want {
			t.Fatalf("expected %s at position %d, got %s", want, i, entries[i].EntityName)
		}
	}
}

func TestListEntriesFiltersCombineWithAnd(t *testing.T) {
	store := &fakeLogStore{}
	recorder := NewRecorder(store, &fakeSessionSource{})
	ctx := context.Background()

	recorder.Record(ctx, entity.ActionCreate, entity.EntityKindOrder, "1", "order create", nil)
	recorder.Record(ctx, entity.ActionUpdate, entity.EntityKindOrder, "1", "order update", nil)
	recorder.Record(ctx, entity.ActionCreate, entity.EntityKindCustomer, "2", "customer create", nil)

	entries, err := recorder.ListEntries(ctx, 10, entity.ActivityLogQuery{
		ActionKind: entity.ActionCreate,
		EntityKind: entity.EntityKindOrder,
	})
	if err != nil {
		t.Fatalf("unexpected list error: %v", err)
	}
	if len(entries) != 1 || entries[0].EntityName != "order create" {
		t.Fatalf("expected exactly the CREATE/Order entry, got %v", entries)
	}
}
