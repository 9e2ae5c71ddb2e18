package auth

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"

	"wiremill/internal/entity"
	"wiremill/internal/kvstore"
)

type fakeUserFinder struct {
	users map[string]*entity.DbUser
	err   error
}

func (f *fakeUserFinder) GetUserByEmail(ctx context.Context, email string) (*entity.DbUser, error) {
	if f.err != nil {
		return nil, f.err
	}
	user, ok := f.users[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
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

func newTestStore(t *testing.T) (*Store, kvstore.Store) {
	t.Helper()

	kv, err := kvstore.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error creating kv store: %v", err)
	}

	hash, err := HashPassword("Admin@123")
	if err != nil {
		t.Fatalf("unexpected error hashing password: %v", err)
	}

	finder := &fakeUserFinder{users: map[string]*entity.DbUser{
		"admin@example.com": {
			ID:           1,
			Email:        "admin@example.com",
			PasswordHash: hash,
			DisplayName:  "Administrator",
			Role:         entity.UserRoleAdmin,
			IsActive:     true,
		},
		"closed@example.com": {
			ID:           2,
			Email:        "closed@example.com",
			PasswordHash: hash,
			DisplayName:  "Former Employee",
			Role:         entity.UserRoleStaff,
			IsActive:     false,
		},
	}}

	return NewStore(finder, kv, 7*24*time.Hour), kv
}

func TestSignInSuccess(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	session, err := store.SignIn(ctx, "Admin@Example.COM", "Admin@123")
	if err != nil {
		t.Fatalf("unexpected sign-in error: %v", err)
	}
	if session.User.Email != "admin@example.com" {
		t.Fatalf("expected normalized email, got %s", session.User.Email)
	}
	if session.AccessToken == "" {
		t.Fatal("expected access token to be populated")
	}
	if !session.ExpiresAt.After(time.Now()) {
		t.Fatal("expected future expiry")
	}

	current := store.CurrentUser(ctx)
	if current == nil || current.ID != session.User.ID {
		t.Fatal("expected current user to match signed-in user immediately")
	}
}

func TestSignInNeverLeaksPasswordHash(t *testing.T) {
	store, kv := newTestStore(t)
	ctx := context.Background()

	session, err := store.SignIn(ctx, "admin@example.com", "Admin@123")
	if err != nil {
		t.Fatalf("unexpected sign-in error: %v", err)
	}

	raw, err := json.Marshal(session)
	if err != nil {
		t.Fatalf("unexpected marshal error: %v", err)
	}
	if strings.Contains(string(raw), "password_hash") {
		t.Fatal("session payload must not contain credential material")
	}

	stored, ok, err := kv.Get(ctx, "session:current")
	if err != nil || !ok {
		t.Fatalf("expected stored session, ok=%v err=%v", ok, err)
	}
	if strings.Contains(stored, "password_hash") {
		t.Fatal("stored session must not contain credential material")
	}
}

func TestSignInWrongPasswordLeavesStoredSessionUnchanged(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	first, err := store.SignIn(ctx, "admin@example.com", "Admin@123")
	if err != nil {
		t.Fatalf("unexpected sign-in error: %v", err)
	}

	if _, err := store.SignIn(ctx, "admin@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	current := store.CurrentSession(ctx)
	if current == nil || current.AccessToken != first.AccessToken {
		t.Fatal("failed sign-in must not replace the stored session")
	}
}

func TestSignInFailureIsIndistinguishable(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, unknownErr := store.SignIn(ctx, "nobody@example.com", "Admin@123")
	_, mismatchErr := store.SignIn(ctx, "admin@example.com", "wrong")
	_, inactiveErr := store.SignIn(ctx, "closed@example.com", "Admin@123")

	for name, err := range map[string]error{
		"unknown email":    unknownErr,
		"bad password":     mismatchErr,
		"inactive account": inactiveErr,
	} {
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("%s: expected ErrInvalidCredentials, got %v", name, err)
		}
	}
}

func TestSignInStoreUnavailable(t *testing.T) {
	hash, err := HashPassword("Admin@123")
	if err != nil {
		t.Fatalf("unexpected error hashing password: %v", err)
	}
	finder := &fakeUserFinder{users: map[string]*entity.DbUser{
		"admin@example.com": {ID: 1, Email: "admin@example.com", PasswordHash: hash, IsActive: true},
	}}
	store := NewStore(finder, failingKV{}, time.Hour)

	notified := false
	store.Subscribe(func(event string, session *Session) { notified = true })

	if _, err := store.SignIn(context.Background(), "admin@example.com", "Admin@123"); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	if notified {
		t.Fatal("failed sign-in must not broadcast a session change")
	}
}

func TestSessionExpiryIsLazyAndAbsolute(t *testing.T) {
	store, kv := newTestStore(t)
	ctx := context.Background()

	if _, err := store.SignIn(ctx, "admin@example.com", "Admin@123"); err != nil {
		t.Fatalf("unexpected sign-in error: %v", err)
	}

	// 时间推进到过期点之后
	store.now = func() time.Time { return time.Now().Add(7*24*time.Hour + time.Millisecond) }

	if session := store.CurrentSession(ctx); session != nil {
		t.Fatal("expected expired session to be treated as absent")
	}
	if user := store.CurrentUser(ctx); user != nil {
		t.Fatal("expected CurrentUser to observe expiry too")
	}

	if _, ok, err := kv.Get(ctx, "session:current"); err != nil || ok {
		t.Fatalf("expected expired session to be purged from storage, ok=%v err=%v", ok, err)
	}
}

func TestMalformedStoredSessionIsPurged(t *testing.T) {
	store, kv := newTestStore(t)
	ctx := context.Background()

	if err := kv.Set(ctx, "session:current", "{not json"); err != nil {
		t.Fatalf("unexpected kv error: %v", err)
	}

	if session := store.CurrentSession(ctx); session != nil {
		t.Fatal("expected malformed session to be treated as absent")
	}
	if _, ok, err := kv.Get(ctx, "session:current"); err != nil || ok {
		t.Fatalf("expected malformed session to be purged, ok=%v err=%v", ok, err)
	}
}

func TestRepeatedSignInReplacesSession(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	first, err := store.SignIn(ctx, "admin@example.com", "Admin@123")
	if err != nil {
		t.Fatalf("unexpected sign-in error: %v", err)
	}
	second, err := store.SignIn(ctx, "admin@example.com", "Admin@123")
	if err != nil {
		t.Fatalf("unexpected sign-in error: %v", err)
	}
	if first.AccessToken == second.AccessToken {
		t.Fatal("expected a fresh token per sign-in")
	}

	current := store.CurrentSession(ctx)
	if current == nil || current.AccessToken != second.AccessToken {
		t.Fatal("expected latest session to win")
	}
}

func TestSignOutIsIdempotentAndBroadcasts(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if _, err := store.SignIn(ctx, "admin@example.com", "Admin@123"); err != nil {
		t.Fatalf("unexpected sign-in error: %v", err)
	}

	var events []string
	store.Subscribe(func(event string, session *Session) {
		if session != nil {
			t.Fatal("sign-out must broadcast a nil session")
		}
		events = append(events, event)
	})

	store.SignOut(ctx)
	store.SignOut(ctx)

	if len(events) != 2 || events[0] != EventSignedOut || events[1] != EventSignedOut {
		t.Fatalf("expected two signed-out events, got %v", events)
	}
	if store.CurrentSession(ctx) != nil {
		t.Fatal("expected no session after sign-out")
	}
}

func TestSubscribeOrderAndUnsubscribe(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	var order []int
	store.Subscribe(func(event string, session *Session) { order = append(order, 1) })
	unsubscribe := store.Subscribe(func(event string, session *Session) { order = append(order, 2) })
	store.Subscribe(func(event string, session *Session) { order = append(order, 3) })

	if _, err := store.SignIn(ctx, "admin@example.com", "Admin@123"); err != nil {
		t.Fatalf("unexpected sign-in error: %v", err)
	}
	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Fatalf("expected registration-order delivery, got %v", order)
	}

	unsubscribe()
	order = order[:0]
	store.SignOut(ctx)
	if len(order) != 2 || order[0] != 1 || order[1] != 3 {
		t.Fatalf("expected unsubscribed listener to be skipped, got %v", order)
	}
}
