package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"wiremill/internal/entity"
	"wiremill/internal/kvstore"
)

// sessionKey is the single well-known storage key. There is at most one
// persisted session per key-value namespace; a new sign-in replaces it.
const sessionKey = "session:current"

const (
	// EventSignedIn is broadcast after a session has been persisted.
	EventSignedIn = "SIGNED_IN"
	// EventSignedOut is broadcast after the session has been removed.
	EventSignedOut = "SIGNED_OUT"
)

var (
	// ErrInvalidCredentials covers unknown email, inactive account and
	// password mismatch alike; callers must not distinguish them.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrStoreUnavailable indicates the user table or the key-value
	// store could not be reached.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// Session is the signed-in identity plus its validity window. The user
// summary carries no credential material.
type Session struct {
	User        entity.UserSummary `json:"user"`
	AccessToken string             `json:"access_token"`
	ExpiresAt   time.Time          `json:"expires_at"`
}

// UserFinder is the slice of the repository the session store needs.
type UserFinder interface {
	GetUserByEmail(ctx context.Context, email string) (*entity.DbUser, error)
}

// Listener receives session change notifications.
type Listener func(event string, session *Session)

type subscriber struct {
	id int
	fn Listener
}

// Store manages the single persisted session: credential verification,
// token issue, lazy expiry eviction and synchronous change
// notification.
type Store struct {
	users UserFinder
	kv    kvstore.Store
	ttl   time.Duration

	mu     sync.Mutex
	subs   []subscriber
	nextID int

	now func() time.Time
}

// NewStore 创建会话存储实例。
func NewStore(users UserFinder, kv kvstore.Store, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Store{
		users: users,
		kv:    kv,
		ttl:   ttl,
		now:   time.Now,
	}
}

// SignIn verifies the credentials, persists a fresh session under the
// well-known key (replacing any previous one) and broadcasts the change
// to all subscribers before returning.
func (s *Store) SignIn(ctx context.Context, email, password string) (*Session, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetUserByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	if err := VerifyPassword(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := newAccessToken()
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	session := &Session{
		User:        entity.MakeUserSummary(user),
		AccessToken: token,
		ExpiresAt:   s.now().Add(s.ttl),
	}

	raw, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	if err := s.kv.Set(ctx, sessionKey, string(raw)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	s.broadcast(EventSignedIn, session)
	return session, nil
}

// SignOut removes the persisted session and broadcasts a nil session.
// It is idempotent; calling it with no active session is not an error,
// and a storage failure is logged rather than surfaced so the caller's
// state still converges to signed out.
func (s *Store) SignOut(ctx context.Context) {
	if err := s.kv.Remove(ctx, sessionKey); err != nil {
		logrus.WithError(err).Warn("failed to remove stored session")
	}
	s.broadcast(EventSignedOut, nil)
}

// CurrentSession returns the persisted session, or nil when there is
// none. Expired or unreadable entries are evicted here; this is the
// only place expiry is enforced.
func (s *Store) CurrentSession(ctx context.Context) *Session {
	raw, ok, err := s.kv.Get(ctx, sessionKey)
	if err != nil {
		logrus.WithError(err).Warn("failed to read stored session")
		return nil
	}
	if !ok {
		return nil
	}

	var session Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		logrus.WithError(err).Warn("stored session is malformed, purging")
		s.evict(ctx)
		return nil
	}

	if !s.now().Before(session.ExpiresAt) {
		s.evict(ctx)
		return nil
	}
	return &session
}

// CurrentUser returns the signed-in user, or nil when there is no valid
// session.
func (s *Store) CurrentUser(ctx context.Context) *entity.UserSummary {
	session := s.CurrentSession(ctx)
	if session == nil {
		return nil
	}
	user := session.User
	return &user
}

// Subscribe registers a listener for session changes and returns its
// unsubscribe function. Delivery is synchronous, in registration order,
// and in-process only; cross-process propagation is out of scope.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscriber{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) broadcast(event string, session *Session) {
	s.mu.Lock()
	subs := make([]subscriber, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(event, session)
	}
}

func (s *Store) evict(ctx context.Context) {
	if err := s.kv.Remove(ctx, sessionKey); err != nil {
		logrus.WithError(err).Warn("failed to evict stored session")
	}
}

func newAccessToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
