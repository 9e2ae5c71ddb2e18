package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"wiremill/internal/auth"
	"wiremill/internal/entity"
	"wiremill/internal/kvstore"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type stubUserFinder struct {
	user *entity.DbUser
}

func (f *stubUserFinder) GetUserByEmail(ctx context.Context, email string) (*entity.DbUser, error) {
	if f.user == nil || f.user.Email != email {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *f.user
	return &clone, nil
}

func newAuthTestHandler(t *testing.T) (*HTTPHandler, *auth.Store) {
	t.Helper()

	hash, err := auth.HashPassword("Admin@123")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	finder := &stubUserFinder{user: &entity.DbUser{
		ID:           1,
		Email:        "owner@example.com",
		PasswordHash: hash,
		DisplayName:  "Owner",
		Role:         entity.UserRoleAdmin,
		IsActive:     true,
	}}

	kv, err := kvstore.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create kv store: %v", err)
	}

	sessions := auth.NewStore(finder, kv, time.Hour)
	return &HTTPHandler{sessions: sessions}, sessions
}

func protectedRouter(h *HTTPHandler) *gin.Engine {
	router := gin.New()
	router.GET("/api/ping", h.AuthMiddleware(), func(c *gin.Context) {
		user := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"email": user.Email})
	})
	return router
}

func TestAuthMiddlewareAcceptsCurrentSessionToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h, sessions := newAuthTestHandler(t)
	session, err := sessions.SignIn(context.Background(), "owner@example.com", "Admin@123")
	if err != nil {
		t.Fatalf("sign-in failed: %v", err)
	}

	router := protectedRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	req.Header.Set("Authorization", "Bearer "+session.AccessToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAuthMiddlewareRejectsMissingAndStaleTokens(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h, sessions := newAuthTestHandler(t)
	first, err := sessions.SignIn(context.Background(), "owner@example.com", "Admin@123")
	if err != nil {
		t.Fatalf("sign-in failed: %v", err)
	}
	// A second sign-in replaces the stored session; the first token is
	// now stale.
	if _, err := sessions.SignIn(context.Background(), "owner@example.com", "Admin@123"); err != nil {
		t.Fatalf("second sign-in failed: %v", err)
	}

	router := protectedRouter(h)

	cases := []struct {
		name   string
		header string
	}{
		{name: "no header", header: ""},
		{name: "malformed header", header: "Token abc"},
		{name: "stale token", header: "Bearer " + first.AccessToken},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", w.Code)
			}
		})
	}
}

func TestAuthMiddlewareRejectsAfterSignOut(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h, sessions := newAuthTestHandler(t)
	session, err := sessions.SignIn(context.Background(), "owner@example.com", "Admin@123")
	if err != nil {
		t.Fatalf("sign-in failed: %v", err)
	}
	sessions.SignOut(context.Background())

	router := protectedRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	req.Header.Set("Authorization", "Bearer "+session.AccessToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after sign-out, got %d", w.Code)
	}
}
