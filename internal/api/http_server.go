package api

import (
	"time"
	"wiremill/internal/audit"
	"wiremill/internal/auth"
	"wiremill/internal/config"
	"wiremill/internal/formcache"
	"wiremill/internal/kvstore"
	"wiremill/internal/model"
)

// HTTPHandler HTTP 请求处理器
type HTTPHandler struct {
	cfg      config.Config
	repo     model.Repository
	sessions *auth.Store
	recorder *audit.Recorder
	drafts   *formcache.Cache
}

// NewHTTPHandler 创建 HTTP 处理器实例
func NewHTTPHandler(cfg config.Config, repo model.Repository, kv kvstore.Store) (*HTTPHandler, error) {
	sessionTTL := time.Duration(cfg.SessionTTLHours) * time.Hour
	sessions := auth.NewStore(repo, kv, sessionTTL)

	draftTTL := time.Duration(cfg.DraftTTLHours) * time.Hour
	debounceWindow := time.Duration(cfg.DraftDebounceMsec) * time.Millisecond
	drafts := formcache.New(kv, draftTTL, debounceWindow)

	recorder := audit.NewRecorder(repo, sessions)

	return &HTTPHandler{
		cfg:      cfg,
		repo:     repo,
		sessions: sessions,
		recorder: recorder,
		drafts:   drafts,
	}, nil
}

// Drafts exposes the draft cache for boot-time maintenance.
func (h *HTTPHandler) Drafts() *formcache.Cache {
	return h.drafts
}
