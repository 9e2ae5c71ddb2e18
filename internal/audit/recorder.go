package audit

import (
	"context"

	"github.com/sirupsen/logrus"

	"wiremill/internal/entity"
)

// UnknownUserName is recorded when a mutation happens with no signed-in
// session.
const UnknownUserName = "Unknown User"

// Store is the slice of the repository the recorder needs. Activity
// logs are append-only: there is deliberately no update or delete.
type Store interface {
	CreateActivityLog(ctx context.Context, entry *entity.DbActivityLog) error
	ListActivityLogs(ctx context.Context, params *entity.ActivityLogQuery) ([]entity.DbActivityLog, error)
}

// CurrentUserSource resolves the acting user. The session store is
// passed in explicitly so the recorder never reaches into ambient
// state.
type CurrentUserSource interface {
	CurrentUser(ctx context.Context) *entity.UserSummary
}

// Recorder writes one activity-log entry per confirmed mutation. The
// write is best-effort: it runs after the primary mutation is durable
// and its own failure is logged, never propagated, so an audit outage
// cannot block business operations.
type Recorder struct {
	repo     Store
	sessions CurrentUserSource
}

// NewRecorder 创建审计记录器。
func NewRecorder(repo Store, sessions CurrentUserSource) *Recorder {
	return &Recorder{repo: repo, sessions: sessions}
}

// Record appends one entry describing a mutation. Entity and user names
// are captured as snapshots at write time.
func (r *Recorder) Record(ctx context.Context, action, entityKind, entityID, entityName string, details entity.JSONMap) {
	if err := r.record(ctx, action, entityKind, entityID, entityName, details); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"action":      action,
			"entity_kind": entityKind,
			"entity_id":   entityID,
		}).Warn("failed to write activity log entry")
	}
}

func (r *Recorder) record(ctx context.Context, action, entityKind, entityID, entityName string, details entity.JSONMap) error {
	entry := &entity.DbActivityLog{
		ActionKind: action,
		EntityKind: entityKind,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    details,
		UserName:   UnknownUserName,
	}
	if user := r.sessions.CurrentUser(ctx); user != nil {
		entry.UserID = user.ID
		entry.UserName = user.DisplayName
		if entry.UserName == "" {
			entry.UserName = user.Email
		}
	}
	return r.repo.CreateActivityLog(ctx, entry)
}

// ListEntries returns entries newest first. Filters combine with AND
// semantics.
func (r *Recorder) ListEntries(ctx context.Context, limit int, query entity.ActivityLogQuery) ([]entity.DbActivityLog, error) {
	if limit <= 0 {
		limit = 50
	}
	query.Limit = limit
	return r.repo.ListActivityLogs(ctx, &query)
}
