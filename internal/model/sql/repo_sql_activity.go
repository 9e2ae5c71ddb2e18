package sql

import (
	"context"
	"fmt"
	"strings"
	"wiremill/internal/entity"
)

// CreateActivityLog appends one activity record. Records are never
// updated or deleted afterwards.
func (r *GormRepository) CreateActivityLog(ctx context.Context, log *entity.DbActivityLog) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if log == nil {
		return fmt.Errorf("activity log is nil")
	}
	return r.db.WithContext(ctx).Create(log).Error
}

// ListActivityLogs returns activity records newest first. All supplied
// filters are combined with AND.
func (r *GormRepository) ListActivityLogs(ctx context.Context, params *entity.ActivityLogQuery) ([]entity.DbActivityLog, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}

	query := r.db.WithContext(ctx).Model(&entity.DbActivityLog{})
	limit := 50
	if params != nil {
		if action := strings.TrimSpace(params.ActionKind); action != "" {
			query = query.Where("action_kind = ?", action)
		}
		if kind := strings.TrimSpace(params.EntityKind); kind != "" {
			query = query.Where("entity_kind = ?", kind)
		}
		if params.UserID > 0 {
			query = query.Where("user_id = ?", params.UserID)
		}
		if params.Limit > 0 {
			limit = params.Limit
		}
	}

	var logs []entity.DbActivityLog
	if err := query.Order("id DESC").Limit(limit).Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
