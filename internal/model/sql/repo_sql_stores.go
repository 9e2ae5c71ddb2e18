package sql

import (
	"context"
	"fmt"
	"strings"
	"wiremill/internal/entity"

	"gorm.io/gorm"
)

// CreateStore persists a new store record.
func (r *GormRepository) CreateStore(ctx context.Context, store *entity.DbStore) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if store == nil {
		return fmt.Errorf("store is nil")
	}
	return r.db.WithContext(ctx).Create(store).Error
}

// UpdateStore updates an existing store entry.
func (r *GormRepository) UpdateStore(ctx context.Context, id uint, updates entity.StoreUpdates) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid store id")
	}
	if updates.IsEmpty() {
		return nil
	}
	return r.db.WithContext(ctx).Model(&entity.DbStore{}).Where("id = ?", id).Updates(updates.ToMap()).Error
}

// GetStore loads a store by ID.
func (r *GormRepository) GetStore(ctx context.Context, id uint) (*entity.DbStore, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return nil, fmt.Errorf("invalid store id")
	}
	var store entity.DbStore
	if err := r.db.WithContext(ctx).First(&store, id).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

// ListStores returns paginated stores.
func (r *GormRepository) ListStores(ctx context.Context, params *entity.StoreQuery) ([]entity.DbStore, *entity.Meta, error) {
	if r == nil || r.db == nil {
		return nil, nil, fmt.Errorf("repository not initialised")
	}

	query := r.db.WithContext(ctx).Model(&entity.DbStore{})
	if params != nil {
		if keyword := strings.TrimSpace(params.Keyword); keyword != "" {
			kw := "%" + strings.ToLower(keyword) + "%"
			query = query.Where("LOWER(name) LIKE ? OR LOWER(location) LIKE ?", kw, kw)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	var base *entity.BaseParams
	if params != nil {
		base = &params.BaseParams
	}
	page, pageSize, offset := normalizePage(base)

	var stores []entity.DbStore
	if err := query.Order("id DESC").Offset(offset).Limit(pageSize).Find(&stores).Error; err != nil {
		return nil, nil, err
	}

	meta := r.calculatePagination(total, page, pageSize)
	return stores, meta, nil
}

// DeleteStore removes a store by ID.
func (r *GormRepository) DeleteStore(ctx context.Context, id uint) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid store id")
	}
	result := r.db.WithContext(ctx).Delete(&entity.DbStore{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
