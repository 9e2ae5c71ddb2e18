package sql

import (
	"context"
	"fmt"
	"strings"
	"wiremill/internal/entity"

	"gorm.io/gorm"
)

// CreatePacking persists a new packing job.
func (r *GormRepository) CreatePacking(ctx context.Context, packing *entity.DbPacking) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if packing == nil {
		return fmt.Errorf("packing is nil")
	}
	return r.db.WithContext(ctx).Create(packing).Error
}

// UpdatePacking updates an existing packing job.
func (r *GormRepository) UpdatePacking(ctx context.Context, id uint, updates entity.PackingUpdates) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid packing id")
	}
	if updates.IsEmpty() {
		return nil
	}
	return r.db.WithContext(ctx).Model(&entity.DbPacking{}).Where("id = ?", id).Updates(updates.ToMap()).Error
}

// GetPacking loads a packing job by ID.
func (r *GormRepository) GetPacking(ctx context.Context, id uint) (*entity.DbPacking, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return nil, fmt.Errorf("invalid packing id")
	}
	var packing entity.DbPacking
	if err := r.db.WithContext(ctx).First(&packing, id).Error; err != nil {
		return nil, err
	}
	return &packing, nil
}

// ListPackings returns paginated packing jobs joined with the order number.
func (r *GormRepository) ListPackings(ctx context.Context, params *entity.PackingQuery) ([]entity.PackingRow, *entity.Meta, error) {
	if r == nil || r.db == nil {
		return nil, nil, fmt.Errorf("repository not initialised")
	}

	query := r.db.WithContext(ctx).Model(&entity.DbPacking{})
	if params != nil {
		if params.OrderID > 0 {
			query = query.Where("packings.order_id = ?", params.OrderID)
		}
		if status := strings.TrimSpace(params.Status); status != "" {
			query = query.Where("packings.status = ?", status)
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

	var rows []entity.PackingRow
	if err := query.
		Select("packings.*, orders.order_number AS order_number").
		Joins("LEFT JOIN orders ON orders.id = packings.order_id").
		Order("packings.id DESC").
		Offset(offset).Limit(pageSize).
		Scan(&rows).Error; err != nil {
		return nil, nil, err
	}

	meta := r.calculatePagination(total, page, pageSize)
	return rows, meta, nil
}

// DeletePacking removes a packing job by ID.
func (r *GormRepository) DeletePacking(ctx context.Context, id uint) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid packing id")
	}
	result := r.db.WithContext(ctx).Delete(&entity.DbPacking{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
