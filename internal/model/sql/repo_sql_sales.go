package sql

import (
	"context"
	"fmt"
	"wiremill/internal/entity"

	"gorm.io/gorm"
)

// CreateSale persists a new sale.
func (r *GormRepository) CreateSale(ctx context.Context, sale *entity.DbSale) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if sale == nil {
		return fmt.Errorf("sale is nil")
	}
	return r.db.WithContext(ctx).Create(sale).Error
}

// UpdateSale updates an existing sale.
func (r *GormRepository) UpdateSale(ctx context.Context, id uint, updates entity.SaleUpdates) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid sale id")
	}
	if updates.IsEmpty() {
		return nil
	}
	return r.db.WithContext(ctx).Model(&entity.DbSale{}).Where("id = ?", id).Updates(updates.ToMap()).Error
}

// GetSale loads a sale by ID.
func (r *GormRepository) GetSale(ctx context.Context, id uint) (*entity.DbSale, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return nil, fmt.Errorf("invalid sale id")
	}
	var sale entity.DbSale
	if err := r.db.WithContext(ctx).First(&sale, id).Error; err != nil {
		return nil, err
	}
	return &sale, nil
}

// ListSales returns paginated sales joined with the customer name.
func (r *GormRepository) ListSales(ctx context.Context, params *entity.SaleQuery) ([]entity.SaleRow, *entity.Meta, error) {
	if r == nil || r.db == nil {
		return nil, nil, fmt.Errorf("repository not initialised")
	}

	query := r.db.WithContext(ctx).Model(&entity.DbSale{})
	if params != nil {
		if params.CustomerID > 0 {
			query = query.Where("sales.customer_id = ?", params.CustomerID)
		}
		if params.OrderID > 0 {
			query = query.Where("sales.order_id = ?", params.OrderID)
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

	var rows []entity.SaleRow
	if err := query.
		Select("sales.*, customers.name AS customer_name").
		Joins("LEFT JOIN customers ON customers.id = sales.customer_id").
		Order("sales.id DESC").
		Offset(offset).Limit(pageSize).
		Scan(&rows).Error; err != nil {
		return nil, nil, err
	}

	meta := r.calculatePagination(total, page, pageSize)
	return rows, meta, nil
}

// DeleteSale removes a sale by ID.
func (r *GormRepository) DeleteSale(ctx context.Context, id uint) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid sale id")
	}
	result := r.db.WithContext(ctx).Delete(&entity.DbSale{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
