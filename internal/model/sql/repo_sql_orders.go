package sql

import (
	"context"
	"fmt"
	"strings"
	"wiremill/internal/entity"

	"gorm.io/gorm"
)

// CreateOrder persists a new order.
func (r *GormRepository) CreateOrder(ctx context.Context, order *entity.DbOrder) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if order == nil {
		return fmt.Errorf("order is nil")
	}
	return r.db.WithContext(ctx).Create(order).Error
}

// UpdateOrder updates an existing order.
func (r *GormRepository) UpdateOrder(ctx context.Context, id uint, updates entity.OrderUpdates) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid order id")
	}
	if updates.IsEmpty() {
		return nil
	}
	return r.db.WithContext(ctx).Model(&entity.DbOrder{}).Where("id = ?", id).Updates(updates.ToMap()).Error
}

// GetOrder loads an order by ID.
func (r *GormRepository) GetOrder(ctx context.Context, id uint) (*entity.DbOrder, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return nil, fmt.Errorf("invalid order id")
	}
	var order entity.DbOrder
	if err := r.db.WithContext(ctx).First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrders returns paginated orders joined with the customer name.
func (r *GormRepository) ListOrders(ctx context.Context, params *entity.OrderQuery) ([]entity.OrderRow, *entity.Meta, error) {
	if r == nil || r.db == nil {
		return nil, nil, fmt.Errorf("repository not initialised")
	}

	query := r.db.WithContext(ctx).Model(&entity.DbOrder{})
	if params != nil {
		if params.CustomerID > 0 {
			query = query.Where("orders.customer_id = ?", params.CustomerID)
		}
		if status := strings.TrimSpace(params.Status); status != "" {
			query = query.Where("orders.status = ?", status)
		}
		if keyword := strings.TrimSpace(params.Keyword); keyword != "" {
			kw := "%" + strings.ToLower(keyword) + "%"
			query = query.Where("LOWER(orders.order_number) LIKE ?", kw)
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

	var rows []entity.OrderRow
	if err := query.
		Select("orders.*, customers.name AS customer_name").
		Joins("LEFT JOIN customers ON customers.id = orders.customer_id").
		Order("orders.id DESC").
		Offset(offset).Limit(pageSize).
		Scan(&rows).Error; err != nil {
		return nil, nil, err
	}

	meta := r.calculatePagination(total, page, pageSize)
	return rows, meta, nil
}

// DeleteOrder removes an order by ID.
func (r *GormRepository) DeleteOrder(ctx context.Context, id uint) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid order id")
	}
	result := r.db.WithContext(ctx).Delete(&entity.DbOrder{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
