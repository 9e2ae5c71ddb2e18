package sql

import (
	"context"
	"fmt"
	"strings"
	"wiremill/internal/entity"

	"gorm.io/gorm"
)

// CreateCustomer persists a new customer record.
func (r *GormRepository) CreateCustomer(ctx context.Context, customer *entity.DbCustomer) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if customer == nil {
		return fmt.Errorf("customer is nil")
	}
	return r.db.WithContext(ctx).Create(customer).Error
}

// UpdateCustomer updates an existing customer entry.
func (r *GormRepository) UpdateCustomer(ctx context.Context, id uint, updates entity.CustomerUpdates) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid customer id")
	}
	if updates.IsEmpty() {
		return nil
	}
	return r.db.WithContext(ctx).Model(&entity.DbCustomer{}).Where("id = ?", id).Updates(updates.ToMap()).Error
}

// GetCustomer loads a customer by ID.
func (r *GormRepository) GetCustomer(ctx context.Context, id uint) (*entity.DbCustomer, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return nil, fmt.Errorf("invalid customer id")
	}
	var customer entity.DbCustomer
	if err := r.db.WithContext(ctx).First(&customer, id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// ListCustomers returns paginated customers.
func (r *GormRepository) ListCustomers(ctx context.Context, params *entity.CustomerQuery) ([]entity.DbCustomer, *entity.Meta, error) {
	if r == nil || r.db == nil {
		return nil, nil, fmt.Errorf("repository not initialised")
	}

	query := r.db.WithContext(ctx).Model(&entity.DbCustomer{})
	if params != nil {
		if city := strings.TrimSpace(params.City); city != "" {
			query = query.Where("city = ?", city)
		}
		if keyword := strings.TrimSpace(params.Keyword); keyword != "" {
			kw := "%" + strings.ToLower(keyword) + "%"
			query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ?", kw, kw, kw)
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

	var customers []entity.DbCustomer
	if err := query.Order("id DESC").Offset(offset).Limit(pageSize).Find(&customers).Error; err != nil {
		return nil, nil, err
	}

	meta := r.calculatePagination(total, page, pageSize)
	return customers, meta, nil
}

// DeleteCustomer removes a customer by ID.
func (r *GormRepository) DeleteCustomer(ctx context.Context, id uint) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid customer id")
	}
	result := r.db.WithContext(ctx).Delete(&entity.DbCustomer{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
