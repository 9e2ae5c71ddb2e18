package sql

import (
	"context"
	"errors"
	"fmt"
	"wiremill/internal/entity"

	"gorm.io/gorm"
)

// UpsertInventory creates the stock row for a product/store pair or
// overwrites the existing one. Returns whether a new row was created so
// callers can distinguish first-time stock from an adjustment.
func (r *GormRepository) UpsertInventory(ctx context.Context, inv *entity.DbInventory) (bool, error) {
	if r == nil || r.db == nil {
		return false, fmt.Errorf("repository not initialised")
	}
	if inv == nil {
		return false, fmt.Errorf("inventory is nil")
	}
	if inv.ProductID == 0 || inv.StoreID == 0 {
		return false, fmt.Errorf("invalid product/store pair")
	}

	var existing entity.DbInventory
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND store_id = ?", inv.ProductID, inv.StoreID).
		First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := r.db.WithContext(ctx).Create(inv).Error; err != nil {
			return false, err
		}
		return true, nil
	case err != nil:
		return false, err
	}

	updates := map[string]interface{}{
		"quantity":      inv.Quantity,
		"reorder_level": inv.ReorderLevel,
	}
	if err := r.db.WithContext(ctx).Model(&entity.DbInventory{}).Where("id = ?", existing.ID).Updates(updates).Error; err != nil {
		return false, err
	}
	inv.ID = existing.ID
	inv.CreatedAt = existing.CreatedAt
	return false, nil
}

// UpdateInventory updates an existing inventory row.
func (r *GormRepository) UpdateInventory(ctx context.Context, id uint, updates entity.InventoryUpdates) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid inventory id")
	}
	if updates.IsEmpty() {
		return nil
	}
	return r.db.WithContext(ctx).Model(&entity.DbInventory{}).Where("id = ?", id).Updates(updates.ToMap()).Error
}

// GetInventory loads an inventory row by ID.
func (r *GormRepository) GetInventory(ctx context.Context, id uint) (*entity.DbInventory, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return nil, fmt.Errorf("invalid inventory id")
	}
	var inv entity.DbInventory
	if err := r.db.WithContext(ctx).First(&inv, id).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

// GetInventoryByProductStore loads the stock row for a product/store pair.
func (r *GormRepository) GetInventoryByProductStore(ctx context.Context, productID, storeID uint) (*entity.DbInventory, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if productID == 0 || storeID == 0 {
		return nil, fmt.Errorf("invalid product/store pair")
	}
	var inv entity.DbInventory
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND store_id = ?", productID, storeID).
		First(&inv).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

// ListInventories returns paginated inventory rows joined with product
// and store display fields.
func (r *GormRepository) ListInventories(ctx context.Context, params *entity.InventoryQuery) ([]entity.InventoryRow, *entity.Meta, error) {
	if r == nil || r.db == nil {
		return nil, nil, fmt.Errorf("repository not initialised")
	}

	query := r.db.WithContext(ctx).Model(&entity.DbInventory{})
	if params != nil {
		if params.ProductID > 0 {
			query = query.Where("inventories.product_id = ?", params.ProductID)
		}
		if params.StoreID > 0 {
			query = query.Where("inventories.store_id = ?", params.StoreID)
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

	var rows []entity.InventoryRow
	if err := query.
		Select("inventories.*, products.name AS product_name, products.code AS product_code, stores.name AS store_name").
		Joins("LEFT JOIN products ON products.id = inventories.product_id").
		Joins("LEFT JOIN stores ON stores.id = inventories.store_id").
		Order("inventories.id DESC").
		Offset(offset).Limit(pageSize).
		Scan(&rows).Error; err != nil {
		return nil, nil, err
	}

	meta := r.calculatePagination(total, page, pageSize)
	return rows, meta, nil
}

// DeleteInventory removes an inventory row by ID.
func (r *GormRepository) DeleteInventory(ctx context.Context, id uint) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid inventory id")
	}
	result := r.db.WithContext(ctx).Delete(&entity.DbInventory{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CreatePackagedInventory persists a packaged stock record.
func (r *GormRepository) CreatePackagedInventory(ctx context.Context, pkg *entity.DbPackagedInventory) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if pkg == nil {
		return fmt.Errorf("packaged inventory is nil")
	}
	return r.db.WithContext(ctx).Create(pkg).Error
}

// UpdatePackagedInventory updates a packaged stock record.
func (r *GormRepository) UpdatePackagedInventory(ctx context.Context, id uint, updates entity.PackagedInventoryUpdates) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid packaged inventory id")
	}
	if updates.IsEmpty() {
		return nil
	}
	return r.db.WithContext(ctx).Model(&entity.DbPackagedInventory{}).Where("id = ?", id).Updates(updates.ToMap()).Error
}

// GetPackagedInventory loads a packaged stock record by ID.
func (r *GormRepository) GetPackagedInventory(ctx context.Context, id uint) (*entity.DbPackagedInventory, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return nil, fmt.Errorf("invalid packaged inventory id")
	}
	var pkg entity.DbPackagedInventory
	if err := r.db.WithContext(ctx).First(&pkg, id).Error; err != nil {
		return nil, err
	}
	return &pkg, nil
}

// ListPackagedInventories returns paginated packaged stock records,
// optionally scoped to one inventory row.
func (r *GormRepository) ListPackagedInventories(ctx context.Context, inventoryID uint, params *entity.BaseParams) ([]entity.DbPackagedInventory, *entity.Meta, error) {
	if r == nil || r.db == nil {
		return nil, nil, fmt.Errorf("repository not initialised")
	}

	query := r.db.WithContext(ctx).Model(&entity.DbPackagedInventory{})
	if inventoryID > 0 {
		query = query.Where("inventory_id = ?", inventoryID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	page, pageSize, offset := normalizePage(params)

	var pkgs []entity.DbPackagedInventory
	if err := query.Order("id DESC").Offset(offset).Limit(pageSize).Find(&pkgs).Error; err != nil {
		return nil, nil, err
	}

	meta := r.calculatePagination(total, page, pageSize)
	return pkgs, meta, nil
}

// DeletePackagedInventory removes a packaged stock record by ID.
func (r *GormRepository) DeletePackagedInventory(ctx context.Context, id uint) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid packaged inventory id")
	}
	result := r.db.WithContext(ctx).Delete(&entity.DbPackagedInventory{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
