package entity

import "time"

// DbInventory represents the stock of one product at one store.
type DbInventory struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	ProductID    uint      `gorm:"column:product_id;index:idx_inventory_product_store,unique;not null" json:"product_id"`
	StoreID      uint      `gorm:"column:store_id;index:idx_inventory_product_store,unique;not null" json:"store_id"`
	Quantity     float64   `gorm:"column:quantity;not null;default:0" json:"quantity"`
	ReorderLevel float64   `gorm:"column:reorder_level;not null;default:0" json:"reorder_level"`
}

// TableName 指定表名。
func (DbInventory) TableName() string {
	return "inventories"
}

// InventoryRow is the typed projection returned by inventory listings:
// joined display names are materialised here instead of being read from
// nested row shapes at call sites.
type InventoryRow struct {
	DbInventory
	ProductName string `json:"product_name"`
	ProductCode string `json:"product_code"`
	StoreName   string `json:"store_name"`
}

// DbPackagedInventory represents stock already packaged for shipment.
type DbPackagedInventory struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	InventoryID uint      `gorm:"column:inventory_id;index;not null" json:"inventory_id"`
	PackageSize float64   `gorm:"column:package_size;not null;default:0" json:"package_size"`
	Units       int       `gorm:"column:units;not null;default:0" json:"units"`
	Label       string    `gorm:"column:label;type:varchar(255)" json:"label"`
}

// TableName 指定表名。
func (DbPackagedInventory) TableName() string {
	return "packaged_inventories"
}

// InventoryQuery supports listing inventory rows with pagination.
type InventoryQuery struct {
	BaseParams
	ProductID uint `json:"product_id" form:"product_id" query:"product_id"`
	StoreID   uint `json:"store_id" form:"store_id" query:"store_id"`
}

// InventoryUpsertRequest creates or adjusts the stock row for a
// product/store pair. A product without an inventory row yet is created
// through the same path as any later adjustment.
type InventoryUpsertRequest struct {
	ProductID    uint     `json:"product_id" binding:"required"`
	StoreID      uint     `json:"store_id" binding:"required"`
	Quantity     float64  `json:"quantity"`
	ReorderLevel *float64 `json:"reorder_level,omitempty"`
}

type PackagedInventoryCreateRequest struct {
	InventoryID uint    `json:"inventory_id" binding:"required"`
	PackageSize float64 `json:"package_size" binding:"required"`
	Units       int     `json:"units" binding:"required"`
	Label       string  `json:"label"`
}

type PackagedInventoryUpdateRequest struct {
	PackageSize *float64 `json:"package_size,omitempty"`
	Units       *int     `json:"units,omitempty"`
	Label       *string  `json:"label,omitempty"`
}

type InventoryListResponse struct {
	Inventories []InventoryRow `json:"inventories"`
	Meta        *Meta          `json:"meta"`
}

type PackagedInventoryListResponse struct {
	Packages []DbPackagedInventory `json:"packages"`
	Meta     *Meta                 `json:"meta"`
}
