package entity

import "time"

const (
	PackingStatusPending = "pending"
	PackingStatusPacked  = "packed"
	PackingStatusShipped = "shipped"
)

// DbPacking represents the packing job for one order.
type DbPacking struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	OrderID        uint      `gorm:"column:order_id;index;not null" json:"order_id"`
	Status         string    `gorm:"column:status;type:varchar(50);index;not null" json:"status"`
	PackedQuantity float64   `gorm:"column:packed_quantity;not null;default:0" json:"packed_quantity"`
	PackerName     string    `gorm:"column:packer_name;type:varchar(255)" json:"packer_name"`
	Notes          string    `gorm:"column:notes;type:varchar(1000)" json:"notes"`
}

// TableName 指定表名。
func (DbPacking) TableName() string {
	return "packings"
}

// PackingRow is the typed projection for packing listings.
type PackingRow struct {
	DbPacking
	OrderNumber string `json:"order_number"`
}

// PackingQuery supports listing packing jobs with pagination.
type PackingQuery struct {
	BaseParams
	OrderID uint   `json:"order_id" form:"order_id" query:"order_id"`
	Status  string `json:"status" form:"status" query:"status"`
}

type PackingCreateRequest struct {
	OrderID        uint    `json:"order_id" binding:"required"`
	PackedQuantity float64 `json:"packed_quantity"`
	PackerName     string  `json:"packer_name"`
	Notes          string  `json:"notes"`
}

type PackingUpdateRequest struct {
	Status         *string  `json:"status,omitempty"`
	PackedQuantity *float64 `json:"packed_quantity,omitempty"`
	PackerName     *string  `json:"packer_name,omitempty"`
	Notes          *string  `json:"notes,omitempty"`
}

type PackingListResponse struct {
	Packings []PackingRow `json:"packings"`
	Meta     *Meta        `json:"meta"`
}
