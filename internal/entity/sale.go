package entity

import "time"

// DbSale represents a completed sale.
type DbSale struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	OrderID    uint      `gorm:"column:order_id;index" json:"order_id"`
	CustomerID uint      `gorm:"column:customer_id;index;not null" json:"customer_id"`
	Quantity   float64   `gorm:"column:quantity;not null;default:0" json:"quantity"`
	Amount     float64   `gorm:"column:amount;not null;default:0" json:"amount"`
	SoldAt     time.Time `gorm:"column:sold_at;index" json:"sold_at"`
	Notes      string    `gorm:"column:notes;type:varchar(1000)" json:"notes"`
}

// TableName 指定表名。
func (DbSale) TableName() string {
	return "sales"
}

// SaleRow is the typed projection for sale listings.
type SaleRow struct {
	DbSale
	CustomerName string `json:"customer_name"`
}

// SaleQuery supports listing sales with pagination.
type SaleQuery struct {
	BaseParams
	CustomerID uint `json:"customer_id" form:"customer_id" query:"customer_id"`
	OrderID    uint `json:"order_id" form:"order_id" query:"order_id"`
}

type SaleCreateRequest struct {
	OrderID    uint    `json:"order_id"`
	CustomerID uint    `json:"customer_id" binding:"required"`
	Quantity   float64 `json:"quantity"`
	Amount     float64 `json:"amount" binding:"required"`
	Notes      string  `json:"notes"`
}

type SaleUpdateRequest struct {
	Quantity *float64 `json:"quantity,omitempty"`
	Amount   *float64 `json:"amount,omitempty"`
	Notes    *string  `json:"notes,omitempty"`
}

type SaleListResponse struct {
	Sales []SaleRow `json:"sales"`
	Meta  *Meta     `json:"meta"`
}
