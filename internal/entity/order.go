package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// OrderItem is one line of an order. Line items live inside the order
// row and are not independently audited.
type OrderItem struct {
	ProductID   uint    `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

// OrderItems 以 JSON 文本格式存储订单行。
type OrderItems []OrderItem

// Value 实现 driver.Valuer 接口。
func (items OrderItems) Value() (driver.Value, error) {
	if len(items) == 0 {
		return "[]", nil
	}
	raw, err := json.Marshal([]OrderItem(items))
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// Scan 实现 sql.Scanner 接口。
func (items *OrderItems) Scan(value interface{}) error {
	if value == nil {
		*items = nil
		return nil
	}

	switch v := value.(type) {
	case []byte:
		if len(v) == 0 {
			*items = OrderItems{}
			return nil
		}
		return json.Unmarshal(v, (*[]OrderItem)(items))
	case string:
		if v == "" {
			*items = OrderItems{}
			return nil
		}
		return json.Unmarshal([]byte(v), (*[]OrderItem)(items))
	default:
		return fmt.Errorf("unsupported type for OrderItems: %T", value)
	}
}

// Total returns the summed line amounts.
func (items OrderItems) Total() float64 {
	var total float64
	for _, item := range items {
		total += item.Quantity * item.UnitPrice
	}
	return total
}

// DbOrder represents a customer order.
type DbOrder struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CustomerID  uint       `gorm:"column:customer_id;index;not null" json:"customer_id"`
	OrderNumber string     `gorm:"column:order_number;type:varchar(100);uniqueIndex;not null" json:"order_number"`
	Status      string     `gorm:"column:status;type:varchar(50);index;not null" json:"status"`
	Items       OrderItems `gorm:"column:items;type:text" json:"items"`
	TotalAmount float64    `gorm:"column:total_amount;not null;default:0" json:"total_amount"`
	Notes       string     `gorm:"column:notes;type:varchar(1000)" json:"notes"`
}

// TableName 指定表名。
func (DbOrder) TableName() string {
	return "orders"
}

// OrderRow is the typed projection for order listings.
type OrderRow struct {
	DbOrder
	CustomerName string `json:"customer_name"`
}

// OrderQuery supports listing orders with pagination.
type OrderQuery struct {
	BaseParams
	CustomerID uint   `json:"customer_id" form:"customer_id" query:"customer_id"`
	Status     string `json:"status" form:"status" query:"status"`
	Keyword    string `json:"keyword" form:"keyword" query:"keyword"`
}

type OrderCreateRequest struct {
	CustomerID  uint        `json:"customer_id" binding:"required"`
	OrderNumber string      `json:"order_number" binding:"required"`
	Items       []OrderItem `json:"items" binding:"required,min=1"`
	Notes       string      `json:"notes"`
}

type OrderUpdateRequest struct {
	Status *string      `json:"status,omitempty"`
	Items  *[]OrderItem `json:"items,omitempty"`
	Notes  *string      `json:"notes,omitempty"`
}

type OrderListResponse struct {
	Orders []OrderRow `json:"orders"`
	Meta   *Meta      `json:"meta"`
}
