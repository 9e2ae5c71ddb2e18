package entity

import "time"

// DbProduct represents a wire product manufactured by the plant.
type DbProduct struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Name        string    `gorm:"column:name;type:varchar(255);not null;index" json:"name"`
	Code        string    `gorm:"column:code;type:varchar(100);uniqueIndex;not null" json:"code"`
	WireGauge   string    `gorm:"column:wire_gauge;type:varchar(50)" json:"wire_gauge"`
	Material    string    `gorm:"column:material;type:varchar(100)" json:"material"`
	Unit        string    `gorm:"column:unit;type:varchar(50)" json:"unit"`
	UnitPrice   float64   `gorm:"column:unit_price;not null;default:0" json:"unit_price"`
	Description string    `gorm:"column:description;type:varchar(1000)" json:"description"`
	IsActive    bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
}

// TableName 指定表名。
func (DbProduct) TableName() string {
	return "products"
}

// ProductQuery supports listing products with pagination.
type ProductQuery struct {
	BaseParams
	Keyword  string `json:"keyword" form:"keyword" query:"keyword"`
	Material string `json:"material" form:"material" query:"material"`
	IsActive *bool  `json:"is_active" form:"is_active" query:"is_active"`
}

type ProductCreateRequest struct {
	Name        string  `json:"name" binding:"required"`
	Code        string  `json:"code" binding:"required"`
	WireGauge   string  `json:"wire_gauge"`
	Material    string  `json:"material"`
	Unit        string  `json:"unit"`
	UnitPrice   float64 `json:"unit_price"`
	Description string  `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

type ProductUpdateRequest struct {
	Name        *string  `json:"name,omitempty"`
	WireGauge   *string  `json:"wire_gauge,omitempty"`
	Material    *string  `json:"material,omitempty"`
	Unit        *string  `json:"unit,omitempty"`
	UnitPrice   *float64 `json:"unit_price,omitempty"`
	Description *string  `json:"description,omitempty"`
	IsActive    *bool    `json:"is_active,omitempty"`
}

type ProductListResponse struct {
	Products []DbProduct `json:"products"`
	Meta     *Meta       `json:"meta"`
}
