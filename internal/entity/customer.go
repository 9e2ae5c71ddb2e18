package entity

import "time"

// DbCustomer represents a purchasing customer of the plant.
type DbCustomer struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Name        string    `gorm:"column:name;type:varchar(255);not null;index" json:"name"`
	Email       string    `gorm:"column:email;type:varchar(255)" json:"email"`
	Phone       string    `gorm:"column:phone;type:varchar(50)" json:"phone"`
	Address     string    `gorm:"column:address;type:varchar(500)" json:"address"`
	City        string    `gorm:"column:city;type:varchar(100)" json:"city"`
	CreditLimit float64   `gorm:"column:credit_limit;not null;default:0" json:"credit_limit"`
}

// TableName 指定表名。
func (DbCustomer) TableName() string {
	return "customers"
}

// CustomerQuery supports listing customers with pagination.
type CustomerQuery struct {
	BaseParams
	Keyword string `json:"keyword" form:"keyword" query:"keyword"`
	City    string `json:"city" form:"city" query:"city"`
}

type CustomerCreateRequest struct {
	Name        string  `json:"name" binding:"required"`
	Email       string  `json:"email"`
	Phone       string  `json:"phone"`
	Address     string  `json:"address"`
	City        string  `json:"city"`
	CreditLimit float64 `json:"credit_limit"`
}

type CustomerUpdateRequest struct {
	Name        *string  `json:"name,omitempty"`
	Email       *string  `json:"email,omitempty"`
	Phone       *string  `json:"phone,omitempty"`
	Address     *string  `json:"address,omitempty"`
	City        *string  `json:"city,omitempty"`
	CreditLimit *float64 `json:"credit_limit,omitempty"`
}

type CustomerListResponse struct {
	Customers []DbCustomer `json:"customers"`
	Meta      *Meta        `json:"meta"`
}
