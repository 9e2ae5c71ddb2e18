package entity

import "time"

// DbStore represents a warehouse or sales outlet.
type DbStore struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Name        string    `gorm:"column:name;type:varchar(255);not null;index" json:"name"`
	Location    string    `gorm:"column:location;type:varchar(500)" json:"location"`
	Phone       string    `gorm:"column:phone;type:varchar(50)" json:"phone"`
	ManagerName string    `gorm:"column:manager_name;type:varchar(255)" json:"manager_name"`
}

// TableName 指定表名。
func (DbStore) TableName() string {
	return "stores"
}

// StoreQuery supports listing stores with pagination.
type StoreQuery struct {
	BaseParams
	Keyword string `json:"keyword" form:"keyword" query:"keyword"`
}

type StoreCreateRequest struct {
	Name        string `json:"name" binding:"required"`
	Location    string `json:"location"`
	Phone       string `json:"phone"`
	ManagerName string `json:"manager_name"`
}

type StoreUpdateRequest struct {
	Name        *string `json:"name,omitempty"`
	Location    *string `json:"location,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	ManagerName *string `json:"manager_name,omitempty"`
}

type StoreListResponse struct {
	Stores []DbStore `json:"stores"`
	Meta   *Meta     `json:"meta"`
}
