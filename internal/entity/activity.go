package entity

import "time"

const (
	ActionCreate = "CREATE"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
)

const (
	EntityKindCustomer          = "Customer"
	EntityKindProduct           = "Product"
	EntityKindInventory         = "Inventory"
	EntityKindOrder             = "Order"
	EntityKindSale              = "Sale"
	EntityKindPacking           = "Packing"
	EntityKindStore             = "Store"
	EntityKindUser              = "User"
	EntityKindPackagedInventory = "Packaged Inventory"
)

// DbActivityLog is one append-only record of a mutating action. Entity
// and user names are captured as snapshots at write time so the log
// stays readable after the referenced rows change or disappear. The
// application never updates or deletes these rows.
type DbActivityLog struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
	ActionKind string    `gorm:"column:action_kind;type:varchar(20);index;not null" json:"action_kind"`
	EntityKind string    `gorm:"column:entity_kind;type:varchar(50);index;not null" json:"entity_kind"`
	EntityID   string    `gorm:"column:entity_id;type:varchar(100);index" json:"entity_id"`
	EntityName string    `gorm:"column:entity_name;type:varchar(255)" json:"entity_name"`
	Details    JSONMap   `gorm:"column:details;type:text" json:"details"`
	UserID     uint      `gorm:"column:user_id;index" json:"user_id"`
	UserName   string    `gorm:"column:user_name;type:varchar(255)" json:"user_name"`
}

// TableName 指定表名。
func (DbActivityLog) TableName() string {
	return "activity_logs"
}

// ActivityLogQuery filters the activity log. Filters combine with AND
// semantics; entries are always returned newest first.
type ActivityLogQuery struct {
	Limit      int    `json:"limit" form:"limit" query:"limit"`
	ActionKind string `json:"action_kind" form:"action_kind" query:"action_kind"`
	EntityKind string `json:"entity_kind" form:"entity_kind" query:"entity_kind"`
	UserID     uint   `json:"user_id" form:"user_id" query:"user_id"`
}

type ActivityLogListResponse struct {
	Entries []DbActivityLog `json:"entries"`
}
