package entity

// UserUpdates 用户更新字段
type UserUpdates struct {
	DisplayName  *string
	Phone        *string
	Role         *string
	PasswordHash *string
	IsActive     *bool
}

// ToMap 转换为 GORM 更新 map（内部使用）
func (u UserUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.DisplayName != nil {
		updates["display_name"] = *u.DisplayName
	}
	if u.Phone != nil {
		updates["phone"] = *u.Phone
	}
	if u.Role != nil {
		updates["role"] = *u.Role
	}
	if u.PasswordHash != nil {
		updates["password_hash"] = *u.PasswordHash
	}
	if u.IsActive != nil {
		updates["is_active"] = *u.IsActive
	}
	return updates
}

// IsEmpty 检查是否没有任何更新字段
func (u UserUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}

// CustomerUpdates 客户更新字段
type CustomerUpdates struct {
	Name        *string
	Email       *string
	Phone       *string
	Address     *string
	City        *string
	CreditLimit *float64
}

// ToMap 转换为 GORM 更新 map（内部使用）
func (u CustomerUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.Name != nil {
		updates["name"] = *u.Name
	}
	if u.Email != nil {
		updates["email"] = *u.Email
	}
	if u.Phone != nil {
		updates["phone"] = *u.Phone
	}
	if u.Address != nil {
		updates["address"] = *u.Address
	}
	if u.City != nil {
		updates["city"] = *u.City
	}
	if u.CreditLimit != nil {
		updates["credit_limit"] = *u.CreditLimit
	}
	return updates
}

// IsEmpty 检查是否没有任何更新字段
func (u CustomerUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}

// ProductUpdates 产品更新字段
type ProductUpdates struct {
	Name        *string
	WireGauge   *string
	Material    *string
	Unit        *string
	UnitPrice   *float64
	Description *string
	IsActive    *bool
}

// ToMap 转换为 GORM 更新 map（内部使用）
func (u ProductUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.Name != nil {
		updates["name"] = *u.Name
	}
	if u.WireGauge != nil {
		updates["wire_gauge"] = *u.WireGauge
	}
	if u.Material != nil {
		updates["material"] = *u.Material
	}
	if u.Unit != nil {
		updates["unit"] = *u.Unit
	}
	if u.UnitPrice != nil {
		updates["unit_price"] = *u.UnitPrice
	}
	if u.Description != nil {
		updates["description"] = *u.Description
	}
	if u.IsActive != nil {
		updates["is_active"] = *u.IsActive
	}
	return updates
}

// IsEmpty 检查是否没有任何更新字段
func (u ProductUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}

// StoreUpdates 门店更新字段
type StoreUpdates struct {
	Name        *string
	Location    *string
	Phone       *string
	ManagerName *string
}

// ToMap 转换为 GORM 更新 map（内部使用）
func (u StoreUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.Name != nil {
		updates["name"] = *u.Name
	}
	if u.Location != nil {
		updates["location"] = *u.Location
	}
	if u.Phone != nil {
		updates["phone"] = *u.Phone
	}
	if u.ManagerName != nil {
		updates["manager_name"] = *u.ManagerName
	}
	return updates
}

// IsEmpty 检查是否没有任何更新字段
func (u StoreUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}

// InventoryUpdates 库存更新字段
type InventoryUpdates struct {
	Quantity     *float64
	ReorderLevel *float64
}

// ToMap 转换为 GORM 更新 map（内部使用）
func (u InventoryUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.Quantity != nil {
		updates["quantity"] = *u.Quantity
	}
	if u.ReorderLevel != nil {
		updates["reorder_level"] = *u.ReorderLevel
	}
	return updates
}

// IsEmpty 检查是否没有任何更新字段
func (u InventoryUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}

// PackagedInventoryUpdates 包装库存更新字段
type PackagedInventoryUpdates struct {
	PackageSize *float64
	Units       *int
	Label       *string
}

// ToMap 转换为 GORM 更新 map（内部使用）
func (u PackagedInventoryUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.PackageSize != nil {
		updates["package_size"] = *u.PackageSize
	}
	if u.Units != nil {
		updates["units"] = *u.Units
	}
	if u.Label != nil {
		updates["label"] = *u.Label
	}
	return updates
}

// IsEmpty 检查是否没有任何更新字段
func (u PackagedInventoryUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}

// OrderUpdates 订单更新字段
type OrderUpdates struct {
	Status      *string
	Items       *OrderItems
	TotalAmount *float64
	Notes       *string
}

// ToMap 转换为 GORM 更新 map（内部使用）
func (u OrderUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.Status != nil {
		updates["status"] = *u.Status
	}
	if u.Items != nil {
		updates["items"] = *u.Items
	}
	if u.TotalAmount != nil {
		updates["total_amount"] = *u.TotalAmount
	}
	if u.Notes != nil {
		updates["notes"] = *u.Notes
	}
	return updates
}

// IsEmpty 检查是否没有任何更新字段
func (u OrderUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}

// SaleUpdates 销售更新字段
type SaleUpdates struct {
	Quantity *float64
	Amount   *float64
	Notes    *string
}

// ToMap 转换为 GORM 更新 map（内部使用）
func (u SaleUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.Quantity != nil {
		updates["quantity"] = *u.Quantity
	}
	if u.Amount != nil {
		updates["amount"] = *u.Amount
	}
	if u.Notes != nil {
		updates["notes"] = *u.Notes
	}
	return updates
}

// IsEmpty 检查是否没有任何更新字段
func (u SaleUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}

// PackingUpdates 包装工单更新字段
type PackingUpdates struct {
	Status         *string
	PackedQuantity *float64
	PackerName     *string
	Notes          *string
}

// ToMap 转换为 GORM 更新 map（内部使用）
func (u PackingUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.Status != nil {
		updates["status"] = *u.Status
	}
	if u.PackedQuantity != nil {
		updates["packed_quantity"] = *u.PackedQuantity
	}
	if u.PackerName != nil {
		updates["packer_name"] = *u.PackerName
	}
	if u.Notes != nil {
		updates["notes"] = *u.Notes
	}
	return updates
}

// IsEmpty 检查是否没有任何更新字段
func (u PackingUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}
