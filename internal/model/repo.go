package model

import (
	"context"
	"wiremill/internal/entity"
)

// Repository 定义数据库操作接口
type Repository interface {
	// 用户管理
	CreateUser(ctx context.Context, user *entity.DbUser) error
	UpdateUser(ctx context.Context, id uint, updates entity.UserUpdates) error
	GetUserByEmail(ctx context.Context, email string) (*entity.DbUser, error)
	GetUserByID(ctx context.Context, id uint) (*entity.DbUser, error)
	ListUsers(ctx context.Context, params *entity.UserQuery) ([]entity.DbUser, *entity.Meta, error)
	DeleteUser(ctx context.Context, id uint) error
	CountUsers(ctx context.Context) (int64, error)

	// 客户管理
	CreateCustomer(ctx context.Context, customer *entity.DbCustomer) error
	UpdateCustomer(ctx context.Context, id uint, updates entity.CustomerUpdates) error
	GetCustomer(ctx context.Context, id uint) (*entity.DbCustomer, error)
	ListCustomers(ctx context.Context, params *entity.CustomerQuery) ([]entity.DbCustomer, *entity.Meta, error)
	DeleteCustomer(ctx context.Context, id uint) error

	// 产品管理
	CreateProduct(ctx context.Context, product *entity.DbProduct) error
	UpdateProduct(ctx context.Context, id uint, updates entity.ProductUpdates) error
	GetProduct(ctx context.Context, id uint) (*entity.DbProduct, error)
	ListProducts(ctx context.Context, params *entity.ProductQuery) ([]entity.DbProduct, *entity.Meta, error)
	DeleteProduct(ctx context.Context, id uint) error

	// 门店管理
	CreateStore(ctx context.Context, store *entity.DbStore) error
	UpdateStore(ctx context.Context, id uint, updates entity.StoreUpdates) error
	GetStore(ctx context.Context, id uint) (*entity.DbStore, error)
	ListStores(ctx context.Context, params *entity.StoreQuery) ([]entity.DbStore, *entity.Meta, error)
	DeleteStore(ctx context.Context, id uint) error

	// 库存管理
	UpsertInventory(ctx context.Context, inv *entity.DbInventory) (created bool, err error)
	UpdateInventory(ctx context.Context, id uint, updates entity.InventoryUpdates) error
	GetInventory(ctx context.Context, id uint) (*entity.DbInventory, error)
	GetInventoryByProductStore(ctx context.Context, productID, storeID uint) (*entity.DbInventory, error)
	ListInventories(ctx context.Context, params *entity.InventoryQuery) ([]entity.InventoryRow, *entity.Meta, error)
	DeleteInventory(ctx context.Context, id uint) error

	// 包装库存
	CreatePackagedInventory(ctx context.Context, pkg *entity.DbPackagedInventory) error
	UpdatePackagedInventory(ctx context.Context, id uint, updates entity.PackagedInventoryUpdates) error
	GetPackagedInventory(ctx context.Context, id uint) (*entity.DbPackagedInventory, error)
	ListPackagedInventories(ctx context.Context, inventoryID uint, params *entity.BaseParams) ([]entity.DbPackagedInventory, *entity.Meta, error)
	DeletePackagedInventory(ctx context.Context, id uint) error

	// 订单管理
	CreateOrder(ctx context.Context, order *entity.DbOrder) error
	UpdateOrder(ctx context.Context, id uint, updates entity.OrderUpdates) error
	GetOrder(ctx context.Context, id uint) (*entity.DbOrder, error)
	ListOrders(ctx context.Context, params *entity.OrderQuery) ([]entity.OrderRow, *entity.Meta, error)
	DeleteOrder(ctx context.Context, id uint) error

	// 销售管理
	CreateSale(ctx context.Context, sale *entity.DbSale) error
	UpdateSale(ctx context.Context, id uint, updates entity.SaleUpdates) error
	GetSale(ctx context.Context, id uint) (*entity.DbSale, error)
	ListSales(ctx context.Context, params *entity.SaleQuery) ([]entity.SaleRow, *entity.Meta, error)
	DeleteSale(ctx context.Context, id uint) error

	// 包装工单
	CreatePacking(ctx context.Context, packing *entity.DbPacking) error
	UpdatePacking(ctx context.Context, id uint, updates entity.PackingUpdates) error
	GetPacking(ctx context.Context, id uint) (*entity.DbPacking, error)
	ListPackings(ctx context.Context, params *entity.PackingQuery) ([]entity.PackingRow, *entity.Meta, error)
	DeletePacking(ctx context.Context, id uint) error

	// 操作日志
	CreateActivityLog(ctx context.Context, log *entity.DbActivityLog) error
	ListActivityLogs(ctx context.Context, params *entity.ActivityLogQuery) ([]entity.DbActivityLog, error)
}
