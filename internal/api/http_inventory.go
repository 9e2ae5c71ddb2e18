package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"
	"wiremill/internal/entity"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func (h *HTTPHandler) ListInventories(c *gin.Context) {
	if h.repo == nil {
		ServiceUnavailable(c, "repository not available")
		return
	}

	var query entity.InventoryQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "invalid query parameters")
		return
	}
	clampPagination(&query.BaseParams)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	rows, meta, err := h.repo.ListInventories(ctx, &query)
	if err != nil {
		logrus.WithError(err).Error("failed to list inventories")
		InternalError(c, "failed to load inventories")
		return
	}

	c.JSON(http.StatusOK, entity.InventoryListResponse{Inventories: rows, Meta: meta})
}

// UpsertInventory creates or adjusts the stock row for a product/store
// pair. First-time stock and later adjustments go through the same
// endpoint; the audit entry distinguishes them.
func (h *HTTPHandler) UpsertInventory(c *gin.Context) {
	var req entity.InventoryUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	product, err := h.repo.GetProduct(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeProductNotFound, "product not found")
			return
		}
		logrus.WithError(err).Error("failed to load product for inventory")
		InternalError(c, "failed to save inventory")
		return
	}

	store, err := h.repo.GetStore(ctx, req.StoreID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeStoreNotFound, "store not found")
			return
		}
		logrus.WithError(err).Error("failed to load store for inventory")
		InternalError(c, "failed to save inventory")
		return
	}

	inv := &entity.DbInventory{
		ProductID: req.ProductID,
		StoreID:   req.StoreID,
		Quantity:  req.Quantity,
	}
	if req.ReorderLevel != nil {
		inv.ReorderLevel = *req.ReorderLevel
	}

	created, err := h.repo.UpsertInventory(ctx, inv)
	if err != nil {
		logrus.WithError(err).Error("failed to upsert inventory")
		InternalError(c, "failed to save inventory")
		return
	}

	action := entity.ActionUpdate
	status := http.StatusOK
	if created {
		action = entity.ActionCreate
		status = http.StatusCreated
	}
	h.recorder.Record(ctx, action, entity.EntityKindInventory,
		formatID(inv.ID), inventoryDisplayName(product, store),
		entity.JSONMap{"quantity": inv.Quantity})

	c.JSON(status, inv)
}

func (h *HTTPHandler) DeleteInventory(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		BadRequest(c, ErrCodeInvalidRequest, "invalid inventory id")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	existing, err := h.repo.GetInventory(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeInventoryNotFound, "inventory not found")
			return
		}
		logrus.WithError(err).Error("failed to load inventory for deletion")
		InternalError(c, "failed to delete inventory")
		return
	}

	if err := h.repo.DeleteInventory(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeInventoryNotFound, "inventory not found")
			return
		}
		logrus.WithError(err).Error("failed to delete inventory")
		InternalError(c, "failed to delete inventory")
		return
	}

	name := inventoryRowName(ctx, h, existing)
	h.recorder.Record(ctx, entity.ActionDelete, entity.EntityKindInventory,
		formatID(existing.ID), name, nil)

	c.Status(http.StatusNoContent)
}

func (h *HTTPHandler) ListPackagedInventories(c *gin.Context) {
	if h.repo == nil {
		ServiceUnavailable(c, "repository not available")
		return
	}

	var params entity.BaseParams
	if err := c.ShouldBindQuery(&params); err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "invalid query parameters")
		return
	}
	clampPagination(&params)

	var inventoryID uint
	if raw := strings.TrimSpace(c.Query("inventory_id")); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			BadRequest(c, ErrCodeInvalidRequest, "invalid inventory_id")
			return
		}
		inventoryID = uint(parsed)
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	pkgs, meta, err := h.repo.ListPackagedInventories(ctx, inventoryID, &params)
	if err != nil {
		logrus.WithError(err).Error("failed to list packaged inventories")
		InternalError(c, "failed to load packaged inventories")
		return
	}

	c.JSON(http.StatusOK, entity.PackagedInventoryListResponse{Packages: pkgs, Meta: meta})
}

func (h *HTTPHandler) CreatePackagedInventory(c *gin.Context) {
	var req entity.PackagedInventoryCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	inv, err := h.repo.GetInventory(ctx, req.InventoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeInventoryNotFound, "inventory not found")
			return
		}
		logrus.WithError(err).Error("failed to load inventory for packaging")
		InternalError(c, "failed to create packaged inventory")
		return
	}

	pkg := &entity.DbPackagedInventory{
		InventoryID: inv.ID,
		PackageSize: req.PackageSize,
		Units:       req.Units,
		Label:       strings.TrimSpace(req.Label),
	}

	if err := h.repo.CreatePackagedInventory(ctx, pkg); err != nil {
		logrus.WithError(err).Error("failed to create packaged inventory")
		InternalError(c, "failed to create packaged inventory")
		return
	}

	h.recorder.Record(ctx, entity.ActionCreate, entity.EntityKindPackagedInventory,
		formatID(pkg.ID), packagedDisplayName(pkg), entity.JSONMap{"units": pkg.Units})

	c.JSON(http.StatusCreated, pkg)
}

func (h *HTTPHandler) UpdatePackagedInventory(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		BadRequest(c, ErrCodeInvalidRequest, "invalid packaged inventory id")
		return
	}

	var req entity.PackagedInventoryUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	existing, err := h.repo.GetPackagedInventory(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeInventoryNotFound, "packaged inventory not found")
			return
		}
		logrus.WithError(err).Error("failed to load packaged inventory for update")
		InternalError(c, "failed to update packaged inventory")
		return
	}

	updates := entity.PackagedInventoryUpdates{
		PackageSize: req.PackageSize,
		Units:       req.Units,
		Label:       req.Label,
	}

	if updates.IsEmpty() {
		c.JSON(http.StatusOK, existing)
		return
	}

	if err := h.repo.UpdatePackagedInventory(ctx, id, updates); err != nil {
		logrus.WithError(err).Error("failed to update packaged inventory")
		InternalError(c, "failed to update packaged inventory")
		return
	}

	updated, err := h.repo.GetPackagedInventory(ctx, id)
	if err != nil {
		logrus.WithError(err).Error("failed to reload packaged inventory after update")
		InternalError(c, "failed to load updated packaged inventory")
		return
	}

	h.recorder.Record(ctx, entity.ActionUpdate, entity.EntityKindPackagedInventory,
		formatID(updated.ID), packagedDisplayName(updated), entity.JSONMap{"fields": updatedFields(updates.ToMap())})

	c.JSON(http.StatusOK, updated)
}

func (h *HTTPHandler) DeletePackagedInventory(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		BadRequest(c, ErrCodeInvalidRequest, "invalid packaged inventory id")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	existing, err := h.repo.GetPackagedInventory(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeInventoryNotFound, "packaged inventory not found")
			return
		}
		logrus.WithError(err).Error("failed to load packaged inventory for deletion")
		InternalError(c, "failed to delete packaged inventory")
		return
	}

	if err := h.repo.DeletePackagedInventory(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeInventoryNotFound, "packaged inventory not found")
			return
		}
		logrus.WithError(err).Error("failed to delete packaged inventory")
		InternalError(c, "failed to delete packaged inventory")
		return
	}

	h.recorder.Record(ctx, entity.ActionDelete, entity.EntityKindPackagedInventory,
		formatID(existing.ID), packagedDisplayName(existing), nil)

	c.Status(http.StatusNoContent)
}

func inventoryDisplayName(product *entity.DbProduct, store *entity.DbStore) string {
	productName := ""
	if product != nil {
		productName = product.Name
	}
	storeName := ""
	if store != nil {
		storeName = store.Name
	}
	return productName + " @ " + storeName
}

// inventoryRowName resolves display names for an inventory row before it
// disappears. Lookups are best effort; the IDs remain in the log entry.
func inventoryRowName(ctx context.Context, h *HTTPHandler, inv *entity.DbInventory) string {
	if inv == nil {
		return ""
	}
	product, err := h.repo.GetProduct(ctx, inv.ProductID)
	if err != nil {
		product = nil
	}
	store, err := h.repo.GetStore(ctx, inv.StoreID)
	if err != nil {
		store = nil
	}
	if product == nil && store == nil {
		return "inventory " + formatID(inv.ID)
	}
	return inventoryDisplayName(product, store)
}

func packagedDisplayName(pkg *entity.DbPackagedInventory) string {
	if pkg == nil {
		return ""
	}
	if label := strings.TrimSpace(pkg.Label); label != "" {
		return label
	}
	return "package " + formatID(pkg.ID)
}
