package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"
	"wiremill/internal/entity"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func (h *HTTPHandler) ListSales(c *gin.Context) {
	if h.repo == nil {
		ServiceUnavailable(c, "repository not available")
		return
	}

	var query entity.SaleQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "invalid query parameters")
		return
	}
	clampPagination(&query.BaseParams)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	sales, meta, err := h.repo.ListSales(ctx, &query)
	if err != nil {
		logrus.WithError(err).Error("failed to list sales")
		InternalError(c, "failed to load sales")
		return
	}

	c.JSON(http.StatusOK, entity.SaleListResponse{Sales: sales, Meta: meta})
}

func (h *HTTPHandler) CreateSale(c *gin.Context) {
	var req entity.SaleCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	customer, err := h.repo.GetCustomer(ctx, req.CustomerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeCustomerNotFound, "customer not found")
			return
		}
		logrus.WithError(err).Error("failed to load customer for sale")
		InternalError(c, "failed to create sale")
		return
	}

	if req.OrderID > 0 {
		if _, err := h.repo.GetOrder(ctx, req.OrderID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				NotFound(c, ErrCodeOrderNotFound, "order not found")
				return
			}
			logrus.WithError(err).Error("failed to load order for sale")
			InternalError(c, "failed to create sale")
			return
		}
	}

	sale := &entity.DbSale{
		OrderID:    req.OrderID,
		CustomerID: req.CustomerID,
		Quantity:   req.Quantity,
		Amount:     req.Amount,
		SoldAt:     time.Now().UTC(),
		Notes:      strings.TrimSpace(req.Notes),
	}

	if err := h.repo.CreateSale(ctx, sale); err != nil {
		logrus.WithError(err).Error("failed to create sale")
		InternalError(c, "failed to create sale")
		return
	}

	h.recorder.Record(ctx, entity.ActionCreate, entity.EntityKindSale,
		formatID(sale.ID), customer.Name, entity.JSONMap{"amount": sale.Amount})

	c.JSON(http.StatusCreated, sale)
}

func (h *HTTPHandler) UpdateSale(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		BadRequest(c, ErrCodeInvalidRequest, "invalid sale id")
		return
	}

	var req entity.SaleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	existing, err := h.repo.GetSale(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeSaleNotFound, "sale not found")
			return
		}
		logrus.WithError(err).Error("failed to load sale for update")
		InternalError(c, "failed to update sale")
		return
	}

	updates := entity.SaleUpdates{
		Quantity: req.Quantity,
		Amount:   req.Amount,
		Notes:    req.Notes,
	}

	if updates.IsEmpty() {
		c.JSON(http.StatusOK, existing)
		return
	}

	if err := h.repo.UpdateSale(ctx, id, updates); err != nil {
		logrus.WithError(err).Error("failed to update sale")
		InternalError(c, "failed to update sale")
		return
	}

	updated, err := h.repo.GetSale(ctx, id)
	if err != nil {
		logrus.WithError(err).Error("failed to reload sale after update")
		InternalError(c, "failed to load updated sale")
		return
	}

	h.recorder.Record(ctx, entity.ActionUpdate, entity.EntityKindSale,
		formatID(updated.ID), saleDisplayName(ctx, h, updated), entity.JSONMap{"fields": updatedFields(updates.ToMap())})

	c.JSON(http.StatusOK, updated)
}

func (h *HTTPHandler) DeleteSale(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		BadRequest(c, ErrCodeInvalidRequest, "invalid sale id")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	existing, err := h.repo.GetSale(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeSaleNotFound, "sale not found")
			return
		}
		logrus.WithError(err).Error("failed to load sale for deletion")
		InternalError(c, "failed to delete sale")
		return
	}

	name := saleDisplayName(ctx, h, existing)

	if err := h.repo.DeleteSale(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeSaleNotFound, "sale not found")
			return
		}
		logrus.WithError(err).Error("failed to delete sale")
		InternalError(c, "failed to delete sale")
		return
	}

	h.recorder.Record(ctx, entity.ActionDelete, entity.EntityKindSale,
		formatID(existing.ID), name, nil)

	c.Status(http.StatusNoContent)
}

// saleDisplayName snapshots the customer name for a sale. Falls back to
// the row ID when the customer row is already gone.
func saleDisplayName(ctx context.Context, h *HTTPHandler, sale *entity.DbSale) string {
	if sale == nil {
		return ""
	}
	customer, err := h.repo.GetCustomer(ctx, sale.CustomerID)
	if err != nil || customer == nil {
		return "sale " + formatID(sale.ID)
	}
	return customer.Name
}
