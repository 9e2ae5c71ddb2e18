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

func (h *HTTPHandler) ListOrders(c *gin.Context) {
	if h.repo == nil {
		ServiceUnavailable(c, "repository not available")
		return
	}

	var query entity.OrderQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "invalid query parameters")
		return
	}
	clampPagination(&query.BaseParams)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	orders, meta, err := h.repo.ListOrders(ctx, &query)
	if err != nil {
		logrus.WithError(err).Error("failed to list orders")
		InternalError(c, "failed to load orders")
		return
	}

	c.JSON(http.StatusOK, entity.OrderListResponse{Orders: orders, Meta: meta})
}

func (h *HTTPHandler) GetOrder(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		BadRequest(c, ErrCodeInvalidRequest, "invalid order id")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	order, err := h.repo.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeOrderNotFound, "order not found")
			return
		}
		logrus.WithError(err).Error("failed to load order")
		InternalError(c, "failed to load order")
		return
	}

	c.JSON(http.StatusOK, order)
}

func (h *HTTPHandler) CreateOrder(c *gin.Context) {
	var req entity.OrderCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	orderNumber := strings.TrimSpace(req.OrderNumber)
	if orderNumber == "" {
		MissingField(c, "order_number")
		return
	}
	if len(req.Items) == 0 {
		MissingField(c, "items")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if _, err := h.repo.GetCustomer(ctx, req.CustomerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeCustomerNotFound, "customer not found")
			return
		}
		logrus.WithError(err).Error("failed to load customer for order")
		InternalError(c, "failed to create order")
		return
	}

	items := entity.OrderItems(req.Items)
	order := &entity.DbOrder{
		CustomerID:  req.CustomerID,
		OrderNumber: orderNumber,
		Status:      entity.OrderStatusPending,
		Items:       items,
		TotalAmount: items.Total(),
		Notes:       strings.TrimSpace(req.Notes),
	}

	if err := h.repo.CreateOrder(ctx, order); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			BadRequest(c, ErrCodeDuplicateEntry, "order number already in use")
			return
		}
		logrus.WithError(err).Error("failed to create order")
		InternalError(c, "failed to create order")
		return
	}

	h.recorder.Record(ctx, entity.ActionCreate, entity.EntityKindOrder,
		formatID(order.ID), order.OrderNumber, entity.JSONMap{"total_amount": order.TotalAmount})

	c.JSON(http.StatusCreated, order)
}

func (h *HTTPHandler) UpdateOrder(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		BadRequest(c, ErrCodeInvalidRequest, "invalid order id")
		return
	}

	var req entity.OrderUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	existing, err := h.repo.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeOrderNotFound, "order not found")
			return
		}
		logrus.WithError(err).Error("failed to load order for update")
		InternalError(c, "failed to update order")
		return
	}

	updates := entity.OrderUpdates{Notes: req.Notes}

	if req.Status != nil {
		status := sanitizeOrderStatus(*req.Status)
		if status == "" {
			BadRequest(c, ErrCodeInvalidRequest, "invalid order status")
			return
		}
		updates.Status = &status
	}

	if req.Items != nil {
		if len(*req.Items) == 0 {
			BadRequest(c, ErrCodeInvalidRequest, "order must have at least one item")
			return
		}
		items := entity.OrderItems(*req.Items)
		total := items.Total()
		updates.Items = &items
		updates.TotalAmount = &total
	}

	if updates.IsEmpty() {
		c.JSON(http.StatusOK, existing)
		return
	}

	if err := h.repo.UpdateOrder(ctx, id, updates); err != nil {
		logrus.WithError(err).Error("failed to update order")
		InternalError(c, "failed to update order")
		return
	}

	updated, err := h.repo.GetOrder(ctx, id)
	if err != nil {
		logrus.WithError(err).Error("failed to reload order after update")
		InternalError(c, "failed to load updated order")
		return
	}

	h.recorder.Record(ctx, entity.ActionUpdate, entity.EntityKindOrder,
		formatID(updated.ID), updated.OrderNumber, entity.JSONMap{"fields": updatedFields(updates.ToMap())})

	c.JSON(http.StatusOK, updated)
}

func (h *HTTPHandler) DeleteOrder(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		BadRequest(c, ErrCodeInvalidRequest, "invalid order id")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	existing, err := h.repo.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeOrderNotFound, "order not found")
			return
		}
		logrus.WithError(err).Error("failed to load order for deletion")
		InternalError(c, "failed to delete order")
		return
	}

	if err := h.repo.DeleteOrder(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeOrderNotFound, "order not found")
			return
		}
		logrus.WithError(err).Error("failed to delete order")
		InternalError(c, "failed to delete order")
		return
	}

	h.recorder.Record(ctx, entity.ActionDelete, entity.EntityKindOrder,
		formatID(existing.ID), existing.OrderNumber, nil)

	c.Status(http.StatusNoContent)
}

func sanitizeOrderStatus(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case entity.OrderStatusPending:
		return entity.OrderStatusPending
	case entity.OrderStatusConfirmed:
		return entity.OrderStatusConfirmed
	case entity.OrderStatusDelivered:
		return entity.OrderStatusDelivered
	case entity.OrderStatusCancelled:
		return entity.OrderStatusCancelled
	default:
		return ""
	}
}
