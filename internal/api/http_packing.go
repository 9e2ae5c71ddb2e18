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

func (h *HTTPHandler) ListPackings(c *gin.Context) {
	if h.repo == nil {
		ServiceUnavailable(c, "repository not available")
		return
	}

	var query entity.PackingQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "invalid query parameters")
		return
	}
	clampPagination(&query.BaseParams)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	packings, meta, err := h.repo.ListPackings(ctx, &query)
	if err != nil {
		logrus.WithError(err).Error("failed to list packings")
		InternalError(c, "failed to load packings")
		return
	}

	c.JSON(http.StatusOK, entity.PackingListResponse{Packings: packings, Meta: meta})
}

func (h *HTTPHandler) CreatePacking(c *gin.Context) {
	var req entity.PackingCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	order, err := h.repo.GetOrder(ctx, req.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeOrderNotFound, "order not found")
			return
		}
		logrus.WithError(err).Error("failed to load order for packing")
		InternalError(c, "failed to create packing")
		return
	}

	packing := &entity.DbPacking{
		OrderID:        order.ID,
		Status:         entity.PackingStatusPending,
		PackedQuantity: req.PackedQuantity,
		PackerName:     strings.TrimSpace(req.PackerName),
		Notes:          strings.TrimSpace(req.Notes),
	}

	if err := h.repo.CreatePacking(ctx, packing); err != nil {
		logrus.WithError(err).Error("failed to create packing")
		InternalError(c, "failed to create packing")
		return
	}

	h.recorder.Record(ctx, entity.ActionCreate, entity.EntityKindPacking,
		formatID(packing.ID), order.OrderNumber, nil)

	c.JSON(http.StatusCreated, packing)
}

func (h *HTTPHandler) UpdatePacking(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		BadRequest(c, ErrCodeInvalidRequest, "invalid packing id")
		return
	}

	var req entity.PackingUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	existing, err := h.repo.GetPacking(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodePackingNotFound, "packing not found")
			return
		}
		logrus.WithError(err).Error("failed to load packing for update")
		InternalError(c, "failed to update packing")
		return
	}

	updates := entity.PackingUpdates{
		PackedQuantity: req.PackedQuantity,
		PackerName:     req.PackerName,
		Notes:          req.Notes,
	}

	if req.Status != nil {
		status := sanitizePackingStatus(*req.Status)
		if status == "" {
			BadRequest(c, ErrCodeInvalidRequest, "invalid packing status")
			return
		}
		updates.Status = &status
	}

	if updates.IsEmpty() {
		c.JSON(http.StatusOK, existing)
		return
	}

	if err := h.repo.UpdatePacking(ctx, id, updates); err != nil {
		logrus.WithError(err).Error("failed to update packing")
		InternalError(c, "failed to update packing")
		return
	}

	updated, err := h.repo.GetPacking(ctx, id)
	if err != nil {
		logrus.WithError(err).Error("failed to reload packing after update")
		InternalError(c, "failed to load updated packing")
		return
	}

	h.recorder.Record(ctx, entity.ActionUpdate, entity.EntityKindPacking,
		formatID(updated.ID), packingDisplayName(ctx, h, updated), entity.JSONMap{"fields": updatedFields(updates.ToMap())})

	c.JSON(http.StatusOK, updated)
}

func (h *HTTPHandler) DeletePacking(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		BadRequest(c, ErrCodeInvalidRequest, "invalid packing id")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	existing, err := h.repo.GetPacking(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodePackingNotFound, "packing not found")
			return
		}
		logrus.WithError(err).Error("failed to load packing for deletion")
		InternalError(c, "failed to delete packing")
		return
	}

	name := packingDisplayName(ctx, h, existing)

	if err := h.repo.DeletePacking(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodePackingNotFound, "packing not found")
			return
		}
		logrus.WithError(err).Error("failed to delete packing")
		InternalError(c, "failed to delete packing")
		return
	}

	h.recorder.Record(ctx, entity.ActionDelete, entity.EntityKindPacking,
		formatID(existing.ID), name, nil)

	c.Status(http.StatusNoContent)
}

func sanitizePackingStatus(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case entity.PackingStatusPending:
		return entity.PackingStatusPending
	case entity.PackingStatusPacked:
		return entity.PackingStatusPacked
	case entity.PackingStatusShipped:
		return entity.PackingStatusShipped
	default:
		return ""
	}
}

// packingDisplayName snapshots the order number for a packing job.
func packingDisplayName(ctx context.Context, h *HTTPHandler, packing *entity.DbPacking) string {
	if packing == nil {
		return ""
	}
	order, err := h.repo.GetOrder(ctx, packing.OrderID)
	if err != nil || order == nil {
		return "packing " + formatID(packing.ID)
	}
	return order.OrderNumber
}
