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

func (h *HTTPHandler) ListStores(c *gin.Context) {
	if h.repo == nil {
		ServiceUnavailable(c, "repository not available")
		return
	}

	var query entity.StoreQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "invalid query parameters")
		return
	}
	clampPagination(&query.BaseParams)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	stores, meta, err := h.repo.ListStores(ctx, &query)
	if err != nil {
		logrus.WithError(err).Error("failed to list stores")
		InternalError(c, "failed to load stores")
		return
	}

	c.JSON(http.StatusOK, entity.StoreListResponse{Stores: stores, Meta: meta})
}

func (h *HTTPHandler) GetStore(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		BadRequest(c, ErrCodeInvalidRequest, "invalid store id")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	store, err := h.repo.GetStore(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeStoreNotFound, "store not found")
			return
		}
		logrus.WithError(err).Error("failed to load store")
		InternalError(c, "failed to load store")
		return
	}

	c.JSON(http.StatusOK, store)
}

func (h *HTTPHandler) CreateStore(c *gin.Context) {
	var req entity.StoreCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		MissingField(c, "name")
		return
	}

	store := &entity.DbStore{
		Name:        name,
		Location:    strings.TrimSpace(req.Location),
		Phone:       strings.TrimSpace(req.Phone),
		ManagerName: strings.TrimSpace(req.ManagerName),
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.CreateStore(ctx, store); err != nil {
		logrus.WithError(err).Error("failed to create store")
		InternalError(c, "failed to create store")
		return
	}

	h.recorder.Record(ctx, entity.ActionCreate, entity.EntityKindStore,
		formatID(store.ID), store.Name, nil)

	c.JSON(http.StatusCreated, store)
}

func (h *HTTPHandler) UpdateStore(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		BadRequest(c, ErrCodeInvalidRequest, "invalid store id")
		return
	}

	var req entity.StoreUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	existing, err := h.repo.GetStore(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeStoreNotFound, "store not found")
			return
		}
		logrus.WithError(err).Error("failed to load store for update")
		InternalError(c, "failed to update store")
		return
	}

	updates := entity.StoreUpdates{
		Name:        req.Name,
		Location:    req.Location,
		Phone:       req.Phone,
		ManagerName: req.ManagerName,
	}

	if updates.IsEmpty() {
		c.JSON(http.StatusOK, existing)
		return
	}

	if err := h.repo.UpdateStore(ctx, id, updates); err != nil {
		logrus.WithError(err).Error("failed to update store")
		InternalError(c, "failed to update store")
		return
	}

	updated, err := h.repo.GetStore(ctx, id)
	if err != nil {
		logrus.WithError(err).Error("failed to reload store after update")
		InternalError(c, "failed to load updated store")
		return
	}

	h.recorder.Record(ctx, entity.ActionUpdate, entity.EntityKindStore,
		formatID(updated.ID), updated.Name, entity.JSONMap{"fields": updatedFields(updates.ToMap())})

	c.JSON(http.StatusOK, updated)
}

func (h *HTTPHandler) DeleteStore(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		BadRequest(c, ErrCodeInvalidRequest, "invalid store id")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	existing, err := h.repo.GetStore(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeStoreNotFound, "store not found")
			return
		}
		logrus.WithError(err).Error("failed to load store for deletion")
		InternalError(c, "failed to delete store")
		return
	}

	if err := h.repo.DeleteStore(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeStoreNotFound, "store not found")
			return
		}
		logrus.WithError(err).Error("failed to delete store")
		InternalError(c, "failed to delete store")
		return
	}

	h.recorder.Record(ctx, entity.ActionDelete, entity.EntityKindStore,
		formatID(existing.ID), existing.Name, nil)

	c.Status(http.StatusNoContent)
}
