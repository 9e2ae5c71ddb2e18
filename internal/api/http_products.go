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

func (h *HTTPHandler) ListProducts(c *gin.Context) {
	if h.repo == nil {
		ServiceUnavailable(c, "repository not available")
		return
	}

	var query entity.ProductQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "invalid query parameters")
		return
	}
	clampPagination(&query.BaseParams)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	products, meta, err := h.repo.ListProducts(ctx, &query)
	if err != nil {
		logrus.WithError(err).Error("failed to list products")
		InternalError(c, "failed to load products")
		return
	}

	c.JSON(http.StatusOK, entity.ProductListResponse{Products: products, Meta: meta})
}

func (h *HTTPHandler) GetProduct(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		BadRequest(c, ErrCodeInvalidRequest, "invalid product id")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	product, err := h.repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeProductNotFound, "product not found")
			return
		}
		logrus.WithError(err).Error("failed to load product")
		InternalError(c, "failed to load product")
		return
	}

	c.JSON(http.StatusOK, product)
}

func (h *HTTPHandler) CreateProduct(c *gin.Context) {
	var req entity.ProductCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		MissingField(c, "name")
		return
	}
	code := strings.TrimSpace(req.Code)
	if code == "" {
		MissingField(c, "code")
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	product := &entity.DbProduct{
		Name:        name,
		Code:        code,
		WireGauge:   strings.TrimSpace(req.WireGauge),
		Material:    strings.TrimSpace(req.Material),
		Unit:        strings.TrimSpace(req.Unit),
		UnitPrice:   req.UnitPrice,
		Description: strings.TrimSpace(req.Description),
		IsActive:    isActive,
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.CreateProduct(ctx, product); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			BadRequest(c, ErrCodeDuplicateEntry, "product code already in use")
			return
		}
		logrus.WithError(err).Error("failed to create product")
		InternalError(c, "failed to create product")
		return
	}

	h.recorder.Record(ctx, entity.ActionCreate, entity.EntityKindProduct,
		formatID(product.ID), product.Name, entity.JSONMap{"code": product.Code})

	c.JSON(http.StatusCreated, product)
}

func (h *HTTPHandler) UpdateProduct(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		BadRequest(c, ErrCodeInvalidRequest, "invalid product id")
		return
	}

	var req entity.ProductUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	existing, err := h.repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeProductNotFound, "product not found")
			return
		}
		logrus.WithError(err).Error("failed to load product for update")
		InternalError(c, "failed to update product")
		return
	}

	updates := entity.ProductUpdates{
		Name:        req.Name,
		WireGauge:   req.WireGauge,
		Material:    req.Material,
		Unit:        req.Unit,
		UnitPrice:   req.UnitPrice,
		Description: req.Description,
		IsActive:    req.IsActive,
	}

	if updates.IsEmpty() {
		c.JSON(http.StatusOK, existing)
		return
	}

	if err := h.repo.UpdateProduct(ctx, id, updates); err != nil {
		logrus.WithError(err).Error("failed to update product")
		InternalError(c, "failed to update product")
		return
	}

	updated, err := h.repo.GetProduct(ctx, id)
	if err != nil {
		logrus.WithError(err).Error("failed to reload product after update")
		InternalError(c, "failed to load updated product")
		return
	}

	h.recorder.Record(ctx, entity.ActionUpdate, entity.EntityKindProduct,
		formatID(updated.ID), updated.Name, entity.JSONMap{"fields": updatedFields(updates.ToMap())})

	c.JSON(http.StatusOK, updated)
}

func (h *HTTPHandler) DeleteProduct(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		BadRequest(c, ErrCodeInvalidRequest, "invalid product id")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	existing, err := h.repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeProductNotFound, "product not found")
			return
		}
		logrus.WithError(err).Error("failed to load product for deletion")
		InternalError(c, "failed to delete product")
		return
	}

	if err := h.repo.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeProductNotFound, "product not found")
			return
		}
		logrus.WithError(err).Error("failed to delete product")
		InternalError(c, "failed to delete product")
		return
	}

	h.recorder.Record(ctx, entity.ActionDelete, entity.EntityKindProduct,
		formatID(existing.ID), existing.Name, nil)

	c.Status(http.StatusNoContent)
}
