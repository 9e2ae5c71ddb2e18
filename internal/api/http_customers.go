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

func (h *HTTPHandler) ListCustomers(c *gin.Context) {
	if h.repo == nil {
		ServiceUnavailable(c, "repository not available")
		return
	}

	var query entity.CustomerQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "invalid query parameters")
		return
	}
	clampPagination(&query.BaseParams)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	customers, meta, err := h.repo.ListCustomers(ctx, &query)
	if err != nil {
		logrus.WithError(err).Error("failed to list customers")
		InternalError(c, "failed to load customers")
		return
	}

	c.JSON(http.StatusOK, entity.CustomerListResponse{Customers: customers, Meta: meta})
}

func (h *HTTPHandler) GetCustomer(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		BadRequest(c, ErrCodeInvalidRequest, "invalid customer id")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	customer, err := h.repo.GetCustomer(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeCustomerNotFound, "customer not found")
			return
		}
		logrus.WithError(err).Error("failed to load customer")
		InternalError(c, "failed to load customer")
		return
	}

	c.JSON(http.StatusOK, customer)
}

func (h *HTTPHandler) CreateCustomer(c *gin.Context) {
	var req entity.CustomerCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		MissingField(c, "name")
		return
	}

	customer := &entity.DbCustomer{
		Name:        name,
		Email:       strings.TrimSpace(req.Email),
		Phone:       strings.TrimSpace(req.Phone),
		Address:     strings.TrimSpace(req.Address),
		City:        strings.TrimSpace(req.City),
		CreditLimit: req.CreditLimit,
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.CreateCustomer(ctx, customer); err != nil {
		logrus.WithError(err).Error("failed to create customer")
		InternalError(c, "failed to create customer")
		return
	}

	h.recorder.Record(ctx, entity.ActionCreate, entity.EntityKindCustomer,
		formatID(customer.ID), customer.Name, nil)

	c.JSON(http.StatusCreated, customer)
}

func (h *HTTPHandler) UpdateCustomer(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		BadRequest(c, ErrCodeInvalidRequest, "invalid customer id")
		return
	}

	var req entity.CustomerUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	existing, err := h.repo.GetCustomer(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeCustomerNotFound, "customer not found")
			return
		}
		logrus.WithError(err).Error("failed to load customer for update")
		InternalError(c, "failed to update customer")
		return
	}

	updates := entity.CustomerUpdates{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Address:     req.Address,
		City:        req.City,
		CreditLimit: req.CreditLimit,
	}

	if updates.IsEmpty() {
		c.JSON(http.StatusOK, existing)
		return
	}

	if err := h.repo.UpdateCustomer(ctx, id, updates); err != nil {
		logrus.WithError(err).Error("failed to update customer")
		InternalError(c, "failed to update customer")
		return
	}

	updated, err := h.repo.GetCustomer(ctx, id)
	if err != nil {
		logrus.WithError(err).Error("failed to reload customer after update")
		InternalError(c, "failed to load updated customer")
		return
	}

	h.recorder.Record(ctx, entity.ActionUpdate, entity.EntityKindCustomer,
		formatID(updated.ID), updated.Name, entity.JSONMap{"fields": updatedFields(updates.ToMap())})

	c.JSON(http.StatusOK, updated)
}

func (h *HTTPHandler) DeleteCustomer(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		BadRequest(c, ErrCodeInvalidRequest, "invalid customer id")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	existing, err := h.repo.GetCustomer(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeCustomerNotFound, "customer not found")
			return
		}
		logrus.WithError(err).Error("failed to load customer for deletion")
		InternalError(c, "failed to delete customer")
		return
	}

	if err := h.repo.DeleteCustomer(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeCustomerNotFound, "customer not found")
			return
		}
		logrus.WithError(err).Error("failed to delete customer")
		InternalError(c, "failed to delete customer")
		return
	}

	h.recorder.Record(ctx, entity.ActionDelete, entity.EntityKindCustomer,
		formatID(existing.ID), existing.Name, nil)

	c.Status(http.StatusNoContent)
}
