package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// draftSaveRequest carries the form snapshot to persist.
type draftSaveRequest struct {
	Data     map[string]interface{} `json:"data" binding:"required"`
	Debounce bool                   `json:"debounce"`
}

// GetDraft loads the saved draft for one form. A missing or expired
// draft responds with 404 so the client falls back to an empty form.
func (h *HTTPHandler) GetDraft(c *gin.Context) {
	formID := strings.TrimSpace(c.Param("form_id"))
	if formID == "" {
		BadRequest(c, ErrCodeInvalidRequest, "invalid form id")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	data := h.drafts.Load(ctx, formID)
	if data == nil {
		NotFound(c, ErrCodeNotFound, "no draft saved")
		return
	}

	c.JSON(http.StatusOK, gin.H{"form_id": formID, "data": data})
}

// SaveDraft persists the draft for one form. With debounce enabled the
// write is coalesced; repeated calls within the window collapse into one
// stored snapshot holding the latest data.
func (h *HTTPHandler) SaveDraft(c *gin.Context) {
	formID := strings.TrimSpace(c.Param("form_id"))
	if formID == "" {
		BadRequest(c, ErrCodeInvalidRequest, "invalid form id")
		return
	}

	var req draftSaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	if req.Debounce {
		h.drafts.SaveDebounced(formID, req.Data)
	} else {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()
		h.drafts.Save(ctx, formID, req.Data)
	}

	c.JSON(http.StatusAccepted, gin.H{"form_id": formID, "saved": true})
}

// ClearDraft removes the stored draft for one form, typically after a
// successful submit.
func (h *HTTPHandler) ClearDraft(c *gin.Context) {
	formID := strings.TrimSpace(c.Param("form_id"))
	if formID == "" {
		BadRequest(c, ErrCodeInvalidRequest, "invalid form id")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	h.drafts.Clear(ctx, formID)
	c.Status(http.StatusNoContent)
}

// ClearAllDrafts wipes every stored draft. Admin only.
func (h *HTTPHandler) ClearAllDrafts(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	h.drafts.ClearAll(ctx)
	c.Status(http.StatusNoContent)
}
