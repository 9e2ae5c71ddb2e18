package api

import (
	"context"
	"net/http"
	"time"
	"wiremill/internal/entity"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ListActivityLogs returns recent activity entries, newest first.
func (h *HTTPHandler) ListActivityLogs(c *gin.Context) {
	if h.repo == nil {
		ServiceUnavailable(c, "repository not available")
		return
	}

	var query entity.ActivityLogQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "invalid query parameters")
		return
	}
	if query.Limit < 0 {
		query.Limit = 0
	}
	if query.Limit > 500 {
		query.Limit = 500
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	entries, err := h.recorder.ListEntries(ctx, query.Limit, query)
	if err != nil {
		logrus.WithError(err).Error("failed to list activity logs")
		InternalError(c, "failed to load activity logs")
		return
	}

	c.JSON(http.StatusOK, entity.ActivityLogListResponse{Entries: entries})
}
