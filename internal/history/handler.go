// Package history serves per-creator visit history (GET /history).
package history

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gatehouse-vms/backend/internal/models"
	"github.com/gatehouse-vms/backend/internal/visitorstore"
	"github.com/gatehouse-vms/backend/pkg/response"
)

// Handler handles history queries.
type Handler struct {
	store  visitorstore.Store
	logger *zap.Logger
}

// NewHandler creates a history handler.
func NewHandler(store visitorstore.Store, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, logger: logger}
}

// List handles GET /history?email=<creator>&status=<optional>. The response
// is a bare JSON array; without a status filter it concatenates one indexed
// lookup per active status, since the index needs an exact status match.
// Expired records never appear: they are deleted from the store.
func (h *Handler) List(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		response.Message(c, http.StatusBadRequest, "Missing email parameter")
		return
	}

	records, err := h.list(c.Request.Context(), email, c.Query("status"))
	if err != nil {
		h.logger.Error("history query failed", zap.String("email", email), zap.Error(err))
		response.Message(c, http.StatusInternalServerError, "Error retrieving visitor history")
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *Handler) list(ctx context.Context, email, statusFilter string) ([]models.VisitorRecord, error) {
	records := make([]models.VisitorRecord, 0)
	if statusFilter != "" {
		recs, err := h.store.ListByCreator(ctx, email, models.VisitorStatus(statusFilter))
		if err != nil {
			return nil, err
		}
		return append(records, recs...), nil
	}
	for _, status := range models.ActiveStatuses {
		recs, err := h.store.ListByCreator(ctx, email, status)
		if err != nil {
			return nil, err
		}
		records = append(records, recs...)
	}
	return records, nil
}
