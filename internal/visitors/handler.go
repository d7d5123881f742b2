package visitors

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gatehouse-vms/backend/pkg/response"
)

// ActionRequest is the body for POST /visitors.
type ActionRequest struct {
	AccessCode string `json:"AccessCode"`
	Action     string `json:"action"`
}

// Handler exposes the lifecycle operations over HTTP.
type Handler struct {
	svc    *Service
	logger *zap.Logger
}

// NewHandler creates a visitors handler.
func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, logger: logger}
}

// Action handles POST /visitors, dispatching on the action field.
func (h *Handler) Action(c *gin.Context) {
	var req ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Message(c, http.StatusBadRequest, "Missing access code")
		return
	}
	if req.AccessCode == "" {
		response.Message(c, http.StatusBadRequest, "Missing access code")
		return
	}
	switch req.Action {
	case "check-in":
		h.checkIn(c, req.AccessCode)
	case "check-out":
		h.checkOut(c, req.AccessCode)
	case "get-details":
		h.getDetails(c, req.AccessCode)
	default:
		response.Message(c, http.StatusBadRequest, "Invalid or missing action")
	}
}

// GetDetails handles GET /visitors?AccessCode=<code>.
func (h *Handler) GetDetails(c *gin.Context) {
	code := c.Query("AccessCode")
	if code == "" {
		response.Message(c, http.StatusBadRequest, "Missing access code")
		return
	}
	h.getDetails(c, code)
}

func (h *Handler) checkIn(c *gin.Context, code string) {
	rec, err := h.svc.CheckIn(c.Request.Context(), code)
	if err != nil {
		h.writeError(c, err, "Error processing check-in")
		return
	}
	response.MessageData(c, "Visitor checked in", rec)
}

func (h *Handler) checkOut(c *gin.Context, code string) {
	rec, err := h.svc.CheckOut(c.Request.Context(), code)
	if err != nil {
		h.writeError(c, err, "Error processing check-out")
		return
	}
	response.MessageData(c, "Visitor checked out", rec)
}

func (h *Handler) getDetails(c *gin.Context, code string) {
	rec, err := h.svc.GetDetails(c.Request.Context(), code)
	if err != nil {
		h.writeError(c, err, "Error retrieving visitor information")
		return
	}
	c.JSON(http.StatusOK, rec)
}

// writeError maps lifecycle errors to the wire; unexpected failures get the
// operation's generic 500 message and a log line with the cause.
func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Message(c, http.StatusNotFound, "Visitor not found")
	case errors.Is(err, ErrAlreadyCheckedIn):
		response.Message(c, http.StatusBadRequest, "Visitor already checked in")
	case errors.Is(err, ErrVisitComplete):
		response.Message(c, http.StatusBadRequest, "Visitor already completed their visit")
	case errors.Is(err, ErrNotCheckedIn):
		response.Message(c, http.StatusBadRequest, "Visitor must be checked in before checking out")
	case errors.Is(err, ErrExpired):
		response.Message(c, http.StatusBadRequest, "Visitor access code has expired")
	case errors.Is(err, ErrConflict):
		response.Message(c, http.StatusConflict, "Visitor record was modified concurrently, please retry")
	default:
		h.logger.Error("visitor operation failed", zap.Error(err))
		response.Message(c, http.StatusInternalServerError, fallback)
	}
}
