// Package requests handles visitor pre-registration (POST /requests).
package requests

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gatehouse-vms/backend/internal/visitors"
	"github.com/gatehouse-vms/backend/pkg/response"
)

// CreateRequest is the body for POST /requests. Required fields are pointers
// so that absence can be told apart from a zero value (multiDayVisit=false
// is valid, missing multiDayVisit is not).
type CreateRequest struct {
	EstimatedArrival *string `json:"estimatedArrival"`
	FirstName        *string `json:"firstName"`
	LastName         *string `json:"lastName"`
	Email            *string `json:"email"`
	Phone            *string `json:"phone"`
	VisitType        *string `json:"visitType"`
	StaffToVisit     *string `json:"staffToVisit"`
	MultiDayVisit    *bool   `json:"multiDayVisit"`
	Reason           *string `json:"reason"`
	IdentityCard     *string `json:"identityCard"`
	CreatedBy        *string `json:"createdBy"`
	StartDate        string  `json:"startDate"`
	EndDate          string  `json:"endDate"`
}

// Handler handles creation requests.
type Handler struct {
	svc    *visitors.Service
	logger *zap.Logger
}

// NewHandler creates a requests handler.
func NewHandler(svc *visitors.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, logger: logger}
}

// Create handles POST /requests: validates the body, issues an access code,
// persists the Pending record, and emails the visitor.
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if name, ok := req.missingField(); !ok {
		response.Error(c, http.StatusBadRequest, "Missing required field: '"+name+"'")
		return
	}
	if *req.MultiDayVisit && (req.StartDate == "" || req.EndDate == "") {
		response.Error(c, http.StatusBadRequest, "Multi-day visits require startDate and endDate")
		return
	}

	rec, err := h.svc.Create(c.Request.Context(), visitors.CreateInput{
		FirstName:        *req.FirstName,
		LastName:         *req.LastName,
		Email:            *req.Email,
		Phone:            *req.Phone,
		VisitType:        *req.VisitType,
		StaffToVisit:     *req.StaffToVisit,
		EstimatedArrival: *req.EstimatedArrival,
		MultiDayVisit:    *req.MultiDayVisit,
		Reason:           *req.Reason,
		IdentityCard:     *req.IdentityCard,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		CreatedBy:        *req.CreatedBy,
	})
	if errors.Is(err, visitors.ErrInvalidArrival) {
		response.Error(c, http.StatusBadRequest, "Invalid estimatedArrival: must be an ISO-8601 timestamp")
		return
	}
	if err != nil {
		h.logger.Error("create visitor request failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "Failed to create visitor request or send email")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Visitor request created and email sent",
		"accessCode": rec.AccessCode,
	})
}

// missingField returns the first absent required field, in body order.
func (r *CreateRequest) missingField() (string, bool) {
	checks := []struct {
		name string
		ok   bool
	}{
		{"estimatedArrival", r.EstimatedArrival != nil},
		{"firstName", r.FirstName != nil},
		{"lastName", r.LastName != nil},
		{"email", r.Email != nil},
		{"phone", r.Phone != nil},
		{"visitType", r.VisitType != nil},
		{"staffToVisit", r.StaffToVisit != nil},
		{"multiDayVisit", r.MultiDayVisit != nil},
		{"reason", r.Reason != nil},
		{"identityCard", r.IdentityCard != nil},
		{"createdBy", r.CreatedBy != nil},
	}
	for _, ch := range checks {
		if !ch.ok {
			return ch.name, false
		}
	}
	return "", true
}
