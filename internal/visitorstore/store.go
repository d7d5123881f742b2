// Package visitorstore defines the persistence contract for visitor records:
// a single logical table keyed by access code with conditional writes, plus a
// secondary lookup by (CreatedBy, Status).
package visitorstore

import (
	"context"
	"errors"

	"github.com/gatehouse-vms/backend/internal/models"
)

var (
	// ErrNotFound means no record exists for the access code.
	ErrNotFound = errors.New("visitor record not found")
	// ErrCodeExists means a conditional Put lost to an existing record.
	ErrCodeExists = errors.New("access code already in use")
	// ErrConditionFailed means a guarded Transition found a status other
	// than the expected one (a concurrent writer got there first).
	ErrConditionFailed = errors.New("status precondition failed")
)

// Store is the record store adapter. Implementations must make Put and
// Transition atomic with respect to their conditions.
type Store interface {
	// Put inserts a new record, failing with ErrCodeExists if the access
	// code is already taken.
	Put(ctx context.Context, rec *models.VisitorRecord) error

	// Get returns the record for an access code, or ErrNotFound.
	Get(ctx context.Context, accessCode string) (*models.VisitorRecord, error)

	// Transition updates Status from expect to next, stamping the
	// corresponding timestamp attribute with at (an ISO timestamp), and
	// returns the post-update record. Fails with ErrNotFound or, when the
	// stored status no longer equals expect, ErrConditionFailed.
	Transition(ctx context.Context, accessCode string, expect, next models.VisitorStatus, at string) (*models.VisitorRecord, error)

	// MarkExpired unconditionally sets Status=Expired. It is the soft half
	// of lazy expiry, leaving a momentary audit trail before Delete.
	MarkExpired(ctx context.Context, accessCode string) error

	// Delete removes the record. Deleting a missing record is not an error.
	Delete(ctx context.Context, accessCode string) error

	// ListByCreator returns all records with the given creator and status,
	// in store order.
	ListByCreator(ctx context.Context, createdBy string, status models.VisitorStatus) ([]models.VisitorRecord, error)
}

// TimestampAttribute returns the record attribute stamped when entering a
// status, or "" when the transition carries no timestamp.
func TimestampAttribute(next models.VisitorStatus) string {
	switch next {
	case models.StatusCheckedIn:
		return "checkInTime"
	case models.StatusCheckedOut:
		return "checkOutTime"
	default:
		return ""
	}
}
