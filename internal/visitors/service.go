// Package visitors implements the visitor lifecycle: creation, the
// Pending -> CheckedIn -> CheckedOut state machine, and lazy expiry.
package visitors

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/gatehouse-vms/backend/internal/models"
	"github.com/gatehouse-vms/backend/internal/visitorstore"
)

// createAttempts bounds the conditional-put retry loop on code collision.
const createAttempts = 3

// Notifier delivers best-effort status notifications. Implementations never
// return errors; failures are logged and swallowed.
type Notifier interface {
	VisitorCreated(ctx context.Context, rec *models.VisitorRecord)
	StatusChanged(ctx context.Context, rec *models.VisitorRecord, status models.VisitorStatus)
}

// CreateInput holds the validated fields of a creation request.
type CreateInput struct {
	FirstName        string
	LastName         string
	Email            string
	Phone            string
	VisitType        string
	StaffToVisit     string
	EstimatedArrival string
	MultiDayVisit    bool
	Reason           string
	IdentityCard     string
	StartDate        string
	EndDate          string
	CreatedBy        string
}

// Service is the lifecycle state machine over the record store.
type Service struct {
	store    visitorstore.Store
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates the lifecycle service.
func NewService(store visitorstore.Store, notifier Notifier, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:    store,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// Create issues a fresh access code, writes a Pending record, and emails the
// visitor their code. A code collision retries with a new code.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.VisitorRecord, error) {
	expiresAt, err := ComputeExpiry(in.EstimatedArrival)
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < createAttempts; attempt++ {
		code, err := GenerateAccessCode()
		if err != nil {
			return nil, err
		}
		rec := &models.VisitorRecord{
			PK:               models.VisitorPK(code),
			SK:               models.VisitorSK,
			AccessCode:       code,
			FirstName:        in.FirstName,
			LastName:         in.LastName,
			Email:            in.Email,
			Phone:            in.Phone,
			VisitType:        in.VisitType,
			StaffToVisit:     in.StaffToVisit,
			EstimatedArrival: in.EstimatedArrival,
			MultiDayVisit:    in.MultiDayVisit,
			Reason:           in.Reason,
			IdentityCard:     in.IdentityCard,
			StartDate:        in.StartDate,
			EndDate:          in.EndDate,
			CreatedBy:        in.CreatedBy,
			CreatedAt:        isoTimestamp(s.now()),
			Status:           models.StatusPending,
			ExpiresAt:        expiresAt,
		}
		err = s.store.Put(ctx, rec)
		if errors.Is(err, visitorstore.ErrCodeExists) {
			s.logger.Warn("access code collision, retrying", zap.String("access_code", code))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("create visitor: %w", err)
		}
		s.logger.Info("visitor request created", zap.String("access_code", code), zap.String("created_by", in.CreatedBy))
		s.notifier.VisitorCreated(ctx, rec)
		return rec, nil
	}
	return nil, fmt.Errorf("create visitor: exhausted %d access code attempts", createAttempts)
}

// CheckIn moves a Pending record to CheckedIn. Expiry gates check-in: a code
// past its grace window is lazily cleaned up and reported expired.
func (s *Service) CheckIn(ctx context.Context, accessCode string) (*models.VisitorRecord, error) {
	rec, err := s.get(ctx, accessCode)
	if err != nil {
		return nil, err
	}
	switch rec.Status {
	case models.StatusCheckedIn:
		return nil, ErrAlreadyCheckedIn
	case models.StatusCheckedOut:
		return nil, ErrVisitComplete
	}
	if Expired(rec, s.now()) {
		s.expire(ctx, accessCode)
		return nil, ErrExpired
	}

	updated, err := s.store.Transition(ctx, accessCode, models.StatusPending, models.StatusCheckedIn, isoTimestamp(s.now()))
	if err != nil {
		return nil, s.transitionErr(err)
	}
	s.logger.Info("visitor checked in", zap.String("access_code", accessCode))
	s.notifier.StatusChanged(ctx, updated, models.StatusCheckedIn)
	return updated, nil
}

// CheckOut moves a CheckedIn record to CheckedOut. Expiry is deliberately
// not evaluated here: it only gates entry, never exit, since a checked-in
// visitor is on-site.
func (s *Service) CheckOut(ctx context.Context, accessCode string) (*models.VisitorRecord, error) {
	rec, err := s.get(ctx, accessCode)
	if err != nil {
		return nil, err
	}
	if rec.Status != models.StatusCheckedIn {
		return nil, ErrNotCheckedIn
	}

	updated, err := s.store.Transition(ctx, accessCode, models.StatusCheckedIn, models.StatusCheckedOut, isoTimestamp(s.now()))
	if err != nil {
		return nil, s.transitionErr(err)
	}
	s.logger.Info("visitor checked out", zap.String("access_code", accessCode))
	s.notifier.StatusChanged(ctx, updated, models.StatusCheckedOut)
	return updated, nil
}

// GetDetails returns the record unless it has expired, in which case it is
// lazily cleaned up.
func (s *Service) GetDetails(ctx context.Context, accessCode string) (*models.VisitorRecord, error) {
	rec, err := s.get(ctx, accessCode)
	if err != nil {
		return nil, err
	}
	if Expired(rec, s.now()) {
		s.expire(ctx, accessCode)
		return nil, ErrExpired
	}
	return rec, nil
}

func (s *Service) get(ctx context.Context, accessCode string) (*models.VisitorRecord, error) {
	rec, err := s.store.Get(ctx, accessCode)
	if errors.Is(err, visitorstore.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load visitor: %w", err)
	}
	return rec, nil
}

func (s *Service) transitionErr(err error) error {
	switch {
	case errors.Is(err, visitorstore.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, visitorstore.ErrConditionFailed):
		return ErrConflict
	default:
		return fmt.Errorf("transition visitor: %w", err)
	}
}

// expire marks the record Expired and then deletes it. Both steps are
// best-effort: a cleanup failure never changes the Expired outcome already
// decided for the caller.
func (s *Service) expire(ctx context.Context, accessCode string) {
	if err := s.store.MarkExpired(ctx, accessCode); err != nil {
		s.logger.Error("mark expired failed", zap.String("access_code", accessCode), zap.Error(err))
		return
	}
	if err := s.store.Delete(ctx, accessCode); err != nil {
		s.logger.Error("delete expired record failed", zap.String("access_code", accessCode), zap.Error(err))
		return
	}
	s.logger.Info("expired visitor record removed", zap.String("access_code", accessCode))
}

// isoTimestamp formats t the way records have always stored timestamps:
// UTC ISO-8601 with microseconds, no zone suffix.
func isoTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000000")
}
