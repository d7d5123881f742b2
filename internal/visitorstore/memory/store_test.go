package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/gatehouse-vms/backend/internal/models"
	"github.com/gatehouse-vms/backend/internal/visitorstore"
)

func rec(code, createdBy string, status models.VisitorStatus) *models.VisitorRecord {
	return &models.VisitorRecord{
		PK: models.VisitorPK(code), SK: models.VisitorSK,
		AccessCode: code, CreatedBy: createdBy, Status: status,
	}
}

func TestPutConditionalOnAbsence(t *testing.T) {
	s := New()
	ctx := context.Background()
	if err := s.Put(ctx, rec("123456", "a@x.com", models.StatusPending)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put(ctx, rec("123456", "b@x.com", models.StatusPending)); !errors.Is(err, visitorstore.ErrCodeExists) {
		t.Fatalf("second Put err = %v, want ErrCodeExists", err)
	}
	// The original record survived the rejected put.
	got, err := s.Get(ctx, "123456")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.CreatedBy != "a@x.com" {
		t.Errorf("CreatedBy = %q, want a@x.com", got.CreatedBy)
	}
}

func TestGetNotFound(t *testing.T) {
	s := New()
	if _, err := s.Get(context.Background(), "000000"); !errors.Is(err, visitorstore.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestTransitionGuard(t *testing.T) {
	s := New()
	ctx := context.Background()
	if err := s.Put(ctx, rec("123456", "a@x.com", models.StatusPending)); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := s.Transition(ctx, "123456", models.StatusPending, models.StatusCheckedIn, "2024-01-01T11:00:00.000000")
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}
	if got.Status != models.StatusCheckedIn {
		t.Errorf("Status = %q", got.Status)
	}
	if got.CheckInTime != "2024-01-01T11:00:00.000000" {
		t.Errorf("CheckInTime = %q", got.CheckInTime)
	}

	// Guard: expecting Pending now fails.
	if _, err := s.Transition(ctx, "123456", models.StatusPending, models.StatusCheckedIn, "x"); !errors.Is(err, visitorstore.ErrConditionFailed) {
		t.Fatalf("err = %v, want ErrConditionFailed", err)
	}

	got, err = s.Transition(ctx, "123456", models.StatusCheckedIn, models.StatusCheckedOut, "2024-01-01T12:00:00.000000")
	if err != nil {
		t.Fatalf("Transition to CheckedOut: %v", err)
	}
	if got.CheckOutTime != "2024-01-01T12:00:00.000000" || got.CheckInTime == "" {
		t.Errorf("timestamps = (%q, %q)", got.CheckInTime, got.CheckOutTime)
	}

	if _, err := s.Transition(ctx, "999999", models.StatusPending, models.StatusCheckedIn, "x"); !errors.Is(err, visitorstore.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestMarkExpiredAndDelete(t *testing.T) {
	s := New()
	ctx := context.Background()
	if err := s.Put(ctx, rec("123456", "a@x.com", models.StatusPending)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.MarkExpired(ctx, "123456"); err != nil {
		t.Fatalf("MarkExpired: %v", err)
	}
	got, _ := s.Get(ctx, "123456")
	if got.Status != models.StatusExpired {
		t.Errorf("Status = %q, want Expired", got.Status)
	}
	if err := s.Delete(ctx, "123456"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, "123456"); !errors.Is(err, visitorstore.ErrNotFound) {
		t.Fatal("record still present after delete")
	}
	// Deleting a missing record is not an error.
	if err := s.Delete(ctx, "123456"); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
}

func TestListByCreator(t *testing.T) {
	s := New()
	ctx := context.Background()
	_ = s.Put(ctx, rec("100001", "a@x.com", models.StatusPending))
	_ = s.Put(ctx, rec("100002", "a@x.com", models.StatusCheckedIn))
	_ = s.Put(ctx, rec("100003", "b@x.com", models.StatusPending))

	got, err := s.ListByCreator(ctx, "a@x.com", models.StatusPending)
	if err != nil {
		t.Fatalf("ListByCreator: %v", err)
	}
	if len(got) != 1 || got[0].AccessCode != "100001" {
		t.Fatalf("got %v, want just 100001", got)
	}

	got, err = s.ListByCreator(ctx, "c@x.com", models.StatusPending)
	if err != nil {
		t.Fatalf("ListByCreator: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %d records for unknown creator", len(got))
	}
}
