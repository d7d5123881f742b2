// Package memory implements the visitor store as a mutex-guarded map. It
// mirrors the DynamoDB adapter's conditional-write semantics and backs tests
// and local runs (STORE_DRIVER=memory).
package memory

import (
	"context"
	"sync"

	"github.com/gatehouse-vms/backend/internal/models"
	"github.com/gatehouse-vms/backend/internal/visitorstore"
)

// Store is an in-memory visitorstore.Store keyed by access code.
type Store struct {
	mu   sync.RWMutex
	data map[string]models.VisitorRecord
}

var _ visitorstore.Store = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{data: make(map[string]models.VisitorRecord)}
}

func (s *Store) Put(_ context.Context, rec *models.VisitorRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[rec.AccessCode]; ok {
		return visitorstore.ErrCodeExists
	}
	s.data[rec.AccessCode] = *rec
	return nil
}

func (s *Store) Get(_ context.Context, accessCode string) (*models.VisitorRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.data[accessCode]
	if !ok {
		return nil, visitorstore.ErrNotFound
	}
	return &rec, nil
}

func (s *Store) Transition(_ context.Context, accessCode string, expect, next models.VisitorStatus, at string) (*models.VisitorRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.data[accessCode]
	if !ok {
		return nil, visitorstore.ErrNotFound
	}
	if rec.Status != expect {
		return nil, visitorstore.ErrConditionFailed
	}
	rec.Status = next
	switch visitorstore.TimestampAttribute(next) {
	case "checkInTime":
		rec.CheckInTime = at
	case "checkOutTime":
		rec.CheckOutTime = at
	}
	s.data[accessCode] = rec
	return &rec, nil
}

func (s *Store) MarkExpired(_ context.Context, accessCode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.data[accessCode]
	if !ok {
		return nil
	}
	rec.Status = models.StatusExpired
	s.data[accessCode] = rec
	return nil
}

func (s *Store) Delete(_ context.Context, accessCode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, accessCode)
	return nil
}

func (s *Store) ListByCreator(_ context.Context, createdBy string, status models.VisitorStatus) ([]models.VisitorRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var recs []models.VisitorRecord
	for _, rec := range s.data {
		if rec.CreatedBy == createdBy && rec.Status == status {
			recs = append(recs, rec)
		}
	}
	return recs, nil
}
