package visitors

import "errors"

// Lifecycle guard and validation errors. Handlers translate these to the
// HTTP surface with errors.Is.
var (
	ErrNotFound         = errors.New("visitor not found")
	ErrAlreadyCheckedIn = errors.New("visitor already checked in")
	ErrVisitComplete    = errors.New("visitor already completed their visit")
	ErrNotCheckedIn     = errors.New("visitor not checked in")
	ErrExpired          = errors.New("visitor access code has expired")
	ErrConflict         = errors.New("visitor record modified concurrently")
	ErrInvalidArrival   = errors.New("invalid estimatedArrival timestamp")
)
