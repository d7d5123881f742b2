package visitors

import (
	"fmt"
	"time"

	"github.com/gatehouse-vms/backend/internal/models"
)

// GraceHours is how long a code stays valid past the estimated arrival.
const GraceHours = 72

// ComputeExpiry returns the absolute expiry instant (epoch seconds) for an
// ISO-8601 arrival timestamp ("Z" suffix accepted).
func ComputeExpiry(estimatedArrival string) (int64, error) {
	arrival, err := time.Parse(time.RFC3339, estimatedArrival)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidArrival, err)
	}
	return arrival.Add(GraceHours * time.Hour).Unix(), nil
}

// Expired reports whether the record is past its expiry at now. The
// comparison is strictly greater-than at second precision; records without
// an expiry never expire.
func Expired(rec *models.VisitorRecord, now time.Time) bool {
	if rec.ExpiresAt == 0 {
		return false
	}
	return now.Unix() > rec.ExpiresAt
}
