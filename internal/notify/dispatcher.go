// Package notify composes and sends visitor lifecycle emails. Every send is
// fire-and-forget: failures are logged and never reach the caller, so a
// broken mail channel cannot fail an otherwise-successful operation.
package notify

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/gatehouse-vms/backend/internal/models"
)

// graceHours appears in the visitor's confirmation mail; it matches the
// lifecycle grace window.
const graceHours = 72

// Mailer sends a plain-text message to a single address.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Dispatcher turns lifecycle events into emails. A nil mailer disables
// delivery (logged once per event at warn level).
type Dispatcher struct {
	mailer Mailer
	logger *zap.Logger
}

// NewDispatcher creates a dispatcher.
func NewDispatcher(mailer Mailer, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{mailer: mailer, logger: logger}
}

// VisitorCreated emails the visitor their access code.
func (d *Dispatcher) VisitorCreated(ctx context.Context, rec *models.VisitorRecord) {
	body := fmt.Sprintf(`Hello %s,

You have been scheduled to visit our facility.

Here is your access code: %s
Estimated arrival: %s
This code expires %d hours after the estimated arrival.

Thank you,
Visitor Management Team`, rec.FirstName, rec.AccessCode, rec.EstimatedArrival, graceHours)

	d.send(ctx, rec.Email, "Your Visitor Access Code", body, rec.AccessCode)
}

// StatusChanged emails the creator that their visitor checked in or out.
// Skipped with a warning when the record carries no creator.
func (d *Dispatcher) StatusChanged(ctx context.Context, rec *models.VisitorRecord, status models.VisitorStatus) {
	if rec.CreatedBy == "" {
		d.logger.Warn("no creator email on visitor record, skipping notification", zap.String("access_code", rec.AccessCode))
		return
	}

	var body string
	if status == models.StatusCheckedIn {
		body = fmt.Sprintf(`Hello,

Your visitor %s has checked in.

Visitor details:
- Access code: %s
- Check-in time: %s

Thank you,
Visitor Management System
`, rec.FullName(), rec.AccessCode, orNotAvailable(rec.CheckInTime))
	} else {
		body = fmt.Sprintf(`Hello,

Your visitor %s has checked out.

Visitor details:
- Access code: %s
- Check-in time: %s
- Check-out time: %s

Thank you,
Visitor Management System
`, rec.FullName(), rec.AccessCode, orNotAvailable(rec.CheckInTime), orNotAvailable(rec.CheckOutTime))
	}

	subject := fmt.Sprintf("Visitor %s Notification", status)
	d.send(ctx, rec.CreatedBy, subject, body, rec.AccessCode)
}

func (d *Dispatcher) send(ctx context.Context, to, subject, body, accessCode string) {
	if d.mailer == nil {
		d.logger.Warn("mailer not configured, skipping notification", zap.String("access_code", accessCode))
		return
	}
	if err := d.mailer.Send(ctx, to, subject, body); err != nil {
		d.logger.Error("notification email failed", zap.String("to", to), zap.String("access_code", accessCode), zap.Error(err))
		return
	}
	d.logger.Info("notification email sent", zap.String("to", to), zap.String("access_code", accessCode))
}

func orNotAvailable(s string) string {
	if s == "" {
		return "Not available"
	}
	return s
}
