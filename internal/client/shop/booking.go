package shop

import (
	"context"

	"github.com/dammytech/dtxstore/internal/client/backend"
	"github.com/dammytech/dtxstore/internal/client/notify"
	"github.com/dammytech/dtxstore/internal/models"
)

// Bookings handles repair bookings.
type Bookings struct {
	tables   backend.TableAPI
	sessions SessionSource
	notifier notify.Notifier
	whatsapp string
}

// NewBookings wires the booking service.
func NewBookings(tables backend.TableAPI, sessions SessionSource, notifier notify.Notifier, whatsapp string) *Bookings {
	return &Bookings{tables: tables, sessions: sessions, notifier: notifier, whatsapp: whatsapp}
}

// Create records a repair booking for the signed-in user and returns
// the WhatsApp handoff link carrying the booking summary.
func (b *Bookings) Create(ctx context.Context, booking models.Booking) (string, error) {
	sess := b.sessions.Current()
	if sess == nil {
		b.notifier.Error("Please log in to continue")
		return "", ErrNotSignedIn
	}
	if booking.Name == "" || booking.Phone == "" || booking.ProblemDescription == "" {
		b.notifier.Error("Please fill in all required fields")
		return "", ErrMissingFields
	}
	booking.UserID = sess.User.ID
	booking.AdminResponse = ""

	if _, err := b.tables.Insert(ctx, "bookings", booking); err != nil {
		b.notifier.Error("Failed to submit booking")
		return "", err
	}
	b.notifier.Success("Booking submitted successfully!")
	return WhatsAppLink(b.whatsapp, bookingMessage(booking)), nil
}

// ForUser returns the signed-in user's bookings, newest first.
func (b *Bookings) ForUser(ctx context.Context) ([]models.Booking, error) {
	sess := b.sessions.Current()
	if sess == nil {
		return nil, ErrNotSignedIn
	}
	raws, err := b.tables.Select(ctx, "bookings",
		backend.Eq("user_id", sess.User.ID), backend.OrderBy("created_at", false))
	if err != nil {
		b.notifier.Error("Failed to load bookings")
		return nil, err
	}
	bookings, err := models.DecodeRows[models.Booking]("booking", raws)
	if err != nil {
		b.notifier.Error("Failed to load bookings")
		return nil, err
	}
	return bookings, nil
}
