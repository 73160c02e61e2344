package domain

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingTentative BookingStatus = "tentative"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// ActiveStatuses are the statuses whose intervals block other bookings.
// Tentative holds block as well.
var ActiveStatuses = []BookingStatus{BookingPending, BookingConfirmed, BookingTentative}

func (s BookingStatus) IsActive() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingTentative:
		return true
	}
	return false
}

func (s BookingStatus) IsTerminal() bool {
	return s == BookingCancelled || s == BookingCompleted
}

func (s BookingStatus) Valid() bool {
	return s.IsActive() || s.IsTerminal()
}

var statusTransitions = map[BookingStatus][]BookingStatus{
	BookingTentative: {BookingPending, BookingConfirmed, BookingCancelled},
	BookingPending:   {BookingConfirmed, BookingCancelled},
	BookingConfirmed: {BookingCompleted, BookingCancelled},
}

func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type ResourceID string

type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// BookingRequest is a validated, canonical admission request.
type BookingRequest struct {
	TenantID          string        `json:"tenant_id"`
	Customer          Customer      `json:"customer"`
	PrimaryResourceID ResourceID    `json:"primary_resource_id"`
	ResourceIDs       []ResourceID  `json:"resource_ids"`
	Date              Date          `json:"date"`
	Window            Window        `json:"window"`
	PriceOverride     *Money        `json:"price_override,omitempty"`
	RateTier          string        `json:"rate_tier,omitempty"`
	Status            BookingStatus `json:"status"`
	Notes             string        `json:"notes,omitempty"`
}

func (r BookingRequest) HasResource(id ResourceID) bool {
	for _, rid := range r.ResourceIDs {
		if rid == id {
			return true
		}
	}
	return false
}

// Intervals derives one occupied slot per requested resource.
func (r BookingRequest) Intervals(bookingID uuid.UUID) []BookingInterval {
	out := make([]BookingInterval, 0, len(r.ResourceIDs))
	for _, rid := range r.ResourceIDs {
		out = append(out, BookingInterval{
			ResourceID: rid,
			Date:       r.Date,
			Window:     r.Window,
			Status:     r.Status,
			BookingID:  bookingID,
		})
	}
	return out
}

type Booking struct {
	ID            uuid.UUID      `json:"id"`
	Request       BookingRequest `json:"request"`
	Price         PriceBreakdown `json:"price"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	HoldExpiresAt *time.Time     `json:"hold_expires_at,omitempty"`
}

func (b *Booking) Status() BookingStatus { return b.Request.Status }

// BookingInterval is one resource's occupied slot for one booking.
type BookingInterval struct {
	ResourceID ResourceID    `json:"resource_id"`
	Date       Date          `json:"date"`
	Window     Window        `json:"window"`
	Status     BookingStatus `json:"status"`
	BookingID  uuid.UUID     `json:"booking_id"`
}
