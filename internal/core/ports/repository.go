package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/venue_booking/internal/core/domain"
)

// AvailabilityIndex is the read model of occupied intervals. Only intervals
// whose status is active are returned.
type AvailabilityIndex interface {
	ActiveIntervals(ctx context.Context, tenantID string, resourceIDs []domain.ResourceID, date domain.Date) ([]domain.BookingInterval, error)
}

type RateConfigSource interface {
	RateConfig(ctx context.Context, resourceID domain.ResourceID) ([]domain.RateRule, error)
}

type Catalog interface {
	Tenant(ctx context.Context, tenantID string) (*domain.Tenant, error)
	Resources(ctx context.Context, tenantID string, ids []domain.ResourceID) ([]domain.Resource, error)
}

type HoldRef struct {
	TenantID  string
	BookingID uuid.UUID
}

// BookingRepository persists bookings together with their derived intervals.
// CreateBooking and ReplaceBooking are all-or-nothing and must refuse to make
// overlapping active intervals visible, returning *domain.ConflictError.
// ReplaceBooking only overwrites a booking still in status expected and
// reports domain.ErrInvalidStatusTransition otherwise.
type BookingRepository interface {
	GetBooking(ctx context.Context, tenantID string, id uuid.UUID) (*domain.Booking, error)
	CreateBooking(ctx context.Context, b *domain.Booking, intervals []domain.BookingInterval) error
	ReplaceBooking(ctx context.Context, b *domain.Booking, intervals []domain.BookingInterval, expected domain.BookingStatus) error
	UpdateStatus(ctx context.Context, tenantID string, id uuid.UUID, from, to domain.BookingStatus) error
	GetExpiredHolds(ctx context.Context, now time.Time, limit int) ([]HoldRef, error)
}

type Release func(ctx context.Context)

// Locker grants exclusive access to a set of keys. Implementations acquire in
// the given order and give up after wait with a *domain.ConcurrencyError.
type Locker interface {
	Acquire(ctx context.Context, keys []string, wait time.Duration) (Release, error)
}
