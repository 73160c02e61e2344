package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/venue_booking/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = domain.Date{Year: 2025, Month: 6, Day: 2}

func newBooking(status domain.BookingStatus, start, end string, resources ...domain.ResourceID) (*domain.Booking, []domain.BookingInterval) {
	b := &domain.Booking{
		ID: uuid.New(),
		Request: domain.BookingRequest{
			TenantID:    "t1",
			ResourceIDs: resources,
			Date:        day,
			Window:      domain.Window{Start: domain.MustClock(start), End: domain.MustClock(end)},
			Status:      status,
		},
	}
	return b, b.Request.Intervals(b.ID)
}

func TestStore_Catalog(t *testing.T) {
	s := NewStore()
	s.AddTenant(domain.Tenant{ID: "t1"})
	require.NoError(t, s.AddResource(domain.Resource{ID: "hall-1", TenantID: "t1"}))
	require.NoError(t, s.AddResource(domain.Resource{ID: "hall-2", TenantID: "t1"}))
	require.NoError(t, s.AddResource(domain.Resource{ID: "hall-2", TenantID: "t1", Name: "renamed"}))
	assert.Error(t, s.AddResource(domain.Resource{ID: "hall-1", TenantID: "t2"}))
	ctx := context.Background()

	tenant, err := s.Tenant(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, tenant.Location)

	_, err = s.Tenant(ctx, "t9")
	assert.ErrorIs(t, err, domain.ErrTenantNotFound)

	resources, err := s.Resources(ctx, "t1", []domain.ResourceID{"hall-2", "hall-9"})
	require.NoError(t, err)
	require.Len(t, resources, 1)
	assert.Equal(t, domain.ResourceID("hall-2"), resources[0].ID)
}

func TestStore_CreateRefusesOverlap(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	first, ivs := newBooking(domain.BookingConfirmed, "10:00", "11:00", "hall-1")
	require.NoError(t, s.CreateBooking(ctx, first, ivs))

	second, ivs := newBooking(domain.BookingPending, "10:30", "11:30", "hall-2", "hall-1")
	err := s.CreateBooking(ctx, second, ivs)
	var cerr *domain.ConflictError
	require.ErrorAs(t, err, &cerr)
	assert.Len(t, cerr.Conflicts, 1)

	_, err = s.GetBooking(ctx, "t1", second.ID)
	assert.ErrorIs(t, err, domain.ErrBookingNotFound)

	active, err := s.ActiveIntervals(ctx, "t1", []domain.ResourceID{"hall-2"}, day)
	require.NoError(t, err)
	assert.Empty(t, active)

	err = s.CreateBooking(ctx, first, first.Request.Intervals(first.ID))
	assert.ErrorIs(t, err, domain.ErrPersistence)
}

func TestStore_ReplaceAndStatus(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	b, ivs := newBooking(domain.BookingPending, "10:00", "11:00", "hall-1")
	require.NoError(t, s.CreateBooking(ctx, b, ivs))

	b.Request.Window = domain.Window{Start: domain.MustClock("10:30"), End: domain.MustClock("12:00")}
	require.NoError(t, s.ReplaceBooking(ctx, b, b.Request.Intervals(b.ID), domain.BookingPending))

	active, err := s.ActiveIntervals(ctx, "t1", []domain.ResourceID{"hall-1"}, day)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "10:30-12:00", active[0].Window.String())

	err = s.UpdateStatus(ctx, "t1", b.ID, domain.BookingConfirmed, domain.BookingCancelled)
	assert.ErrorIs(t, err, domain.ErrInvalidStatusTransition)

	require.NoError(t, s.UpdateStatus(ctx, "t1", b.ID, domain.BookingPending, domain.BookingCancelled))
	active, err = s.ActiveIntervals(ctx, "t1", []domain.ResourceID{"hall-1"}, day)
	require.NoError(t, err)
	assert.Empty(t, active)

	other, _ := newBooking(domain.BookingPending, "10:00", "11:00", "hall-1")
	assert.ErrorIs(t, s.ReplaceBooking(ctx, other, nil, domain.BookingPending), domain.ErrBookingNotFound)
}

func TestStore_ReplaceRefusesChangedStatus(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	b, ivs := newBooking(domain.BookingPending, "10:00", "11:00", "hall-1")
	require.NoError(t, s.CreateBooking(ctx, b, ivs))
	require.NoError(t, s.UpdateStatus(ctx, "t1", b.ID, domain.BookingPending, domain.BookingCancelled))

	edited := *b
	edited.Request.Window = domain.Window{Start: domain.MustClock("10:00"), End: domain.MustClock("12:00")}
	err := s.ReplaceBooking(ctx, &edited, edited.Request.Intervals(b.ID), domain.BookingPending)
	assert.ErrorIs(t, err, domain.ErrInvalidStatusTransition)

	stored, err := s.GetBooking(ctx, "t1", b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, stored.Status())
	assert.Equal(t, "10:00-11:00", stored.Request.Window.String())

	active, err := s.ActiveIntervals(ctx, "t1", []domain.ResourceID{"hall-1"}, day)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestStore_ExpiredHolds(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	expired, ivs := newBooking(domain.BookingTentative, "10:00", "11:00", "hall-1")
	past := now.Add(-time.Minute)
	expired.HoldExpiresAt = &past
	require.NoError(t, s.CreateBooking(ctx, expired, ivs))

	fresh, ivs := newBooking(domain.BookingTentative, "12:00", "13:00", "hall-1")
	future := now.Add(time.Minute)
	fresh.HoldExpiresAt = &future
	require.NoError(t, s.CreateBooking(ctx, fresh, ivs))

	refs, err := s.GetExpiredHolds(ctx, now, 10)
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, expired.ID, refs[0].BookingID)
	assert.Equal(t, "t1", refs[0].TenantID)
}

func TestStore_ReturnsCopies(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	b, ivs := newBooking(domain.BookingPending, "10:00", "11:00", "hall-1")
	require.NoError(t, s.CreateBooking(ctx, b, ivs))

	got, err := s.GetBooking(ctx, "t1", b.ID)
	require.NoError(t, err)
	got.Request.ResourceIDs[0] = "hall-9"

	again, err := s.GetBooking(ctx, "t1", b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ResourceID("hall-1"), again.Request.ResourceIDs[0])
}
