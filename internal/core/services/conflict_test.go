package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/srgjo27/venue_booking/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func window(start, end string) domain.Window {
	return domain.Window{Start: domain.MustClock(start), End: domain.MustClock(end)}
}

func interval(resource domain.ResourceID, start, end string, status domain.BookingStatus) domain.BookingInterval {
	return domain.BookingInterval{
		ResourceID: resource,
		Date:       domain.Date{Year: 2025, Month: 6, Day: 2},
		Window:     window(start, end),
		Status:     status,
		BookingID:  uuid.New(),
	}
}

func TestFindConflicts(t *testing.T) {
	existing := interval("hall-1", "10:00", "11:00", domain.BookingConfirmed)

	tests := []struct {
		name      string
		resources []domain.ResourceID
		win       domain.Window
		date      domain.Date
		existing  domain.BookingInterval
		want      int
	}{
		{"touching end is free", []domain.ResourceID{"hall-1"}, window("11:00", "12:00"), existing.Date, existing, 0},
		{"touching start is free", []domain.ResourceID{"hall-1"}, window("09:00", "10:00"), existing.Date, existing, 0},
		{"one minute overlap", []domain.ResourceID{"hall-1"}, window("10:59", "11:30"), existing.Date, existing, 1},
		{"contained", []domain.ResourceID{"hall-1"}, window("10:15", "10:45"), existing.Date, existing, 1},
		{"containing", []domain.ResourceID{"hall-1"}, window("09:00", "12:00"), existing.Date, existing, 1},
		{"other resource", []domain.ResourceID{"hall-2"}, window("10:00", "11:00"), existing.Date, existing, 0},
		{"any requested resource", []domain.ResourceID{"hall-2", "hall-1"}, window("10:30", "11:30"), existing.Date, existing, 1},
		{"other date", []domain.ResourceID{"hall-1"}, window("10:00", "11:00"), domain.Date{Year: 2025, Month: 6, Day: 3}, existing, 0},
		{"cancelled never blocks", []domain.ResourceID{"hall-1"}, window("10:00", "11:00"), existing.Date, interval("hall-1", "10:00", "11:00", domain.BookingCancelled), 0},
		{"completed never blocks", []domain.ResourceID{"hall-1"}, window("10:00", "11:00"), existing.Date, interval("hall-1", "10:00", "11:00", domain.BookingCompleted), 0},
		{"tentative hold blocks", []domain.ResourceID{"hall-1"}, window("10:00", "11:00"), existing.Date, interval("hall-1", "10:00", "11:00", domain.BookingTentative), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidate := domain.BookingRequest{ResourceIDs: tt.resources, Date: tt.date, Window: tt.win}

			got := FindConflicts(candidate, []domain.BookingInterval{tt.existing}, nil)

			assert.Len(t, got, tt.want)
		})
	}
}

func TestFindConflicts_ExcludesEditedBooking(t *testing.T) {
	own := interval("hall-1", "10:00", "11:00", domain.BookingPending)
	other := interval("hall-1", "11:00", "12:00", domain.BookingPending)
	candidate := domain.BookingRequest{ResourceIDs: []domain.ResourceID{"hall-1"}, Date: own.Date, Window: window("10:30", "11:30")}

	got := FindConflicts(candidate, []domain.BookingInterval{own, other}, &own.BookingID)

	assert.Equal(t, []domain.BookingInterval{other}, got)
}
