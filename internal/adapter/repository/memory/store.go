package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/venue_booking/internal/core/domain"
	"github.com/srgjo27/venue_booking/internal/core/ports"
)

// Store keeps tenants, resources, rates and bookings in process memory. Every
// write happens under one mutex, so a commit is visible entirely or not at all.
type Store struct {
	mu        sync.RWMutex
	tenants   map[string]domain.Tenant
	resources map[string]map[domain.ResourceID]domain.Resource
	rates     map[domain.ResourceID][]domain.RateRule
	bookings  map[uuid.UUID]*record
}

type record struct {
	booking   domain.Booking
	intervals []domain.BookingInterval
}

func NewStore() *Store {
	return &Store{
		tenants:   make(map[string]domain.Tenant),
		resources: make(map[string]map[domain.ResourceID]domain.Resource),
		rates:     make(map[domain.ResourceID][]domain.RateRule),
		bookings:  make(map[uuid.UUID]*record),
	}
}

func (s *Store) AddTenant(t domain.Tenant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.Location == nil {
		t.Location = time.UTC
	}
	s.tenants[t.ID] = t
}

// AddResource registers r. Resource IDs are global, as rates are keyed by
// resource alone, so an ID already owned by another tenant is refused.
func (s *Store) AddResource(r domain.Resource) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for tenantID, owned := range s.resources {
		if _, taken := owned[r.ID]; taken && tenantID != r.TenantID {
			return fmt.Errorf("resource %s already belongs to tenant %s", r.ID, tenantID)
		}
	}
	if s.resources[r.TenantID] == nil {
		s.resources[r.TenantID] = make(map[domain.ResourceID]domain.Resource)
	}
	s.resources[r.TenantID][r.ID] = r
	return nil
}

func (s *Store) SetRates(resourceID domain.ResourceID, rules []domain.RateRule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rates[resourceID] = append([]domain.RateRule(nil), rules...)
}

func (s *Store) Tenant(_ context.Context, tenantID string) (*domain.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tenants[tenantID]
	if !ok {
		return nil, domain.ErrTenantNotFound
	}
	return &t, nil
}

func (s *Store) Resources(_ context.Context, tenantID string, ids []domain.ResourceID) ([]domain.Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Resource
	for _, id := range ids {
		if r, ok := s.resources[tenantID][id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *Store) RateConfig(_ context.Context, resourceID domain.ResourceID) ([]domain.RateRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.RateRule(nil), s.rates[resourceID]...), nil
}

func (s *Store) ActiveIntervals(_ context.Context, tenantID string, resourceIDs []domain.ResourceID, date domain.Date) ([]domain.BookingInterval, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeLocked(tenantID, resourceIDs, date, nil), nil
}

func (s *Store) activeLocked(tenantID string, resourceIDs []domain.ResourceID, date domain.Date, exclude *uuid.UUID) []domain.BookingInterval {
	wanted := make(map[domain.ResourceID]struct{}, len(resourceIDs))
	for _, id := range resourceIDs {
		wanted[id] = struct{}{}
	}

	var out []domain.BookingInterval
	for id, rec := range s.bookings {
		if rec.booking.Request.TenantID != tenantID {
			continue
		}
		if exclude != nil && id == *exclude {
			continue
		}
		for _, iv := range rec.intervals {
			if _, ok := wanted[iv.ResourceID]; !ok {
				continue
			}
			if iv.Date == date && iv.Status.IsActive() {
				out = append(out, iv)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ResourceID != out[j].ResourceID {
			return out[i].ResourceID < out[j].ResourceID
		}
		return out[i].Window.Start < out[j].Window.Start
	})
	return out
}

func (s *Store) GetBooking(_ context.Context, tenantID string, id uuid.UUID) (*domain.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.bookings[id]
	if !ok || rec.booking.Request.TenantID != tenantID {
		return nil, domain.ErrBookingNotFound
	}
	b := copyBooking(rec.booking)
	return &b, nil
}

func (s *Store) CreateBooking(_ context.Context, b *domain.Booking, intervals []domain.BookingInterval) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.bookings[b.ID]; exists {
		return &domain.PersistenceError{Op: "create booking", Err: fmt.Errorf("booking %s already exists", b.ID)}
	}
	if err := s.checkOverlapLocked(b, intervals); err != nil {
		return err
	}

	s.bookings[b.ID] = &record{booking: copyBooking(*b), intervals: append([]domain.BookingInterval(nil), intervals...)}
	return nil
}

func (s *Store) ReplaceBooking(_ context.Context, b *domain.Booking, intervals []domain.BookingInterval, expected domain.BookingStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.bookings[b.ID]
	if !ok || rec.booking.Request.TenantID != b.Request.TenantID {
		return domain.ErrBookingNotFound
	}
	if rec.booking.Request.Status != expected {
		return fmt.Errorf("booking %s is %s, not %s: %w", b.ID, rec.booking.Request.Status, expected, domain.ErrInvalidStatusTransition)
	}
	if err := s.checkOverlapLocked(b, intervals); err != nil {
		return err
	}

	rec.booking = copyBooking(*b)
	rec.intervals = append([]domain.BookingInterval(nil), intervals...)
	return nil
}

func (s *Store) checkOverlapLocked(b *domain.Booking, intervals []domain.BookingInterval) error {
	var conflicts []domain.BookingInterval
	for _, iv := range intervals {
		if !iv.Status.IsActive() {
			continue
		}
		for _, other := range s.activeLocked(b.Request.TenantID, []domain.ResourceID{iv.ResourceID}, iv.Date, &b.ID) {
			if other.Window.Overlaps(iv.Window) {
				conflicts = append(conflicts, other)
			}
		}
	}
	if len(conflicts) > 0 {
		return &domain.ConflictError{Conflicts: conflicts}
	}
	return nil
}

func (s *Store) UpdateStatus(_ context.Context, tenantID string, id uuid.UUID, from, to domain.BookingStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.bookings[id]
	if !ok || rec.booking.Request.TenantID != tenantID {
		return domain.ErrBookingNotFound
	}
	if rec.booking.Request.Status != from {
		return fmt.Errorf("booking %s is %s, not %s: %w", id, rec.booking.Request.Status, from, domain.ErrInvalidStatusTransition)
	}

	rec.booking.Request.Status = to
	rec.booking.UpdatedAt = time.Now().UTC()
	if to != domain.BookingTentative {
		rec.booking.HoldExpiresAt = nil
	}
	for i := range rec.intervals {
		rec.intervals[i].Status = to
	}
	return nil
}

func (s *Store) GetExpiredHolds(_ context.Context, now time.Time, limit int) ([]ports.HoldRef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []ports.HoldRef
	for id, rec := range s.bookings {
		b := rec.booking
		if b.Request.Status != domain.BookingTentative || b.HoldExpiresAt == nil {
			continue
		}
		if b.HoldExpiresAt.Before(now) {
			out = append(out, ports.HoldRef{TenantID: b.Request.TenantID, BookingID: id})
		}
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

// Intervals returns every stored interval of a tenant, active or not.
func (s *Store) Intervals(tenantID string) []domain.BookingInterval {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.BookingInterval
	for _, rec := range s.bookings {
		if rec.booking.Request.TenantID == tenantID {
			out = append(out, rec.intervals...)
		}
	}
	return out
}

func copyBooking(b domain.Booking) domain.Booking {
	b.Request.ResourceIDs = append([]domain.ResourceID(nil), b.Request.ResourceIDs...)
	b.Price.Lines = append([]domain.PriceLine(nil), b.Price.Lines...)
	return b
}

var (
	_ ports.Catalog           = (*Store)(nil)
	_ ports.AvailabilityIndex = (*Store)(nil)
	_ ports.RateConfigSource  = (*Store)(nil)
	_ ports.BookingRepository = (*Store)(nil)
)
