package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/venue_booking/internal/core/domain"
	"github.com/srgjo27/venue_booking/internal/core/ports"
	"go.uber.org/zap"
)

// Stage is the furthest point an admission attempt reached.
type Stage string

const (
	StageReceived        Stage = "received"
	StageNormalized      Stage = "normalized"
	StageConflictChecked Stage = "conflict_checked"
	StagePriced          Stage = "priced"
	StageCommitted       Stage = "committed"
	StageRejected        Stage = "rejected"
)

type Config struct {
	LockWait     time.Duration
	MaxAttempts  int
	RetryBackoff time.Duration
	HoldTTL      time.Duration
}

func DefaultConfig() Config {
	return Config{
		LockWait:     3 * time.Second,
		MaxAttempts:  3,
		RetryBackoff: 50 * time.Millisecond,
		HoldTTL:      30 * time.Minute,
	}
}

type AvailabilityResult struct {
	OK        bool                     `json:"ok"`
	Conflicts []domain.BookingInterval `json:"conflicts"`
}

type Admission struct {
	BookingID uuid.UUID             `json:"booking_id"`
	Booking   *domain.Booking       `json:"booking"`
	Price     domain.PriceBreakdown `json:"price"`
	Stage     Stage                 `json:"stage"`
	// MissingRates lists resources committed with a pending manual price.
	MissingRates []domain.ResourceID `json:"missing_rates,omitempty"`
}

type BookingService struct {
	catalog     ports.Catalog
	index       ports.AvailabilityIndex
	rates       *RateResolver
	bookingRepo ports.BookingRepository
	locker      ports.Locker
	normalizer  *Normalizer
	cfg         Config
	now         func() time.Time
	logger      *zap.Logger
}

type Option func(*BookingService)

func WithClock(now func() time.Time) Option {
	return func(s *BookingService) {
		s.now = now
		s.normalizer = NewNormalizer(now)
	}
}

func NewBookingService(
	catalog ports.Catalog,
	index ports.AvailabilityIndex,
	rates ports.RateConfigSource,
	bookingRepo ports.BookingRepository,
	locker ports.Locker,
	cfg Config,
	logger *zap.Logger,
	opts ...Option,
) *BookingService {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &BookingService{
		catalog:     catalog,
		index:       index,
		rates:       NewRateResolver(rates),
		bookingRepo: bookingRepo,
		locker:      locker,
		normalizer:  NewNormalizer(time.Now),
		cfg:         cfg,
		now:         time.Now,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CheckAvailability is advisory and has no side effects.
func (s *BookingService) CheckAvailability(ctx context.Context, raw RawBookingRequest, exclude *uuid.UUID) (*AvailabilityResult, error) {
	req, err := s.prepare(ctx, raw)
	if err != nil {
		return nil, err
	}

	conflicts, err := s.conflicts(ctx, req, exclude)
	if err != nil {
		return nil, err
	}

	return &AvailabilityResult{OK: len(conflicts) == 0, Conflicts: conflicts}, nil
}

// PriceQuote prices a request without checking or reserving anything.
func (s *BookingService) PriceQuote(ctx context.Context, raw RawBookingRequest) (*domain.PriceBreakdown, error) {
	req, err := s.prepare(ctx, raw)
	if err != nil {
		return nil, err
	}

	price, _, err := s.price(ctx, req)
	if err != nil {
		return nil, err
	}
	return &price, nil
}

// SubmitBooking runs the full admission pipeline. With editingID set, the
// booking's own prior intervals are ignored and it is replaced in place.
func (s *BookingService) SubmitBooking(ctx context.Context, raw RawBookingRequest, editingID *uuid.UUID) (*Admission, error) {
	log := s.logger.With(zap.String("tenant_id", raw.TenantID))

	req, err := s.prepare(ctx, raw)
	if err != nil {
		log.Info("Booking rejected", zap.String("stage", string(StageReceived)), zap.Error(err))
		return nil, err
	}
	log = log.With(
		zap.Strings("resources", resourceStrings(req.ResourceIDs)),
		zap.String("date", req.Date.String()),
		zap.String("window", req.Window.String()),
	)

	var editing *domain.Booking
	if editingID != nil {
		editing, err = s.bookingRepo.GetBooking(ctx, req.TenantID, *editingID)
		if err != nil {
			return nil, fmt.Errorf("get booking %s: %w", editingID, err)
		}
		if editing == nil {
			return nil, domain.ErrBookingNotFound
		}
		current := editing.Status()
		if current.IsTerminal() {
			return nil, fmt.Errorf("edit %s booking: %w", current, domain.ErrInvalidStatusTransition)
		}
		if strings.TrimSpace(raw.Status) == "" {
			req.Status = current
		} else if req.Status != current && !current.CanTransitionTo(req.Status) {
			return nil, fmt.Errorf("edit %s -> %s: %w", current, req.Status, domain.ErrInvalidStatusTransition)
		}
	}

	// Advisory pass outside the locks so obvious conflicts fail fast.
	conflicts, err := s.conflicts(ctx, req, editingID)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		log.Info("Booking rejected", zap.String("stage", string(StageNormalized)), zap.Int("conflicts", len(conflicts)))
		return nil, &domain.ConflictError{Conflicts: conflicts}
	}

	for attempt := 1; ; attempt++ {
		admission, err := s.admit(ctx, req, editing)
		if err == nil {
			log.Info("Booking committed",
				zap.String("booking_id", admission.BookingID.String()),
				zap.String("total", admission.Price.Total.String()),
				zap.Int("attempt", attempt),
			)
			return admission, nil
		}

		if !domain.IsRetryable(err) || attempt >= s.cfg.MaxAttempts {
			s.logRejection(log, err, attempt)
			return nil, err
		}

		log.Warn("Admission contended, retrying", zap.Int("attempt", attempt), zap.Error(err))
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt) * s.cfg.RetryBackoff):
		}
	}
}

// admit is the authoritative path: locks every resource in a fixed order,
// re-checks conflicts, prices and commits.
func (s *BookingService) admit(ctx context.Context, req domain.BookingRequest, editing *domain.Booking) (*Admission, error) {
	release, err := s.locker.Acquire(ctx, lockKeys(req.TenantID, req.ResourceIDs), s.cfg.LockWait)
	if err != nil {
		var ce *domain.ConcurrencyError
		if errors.As(err, &ce) || ctx.Err() != nil {
			return nil, err
		}
		return nil, &domain.ConcurrencyError{Op: "acquire resource locks", Err: err}
	}
	defer release(context.WithoutCancel(ctx))

	var exclude *uuid.UUID
	if editing != nil {
		exclude = &editing.ID
	}
	conflicts, err := s.conflicts(ctx, req, exclude)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return nil, &domain.ConflictError{Conflicts: conflicts}
	}

	price, missing, err := s.price(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	b := &domain.Booking{
		ID:        uuid.New(),
		Request:   req,
		Price:     price,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if editing != nil {
		b.ID = editing.ID
		b.CreatedAt = editing.CreatedAt
	}
	if req.Status == domain.BookingTentative {
		expires := now.Add(s.cfg.HoldTTL)
		if editing != nil && editing.HoldExpiresAt != nil {
			expires = *editing.HoldExpiresAt
		}
		b.HoldExpiresAt = &expires
	}

	intervals := req.Intervals(b.ID)
	if editing != nil {
		err = s.bookingRepo.ReplaceBooking(ctx, b, intervals, editing.Status())
	} else {
		err = s.bookingRepo.CreateBooking(ctx, b, intervals)
	}
	if err != nil {
		return nil, classifyPersistError(err)
	}

	return &Admission{
		BookingID:    b.ID,
		Booking:      b,
		Price:        price,
		Stage:        StageCommitted,
		MissingRates: missing,
	}, nil
}

// UpdateBookingStatus moves a booking through its lifecycle. Cancelling
// releases its intervals.
func (s *BookingService) UpdateBookingStatus(ctx context.Context, tenantID string, bookingID uuid.UUID, next domain.BookingStatus) (*domain.Booking, error) {
	if !next.Valid() {
		return nil, domain.NewValidationError("status", fmt.Sprintf("unknown status %q", next))
	}

	b, err := s.bookingRepo.GetBooking(ctx, tenantID, bookingID)
	if err != nil {
		return nil, fmt.Errorf("get booking %s: %w", bookingID, err)
	}
	if b == nil {
		return nil, domain.ErrBookingNotFound
	}

	current := b.Status()
	if !current.CanTransitionTo(next) {
		return nil, fmt.Errorf("%s -> %s: %w", current, next, domain.ErrInvalidStatusTransition)
	}

	if err := s.bookingRepo.UpdateStatus(ctx, tenantID, bookingID, current, next); err != nil {
		return nil, fmt.Errorf("update booking status: %w", err)
	}

	s.logger.Info("Booking status changed",
		zap.String("tenant_id", tenantID),
		zap.String("booking_id", bookingID.String()),
		zap.String("from", string(current)),
		zap.String("to", string(next)),
	)

	b.Request.Status = next
	b.UpdatedAt = s.now().UTC()
	if next != domain.BookingTentative {
		b.HoldExpiresAt = nil
	}
	return b, nil
}

func (s *BookingService) GetBooking(ctx context.Context, tenantID string, bookingID uuid.UUID) (*domain.Booking, error) {
	b, err := s.bookingRepo.GetBooking(ctx, tenantID, bookingID)
	if err != nil {
		return nil, fmt.Errorf("get booking %s: %w", bookingID, err)
	}
	if b == nil {
		return nil, domain.ErrBookingNotFound
	}
	return b, nil
}

func (s *BookingService) CancelBooking(ctx context.Context, tenantID string, bookingID uuid.UUID) (*domain.Booking, error) {
	return s.UpdateBookingStatus(ctx, tenantID, bookingID, domain.BookingCancelled)
}

func (s *BookingService) prepare(ctx context.Context, raw RawBookingRequest) (domain.BookingRequest, error) {
	var loc *time.Location
	if raw.TenantID != "" {
		tenant, err := s.catalog.Tenant(ctx, raw.TenantID)
		if err != nil {
			if errors.Is(err, domain.ErrTenantNotFound) {
				return domain.BookingRequest{}, domain.NewValidationError("tenant_id", "unknown tenant")
			}
			return domain.BookingRequest{}, fmt.Errorf("get tenant: %w", err)
		}
		loc = tenant.Location
	}

	req, err := s.normalizer.Normalize(raw, loc)
	if err != nil {
		return domain.BookingRequest{}, err
	}

	resources, err := s.catalog.Resources(ctx, req.TenantID, req.ResourceIDs)
	if err != nil {
		return domain.BookingRequest{}, fmt.Errorf("get resources: %w", err)
	}
	owned := make(map[domain.ResourceID]struct{}, len(resources))
	for _, r := range resources {
		owned[r.ID] = struct{}{}
	}
	for _, id := range req.ResourceIDs {
		if _, ok := owned[id]; !ok {
			return domain.BookingRequest{}, domain.NewValidationError("resource_ids", fmt.Sprintf("unknown resource %q", id))
		}
	}

	return req, nil
}

func (s *BookingService) conflicts(ctx context.Context, req domain.BookingRequest, exclude *uuid.UUID) ([]domain.BookingInterval, error) {
	existing, err := s.index.ActiveIntervals(ctx, req.TenantID, req.ResourceIDs, req.Date)
	if err != nil {
		return nil, fmt.Errorf("get active intervals: %w", err)
	}
	return FindConflicts(req, existing, exclude), nil
}

// price resolves and sums one line per resource. Resources without a rate
// are priced at zero and flagged instead of blocking.
func (s *BookingService) price(ctx context.Context, req domain.BookingRequest) (domain.PriceBreakdown, []domain.ResourceID, error) {
	var (
		total   domain.PriceBreakdown
		missing []domain.ResourceID
	)
	for _, id := range req.ResourceIDs {
		rule, err := s.rates.Resolve(ctx, id, req.Date, req.Window, req.RateTier)
		if errors.Is(err, domain.ErrRateNotFound) {
			s.logger.Warn("No rate configured, pending manual pricing",
				zap.String("tenant_id", req.TenantID),
				zap.String("resource_id", string(id)),
			)
			missing = append(missing, id)
			total.Add(PendingPrice(id, req.Window))
			continue
		}
		if err != nil {
			return domain.PriceBreakdown{}, nil, err
		}
		total.Add(Calculate(rule, req.Date, req.Window))
	}
	total.ApplyOverride(req.PriceOverride)
	return total, missing, nil
}

func (s *BookingService) logRejection(log *zap.Logger, err error, attempt int) {
	fields := []zap.Field{zap.String("stage", string(StageRejected)), zap.Int("attempt", attempt), zap.Error(err)}
	switch {
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrValidation):
		log.Info("Booking rejected", fields...)
	case errors.Is(err, domain.ErrConcurrency):
		log.Warn("Booking rejected after retries", fields...)
	default:
		log.Error("Booking failed", fields...)
	}
}

func classifyPersistError(err error) error {
	switch {
	case errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrConcurrency),
		errors.Is(err, domain.ErrPersistence),
		errors.Is(err, domain.ErrBookingNotFound),
		errors.Is(err, domain.ErrInvalidStatusTransition),
		errors.Is(err, domain.ErrResourceNotFound),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return err
	}
	return &domain.PersistenceError{Op: "persist booking", Err: err}
}

// lockKeys orders keys globally so two multi-resource admissions can never
// wait on each other in opposite orders.
func lockKeys(tenantID string, ids []domain.ResourceID) []string {
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, fmt.Sprintf("booking:lock:%s:%s", tenantID, id))
	}
	sort.Strings(keys)
	return keys
}

func resourceStrings(ids []domain.ResourceID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}
