package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/srgjo27/venue_booking/internal/core/domain"
	"github.com/srgjo27/venue_booking/internal/core/ports"
)

type BookingRepository struct {
	db          *sql.DB
	lockTimeout time.Duration
}

func NewBookingRepository(db *sql.DB, lockTimeout time.Duration) *BookingRepository {
	return &BookingRepository{db: db, lockTimeout: lockTimeout}
}

func activeStatuses() []string {
	out := make([]string, len(domain.ActiveStatuses))
	for i, s := range domain.ActiveStatuses {
		out[i] = string(s)
	}
	return out
}

func resourceArray(ids []domain.ResourceID) interface{} {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return pq.Array(out)
}

func (r *BookingRepository) ActiveIntervals(ctx context.Context, tenantID string, resourceIDs []domain.ResourceID, date domain.Date) ([]domain.BookingInterval, error) {
	return queryActiveIntervals(ctx, r.db, tenantID, resourceIDs, date, nil)
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

func queryActiveIntervals(ctx context.Context, q queryer, tenantID string, resourceIDs []domain.ResourceID, date domain.Date, exclude *uuid.UUID) ([]domain.BookingInterval, error) {
	query := `
	SELECT resource_id, booking_date, start_minute, end_minute, status, booking_id
	FROM booking_intervals
	WHERE tenant_id = $1
		AND resource_id = ANY($2)
		AND booking_date = $3::date
		AND status = ANY($4)
		AND ($5::uuid IS NULL OR booking_id <> $5::uuid)
	ORDER BY resource_id, start_minute
	`

	var excludeArg interface{}
	if exclude != nil {
		excludeArg = *exclude
	}

	rows, err := q.QueryContext(ctx, query, tenantID, resourceArray(resourceIDs), date.String(), pq.Array(activeStatuses()), excludeArg)
	if err != nil {
		return nil, fmt.Errorf("query active intervals: %w", err)
	}
	defer rows.Close()

	var out []domain.BookingInterval
	for rows.Next() {
		var (
			iv          domain.BookingInterval
			resourceID  string
			bookingDate time.Time
			start, end  int
			status      string
		)
		if err := rows.Scan(&resourceID, &bookingDate, &start, &end, &status, &iv.BookingID); err != nil {
			return nil, fmt.Errorf("scan interval: %w", err)
		}
		iv.ResourceID = domain.ResourceID(resourceID)
		iv.Date = domain.DateOf(bookingDate)
		iv.Window = domain.Window{Start: domain.Clock(start), End: domain.Clock(end)}
		iv.Status = domain.BookingStatus(status)
		out = append(out, iv)
	}

	return out, rows.Err()
}

func (r *BookingRepository) GetBooking(ctx context.Context, tenantID string, id uuid.UUID) (*domain.Booking, error) {
	query := `
	SELECT id, tenant_id, customer_name, customer_email, customer_phone, primary_resource_id, resource_ids,
		booking_date, start_minute, end_minute, status, rate_tier, price_override_cents, price_breakdown,
		notes, hold_expires_at, created_at, updated_at
	FROM bookings
	WHERE id = $1 AND tenant_id = $2
	`

	var (
		b           domain.Booking
		primary     string
		resourceIDs []string
		bookingDate time.Time
		start, end  int
		status      string
		override    sql.NullInt64
		breakdown   []byte
		holdExpires sql.NullTime
	)

	err := r.db.QueryRowContext(ctx, query, id, tenantID).Scan(
		&b.ID,
		&b.Request.TenantID,
		&b.Request.Customer.Name,
		&b.Request.Customer.Email,
		&b.Request.Customer.Phone,
		&primary,
		pq.Array(&resourceIDs),
		&bookingDate,
		&start,
		&end,
		&status,
		&b.Request.RateTier,
		&override,
		&breakdown,
		&b.Request.Notes,
		&holdExpires,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, fmt.Errorf("get booking: %w", err)
	}

	b.Request.PrimaryResourceID = domain.ResourceID(primary)
	for _, rid := range resourceIDs {
		b.Request.ResourceIDs = append(b.Request.ResourceIDs, domain.ResourceID(rid))
	}
	b.Request.Date = domain.DateOf(bookingDate)
	b.Request.Window = domain.Window{Start: domain.Clock(start), End: domain.Clock(end)}
	b.Request.Status = domain.BookingStatus(status)
	if override.Valid {
		m := domain.Money(override.Int64)
		b.Request.PriceOverride = &m
	}
	if err := json.Unmarshal(breakdown, &b.Price); err != nil {
		return nil, fmt.Errorf("decode price breakdown: %w", err)
	}
	if holdExpires.Valid {
		t := holdExpires.Time
		b.HoldExpiresAt = &t
	}

	return &b, nil
}

func (r *BookingRepository) CreateBooking(ctx context.Context, b *domain.Booking, intervals []domain.BookingInterval) error {
	return r.withResourceLocks(ctx, b, intervals, "create booking", func(tx *sql.Tx) error {
		queryHeader := `
		INSERT INTO bookings (id, tenant_id, customer_name, customer_email, customer_phone, primary_resource_id,
			resource_ids, booking_date, start_minute, end_minute, status, rate_tier, price_override_cents,
			subtotal_cents, total_cents, price_breakdown, notes, hold_expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8::date, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		`

		args, err := headerArgs(b)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, queryHeader, args...); err != nil {
			return fmt.Errorf("insert booking header: %w", err)
		}

		return insertIntervals(ctx, tx, b.Request.TenantID, intervals)
	})
}

func (r *BookingRepository) ReplaceBooking(ctx context.Context, b *domain.Booking, intervals []domain.BookingInterval, expected domain.BookingStatus) error {
	return r.withResourceLocks(ctx, b, intervals, "replace booking", func(tx *sql.Tx) error {
		var current string
		err := tx.QueryRowContext(ctx, `SELECT status FROM bookings WHERE id = $1 AND tenant_id = $2 FOR UPDATE`, b.ID, b.Request.TenantID).Scan(&current)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.ErrBookingNotFound
			}
			return fmt.Errorf("lock booking row: %w", err)
		}
		if domain.BookingStatus(current) != expected {
			return fmt.Errorf("booking %s is %s, not %s: %w", b.ID, current, expected, domain.ErrInvalidStatusTransition)
		}

		queryHeader := `
		UPDATE bookings
		SET customer_name = $3, customer_email = $4, customer_phone = $5, primary_resource_id = $6,
			resource_ids = $7, booking_date = $8::date, start_minute = $9, end_minute = $10, status = $11,
			rate_tier = $12, price_override_cents = $13, subtotal_cents = $14, total_cents = $15,
			price_breakdown = $16, notes = $17, hold_expires_at = $18, created_at = $19, updated_at = $20
		WHERE id = $1 AND tenant_id = $2 AND status = $21
		`

		args, err := headerArgs(b)
		if err != nil {
			return err
		}
		result, err := tx.ExecContext(ctx, queryHeader, append(args, string(expected))...)
		if err != nil {
			return fmt.Errorf("update booking header: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return fmt.Errorf("booking %s is no longer %s: %w", b.ID, expected, domain.ErrInvalidStatusTransition)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM booking_intervals WHERE booking_id = $1`, b.ID); err != nil {
			return fmt.Errorf("delete old intervals: %w", err)
		}

		return insertIntervals(ctx, tx, b.Request.TenantID, intervals)
	})
}

// withResourceLocks runs write inside one transaction after row-locking every
// requested resource in id order and re-checking overlaps.
func (r *BookingRepository) withResourceLocks(ctx context.Context, b *domain.Booking, intervals []domain.BookingInterval, op string, write func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return mapError(op, fmt.Errorf("begin transaction: %w", err))
	}

	defer tx.Rollback()

	if r.lockTimeout > 0 {
		timeout := fmt.Sprintf("%dms", r.lockTimeout.Milliseconds())
		if _, err := tx.ExecContext(ctx, `SELECT set_config('lock_timeout', $1, true)`, timeout); err != nil {
			return mapError(op, fmt.Errorf("set lock timeout: %w", err))
		}
	}

	rows, err := tx.QueryContext(ctx, `
	SELECT id FROM resources
	WHERE tenant_id = $1 AND id = ANY($2)
	ORDER BY id
	FOR UPDATE
	`, b.Request.TenantID, resourceArray(b.Request.ResourceIDs))
	if err != nil {
		return mapError(op, fmt.Errorf("lock resources: %w", err))
	}
	locked := 0
	for rows.Next() {
		locked++
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return mapError(op, fmt.Errorf("lock resources: %w", err))
	}
	if locked != len(b.Request.ResourceIDs) {
		return domain.ErrResourceNotFound
	}

	if b.Request.Status.IsActive() {
		existing, err := queryActiveIntervals(ctx, tx, b.Request.TenantID, b.Request.ResourceIDs, b.Request.Date, &b.ID)
		if err != nil {
			return mapError(op, err)
		}
		var conflicts []domain.BookingInterval
		for _, iv := range existing {
			if iv.Window.Overlaps(b.Request.Window) {
				conflicts = append(conflicts, iv)
			}
		}
		if len(conflicts) > 0 {
			return &domain.ConflictError{Conflicts: conflicts}
		}
	}

	if err := write(tx); err != nil {
		if errors.Is(err, domain.ErrBookingNotFound) || errors.Is(err, domain.ErrInvalidStatusTransition) {
			return err
		}
		mapped := mapError(op, err)
		var ce *domain.ConflictError
		if errors.As(mapped, &ce) && len(ce.Conflicts) == 0 {
			tx.Rollback()
			return r.reportConflicts(ctx, b, intervals, mapped)
		}
		return mapped
	}

	if err = tx.Commit(); err != nil {
		return mapError(op, fmt.Errorf("failed to commit transaction: %w", err))
	}

	return nil
}

// reportConflicts fills in the intervals that tripped the exclusion constraint.
// It reads after the failed transaction, so the set is best effort.
func (r *BookingRepository) reportConflicts(ctx context.Context, b *domain.Booking, intervals []domain.BookingInterval, fallback error) error {
	existing, err := queryActiveIntervals(ctx, r.db, b.Request.TenantID, b.Request.ResourceIDs, b.Request.Date, &b.ID)
	if err != nil {
		return fallback
	}
	var conflicts []domain.BookingInterval
	for _, other := range existing {
		for _, iv := range intervals {
			if iv.ResourceID == other.ResourceID && iv.Date == other.Date && iv.Window.Overlaps(other.Window) {
				conflicts = append(conflicts, other)
				break
			}
		}
	}
	if len(conflicts) == 0 {
		return fallback
	}
	return &domain.ConflictError{Conflicts: conflicts}
}

func headerArgs(b *domain.Booking) ([]interface{}, error) {
	breakdown, err := json.Marshal(b.Price)
	if err != nil {
		return nil, fmt.Errorf("encode price breakdown: %w", err)
	}

	var override sql.NullInt64
	if b.Request.PriceOverride != nil {
		override = sql.NullInt64{Int64: int64(*b.Request.PriceOverride), Valid: true}
	}

	var holdExpires sql.NullTime
	if b.HoldExpiresAt != nil {
		holdExpires = sql.NullTime{Time: *b.HoldExpiresAt, Valid: true}
	}

	req := b.Request
	return []interface{}{
		b.ID,
		req.TenantID,
		req.Customer.Name,
		req.Customer.Email,
		req.Customer.Phone,
		string(req.PrimaryResourceID),
		resourceArray(req.ResourceIDs),
		req.Date.String(),
		int(req.Window.Start),
		int(req.Window.End),
		string(req.Status),
		req.RateTier,
		override,
		int64(b.Price.Subtotal),
		int64(b.Price.Total),
		breakdown,
		req.Notes,
		holdExpires,
		b.CreatedAt,
		b.UpdatedAt,
	}, nil
}

func insertIntervals(ctx context.Context, tx *sql.Tx, tenantID string, intervals []domain.BookingInterval) error {
	queryItem := `
	INSERT INTO booking_intervals (booking_id, tenant_id, resource_id, booking_date, start_minute, end_minute, status)
	VALUES ($1, $2, $3, $4::date, $5, $6, $7)
	`

	stmt, err := tx.PrepareContext(ctx, queryItem)
	if err != nil {
		return fmt.Errorf("failed to prepare interval statement: %w", err)
	}

	defer stmt.Close()

	for _, iv := range intervals {
		_, err := stmt.ExecContext(ctx, iv.BookingID, tenantID, string(iv.ResourceID), iv.Date.String(), int(iv.Window.Start), int(iv.Window.End), string(iv.Status))
		if err != nil {
			return fmt.Errorf("failed to insert interval for resource %s: %w", iv.ResourceID, err)
		}
	}

	return nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, tenantID string, id uuid.UUID, from, to domain.BookingStatus) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return mapError("update booking status", err)
	}

	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
	UPDATE bookings
	SET status = $4,
		hold_expires_at = CASE WHEN $4 = 'tentative' THEN hold_expires_at ELSE NULL END,
		updated_at = NOW()
	WHERE id = $1 AND tenant_id = $2 AND status = $3
	`, id, tenantID, string(from), string(to))
	if err != nil {
		return mapError("update booking status", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return mapError("update booking status", err)
	}
	if affected == 0 {
		var exists bool
		if err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM bookings WHERE id = $1 AND tenant_id = $2)`, id, tenantID).Scan(&exists); err != nil {
			return mapError("update booking status", err)
		}
		if !exists {
			return domain.ErrBookingNotFound
		}
		return fmt.Errorf("booking %s is no longer %s: %w", id, from, domain.ErrInvalidStatusTransition)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE booking_intervals SET status = $2 WHERE booking_id = $1`, id, string(to)); err != nil {
		return mapError("update interval status", err)
	}

	if err := tx.Commit(); err != nil {
		return mapError("update booking status", err)
	}

	return nil
}

func (r *BookingRepository) GetExpiredHolds(ctx context.Context, now time.Time, limit int) ([]ports.HoldRef, error) {
	query := `
	SELECT tenant_id, id FROM bookings
	WHERE status = 'tentative' AND hold_expires_at < $1
	ORDER BY hold_expires_at
	LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, now, limit)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var refs []ports.HoldRef
	for rows.Next() {
		var ref ports.HoldRef
		if err := rows.Scan(&ref.TenantID, &ref.BookingID); err != nil {
			return nil, err
		}

		refs = append(refs, ref)
	}

	return refs, rows.Err()
}

var (
	_ ports.AvailabilityIndex = (*BookingRepository)(nil)
	_ ports.BookingRepository = (*BookingRepository)(nil)
)
