package services

import (
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/srgjo27/venue_booking/internal/core/domain"
)

// RawBookingRequest is the untrusted input of an admission attempt.
type RawBookingRequest struct {
	TenantID          string   `json:"-"`
	CustomerName      string   `json:"customer_name"`
	Email             string   `json:"email"`
	Phone             string   `json:"phone"`
	Date              string   `json:"date"`
	StartTime         string   `json:"start_time"`
	EndTime           string   `json:"end_time"`
	ResourceIDs       []string `json:"resource_ids"`
	PrimaryResourceID string   `json:"primary_resource_id,omitempty"`
	PriceOverride     *float64 `json:"price_override,omitempty"`
	RateTier          string   `json:"rate_tier,omitempty"`
	Status            string   `json:"status,omitempty"`
	Notes             string   `json:"notes,omitempty"`
}

var (
	validate *validator.Validate

	phoneChars  = regexp.MustCompile(`^\+?[0-9 ()\-.]+$`)
	phoneDigits = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
	phoneStrip  = strings.NewReplacer(" ", "", "(", "", ")", "", "-", "", ".", "")
)

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		v := fl.Field().String()
		return phoneChars.MatchString(v) && phoneDigits.MatchString(phoneStrip.Replace(v))
	})
}

// Normalizer turns raw input into a BookingRequest. It has no side effects;
// the clock only decides what "today" is.
type Normalizer struct {
	now func() time.Time
}

func NewNormalizer(now func() time.Time) *Normalizer {
	if now == nil {
		now = time.Now
	}
	return &Normalizer{now: now}
}

// Normalize validates raw in a fixed order and reports the first failing field.
// loc is the owning tenant's time zone.
func (n *Normalizer) Normalize(raw RawBookingRequest, loc *time.Location) (domain.BookingRequest, error) {
	if loc == nil {
		loc = time.UTC
	}

	required := []struct {
		field string
		value string
	}{
		{"tenant_id", raw.TenantID},
		{"customer_name", raw.CustomerName},
		{"email", raw.Email},
		{"phone", raw.Phone},
		{"date", raw.Date},
		{"start_time", raw.StartTime},
		{"end_time", raw.EndTime},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return domain.BookingRequest{}, domain.NewValidationError(r.field, "is required")
		}
	}

	email := strings.TrimSpace(raw.Email)
	if err := validate.Var(email, "email"); err != nil {
		return domain.BookingRequest{}, domain.NewValidationError("email", "is not a valid address")
	}

	phone := strings.TrimSpace(raw.Phone)
	if err := validate.Var(phone, "phone"); err != nil {
		return domain.BookingRequest{}, domain.NewValidationError("phone", "is not a valid phone number")
	}

	date, err := domain.ParseDate(strings.TrimSpace(raw.Date))
	if err != nil {
		return domain.BookingRequest{}, domain.NewValidationError("date", "must be YYYY-MM-DD")
	}
	today := domain.DateOf(n.now().In(loc))
	if date.Before(today) {
		return domain.BookingRequest{}, domain.NewValidationError("date", "must not be in the past")
	}

	start, err := domain.ParseClock(strings.TrimSpace(raw.StartTime))
	if err != nil {
		return domain.BookingRequest{}, domain.NewValidationError("start_time", "must be HH:MM")
	}
	end, err := domain.ParseClock(strings.TrimSpace(raw.EndTime))
	if err != nil {
		return domain.BookingRequest{}, domain.NewValidationError("end_time", "must be HH:MM")
	}
	if end <= start {
		return domain.BookingRequest{}, domain.NewValidationError("end_time", "must be after start_time")
	}

	resources, err := normalizeResources(raw.ResourceIDs)
	if err != nil {
		return domain.BookingRequest{}, err
	}

	primary := resources[0]
	if p := strings.TrimSpace(raw.PrimaryResourceID); p != "" {
		primary = domain.ResourceID(p)
		found := false
		for _, id := range resources {
			if id == primary {
				found = true
				break
			}
		}
		if !found {
			return domain.BookingRequest{}, domain.NewValidationError("primary_resource_id", "must be one of resource_ids")
		}
	}

	var override *domain.Money
	if raw.PriceOverride != nil {
		if *raw.PriceOverride < 0 {
			return domain.BookingRequest{}, domain.NewValidationError("price_override", "must not be negative")
		}
		m := domain.MoneyFromFloat(*raw.PriceOverride)
		override = &m
	}

	status := domain.BookingPending
	if s := strings.TrimSpace(raw.Status); s != "" {
		status = domain.BookingStatus(strings.ToLower(s))
		if !status.IsActive() {
			return domain.BookingRequest{}, domain.NewValidationError("status", "must be pending, confirmed or tentative")
		}
	}

	return domain.BookingRequest{
		TenantID: strings.TrimSpace(raw.TenantID),
		Customer: domain.Customer{
			Name:  strings.TrimSpace(raw.CustomerName),
			Email: email,
			Phone: phone,
		},
		PrimaryResourceID: primary,
		ResourceIDs:       resources,
		Date:              date,
		Window:            domain.Window{Start: start, End: end},
		PriceOverride:     override,
		RateTier:          strings.TrimSpace(raw.RateTier),
		Status:            status,
		Notes:             strings.TrimSpace(raw.Notes),
	}, nil
}

func normalizeResources(ids []string) ([]domain.ResourceID, error) {
	if len(ids) == 0 {
		return nil, domain.NewValidationError("resource_ids", "at least one resource is required")
	}
	seen := make(map[domain.ResourceID]struct{}, len(ids))
	out := make([]domain.ResourceID, 0, len(ids))
	for _, raw := range ids {
		id := domain.ResourceID(strings.TrimSpace(raw))
		if id == "" {
			return nil, domain.NewValidationError("resource_ids", "must not contain empty identifiers")
		}
		if _, dup := seen[id]; dup {
			return nil, domain.NewValidationError("resource_ids", "must not contain duplicates")
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}
