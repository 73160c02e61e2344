package domain

import "time"

type PricingKind string

const (
	PricingFlat   PricingKind = "flat"
	PricingHourly PricingKind = "hourly"
	PricingTiered PricingKind = "tiered"
)

func (k PricingKind) Valid() bool {
	return k == PricingFlat || k == PricingHourly || k == PricingTiered
}

// Tier prices up to UpToMinutes of the booking at PerHour. A zero
// UpToMinutes covers whatever remains.
type Tier struct {
	UpToMinutes int   `json:"up_to_minutes"`
	PerHour     Money `json:"per_hour"`
}

type Pricing struct {
	Kind PricingKind `json:"kind"`
	// Amount is the flat price for flat rules and the hourly rate for hourly rules.
	Amount        Money  `json:"amount"`
	Tiers         []Tier `json:"tiers,omitempty"`
	MinimumCharge Money  `json:"minimum_charge,omitempty"`
}

type Applicability struct {
	Weekdays []time.Weekday `json:"weekdays,omitempty"`
	From     *Date          `json:"from,omitempty"`
	To       *Date          `json:"to,omitempty"`
	Tier     string         `json:"tier,omitempty"`
}

func (a Applicability) HasDateRange() bool { return a.From != nil || a.To != nil }

// IsGeneric reports whether the predicate matches every date: the default tier.
func (a Applicability) IsGeneric() bool {
	return len(a.Weekdays) == 0 && !a.HasDateRange() && a.Tier == ""
}

// Matches reports whether the predicate admits the given date and tier.
func (a Applicability) Matches(d Date, tier string) bool {
	if a.Tier != "" && a.Tier != tier {
		return false
	}
	if a.From != nil && d.Before(*a.From) {
		return false
	}
	if a.To != nil && d.After(*a.To) {
		return false
	}
	if len(a.Weekdays) > 0 {
		wd := d.Weekday()
		found := false
		for _, w := range a.Weekdays {
			if w == wd {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// RangeDays is the inclusive length of the date range. Open-ended ranges are
// treated as unbounded.
func (a Applicability) RangeDays() int {
	if a.From == nil || a.To == nil {
		return int(^uint(0) >> 1)
	}
	return a.From.DaysUntil(*a.To) + 1
}

type RateRule struct {
	ID         string        `json:"id"`
	ResourceID ResourceID    `json:"resource_id"`
	Name       string        `json:"name"`
	Applies    Applicability `json:"applies"`
	Pricing    Pricing       `json:"pricing"`
}
