package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/srgjo27/venue_booking/internal/core/domain"
	"github.com/srgjo27/venue_booking/internal/core/ports"
)

type RateResolver struct {
	source ports.RateConfigSource
}

func NewRateResolver(source ports.RateConfigSource) *RateResolver {
	return &RateResolver{source: source}
}

// Resolve picks the rule that prices resourceID on date. It returns a
// *domain.RateNotFoundError when nothing applies instead of guessing.
func (r *RateResolver) Resolve(ctx context.Context, resourceID domain.ResourceID, date domain.Date, window domain.Window, tier string) (domain.RateRule, error) {
	rules, err := r.source.RateConfig(ctx, resourceID)
	if err != nil {
		return domain.RateRule{}, fmt.Errorf("load rate config for %s: %w", resourceID, err)
	}

	rule, ok := SelectRate(rules, date, tier)
	if !ok {
		return domain.RateRule{}, &domain.RateNotFoundError{ResourceID: resourceID}
	}
	return rule, nil
}

// SelectRate applies the resolution order: matching specific rules first,
// most specific wins, otherwise the generic default tier.
func SelectRate(rules []domain.RateRule, date domain.Date, tier string) (domain.RateRule, bool) {
	var (
		specific []domain.RateRule
		fallback *domain.RateRule
	)
	for i := range rules {
		rule := rules[i]
		if rule.Applies.IsGeneric() {
			if fallback == nil || rule.ID < fallback.ID {
				fallback = &rules[i]
			}
			continue
		}
		if rule.Applies.Matches(date, tier) {
			specific = append(specific, rule)
		}
	}

	if len(specific) > 0 {
		sort.SliceStable(specific, func(i, j int) bool {
			return moreSpecific(specific[i].Applies, specific[j].Applies, specific[i].ID, specific[j].ID)
		})
		return specific[0], true
	}
	if fallback != nil {
		return *fallback, true
	}
	return domain.RateRule{}, false
}

func moreSpecific(a, b domain.Applicability, aID, bID string) bool {
	if (a.Tier != "") != (b.Tier != "") {
		return a.Tier != ""
	}
	if a.HasDateRange() != b.HasDateRange() {
		return a.HasDateRange()
	}
	if a.HasDateRange() && a.RangeDays() != b.RangeDays() {
		return a.RangeDays() < b.RangeDays()
	}
	aw, bw := weekdayCount(a), weekdayCount(b)
	if aw != bw {
		return aw < bw
	}
	return aID < bID
}

// weekdayCount treats "no weekday restriction" as all seven days.
func weekdayCount(a domain.Applicability) int {
	if len(a.Weekdays) == 0 {
		return 7
	}
	return len(a.Weekdays)
}
