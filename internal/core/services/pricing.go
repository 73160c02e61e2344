package services

import "github.com/srgjo27/venue_booking/internal/core/domain"

// Calculate prices one resource for one window. It is a pure function of its
// arguments.
func Calculate(rule domain.RateRule, date domain.Date, window domain.Window) domain.PriceBreakdown {
	minutes := window.Minutes()

	var amount domain.Money
	switch rule.Pricing.Kind {
	case domain.PricingFlat:
		amount = rule.Pricing.Amount
	case domain.PricingHourly:
		amount = rule.Pricing.Amount.MulMinutes(minutes)
	case domain.PricingTiered:
		amount = tieredAmount(rule.Pricing.Tiers, minutes)
	}
	if amount < rule.Pricing.MinimumCharge {
		amount = rule.Pricing.MinimumCharge
	}

	b := domain.PriceBreakdown{
		Lines: []domain.PriceLine{{
			ResourceID: rule.ResourceID,
			RuleID:     rule.ID,
			RuleName:   rule.Name,
			Kind:       rule.Pricing.Kind,
			Minutes:    minutes,
			Amount:     amount,
		}},
	}
	b.Recalculate()
	return b
}

// PendingPrice is the zero-priced line for a resource without rate configuration.
func PendingPrice(resourceID domain.ResourceID, window domain.Window) domain.PriceBreakdown {
	b := domain.PriceBreakdown{
		Lines: []domain.PriceLine{{
			ResourceID:           resourceID,
			Minutes:              window.Minutes(),
			PendingManualPricing: true,
		}},
	}
	b.Recalculate()
	return b
}

// tieredAmount walks graduated tiers. Each bound is cumulative; minutes past
// the last bound are charged at the last tier's rate.
func tieredAmount(tiers []domain.Tier, minutes int) domain.Money {
	if len(tiers) == 0 {
		return 0
	}
	var (
		total    domain.Money
		consumed int
	)
	for i, t := range tiers {
		if consumed >= minutes {
			break
		}
		take := minutes - consumed
		last := i == len(tiers)-1
		if t.UpToMinutes > 0 && !last {
			if room := t.UpToMinutes - consumed; room < take {
				take = room
			}
		}
		if take <= 0 {
			continue
		}
		total += t.PerHour.MulMinutes(take)
		consumed += take
	}
	return total
}
