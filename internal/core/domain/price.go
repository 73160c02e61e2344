package domain

// PriceLine is the computed amount for one resource.
type PriceLine struct {
	ResourceID ResourceID  `json:"resource_id"`
	RuleID     string      `json:"rule_id,omitempty"`
	RuleName   string      `json:"rule_name,omitempty"`
	Kind       PricingKind `json:"kind,omitempty"`
	Minutes    int         `json:"minutes"`
	Amount     Money       `json:"amount"`
	// PendingManualPricing marks a resource with no applicable rate rule.
	PendingManualPricing bool `json:"pending_manual_pricing,omitempty"`
}

// PriceBreakdown is fully reproducible from the request and the rate configuration.
type PriceBreakdown struct {
	Lines    []PriceLine `json:"lines"`
	Subtotal Money       `json:"subtotal"`
	Override *Money      `json:"override,omitempty"`
	Total    Money       `json:"total"`
}

// Add appends the lines of o and recomputes totals.
func (p *PriceBreakdown) Add(o PriceBreakdown) {
	p.Lines = append(p.Lines, o.Lines...)
	p.Recalculate()
}

// ApplyOverride replaces the invoiced total without touching the computed lines.
func (p *PriceBreakdown) ApplyOverride(m *Money) {
	p.Override = m
	p.Recalculate()
}

func (p *PriceBreakdown) Recalculate() {
	var sum Money
	for _, l := range p.Lines {
		sum += l.Amount
	}
	p.Subtotal = sum
	p.Total = sum
	if p.Override != nil {
		p.Total = *p.Override
	}
}

func (p PriceBreakdown) PendingManualPricing() bool {
	for _, l := range p.Lines {
		if l.PendingManualPricing {
			return true
		}
	}
	return false
}
