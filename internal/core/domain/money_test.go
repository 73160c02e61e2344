package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMoney(t *testing.T) {
	assert.Equal(t, Money(15000), MoneyFromFloat(150))
	assert.Equal(t, Money(1999), MoneyFromFloat(19.99))
	assert.Equal(t, "150.00", Money(15000).String())
	assert.Equal(t, "0.05", Money(5).String())
	assert.Equal(t, "-1.50", Money(-150).String())
	assert.Equal(t, 1.5, Money(150).Float())
}

func TestMoneyMulMinutes(t *testing.T) {
	assert.Equal(t, Money(15000), Money(5000).MulMinutes(180))
	assert.Equal(t, Money(3750), Money(5000).MulMinutes(45))
	// 1 cent for half an hour is exactly half a cent and rounds up.
	assert.Equal(t, Money(1), Money(1).MulMinutes(30))
	assert.Equal(t, Money(0), Money(1).MulMinutes(29))
	assert.Equal(t, Money(0), Money(5000).MulMinutes(0))
}

func TestPriceBreakdown(t *testing.T) {
	var p PriceBreakdown
	p.Add(PriceBreakdown{Lines: []PriceLine{{ResourceID: "hall-1", Amount: 10000}}})
	p.Add(PriceBreakdown{Lines: []PriceLine{{ResourceID: "hall-2", PendingManualPricing: true}}})

	assert.Equal(t, Money(10000), p.Subtotal)
	assert.Equal(t, Money(10000), p.Total)
	assert.True(t, p.PendingManualPricing())

	override := Money(0)
	p.ApplyOverride(&override)
	assert.Equal(t, Money(10000), p.Subtotal)
	assert.Equal(t, Money(0), p.Total)
	assert.Len(t, p.Lines, 2)

	p.ApplyOverride(nil)
	assert.Equal(t, Money(10000), p.Total)
}
