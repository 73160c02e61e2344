package domain

import (
	"fmt"
	"math"
)

// Money is an amount in minor currency units (cents).
type Money int64

func MoneyFromFloat(v float64) Money {
	return Money(math.Round(v * 100))
}

func (m Money) Float() float64 { return float64(m) / 100 }

func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// MulMinutes prorates a per-hour amount over the given minutes, rounding half-up.
func (m Money) MulMinutes(minutes int) Money {
	num := int64(m) * int64(minutes)
	if num >= 0 {
		return Money((num + 30) / 60)
	}
	return Money(-((-num + 30) / 60))
}
