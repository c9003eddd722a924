package utils

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultTaxRate       = "0.18"
	DefaultDepositDays   = 2
	DefaultMaxRentalDays = 30
	MinRentalDays        = 1
)

// PricingPolicy holds the rates applied by Quote.
type PricingPolicy struct {
	TaxRate       decimal.Decimal
	DepositDays   int32
	MaxRentalDays int32
}

// DefaultPricingPolicy returns an 18% tax rate, a two-day deposit and a
// thirty-day rental ceiling.
func DefaultPricingPolicy() PricingPolicy {
	return PricingPolicy{
		TaxRate:       decimal.RequireFromString(DefaultTaxRate),
		DepositDays:   DefaultDepositDays,
		MaxRentalDays: DefaultMaxRentalDays,
	}
}

// ExtraInput is an optional add-on priced per day.
type ExtraInput struct {
	Name      string
	DailyCost decimal.Decimal
}

// ExtraLine is a priced add-on.
type ExtraLine struct {
	Name      string
	DailyCost decimal.Decimal
	TotalDays int32
	TotalCost decimal.Decimal
}

// PriceQuote is the unrounded cost breakdown of a rental.
type PriceQuote struct {
	TotalDays       int32
	DailyRate       decimal.Decimal
	BaseAmount      decimal.Decimal
	TaxAmount       decimal.Decimal
	ExtrasAmount    decimal.Decimal
	SecurityDeposit decimal.Decimal
	TotalAmount     decimal.Decimal
	Extras          []ExtraLine
}

// Quote prices a rental. The deposit is tracked separately and is not part
// of TotalAmount. Callers validate inputs beforehand.
func (p PricingPolicy) Quote(dailyRate decimal.Decimal, totalDays int32, extras []ExtraInput) PriceQuote {
	days := decimal.NewFromInt32(totalDays)
	base := dailyRate.Mul(days)
	tax := base.Mul(p.TaxRate)

	lines := make([]ExtraLine, 0, len(extras))
	extrasAmount := decimal.Zero
	for _, e := range extras {
		cost := e.DailyCost.Mul(days)
		extrasAmount = extrasAmount.Add(cost)
		lines = append(lines, ExtraLine{
			Name:      e.Name,
			DailyCost: e.DailyCost,
			TotalDays: totalDays,
			TotalCost: cost,
		})
	}

	return PriceQuote{
		TotalDays:       totalDays,
		DailyRate:       dailyRate,
		BaseAmount:      base,
		TaxAmount:       tax,
		ExtrasAmount:    extrasAmount,
		SecurityDeposit: dailyRate.Mul(decimal.NewFromInt32(p.DepositDays)),
		TotalAmount:     base.Add(tax).Add(extrasAmount),
		Extras:          lines,
	}
}

// RentalDays counts started 24-hour periods between pickup and return.
// Non-positive spans return 0.
func RentalDays(pickup, ret time.Time) int32 {
	d := ret.Sub(pickup)
	if d <= 0 {
		return 0
	}
	return int32(math.Ceil(d.Hours() / 24))
}

// ValidDuration reports whether days falls inside the allowed rental window.
func (p PricingPolicy) ValidDuration(days int32) bool {
	return days >= MinRentalDays && days <= p.MaxRentalDays
}

// RoundMoney rounds to two decimal places for presentation and aggregation.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ParseDateTime accepts either a calendar date (yyyy-mm-dd, read as UTC
// midnight) or an RFC 3339 timestamp.
func ParseDateTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format, expected yyyy-mm-dd or RFC 3339")
	}
	return t, nil
}
