// Package interest computes simple and compound interest accrued on a
// single transaction as of a reference date. All functions are pure:
// the engine returns unsigned magnitudes and leaves the direction sign
// to the aggregation layer.
package interest

import (
	"fmt"
	"math"

	"debiti/internal/core"
	"debiti/internal/datemath"
)

// Result is the accrued-interest figure for one transaction as of a
// given date. Never persisted; recomputed on demand so it can never go
// stale relative to AsOf or the transaction's interest settings.
type Result struct {
	Principal         float64
	InterestAmount    float64
	TotalWithInterest float64
	DaysElapsed       int
	AsOf              core.Date
}

// Breakdown carries both figures for one transaction. Both are always
// computed regardless of the transaction's active interest type so
// callers can show the comparison.
type Breakdown struct {
	Simple   Result
	Compound Result
}

// Simple returns P * (rate/100) * (days/365). Zero when days or rate
// is zero.
func Simple(principal, annualRatePct float64, days int) float64 {
	return principal * (annualRatePct / 100) * datemath.YearFraction(days)
}

// Compound returns P * (1 + (rate/100)/freq)^(freq * days/365) - P.
// The exponent is a real number: fractional compounding periods are
// allowed. A non-positive frequency is a configuration error, never
// silently defaulted.
func Compound(principal, annualRatePct float64, days, frequency int) (float64, error) {
	if frequency <= 0 {
		return 0, fmt.Errorf("compound interest: %w (got %d)", core.ErrInvalidFrequency, frequency)
	}
	f := float64(frequency)
	total := principal * math.Pow(1+(annualRatePct/100)/f, f*datemath.YearFraction(days))
	return total - principal, nil
}

// ElapsedDays returns the whole days from the transaction date to asOf,
// clamped to zero when asOf precedes the transaction date. Clamping is
// the uniform policy for interest accrual: no interest accrues before
// the transaction exists.
func ElapsedDays(tx core.Transaction, asOf core.Date) int {
	days := datemath.DaysBetween(tx.TransactionDate.Time, asOf.Time)
	if days < 0 {
		return 0
	}
	return days
}

// Compute evaluates both simple and compound interest for tx as of the
// given date, using the transaction's own rate and frequency. For a
// transaction whose active type is simple (or none), the compound
// figure falls back to annual compounding so the comparison is still
// meaningful when no frequency is stored.
func Compute(tx core.Transaction, asOf core.Date) (Breakdown, error) {
	days := ElapsedDays(tx, asOf)

	freq := tx.CompoundFreq
	if tx.InterestType != core.InterestCompound && freq <= 0 {
		freq = 1
	}

	simple := Simple(tx.Amount, tx.InterestRate, days)
	compound, err := Compound(tx.Amount, tx.InterestRate, days, freq)
	if err != nil {
		return Breakdown{}, err
	}

	return Breakdown{
		Simple: Result{
			Principal:         tx.Amount,
			InterestAmount:    simple,
			TotalWithInterest: tx.Amount + simple,
			DaysElapsed:       days,
			AsOf:              asOf,
		},
		Compound: Result{
			Principal:         tx.Amount,
			InterestAmount:    compound,
			TotalWithInterest: tx.Amount + compound,
			DaysElapsed:       days,
			AsOf:              asOf,
		},
	}, nil
}
