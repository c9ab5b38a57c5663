// Package goals computes per-goal risk allocations and the monthly
// contributions required to reach each goal.
package goals

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/aristath/wealthplan/internal/domain"
	"github.com/aristath/wealthplan/pkg/formulas"
)

// Return assumptions used to turn a goal's risk allocation into an expected
// annual return: the risk-free floor plus the equity premium scaled by the
// allocation share.
const (
	BaseAnnualReturn   = 0.02
	EquityReturnSpread = 0.08
)

// daysPerMonth is the mean Gregorian month length
const daysPerMonth = 365.2425 / 12

// RequiredMonthlyContribution solves the future value of an annuity for the
// monthly payment that grows current into target within months at
// annualReturn. Overfunded goals need 0, never a negative amount.
func RequiredMonthlyContribution(target, current float64, months int, annualReturn float64) (float64, error) {
	if months <= 0 {
		return 0, fmt.Errorf("%w: %d months", domain.ErrInvalidHorizon, months)
	}
	payment := formulas.RequiredPayment(target, current, annualReturn/12, float64(months))
	if payment < 0 || math.IsNaN(payment) {
		return 0, nil
	}
	return payment, nil
}

// AssumedAnnualReturn maps a risk allocation (percent) onto an expected return
func AssumedAnnualReturn(riskAllocation float64) float64 {
	share := formulas.Clamp(riskAllocation, 0, 100) / 100
	return BaseAnnualReturn + share*EquityReturnSpread
}

// checkHorizon rejects a target whose calendar date, in now's location, is
// today or earlier. Same-day targets are invalid whatever the hour.
func checkHorizon(now, targetDate time.Time) error {
	today := calendarDate(now, now.Location())
	target := calendarDate(targetDate, now.Location())
	if !target.After(today) {
		return fmt.Errorf("%w: %s is not after %s", domain.ErrInvalidHorizon,
			target.Format(time.DateOnly), today.Format(time.DateOnly))
	}
	return nil
}

func calendarDate(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// MonthsUntil returns the number of whole months to targetDate, rounding a
// partial month up. A target dated today or earlier is ErrInvalidHorizon.
func MonthsUntil(now, targetDate time.Time) (int, error) {
	if err := checkHorizon(now, targetDate); err != nil {
		return 0, err
	}
	days := targetDate.Sub(now).Hours() / 24
	return int(math.Ceil(days / daysPerMonth)), nil
}

// YearsUntil returns the time to targetDate in fractional years, or
// ErrInvalidHorizon when the date is not in the future.
func YearsUntil(now, targetDate time.Time) (float64, error) {
	if err := checkHorizon(now, targetDate); err != nil {
		return 0, err
	}
	years := targetDate.Sub(now).Hours() / 24 / 365.2425
	return math.Round(years*100) / 100, nil
}

// RoundCents rounds a monetary amount to two decimals using decimal arithmetic
func RoundCents(amount float64) float64 {
	return decimal.NewFromFloat(amount).Round(2).InexactFloat64()
}

// FormatMoney renders an amount as "$1,234.56"
func FormatMoney(amount float64) string {
	d := decimal.NewFromFloat(amount).Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	whole := d.Truncate(0)
	cents := d.Sub(whole).Mul(decimal.NewFromInt(100)).Round(0).IntPart()

	digits := whole.String()
	out := make([]byte, 0, len(digits)+len(digits)/3)
	for i := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, digits[i])
	}
	return fmt.Sprintf("%s$%s.%02d", sign, out, cents)
}
