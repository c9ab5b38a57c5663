// Package formulas holds the closed-form financial formulas used by the
// engine: annuity inversion, compounding and parametric risk.
package formulas

import "math"

// RateEpsilon is the threshold under which a periodic rate is treated as zero
const RateEpsilon = 1e-9

// CompoundGrowth returns (1+rate)^periods
func CompoundGrowth(rate float64, periods float64) float64 {
	return math.Pow(1+rate, periods)
}

// FutureValue returns the value of present after compounding at rate for periods
func FutureValue(present, rate float64, periods float64) float64 {
	return present * CompoundGrowth(rate, periods)
}

// AnnuityFactor returns the future value of one unit paid every period:
// ((1+r)^n - 1) / r, or n when the rate is (near) zero.
func AnnuityFactor(rate float64, periods float64) float64 {
	if math.Abs(rate) < RateEpsilon {
		return periods
	}
	return (CompoundGrowth(rate, periods) - 1) / rate
}

// RequiredPayment solves the future value of an annuity for the periodic
// payment that grows present into target after periods at rate.
//
// Args:
//   - target: future value to reach
//   - present: amount already saved, compounding alongside the payments
//   - rate: periodic rate (e.g. annual / 12)
//   - periods: number of payments, must be > 0
//
// Returns:
//   - payment per period, which may be negative when present alone overshoots
//     the target (callers decide whether to clamp)
func RequiredPayment(target, present, rate float64, periods float64) float64 {
	if periods <= 0 {
		return 0
	}
	if math.Abs(rate) < RateEpsilon {
		return (target - present) / periods
	}
	return (target - FutureValue(present, rate, periods)) / AnnuityFactor(rate, periods)
}

// ProjectBalance compounds present plus a fixed payment per period
func ProjectBalance(present, payment, rate float64, periods float64) float64 {
	return FutureValue(present, rate, periods) + payment*AnnuityFactor(rate, periods)
}
