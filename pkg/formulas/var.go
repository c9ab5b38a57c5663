package formulas

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	// TradingDaysPerYear is used to scale annual volatility to one day
	TradingDaysPerYear = 252
	// MonthsPerYear is used to scale annual volatility to one month
	MonthsPerYear = 12
)

// ScaleVolatility converts an annual volatility to a shorter period assuming
// independent returns (square-root-of-time rule).
func ScaleVolatility(annualVolatility float64, periodsPerYear float64) float64 {
	if periodsPerYear <= 0 {
		return annualVolatility
	}
	return annualVolatility / math.Sqrt(periodsPerYear)
}

// ParametricVaR returns the one-tailed normal Value-at-Risk of a period with
// the given volatility, as a positive fraction of portfolio value.
func ParametricVaR(periodVolatility, zScore float64) float64 {
	if periodVolatility <= 0 || math.IsNaN(periodVolatility) {
		return 0
	}
	return periodVolatility * zScore
}

// ZScoreForConfidence returns the standard normal quantile for a one-tailed
// confidence level (0.99 -> ~2.326). Levels outside (0.5, 1) return 0.
func ZScoreForConfidence(confidence float64) float64 {
	if confidence <= 0.5 || confidence >= 1 {
		return 0
	}
	return distuv.UnitNormal.Quantile(confidence)
}

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// Clamp forces v into [lo, hi]. NaN resolves to lo.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
