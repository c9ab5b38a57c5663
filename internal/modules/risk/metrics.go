// Package risk derives simplified portfolio risk metrics from an expected
// return and volatility pair.
//
// The constants in Params are illustrative approximations, not audited
// regulatory figures. They are exposed so deployments can override them
// through runtime settings.
package risk

import (
	"fmt"
	"math"

	"github.com/aristath/wealthplan/internal/domain"
	"github.com/aristath/wealthplan/pkg/formulas"
)

// Params holds the multipliers used by the deriver
type Params struct {
	// ZScore applied to period volatility for VaR (2.33 ~ 99% one-sided)
	ZScore float64 `json:"z_score"`
	// TailMultiplier scales one-year VaR into expected shortfall
	TailMultiplier float64 `json:"tail_multiplier"`
	// DownsideFactor scales volatility into downside deviation
	DownsideFactor float64 `json:"downside_factor"`
}

// DefaultParams returns the standard deriver constants
func DefaultParams() Params {
	return Params{
		ZScore:         2.33,
		TailMultiplier: 1.3,
		DownsideFactor: 0.7,
	}
}

// WithConfidence replaces the z-score with the standard normal quantile of a
// one-tailed confidence level such as 0.95. Levels outside (0.5, 1) leave the
// params unchanged.
func (p Params) WithConfidence(confidence float64) Params {
	if z := formulas.ZScoreForConfidence(confidence); z > 0 {
		p.ZScore = z
	}
	return p
}

// Validate rejects non-positive or non-finite constants
func (p Params) Validate() error {
	for name, v := range map[string]float64{
		"z_score":         p.ZScore,
		"tail_multiplier": p.TailMultiplier,
		"downside_factor": p.DownsideFactor,
	} {
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("invalid risk parameter %s: %v", name, v)
		}
	}
	return nil
}

// Deriver computes RiskMetrics
type Deriver struct {
	params Params
}

// NewDeriver creates a deriver. Invalid params fall back to the defaults.
func NewDeriver(params Params) *Deriver {
	if params.Validate() != nil {
		params = DefaultParams()
	}
	return &Deriver{params: params}
}

// Params returns the constants in use
func (d *Deriver) Params() Params {
	return d.params
}

// Derive computes metrics for an annual expected return and volatility, both
// as fractions. The Sharpe-like ratio omits a risk-free rate; with zero
// volatility it is reported as 0 and flagged undefined.
func (d *Deriver) Derive(expectedReturn, volatility float64) domain.RiskMetrics {
	if volatility < 0 || math.IsNaN(volatility) {
		volatility = 0
	}

	m := domain.RiskMetrics{
		Volatility:        volatility,
		DownsideDeviation: volatility * d.params.DownsideFactor,
	}

	if volatility > 0 {
		m.SharpeRatio = expectedReturn / volatility
		m.SharpeDefined = true
	} else {
		m.Diagnostics = append(m.Diagnostics, domain.Diagnostic{
			Code:    domain.DiagSharpeUndefined,
			Message: "volatility is zero, Sharpe ratio reported as 0",
		})
	}

	m.ValueAtRisk = domain.ValueAtRisk{
		OneDay:   formulas.ParametricVaR(formulas.ScaleVolatility(volatility, formulas.TradingDaysPerYear), d.params.ZScore),
		OneMonth: formulas.ParametricVaR(formulas.ScaleVolatility(volatility, formulas.MonthsPerYear), d.params.ZScore),
		OneYear:  formulas.ParametricVaR(volatility, d.params.ZScore),
	}
	m.ExpectedShortfall = m.ValueAtRisk.OneYear * d.params.TailMultiplier

	return m
}

// DeriveAllocation derives metrics from an allocation's template expectations
func (d *Deriver) DeriveAllocation(a domain.AssetAllocation) domain.RiskMetrics {
	return d.Derive(a.ExpectedReturn, a.ExpectedVolatility)
}
