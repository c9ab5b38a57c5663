package settings

import (
	"github.com/aristath/wealthplan/internal/modules/projection"
	"github.com/aristath/wealthplan/internal/modules/risk"
	"github.com/aristath/wealthplan/internal/modules/scoring"
)

// Setting keys
const (
	KeyWeightSet           = "weight_set"
	KeyRiskZScore          = "risk_z_score"
	KeyRiskTailMultiplier  = "risk_tail_multiplier"
	KeyRiskDownsideFactor  = "risk_downside_factor"
	KeySuccessEstimator    = "success_estimator"
	KeyMonteCarloTrials    = "monte_carlo_trials"
	KeyMonteCarloSeed      = "monte_carlo_seed"
	KeyIncludeAlternatives = "include_alternatives"
	KeyProjectionHorizons  = "projection_horizons"
)

var defaultRisk = risk.DefaultParams()

// SettingDefaults holds the default value of every configurable setting
var SettingDefaults = map[string]interface{}{
	KeyWeightSet:           scoring.DefaultWeightSet,
	KeyRiskZScore:          defaultRisk.ZScore,
	KeyRiskTailMultiplier:  defaultRisk.TailMultiplier,
	KeyRiskDownsideFactor:  defaultRisk.DownsideFactor,
	KeySuccessEstimator:    projection.EstimatorHeuristic,
	KeyMonteCarloTrials:    float64(projection.DefaultTrials),
	KeyMonteCarloSeed:      42.0,
	KeyIncludeAlternatives: 1.0, // 1.0 = enabled, 0.0 = disabled
	KeyProjectionHorizons:  "1,5,10,20",
}

// StringSettings defines which settings are strings rather than floats
var StringSettings = map[string]bool{
	KeyWeightSet:          true,
	KeySuccessEstimator:   true,
	KeyProjectionHorizons: true,
}

// SettingDescriptions holds human-readable descriptions for all settings
var SettingDescriptions = map[string]string{
	KeyWeightSet:           "Named scoring weight set used for every new assessment",
	KeyRiskZScore:          "Z-score applied to period volatility for parametric VaR (illustrative, not audited)",
	KeyRiskTailMultiplier:  "Multiplier turning one-year VaR into expected shortfall (illustrative, not audited)",
	KeyRiskDownsideFactor:  "Fraction of volatility reported as downside deviation (illustrative, not audited)",
	KeySuccessEstimator:    "Goal success estimator: heuristic or monte-carlo",
	KeyMonteCarloTrials:    "Simulated paths per goal for the monte-carlo estimator",
	KeyMonteCarloSeed:      "Seed of the monte-carlo estimator",
	KeyIncludeAlternatives: "Generate conservative and growth alternatives alongside the primary recommendation (1.0 = yes)",
	KeyProjectionHorizons:  "Comma separated projection horizons in years",
}

// SettingUpdate represents a setting value update request
type SettingUpdate struct {
	Value interface{} `json:"value"`
}

// EngineParams is the resolved engine configuration
type EngineParams struct {
	WeightSet           string      `json:"weight_set"`
	Risk                risk.Params `json:"risk"`
	SuccessEstimator    string      `json:"success_estimator"`
	MonteCarloTrials    int         `json:"monte_carlo_trials"`
	MonteCarloSeed      uint64      `json:"monte_carlo_seed"`
	IncludeAlternatives bool        `json:"include_alternatives"`
	ProjectionHorizons  []int       `json:"projection_horizons"`
}

// DefaultEngineParams resolves SettingDefaults
func DefaultEngineParams() EngineParams {
	return EngineParams{
		WeightSet:           scoring.DefaultWeightSet,
		Risk:                risk.DefaultParams(),
		SuccessEstimator:    projection.EstimatorHeuristic,
		MonteCarloTrials:    projection.DefaultTrials,
		MonteCarloSeed:      42,
		IncludeAlternatives: true,
		ProjectionHorizons:  append([]int(nil), projection.DefaultHorizons...),
	}
}
