// Package allocation selects the base asset allocation for a risk category
// and adjusts it for ESG and geographic preferences.
package allocation

import (
	"fmt"

	"github.com/aristath/wealthplan/internal/domain"
)

func template(stocks domain.StockAllocation, bonds domain.BondAllocation, realEstate, alternatives, cash, expectedReturn, volatility, maxDrawdown float64) domain.AssetAllocation {
	return domain.AssetAllocation{
		Stocks:             stocks,
		Bonds:              bonds,
		RealEstate:         realEstate,
		Alternatives:       alternatives,
		Cash:               cash,
		ExpectedReturn:     expectedReturn,
		ExpectedVolatility: volatility,
		SharpeRatio:        expectedReturn / volatility,
		MaxDrawdown:        maxDrawdown,
	}
}

// Templates holds one canonical allocation per risk category. Each sums to 100.
var Templates = map[domain.RiskCategory]domain.AssetAllocation{
	domain.RiskConservative: template(
		domain.StockAllocation{Domestic: 12, International: 6, Emerging: 2},
		domain.BondAllocation{Government: 30, Corporate: 20, International: 5},
		5, 5, 15, 0.045, 0.06, 0.10,
	),
	domain.RiskModerateConservative: template(
		domain.StockAllocation{Domestic: 20, International: 10, Emerging: 5},
		domain.BondAllocation{Government: 25, Corporate: 15, International: 5},
		7, 5, 8, 0.055, 0.085, 0.15,
	),
	domain.RiskModerate: template(
		domain.StockAllocation{Domestic: 28, International: 15, Emerging: 7},
		domain.BondAllocation{Government: 18, Corporate: 12, International: 5},
		7, 5, 3, 0.07, 0.11, 0.22,
	),
	domain.RiskModerateAggressive: template(
		domain.StockAllocation{Domestic: 35, International: 20, Emerging: 10},
		domain.BondAllocation{Government: 10, Corporate: 8, International: 2},
		7, 6, 2, 0.085, 0.14, 0.30,
	),
	domain.RiskAggressive: template(
		domain.StockAllocation{Domestic: 40, International: 25, Emerging: 15},
		domain.BondAllocation{Government: 4, Corporate: 3, International: 1},
		5, 6, 1, 0.10, 0.17, 0.38,
	),
}

// SelectTemplate returns the base allocation for a category. It is a pure
// lookup: there is no interpolation between neighbouring templates.
func SelectTemplate(category domain.RiskCategory) (domain.AssetAllocation, error) {
	t, ok := Templates[category]
	if !ok {
		return domain.AssetAllocation{}, fmt.Errorf("%w: %q", domain.ErrUnknownRiskCategory, category)
	}
	return t, nil
}
