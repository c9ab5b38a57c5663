package allocation

import (
	"fmt"
	"math"

	"github.com/aristath/wealthplan/internal/domain"
)

// ESGAlternativesDecrement is the number of points moved out of alternatives
// when ESG criteria matter to the investor. Half goes to domestic equity and
// half to international equity.
const ESGAlternativesDecrement = 2.0

// Result is an adjusted allocation plus the notes produced while adjusting
type Result struct {
	Allocation  domain.AssetAllocation `json:"allocation"`
	Diagnostics []domain.Diagnostic    `json:"diagnostics,omitempty"`
}

// Adjust applies the ESG adjustment then the geographic adjustment. The
// geographic split consumes the post-ESG equity total, so the order is fixed.
// The top-level total of base is preserved; base itself is never normalized.
func Adjust(base domain.AssetAllocation, prefs domain.InvestmentPreferences) Result {
	res := Result{Allocation: base}
	if prefs.ESGImportance.Applies() {
		var diag *domain.Diagnostic
		res.Allocation, diag = ApplyESG(res.Allocation)
		if diag != nil {
			res.Diagnostics = append(res.Diagnostics, *diag)
		}
	}
	if prefs.Geographic != nil {
		var diag *domain.Diagnostic
		res.Allocation, diag = ApplyGeographic(res.Allocation, *prefs.Geographic)
		if diag != nil {
			res.Diagnostics = append(res.Diagnostics, *diag)
		}
	}
	return res
}

// ApplyESG moves up to ESGAlternativesDecrement points from alternatives into
// domestic and international equity. When less is available, only what is
// there moves and a diagnostic is returned.
func ApplyESG(a domain.AssetAllocation) (domain.AssetAllocation, *domain.Diagnostic) {
	moved := math.Min(ESGAlternativesDecrement, math.Max(a.Alternatives, 0))
	a.Alternatives -= moved
	a.Stocks.Domestic += moved / 2
	a.Stocks.International += moved / 2

	if moved < ESGAlternativesDecrement {
		return a, &domain.Diagnostic{
			Code:    domain.DiagESGLimited,
			Message: fmt.Sprintf("only %.1f points of alternatives were available for the ESG shift", moved),
		}
	}
	return a, nil
}

// ApplyGeographic redistributes the existing equity total across regions by
// the ratios of pref. A preference with a non-positive or non-finite sum
// leaves the allocation unchanged and returns a diagnostic.
func ApplyGeographic(a domain.AssetAllocation, pref domain.GeographicPreference) (domain.AssetAllocation, *domain.Diagnostic) {
	sum := pref.Sum()
	if sum <= 0 || math.IsNaN(sum) || math.IsInf(sum, 0) ||
		pref.Domestic < 0 || pref.International < 0 || pref.Emerging < 0 {
		return a, &domain.Diagnostic{
			Code:    domain.DiagGeographicIgnored,
			Message: "geographic preference must be non-negative with a positive total",
		}
	}

	equity := a.Stocks.Total()
	a.Stocks = domain.StockAllocation{
		Domestic:      equity * pref.Domestic / sum,
		International: equity * pref.International / sum,
		Emerging:      equity * pref.Emerging / sum,
	}
	return a, nil
}
