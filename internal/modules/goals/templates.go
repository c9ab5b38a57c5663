package goals

import (
	"fmt"
	"sort"
	"time"

	"github.com/aristath/wealthplan/internal/domain"
)

// Template is a pre-filled goal offered by the planning wizard
type Template struct {
	Key          string              `json:"key"`
	Name         string              `json:"name"`
	Category     domain.GoalCategory `json:"category"`
	TargetAmount float64             `json:"target_amount"`
	Years        int                 `json:"years"`
	Importance   int                 `json:"importance"`
	Description  string              `json:"description"`
}

var templates = map[string]Template{
	"retirement": {
		Key: "retirement", Name: "Retirement", Category: domain.GoalRetirement,
		TargetAmount: 1000000, Years: 30, Importance: 9,
		Description: "Replace working income from age of retirement onwards",
	},
	"emergency-fund": {
		Key: "emergency-fund", Name: "Emergency Fund", Category: domain.GoalEmergencyFund,
		TargetAmount: 25000, Years: 1, Importance: 10,
		Description: "Three to six months of expenses in liquid reserves",
	},
	"education": {
		Key: "education", Name: "Children's Education", Category: domain.GoalEducation,
		TargetAmount: 120000, Years: 15, Importance: 8,
		Description: "University tuition and living costs",
	},
	"home-purchase": {
		Key: "home-purchase", Name: "Home Down Payment", Category: domain.GoalHomePurchase,
		TargetAmount: 80000, Years: 5, Importance: 7,
		Description: "Down payment and closing costs for a first home",
	},
}

// Templates returns the available goal templates sorted by key
func Templates() []Template {
	out := make([]Template, 0, len(templates))
	for _, t := range templates {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// LookupTemplate finds a template by key
func LookupTemplate(key string) (Template, error) {
	t, ok := templates[key]
	if !ok {
		return Template{}, fmt.Errorf("%w: unknown template %q", domain.ErrInvalidGoal, key)
	}
	return t, nil
}

// Input converts the template into a goal input dated from now
func (t Template) Input(now time.Time) GoalInput {
	return GoalInput{
		Name:         t.Name,
		Category:     t.Category,
		TargetAmount: t.TargetAmount,
		TargetDate:   now.AddDate(t.Years, 0, 0),
		Importance:   t.Importance,
	}
}
