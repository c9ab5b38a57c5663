package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aristath/wealthplan/internal/domain"
	"github.com/aristath/wealthplan/internal/modules/goals"
	"github.com/aristath/wealthplan/internal/modules/planning"
	"github.com/aristath/wealthplan/internal/modules/scoring"
)

// session is the file format accepted by every subcommand
type session struct {
	Plan      planning.PlanInput        `json:"plan" yaml:"plan"`
	Responses scoring.Responses         `json:"responses" yaml:"responses"`
	Goals     []goals.GoalInput         `json:"goals,omitempty" yaml:"goals,omitempty"`
	Templates []string                  `json:"templates,omitempty" yaml:"templates,omitempty"`
	Recommend planning.RecommendOptions `json:"recommend" yaml:"recommend"`
}

// loadSession reads a session file. Files ending in .json are decoded as
// JSON, anything else as YAML. Unknown keys are rejected in both.
func loadSession(path string) (*session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}

	var s session
	if strings.EqualFold(filepath.Ext(path), ".json") {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&s); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&s); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if s.Plan.Name == "" {
		s.Plan.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return &s, nil
}

// assessment returns the questionnaire part of the session
func (s *session) assessment() scoring.Assessment {
	return scoring.Assessment{
		Client:    s.Plan.Client,
		Responses: s.Responses,
		GoalCount: len(s.Goals) + len(s.Templates),
	}
}

// replay opens a plan, adds the goals and commits the assessment. Goals are
// added first so the committed profile counts them and allocates them with
// the final score.
func (s *session) replay(ctx context.Context, svc *planning.Service) (*planning.Plan, error) {
	plan, err := svc.CreatePlan(ctx, s.Plan)
	if err != nil {
		return nil, err
	}

	for _, key := range s.Templates {
		if _, err := svc.AddGoalFromTemplate(ctx, plan.ID, key); err != nil {
			return nil, fmt.Errorf("template %q: %w", key, err)
		}
	}
	for i, in := range s.Goals {
		if _, err := svc.AddGoal(ctx, plan.ID, in); err != nil {
			return nil, fmt.Errorf("goal %d (%s): %w", i+1, in.Name, err)
		}
	}

	if _, err := svc.CommitAssessment(ctx, plan.ID, scoring.Assessment{Responses: s.Responses}); err != nil {
		return nil, err
	}
	return svc.GetPlan(ctx, plan.ID)
}

// goalSummary is the per-goal output of the goals command
type goalSummary struct {
	Name                string              `json:"name"`
	Category            domain.GoalCategory `json:"category"`
	TimeHorizon         float64             `json:"time_horizon"`
	RiskAllocation      float64             `json:"risk_allocation"`
	MonthlyContribution float64             `json:"monthly_contribution"`
	Formatted           string              `json:"formatted_contribution"`
	Priority            domain.Priority     `json:"priority"`
	Diagnostics         []domain.Diagnostic `json:"diagnostics,omitempty"`
}

func summarizeGoals(gs []domain.FinancialGoal) []goalSummary {
	out := make([]goalSummary, 0, len(gs))
	for _, g := range gs {
		out = append(out, goalSummary{
			Name:                g.Name,
			Category:            g.Category,
			TimeHorizon:         g.TimeHorizon,
			RiskAllocation:      g.EffectiveRiskAllocation(),
			MonthlyContribution: goals.RoundCents(g.EffectiveMonthlyContribution()),
			Formatted:           goals.FormatMoney(g.EffectiveMonthlyContribution()),
			Priority:            g.Priority,
			Diagnostics:         g.Diagnostics,
		})
	}
	return out
}
