package main

import (
	"github.com/spf13/cobra"

	"github.com/aristath/wealthplan/internal/modules/goals"
	"github.com/aristath/wealthplan/internal/modules/scoring"
)

func newProfileCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "profile <session-file>",
		Short: "Score the questionnaire into a risk profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSession(args[0])
			if err != nil {
				return err
			}
			assessor, err := scoring.NewAssessorByName(opts.weightSet)
			if err != nil {
				return err
			}
			profile := assessor.Assess(s.assessment())

			opts.log.Debug().
				Str("category", string(profile.RiskCategory)).
				Float64("confidence", profile.ConfidenceLevel).
				Msg("Profile scored")
			return printJSON(cmd.OutOrStdout(), profile)
		},
	}
}

func newGoalsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "goals <session-file>",
		Short: "Size each goal: horizon, risk allocation and monthly contribution",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSession(args[0])
			if err != nil {
				return err
			}
			plan, err := s.replay(cmd.Context(), newService(opts))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]interface{}{
				"risk_category": plan.Profile.RiskCategory,
				"overall_score": plan.Profile.OverallRiskScore100,
				"goals":         summarizeGoals(plan.Goals),
			})
		},
	}
}

func newRecommendCmd(opts *options) *cobra.Command {
	var (
		initialAmount  float64
		noAlternatives bool
	)

	cmd := &cobra.Command{
		Use:   "recommend <session-file>",
		Short: "Build the portfolio recommendation and its alternatives",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSession(args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("initial-amount") {
				s.Recommend.InitialAmount = initialAmount
			}
			if noAlternatives {
				include := false
				s.Recommend.IncludeAlternatives = &include
			}

			svc := newService(opts)
			plan, err := s.replay(cmd.Context(), svc)
			if err != nil {
				return err
			}
			set, err := svc.Recommend(cmd.Context(), plan.ID, s.Recommend)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), set)
		},
	}

	cmd.Flags().Float64Var(&initialAmount, "initial-amount", 0, "starting balance for projections (overrides the session file)")
	cmd.Flags().BoolVar(&noAlternatives, "no-alternatives", false, "skip the conservative and growth alternatives")
	return cmd
}

func newTemplatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List the goal templates usable in session files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printJSON(cmd.OutOrStdout(), goals.Templates())
		},
	}
}

func newWeightSetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "weight-sets",
		Short: "List the named scoring weight sets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printJSON(cmd.OutOrStdout(), scoring.WeightSetNames())
		},
	}
}
