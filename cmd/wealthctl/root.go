package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/aristath/wealthplan/internal/modules/planning"
	"github.com/aristath/wealthplan/internal/modules/scoring"
	"github.com/aristath/wealthplan/internal/modules/settings"
	"github.com/aristath/wealthplan/pkg/logger"
)

// options are the persistent flags shared by every subcommand
type options struct {
	logLevel  string
	weightSet string
	asOf      string

	log zerolog.Logger
	now time.Time
}

// EngineParams implements planning.EngineConfig with the defaults plus the
// weight set chosen on the command line.
func (o *options) EngineParams() (settings.EngineParams, error) {
	params := settings.DefaultEngineParams()
	params.WeightSet = o.weightSet
	return params, nil
}

func (o *options) clock() time.Time {
	return o.now
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "wealthctl",
		Short: "Risk profiling and goal-based allocation from the command line",
		Long: `Scores an onboarding questionnaire into a risk profile, sizes financial
goals and builds portfolio recommendations. Input is a session file in YAML
(or JSON when the file ends in .json); output is JSON on stdout.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			opts.log = logger.New(logger.Config{
				Level:  opts.logLevel,
				Pretty: true,
				Output: cmd.ErrOrStderr(),
				App:    "wealthctl",
			})

			if _, err := scoring.LookupWeightSet(opts.weightSet); err != nil {
				return err
			}

			opts.now = time.Now().UTC()
			if opts.asOf != "" {
				t, err := time.Parse(time.DateOnly, opts.asOf)
				if err != nil {
					return fmt.Errorf("--as-of must be YYYY-MM-DD: %w", err)
				}
				opts.now = t.UTC()
			}
			return nil
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	f.StringVar(&opts.weightSet, "weight-set", scoring.DefaultWeightSet, "named weight set used for scoring")
	f.StringVar(&opts.asOf, "as-of", "", "evaluate horizons as of this date (YYYY-MM-DD, default today)")

	root.AddCommand(
		newProfileCmd(opts),
		newGoalsCmd(opts),
		newRecommendCmd(opts),
		newTemplatesCmd(),
		newWeightSetsCmd(),
	)
	return root
}

// newService builds a planning service over an in-memory repository so a
// whole session can run without a database.
func newService(opts *options) *planning.Service {
	return planning.NewService(
		planning.NewInMemoryRepository(opts.log),
		opts,
		nil,
		nil,
		opts.clock,
		opts.log,
	)
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
