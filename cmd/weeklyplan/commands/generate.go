package commands

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"weeklyplan/internal/artifact"
	"weeklyplan/internal/catalog"
	"weeklyplan/internal/catalogerr"
	"weeklyplan/internal/planmodel"
	"weeklyplan/internal/resolve"
	"weeklyplan/internal/shopping"
	"weeklyplan/internal/solver"
)

var (
	seed        int64
	timeoutSecs int
)

var generatePlanCmd = &cobra.Command{
	Use:   "generate-plan <data_dir> <out_dir>",
	Short: "Runs the full pipeline and writes plan.json and shopping_list.json",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger()
		if err != nil {
			return err
		}
		defer logger.Sync()

		dataDir, outDir := args[0], args[1]

		cat, loadErr := catalog.Load(dataDir)
		if loadErr != nil {
			var report *catalogerr.Report
			if errors.As(loadErr, &report) {
				for _, d := range report.Diagnostics {
					logger.Error(d.String(), zap.String("kind", string(d.Kind)), zap.String("source", d.Source))
				}
			} else {
				logger.Error(loadErr.Error())
			}
			setExitCode(ExitValidationError)
			return fmt.Errorf("validation failed for %s", dataDir)
		}

		model, err := planmodel.Build(cat)
		if err != nil {
			logger.Error("failed to build plan model", zap.Error(err))
			setExitCode(ExitValidationError)
			return err
		}

		opts := solver.Options{Seed: seed}
		if timeoutSecs > 0 {
			opts.Timeout = time.Duration(timeoutSecs) * time.Second
		}

		resp, err := solver.Solve(model, opts)
		if err != nil {
			logger.Error("solver failed", zap.Error(err))
			setExitCode(ExitValidationError)
			return err
		}

		switch resp.Status {
		case solver.StatusInfeasible:
			logger.Error("no assignment satisfies every constraint",
				zap.Int("slots", len(model.Slots)))
			setExitCode(ExitInfeasible)
			return fmt.Errorf("infeasible: %s", dataDir)
		case solver.StatusTimeout:
			logger.Error("solver exceeded its wall-clock bound", zap.Int("timeout_seconds", timeoutSecs))
			setExitCode(ExitTimeout)
			return fmt.Errorf("timeout: %s", dataDir)
		}

		if err := verifyAssignment(model, resp.Assignment); err != nil {
			logger.Error("solver produced an assignment violating its own constraints", zap.Error(err))
			setExitCode(ExitValidationError)
			return err
		}

		slots, err := resolve.Resolve(cat, model, resp.Assignment)
		if err != nil {
			logger.Error("failed to resolve plan portions", zap.Error(err))
			setExitCode(ExitValidationError)
			return err
		}

		if err := os.MkdirAll(outDir, 0o755); err != nil {
			logger.Error("failed to create output directory", zap.Error(err))
			setExitCode(ExitValidationError)
			return err
		}

		if err := artifact.WritePlan(outDir, seed, slots); err != nil {
			logger.Error("failed to write plan.json", zap.Error(err))
			setExitCode(ExitValidationError)
			return err
		}

		list := shopping.Aggregate(cat, slots)
		if err := artifact.WriteShoppingList(outDir, list); err != nil {
			logger.Error("failed to write shopping_list.json", zap.Error(err))
			setExitCode(ExitValidationError)
			return err
		}

		logger.Info("plan generated",
			zap.Int("slots", len(slots)),
			zap.String("out_dir", outDir))
		setExitCode(ExitSuccess)
		return nil
	},
}

func init() {
	generatePlanCmd.Flags().Int64Var(&seed, "seed", 0, "64-bit seed driving the solver's deterministic search")
	generatePlanCmd.Flags().IntVar(&timeoutSecs, "timeout", 0, "wall-clock bound in seconds (0 means no limit)")
}

// verifyAssignment re-derives protein, carb, and recipe-use counts from a
// feasible assignment and cross-checks them against the rules the solver was
// supposed to have already satisfied. It mirrors the solver's own finalCheck
// redundancy (internal/solver/solver.go) one layer up: a feasible Status
// should make this impossible to trip, so tripping it means an internal
// invariant broke, not a data problem the user can fix.
func verifyAssignment(model *planmodel.Model, a planmodel.Assignment) error {
	proteinCounts := a.ProteinCount()
	for protein, want := range model.Rules.Constraints.WeeklyProteinCounts {
		if got := proteinCounts[protein]; got != want {
			return fmt.Errorf("internal error: protein %q assigned %d times, want %d", protein, got, want)
		}
	}

	carbCounts := a.CarbCount()
	for carb, limit := range model.CarbLimit {
		if got := carbCounts[carb]; got > limit {
			return fmt.Errorf("internal error: carb %q assigned %d times, exceeds weekly limit %d", carb, got, limit)
		}
	}

	recipeCounts := a.RecipeCount()
	max := model.Rules.Constraints.MaxRecipeUsesPerWeek
	for recipe, count := range recipeCounts {
		if count > max {
			return fmt.Errorf("internal error: recipe %q used %d times, exceeds max_recipe_uses_per_week %d", recipe, count, max)
		}
	}

	return nil
}
