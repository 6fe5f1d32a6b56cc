// Package commands wires the weeklyplan CLI: a cobra root command with two
// subcommands, validate-data and generate-plan, over the catalog/variant/
// planmodel/solver/resolve/shopping/artifact pipeline.
package commands

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"weeklyplan/internal/logging"
)

// Exit codes, per §6 of the specification.
const (
	ExitSuccess         = 0
	ExitValidationError = 2
	ExitInfeasible      = 3
	ExitTimeout         = 4
)

var logFormat string

var rootCmd = &cobra.Command{
	Use:   "weeklyplan",
	Short: "Schedules a week of meals under protein/carb constraints and emits a shopping list",
	Long: `weeklyplan loads a declarative catalog of ingredients, recipes, and
scheduling rules, searches for a weekly meal assignment satisfying every
protein and carb constraint, and writes the resulting plan and shopping list
as JSON.

Examples:
  weeklyplan validate-data ./data
  weeklyplan generate-plan ./data ./out --seed 123 --timeout 30`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log output format: console or json")
	viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))

	rootCmd.AddCommand(validateDataCmd)
	rootCmd.AddCommand(generatePlanCmd)
}

// newLogger builds the run's logger, tagged with a run id so that the
// diagnostics from one invocation can be correlated in aggregated log
// storage even though the run id never appears in plan.json or
// shopping_list.json (§6 pins those schemas exactly).
func newLogger() (*zap.Logger, error) {
	format := logging.FormatConsole
	if viper.GetString("log.format") == "json" {
		format = logging.FormatJSON
	}
	logger, err := logging.New(format)
	if err != nil {
		return nil, err
	}
	return logger.With(zap.String("run_id", uuid.NewString())), nil
}

// Execute runs the CLI and returns the process exit code. Every subcommand
// communicates its result through exitCode rather than through cobra's own
// error-returns-1 convention, since the specification pins specific exit
// codes to specific failure kinds.
func Execute() int {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), err)
	}

	// A subcommand's RunE sets the precise exit code (validation/infeasible/
	// timeout) before returning its error; trust that over a blanket code so
	// an infeasible or timeout run doesn't get reported as a mere validation
	// failure.
	if code, ok := lastExitCode(); ok {
		return code
	}
	if err != nil {
		return ExitValidationError
	}
	return ExitSuccess
}

// lastExitCode and setExitCode let a subcommand's RunE (which can only
// return an error, not an exit code) communicate a specific code back to
// Execute without a global mutable exit-code variable leaking into the
// subcommands' own business logic signatures.
var exitCodeBox struct {
	code int
	set  bool
}

func setExitCode(code int) {
	exitCodeBox.code = code
	exitCodeBox.set = true
}

func lastExitCode() (int, bool) {
	return exitCodeBox.code, exitCodeBox.set
}
