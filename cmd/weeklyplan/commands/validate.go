package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"weeklyplan/internal/catalog"
	"weeklyplan/internal/catalogerr"
)

var validateDataCmd = &cobra.Command{
	Use:   "validate-data <data_dir>",
	Short: "Loads and validates a catalog without scheduling a plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger()
		if err != nil {
			return err
		}
		defer logger.Sync()

		dataDir := args[0]
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

		fractional := catalog.FractionalCarbLimits(cat)
		for _, ing := range fractional {
			logger.Warn("carb ingredient has a fractional max_times_week; it floors to a stricter integer weekly ceiling",
				zap.String("ingredient", ing.ID),
				zap.String("max_times_week", ing.MaxTimesWeek.String()))
		}

		logger.Info("catalog is valid",
			zap.Int("recipes", len(cat.Recipes)),
			zap.Int("ingredients", len(cat.Ingredients)))
		setExitCode(ExitSuccess)
		return nil
	},
}
