// Package logging builds the structured logger used by the CLI's subcommands.
// A one-shot CLI run has no use for file rotation or multi-destination
// output, so this is a deliberately narrowed version of a zap setup: just a
// format switch (console for a human terminal, JSON for machine consumption)
// writing to stderr, with ISO8601 timestamps in both formats; the console
// format prints the level in colored capitals.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Format selects the encoder New builds.
type Format string

const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
)

// New builds a *zap.Logger writing to stderr at the given format, so stdout
// stays reserved for the pipeline's own output.
func New(format Format) (*zap.Logger, error) {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if format == FormatJSON {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(os.Stderr), zapcore.InfoLevel)
	return zap.New(core), nil
}
