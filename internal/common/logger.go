package common

import (
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"
)

// NewLogger builds the JSON stderr logger for a command from the global
// --quiet and --verbose flags.
func NewLogger(c *cli.Context) *slog.Logger {
	logLevel := slog.LevelInfo
	switch {
	case c.Bool("quiet"):
		logLevel = slog.LevelError
	case c.Bool("verbose"):
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}
