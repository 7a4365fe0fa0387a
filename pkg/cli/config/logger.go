package config

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/m-mizutani/clog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/masq"
	"github.com/urfave/cli/v3"
)

// Logger holds logger configuration
type Logger struct {
	Level string
	JSON  bool

	// Output defaults to stdout
	Output io.Writer
}

// Flags returns CLI flags for logger configuration
func (c *Logger) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &c.Level,
			Sources:     cli.EnvVars("ODATASERVER_LOG_LEVEL"),
		},
		&cli.BoolFlag{
			Name:        "log-json",
			Usage:       "Output logs in JSON format",
			Value:       false,
			Destination: &c.JSON,
			Sources:     cli.EnvVars("ODATASERVER_LOG_JSON"),
		},
	}
}

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// Configure configures and returns a logger. Fields tagged with
// masq:"secret" are redacted from the output.
func (c *Logger) Configure() (*slog.Logger, error) {
	level, ok := logLevels[strings.ToLower(c.Level)]
	if !ok {
		return nil, goerr.New("invalid log level", goerr.V("level", c.Level))
	}

	filter := masq.New(masq.WithTag("secret"))

	var output io.Writer = os.Stdout
	if c.Output != nil {
		output = c.Output
	}

	var handler slog.Handler
	if c.JSON {
		handler = slog.NewJSONHandler(output, &slog.HandlerOptions{
			Level:       level,
			ReplaceAttr: filter,
		})
	} else {
		handler = clog.New(
			clog.WithWriter(output),
			clog.WithLevel(level),
			clog.WithReplaceAttr(filter),
			clog.WithColor(c.Output == nil),
			clog.WithColorMap(consoleColors),
		)
	}

	return slog.New(handler), nil
}

var consoleColors = &clog.ColorMap{
	Level: map[slog.Level]*color.Color{
		slog.LevelDebug: color.New(color.FgGreen, color.Bold),
		slog.LevelInfo:  color.New(color.FgCyan, color.Bold),
		slog.LevelWarn:  color.New(color.FgYellow, color.Bold),
		slog.LevelError: color.New(color.FgRed, color.Bold),
	},
	LevelDefault: color.New(color.FgBlue, color.Bold),
	Time:         color.New(color.FgWhite),
	Message:      color.New(color.FgHiWhite),
	AttrKey:      color.New(color.FgHiCyan),
	AttrValue:    color.New(color.FgHiWhite),
}
