package config

import (
	"time"

	"github.com/fiware/odataserver/pkg/domain/types"
	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Sentry holds error reporting configuration
type Sentry struct {
	DSN         string `masq:"secret"`
	Environment string
}

// Flags returns CLI flags for Sentry configuration
func (c *Sentry) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "sentry-dsn",
			Usage:       "Sentry DSN, error reporting is disabled when empty",
			Destination: &c.DSN,
			Sources:     cli.EnvVars("ODATASERVER_SENTRY_DSN"),
		},
		&cli.StringFlag{
			Name:        "sentry-env",
			Usage:       "Sentry environment",
			Destination: &c.Environment,
			Sources:     cli.EnvVars("ODATASERVER_SENTRY_ENV"),
		},
	}
}

// Enabled reports whether a DSN was given
func (c *Sentry) Enabled() bool {
	return c.DSN != ""
}

// Configure initializes the Sentry client and returns a function flushing
// buffered events
func (c *Sentry) Configure() (func(), error) {
	if !c.Enabled() {
		return func() {}, nil
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         c.DSN,
		Environment: c.Environment,
		Release:     "odataserver@" + types.Version,
	}); err != nil {
		return nil, goerr.Wrap(err, "failed to initialize Sentry")
	}

	return func() {
		sentry.Flush(2 * time.Second)
	}, nil
}
