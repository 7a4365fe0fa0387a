package config

import (
	"github.com/fiware/odataserver/pkg/domain/edm"
	"github.com/urfave/cli/v3"
)

// Model holds the location of the entity data model definition
type Model struct {
	Path string
}

// Flags returns CLI flags for model configuration
func (c *Model) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "model",
			Aliases:     []string{"m"},
			Usage:       "Entity data model definition file (.json, .yaml, .yml or .toml)",
			Required:    true,
			Destination: &c.Path,
			Sources:     cli.EnvVars("ODATASERVER_MODEL"),
		},
	}
}

// Load reads and resolves the entity data model
func (c *Model) Load() (*edm.Edmx, error) {
	return edm.Load(c.Path)
}
