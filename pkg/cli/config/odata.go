package config

import (
	"github.com/fiware/odataserver/pkg/domain/odata"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// OData holds the OData service configuration
type OData struct {
	Prefix          string
	DefaultPageSize int
	MaxPageSize     int
}

// Flags returns CLI flags for OData service configuration
func (c *OData) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "prefix",
			Usage:       "URL path of the OData service root",
			Value:       "/odata",
			Destination: &c.Prefix,
			Sources:     cli.EnvVars("ODATASERVER_PREFIX"),
		},
		&cli.IntFlag{
			Name:        "default-page-size",
			Usage:       "Page size used when the client does not send odata.maxpagesize",
			Value:       odata.DefaultMaxPageSize,
			Destination: &c.DefaultPageSize,
			Sources:     cli.EnvVars("ODATASERVER_DEFAULT_PAGE_SIZE"),
		},
		&cli.IntFlag{
			Name:        "max-page-size",
			Usage:       "Largest page size accepted from odata.maxpagesize",
			Value:       odata.MaxPageSizeLimit,
			Destination: &c.MaxPageSize,
			Sources:     cli.EnvVars("ODATASERVER_MAX_PAGE_SIZE"),
		},
	}
}

// Validate checks the page size bounds
func (c *OData) Validate() error {
	if c.DefaultPageSize < 1 || c.MaxPageSize < 1 {
		return goerr.New("page sizes must be positive",
			goerr.V("default_page_size", c.DefaultPageSize),
			goerr.V("max_page_size", c.MaxPageSize))
	}
	if c.DefaultPageSize > c.MaxPageSize {
		return goerr.New("default page size exceeds the maximum page size",
			goerr.V("default_page_size", c.DefaultPageSize),
			goerr.V("max_page_size", c.MaxPageSize))
	}
	return nil
}
