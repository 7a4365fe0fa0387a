package config

import (
	"context"
	"time"

	"github.com/fiware/odataserver/pkg/infra/mongo"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Mongo holds MongoDB configuration
type Mongo struct {
	URI      string `masq:"secret"`
	Database string
	// SearchMaxTime and CountMaxTime are in milliseconds
	SearchMaxTime int
	CountMaxTime  int
}

// Flags returns CLI flags for MongoDB configuration
func (c *Mongo) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "mongo-uri",
			Usage:       "MongoDB connection string",
			Value:       "mongodb://localhost:27017",
			Destination: &c.URI,
			Sources:     cli.EnvVars("ODATASERVER_MONGO_URI"),
		},
		&cli.StringFlag{
			Name:        "mongo-database",
			Usage:       "MongoDB database holding the entity sets",
			Required:    true,
			Destination: &c.Database,
			Sources:     cli.EnvVars("ODATASERVER_MONGO_DATABASE"),
		},
		&cli.IntFlag{
			Name:        "mongo-search-max-time",
			Usage:       "Maximum execution time of find and aggregate operations in milliseconds",
			Value:       30000,
			Destination: &c.SearchMaxTime,
			Sources:     cli.EnvVars("ODATASERVER_MONGO_SEARCH_MAX_TIME"),
		},
		&cli.IntFlag{
			Name:        "mongo-count-max-time",
			Usage:       "Maximum execution time of count operations in milliseconds, defaults to the search max time",
			Destination: &c.CountMaxTime,
			Sources:     cli.EnvVars("ODATASERVER_MONGO_COUNT_MAX_TIME"),
		},
	}
}

// Options returns the client options derived from the configured time limits
func (c *Mongo) Options() ([]mongo.Option, error) {
	if c.SearchMaxTime < 1 {
		return nil, goerr.New("search max time must be positive", goerr.V("search_max_time", c.SearchMaxTime))
	}
	countMaxTime := c.CountMaxTime
	if countMaxTime < 1 {
		countMaxTime = c.SearchMaxTime
	}

	return []mongo.Option{
		mongo.WithSearchMaxTime(time.Duration(c.SearchMaxTime) * time.Millisecond),
		mongo.WithCountMaxTime(time.Duration(countMaxTime) * time.Millisecond),
	}, nil
}

// Connect opens the MongoDB client
func (c *Mongo) Connect(ctx context.Context) (mongo.Client, error) {
	opts, err := c.Options()
	if err != nil {
		return nil, err
	}
	return mongo.Connect(ctx, c.URI, c.Database, opts...)
}
