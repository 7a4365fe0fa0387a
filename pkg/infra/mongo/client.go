package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/fiware/odataserver/pkg/domain/interfaces"
	"github.com/fiware/odataserver/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const defaultMaxTime = 30 * time.Second

type client struct {
	client        *mongo.Client
	database      *mongo.Database
	searchMaxTime time.Duration
	countMaxTime  time.Duration
}

// Option configures the MongoDB client
type Option func(*client)

// WithSearchMaxTime limits the server side execution time of find and aggregate operations
func WithSearchMaxTime(d time.Duration) Option {
	return func(c *client) {
		c.searchMaxTime = d
	}
}

// WithCountMaxTime limits the server side execution time of count operations
func WithCountMaxTime(d time.Duration) Option {
	return func(c *client) {
		c.countMaxTime = d
	}
}

// Client is a DocumentStore backed by a MongoDB database
type Client interface {
	interfaces.DocumentStore
	Close(ctx context.Context) error
}

// Connect opens a connection to the MongoDB deployment at uri and uses database
func Connect(ctx context.Context, uri, database string, opts ...Option) (Client, error) {
	mc, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to connect to MongoDB", goerr.V("database", database))
	}

	c := &client{
		client:        mc,
		database:      mc.Database(database),
		searchMaxTime: defaultMaxTime,
		countMaxTime:  defaultMaxTime,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Close disconnects from MongoDB
func (c *client) Close(ctx context.Context) error {
	if err := c.client.Disconnect(ctx); err != nil {
		return goerr.Wrap(err, "failed to disconnect from MongoDB")
	}
	return nil
}

// FindOne returns the first matching document or nil when nothing matches
func (c *client) FindOne(ctx context.Context, collection string, filter bson.M, projection bson.M) (model.Document, error) {
	opts := options.FindOne().SetMaxTime(c.searchMaxTime)
	if projection != nil {
		opts.SetProjection(projection)
	}

	var doc bson.M
	err := c.database.Collection(collection).FindOne(ctx, filter, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to find document", goerr.V("collection", collection))
	}
	return Normalize(doc), nil
}

// Find returns every document matching the filter
func (c *client) Find(ctx context.Context, collection string, filter bson.M, findOpts *model.FindOptions) ([]model.Document, error) {
	opts := options.Find().SetMaxTime(c.searchMaxTime)
	if findOpts != nil {
		if findOpts.Projection != nil {
			opts.SetProjection(findOpts.Projection)
		}
		if len(findOpts.Sort) > 0 {
			opts.SetSort(findOpts.Sort)
		}
		if findOpts.Skip > 0 {
			opts.SetSkip(findOpts.Skip)
		}
		if findOpts.Limit > 0 {
			opts.SetLimit(findOpts.Limit)
		}
	}

	cursor, err := c.database.Collection(collection).Find(ctx, filter, opts)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to find documents", goerr.V("collection", collection))
	}
	return readAll(ctx, cursor, collection)
}

// Aggregate runs an aggregation pipeline
func (c *client) Aggregate(ctx context.Context, collection string, pipeline []bson.M) ([]model.Document, error) {
	opts := options.Aggregate().SetMaxTime(c.searchMaxTime)
	cursor, err := c.database.Collection(collection).Aggregate(ctx, pipeline, opts)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to run aggregation",
			goerr.V("collection", collection),
			goerr.V("stages", len(pipeline)))
	}
	return readAll(ctx, cursor, collection)
}

// CountDocuments counts the documents matching the filter
func (c *client) CountDocuments(ctx context.Context, collection string, filter bson.M) (int64, error) {
	opts := options.Count().SetMaxTime(c.countMaxTime)
	n, err := c.database.Collection(collection).CountDocuments(ctx, filter, opts)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to count documents", goerr.V("collection", collection))
	}
	return n, nil
}

// Ping checks the connection with the database
func (c *client) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx, readpref.Primary()); err != nil {
		return goerr.Wrap(err, "failed to ping MongoDB")
	}
	return nil
}

func readAll(ctx context.Context, cursor *mongo.Cursor, collection string) ([]model.Document, error) {
	var raw []bson.M
	if err := cursor.All(ctx, &raw); err != nil {
		return nil, goerr.Wrap(err, "failed to read documents", goerr.V("collection", collection))
	}

	docs := make([]model.Document, 0, len(raw))
	for _, doc := range raw {
		docs = append(docs, Normalize(doc))
	}
	return docs, nil
}
