package interfaces

//go:generate moq -out mocks/store_mock.go -pkg mocks . DocumentStore

import (
	"context"

	"github.com/fiware/odataserver/pkg/domain/model"
	"go.mongodb.org/mongo-driver/bson"
)

// DocumentStore defines the read operations needed on the database
type DocumentStore interface {
	// FindOne returns the first matching document or nil when nothing matches
	FindOne(ctx context.Context, collection string, filter bson.M, projection bson.M) (model.Document, error)

	// Find returns every document matching the filter
	Find(ctx context.Context, collection string, filter bson.M, opts *model.FindOptions) ([]model.Document, error)

	// Aggregate runs an aggregation pipeline
	Aggregate(ctx context.Context, collection string, pipeline []bson.M) ([]model.Document, error)

	// CountDocuments counts the documents matching the filter
	CountDocuments(ctx context.Context, collection string, filter bson.M) (int64, error)

	// Ping checks the connection with the database
	Ping(ctx context.Context) error
}
