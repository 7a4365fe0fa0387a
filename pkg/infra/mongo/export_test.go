package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
)

// Insert stores test documents, the service itself never writes
func Insert(ctx context.Context, c Client, collection string, docs ...bson.M) error {
	items := make([]any, 0, len(docs))
	for _, doc := range docs {
		items = append(items, doc)
	}
	_, err := c.(*client).database.Collection(collection).InsertMany(ctx, items)
	return err
}

func DropDatabase(ctx context.Context, c Client) error {
	return c.(*client).database.Drop(ctx)
}
