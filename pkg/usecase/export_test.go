package usecase

import (
	"context"

	"github.com/fiware/odataserver/pkg/domain/edm"
	"github.com/fiware/odataserver/pkg/domain/odata"
	"go.mongodb.org/mongo-driver/bson"
)

// ExpandProjection exposes the projection computed by planExpand
func ExpandProjection(ctx context.Context, set *edm.EntitySet, items []odata.ExpandItem, projection bson.M) error {
	_, err := planExpand(ctx, set, set.Type(), items, projection, set.Prefix())
	return err
}

var MergeFilters = mergeFilters
