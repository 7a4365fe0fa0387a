package usecase

import (
	"context"
	"fmt"

	"github.com/fiware/odataserver/pkg/domain/edm"
	"github.com/fiware/odataserver/pkg/domain/model"
	"github.com/fiware/odataserver/pkg/domain/odata"
	"github.com/m-mizutani/goerr/v2"
	"go.mongodb.org/mongo-driver/bson"
)

// getEntity reads the single entity of tg identified by key
func (uc *odataUseCase) getEntity(ctx context.Context, req *model.ResourceRequest, tg *target, key map[string]any) (*model.ResourceResult, error) {
	selected, err := odata.ParseSelect(req.Query.Select)
	if err != nil {
		return nil, err
	}
	if err := validateSelect(tg.entityType, selected); err != nil {
		return nil, err
	}
	projection, extraKeys := BuildInitialProjection(tg.entityType, selected, tg.prefix, !tg.annotate)

	expandItems, err := odata.ParseExpand(req.Query.Expand)
	if err != nil {
		return nil, err
	}
	plan, err := planExpand(ctx, tg.root, tg.entityType, expandItems, projection, tg.prefix)
	if err != nil {
		return nil, err
	}

	doc, err := uc.fetchEntity(ctx, tg, key, projection)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, goerr.New("entity not found",
			goerr.V("entity_set", tg.root.Name),
			goerr.V("key", key),
			goerr.T(model.ErrTagNotFound))
	}

	var etag string
	if uuid, ok := doc["uuid"]; ok && uuid != nil {
		etag = fmt.Sprint(uuid)
	}

	doc = uc.shapeEntity(req.ServiceRoot, tg, plan, doc, extraKeys)
	doc["@odata.context"] = metadataURL(req.ServiceRoot) + "#" + tg.anchor + "/$entity"

	return &model.ResourceResult{
		Kind: model.ResourceEntity,
		Body: doc,
		ETag: etag,
	}, nil
}

// fetchEntity reads the document holding the entity identified by key, nil
// when it does not exist. Key properties are stored at the document root.
func (uc *odataUseCase) fetchEntity(ctx context.Context, tg *target, key map[string]any, projection bson.M) (model.Document, error) {
	collection := tg.root.MongoCollection()
	filter := bson.M{}
	for k, v := range key {
		filter[k] = v
	}

	if tg.prefix == "" {
		doc, err := uc.store.FindOne(ctx, collection, filter, projection)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read entity", goerr.V("collection", collection))
		}
		return doc, nil
	}

	seq, hasSeq := filter["Seq"]
	delete(filter, "Seq")

	stages := []bson.M{{"$match": filter}, tg.unwind()}
	if hasSeq {
		stages = append(stages, bson.M{"$match": bson.M{"Seq": seq}})
	}
	stages = append(stages,
		bson.M{"$project": projection},
		bson.M{"$limit": 1},
	)

	docs, err := uc.store.Aggregate(ctx, collection, stages)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read entity", goerr.V("collection", collection))
	}
	if len(docs) == 0 {
		return nil, nil
	}
	return docs[0], nil
}

// getProperty reads a single property of an entity of set
func (uc *odataUseCase) getProperty(ctx context.Context, req *model.ResourceRequest, set *edm.EntitySet, key map[string]any, prop *edm.Property, raw bool) (*model.ResourceResult, error) {
	t := set.Type()
	tg := &target{
		root:       set,
		entityType: t,
		prefix:     set.Prefix(),
	}
	projection := bson.M{"_id": 0}
	projection[fieldName(t, tg.prefix, prop.Name)] = 1

	doc, err := uc.fetchEntity(ctx, tg, key, projection)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, goerr.New("entity not found",
			goerr.V("entity_set", set.Name),
			goerr.V("key", key),
			goerr.T(model.ErrTagNotFound))
	}
	value := CropResult(doc, tg.prefix)[prop.Name]

	if raw {
		return &model.ResourceResult{Kind: model.ResourceValue, Body: value}, nil
	}
	return &model.ResourceResult{
		Kind: model.ResourceProperty,
		Body: model.Document{
			"@odata.context": metadataURL(req.ServiceRoot) + "#" + set.Name + "(" + odata.FormatKeyPredicate(t.KeyProperties(), key) + ")/" + prop.Name,
			"value":          value,
		},
	}, nil
}
