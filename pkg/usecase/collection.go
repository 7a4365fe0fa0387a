package usecase

import (
	"context"

	"github.com/fiware/odataserver/pkg/domain/edm"
	"github.com/fiware/odataserver/pkg/domain/model"
	"github.com/fiware/odataserver/pkg/domain/odata"
	"github.com/m-mizutani/goerr/v2"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/sync/errgroup"
)

// target is the set of entities addressed by a resource path
type target struct {
	// root is the entity set owning the MongoDB collection
	root       *edm.EntitySet
	entityType *edm.EntityType
	// prefix is the path of the entities inside the stored documents
	prefix string
	// annotate is false for entities without an entity set of their own
	annotate bool
	filters  bson.M
	// anchor is the context URL fragment of the response
	anchor string
}

// queryFilters combines the target filters with $filter and $search
func (tg *target) queryFilters(opts *model.QueryOptions) (bson.M, error) {
	filters := bson.M{}
	for k, v := range tg.filters {
		filters[k] = v
	}

	expr, err := odata.ParseFilter(opts.Filter)
	if err != nil {
		return nil, err
	}
	if expr != nil {
		translated, err := TranslateFilter(expr, tg.entityType, tg.prefix)
		if err != nil {
			return nil, err
		}
		filters = mergeFilters(filters, translated)
	}

	if opts.Search != "" {
		filters["$text"] = bson.M{"$search": opts.Search}
	}
	return filters, nil
}

// pipeline returns the aggregation stages matching the entities of a
// prefixed target. Conditions on the root document run before $unwind so
// indexes can be used, the remaining ones run on the unwound elements.
func (tg *target) pipeline(filters bson.M) []bson.M {
	before := bson.M{}
	after := bson.M{}
	for k, v := range filters {
		switch {
		case k == "$text":
			before[k] = v
		case k == "Seq" || k == tg.prefix || hasPathPrefix(k, tg.prefix) || k[0] == '$':
			after[k] = v
		default:
			before[k] = v
		}
	}

	var stages []bson.M
	if len(before) > 0 {
		stages = append(stages, bson.M{"$match": before})
	}
	stages = append(stages, tg.unwind())
	if len(after) > 0 {
		stages = append(stages, bson.M{"$match": after})
	}
	return stages
}

func (tg *target) unwind() bson.M {
	if tg.entityType.IsKey("Seq") {
		return bson.M{"$unwind": bson.M{
			"path":              "$" + tg.prefix,
			"includeArrayIndex": "Seq",
		}}
	}
	return bson.M{"$unwind": "$" + tg.prefix}
}

func hasPathPrefix(field, prefix string) bool {
	return len(field) > len(prefix) && field[:len(prefix)] == prefix && field[len(prefix)] == '.'
}

// getCollection reads one page of the entities of tg
func (uc *odataUseCase) getCollection(ctx context.Context, req *model.ResourceRequest, tg *target) (*model.ResourceResult, error) {
	opts := &req.Query

	pageLimit := int64(req.Prefer.MaxPageSize)
	limit := pageLimit + 1
	serverPaging := true
	if opts.Top != nil {
		pageLimit = *opts.Top
		limit = pageLimit
		serverPaging = false
	}

	selected, err := odata.ParseSelect(opts.Select)
	if err != nil {
		return nil, err
	}
	if err := validateSelect(tg.entityType, selected); err != nil {
		return nil, err
	}
	projection, extraKeys := BuildInitialProjection(tg.entityType, selected, tg.prefix, !tg.annotate)

	filters, err := tg.queryFilters(opts)
	if err != nil {
		return nil, err
	}

	expandItems, err := odata.ParseExpand(opts.Expand)
	if err != nil {
		return nil, err
	}
	plan, err := planExpand(ctx, tg.root, tg.entityType, expandItems, projection, tg.prefix)
	if err != nil {
		return nil, err
	}

	orderBy, err := odata.ParseOrderBy(opts.OrderBy)
	if err != nil {
		return nil, err
	}
	sort := sortDocument(tg.entityType, tg.prefix, orderBy)

	collection := tg.root.MongoCollection()
	var (
		docs  []model.Document
		total int64
	)

	eg, egCtx := errgroup.WithContext(ctx)
	if limit > 0 {
		eg.Go(func() error {
			var err error
			if tg.prefix == "" {
				docs, err = uc.store.Find(egCtx, collection, filters, &model.FindOptions{
					Projection: projection,
					Sort:       sort,
					Skip:       opts.Skip,
					Limit:      limit,
				})
			} else {
				stages := tg.pipeline(filters)
				if len(sort) > 0 {
					stages = append(stages, bson.M{"$sort": sort})
				}
				stages = append(stages,
					bson.M{"$project": projection},
					bson.M{"$skip": opts.Skip},
					bson.M{"$limit": limit},
				)
				docs, err = uc.store.Aggregate(egCtx, collection, stages)
			}
			if err != nil {
				return goerr.Wrap(err, "failed to read entities", goerr.V("collection", collection))
			}
			return nil
		})
	}
	if opts.Count {
		eg.Go(func() error {
			var err error
			total, err = uc.countDocuments(egCtx, tg, collection, filters)
			return err
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	hasNext := serverPaging && int64(len(docs)) > pageLimit
	if int64(len(docs)) > pageLimit {
		docs = docs[:pageLimit]
	}

	value := make([]any, 0, len(docs))
	for _, doc := range docs {
		value = append(value, uc.shapeEntity(req.ServiceRoot, tg, plan, doc, extraKeys))
	}

	body := model.Document{
		"@odata.context": metadataURL(req.ServiceRoot) + "#" + tg.anchor,
		"value":          value,
	}
	if opts.Count {
		body["@odata.count"] = total
	}

	result := &model.ResourceResult{
		Kind: model.ResourceCollection,
		Body: body,
	}
	if serverPaging && req.Prefer.Requested {
		result.PageSize = int(pageLimit)
	}
	if hasNext {
		next := opts.Skip + pageLimit
		result.NextSkip = &next
	}
	return result, nil
}

// shapeEntity turns a stored document into the entity of the response
func (uc *odataUseCase) shapeEntity(serviceRoot string, tg *target, plan *expandPlan, doc model.Document, extraKeys []string) model.Document {
	doc = CropResult(doc, tg.prefix)
	expandResult(serviceRoot, tg.root, plan, doc, tg.prefix)
	if tg.annotate {
		Annotate(serviceRoot, doc, tg.root)
		for _, k := range extraKeys {
			delete(doc, k)
		}
	} else {
		delete(doc, "uuid")
	}
	return doc
}

// count answers the /$count segment
func (uc *odataUseCase) count(ctx context.Context, req *model.ResourceRequest, tg *target) (*model.ResourceResult, error) {
	filters, err := tg.queryFilters(&req.Query)
	if err != nil {
		return nil, err
	}
	total, err := uc.countDocuments(ctx, tg, tg.root.MongoCollection(), filters)
	if err != nil {
		return nil, err
	}
	return &model.ResourceResult{Kind: model.ResourceCount, Body: total}, nil
}

func (uc *odataUseCase) countDocuments(ctx context.Context, tg *target, collection string, filters bson.M) (int64, error) {
	if tg.prefix == "" {
		total, err := uc.store.CountDocuments(ctx, collection, filters)
		if err != nil {
			return 0, goerr.Wrap(err, "failed to count entities", goerr.V("collection", collection))
		}
		return total, nil
	}

	stages := append(tg.pipeline(filters), bson.M{"$count": "count"})
	docs, err := uc.store.Aggregate(ctx, collection, stages)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to count entities", goerr.V("collection", collection))
	}
	if len(docs) == 0 {
		return 0, nil
	}
	total, _ := toFloat(docs[0]["count"])
	return int64(total), nil
}
