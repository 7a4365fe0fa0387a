package usecase

import (
	"context"
	"strings"

	"github.com/fiware/odataserver/pkg/domain/edm"
	"github.com/fiware/odataserver/pkg/domain/interfaces"
	"github.com/fiware/odataserver/pkg/domain/model"
	"github.com/fiware/odataserver/pkg/domain/odata"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"go.mongodb.org/mongo-driver/bson"
)

const (
	contentTypeXML  = "application/xml;charset=utf-8"
	contentTypeJSON = "application/json;charset=utf-8"
)

type odataUseCase struct {
	edmx  *edm.Edmx
	store interfaces.DocumentStore
}

// NewOData creates the read only OData service over the entity sets of edmx
func NewOData(edmx *edm.Edmx, store interfaces.DocumentStore) interfaces.ODataUseCase {
	return &odataUseCase{
		edmx:  edmx,
		store: store,
	}
}

func metadataURL(serviceRoot string) string {
	return serviceRoot + "/$metadata"
}

// ServiceDocument lists the entity sets exposed by the service
func (uc *odataUseCase) ServiceDocument(ctx context.Context, serviceRoot string) (model.Document, error) {
	value := []any{}
	for _, set := range uc.edmx.EntitySets() {
		if !set.InServiceDocument() {
			continue
		}
		value = append(value, model.Document{
			"name": set.Name,
			"kind": "EntitySet",
			"url":  set.Name,
		})
	}

	return model.Document{
		"@odata.context": metadataURL(serviceRoot),
		"value":          value,
	}, nil
}

// Metadata renders the service metadata document as CSDL XML or CSDL JSON
func (uc *odataUseCase) Metadata(ctx context.Context, format string) ([]byte, string, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "xml", "application/xml":
		data, err := uc.edmx.XML()
		if err != nil {
			return nil, "", goerr.Wrap(err, "failed to render metadata as XML")
		}
		return data, contentTypeXML, nil

	case "json", "application/json":
		data, err := uc.edmx.JSON()
		if err != nil {
			return nil, "", goerr.Wrap(err, "failed to render metadata as JSON")
		}
		return data, contentTypeJSON, nil
	}

	return nil, "", goerr.New("unsupported metadata format",
		goerr.V("format", format),
		goerr.T(model.ErrTagUnsupportedFormat))
}

// Health checks the connectivity with the document store
func (uc *odataUseCase) Health(ctx context.Context) error {
	if err := uc.store.Ping(ctx); err != nil {
		return goerr.Wrap(err, "document store is not reachable")
	}
	return nil
}

// Resource resolves a resource path and reads the addressed data
func (uc *odataUseCase) Resource(ctx context.Context, req *model.ResourceRequest) (*model.ResourceResult, error) {
	rp, err := odata.ParseResourcePath(req.Path)
	if err != nil {
		return nil, err
	}

	set, ok := uc.edmx.EntitySet(rp.EntitySet)
	if !ok {
		return nil, goerr.New("resource not found for segment "+rp.EntitySet,
			goerr.V("path", req.Path),
			goerr.T(model.ErrTagNotFound))
	}
	t := set.Type()

	ctxlog.From(ctx).Debug("resolved resource path",
		"entity_set", set.Name,
		"key", rp.Key,
		"property", rp.Property,
		"count", rp.Count,
		"value", rp.Value,
	)

	if rp.Key == "" {
		if rp.Value {
			return nil, notFound(req.Path)
		}
		target := &target{
			root:       set,
			entityType: t,
			prefix:     set.Prefix(),
			annotate:   true,
			filters:    bson.M{"uuid": bson.M{"$exists": true}},
			anchor:     set.Name,
		}
		if rp.Count {
			return uc.count(ctx, req, target)
		}
		return uc.getCollection(ctx, req, target)
	}

	key, err := odata.ParseKeyPredicate(t, rp.Key)
	if err != nil {
		return nil, err
	}

	if rp.Property == "" {
		if rp.Count || rp.Value {
			return nil, notFound(req.Path)
		}
		return uc.getEntity(ctx, req, &target{
			root:       set,
			entityType: t,
			prefix:     set.Prefix(),
			annotate:   true,
			anchor:     set.Name,
		}, key)
	}

	if nav, ok := t.NavProperty(rp.Property); ok {
		return uc.navigate(ctx, req, rp, set, nav, key)
	}

	prop, ok := t.Property(rp.Property)
	if !ok || rp.Count {
		return nil, goerr.New("resource not found for segment "+rp.Property,
			goerr.V("path", req.Path),
			goerr.T(model.ErrTagNotFound))
	}
	return uc.getProperty(ctx, req, set, key, prop, rp.Value)
}

// navigate reads the entities related to the entity identified by key
func (uc *odataUseCase) navigate(ctx context.Context, req *model.ResourceRequest, rp *odata.ResourcePath, set *edm.EntitySet, nav *edm.NavigationProperty, key map[string]any) (*model.ResourceResult, error) {
	if rp.Value {
		return nil, notFound(req.Path)
	}

	root := set
	if binding := set.Binding(nav.Name); binding != nil {
		root = binding
	}
	annotate := nav.EntityType() == root.Type()

	target := &target{
		root:       root,
		entityType: nav.EntityType(),
		prefix:     MongoPrefix(root, nav),
		annotate:   annotate,
	}

	if nav.IsCollection() {
		target.filters = bson.M{}
		for k, v := range key {
			target.filters[k] = bson.M{"$eq": v}
		}
		target.anchor = root.Name
		if !annotate {
			target.anchor = set.Name + rp.Key + "/" + nav.Name
		}
		if rp.Count {
			return uc.count(ctx, req, target)
		}
		return uc.getCollection(ctx, req, target)
	}

	if rp.Count {
		return nil, notFound(req.Path)
	}
	target.anchor = root.Name
	if target.prefix != "" {
		target.anchor += "/" + target.prefix
	}
	return uc.getEntity(ctx, req, target, key)
}

func notFound(path string) error {
	return goerr.New("resource not found", goerr.V("path", path), goerr.T(model.ErrTagNotFound))
}
