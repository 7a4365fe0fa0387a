package usecase

import (
	"context"
	"strings"

	"github.com/fiware/odataserver/pkg/domain/edm"
	"github.com/fiware/odataserver/pkg/domain/model"
	"github.com/fiware/odataserver/pkg/domain/odata"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"go.mongodb.org/mongo-driver/bson"
)

// expandPlan describes how embedded navigation properties read through the
// projection are turned into expanded entities of the response
type expandPlan struct {
	keyProperties []string
	single        []*expandEntry
	collection    []*expandEntry
}

type expandEntry struct {
	name    string
	binding *edm.EntitySet
	nested  *expandPlan
}

type resolvedExpand struct {
	nav    *edm.NavigationProperty
	expand []odata.ExpandItem
}

func resolveExpandItems(t *edm.EntityType, items []odata.ExpandItem) ([]resolvedExpand, error) {
	var resolved []resolvedExpand
	index := map[string]int{}
	add := func(nav *edm.NavigationProperty, expand []odata.ExpandItem) {
		if i, ok := index[nav.Name]; ok {
			resolved[i].expand = expand
			return
		}
		index[nav.Name] = len(resolved)
		resolved = append(resolved, resolvedExpand{nav: nav, expand: expand})
	}

	for _, item := range items {
		if item.Property == odata.ExpandAll {
			for _, nav := range t.NavProperties() {
				add(nav, item.Expand)
			}
			continue
		}
		nav, ok := t.NavProperty(item.Property)
		if !ok {
			return nil, goerr.New(item.Property+" is not a navigation property of "+t.Name,
				goerr.V("entity_type", t.QualifiedName()),
				goerr.T(model.ErrTagBadRequest))
		}
		add(nav, item.Expand)
	}
	return resolved, nil
}

// planExpand extends projection with the fields needed by the expanded
// navigation properties of t stored under prefix
func planExpand(ctx context.Context, set *edm.EntitySet, t *edm.EntityType, items []odata.ExpandItem, projection bson.M, prefix string) (*expandPlan, error) {
	resolved, err := resolveExpandItems(t, items)
	if err != nil {
		return nil, err
	}

	plan := &expandPlan{keyProperties: t.KeyProperties()}
	for _, item := range resolved {
		nav := item.nav
		if !t.IsVirtual(nav.Name) {
			ctxlog.From(ctx).Debug("skip expansion of navigation property stored in another collection",
				"entity_type", t.QualifiedName(),
				"navigation_property", nav.Name,
			)
			continue
		}

		path := joinPath(prefix, nav.Name)
		binding := set.Binding(nav.Name)
		entry := &expandEntry{name: nav.Name, binding: binding}

		if len(item.expand) > 0 {
			nestedSet := set
			if binding != nil {
				nestedSet = binding
			}
			nested, err := planExpand(ctx, nestedSet, nav.EntityType(), item.expand, projection, path)
			if err != nil {
				return nil, err
			}
			entry.nested = nested
		}

		sub := nav.EntityType()
		if expandsAllVirtual(sub, item.expand) {
			for field := range projection {
				if strings.HasPrefix(field, path+".") {
					delete(projection, field)
				}
			}
			projection[path] = 1
		} else {
			for _, p := range sub.PropertyList() {
				if !sub.IsKey(p.Name) {
					projection[path+"."+p.Name] = 1
				}
			}
		}

		if nav.IsCollection() {
			plan.collection = append(plan.collection, entry)
		} else {
			plan.single = append(plan.single, entry)
		}
	}
	return plan, nil
}

// expandsAllVirtual reports whether items expand every embedded navigation
// property of t, in which case the whole sub document can be projected
func expandsAllVirtual(t *edm.EntityType, items []odata.ExpandItem) bool {
	expanded := map[string]struct{}{}
	for _, item := range items {
		if item.Property == odata.ExpandAll {
			return true
		}
		expanded[item.Property] = struct{}{}
	}
	for name := range t.VirtualEntities() {
		if _, ok := expanded[name]; !ok {
			return false
		}
	}
	return true
}

// expandResult annotates the expanded entities of doc following plan
func expandResult(serviceRoot string, set *edm.EntitySet, plan *expandPlan, doc model.Document, prefix string) {
	if plan == nil {
		return
	}

	mainID := map[string]any{}
	var idKeys []string
	for _, k := range plan.keyProperties {
		if k == "Seq" {
			continue
		}
		if v, ok := doc[k]; ok {
			mainID[k] = v
			idKeys = append(idKeys, k)
		}
	}
	contextURL := func(name string) string {
		return serviceRoot + "/$metadata#" + set.Name + "(" + odata.FormatKeyPredicate(idKeys, mainID) + ")/" + joinPath(prefix, name)
	}

	for _, entry := range plan.single {
		child, ok := doc[entry.name].(map[string]any)
		if !ok {
			continue
		}
		for k, v := range mainID {
			child[k] = v
		}
		if entry.binding != nil {
			Annotate(serviceRoot, child, entry.binding)
			expandResult(serviceRoot, entry.binding, entry.nested, child, "")
		} else {
			doc[entry.name+"@odata.context"] = contextURL(entry.name)
			expandResult(serviceRoot, set, entry.nested, child, joinPath(prefix, entry.name))
		}
	}

	for _, entry := range plan.collection {
		items, ok := doc[entry.name].([]any)
		if !ok {
			items = []any{}
			doc[entry.name] = items
		}
		if entry.binding == nil {
			doc[entry.name+"@odata.context"] = contextURL(entry.name)
		}
		for _, item := range items {
			child, ok := item.(map[string]any)
			if !ok {
				continue
			}
			if entry.binding != nil {
				Annotate(serviceRoot, child, entry.binding)
				expandResult(serviceRoot, entry.binding, entry.nested, child, "")
			} else {
				expandResult(serviceRoot, set, entry.nested, child, joinPath(prefix, entry.name))
			}
			for k, v := range mainID {
				child[k] = v
			}
		}
	}
}
