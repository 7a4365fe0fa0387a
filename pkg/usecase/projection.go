package usecase

import (
	"strings"

	"github.com/fiware/odataserver/pkg/domain/edm"
	"github.com/fiware/odataserver/pkg/domain/model"
	"github.com/fiware/odataserver/pkg/domain/odata"
	"github.com/m-mizutani/goerr/v2"
	"go.mongodb.org/mongo-driver/bson"
)

// BuildInitialProjection returns the projection reading the selected
// properties of t, stored under prefix. Key properties are never prefixed.
// Unless anonymous, key properties missing from the selection are added and
// returned so they can be removed once the entity has been annotated.
func BuildInitialProjection(t *edm.EntityType, selected []string, prefix string, anonymous bool) (bson.M, []string) {
	projection := bson.M{
		"_id":  0,
		"uuid": 1,
	}

	if len(selected) == 0 {
		for _, p := range t.PropertyList() {
			selected = append(selected, p.Name)
		}
	}
	for _, name := range selected {
		projection[fieldName(t, prefix, name)] = 1
	}

	var extra []string
	if !anonymous {
		for _, k := range t.KeyProperties() {
			if _, ok := projection[k]; !ok {
				projection[k] = 1
				extra = append(extra, k)
			}
		}
	}
	return projection, extra
}

// MongoPrefix returns the document path holding the entities reached from
// root through nav. A nil nav addresses root itself.
func MongoPrefix(root *edm.EntitySet, nav *edm.NavigationProperty) string {
	if nav == nil || !nav.IsEmbedded() || nav.EntityType() == root.Type() {
		return root.Prefix()
	}
	return joinPath(root.Prefix(), nav.Name)
}

// fieldName maps a property path of t to its MongoDB field
func fieldName(t *edm.EntityType, prefix, property string) string {
	if prefix == "" || t.IsKey(property) {
		return odata.FieldPath(property)
	}
	return prefix + "." + odata.FieldPath(property)
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

func validateSelect(t *edm.EntityType, selected []string) error {
	for _, s := range selected {
		name, _, _ := strings.Cut(s, "/")
		if _, ok := t.Property(name); !ok && !t.IsKey(name) {
			return goerr.New("unknown property "+name+" in $select",
				goerr.V("entity_type", t.QualifiedName()),
				goerr.T(model.ErrTagBadRequest))
		}
	}
	return nil
}

func sortDocument(t *edm.EntityType, prefix string, items []odata.OrderByItem) bson.D {
	var sort bson.D
	for _, item := range items {
		direction := 1
		if item.Descending {
			direction = -1
		}
		sort = append(sort, bson.E{Key: fieldName(t, prefix, item.Property), Value: direction})
	}
	return sort
}
