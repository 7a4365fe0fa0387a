package edm

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// Process resolves type references, keys, navigation bindings and storage
// details. It must succeed before the model is used for serving requests.
func (x *Edmx) Process() error {
	if x.processed {
		return nil
	}
	if x.DataServices == nil || len(x.DataServices.Schemas) == 0 {
		return goerr.New("at least one schema is required")
	}

	x.schemas = map[string]*Schema{}
	for _, s := range x.DataServices.Schemas {
		if s.Namespace == "" {
			return goerr.New("missing Namespace attribute in schema")
		}
		x.schemas[s.Namespace] = s
		if s.Alias != "" {
			x.schemas[s.Alias] = s
		}
		for _, t := range s.EntityTypes {
			if t.Name == "" {
				return goerr.New("missing Name attribute in entity type", goerr.V("namespace", s.Namespace))
			}
			t.schema = s
		}
	}

	for _, s := range x.DataServices.Schemas {
		for _, t := range s.EntityTypes {
			if err := x.resolveEntityType(t); err != nil {
				return err
			}
		}
	}

	x.entitySets = map[string]*EntitySet{}
	for _, s := range x.DataServices.Schemas {
		for _, c := range s.EntityContainers {
			for _, set := range c.EntitySets {
				if err := x.resolveEntitySet(s, set); err != nil {
					return err
				}
			}
		}
	}

	for _, set := range x.entitySets {
		set.bindings = map[string]*EntitySet{}
		for _, b := range set.NavigationPropertyBindings {
			target, ok := x.entitySets[bindingTargetName(b.Target)]
			if !ok {
				return goerr.New("unknown navigation property binding target",
					goerr.V("entity_set", set.Name),
					goerr.V("path", b.Path),
					goerr.V("target", b.Target))
			}
			set.bindings[b.Path] = target
		}
	}

	x.processed = true
	return nil
}

// EntitySet looks up an entity set by name
func (x *Edmx) EntitySet(name string) (*EntitySet, bool) {
	set, ok := x.entitySets[name]
	return set, ok
}

// EntitySets returns every entity set in declaration order
func (x *Edmx) EntitySets() []*EntitySet {
	var sets []*EntitySet
	if x.DataServices == nil {
		return sets
	}
	for _, s := range x.DataServices.Schemas {
		for _, c := range s.EntityContainers {
			sets = append(sets, c.EntitySets...)
		}
	}
	return sets
}

// EntityType looks up an entity type by qualified name or alias
func (x *Edmx) EntityType(ref string) (*EntityType, bool) {
	t := x.lookupEntityType(ref, nil)
	return t, t != nil
}

func (x *Edmx) lookupEntityType(ref string, current *Schema) *EntityType {
	ns, name := "", ref
	if idx := strings.LastIndex(ref, "."); idx >= 0 {
		ns, name = ref[:idx], ref[idx+1:]
	}

	var candidates []*Schema
	switch {
	case ns == "self" && current != nil:
		candidates = []*Schema{current}
	case ns != "":
		if s, ok := x.schemas[ns]; ok {
			candidates = []*Schema{s}
		}
	default:
		if current != nil {
			candidates = append(candidates, current)
		}
		candidates = append(candidates, x.DataServices.Schemas...)
	}

	for _, s := range candidates {
		for _, t := range s.EntityTypes {
			if t.Name == name {
				return t
			}
		}
	}
	return nil
}

func (x *Edmx) resolveEntityType(t *EntityType) error {
	if t.resolved {
		return nil
	}
	if t.resolving {
		return goerr.New("cyclic BaseType inheritance", goerr.V("entity_type", t.QualifiedName()))
	}
	t.resolving = true
	defer func() { t.resolving = false }()

	t.properties = map[string]*Property{}
	t.navProperties = map[string]*NavigationProperty{}
	t.virtualEntities = map[string]struct{}{}
	t.keyProperties = nil
	t.propertyList = nil
	t.navList = nil

	if t.BaseType != "" {
		base := x.lookupEntityType(t.BaseType, t.schema)
		if base == nil {
			return goerr.New("unknown base type",
				goerr.V("entity_type", t.QualifiedName()),
				goerr.V("base_type", t.BaseType))
		}
		if err := x.resolveEntityType(base); err != nil {
			return err
		}
		t.keyProperties = append(t.keyProperties, base.keyProperties...)
		for _, p := range base.propertyList {
			t.propertyList = append(t.propertyList, p)
			t.properties[p.Name] = p
		}
		for _, np := range base.navList {
			t.navList = append(t.navList, np)
			t.navProperties[np.Name] = np
		}
	}

	if t.Key != nil && len(t.Key.PropertyRefs) > 0 {
		t.keyProperties = t.keyProperties[:0]
		for _, ref := range t.Key.PropertyRefs {
			if ref.Name == "" {
				return goerr.New("missing Name attribute in property ref", goerr.V("entity_type", t.QualifiedName()))
			}
			t.keyProperties = append(t.keyProperties, ref.KeyName())
		}
	}

	for _, p := range t.Properties {
		if p.Name == "" {
			return goerr.New("missing Name attribute in property", goerr.V("entity_type", t.QualifiedName()))
		}
		if p.Type == "" {
			p.Type = string(String)
		}
		if _, dup := t.properties[p.Name]; dup {
			return goerr.New("duplicated property", goerr.V("entity_type", t.QualifiedName()), goerr.V("property", p.Name))
		}
		t.properties[p.Name] = p
		t.propertyList = append(t.propertyList, p)
	}

	for _, np := range t.NavigationProperties {
		if np.Name == "" || np.Type == "" {
			return goerr.New("navigation properties require Name and Type", goerr.V("entity_type", t.QualifiedName()))
		}
		targetRef, collection := SplitCollection(np.Type)
		target := x.lookupEntityType(targetRef, t.schema)
		if target == nil {
			return goerr.New("unknown navigation property type",
				goerr.V("entity_type", t.QualifiedName()),
				goerr.V("navigation_property", np.Name),
				goerr.V("type", np.Type))
		}
		np.entityType = target
		np.isCollection = collection
		if a := findAnnotation(np.Annotations, TermEmbedded); a != nil {
			embedded, _ := a.Value().(bool)
			np.isEmbedded = embedded
		}
		if _, dup := t.navProperties[np.Name]; !dup {
			t.navList = append(t.navList, np)
		}
		t.navProperties[np.Name] = np
	}

	for _, np := range t.navList {
		if np.isEmbedded {
			t.virtualEntities[np.Name] = struct{}{}
		}
	}

	t.resolved = true
	return nil
}

func (x *Edmx) resolveEntitySet(s *Schema, set *EntitySet) error {
	if set.Name == "" || set.EntityType == "" {
		return goerr.New("entity sets require Name and EntityType", goerr.V("namespace", s.Namespace))
	}
	if _, dup := x.entitySets[set.Name]; dup {
		return goerr.New("duplicated entity set", goerr.V("entity_set", set.Name))
	}

	t := x.lookupEntityType(set.EntityType, s)
	if t == nil {
		return goerr.New("unknown entity type",
			goerr.V("entity_set", set.Name),
			goerr.V("entity_type", set.EntityType))
	}
	if len(t.keyProperties) == 0 {
		return goerr.New("entity type used by an entity set has no key",
			goerr.V("entity_set", set.Name),
			goerr.V("entity_type", t.QualifiedName()))
	}
	set.entityType = t

	set.mongoCollection = set.Name
	if a := findAnnotation(set.Annotations, TermMongoCollection); a != nil {
		if name, ok := a.Value().(string); ok && name != "" {
			set.mongoCollection = name
		}
	}
	set.prefix = ""
	if a := findAnnotation(set.Annotations, TermPrefix); a != nil {
		if prefix, ok := a.Value().(string); ok {
			set.prefix = prefix
		}
	}

	x.entitySets[set.Name] = set
	return nil
}

// bindingTargetName extracts the entity set name from Container/Set style targets
func bindingTargetName(target string) string {
	if idx := strings.LastIndex(target, "/"); idx >= 0 {
		return target[idx+1:]
	}
	return target
}
