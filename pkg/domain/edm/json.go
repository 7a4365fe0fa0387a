package edm

import (
	"encoding/json"

	"github.com/m-mizutani/goerr/v2"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

type ordered = orderedmap.OrderedMap[string, any]

func newOrdered() *ordered {
	return orderedmap.New[string, any]()
}

func setAnnotations(out *ordered, annotations []*Annotation) {
	for _, a := range annotations {
		out.Set(a.Key(), a.csdlJSON())
	}
}

func setOptional[T any](out *ordered, key string, value *T) {
	if value != nil {
		out.Set(key, *value)
	}
}

// setType writes $Type and $Collection for a type reference
func setType(out *ordered, typeName string) {
	inner, collection := SplitCollection(typeName)
	if collection {
		out.Set("$Collection", true)
	}
	out.Set("$Type", inner)
}

// JSON renders the model as a CSDL JSON document
func (x *Edmx) JSON() ([]byte, error) {
	doc := newOrdered()
	doc.Set("$Version", Version)

	if name := x.containerName(); name != "" {
		doc.Set("$EntityContainer", name)
	}

	if len(x.References) > 0 {
		refs := newOrdered()
		for _, ref := range x.References {
			refs.Set(ref.Uri, ref.csdlJSON())
		}
		doc.Set("$Reference", refs)
	}

	if x.DataServices != nil {
		for _, s := range x.DataServices.Schemas {
			doc.Set(s.Namespace, s.csdlJSON())
		}
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to encode CSDL JSON")
	}
	return data, nil
}

func (x *Edmx) containerName() string {
	if x.DataServices == nil {
		return ""
	}
	for _, s := range x.DataServices.Schemas {
		for _, c := range s.EntityContainers {
			return s.Namespace + "." + c.Name
		}
	}
	return ""
}

func (r *Reference) csdlJSON() any {
	out := newOrdered()
	if len(r.Includes) > 0 {
		includes := make([]any, 0, len(r.Includes))
		for _, inc := range r.Includes {
			entry := newOrdered()
			entry.Set("$Namespace", inc.Namespace)
			if inc.Alias != "" {
				entry.Set("$Alias", inc.Alias)
			}
			includes = append(includes, entry)
		}
		out.Set("$Include", includes)
	}
	setAnnotations(out, r.Annotations)
	return out
}

func (s *Schema) csdlJSON() any {
	out := newOrdered()
	if s.Alias != "" {
		out.Set("$Alias", s.Alias)
	}
	for _, t := range s.EntityTypes {
		out.Set(t.Name, t.csdlJSON())
	}
	for _, t := range s.ComplexTypes {
		out.Set(t.Name, t.csdlJSON())
	}

	overloads := map[string][]any{}
	var actionNames []string
	for _, a := range s.Actions {
		if _, ok := overloads[a.Name]; !ok {
			actionNames = append(actionNames, a.Name)
		}
		overloads[a.Name] = append(overloads[a.Name], a.csdlJSON())
	}
	for _, name := range actionNames {
		out.Set(name, overloads[name])
	}

	for _, c := range s.EntityContainers {
		out.Set(c.Name, c.csdlJSON())
	}
	if len(s.Annotations) > 0 {
		annotations := newOrdered()
		setAnnotations(annotations, s.Annotations)
		out.Set("$Annotations", annotations)
	}
	return out
}

func (t *EntityType) csdlJSON() any {
	out := newOrdered()
	out.Set("$Kind", "EntityType")
	if t.BaseType != "" {
		out.Set("$BaseType", t.BaseType)
	}
	setOptional(out, "$Abstract", t.Abstract)
	setOptional(out, "$OpenType", t.OpenType)
	setOptional(out, "$HasStream", t.HasStream)

	if t.Key != nil && len(t.Key.PropertyRefs) > 0 {
		keys := make([]any, 0, len(t.Key.PropertyRefs))
		for _, ref := range t.Key.PropertyRefs {
			if ref.Alias == "" {
				keys = append(keys, ref.Name)
			} else {
				keys = append(keys, map[string]any{ref.Alias: ref.Name})
			}
		}
		out.Set("$Key", keys)
	}
	for _, p := range t.Properties {
		out.Set(p.Name, p.csdlJSON())
	}
	for _, np := range t.NavigationProperties {
		out.Set(np.Name, np.csdlJSON())
	}
	setAnnotations(out, t.Annotations)
	return out
}

func (t *ComplexType) csdlJSON() any {
	out := newOrdered()
	out.Set("$Kind", "ComplexType")
	if t.BaseType != "" {
		out.Set("$BaseType", t.BaseType)
	}
	setOptional(out, "$Abstract", t.Abstract)
	setOptional(out, "$OpenType", t.OpenType)
	setOptional(out, "$HasStream", t.HasStream)
	for _, p := range t.Properties {
		out.Set(p.Name, p.csdlJSON())
	}
	for _, np := range t.NavigationProperties {
		out.Set(np.Name, np.csdlJSON())
	}
	setAnnotations(out, t.Annotations)
	return out
}

func (p *Property) csdlJSON() any {
	out := newOrdered()
	setType(out, p.typeName())
	if p.Nullable {
		out.Set("$Nullable", true)
	}
	setOptional(out, "$MaxLength", p.MaxLength)
	setOptional(out, "$Precision", p.Precision)
	setOptional(out, "$Scale", p.Scale)
	setOptional(out, "$Unicode", p.Unicode)
	setOptional(out, "$SRID", p.SRID)
	setAnnotations(out, p.Annotations)
	return out
}

func (n *NavigationProperty) csdlJSON() any {
	out := newOrdered()
	out.Set("$Kind", "NavigationProperty")
	setType(out, n.Type)
	if n.Nullable {
		out.Set("$Nullable", true)
	}
	if n.Partner != "" {
		out.Set("$Partner", n.Partner)
	}
	setOptional(out, "$ContainsTarget", n.ContainsTarget)
	if n.OnDelete != nil {
		out.Set("$OnDelete", n.OnDelete.Action)
	}
	setAnnotations(out, n.Annotations)
	return out
}

func (a *Action) csdlJSON() any {
	out := newOrdered()
	out.Set("$Kind", "Action")
	if a.IsBound {
		out.Set("$IsBound", true)
	}
	if a.EntitySetPath != "" {
		out.Set("$EntitySetPath", a.EntitySetPath)
	}
	if len(a.Parameters) > 0 {
		params := make([]any, 0, len(a.Parameters))
		for _, p := range a.Parameters {
			params = append(params, p.csdlJSON())
		}
		out.Set("$Parameter", params)
	}
	if a.ReturnType != nil {
		rt := newOrdered()
		setType(rt, a.ReturnType.Type)
		setOptional(rt, "$Nullable", a.ReturnType.Nullable)
		setOptional(rt, "$MaxLength", a.ReturnType.MaxLength)
		setOptional(rt, "$Precision", a.ReturnType.Precision)
		setOptional(rt, "$Scale", a.ReturnType.Scale)
		setOptional(rt, "$SRID", a.ReturnType.SRID)
		out.Set("$ReturnType", rt)
	}
	setAnnotations(out, a.Annotations)
	return out
}

func (p *Parameter) csdlJSON() any {
	out := newOrdered()
	out.Set("$Name", p.Name)
	setType(out, p.Type)
	setOptional(out, "$Nullable", p.Nullable)
	setOptional(out, "$MaxLength", p.MaxLength)
	setOptional(out, "$Precision", p.Precision)
	setOptional(out, "$Scale", p.Scale)
	setOptional(out, "$SRID", p.SRID)
	setOptional(out, "$Unicode", p.Unicode)
	setAnnotations(out, p.Annotations)
	return out
}

func (c *EntityContainer) csdlJSON() any {
	out := newOrdered()
	out.Set("$Kind", "EntityContainer")
	for _, set := range c.EntitySets {
		entry := newOrdered()
		entry.Set("$Collection", true)
		entry.Set("$Type", set.EntityType)
		if !set.InServiceDocument() {
			entry.Set("$IncludeInServiceDocument", false)
		}
		if len(set.NavigationPropertyBindings) > 0 {
			bindings := newOrdered()
			for _, b := range set.NavigationPropertyBindings {
				bindings.Set(b.Path, b.Target)
			}
			entry.Set("$NavigationPropertyBinding", bindings)
		}
		setAnnotations(entry, set.Annotations)
		out.Set(set.Name, entry)
	}
	setAnnotations(out, c.Annotations)
	return out
}
