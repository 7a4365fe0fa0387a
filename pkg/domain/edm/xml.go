package edm

import (
	"bytes"
	"encoding/xml"
	"strconv"

	"github.com/m-mizutani/goerr/v2"
)

const (
	namespaceEdmx = "http://docs.oasis-open.org/odata/ns/edmx"
	namespaceEdm  = "http://docs.oasis-open.org/odata/ns/edm"
)

type element struct {
	name     string
	attrs    []xml.Attr
	children []*element
	text     string
}

func newElement(name string) *element {
	return &element{name: name}
}

func (e *element) attr(name, value string) *element {
	e.attrs = append(e.attrs, xml.Attr{Name: xml.Name{Local: name}, Value: value})
	return e
}

func (e *element) optString(name, value string) *element {
	if value != "" {
		e.attr(name, value)
	}
	return e
}

func (e *element) optBool(name string, value *bool) *element {
	if value != nil {
		e.attr(name, strconv.FormatBool(*value))
	}
	return e
}

func (e *element) optInt(name string, value *int) *element {
	if value != nil {
		e.attr(name, strconv.Itoa(*value))
	}
	return e
}

func (e *element) setText(text string) *element {
	e.text = text
	return e
}

func (e *element) add(children ...*element) *element {
	e.children = append(e.children, children...)
	return e
}

func (e *element) encode(enc *xml.Encoder) error {
	start := xml.StartElement{Name: xml.Name{Local: e.name}, Attr: e.attrs}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if e.text != "" {
		if err := enc.EncodeToken(xml.CharData(e.text)); err != nil {
			return err
		}
	}
	for _, child := range e.children {
		if err := child.encode(enc); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

func annotationElements(el *element, annotations []*Annotation) {
	for _, a := range annotations {
		el.add(a.xml())
	}
}

// XML renders the model as a CSDL XML document
func (x *Edmx) XML() ([]byte, error) {
	root := newElement("edmx:Edmx").
		attr("xmlns:edmx", namespaceEdmx).
		attr("xmlns", namespaceEdm).
		attr("Version", Version)

	for _, ref := range x.References {
		root.add(ref.xml())
	}

	ds := newElement("edmx:DataServices")
	if x.DataServices != nil {
		for _, s := range x.DataServices.Schemas {
			ds.add(s.xml())
		}
	}
	root.add(ds)

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	if err := root.encode(enc); err != nil {
		return nil, goerr.Wrap(err, "failed to encode CSDL XML")
	}
	if err := enc.Flush(); err != nil {
		return nil, goerr.Wrap(err, "failed to flush CSDL XML")
	}
	return buf.Bytes(), nil
}

func (r *Reference) xml() *element {
	el := newElement("edmx:Reference").optString("Uri", r.Uri)
	for _, inc := range r.Includes {
		el.add(newElement("edmx:Include").
			attr("Namespace", inc.Namespace).
			optString("Alias", inc.Alias))
	}
	annotationElements(el, r.Annotations)
	return el
}

func (s *Schema) xml() *element {
	el := newElement("Schema").
		attr("Namespace", s.Namespace).
		optString("Alias", s.Alias)

	for _, t := range s.EntityTypes {
		el.add(t.xml())
	}
	for _, t := range s.ComplexTypes {
		el.add(t.xml())
	}
	for _, a := range s.Actions {
		el.add(a.xml())
	}
	for _, c := range s.EntityContainers {
		el.add(c.xml())
	}
	annotationElements(el, s.Annotations)
	return el
}

func (t *EntityType) xml() *element {
	el := newElement("EntityType").
		attr("Name", t.Name).
		optString("BaseType", t.BaseType).
		optBool("Abstract", t.Abstract).
		optBool("OpenType", t.OpenType).
		optBool("HasStream", t.HasStream)

	if t.Key != nil && len(t.Key.PropertyRefs) > 0 {
		key := newElement("Key")
		for _, ref := range t.Key.PropertyRefs {
			key.add(newElement("PropertyRef").attr("Name", ref.Name).optString("Alias", ref.Alias))
		}
		el.add(key)
	}
	for _, p := range t.Properties {
		el.add(p.xml())
	}
	for _, np := range t.NavigationProperties {
		el.add(np.xml())
	}
	annotationElements(el, t.Annotations)
	return el
}

func (t *ComplexType) xml() *element {
	el := newElement("ComplexType").
		attr("Name", t.Name).
		optString("BaseType", t.BaseType).
		optBool("Abstract", t.Abstract).
		optBool("OpenType", t.OpenType).
		optBool("HasStream", t.HasStream)
	for _, p := range t.Properties {
		el.add(p.xml())
	}
	for _, np := range t.NavigationProperties {
		el.add(np.xml())
	}
	annotationElements(el, t.Annotations)
	return el
}

func (p *Property) xml() *element {
	el := newElement("Property").
		attr("Name", p.Name).
		attr("Type", p.typeName()).
		attr("Nullable", strconv.FormatBool(p.Nullable)).
		optInt("MaxLength", p.MaxLength).
		optInt("Precision", p.Precision).
		optInt("Scale", p.Scale).
		optBool("Unicode", p.Unicode).
		optInt("SRID", p.SRID).
		optString("ConcurrencyMode", p.ConcurrencyMode)
	annotationElements(el, p.Annotations)
	return el
}

func (p *Property) typeName() string {
	if p.Type == "" {
		return string(String)
	}
	return p.Type
}

func (n *NavigationProperty) xml() *element {
	el := newElement("NavigationProperty").
		attr("Name", n.Name).
		attr("Type", n.Type).
		attr("Nullable", strconv.FormatBool(n.Nullable)).
		optString("Partner", n.Partner).
		optBool("ContainsTarget", n.ContainsTarget)
	if n.OnDelete != nil {
		el.add(newElement("OnDelete").attr("Action", n.OnDelete.Action))
	}
	annotationElements(el, n.Annotations)
	return el
}

func (a *Action) xml() *element {
	el := newElement("Action").
		attr("Name", a.Name).
		optString("EntitySetPath", a.EntitySetPath)
	if a.IsBound {
		el.attr("IsBound", "true")
	}
	for _, p := range a.Parameters {
		pel := newElement("Parameter").
			attr("Name", p.Name).
			attr("Type", p.Type).
			optBool("Nullable", p.Nullable).
			optInt("MaxLength", p.MaxLength).
			optInt("Precision", p.Precision).
			optInt("Scale", p.Scale).
			optInt("SRID", p.SRID).
			optBool("Unicode", p.Unicode)
		annotationElements(pel, p.Annotations)
		el.add(pel)
	}
	if a.ReturnType != nil {
		el.add(newElement("ReturnType").
			attr("Type", a.ReturnType.Type).
			optBool("Nullable", a.ReturnType.Nullable).
			optInt("MaxLength", a.ReturnType.MaxLength).
			optInt("Precision", a.ReturnType.Precision).
			optInt("Scale", a.ReturnType.Scale).
			optInt("SRID", a.ReturnType.SRID))
	}
	annotationElements(el, a.Annotations)
	return el
}

func (c *EntityContainer) xml() *element {
	el := newElement("EntityContainer").attr("Name", c.Name)
	for _, set := range c.EntitySets {
		sel := newElement("EntitySet").
			attr("Name", set.Name).
			attr("EntityType", set.EntityType)
		if !set.InServiceDocument() {
			sel.attr("IncludeInServiceDocument", "false")
		}
		for _, b := range set.NavigationPropertyBindings {
			sel.add(newElement("NavigationPropertyBinding").attr("Path", b.Path).attr("Target", b.Target))
		}
		annotationElements(sel, set.Annotations)
		el.add(sel)
	}
	annotationElements(el, c.Annotations)
	return el
}
