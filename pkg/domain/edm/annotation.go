package edm

import (
	"strconv"
	"strings"
)

// Annotation applies a vocabulary term to a model element
type Annotation struct {
	Term       string `mapstructure:"Term"`
	Qualifier  string `mapstructure:"Qualifier"`
	Target     string `mapstructure:"Target"`
	Expression `mapstructure:",squash"`
}

// Key returns the member name used for the annotation in CSDL JSON
func (a *Annotation) Key() string {
	key := "@" + a.Term
	if a.Qualifier != "" {
		key += "#" + a.Qualifier
	}
	return key
}

// Value returns the annotation value, a bare annotation means true
func (a *Annotation) Value() any {
	if a.Expression.empty() {
		return true
	}
	return a.Expression.Value()
}

// NullExpression is the explicit null value, it may carry annotations
type NullExpression struct {
	Annotations []*Annotation `mapstructure:"Annotations"`
}

// CollectionExpression is an ordered list of expressions
type CollectionExpression struct {
	Items []*Expression `mapstructure:"Items"`
}

// Record is a structured annotation value
type Record struct {
	Type           string           `mapstructure:"Type"`
	Annotations    []*Annotation    `mapstructure:"Annotations"`
	PropertyValues []*PropertyValue `mapstructure:"PropertyValues"`
}

// PropertyValue assigns an expression to a record member
type PropertyValue struct {
	Property   string `mapstructure:"Property"`
	Expression `mapstructure:",squash"`
}

// Expression holds exactly one constant or dynamic annotation expression
type Expression struct {
	String       *string               `mapstructure:"String"`
	Bool         *bool                 `mapstructure:"Bool"`
	Int          *int64                `mapstructure:"Int"`
	Decimal      *float64              `mapstructure:"Decimal"`
	EnumMember   *string               `mapstructure:"EnumMember"`
	Path         *string               `mapstructure:"Path"`
	PropertyPath *string               `mapstructure:"PropertyPath"`
	Null         *NullExpression       `mapstructure:"Null"`
	Collection   *CollectionExpression `mapstructure:"Collection"`
	Record       *Record               `mapstructure:"Record"`
}

func (e *Expression) empty() bool {
	return e.String == nil && e.Bool == nil && e.Int == nil && e.Decimal == nil &&
		e.EnumMember == nil && e.Path == nil && e.PropertyPath == nil &&
		e.Null == nil && e.Collection == nil && e.Record == nil
}

// Value converts the expression into a plain Go value
func (e *Expression) Value() any {
	switch {
	case e.String != nil:
		return *e.String
	case e.Bool != nil:
		return *e.Bool
	case e.Int != nil:
		return *e.Int
	case e.Decimal != nil:
		return *e.Decimal
	case e.EnumMember != nil:
		return *e.EnumMember
	case e.Path != nil:
		return *e.Path
	case e.PropertyPath != nil:
		return *e.PropertyPath
	case e.Collection != nil:
		items := make([]any, 0, len(e.Collection.Items))
		for _, item := range e.Collection.Items {
			items = append(items, item.Value())
		}
		return items
	case e.Record != nil:
		out := map[string]any{}
		for _, pv := range e.Record.PropertyValues {
			out[pv.Property] = pv.Value()
		}
		return out
	}
	return nil
}

// attribute returns the XML attribute form of a scalar expression
func (e *Expression) attribute() (string, string, bool) {
	switch {
	case e.String != nil:
		return "String", *e.String, true
	case e.Bool != nil:
		return "Bool", strconv.FormatBool(*e.Bool), true
	case e.Int != nil:
		return "Int", strconv.FormatInt(*e.Int, 10), true
	case e.Decimal != nil:
		return "Decimal", strconv.FormatFloat(*e.Decimal, 'f', -1, 64), true
	case e.EnumMember != nil:
		return "EnumMember", *e.EnumMember, true
	case e.Path != nil:
		return "Path", *e.Path, true
	case e.PropertyPath != nil:
		return "PropertyPath", *e.PropertyPath, true
	}
	return "", "", false
}

// element returns the XML element form of the expression
func (e *Expression) element() *element {
	if name, value, ok := e.attribute(); ok {
		return newElement(name).setText(value)
	}
	switch {
	case e.Null != nil:
		el := newElement("Null")
		for _, a := range e.Null.Annotations {
			el.add(a.xml())
		}
		return el
	case e.Collection != nil:
		el := newElement("Collection")
		for _, item := range e.Collection.Items {
			el.add(item.element())
		}
		return el
	case e.Record != nil:
		return e.Record.xml()
	}
	return nil
}

// csdlJSON renders the expression for CSDL JSON documents
func (e *Expression) csdlJSON() any {
	switch {
	case e.Path != nil:
		return map[string]any{"$Path": *e.Path}
	case e.PropertyPath != nil:
		return map[string]any{"$PropertyPath": *e.PropertyPath}
	case e.Collection != nil:
		items := make([]any, 0, len(e.Collection.Items))
		for _, item := range e.Collection.Items {
			items = append(items, item.csdlJSON())
		}
		return items
	case e.Record != nil:
		return e.Record.csdlJSON()
	case e.Null != nil:
		return nil
	}
	return e.Value()
}

func (r *Record) xml() *element {
	el := newElement("Record").optString("Type", r.Type)
	for _, pv := range r.PropertyValues {
		pel := newElement("PropertyValue").optString("Property", pv.Property)
		if name, value, ok := pv.attribute(); ok {
			pel.attr(name, value)
		} else if child := pv.element(); child != nil {
			pel.add(child)
		}
		el.add(pel)
	}
	for _, a := range r.Annotations {
		el.add(a.xml())
	}
	return el
}

func (r *Record) csdlJSON() any {
	out := newOrdered()
	if r.Type != "" {
		out.Set("@type", r.Type)
	}
	for _, a := range r.Annotations {
		out.Set(a.Key(), a.csdlJSON())
	}
	for _, pv := range r.PropertyValues {
		out.Set(pv.Property, pv.csdlJSON())
	}
	return out
}

func (a *Annotation) xml() *element {
	el := newElement("Annotation").
		attr("Term", a.Term).
		optString("Qualifier", a.Qualifier).
		optString("Target", a.Target)
	if name, value, ok := a.attribute(); ok {
		el.attr(name, value)
	} else if child := a.element(); child != nil {
		el.add(child)
	}
	return el
}

func (a *Annotation) csdlJSON() any {
	if a.Expression.empty() {
		return true
	}
	return a.Expression.csdlJSON()
}

// findAnnotation looks up term, server terms also match under the
// LegacyTermNamespace namespace
func findAnnotation(annotations []*Annotation, term string) *Annotation {
	legacy := ""
	if name, ok := strings.CutPrefix(term, TermNamespace+"."); ok {
		legacy = LegacyTermNamespace + "." + name
	}
	for _, a := range annotations {
		if a.Term == term || (legacy != "" && a.Term == legacy) {
			return a
		}
	}
	return nil
}
