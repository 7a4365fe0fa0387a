package odata_test

import (
	"testing"

	"github.com/fiware/odataserver/pkg/domain/edm"
	"github.com/fiware/odataserver/pkg/domain/model"
	"github.com/fiware/odataserver/pkg/domain/odata"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

func isBadRequest(err error) bool     { return goerr.HasTag(err, model.ErrTagBadRequest) }
func isNotImplemented(err error) bool { return goerr.HasTag(err, model.ErrTagNotImplemented) }

func entityType(t *testing.T, keys ...string) *edm.EntityType {
	t.Helper()

	doc := map[string]any{"Name": "Product"}
	var refs, props []any
	for _, k := range keys {
		refs = append(refs, map[string]any{"Name": k})
		props = append(props, map[string]any{"Name": k})
	}
	doc["Key"] = refs
	doc["Properties"] = props

	x, err := edm.Decode(map[string]any{
		"DataServices": []any{
			map[string]any{"Namespace": "Testing", "EntityTypes": []any{doc}},
		},
	})
	gt.NoError(t, err).Required()
	gt.NoError(t, x.Process()).Required()

	et, ok := x.EntityType("Testing.Product")
	gt.True(t, ok)
	return et
}

func TestParseKeyPredicateSingleKey(t *testing.T) {
	tests := []struct {
		predicate string
		want      map[string]any
	}{
		{predicate: "(5)", want: map[string]any{"ID": int64(5)}},
		{predicate: "(true)", want: map[string]any{"ID": true}},
		{predicate: "(null)", want: map[string]any{"ID": nil}},
		{predicate: "(3.5)", want: map[string]any{"ID": 3.5}},
		{predicate: "('5')", want: map[string]any{"ID": "5"}},
		{predicate: "('a,b')", want: map[string]any{"ID": "a,b"}},
		{predicate: "('a=b')", want: map[string]any{"ID": "a=b"}},
		{predicate: "(ID=5)", want: map[string]any{"ID": int64(5)}},
		{predicate: "(ID=2021-10-20)", want: map[string]any{"ID": "2021-10-20"}},
	}

	et := entityType(t, "ID")
	for _, tt := range tests {
		t.Run(tt.predicate, func(t *testing.T) {
			got, err := odata.ParseKeyPredicate(et, tt.predicate)
			gt.NoError(t, err).Required()
			gt.V(t, got).Equal(tt.want)
		})
	}
}

func TestParseKeyPredicateCompoundKey(t *testing.T) {
	et := entityType(t, "Prop1", "Prop2")

	got, err := odata.ParseKeyPredicate(et, "(Prop1=5,Prop2=false)")
	gt.NoError(t, err).Required()
	gt.V(t, got).Equal(map[string]any{"Prop1": int64(5), "Prop2": false})

	got, err = odata.ParseKeyPredicate(et, "(Prop2=5,Prop1=false)")
	gt.NoError(t, err).Required()
	gt.V(t, got).Equal(map[string]any{"Prop1": false, "Prop2": int64(5)})
}

func TestParseKeyPredicateErrors(t *testing.T) {
	tests := []struct {
		name      string
		predicate string
		compound  bool
		is        func(error) bool
	}{
		{name: "unknown key property", predicate: "(ID=5,Prop2=3)", is: isBadRequest},
		{name: "parameter alias", predicate: "(@Price)", is: isNotImplemented},
		{name: "simple key on compound key", predicate: "(5)", compound: true, is: isBadRequest},
		{name: "missing key properties", predicate: "(ID=5)", compound: true, is: isBadRequest},
		{name: "duplicated key property", predicate: "(ID=5,ID=6,Prop2=3)", compound: true, is: isBadRequest},
		{name: "parameter alias in compound key", predicate: "(ID=@Price,Prop2=3)", compound: true, is: isNotImplemented},
		{name: "empty predicate", predicate: "()", is: isBadRequest},
		{name: "missing parentheses", predicate: "5", is: isBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keys := []string{"ID"}
			if tt.compound {
				keys = append(keys, "Prop2")
			}
			_, err := odata.ParseKeyPredicate(entityType(t, keys...), tt.predicate)
			gt.Error(t, err)
			gt.True(t, tt.is(err))
		})
	}

	t.Run("message", func(t *testing.T) {
		_, err := odata.ParseKeyPredicate(entityType(t, "ID", "Prop2"), "(5)")
		gt.Error(t, err)
		gt.S(t, err.Error()).Contains("Product uses a compound key")
	})
}
