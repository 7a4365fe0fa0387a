package odata_test

import (
	"math"
	"testing"
	"time"

	"github.com/fiware/odataserver/pkg/domain/model"
	"github.com/fiware/odataserver/pkg/domain/odata"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

func TestParsePrimitiveLiteral(t *testing.T) {
	tests := []struct {
		literal string
		want    any
	}{
		{literal: "-5", want: int64(-5)},
		{literal: "5", want: int64(5)},
		{literal: "5e-3", want: 5e-3},
		{literal: "3.4", want: 3.4},
		{literal: "INF", want: math.Inf(1)},
		{literal: "-INF", want: math.Inf(-1)},
		{literal: "true", want: true},
		{literal: "false", want: false},
		{literal: "null", want: nil},
		{literal: "'hello'", want: "hello"},
		{literal: "'it''s'", want: "it's"},
		{literal: "'%5B%5D'", want: "[]"},
		{literal: "'100%'", want: "100%"},
		{literal: "2021-10-20T10:00:00.000Z", want: time.Date(2021, 10, 20, 10, 0, 0, 0, time.UTC)},
		{literal: "2021-10-20", want: odata.Date("2021-10-20")},
		{literal: "01234567-89AB-CDEF-0123-456789abcdef", want: "01234567-89ab-cdef-0123-456789abcdef"},
	}

	for _, tt := range tests {
		t.Run(tt.literal, func(t *testing.T) {
			got, err := odata.ParsePrimitiveLiteral(tt.literal)
			gt.NoError(t, err).Required()
			if want, ok := tt.want.(time.Time); ok {
				gotTime, ok := got.(time.Time)
				gt.True(t, ok)
				gt.True(t, want.Equal(gotTime))
				return
			}
			gt.V(t, got).Equal(tt.want)
		})
	}

	t.Run("NaN", func(t *testing.T) {
		got, err := odata.ParsePrimitiveLiteral("NaN")
		gt.NoError(t, err).Required()
		f, ok := got.(float64)
		gt.True(t, ok)
		gt.True(t, math.IsNaN(f))
	})
}

func TestParsePrimitiveLiteralNotSupported(t *testing.T) {
	for _, literal := range []string{
		"duration'P12DT23H59M59.999999999999S'",
		"12:30:00",
		"binary'T0RhdGE'",
		"Sales.Pattern'Yellow'",
		"geography'SRID=0;Point(142.1 64.1)'",
		"geometry'SRID=0;Polygon((1 1,1 1),(1 1,2 2,3 3,1 1))'",
	} {
		t.Run(literal, func(t *testing.T) {
			_, err := odata.ParsePrimitiveLiteral(literal)
			gt.Error(t, err)
			gt.True(t, goerr.HasTag(err, model.ErrTagNotImplemented))
		})
	}
}

func TestParsePrimitiveLiteralInvalid(t *testing.T) {
	for _, literal := range []string{"abc", "'unbalanced''", "'a'b'", "2021-13-45", "2021-10-20T99:00:00Z"} {
		t.Run(literal, func(t *testing.T) {
			_, err := odata.ParsePrimitiveLiteral(literal)
			gt.Error(t, err)
			gt.True(t, goerr.HasTag(err, model.ErrTagBadRequest))
		})
	}
}

func TestFormatLiteral(t *testing.T) {
	tests := []struct {
		value any
		want  string
	}{
		{value: true, want: "true"},
		{value: false, want: "false"},
		{value: int64(5), want: "5"},
		{value: 5, want: "5"},
		{value: 3.5, want: "3.5"},
		{value: "a", want: "'a'"},
		{value: "it's", want: "'it''s'"},
		{value: nil, want: "null"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			gt.Equal(t, odata.FormatLiteral(tt.value), tt.want)
		})
	}
}

func TestFormatKeyPredicate(t *testing.T) {
	gt.Equal(t, odata.FormatKeyPredicate([]string{"id"}, map[string]any{"id": int64(5)}), "5")
	gt.Equal(t,
		odata.FormatKeyPredicate(
			[]string{"type", "seq", "odd"},
			map[string]any{"type": "a", "seq": int64(1), "odd": true},
		),
		"type='a',seq=1,odd=true",
	)
}
