package usecase_test

import (
	"testing"
	"time"

	"github.com/fiware/odataserver/pkg/domain/model"
	"github.com/fiware/odataserver/pkg/domain/odata"
	"github.com/fiware/odataserver/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"go.mongodb.org/mongo-driver/bson"
)

func TestTranslateFilter(t *testing.T) {
	products := entitySet(t, loadDemo(t), "Products")

	tests := []struct {
		filter   string
		expected bson.M
	}{
		{"ID eq '4'", bson.M{"ID": bson.M{"$eq": "4"}}},
		{"ID lt 2021-11-29", bson.M{"ID": bson.M{"$lt": time.Date(2021, 11, 29, 0, 0, 0, 0, time.UTC)}}},
		{"ID le 10", bson.M{"ID": bson.M{"$lte": int64(10)}}},
		{"ID gt 10", bson.M{"ID": bson.M{"$gt": int64(10)}}},
		{"ID ge 10", bson.M{"ID": bson.M{"$gte": int64(10)}}},
		{"ID ne 3.4", bson.M{"ID": bson.M{"$ne": 3.4}}},
		{"ID eq '''a''b'", bson.M{"ID": bson.M{"$eq": "'a'b"}}},
		{"ID in ('a', 'b')", bson.M{"ID": bson.M{"$in": bson.A{"a", "b"}}}},
		{
			"ID in ('a', 'b') and client_bar_code eq null",
			bson.M{
				"ID":              bson.M{"$in": bson.A{"a", "b"}},
				"client_bar_code": bson.M{"$eq": nil},
			},
		},
		{"contains(ID, '001522abc%5Bs%5B')", bson.M{"ID": bson.M{"$regex": `001522abc\[s\[`}}},
		{"contains(ID, '001522abc%5Bs%5B') eq true", bson.M{"ID": bson.M{"$regex": `001522abc\[s\[`}}},
		{
			"contains(ID, '001522abc%5Bs%5B') eq false",
			bson.M{"ID": bson.M{"$not": bson.M{"$regex": `001522abc\[s\[`}}},
		},
		{
			"contains(ID, '001522abc%5Bs%5B') or B eq '3'",
			bson.M{"$or": bson.A{
				bson.M{"ID": bson.M{"$regex": `001522abc\[s\[`}},
				bson.M{"B": bson.M{"$eq": "3"}},
			}},
		},
		{
			"B eq null and startswith(ID, '001522abc%5Bs%5B')",
			bson.M{
				"ID": bson.M{"$regex": `^001522abc\[s\[`},
				"B":  bson.M{"$eq": nil},
			},
		},
		{
			"client_bar_code eq null and client_references eq []",
			bson.M{
				"client_bar_code":   bson.M{"$eq": nil},
				"client_references": bson.M{"$eq": bson.A{}},
			},
		},
		{
			"(B eq null or endswith(ID, '001522abc%5Bs%5B'))",
			bson.M{"$or": bson.A{
				bson.M{"B": bson.M{"$eq": nil}},
				bson.M{"ID": bson.M{"$regex": `001522abc\[s\[$`}},
			}},
		},
		{
			"client_bar_code eq null or is_nulled eq true or category in (1, 2)",
			bson.M{"$or": bson.A{
				bson.M{"client_bar_code": bson.M{"$eq": nil}},
				bson.M{"is_nulled": bson.M{"$eq": true}},
				bson.M{"category": bson.M{"$in": bson.A{int64(1), int64(2)}}},
			}},
		},
		{
			"client_bar_code eq null or is_nulled eq true and category in (1, 2) or D eq 1",
			bson.M{"$or": bson.A{
				bson.M{"client_bar_code": bson.M{"$eq": nil}},
				bson.M{
					"is_nulled": bson.M{"$eq": true},
					"category":  bson.M{"$in": bson.A{int64(1), int64(2)}},
				},
				bson.M{"D": bson.M{"$eq": int64(1)}},
			}},
		},
		{
			"(client_bar_code eq null or is_nulled eq true) and (category in (1, 2))",
			bson.M{
				"$or": bson.A{
					bson.M{"client_bar_code": bson.M{"$eq": nil}},
					bson.M{"is_nulled": bson.M{"$eq": true}},
				},
				"category": bson.M{"$in": bson.A{int64(1), int64(2)}},
			},
		},
		{
			"(A eq 1 or B gt 10 and is_nulled eq true) or (C in (1, 2) and D eq true)",
			bson.M{"$or": bson.A{
				bson.M{"A": bson.M{"$eq": int64(1)}},
				bson.M{"B": bson.M{"$gt": int64(10)}, "is_nulled": bson.M{"$eq": true}},
				bson.M{"C": bson.M{"$in": bson.A{int64(1), int64(2)}}, "D": bson.M{"$eq": true}},
			}},
		},
		{
			"(A eq 1 and B gt 10) and (C in (1, 2) and D eq true)",
			bson.M{
				"A": bson.M{"$eq": int64(1)},
				"B": bson.M{"$gt": int64(10)},
				"C": bson.M{"$in": bson.A{int64(1), int64(2)}},
				"D": bson.M{"$eq": true},
			},
		},
		{"not (Price gt 10)", bson.M{"$nor": bson.A{bson.M{"Price": bson.M{"$gt": int64(10)}}}}},
		{"Price ge 5 and Price lt 10", bson.M{"Price": bson.M{"$gte": int64(5), "$lt": int64(10)}}},
		{"Price gt 5 and Price gt 8.5", bson.M{"Price": bson.M{"$gt": 8.5}}},
		{"Price lt 5 and Price lt 8", bson.M{"Price": bson.M{"$lt": int64(5)}}},
		{
			"Name eq 'a' and Name eq 'b'",
			bson.M{"$and": bson.A{
				bson.M{"Name": bson.M{"$eq": "a"}},
				bson.M{"Name": bson.M{"$eq": "b"}},
			}},
		},
		{"Address/City eq 'Madrid'", bson.M{"Address.City": bson.M{"$eq": "Madrid"}}},
	}

	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			expr, err := odata.ParseFilter(tt.filter)
			gt.NoError(t, err).Required()

			filters, err := usecase.TranslateFilter(expr, products.Type(), "")
			gt.NoError(t, err).Required()
			gt.V(t, filters).Equal(tt.expected)
		})
	}
}

func TestTranslateFilterPrefix(t *testing.T) {
	photos := entitySet(t, loadDemo(t), "Photos")

	expr, err := odata.ParseFilter("ID eq 1 and Seq ge 2 and startswith(Url, 'http')")
	gt.NoError(t, err).Required()

	filters, err := usecase.TranslateFilter(expr, photos.Type(), "Photos")
	gt.NoError(t, err).Required()
	gt.V(t, filters).Equal(bson.M{
		"ID":         bson.M{"$eq": int64(1)},
		"Seq":        bson.M{"$gte": int64(2)},
		"Photos.Url": bson.M{"$regex": "^http"},
	})
}

func TestTranslateFilterEmpty(t *testing.T) {
	photos := entitySet(t, loadDemo(t), "Photos")

	filters, err := usecase.TranslateFilter(nil, photos.Type(), "")
	gt.NoError(t, err)
	gt.V(t, filters).Equal(bson.M{})
}

func TestMergeFiltersKeepsBaseConditions(t *testing.T) {
	base := bson.M{"uuid": bson.M{"$exists": true}}
	merged := usecase.MergeFilters(base, bson.M{"uuid": bson.M{"$eq": "a"}, "Name": bson.M{"$eq": "b"}})
	gt.V(t, merged).Equal(bson.M{
		"uuid": bson.M{"$exists": true, "$eq": "a"},
		"Name": bson.M{"$eq": "b"},
	})
	gt.V(t, base).Equal(bson.M{"uuid": bson.M{"$exists": true}})
}

func TestFilterErrorsAreTagged(t *testing.T) {
	_, err := odata.ParseFilter("Price add 5 gt 10")
	gt.True(t, goerr.HasTag(err, model.ErrTagNotImplemented))
}
