package usecase_test

import (
	"testing"

	"github.com/fiware/odataserver/pkg/domain/model"
	"github.com/fiware/odataserver/pkg/usecase"
	"github.com/m-mizutani/gt"
)

func TestCropResult(t *testing.T) {
	t.Run("no prefix", func(t *testing.T) {
		doc := model.Document{"ID": 1, "Name": "a"}
		gt.V(t, usecase.CropResult(doc, "")).Equal(model.Document{"ID": 1, "Name": "a"})
	})

	t.Run("hoists the sub document", func(t *testing.T) {
		doc := model.Document{
			"ID":   1,
			"uuid": "u",
			"Category": map[string]any{
				"Name": "Food",
			},
		}
		gt.V(t, usecase.CropResult(doc, "Category")).Equal(model.Document{
			"ID":   1,
			"uuid": "u",
			"Name": "Food",
		})
	})

	t.Run("nested prefix", func(t *testing.T) {
		doc := model.Document{
			"ID": 1,
			"Info": map[string]any{
				"Address": map[string]any{"City": "Madrid"},
				"Other":   true,
			},
		}
		gt.V(t, usecase.CropResult(doc, "Info.Address")).Equal(model.Document{
			"ID":   1,
			"City": "Madrid",
		})
	})

	t.Run("missing path", func(t *testing.T) {
		doc := model.Document{"ID": 1, "Info": "text"}
		gt.V(t, usecase.CropResult(doc, "Info.Address")).Equal(model.Document{"ID": 1})
	})
}

func TestAnnotate(t *testing.T) {
	x := loadDemo(t)

	t.Run("single key", func(t *testing.T) {
		doc := model.Document{"ID": int64(5), "Name": "Bread", "uuid": "abc"}
		usecase.Annotate(serviceRoot, doc, entitySet(t, x, "Products"))
		gt.V(t, doc).Equal(model.Document{
			"ID":          int64(5),
			"Name":        "Bread",
			"@odata.id":   "http://localhost/odata/Products(5)",
			"@odata.etag": `W/"abc"`,
		})
	})

	t.Run("compound key", func(t *testing.T) {
		doc := model.Document{"ID": int64(5), "Seq": int64(0), "Url": "http://example.com"}
		usecase.Annotate(serviceRoot, doc, entitySet(t, x, "Photos"))
		gt.Equal(t, doc["@odata.id"], any("http://localhost/odata/Photos(ID=5,Seq=0)"))
		_, ok := doc["@odata.etag"]
		gt.False(t, ok)
	})

	t.Run("string key and null uuid", func(t *testing.T) {
		doc := model.Document{"ID": "o'a", "uuid": nil}
		usecase.Annotate(serviceRoot, doc, entitySet(t, x, "Suppliers"))
		gt.V(t, doc).Equal(model.Document{
			"ID":        "o'a",
			"@odata.id": "http://localhost/odata/Suppliers('o''a')",
		})
	})

	t.Run("missing key", func(t *testing.T) {
		doc := model.Document{"Name": "Bread"}
		usecase.Annotate(serviceRoot, doc, entitySet(t, x, "Products"))
		gt.V(t, doc).Equal(model.Document{"Name": "Bread"})
	})
}
