package usecase_test

import (
	"testing"

	"github.com/fiware/odataserver/pkg/domain/edm"
	"github.com/fiware/odataserver/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

func isBadRequest(err error) bool { return goerr.HasTag(err, model.ErrTagBadRequest) }
func isNotFound(err error) bool   { return goerr.HasTag(err, model.ErrTagNotFound) }

const serviceRoot = "http://localhost/odata"

const demoModel = `{
	"DataServices": [{
		"Namespace": "Demo",
		"EntityTypes": [
			{
				"Name": "Product",
				"Key": [{"Name": "ID"}],
				"Properties": [
					{"Name": "ID", "Type": "Edm.Int32"},
					{"Name": "Name"},
					{"Name": "Price", "Type": "Edm.Double"}
				],
				"NavigationProperties": [
					{"Name": "Category", "Type": "Demo.Category", "Annotations": [{"Term": "ODataServer.Embedded"}]},
					{"Name": "Supplier", "Type": "Demo.Supplier"},
					{"Name": "Photos", "Type": "Collection(Demo.Photo)", "Annotations": [{"Term": "ODataServer.Embedded"}]}
				]
			},
			{
				"Name": "Category",
				"Key": [{"Name": "ID"}],
				"Properties": [
					{"Name": "ID", "Type": "Edm.Int32"},
					{"Name": "Name"}
				]
			},
			{
				"Name": "Supplier",
				"Key": [{"Name": "ID"}],
				"Properties": [
					{"Name": "ID", "Type": "Edm.Int32"},
					{"Name": "Name"}
				]
			},
			{
				"Name": "Photo",
				"Key": [{"Name": "ID"}, {"Name": "Seq"}],
				"Properties": [
					{"Name": "ID", "Type": "Edm.Int32"},
					{"Name": "Seq", "Type": "Edm.Int64"},
					{"Name": "Url"}
				]
			}
		],
		"EntityContainers": [{
			"Name": "DemoService",
			"EntitySets": [
				{
					"Name": "Products",
					"EntityType": "Demo.Product",
					"NavigationPropertyBindings": [
						{"Path": "Supplier", "Target": "Suppliers"},
						{"Path": "Photos", "Target": "Photos"}
					],
					"Annotations": [{"Term": "ODataServer.MongoCollection", "String": "products"}]
				},
				{"Name": "Suppliers", "EntityType": "Demo.Supplier"},
				{
					"Name": "Photos",
					"EntityType": "Demo.Photo",
					"IncludeInServiceDocument": false,
					"Annotations": [
						{"Term": "ODataServer.MongoCollection", "String": "products"},
						{"Term": "ODataServer.Prefix", "String": "Photos"}
					]
				}
			]
		}]
	}]
}`

func loadDemo(t *testing.T) *edm.Edmx {
	t.Helper()
	x, err := edm.Parse([]byte(demoModel), edm.FormatJSON)
	gt.NoError(t, err).Required()
	return x
}

func entitySet(t *testing.T, x *edm.Edmx, name string) *edm.EntitySet {
	t.Helper()
	set, ok := x.EntitySet(name)
	gt.True(t, ok)
	return set
}
