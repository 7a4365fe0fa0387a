package edm

import "strings"

// PrimitiveType is the qualified name of an EDM primitive type
type PrimitiveType string

const (
	Binary                   PrimitiveType = "Edm.Binary"
	Boolean                  PrimitiveType = "Edm.Boolean"
	Byte                     PrimitiveType = "Edm.Byte"
	Date                     PrimitiveType = "Edm.Date"
	DateTimeOffset           PrimitiveType = "Edm.DateTimeOffset"
	Decimal                  PrimitiveType = "Edm.Decimal"
	Double                   PrimitiveType = "Edm.Double"
	Duration                 PrimitiveType = "Edm.Duration"
	Guid                     PrimitiveType = "Edm.Guid"
	Int16                    PrimitiveType = "Edm.Int16"
	Int32                    PrimitiveType = "Edm.Int32"
	Int64                    PrimitiveType = "Edm.Int64"
	SByte                    PrimitiveType = "Edm.SByte"
	Single                   PrimitiveType = "Edm.Single"
	Stream                   PrimitiveType = "Edm.Stream"
	String                   PrimitiveType = "Edm.String"
	TimeOfDay                PrimitiveType = "Edm.TimeOfDay"
	Geography                PrimitiveType = "Edm.Geography"
	GeographyPoint           PrimitiveType = "Edm.GeographyPoint"
	GeographyLineString      PrimitiveType = "Edm.GeographyLineString"
	GeographyPolygon         PrimitiveType = "Edm.GeographyPolygon"
	GeographyMultiPoint      PrimitiveType = "Edm.GeographyMultiPoint"
	GeographyMultiLineString PrimitiveType = "Edm.GeographyMultiLineString"
	GeographyMultiPolygon    PrimitiveType = "Edm.GeographyMultiPolygon"
	GeographyCollection      PrimitiveType = "Edm.GeographyCollection"
	Geometry                 PrimitiveType = "Edm.Geometry"
	GeometryPoint            PrimitiveType = "Edm.GeometryPoint"
	GeometryLineString       PrimitiveType = "Edm.GeometryLineString"
	GeometryPolygon          PrimitiveType = "Edm.GeometryPolygon"
	GeometryMultiPoint       PrimitiveType = "Edm.GeometryMultiPoint"
	GeometryMultiLineString  PrimitiveType = "Edm.GeometryMultiLineString"
	GeometryMultiPolygon     PrimitiveType = "Edm.GeometryMultiPolygon"
	GeometryCollection       PrimitiveType = "Edm.GeometryCollection"
)

var primitiveTypes = map[PrimitiveType]struct{}{
	Binary: {}, Boolean: {}, Byte: {}, Date: {}, DateTimeOffset: {}, Decimal: {},
	Double: {}, Duration: {}, Guid: {}, Int16: {}, Int32: {}, Int64: {}, SByte: {},
	Single: {}, Stream: {}, String: {}, TimeOfDay: {},
	Geography: {}, GeographyPoint: {}, GeographyLineString: {}, GeographyPolygon: {},
	GeographyMultiPoint: {}, GeographyMultiLineString: {}, GeographyMultiPolygon: {},
	GeographyCollection: {},
	Geometry: {}, GeometryPoint: {}, GeometryLineString: {}, GeometryPolygon: {},
	GeometryMultiPoint: {}, GeometryMultiLineString: {}, GeometryMultiPolygon: {},
	GeometryCollection: {},
}

// IsPrimitive reports whether name is one of the Edm.* primitive types
func IsPrimitive(name string) bool {
	_, ok := primitiveTypes[PrimitiveType(name)]
	return ok
}

// SplitCollection strips a Collection(...) wrapper from a type reference
func SplitCollection(typeName string) (string, bool) {
	if strings.HasPrefix(typeName, "Collection(") && strings.HasSuffix(typeName, ")") {
		return typeName[len("Collection(") : len(typeName)-1], true
	}
	return typeName, false
}
