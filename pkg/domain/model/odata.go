package model

import "go.mongodb.org/mongo-driver/bson"

// Document is a MongoDB document or OData payload decoded into plain Go values
type Document = map[string]any

// FindOptions controls a find operation on the document store
type FindOptions struct {
	Projection bson.M
	Sort       bson.D
	Skip       int64
	Limit      int64
}

// QueryOptions holds the OData system query options of a request
type QueryOptions struct {
	Filter  string
	Search  string
	Select  string
	Expand  string
	OrderBy string
	Top     *int64
	Skip    int64
	Count   bool
	Format  string
}

// Prefer holds the preferences sent through the Prefer request header
type Prefer struct {
	MaxPageSize int
	// Requested is true when the client asked for odata.maxpagesize
	Requested bool
	Return    string
}

// ResourceRequest is a read request addressed to the OData service
type ResourceRequest struct {
	// ServiceRoot is the absolute URL of the service root, without trailing slash
	ServiceRoot string
	// Path is the escaped resource path relative to the service root, e.g. Products(5)/Category
	Path   string
	Query  QueryOptions
	Prefer Prefer
}

// ResourceKind tells how a resource result has to be rendered
type ResourceKind int

const (
	ResourceCollection ResourceKind = iota
	ResourceEntity
	ResourceProperty
	ResourceValue
	ResourceCount
)

// ResourceResult is the outcome of a resource request
type ResourceResult struct {
	Kind ResourceKind
	// Body is a Document for JSON resources, the raw value for ResourceValue
	// and an int64 for ResourceCount
	Body any
	// ETag is the document uuid of single entities, empty otherwise
	ETag string
	// PageSize is the server driven page size applied from odata.maxpagesize,
	// 0 when the client used $top or sent no page size preference
	PageSize int
	// NextSkip is set when more results are available
	NextSkip *int64
}
