package odata

import (
	"net/url"
	"strings"

	"github.com/fiware/odataserver/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

// ResourcePath is a parsed resource path relative to the service root
type ResourcePath struct {
	EntitySet string
	// Key is the key predicate including the parentheses, empty for collections
	Key string
	// Property is a navigation or structural property of the addressed entity
	Property string
	Count    bool
	Value    bool
}

// encodedDelims restores percent-encoded key predicate delimiters. Key
// literals are percent-decoded later, so other escapes are kept as is.
var encodedDelims = strings.NewReplacer("%28", "(", "%29", ")", "%27", "'")

// ParseResourcePath parses paths such as Products, Products/$count,
// Products(5), Products(5)/Category/$count or Products(5)/Name/$value
func ParseResourcePath(path string) (*ResourcePath, error) {
	path = encodedDelims.Replace(strings.TrimPrefix(path, "/"))
	notFound := func() error {
		return goerr.New("resource not found", goerr.V("path", path), goerr.T(model.ErrTagNotFound))
	}

	end := strings.IndexAny(path, "(/")
	if end < 0 {
		end = len(path)
	}
	name, err := url.PathUnescape(path[:end])
	if err != nil || !isIdentifier(name) {
		return nil, notFound()
	}

	rp := &ResourcePath{EntitySet: name}
	rest := path[end:]

	if strings.HasPrefix(rest, "(") {
		closing := matchingParen(rest, 0)
		if closing < 0 {
			return nil, notFound()
		}
		rp.Key = rest[:closing+1]
		rest = rest[closing+1:]
	}

	rest = strings.TrimSuffix(rest, "/")
	if rest == "" {
		return rp, nil
	}
	if !strings.HasPrefix(rest, "/") {
		return nil, notFound()
	}

	segments := strings.Split(rest[1:], "/")
	if len(segments) > 2 {
		return nil, notFound()
	}

	for i, segment := range segments {
		switch segment {
		case "$count":
			rp.Count = true
		case "$value":
			rp.Value = true
		default:
			property, err := url.PathUnescape(segment)
			if i != 0 || err != nil || !isIdentifier(property) {
				return nil, notFound()
			}
			rp.Property = property
			continue
		}
		if i != len(segments)-1 {
			return nil, notFound()
		}
	}
	return rp, nil
}
