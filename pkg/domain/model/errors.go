package model

import "github.com/m-mizutani/goerr/v2"

// Error tags classify request failures into HTTP responses
var (
	ErrTagBadRequest        = goerr.NewTag("bad_request")
	ErrTagNotFound          = goerr.NewTag("not_found")
	ErrTagNotImplemented    = goerr.NewTag("not_implemented")
	ErrTagUnsupportedFormat = goerr.NewTag("unsupported_format")
)
