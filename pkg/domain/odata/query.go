package odata

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/fiware/odataserver/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

var surroundingWhitespace = regexp.MustCompile(`(?:^(?:[ \t]|%20|%09)+|(?:[ \t]|%20|%09)+$)`)

// ParseQuery extracts the system query options from a raw query string.
// Leading and trailing whitespace, raw or percent encoded, is removed from
// every value.
func ParseQuery(rawQuery string) (*model.QueryOptions, error) {
	opts := &model.QueryOptions{}

	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		rawName, rawValue, _ := strings.Cut(pair, "=")

		name, err := url.QueryUnescape(rawName)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid query parameter name", goerr.V("name", rawName), goerr.T(model.ErrTagBadRequest))
		}
		value, err := url.QueryUnescape(surroundingWhitespace.ReplaceAllString(rawValue, ""))
		if err != nil {
			return nil, goerr.Wrap(err, "invalid query parameter value", goerr.V("name", name), goerr.T(model.ErrTagBadRequest))
		}

		switch name {
		case "$filter":
			opts.Filter = value
		case "$search":
			opts.Search = value
		case "$select":
			opts.Select = value
		case "$expand":
			opts.Expand = value
		case "$orderby":
			opts.OrderBy = value
		case "$format":
			opts.Format = value
		case "$top":
			top, err := parseNonNegative(name, value)
			if err != nil {
				return nil, err
			}
			opts.Top = &top
		case "$skip":
			skip, err := parseNonNegative(name, value)
			if err != nil {
				return nil, err
			}
			opts.Skip = skip
		case "$count":
			switch strings.ToLower(value) {
			case "true":
				opts.Count = true
			case "false", "":
				opts.Count = false
			default:
				return nil, goerr.New("$count must be true or false", goerr.V("value", value), goerr.T(model.ErrTagBadRequest))
			}
		}
	}

	return opts, nil
}

func parseNonNegative(name, value string) (int64, error) {
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil || n < 0 {
		return 0, goerr.New(name+" must be a non-negative integer", goerr.V("value", value), goerr.T(model.ErrTagBadRequest))
	}
	return n, nil
}
