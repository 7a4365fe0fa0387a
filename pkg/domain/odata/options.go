package odata

import (
	"strings"

	"github.com/fiware/odataserver/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

// OrderByItem is a single $orderby clause
type OrderByItem struct {
	Property   string
	Descending bool
}

// ParseOrderBy parses a $orderby value such as "Rating desc,BaseRate"
func ParseOrderBy(text string) ([]OrderByItem, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	var items []OrderByItem
	for _, part := range splitTopLevel(text, ',') {
		if strings.Contains(part, "(") {
			return nil, goerr.New("functions are not supported in $orderby", goerr.V("item", part), goerr.T(model.ErrTagNotImplemented))
		}
		fields := strings.Fields(part)
		if len(fields) == 0 || len(fields) > 2 || !isMemberPath(fields[0]) {
			return nil, goerr.New("invalid $orderby item", goerr.V("item", part), goerr.T(model.ErrTagBadRequest))
		}

		item := OrderByItem{Property: fields[0]}
		if len(fields) == 2 {
			switch strings.ToLower(fields[1]) {
			case "asc":
			case "desc":
				item.Descending = true
			default:
				return nil, goerr.New("invalid $orderby direction", goerr.V("item", part), goerr.T(model.ErrTagBadRequest))
			}
		}
		items = append(items, item)
	}
	return items, nil
}

// ParseSelect parses a $select value. nil means every structural property.
func ParseSelect(text string) ([]string, error) {
	text = strings.TrimSpace(text)
	if text == "" || text == "*" {
		return nil, nil
	}

	var selected []string
	for _, part := range strings.Split(text, ",") {
		part = strings.TrimSpace(part)
		switch {
		case part == "*":
			return nil, nil
		case isMemberPath(part):
			selected = append(selected, part)
		case strings.ContainsAny(part, "($@"):
			return nil, goerr.New("unsupported $select item", goerr.V("item", part), goerr.T(model.ErrTagNotImplemented))
		default:
			return nil, goerr.New("invalid $select item", goerr.V("item", part), goerr.T(model.ErrTagBadRequest))
		}
	}
	return selected, nil
}

// ExpandAll is the ExpandItem property expanding every navigation property
const ExpandAll = "*"

// ExpandItem is a navigation property to expand, with its nested $expand
type ExpandItem struct {
	Property string
	Expand   []ExpandItem
}

// ParseExpand parses a $expand value. Only nested $expand options are supported.
func ParseExpand(text string) ([]ExpandItem, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	var items []ExpandItem
	for _, part := range splitTopLevel(text, ',') {
		part = strings.TrimSpace(part)

		name, options := part, ""
		if idx := strings.IndexByte(part, '('); idx >= 0 {
			if matchingParen(part, idx) != len(part)-1 {
				return nil, goerr.New("invalid $expand item", goerr.V("item", part), goerr.T(model.ErrTagBadRequest))
			}
			name, options = strings.TrimSpace(part[:idx]), part[idx+1:len(part)-1]
		}

		switch {
		case name == ExpandAll, isIdentifier(name):
		case strings.Contains(name, "/"):
			return nil, goerr.New("unsupported $expand path", goerr.V("item", name), goerr.T(model.ErrTagNotImplemented))
		default:
			return nil, goerr.New("invalid $expand item", goerr.V("item", part), goerr.T(model.ErrTagBadRequest))
		}

		item := ExpandItem{Property: name}
		if options != "" {
			nested, err := parseExpandOptions(options)
			if err != nil {
				return nil, err
			}
			item.Expand = nested
		}
		items = append(items, item)
	}
	return items, nil
}

func parseExpandOptions(options string) ([]ExpandItem, error) {
	var nested []ExpandItem
	for _, option := range splitTopLevel(options, ';') {
		option = strings.TrimSpace(option)
		name, value, ok := strings.Cut(option, "=")
		if !ok {
			return nil, goerr.New("invalid $expand option", goerr.V("option", option), goerr.T(model.ErrTagBadRequest))
		}
		if strings.TrimSpace(name) != "$expand" {
			return nil, goerr.New("unsupported $expand option", goerr.V("option", name), goerr.T(model.ErrTagNotImplemented))
		}
		items, err := ParseExpand(value)
		if err != nil {
			return nil, err
		}
		nested = append(nested, items...)
	}
	return nested, nil
}
