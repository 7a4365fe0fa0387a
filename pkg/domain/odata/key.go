package odata

import (
	"sort"
	"strings"

	"github.com/fiware/odataserver/pkg/domain/edm"
	"github.com/fiware/odataserver/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

// ParseKeyPredicate parses a key predicate such as (5), ('a'), (ID=5) or
// (A=1,B='x') into key property values
func ParseKeyPredicate(t *edm.EntityType, predicate string) (map[string]any, error) {
	if len(predicate) < 2 || predicate[0] != '(' || predicate[len(predicate)-1] != ')' {
		return nil, goerr.New("invalid key predicate", goerr.V("predicate", predicate), goerr.T(model.ErrTagBadRequest))
	}
	body := strings.TrimSpace(predicate[1 : len(predicate)-1])
	if body == "" {
		return nil, goerr.New("empty key predicate", goerr.T(model.ErrTagBadRequest))
	}

	keyProperties := t.KeyProperties()
	parts := splitTopLevel(body, ',')

	if len(parts) == 1 && !isKeyValuePair(parts[0]) {
		if len(keyProperties) != 1 {
			return nil, goerr.New(t.Name+" uses a compound key", goerr.T(model.ErrTagBadRequest))
		}
		value, err := parseKeyValue(parts[0])
		if err != nil {
			return nil, err
		}
		return map[string]any{keyProperties[0]: value}, nil
	}

	pending := map[string]struct{}{}
	for _, k := range keyProperties {
		pending[k] = struct{}{}
	}

	key := map[string]any{}
	for _, part := range parts {
		if !isKeyValuePair(part) {
			return nil, goerr.New("invalid key predicate", goerr.V("predicate", predicate), goerr.T(model.ErrTagBadRequest))
		}
		idx := strings.IndexByte(part, '=')
		name := strings.TrimSpace(part[:idx])

		if _, ok := pending[name]; !ok {
			if t.IsKey(name) {
				return nil, goerr.New("Duplicated key value for "+name, goerr.T(model.ErrTagBadRequest))
			}
			return nil, goerr.New(t.Name+" does not use "+name+" as key property", goerr.T(model.ErrTagBadRequest))
		}
		delete(pending, name)

		value, err := parseKeyValue(part[idx+1:])
		if err != nil {
			return nil, err
		}
		key[name] = value
	}

	if len(pending) > 0 {
		missing := make([]string, 0, len(pending))
		for name := range pending {
			missing = append(missing, name)
		}
		sort.Strings(missing)
		return nil, goerr.New("The following key properties are missing: "+strings.Join(missing, ", "),
			goerr.T(model.ErrTagBadRequest))
	}

	return key, nil
}

func isKeyValuePair(part string) bool {
	idx := strings.IndexByte(part, '=')
	return idx > 0 && isIdentifier(strings.TrimSpace(part[:idx]))
}

func parseKeyValue(text string) (any, error) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "@") {
		return nil, goerr.New("parameter aliases are not supported in key predicates", goerr.T(model.ErrTagNotImplemented))
	}
	value, err := ParsePrimitiveLiteral(text)
	if err != nil {
		return nil, err
	}
	if d, ok := value.(Date); ok {
		return string(d), nil
	}
	return value, nil
}

// FormatKeyPredicate renders key values in key property order, without
// the surrounding parentheses
func FormatKeyPredicate(keyProperties []string, values map[string]any) string {
	if len(keyProperties) == 1 {
		return FormatLiteral(values[keyProperties[0]])
	}
	parts := make([]string, 0, len(keyProperties))
	for _, k := range keyProperties {
		parts = append(parts, k+"="+FormatLiteral(values[k]))
	}
	return strings.Join(parts, ",")
}
