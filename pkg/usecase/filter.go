package usecase

import (
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/fiware/odataserver/pkg/domain/edm"
	"github.com/fiware/odataserver/pkg/domain/model"
	"github.com/fiware/odataserver/pkg/domain/odata"
	"github.com/m-mizutani/goerr/v2"
	"go.mongodb.org/mongo-driver/bson"
)

var compareOperators = map[string]string{
	odata.OpEq: "$eq",
	odata.OpNe: "$ne",
	odata.OpLt: "$lt",
	odata.OpLe: "$lte",
	odata.OpGt: "$gt",
	odata.OpGe: "$gte",
	odata.OpIn: "$in",
}

// TranslateFilter converts a $filter expression into a MongoDB query on
// entities of t stored under prefix
func TranslateFilter(expr odata.Expr, t *edm.EntityType, prefix string) (bson.M, error) {
	if expr == nil {
		return bson.M{}, nil
	}

	switch e := expr.(type) {
	case *odata.LogicalExpr:
		left, err := TranslateFilter(e.Left, t, prefix)
		if err != nil {
			return nil, err
		}
		right, err := TranslateFilter(e.Right, t, prefix)
		if err != nil {
			return nil, err
		}
		if e.Op == odata.OpOr {
			return bson.M{"$or": append(orBranches(left), orBranches(right)...)}, nil
		}
		return mergeFilters(left, right), nil

	case *odata.NotExpr:
		operand, err := TranslateFilter(e.Operand, t, prefix)
		if err != nil {
			return nil, err
		}
		return bson.M{"$nor": bson.A{operand}}, nil

	case *odata.CompareExpr:
		op, ok := compareOperators[e.Op]
		if !ok {
			return nil, goerr.New("operator not supported", goerr.V("operator", e.Op), goerr.T(model.ErrTagNotImplemented))
		}
		return bson.M{fieldName(t, prefix, e.Property): bson.M{op: mongoValue(e.Value)}}, nil

	case *odata.MethodExpr:
		pattern := regexp.QuoteMeta(e.Argument)
		switch e.Method {
		case odata.MethodStartsWith:
			pattern = "^" + pattern
		case odata.MethodEndsWith:
			pattern += "$"
		}
		condition := bson.M{"$regex": pattern}
		if e.Negated {
			condition = bson.M{"$not": condition}
		}
		return bson.M{fieldName(t, prefix, e.Property): condition}, nil
	}

	return nil, goerr.New("unsupported filter expression", goerr.T(model.ErrTagNotImplemented))
}

func orBranches(filter bson.M) bson.A {
	if branches, ok := filter["$or"].(bson.A); ok && len(filter) == 1 {
		return branches
	}
	return bson.A{filter}
}

// mergeFilters joins two queries with a logical and. Conditions on the same
// field are combined, keeping the most restrictive bound for range
// operators. Conflicts that cannot be combined fall back to $and.
func mergeFilters(a, b bson.M) bson.M {
	out := bson.M{}
	for k, v := range a {
		out[k] = v
	}

	for k, v := range b {
		existing, ok := out[k]
		if !ok {
			out[k] = v
			continue
		}
		merged, ok := mergeConditions(existing, v)
		if !ok {
			return bson.M{"$and": append(andBranches(a), andBranches(b)...)}
		}
		out[k] = merged
	}
	return out
}

func andBranches(filter bson.M) bson.A {
	if branches, ok := filter["$and"].(bson.A); ok && len(filter) == 1 {
		return branches
	}
	return bson.A{filter}
}

func mergeConditions(a, b any) (any, bool) {
	x, ok := a.(bson.M)
	if !ok {
		return nil, false
	}
	y, ok := b.(bson.M)
	if !ok {
		return nil, false
	}

	out := bson.M{}
	for op, v := range x {
		if !strings.HasPrefix(op, "$") {
			return nil, false
		}
		out[op] = v
	}
	for op, v := range y {
		if !strings.HasPrefix(op, "$") {
			return nil, false
		}
		current, exists := out[op]
		if !exists {
			out[op] = v
			continue
		}
		if reflect.DeepEqual(current, v) {
			continue
		}

		cmp, comparable := compareValues(v, current)
		if !comparable {
			return nil, false
		}
		switch op {
		case "$gt", "$gte":
			if cmp > 0 {
				out[op] = v
			}
		case "$lt", "$lte":
			if cmp < 0 {
				out[op] = v
			}
		default:
			return nil, false
		}
	}
	return out, true
}

func compareValues(a, b any) (int, bool) {
	if x, ok := toFloat(a); ok {
		y, ok := toFloat(b)
		if !ok {
			return 0, false
		}
		switch {
		case x < y:
			return -1, true
		case x > y:
			return 1, true
		}
		return 0, true
	}

	switch x := a.(type) {
	case string:
		y, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(x, y), true
	case time.Time:
		y, ok := b.(time.Time)
		if !ok {
			return 0, false
		}
		return x.Compare(y), true
	}
	return 0, false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// mongoValue converts parsed literals into values MongoDB compares as expected
func mongoValue(v any) any {
	switch value := v.(type) {
	case odata.Date:
		return value.Time()
	case []any:
		out := make(bson.A, 0, len(value))
		for _, item := range value {
			out = append(out, mongoValue(item))
		}
		return out
	case map[string]any:
		out := bson.M{}
		for k, item := range value {
			out[k] = mongoValue(item)
		}
		return out
	}
	return v
}
