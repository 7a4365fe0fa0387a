package odata

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/fiware/odataserver/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

// Expr is a node of a $filter expression
type Expr interface {
	expr()
}

// Logical operators
const (
	OpAnd = "and"
	OpOr  = "or"
)

// Comparison operators
const (
	OpEq = "eq"
	OpNe = "ne"
	OpLt = "lt"
	OpLe = "le"
	OpGt = "gt"
	OpGe = "ge"
	OpIn = "in"
)

// String methods usable as boolean expressions
const (
	MethodContains   = "contains"
	MethodStartsWith = "startswith"
	MethodEndsWith   = "endswith"
)

// LogicalExpr joins two expressions with and/or
type LogicalExpr struct {
	Op    string
	Left  Expr
	Right Expr
}

// NotExpr negates an expression
type NotExpr struct {
	Operand Expr
}

// CompareExpr compares a property with a literal. Value is a []any for in.
type CompareExpr struct {
	Property string
	Op       string
	Value    any
}

// MethodExpr is contains/startswith/endswith over a property and a string
type MethodExpr struct {
	Method   string
	Property string
	Argument string
	Negated  bool
}

func (*LogicalExpr) expr() {}
func (*NotExpr) expr()     {}
func (*CompareExpr) expr() {}
func (*MethodExpr) expr()  {}

var comparisonOps = map[string]struct{}{
	OpEq: {}, OpNe: {}, OpLt: {}, OpLe: {}, OpGt: {}, OpGe: {}, OpIn: {},
}

var unsupportedOps = map[string]struct{}{
	"has": {}, "add": {}, "sub": {}, "mul": {}, "div": {}, "divby": {}, "mod": {},
}

var literalWords = map[string]struct{}{
	"null": {}, "true": {}, "false": {}, "INF": {}, "NaN": {},
}

// ParseFilter parses a $filter expression. An empty expression returns nil.
func ParseFilter(text string) (Expr, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	ast, err := filterParser.ParseString("$filter", text)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid $filter expression",
			goerr.V("filter", text),
			goerr.T(model.ErrTagBadRequest))
	}
	return ast.Or.expr()
}

func notImplemented(msg string, opts ...goerr.Option) error {
	return goerr.New(msg, append(opts, goerr.T(model.ErrTagNotImplemented))...)
}

func badRequest(msg string, opts ...goerr.Option) error {
	return goerr.New(msg, append(opts, goerr.T(model.ErrTagBadRequest))...)
}

func (n *orNode) expr() (Expr, error) {
	var left Expr
	for _, term := range n.And {
		right, err := term.expr()
		if err != nil {
			return nil, err
		}
		if left == nil {
			left = right
			continue
		}
		left = &LogicalExpr{Op: OpOr, Left: left, Right: right}
	}
	return left, nil
}

func (n *andNode) expr() (Expr, error) {
	var left Expr
	for _, term := range n.Unary {
		right, err := term.expr()
		if err != nil {
			return nil, err
		}
		if left == nil {
			left = right
			continue
		}
		left = &LogicalExpr{Op: OpAnd, Left: left, Right: right}
	}
	return left, nil
}

func (n *unaryNode) expr() (Expr, error) {
	if n.Not != nil {
		operand, err := n.Not.expr()
		if err != nil {
			return nil, err
		}
		return &NotExpr{Operand: operand}, nil
	}
	return n.Compare.expr()
}

func (n *compareNode) expr() (Expr, error) {
	for _, tail := range n.Ops {
		if _, ok := unsupportedOps[tail.Op]; ok {
			return nil, notImplemented("operator not supported", goerr.V("operator", tail.Op))
		}
	}

	left := n.Left
	switch {
	case left.Group != nil:
		if len(n.Ops) > 0 {
			return nil, notImplemented("comparing boolean expressions is not supported")
		}
		if len(left.Group.Items) != 1 {
			return nil, badRequest("unexpected list in $filter expression")
		}
		return left.Group.Items[0].expr()

	case left.String != nil, left.JSON != nil:
		return nil, notImplemented("literals on the left side of a comparison are not supported")

	case left.Word.Call != nil:
		return n.method()
	}

	property := left.Word.Text
	if _, ok := literalWords[property]; ok || !isMemberPath(property) {
		if _, err := ParsePrimitiveLiteral(property); err == nil {
			return nil, notImplemented("literals on the left side of a comparison are not supported",
				goerr.V("token", property))
		}
		return nil, badRequest("unexpected token in $filter expression", goerr.V("token", property))
	}
	if len(n.Ops) != 1 {
		return nil, badRequest("expected a single comparison operator", goerr.V("property", property))
	}

	tail := n.Ops[0]
	if tail.Op == OpIn {
		values, err := tail.Right.list()
		if err != nil {
			return nil, err
		}
		return &CompareExpr{Property: property, Op: OpIn, Value: values}, nil
	}

	value, err := tail.Right.value()
	if err != nil {
		return nil, err
	}
	return &CompareExpr{Property: property, Op: tail.Op, Value: value}, nil
}

// method converts contains/startswith/endswith, optionally compared with a
// boolean literal
func (n *compareNode) method() (Expr, error) {
	call := n.Left.Word
	if strings.Contains(call.Text, "/") {
		return nil, notImplemented("lambda operators are not supported", goerr.V("expression", call.Text))
	}
	method := strings.ToLower(call.Text)
	switch method {
	case MethodContains, MethodStartsWith, MethodEndsWith:
	default:
		return nil, notImplemented("function not supported", goerr.V("function", call.Text))
	}

	args := call.Call.Args
	if len(args) != 2 {
		return nil, badRequest("string methods take two arguments", goerr.V("function", call.Text))
	}
	property, err := args[0].member()
	if err != nil {
		return nil, err
	}
	argument, err := args[1].stringLiteral()
	if err != nil {
		return nil, err
	}
	expr := &MethodExpr{Method: method, Property: property, Argument: argument}

	switch len(n.Ops) {
	case 0:
		return expr, nil
	case 1:
	default:
		return nil, badRequest("expected a single comparison operator", goerr.V("function", call.Text))
	}

	tail := n.Ops[0]
	if tail.Op != OpEq && tail.Op != OpNe {
		return nil, notImplemented("string methods can only be compared with eq or ne")
	}
	right := tail.Right
	if right.Word == nil || right.Word.Call != nil || (right.Word.Text != "true" && right.Word.Text != "false") {
		return nil, notImplemented("string methods can only be compared with boolean literals")
	}
	expr.Negated = (tail.Op == OpEq) == (right.Word.Text == "false")
	return expr, nil
}

func (a *argNode) member() (string, error) {
	parts := a.Parts
	if len(parts) == 2 && parts[0].Token != nil && parts[1].Group != nil {
		return "", notImplemented("nested function calls are not supported")
	}
	if len(parts) != 1 || parts[0].Token == nil || !isMemberPath(*parts[0].Token) {
		return "", badRequest("string methods require a property as first argument")
	}
	return *parts[0].Token, nil
}

func (a *argNode) stringLiteral() (string, error) {
	parts := a.Parts
	if len(parts) != 1 || parts[0].Token == nil {
		return "", badRequest("string methods require a string literal as second argument")
	}
	token := *parts[0].Token
	if !strings.HasPrefix(token, "'") {
		return "", notImplemented("only string literals are supported as method arguments", goerr.V("token", token))
	}
	return parseString(token)
}

func (o *operandNode) value() (any, error) {
	switch {
	case o.String != nil:
		return ParsePrimitiveLiteral(*o.String)
	case o.JSON != nil:
		return parseJSONValue(o.JSON.text())
	case o.Group != nil:
		return nil, notImplemented("expressions are not supported as comparison values")
	}

	text := o.Word.Text
	if _, ok := literalWords[text]; !ok && isMemberPath(text) {
		return nil, notImplemented("comparing properties is not supported", goerr.V("token", text))
	}
	if o.Word.Call != nil {
		return nil, notImplemented("functions are not supported as comparison values", goerr.V("token", text))
	}
	return ParsePrimitiveLiteral(text)
}

func (o *operandNode) list() ([]any, error) {
	if o.JSON != nil {
		value, err := parseJSONValue(o.JSON.text())
		if err != nil {
			return nil, err
		}
		list, ok := value.([]any)
		if !ok {
			return nil, badRequest("in operator requires a list")
		}
		return list, nil
	}
	if o.Group == nil {
		return nil, badRequest("in operator requires a list")
	}

	values := []any{}
	for _, item := range o.Group.Items {
		operand := item.bare()
		if operand == nil {
			return nil, notImplemented("expressions are not supported as comparison values")
		}
		value, err := operand.value()
		if err != nil {
			return nil, err
		}
		values = append(values, value)
	}
	return values, nil
}

func parseJSONValue(text string) (any, error) {
	decoder := json.NewDecoder(bytes.NewReader([]byte(text)))
	decoder.UseNumber()
	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, goerr.Wrap(err, "invalid JSON value", goerr.V("value", text), goerr.T(model.ErrTagBadRequest))
	}
	return normalizeJSONNumbers(value), nil
}

func normalizeJSONNumbers(value any) any {
	switch v := value.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i
		}
		f, _ := v.Float64()
		return f
	case []any:
		for i := range v {
			v[i] = normalizeJSONNumbers(v[i])
		}
	case map[string]any:
		for k := range v {
			v[k] = normalizeJSONNumbers(v[k])
		}
	}
	return value
}
