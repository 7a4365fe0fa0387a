package odata

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// filterLexer splits $filter expressions. Words keep embedded quoted parts
// so typed literals such as duration'P1D' stay a single token.
var filterLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
	{Name: "String", Pattern: `'(?:[^']|'')*'`},
	{Name: "JSONString", Pattern: `"(?:[^"\\]|\\.)*"`},
	{Name: "Keyword", Pattern: `(?:and|or|not)\b`},
	{Name: "Operator", Pattern: `(?:eq|ne|lt|le|gt|ge|in|has|add|sub|mul|divby|div|mod)\b`},
	{Name: "Word", Pattern: `[^\s(),'\[\]{}":](?:[^\s(),'\[\]{}"']|'(?:[^']|'')*')*`},
	{Name: "Punct", Pattern: `[()\[\]{},:]`},
})

var filterParser = participle.MustBuild[filterAST](
	participle.Lexer(filterLexer),
	participle.Elide("Whitespace"),
	participle.UseLookahead(2),
)

// The grammar accepts a superset of the supported expressions, unsupported
// constructs are rejected while converting to Expr.

type filterAST struct {
	Or *orNode `parser:"@@"`
}

type orNode struct {
	And []*andNode `parser:"@@ ( 'or' @@ )*"`
}

type andNode struct {
	Unary []*unaryNode `parser:"@@ ( 'and' @@ )*"`
}

type unaryNode struct {
	Not     *unaryNode   `parser:"  'not' @@"`
	Compare *compareNode `parser:"| @@"`
}

type compareNode struct {
	Left *operandNode `parser:"@@"`
	Ops  []*opTail    `parser:"@@*"`
}

type opTail struct {
	Op    string       `parser:"@Operator"`
	Right *operandNode `parser:"@@"`
}

type operandNode struct {
	Group  *groupNode `parser:"  @@"`
	JSON   *jsonNode  `parser:"| @@"`
	String *string    `parser:"| @String"`
	Word   *wordNode  `parser:"| @@"`
}

// groupNode is a parenthesized expression or an in list
type groupNode struct {
	Items []*orNode `parser:"'(' @@ ( ',' @@ )* ')'"`
}

// wordNode is a member path, a literal or a function call
type wordNode struct {
	Text string    `parser:"@Word"`
	Call *argsNode `parser:"@@?"`
}

type argsNode struct {
	Args []*argNode `parser:"'(' ( @@ ( ',' @@ )* )? ')'"`
}

// argNode keeps function arguments as raw parts, lambda bodies included
type argNode struct {
	Parts []*argPart `parser:"@@+"`
}

type argPart struct {
	Group *argsNode `parser:"  @@"`
	JSON  *jsonNode `parser:"| @@"`
	Token *string   `parser:"| @( Word | String | Operator | Keyword | ':' )"`
}

type jsonNode struct {
	Open  string      `parser:"@( '[' | '{' )"`
	Items []*jsonItem `parser:"( @@ ( ',' @@ )* )?"`
	Close string      `parser:"@( ']' | '}' )"`
}

// jsonItem is an array element or, with Member, an object member
type jsonItem struct {
	Value  *jsonValue `parser:"@@"`
	Member *jsonValue `parser:"( ':' @@ )?"`
}

type jsonValue struct {
	Node   *jsonNode `parser:"  @@"`
	Scalar *string   `parser:"| @( JSONString | Word )"`
}

// text renders the JSON value back to a compact document
func (n *jsonNode) text() string {
	var b strings.Builder
	n.write(&b)
	return b.String()
}

func (n *jsonNode) write(b *strings.Builder) {
	b.WriteString(n.Open)
	for i, item := range n.Items {
		if i > 0 {
			b.WriteByte(',')
		}
		item.Value.write(b)
		if item.Member != nil {
			b.WriteByte(':')
			item.Member.write(b)
		}
	}
	b.WriteString(n.Close)
}

func (v *jsonValue) write(b *strings.Builder) {
	if v.Node != nil {
		v.Node.write(b)
		return
	}
	b.WriteString(*v.Scalar)
}

// bare returns the single operand of an expression without operators
func (n *orNode) bare() *operandNode {
	if len(n.And) != 1 || len(n.And[0].Unary) != 1 {
		return nil
	}
	u := n.And[0].Unary[0]
	if u.Compare == nil || len(u.Compare.Ops) > 0 {
		return nil
	}
	return u.Compare.Left
}
