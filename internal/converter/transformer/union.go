package transformer

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// UnionRule rewrites PEP 604 annotation unions ("int | str") into
// typing.Union subscripts. The grammar is ambivalent about how it parses a
// "|" chain in a type position: a chain whose operands are type-only
// constructs becomes a union_type node, while a chain of plain names stays a
// binary_operator nested under a type node. Both shapes are matched; a "|"
// with no enclosing type node is an ordinary runtime expression and is never
// touched. Operand order is preserved exactly as written and operands are
// never deduplicated.
type UnionRule struct{}

func (UnionRule) Name() string { return "union" }

func (UnionRule) Scan(root *sitter.Node, src []byte, scopes *ScopeTable) ([]Rewrite, error) {
	var rewrites []Rewrite
	walkNamed(root, func(n *sitter.Node) bool {
		switch {
		case n.Type() == "union_type":
		case pipeOperator(n) && inTypeContext(n):
		default:
			return true
		}
		rewrites = append(rewrites, Rewrite{
			Start:       n.StartByte(),
			End:         n.EndByte(),
			Edits:       []Edit{{Start: n.StartByte(), End: n.EndByte(), Text: renderUnion(n, src)}},
			NeedsTyping: true,
		})
		return false // nested unions are rendered as part of this match
	})
	return rewrites, nil
}

// pipeOperator reports whether n is a "|" binary operator.
func pipeOperator(n *sitter.Node) bool {
	if n.Type() != "binary_operator" {
		return false
	}
	op := n.ChildByFieldName("operator")
	return op != nil && op.Type() == "|"
}

// inTypeContext reports whether n sits inside a type node: an annotation, a
// return type, a type alias value, a type-parameter bound or a subscript
// argument of a generic type. A lambda boundary ends the type context (its
// body is evaluated at runtime).
func inTypeContext(n *sitter.Node) bool {
	for cur := n.Parent(); cur != nil; cur = cur.Parent() {
		switch cur.Type() {
		case "type":
			return true
		case "lambda":
			return false
		}
	}
	return false
}

// renderUnion converts one "|" chain (and any unions nested in its operands)
// into a typing.Union subscript.
func renderUnion(u *sitter.Node, src []byte) string {
	ops := flattenUnion(u)
	parts := make([]string, len(ops))
	for i, op := range ops {
		parts[i] = renderWithNestedUnions(op, src)
	}
	return "typing.Union[" + strings.Join(parts, ", ") + "]"
}

// flattenUnion collects the operands of a left-associative "|" chain in
// source order, crossing between the two node shapes freely.
func flattenUnion(u *sitter.Node) []*sitter.Node {
	var ops []*sitter.Node
	add := func(c *sitter.Node) {
		if inner := asUnion(c); inner != nil {
			ops = append(ops, flattenUnion(inner)...)
		} else {
			ops = append(ops, c)
		}
	}
	if pipeOperator(u) {
		add(u.ChildByFieldName("left"))
		add(u.ChildByFieldName("right"))
		return ops
	}
	for i := 0; i < int(u.NamedChildCount()); i++ {
		c := u.NamedChild(i)
		if c.Type() == "comment" {
			continue
		}
		add(c)
	}
	return ops
}

func asUnion(n *sitter.Node) *sitter.Node {
	if n == nil {
		return nil
	}
	inner := unwrapType(n)
	if inner != nil && (inner.Type() == "union_type" || pipeOperator(inner)) {
		return inner
	}
	return nil
}

// renderWithNestedUnions returns n's source text with every "|" chain inside
// it (for example the element type of "list[int | str]") rewritten as well,
// so one match site leaves no residual union anywhere in its subtree.
func renderWithNestedUnions(n *sitter.Node, src []byte) string {
	if n.Type() == "union_type" || pipeOperator(n) {
		return renderUnion(n, src)
	}
	var nested []*sitter.Node
	walkNamed(n, func(c *sitter.Node) bool {
		if c.Type() == "lambda" {
			return false
		}
		if c != n && (c.Type() == "union_type" || pipeOperator(c)) {
			nested = append(nested, c)
			return false
		}
		return true
	})
	if len(nested) == 0 {
		return n.Content(src)
	}
	var sb strings.Builder
	pos := n.StartByte()
	for _, u := range nested {
		sb.Write(src[pos:u.StartByte()])
		sb.WriteString(renderUnion(u, src))
		pos = u.EndByte()
	}
	sb.Write(src[pos:n.EndByte()])
	return sb.String()
}
