package transformer

import (
	sitter "github.com/smacker/go-tree-sitter"
)

func nodeLine(n *sitter.Node) int {
	return int(n.StartPoint().Row) + 1
}

func nodeCol(n *sitter.Node) int {
	return int(n.StartPoint().Column)
}

// walkNamed visits n and its named descendants in preorder. Returning false
// from fn skips the node's subtree.
func walkNamed(n *sitter.Node, fn func(*sitter.Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		walkNamed(n.NamedChild(i), fn)
	}
}

// lineStart returns the byte offset of the first character of n's line.
func lineStart(src []byte, n *sitter.Node) uint32 {
	at := n.StartByte()
	for at > 0 && src[at-1] != '\n' {
		at--
	}
	return at
}

// lineIndent returns the leading whitespace of n's line.
func lineIndent(src []byte, n *sitter.Node) string {
	start := lineStart(src, n)
	end := start
	for end < uint32(len(src)) && (src[end] == ' ' || src[end] == '\t') {
		end++
	}
	return string(src[start:end])
}

// onOwnLine reports whether only whitespace precedes n on its line. Hoisting
// a statement in front of n is only safe when this holds.
func onOwnLine(src []byte, n *sitter.Node) bool {
	for at := lineStart(src, n); at < n.StartByte(); at++ {
		if src[at] != ' ' && src[at] != '\t' {
			return false
		}
	}
	return true
}

// enclosingStatement returns the closest ancestor of n (or n itself) that is
// a direct child of a block or of the module.
func enclosingStatement(n *sitter.Node) *sitter.Node {
	for cur := n; cur != nil; cur = cur.Parent() {
		p := cur.Parent()
		if p == nil {
			return cur
		}
		if p.Type() == "block" || p.Type() == "module" {
			return cur
		}
	}
	return nil
}

// unwrapType peels the grammar's "type" wrapper node, returning the inner
// node (or n itself when it is not a wrapper).
func unwrapType(n *sitter.Node) *sitter.Node {
	if n != nil && n.Type() == "type" && n.NamedChildCount() == 1 {
		return n.NamedChild(0)
	}
	return n
}

// within reports whether n lies inside container's byte range.
func within(n, container *sitter.Node) bool {
	return n.StartByte() >= container.StartByte() && n.EndByte() <= container.EndByte()
}
