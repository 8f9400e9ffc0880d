package transformer

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// CompatModule is the module providing Union, TypeVar, Generic and TypeAlias
// on older runtimes.
const CompatModule = "typing"

// InjectCompatImport adds "import typing" to the source when the accumulated
// facts require it and no qualifying import exists. The import goes after the
// module docstring and any __future__ imports, before everything else, so
// existing imports keep their relative order. It is inserted at most once.
func InjectCompatImport(root *sitter.Node, src []byte, facts Facts) []byte {
	if !facts.NeedsTyping || hasCompatImport(root, src) {
		return src
	}
	stmt := "import " + CompatModule + "\n"
	at := importInsertOffset(root, src)
	out := make([]byte, 0, len(src)+len(stmt)+1)
	out = append(out, src[:at]...)
	if at == uint32(len(src)) && len(src) > 0 && src[len(src)-1] != '\n' {
		out = append(out, '\n')
	}
	out = append(out, stmt...)
	out = append(out, src[at:]...)
	return out
}

// hasCompatImport reports whether a top-level import already binds the bare
// module name. "import typing as t" binds a different name and does not
// count; neither does "from typing import X".
func hasCompatImport(root *sitter.Node, src []byte) bool {
	for i := 0; i < int(root.NamedChildCount()); i++ {
		stmt := root.NamedChild(i)
		if stmt.Type() != "import_statement" {
			continue
		}
		for j := 0; j < int(stmt.NamedChildCount()); j++ {
			c := stmt.NamedChild(j)
			switch c.Type() {
			case "dotted_name":
				name := c.Content(src)
				if name == CompatModule || strings.HasPrefix(name, CompatModule+".") {
					return true
				}
			case "aliased_import":
				name := c.ChildByFieldName("name")
				alias := c.ChildByFieldName("alias")
				if name != nil && alias != nil &&
					name.Content(src) == CompatModule && alias.Content(src) == CompatModule {
					return true
				}
			}
		}
	}
	return false
}

// importInsertOffset finds the canonical insertion point: the start of the
// first line after the docstring and any __future__ imports.
func importInsertOffset(root *sitter.Node, src []byte) uint32 {
	sawBody := false
	for i := 0; i < int(root.NamedChildCount()); i++ {
		c := root.NamedChild(i)
		switch c.Type() {
		case "comment":
			continue
		case "future_import_statement":
			sawBody = true
			continue
		case "expression_statement":
			if !sawBody && c.NamedChildCount() == 1 && c.NamedChild(0).Type() == "string" {
				sawBody = true // module docstring
				continue
			}
		}
		return lineStart(src, c)
	}
	return uint32(len(src))
}
