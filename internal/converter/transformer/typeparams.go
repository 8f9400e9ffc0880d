package transformer

import (
	sitter "github.com/smacker/go-tree-sitter"

	"pyback/pybackerr"
)

// TypeParameter is one declared generic placeholder: a name plus an optional
// upper bound. Declaration order is preserved because it determines the order
// of the synthesized TypeVar statements.
type TypeParameter struct {
	Name  string
	Bound string
}

// extractTypeParams reads a PEP 695 type-parameter list ("[T, U: int]").
// Only plain names and single-bound names are supported; variadic, param-spec
// and constraint-tuple forms fail rather than risk a wrong rewrite.
func extractTypeParams(list *sitter.Node, src []byte) ([]TypeParameter, error) {
	var params []TypeParameter
	for i := 0; i < int(list.NamedChildCount()); i++ {
		c := list.NamedChild(i)
		if c.Type() == "comment" {
			continue
		}
		inner := unwrapType(c)
		switch inner.Type() {
		case "identifier":
			params = append(params, TypeParameter{Name: inner.Content(src)})
		case "constrained_type":
			nameNode := unwrapType(inner.NamedChild(0))
			boundNode := inner.NamedChild(1)
			if nameNode == nil || nameNode.Type() != "identifier" || boundNode == nil {
				return nil, pybackerr.NewUnsupportedConstructError(
					nodeLine(inner), nodeCol(inner), "type parameter", "unsupported parameter form")
			}
			if b := unwrapType(boundNode); b != nil && (b.Type() == "tuple" || b.Type() == "parenthesized_expression") {
				return nil, pybackerr.NewUnsupportedConstructError(
					nodeLine(inner), nodeCol(inner), "type parameter", "constraint tuples are not supported, only a single bound")
			}
			params = append(params, TypeParameter{
				Name:  nameNode.Content(src),
				Bound: boundNode.Content(src),
			})
		case "splat_type":
			return nil, pybackerr.NewUnsupportedConstructError(
				nodeLine(inner), nodeCol(inner), "type parameter", "variadic type parameters are not supported")
		default:
			return nil, pybackerr.NewUnsupportedConstructError(
				nodeLine(inner), nodeCol(inner), "type parameter", "unsupported parameter form")
		}
	}
	if len(params) == 0 {
		return nil, pybackerr.NewUnsupportedConstructError(
			nodeLine(list), nodeCol(list), "type parameter", "empty type parameter list")
	}
	return params, nil
}

// renderTypeVar produces the TypeVar declaration that replaces a declared
// type parameter.
func renderTypeVar(p TypeParameter) string {
	if p.Bound == "" {
		return p.Name + ` = typing.TypeVar("` + p.Name + `")`
	}
	return p.Name + ` = typing.TypeVar("` + p.Name + `", bound=` + p.Bound + `)`
}

// checkTypeVarNames rejects synthesized names that would shadow an existing
// binding visible at the declaration site, and duplicated parameter names.
func checkTypeVarNames(params []TypeParameter, at *sitter.Node, scopes *ScopeTable) error {
	seen := make(map[string]bool, len(params))
	for _, p := range params {
		if seen[p.Name] {
			return pybackerr.NewNameCollisionError(nodeLine(at), p.Name, "is declared twice in the same parameter list")
		}
		seen[p.Name] = true
		if scopes.Visible(at, p.Name) {
			return pybackerr.NewNameCollisionError(nodeLine(at), p.Name, "would shadow an existing binding")
		}
	}
	return nil
}
