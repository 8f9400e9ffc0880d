package transformer

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"pyback/pybackerr"
)

// TypeAliasRule rewrites PEP 695 "type" statements. A non-generic alias
// becomes a plain assignment; a generic alias becomes one TypeVar declaration
// per parameter (in declaration order) followed by an assignment annotated
// with typing.TypeAlias.
type TypeAliasRule struct{}

func (TypeAliasRule) Name() string { return "type-alias" }

func (TypeAliasRule) Scan(root *sitter.Node, src []byte, scopes *ScopeTable) ([]Rewrite, error) {
	var rewrites []Rewrite
	var scanErr error
	walkNamed(root, func(n *sitter.Node) bool {
		if scanErr != nil {
			return false
		}
		if n.Type() != "type_alias_statement" {
			return true
		}
		rw, err := rewriteTypeAlias(n, src, scopes)
		if err != nil {
			scanErr = err
			return false
		}
		rewrites = append(rewrites, rw)
		return true // the value expression may contain further matches
	})
	if scanErr != nil {
		return nil, scanErr
	}
	return rewrites, nil
}

func rewriteTypeAlias(stmt *sitter.Node, src []byte, scopes *ScopeTable) (Rewrite, error) {
	if stmt.NamedChildCount() < 2 {
		return Rewrite{}, pybackerr.NewUnsupportedConstructError(
			nodeLine(stmt), nodeCol(stmt), "type alias", "unrecognized alias shape")
	}
	left := unwrapType(stmt.NamedChild(0))
	value := stmt.NamedChild(int(stmt.NamedChildCount()) - 1)
	valueText := value.Content(src)

	switch left.Type() {
	case "identifier":
		name := left.Content(src)
		return Rewrite{
			Start: stmt.StartByte(),
			End:   stmt.EndByte(),
			Edits: []Edit{{Start: stmt.StartByte(), End: stmt.EndByte(), Text: name + " = " + valueText}},
		}, nil

	case "generic_type":
		nameNode := left.NamedChild(0)
		paramList := left.NamedChild(1)
		if nameNode == nil || nameNode.Type() != "identifier" || paramList == nil || paramList.Type() != "type_parameter" {
			return Rewrite{}, pybackerr.NewUnsupportedConstructError(
				nodeLine(stmt), nodeCol(stmt), "type alias", "unrecognized alias shape")
		}
		if !onOwnLine(src, stmt) {
			return Rewrite{}, pybackerr.NewUnsupportedConstructError(
				nodeLine(stmt), nodeCol(stmt), "type alias", "statement does not start its own line")
		}
		params, err := extractTypeParams(paramList, src)
		if err != nil {
			return Rewrite{}, err
		}
		if err := checkTypeVarNames(params, stmt, scopes); err != nil {
			return Rewrite{}, err
		}

		indent := lineIndent(src, stmt)
		lines := make([]string, 0, len(params)+1)
		for _, p := range params {
			lines = append(lines, renderTypeVar(p))
		}
		lines = append(lines, nameNode.Content(src)+": typing.TypeAlias = "+valueText)
		return Rewrite{
			Start:       stmt.StartByte(),
			End:         stmt.EndByte(),
			Edits:       []Edit{{Start: stmt.StartByte(), End: stmt.EndByte(), Text: strings.Join(lines, "\n"+indent)}},
			NeedsTyping: true,
		}, nil

	default:
		return Rewrite{}, pybackerr.NewUnsupportedConstructError(
			nodeLine(stmt), nodeCol(stmt), "type alias", "unrecognized alias shape")
	}
}
