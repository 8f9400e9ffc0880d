package transformer

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"pyback/pybackerr"
)

// GenericClassRule rewrites PEP 695 generic class headers. The declared
// parameters move into TypeVar declarations in front of the class, and the
// header gains a typing.Generic base. Existing bases keep their order; the
// Generic base is appended after the last positional base (and before any
// keyword arguments, which must stay last for the header to parse).
type GenericClassRule struct{}

func (GenericClassRule) Name() string { return "generic-class" }

func (GenericClassRule) Scan(root *sitter.Node, src []byte, scopes *ScopeTable) ([]Rewrite, error) {
	return scanGenericHeaders(root, src, scopes, "class_definition", rewriteGenericClass)
}

// GenericFuncRule rewrites PEP 695 generic function headers: the parameter
// list is dropped from the header and each parameter becomes a TypeVar
// declaration before the definition, leaving annotations that reference the
// names untouched.
type GenericFuncRule struct{}

func (GenericFuncRule) Name() string { return "generic-function" }

func (GenericFuncRule) Scan(root *sitter.Node, src []byte, scopes *ScopeTable) ([]Rewrite, error) {
	return scanGenericHeaders(root, src, scopes, "function_definition", rewriteGenericFunc)
}

type genericRewriter func(def, paramList *sitter.Node, params []TypeParameter, src []byte) (Rewrite, error)

func scanGenericHeaders(root *sitter.Node, src []byte, scopes *ScopeTable, defType string, rewrite genericRewriter) ([]Rewrite, error) {
	var rewrites []Rewrite
	var scanErr error
	walkNamed(root, func(n *sitter.Node) bool {
		if scanErr != nil {
			return false
		}
		if n.Type() != defType {
			return true
		}
		paramList := n.ChildByFieldName("type_parameters")
		if paramList == nil {
			return true
		}
		params, err := extractTypeParams(paramList, src)
		if err != nil {
			scanErr = err
			return false
		}
		if err := checkTypeVarNames(params, n, scopes); err != nil {
			scanErr = err
			return false
		}
		rw, err := rewrite(n, paramList, params, src)
		if err != nil {
			scanErr = err
			return false
		}
		rewrites = append(rewrites, rw)
		return true // the body may contain further generic definitions
	})
	if scanErr != nil {
		return nil, scanErr
	}
	return rewrites, nil
}

// declarationAnchor returns the node the TypeVar declarations are inserted in
// front of: the definition itself, or its decorator group.
func declarationAnchor(def *sitter.Node) *sitter.Node {
	if p := def.Parent(); p != nil && p.Type() == "decorated_definition" {
		return p
	}
	return def
}

func typeVarBlock(def *sitter.Node, params []TypeParameter, src []byte) (Edit, error) {
	anchor := declarationAnchor(def)
	if !onOwnLine(src, anchor) {
		return Edit{}, pybackerr.NewUnsupportedConstructError(
			nodeLine(def), nodeCol(def), "generic declaration", "definition does not start its own line")
	}
	indent := lineIndent(src, anchor)
	at := lineStart(src, anchor)
	var sb strings.Builder
	for _, p := range params {
		sb.WriteString(indent)
		sb.WriteString(renderTypeVar(p))
		sb.WriteString("\n")
	}
	return Edit{Start: at, End: at, Text: sb.String()}, nil
}

func rewriteGenericClass(def, paramList *sitter.Node, params []TypeParameter, src []byte) (Rewrite, error) {
	decl, err := typeVarBlock(def, params, src)
	if err != nil {
		return Rewrite{}, err
	}
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	genericBase := "typing.Generic[" + strings.Join(names, ", ") + "]"

	edits := []Edit{decl}
	superclasses := def.ChildByFieldName("superclasses")
	if superclasses == nil {
		edits = append(edits, Edit{Start: paramList.StartByte(), End: paramList.EndByte(), Text: "(" + genericBase + ")"})
	} else {
		edits = append(edits, Edit{Start: paramList.StartByte(), End: paramList.EndByte(), Text: ""})
		at, text := genericBaseInsertion(superclasses, genericBase, src)
		edits = append(edits, Edit{Start: at, End: at, Text: text})
	}
	return Rewrite{
		Start:       paramList.StartByte(),
		End:         paramList.EndByte(),
		Edits:       edits,
		NeedsTyping: true,
	}, nil
}

// genericBaseInsertion places the Generic base after the last positional base
// in an existing argument list.
func genericBaseInsertion(superclasses *sitter.Node, genericBase string, src []byte) (uint32, string) {
	var lastPositional *sitter.Node
	hasArgs := false
	for i := 0; i < int(superclasses.NamedChildCount()); i++ {
		c := superclasses.NamedChild(i)
		if c.Type() == "comment" {
			continue
		}
		hasArgs = true
		if c.Type() != "keyword_argument" && c.Type() != "dictionary_splat" {
			lastPositional = c
		}
	}
	if lastPositional != nil {
		return lastPositional.EndByte(), ", " + genericBase
	}
	at := superclasses.StartByte() + 1 // just inside the opening parenthesis
	if hasArgs {
		return at, genericBase + ", "
	}
	return at, genericBase
}

func rewriteGenericFunc(def, paramList *sitter.Node, params []TypeParameter, src []byte) (Rewrite, error) {
	decl, err := typeVarBlock(def, params, src)
	if err != nil {
		return Rewrite{}, err
	}
	return Rewrite{
		Start: paramList.StartByte(),
		End:   paramList.EndByte(),
		Edits: []Edit{
			decl,
			{Start: paramList.StartByte(), End: paramList.EndByte(), Text: ""},
		},
		NeedsTyping: true,
	}, nil
}
