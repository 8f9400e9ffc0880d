package transformer

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// ScopeTable maps each lexical scope in a module to the set of names bound
// inside it. It is built once per rewrite round, before any rule runs, and
// consulted when a rule synthesizes a type-variable name: a synthesized name
// that is visible at the match site is a collision, never a silent shadow.
type ScopeTable struct {
	bindings map[span]map[string]bool
}

var scopeNodeTypes = map[string]bool{
	"module":                   true,
	"function_definition":      true,
	"class_definition":         true,
	"lambda":                   true,
	"list_comprehension":       true,
	"set_comprehension":        true,
	"dictionary_comprehension": true,
	"generator_expression":     true,
}

// BuildScopes runs the symbol-table pass over a parsed module.
func BuildScopes(root *sitter.Node, src []byte) *ScopeTable {
	t := &ScopeTable{bindings: make(map[span]map[string]bool)}
	t.collect(root, []*sitter.Node{root}, src)
	return t
}

// Visible reports whether name is bound in the scope enclosing n or in any
// scope above it.
func (t *ScopeTable) Visible(n *sitter.Node, name string) bool {
	for cur := n; cur != nil; cur = cur.Parent() {
		if !scopeNodeTypes[cur.Type()] {
			continue
		}
		if t.bindings[nodeSpan(cur)][name] {
			return true
		}
	}
	return false
}

func nodeSpan(n *sitter.Node) span {
	return span{n.StartByte(), n.EndByte()}
}

func (t *ScopeTable) bind(scope *sitter.Node, name string) {
	if name == "" {
		return
	}
	key := nodeSpan(scope)
	set := t.bindings[key]
	if set == nil {
		set = make(map[string]bool)
		t.bindings[key] = set
	}
	set[name] = true
}

// bindingScope returns the scope an assignment made at the top of the stack
// lands in. Assignment expressions skip comprehension scopes.
func bindingScope(stack []*sitter.Node, skipComprehensions bool) *sitter.Node {
	for i := len(stack) - 1; i >= 0; i-- {
		s := stack[i]
		if skipComprehensions {
			switch s.Type() {
			case "list_comprehension", "set_comprehension", "dictionary_comprehension", "generator_expression":
				continue
			}
		}
		return s
	}
	return stack[0]
}

func (t *ScopeTable) collect(n *sitter.Node, stack []*sitter.Node, src []byte) {
	cur := bindingScope(stack, false)

	switch n.Type() {
	case "assignment", "augmented_assignment":
		if left := n.ChildByFieldName("left"); left != nil {
			t.bindTargets(cur, left, src)
		}
	case "named_expression":
		if name := n.ChildByFieldName("name"); name != nil {
			t.bind(bindingScope(stack, true), name.Content(src))
		}
	case "function_definition", "class_definition":
		// the definition's own name binds in the enclosing scope
		if name := n.ChildByFieldName("name"); name != nil {
			enclosing := cur
			if len(stack) >= 2 {
				enclosing = stack[len(stack)-2]
			}
			t.bind(enclosing, name.Content(src))
		}
	case "parameters", "lambda_parameters":
		t.bindParameters(cur, n, src)
	case "type_alias_statement":
		if left := unwrapType(n.NamedChild(0)); left != nil {
			switch left.Type() {
			case "identifier":
				t.bind(cur, left.Content(src))
			case "generic_type":
				if id := left.NamedChild(0); id != nil {
					t.bind(cur, id.Content(src))
				}
			}
		}
	case "for_statement":
		if left := n.ChildByFieldName("left"); left != nil {
			t.bindTargets(cur, left, src)
		}
	case "for_in_clause":
		if left := n.ChildByFieldName("left"); left != nil {
			t.bindTargets(cur, left, src)
		}
	case "import_statement", "future_import_statement":
		for i := 0; i < int(n.NamedChildCount()); i++ {
			c := n.NamedChild(i)
			switch c.Type() {
			case "dotted_name":
				name := c.Content(src)
				if dot := strings.IndexByte(name, '.'); dot >= 0 {
					name = name[:dot]
				}
				t.bind(cur, name)
			case "aliased_import":
				if alias := c.ChildByFieldName("alias"); alias != nil {
					t.bind(cur, alias.Content(src))
				}
			}
		}
	case "import_from_statement":
		for i := 0; i < int(n.NamedChildCount()); i++ {
			c := n.NamedChild(i)
			if c.Type() == "aliased_import" {
				if alias := c.ChildByFieldName("alias"); alias != nil {
					t.bind(cur, alias.Content(src))
				}
			} else if c.Type() == "dotted_name" && i > 0 {
				// first dotted_name is the module being imported from
				t.bind(cur, c.Content(src))
			}
		}
	case "as_pattern":
		if alias := n.ChildByFieldName("alias"); alias != nil {
			t.bindTargets(cur, alias, src)
		}
	case "global_statement", "nonlocal_statement":
		for i := 0; i < int(n.NamedChildCount()); i++ {
			if c := n.NamedChild(i); c.Type() == "identifier" {
				t.bind(cur, c.Content(src))
			}
		}
	}

	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if scopeNodeTypes[c.Type()] {
			t.collect(c, append(stack, c), src)
		} else {
			t.collect(c, stack, src)
		}
	}
}

func (t *ScopeTable) bindTargets(scope *sitter.Node, target *sitter.Node, src []byte) {
	switch target.Type() {
	case "identifier", "as_pattern_target":
		t.bind(scope, target.Content(src))
	case "pattern_list", "tuple_pattern", "list_pattern":
		for i := 0; i < int(target.NamedChildCount()); i++ {
			t.bindTargets(scope, target.NamedChild(i), src)
		}
	case "list_splat_pattern":
		if target.NamedChildCount() == 1 {
			t.bindTargets(scope, target.NamedChild(0), src)
		}
	}
	// subscript and attribute targets do not introduce bindings
}

func (t *ScopeTable) bindParameters(scope *sitter.Node, params *sitter.Node, src []byte) {
	for i := 0; i < int(params.NamedChildCount()); i++ {
		p := params.NamedChild(i)
		switch p.Type() {
		case "identifier":
			t.bind(scope, p.Content(src))
		case "typed_parameter", "default_parameter", "typed_default_parameter":
			if name := p.ChildByFieldName("name"); name != nil {
				t.bind(scope, name.Content(src))
			} else if p.NamedChildCount() > 0 && p.NamedChild(0).Type() == "identifier" {
				t.bind(scope, p.NamedChild(0).Content(src))
			}
		case "list_splat_pattern", "dictionary_splat_pattern":
			if p.NamedChildCount() == 1 && p.NamedChild(0).Type() == "identifier" {
				t.bind(scope, p.NamedChild(0).Content(src))
			}
		}
	}
}
