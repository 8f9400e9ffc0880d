package transformer

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"pyback/pybackerr"
)

// WalrusRule rewrites PEP 572 assignment expressions ("(x := expr)") for
// runtimes without them. The bound expression is evaluated exactly once in
// every strategy:
//
//   - in an ordinary statement the assignment is hoisted directly before it;
//   - in a while condition the assignment moves to the top of the loop body,
//     the condition becomes True and a break guard re-tests it;
//   - in a list comprehension the iteration is rewritten to a tuple-producing
//     inner generator so the binding happens per element.
//
// Short-circuit contexts ("a or (x := f())") are hoisted like any other
// statement, so the bound name is always assigned; this matches the
// historical behavior of this transform.
type WalrusRule struct{}

func (WalrusRule) Name() string { return "walrus" }

const walrusConstruct = "assignment expression"

func (WalrusRule) Scan(root *sitter.Node, src []byte, scopes *ScopeTable) ([]Rewrite, error) {
	var rewrites []Rewrite
	seenWhile := make(map[span]bool)
	seenComp := make(map[span]bool)

	var scanErr error
	walkNamed(root, func(n *sitter.Node) bool {
		if scanErr != nil {
			return false
		}
		if n.Type() != "named_expression" {
			return true
		}

		rw, key, err := planWalrus(n, src)
		if err != nil {
			scanErr = err
			return false
		}
		switch key.kind {
		case walrusWhile:
			if seenWhile[key.at] {
				return false
			}
			seenWhile[key.at] = true
		case walrusComp:
			if seenComp[key.at] {
				return false
			}
			seenComp[key.at] = true
		}
		rewrites = append(rewrites, rw)
		return false // nested assignment expressions are flattened with this one
	})
	if scanErr != nil {
		return nil, scanErr
	}
	return rewrites, nil
}

type walrusKind int

const (
	walrusHoist walrusKind = iota
	walrusWhile
	walrusComp
)

type walrusSite struct {
	kind walrusKind
	at   span
}

// planWalrus classifies one assignment expression by its enclosing context
// and builds the corresponding rewrite.
func planWalrus(w *sitter.Node, src []byte) (Rewrite, walrusSite, error) {
	stmt := enclosingStatement(w)
	if stmt == nil {
		return Rewrite{}, walrusSite{}, pybackerr.NewUnsupportedConstructError(
			nodeLine(w), nodeCol(w), walrusConstruct, "no enclosing statement")
	}

	// Inspect the path from the expression up to its statement.
	var comp *sitter.Node
	for cur := w.Parent(); cur != nil; cur = cur.Parent() {
		switch cur.Type() {
		case "lambda":
			return Rewrite{}, walrusSite{}, pybackerr.NewUnsupportedConstructError(
				nodeLine(w), nodeCol(w), walrusConstruct, "cannot be hoisted out of a lambda body")
		case "elif_clause":
			return Rewrite{}, walrusSite{}, pybackerr.NewUnsupportedConstructError(
				nodeLine(w), nodeCol(w), walrusConstruct, "cannot be hoisted out of an elif condition")
		case "set_comprehension", "dictionary_comprehension", "generator_expression":
			return Rewrite{}, walrusSite{}, pybackerr.NewUnsupportedConstructError(
				nodeLine(w), nodeCol(w), walrusConstruct, "only list comprehensions are supported")
		case "list_comprehension":
			if comp == nil {
				comp = cur
			}
		}
		p := cur.Parent()
		if p == nil || p.Type() == "block" || p.Type() == "module" {
			break
		}
	}

	if comp != nil && !inIterable(w, comp) {
		rw, err := rewriteComprehension(comp, src)
		return rw, walrusSite{kind: walrusComp, at: nodeSpan(comp)}, err
	}

	if stmt.Type() == "while_statement" {
		if cond := stmt.ChildByFieldName("condition"); cond != nil && within(w, cond) {
			rw, err := rewriteWhileCondition(stmt, cond, src)
			return rw, walrusSite{kind: walrusWhile, at: nodeSpan(stmt)}, err
		}
	}

	rw, err := hoistBeforeStatement(w, stmt, src)
	return rw, walrusSite{kind: walrusHoist, at: nodeSpan(w)}, err
}

// inIterable reports whether w sits in the iterable of the comprehension's
// for clause; that expression is evaluated once, so plain hoisting applies.
func inIterable(w, comp *sitter.Node) bool {
	for i := 0; i < int(comp.NamedChildCount()); i++ {
		c := comp.NamedChild(i)
		if c.Type() != "for_in_clause" {
			continue
		}
		if right := c.ChildByFieldName("right"); right != nil && within(w, right) {
			return true
		}
	}
	return false
}

type hoistedAssign struct {
	name  string
	value string
}

// flattenNamedExprs returns n's source text with every assignment expression
// replaced by its bound name, plus the hoisted assignments in evaluation
// order (inner bindings before the bindings whose values use them).
func flattenNamedExprs(n *sitter.Node, src []byte) (string, []hoistedAssign) {
	if n.Type() == "named_expression" {
		name := n.ChildByFieldName("name").Content(src)
		value := n.ChildByFieldName("value")
		valueText, hoists := flattenNamedExprs(value, src)
		hoists = append(hoists, hoistedAssign{name: name, value: valueText})
		return name, hoists
	}

	var tops []*sitter.Node
	walkNamed(n, func(c *sitter.Node) bool {
		if c != n && c.Type() == "named_expression" {
			tops = append(tops, c)
			return false
		}
		return true
	})
	if len(tops) == 0 {
		return n.Content(src), nil
	}

	var sb strings.Builder
	var hoists []hoistedAssign
	pos := n.StartByte()
	for _, w := range tops {
		sb.Write(src[pos:w.StartByte()])
		text, hs := flattenNamedExprs(w, src)
		hoists = append(hoists, hs...)
		sb.WriteString(text)
		pos = w.EndByte()
	}
	sb.Write(src[pos:n.EndByte()])
	return sb.String(), hoists
}

func hoistBeforeStatement(w, stmt *sitter.Node, src []byte) (Rewrite, error) {
	if !onOwnLine(src, stmt) {
		return Rewrite{}, pybackerr.NewUnsupportedConstructError(
			nodeLine(w), nodeCol(w), walrusConstruct, "enclosing statement does not start its own line")
	}
	name, hoists := flattenNamedExprs(w, src)
	indent := lineIndent(src, stmt)
	at := lineStart(src, stmt)

	var ins strings.Builder
	for _, h := range hoists {
		ins.WriteString(indent)
		ins.WriteString(h.name)
		ins.WriteString(" = ")
		ins.WriteString(h.value)
		ins.WriteString("\n")
	}
	return Rewrite{
		Start: w.StartByte(),
		End:   w.EndByte(),
		Edits: []Edit{
			{Start: at, End: at, Text: ins.String()},
			{Start: w.StartByte(), End: w.EndByte(), Text: name},
		},
	}, nil
}

// rewriteWhileCondition turns "while (x := f()):" into an infinite loop that
// re-binds and re-tests at the top of each iteration.
func rewriteWhileCondition(while, cond *sitter.Node, src []byte) (Rewrite, error) {
	body := while.ChildByFieldName("body")
	if body == nil || body.NamedChildCount() == 0 || body.StartPoint().Row == while.StartPoint().Row {
		return Rewrite{}, pybackerr.NewUnsupportedConstructError(
			nodeLine(while), nodeCol(while), walrusConstruct, "while loop with an inline body")
	}
	condText, hoists := flattenNamedExprs(cond, src)

	first := body.NamedChild(0)
	indent := lineIndent(src, first)
	at := lineStart(src, first)

	var ins strings.Builder
	for _, h := range hoists {
		ins.WriteString(indent)
		ins.WriteString(h.name)
		ins.WriteString(" = ")
		ins.WriteString(h.value)
		ins.WriteString("\n")
	}
	ins.WriteString(indent)
	ins.WriteString("if not (")
	ins.WriteString(condText)
	ins.WriteString("): break\n")

	return Rewrite{
		Start: while.StartByte(),
		End:   while.EndByte(),
		Edits: []Edit{
			{Start: cond.StartByte(), End: cond.EndByte(), Text: "True"},
			{Start: at, End: at, Text: ins.String()},
		},
	}, nil
}

// rewriteComprehension rebuilds a list comprehension so that walrus bindings
// become extra tuple elements produced by an inner generator:
//
//	[y for x in data if (y := f(x))]
//	[y for x, y in ([x, f(x)] for x in data) if y]
func rewriteComprehension(comp *sitter.Node, src []byte) (Rewrite, error) {
	var forClauses, ifClauses []*sitter.Node
	for i := 0; i < int(comp.NamedChildCount()); i++ {
		c := comp.NamedChild(i)
		switch c.Type() {
		case "for_in_clause":
			forClauses = append(forClauses, c)
		case "if_clause":
			ifClauses = append(ifClauses, c)
		}
	}
	if len(forClauses) != 1 {
		return Rewrite{}, pybackerr.NewUnsupportedConstructError(
			nodeLine(comp), nodeCol(comp), walrusConstruct, "comprehensions with multiple for clauses are not supported")
	}
	fc := forClauses[0]
	for i := 0; i < int(fc.ChildCount()); i++ {
		if fc.Child(i).Type() == "async" {
			return Rewrite{}, pybackerr.NewUnsupportedConstructError(
				nodeLine(comp), nodeCol(comp), walrusConstruct, "async comprehensions are not supported")
		}
	}
	left := fc.ChildByFieldName("left")
	right := fc.ChildByFieldName("right")
	body := comp.ChildByFieldName("body")
	if left == nil || right == nil || body == nil {
		return Rewrite{}, pybackerr.NewUnsupportedConstructError(
			nodeLine(comp), nodeCol(comp), walrusConstruct, "unrecognized comprehension shape")
	}

	// Filters run before the element expression, so their bindings come
	// first in the produced tuple.
	var hoists []hoistedAssign
	ifTexts := make([]string, len(ifClauses))
	for i, ic := range ifClauses {
		condition := ic.NamedChild(0)
		text, hs := flattenNamedExprs(condition, src)
		hoists = append(hoists, hs...)
		ifTexts[i] = text
	}
	bodyText, bodyHoists := flattenNamedExprs(body, src)
	hoists = append(hoists, bodyHoists...)

	targetText := left.Content(src)
	targetExpr := targetText
	if left.Type() == "pattern_list" {
		targetExpr = "(" + targetText + ")"
	}

	names := make([]string, len(hoists))
	values := make([]string, len(hoists))
	for i, h := range hoists {
		names[i] = h.name
		values[i] = h.value
	}

	var sb strings.Builder
	sb.WriteString("[")
	sb.WriteString(bodyText)
	sb.WriteString(" for ")
	sb.WriteString(targetExpr)
	sb.WriteString(", ")
	sb.WriteString(strings.Join(names, ", "))
	sb.WriteString(" in ([")
	sb.WriteString(targetExpr)
	sb.WriteString(", ")
	sb.WriteString(strings.Join(values, ", "))
	sb.WriteString("] for ")
	sb.WriteString(targetText)
	sb.WriteString(" in ")
	sb.WriteString(right.Content(src))
	sb.WriteString(")")
	for _, it := range ifTexts {
		sb.WriteString(" if ")
		sb.WriteString(it)
	}
	sb.WriteString("]")

	return Rewrite{
		Start: comp.StartByte(),
		End:   comp.EndByte(),
		Edits: []Edit{{Start: comp.StartByte(), End: comp.EndByte(), Text: sb.String()}},
	}, nil
}
