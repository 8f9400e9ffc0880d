// Package transformer holds the pattern matchers and rewrite rules that
// downgrade modern Python typing syntax to its typing-module equivalent.
//
// Each rule scans a parsed tree and yields byte-range rewrites against the
// original source. Rules never assume another rule has already run; nested
// constructs are resolved by the converter's fixed-point loop, which applies
// innermost rewrites first and re-scans.
package transformer

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// Facts records what the applied rewrites require from the compatibility
// module. It is threaded through a single conversion and never shared.
type Facts struct {
	// NeedsTyping is true once any rewrite referenced the typing module.
	NeedsTyping bool
}

// Merge folds another fact set into this one.
func (f *Facts) Merge(other Facts) {
	f.NeedsTyping = f.NeedsTyping || other.NeedsTyping
}

// Rewrite is one matched construct together with the source edits that
// replace it. Start/End span the matched node and are used to order nested
// rewrites innermost-first.
type Rewrite struct {
	Start uint32
	End   uint32
	Edits []Edit

	// NeedsTyping marks rewrites whose output references the typing module.
	NeedsTyping bool
}

// Rule detects one category of modern syntax and produces its rewrites.
type Rule interface {
	Name() string
	Scan(root *sitter.Node, src []byte, scopes *ScopeTable) ([]Rewrite, error)
}

// DefaultRules returns the full rule set in a fixed order. Detection is
// order-independent; the order only makes output deterministic.
func DefaultRules() []Rule {
	return []Rule{
		UnionRule{},
		WalrusRule{},
		TypeAliasRule{},
		GenericClassRule{},
		GenericFuncRule{},
	}
}
