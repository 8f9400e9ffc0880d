// Package converter downgrades Python source written with modern typing
// syntax into a semantically equivalent form accepted by older interpreters.
package converter

import (
	"pyback/internal/converter/transformer"
	"pyback/pybackerr"
)

// Converter defines the high-level interface for the conversion.
type Converter interface {
	Convert(source string) (string, error)
}

// LegacyConverter orchestrates the conversion: it runs every rewrite rule
// over the parse tree until no rule matches, then injects the compatibility
// import if any applied rewrite requires it.
type LegacyConverter struct {
	parser PythonParser
	rules  []transformer.Rule
}

// NewLegacyConverter creates a converter from its dependencies.
func NewLegacyConverter(parser PythonParser, rules []transformer.Rule) *LegacyConverter {
	return &LegacyConverter{
		parser: parser,
		rules:  rules,
	}
}

// New creates a converter with the default parser and rule set.
func New() *LegacyConverter {
	return NewLegacyConverter(NewPythonParser(), transformer.DefaultRules())
}

// Convert executes the full pipeline. Input that is already in legacy form
// is returned byte-identical, making Convert idempotent.
func (c *LegacyConverter) Convert(source string) (string, error) {
	src := []byte(source)
	var facts transformer.Facts

	// Every applied rewrite removes the construct it matched and introduces
	// none of the recognized forms, so the loop strictly shrinks the number
	// of matches. The round guard only trips on a broken rule.
	maxRounds := len(src) + 2
	for round := 0; ; round++ {
		if round > maxRounds {
			return "", pybackerr.NewUnparseError("rewriting did not reach a fixed point")
		}

		tree, err := c.parser.Parse(src)
		if err != nil {
			return "", err
		}
		root := tree.RootNode()
		scopes := transformer.BuildScopes(root, src)

		var rewrites []transformer.Rewrite
		for _, rule := range c.rules {
			found, err := rule.Scan(root, src, scopes)
			if err != nil {
				return "", err
			}
			rewrites = append(rewrites, found...)
		}

		if len(rewrites) == 0 {
			return string(transformer.InjectCompatImport(root, src, facts)), nil
		}

		next, applied, err := transformer.ApplyRound(src, rewrites)
		if err != nil {
			return "", err
		}
		facts.Merge(applied)
		src = next
	}
}

// Ensure LegacyConverter implements Converter interface.
var _ Converter = (*LegacyConverter)(nil)
