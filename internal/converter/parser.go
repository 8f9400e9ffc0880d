package converter

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"pyback/pybackerr"
)

// PythonParser defines the interface for parsing Python source code.
type PythonParser interface {
	Parse(source []byte) (*sitter.Tree, error)
}

type sitterPythonParser struct {
	parser *sitter.Parser
}

// NewPythonParser creates a PythonParser implementation backed by
// tree-sitter's Python grammar.
func NewPythonParser() PythonParser {
	p := sitter.NewParser()
	p.SetLanguage(python.GetLanguage())
	return &sitterPythonParser{parser: p}
}

// Parse implements the PythonParser interface. Sources that do not parse
// under the newest grammar the engine understands fail with a ParseError.
func (p *sitterPythonParser) Parse(source []byte) (*sitter.Tree, error) {
	tree, err := p.parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, pybackerr.NewParseError(0, 0, err.Error())
	}
	root := tree.RootNode()
	if root.HasError() {
		line, col := firstSyntaxError(root)
		return nil, pybackerr.NewParseError(line, col, "invalid syntax")
	}
	return tree, nil
}

func firstSyntaxError(n *sitter.Node) (int, int) {
	if n.Type() == "ERROR" || n.IsMissing() {
		return int(n.StartPoint().Row) + 1, int(n.StartPoint().Column)
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c.HasError() {
			return firstSyntaxError(c)
		}
	}
	return int(n.StartPoint().Row) + 1, int(n.StartPoint().Column)
}

// Ensure sitterPythonParser implements PythonParser interface.
var _ PythonParser = (*sitterPythonParser)(nil)
