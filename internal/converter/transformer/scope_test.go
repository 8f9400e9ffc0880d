package transformer_test

import (
	"context"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/stretchr/testify/require"

	"pyback/internal/converter/transformer"
)

func parseModule(t *testing.T, source string) (*sitter.Node, []byte) {
	t.Helper()
	p := sitter.NewParser()
	p.SetLanguage(python.GetLanguage())
	tree, err := p.ParseCtx(context.Background(), nil, []byte(source))
	require.NoError(t, err)
	require.False(t, tree.RootNode().HasError())
	return tree.RootNode(), []byte(source)
}

// lastIdentifier returns the deepest identifier node with the given text,
// used as a probe point for visibility checks.
func lastIdentifier(root *sitter.Node, src []byte, text string) *sitter.Node {
	var found *sitter.Node
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n.Type() == "identifier" && n.Content(src) == text {
			found = n
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(root)
	return found
}

func TestScopeVisibility(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		probe   string
		lookup  string
		visible bool
	}{
		{
			name:    "module assignment is visible inside a function",
			source:  "T = 1\ndef f():\n    return T\n",
			probe:   "T",
			lookup:  "T",
			visible: true,
		},
		{
			name:    "function parameter is not visible at module level",
			source:  "def f(x):\n    return x\nprobe = 1\n",
			probe:   "probe",
			lookup:  "x",
			visible: false,
		},
		{
			name:    "parameter is visible in the function body",
			source:  "def f(items):\n    return items\n",
			probe:   "items",
			lookup:  "items",
			visible: true,
		},
		{
			name:    "imported module name binds at module level",
			source:  "import os.path\nprobe = os\n",
			probe:   "probe",
			lookup:  "os",
			visible: true,
		},
		{
			name:    "import alias binds the alias not the module",
			source:  "import numpy as np\nprobe = np\n",
			probe:   "probe",
			lookup:  "numpy",
			visible: false,
		},
		{
			name:    "for target binds in the enclosing scope",
			source:  "for item in xs:\n    probe = item\n",
			probe:   "probe",
			lookup:  "item",
			visible: true,
		},
		{
			name:    "comprehension target stays in the comprehension",
			source:  "ys = [x for x in xs]\nprobe = 1\n",
			probe:   "probe",
			lookup:  "x",
			visible: false,
		},
		{
			name:    "walrus in a comprehension escapes to the function",
			source:  "def f(xs):\n    ys = [y for x in xs if (y := x)]\n    return ys\n",
			probe:   "ys",
			lookup:  "y",
			visible: true,
		},
		{
			name:    "class name binds in the enclosing scope",
			source:  "class Widget: ...\nprobe = 1\n",
			probe:   "probe",
			lookup:  "Widget",
			visible: true,
		},
		{
			name:    "except alias binds its name",
			source:  "try:\n    f()\nexcept ValueError as exc:\n    probe = exc\n",
			probe:   "probe",
			lookup:  "exc",
			visible: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, src := parseModule(t, tt.source)
			scopes := transformer.BuildScopes(root, src)
			probe := lastIdentifier(root, src, tt.probe)
			require.NotNil(t, probe)
			require.Equal(t, tt.visible, scopes.Visible(probe, tt.lookup))
		})
	}
}
