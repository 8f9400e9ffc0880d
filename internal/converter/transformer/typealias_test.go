package transformer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pyback/internal/converter"
	"pyback/pybackerr"
)

func TestTypeAliasStatements(t *testing.T) {
	conv := converter.New()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain alias needs no import",
			input:    "type Point = tuple[float, float]\n",
			expected: "Point = tuple[float, float]\n",
		},
		{
			name:  "generic alias synthesizes a TypeVar",
			input: "type GenericPoint[T] = tuple[T, T]\n",
			expected: "import typing\n" +
				"T = typing.TypeVar(\"T\")\n" +
				"GenericPoint: typing.TypeAlias = tuple[T, T]\n",
		},
		{
			name:  "bounded parameter",
			input: "type Registry[K: str] = dict[K, int]\n",
			expected: "import typing\n" +
				"K = typing.TypeVar(\"K\", bound=str)\n" +
				"Registry: typing.TypeAlias = dict[K, int]\n",
		},
		{
			name:  "parameters keep declaration order",
			input: "type Pair[A, B] = tuple[A, B]\n",
			expected: "import typing\n" +
				"A = typing.TypeVar(\"A\")\n" +
				"B = typing.TypeVar(\"B\")\n" +
				"Pair: typing.TypeAlias = tuple[A, B]\n",
		},
		{
			name:  "union in the aliased expression is reduced first",
			input: "type Result = int | str\n",
			expected: "import typing\n" +
				"Result = typing.Union[int, str]\n",
		},
		{
			name: "alias nested in a function keeps its indentation",
			input: "def make():\n" +
				"    type Local = int\n" +
				"    return Local\n",
			expected: "def make():\n" +
				"    Local = int\n" +
				"    return Local\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := conv.Convert(tt.input)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestTypeAliasCollision(t *testing.T) {
	conv := converter.New()

	_, err := conv.Convert("T = 1\ntype Pair[T] = tuple[T, T]\n")
	assert.Error(t, err)
	var cerr *pybackerr.NameCollisionError
	if assert.ErrorAs(t, err, &cerr) {
		assert.Equal(t, "T", cerr.Name)
	}
}

func TestTypeAliasVariadicUnsupported(t *testing.T) {
	conv := converter.New()

	_, err := conv.Convert("type Tup[*Ts] = tuple[int]\n")
	assert.Error(t, err)
	var perr pybackerr.PybackError
	if assert.ErrorAs(t, err, &perr) {
		assert.Equal(t, pybackerr.TypeUnsupported, perr.Type())
	}
}
