package transformer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pyback/internal/converter"
	"pyback/pybackerr"
)

func TestGenericClasses(t *testing.T) {
	conv := converter.New()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:  "bounded parameter on a bare class",
			input: "class Box[T: int]: ...\n",
			expected: "import typing\n" +
				"T = typing.TypeVar(\"T\", bound=int)\n" +
				"class Box(typing.Generic[T]): ...\n",
		},
		{
			name: "class without bases gains a Generic base",
			input: "class Stack[T]:\n" +
				"    def push(self, item: T) -> None: ...\n",
			expected: "import typing\n" +
				"T = typing.TypeVar(\"T\")\n" +
				"class Stack(typing.Generic[T]):\n" +
				"    def push(self, item: T) -> None: ...\n",
		},
		{
			name:  "Generic base lands after existing positional bases",
			input: "class Cache[K](Base, metaclass=Meta): ...\n",
			expected: "import typing\n" +
				"K = typing.TypeVar(\"K\")\n" +
				"class Cache(Base, typing.Generic[K], metaclass=Meta): ...\n",
		},
		{
			name:  "empty base list is filled in place",
			input: "class Holder[T](): ...\n",
			expected: "import typing\n" +
				"T = typing.TypeVar(\"T\")\n" +
				"class Holder(typing.Generic[T]): ...\n",
		},
		{
			name:  "two parameters declare two TypeVars",
			input: "class Table[K, V](Mapping): ...\n",
			expected: "import typing\n" +
				"K = typing.TypeVar(\"K\")\n" +
				"V = typing.TypeVar(\"V\")\n" +
				"class Table(Mapping, typing.Generic[K, V]): ...\n",
		},
		{
			name: "union bound is reduced before the header",
			input: "class Node[T: int | str]: ...\n",
			expected: "import typing\n" +
				"T = typing.TypeVar(\"T\", bound=typing.Union[int, str])\n" +
				"class Node(typing.Generic[T]): ...\n",
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

func TestGenericFunctions(t *testing.T) {
	conv := converter.New()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:  "parameter list moves above the def",
			input: "def first[T](items: list[T]) -> T: ...\n",
			expected: "import typing\n" +
				"T = typing.TypeVar(\"T\")\n" +
				"def first(items: list[T]) -> T: ...\n",
		},
		{
			name: "TypeVars go above the decorators",
			input: "@cached\n" +
				"def pick[T](items: list[T]) -> T: ...\n",
			expected: "import typing\n" +
				"T = typing.TypeVar(\"T\")\n" +
				"@cached\n" +
				"def pick(items: list[T]) -> T: ...\n",
		},
		{
			name: "method declarations keep the class indentation",
			input: "class Repo:\n" +
				"    def get[T](self, key: str) -> T: ...\n",
			expected: "import typing\n" +
				"class Repo:\n" +
				"    T = typing.TypeVar(\"T\")\n" +
				"    def get(self, key: str) -> T: ...\n",
		},
		{
			name: "generic class with a generic method converges",
			input: "class Repo[K]:\n" +
				"    def get[T](self, key: K) -> T: ...\n",
			expected: "import typing\n" +
				"K = typing.TypeVar(\"K\")\n" +
				"class Repo(typing.Generic[K]):\n" +
				"    T = typing.TypeVar(\"T\")\n" +
				"    def get(self, key: K) -> T: ...\n",
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

func TestGenericCollisions(t *testing.T) {
	conv := converter.New()

	tests := []struct {
		name  string
		input string
	}{
		{
			name: "parameter of the enclosing function shadows the TypeVar",
			input: "def outer(T):\n" +
				"    def inner[T](x: T) -> T: ...\n",
		},
		{
			name:  "duplicate parameters in one header",
			input: "class Pair[T, T]: ...\n",
		},
		{
			name:  "module level binding with the same name",
			input: "V = 3\ndef get[V]() -> V: ...\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := conv.Convert(tt.input)
			assert.Error(t, err)
			var cerr *pybackerr.NameCollisionError
			assert.ErrorAs(t, err, &cerr)
		})
	}
}

func TestGenericVariadicUnsupported(t *testing.T) {
	conv := converter.New()

	_, err := conv.Convert("def spread[*Ts](args: tuple[int]) -> None: ...\n")
	assert.Error(t, err)
	var perr pybackerr.PybackError
	if assert.ErrorAs(t, err, &perr) {
		assert.Equal(t, pybackerr.TypeUnsupported, perr.Type())
	}
}
