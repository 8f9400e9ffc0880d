package transformer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pyback/internal/converter"
)

func TestUnionAnnotations(t *testing.T) {
	conv := converter.New()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:  "parameter and return annotations",
			input: "def f(x: int | str) -> bool | None: ...\n",
			expected: "import typing\n" +
				"def f(x: typing.Union[int, str]) -> typing.Union[bool, None]: ...\n",
		},
		{
			name:  "chain keeps operand order",
			input: "def g(v: int | str | float) -> None: ...\n",
			expected: "import typing\n" +
				"def g(v: typing.Union[int, str, float]) -> None: ...\n",
		},
		{
			name:  "operands are not deduplicated",
			input: "x: int | str | int = 1\n",
			expected: "import typing\n" +
				"x: typing.Union[int, str, int] = 1\n",
		},
		{
			name:  "union nested in a subscript operand",
			input: "def f(x: list[int | str] | None) -> None: ...\n",
			expected: "import typing\n" +
				"def f(x: typing.Union[list[typing.Union[int, str]], None]) -> None: ...\n",
		},
		{
			name:  "union inside a subscript argument",
			input: "def f(d: dict[str, int | None]) -> None: ...\n",
			expected: "import typing\n" +
				"def f(d: dict[str, typing.Union[int, None]]) -> None: ...\n",
		},
		{
			name:  "union as a type parameter bound",
			input: "def first[T: int | str](items: list[T]) -> T: ...\n",
			expected: "import typing\n" +
				"T = typing.TypeVar(\"T\", bound=typing.Union[int, str])\n" +
				"def first(items: list[T]) -> T: ...\n",
		},
		{
			name:     "bitwise or outside annotations is untouched",
			input:    "flags = READ | WRITE\n",
			expected: "flags = READ | WRITE\n",
		},
		{
			name:     "subscript outside annotations is untouched",
			input:    "value = table[a | b]\n",
			expected: "value = table[a | b]\n",
		},
		{
			name:  "existing typing import is not duplicated",
			input: "import typing\n\ndef f(x: int | str): ...\n",
			expected: "import typing\n\n" +
				"def f(x: typing.Union[int, str]): ...\n",
		},
		{
			name:     "already converted source is a fixed point",
			input:    "import typing\n\ndef f(x: typing.Union[int, str]): ...\n",
			expected: "import typing\n\ndef f(x: typing.Union[int, str]): ...\n",
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
