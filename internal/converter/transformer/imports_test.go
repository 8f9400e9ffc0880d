package transformer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"pyback/internal/converter"
)

func TestCompatImportPlacement(t *testing.T) {
	conv := converter.New()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name: "after the module docstring",
			input: "\"\"\"Shapes.\"\"\"\n" +
				"def area(s: int | float) -> float: ...\n",
			expected: "\"\"\"Shapes.\"\"\"\n" +
				"import typing\n" +
				"def area(s: typing.Union[int, float]) -> float: ...\n",
		},
		{
			name: "after future imports",
			input: "from __future__ import annotations\n" +
				"def f(x: int | None) -> None: ...\n",
			expected: "from __future__ import annotations\n" +
				"import typing\n" +
				"def f(x: typing.Union[int, None]) -> None: ...\n",
		},
		{
			name: "docstring then future import",
			input: "\"\"\"Mod.\"\"\"\n" +
				"from __future__ import annotations\n" +
				"x: int | str = 1\n",
			expected: "\"\"\"Mod.\"\"\"\n" +
				"from __future__ import annotations\n" +
				"import typing\n" +
				"x: typing.Union[int, str] = 1\n",
		},
		{
			name: "aliased typing import does not count",
			input: "import typing as t\n" +
				"def f(x: int | str) -> None: ...\n",
			expected: "import typing\n" +
				"import typing as t\n" +
				"def f(x: typing.Union[int, str]) -> None: ...\n",
		},
		{
			name: "from-import does not count",
			input: "from typing import List\n" +
				"def f(x: int | str) -> None: ...\n",
			expected: "import typing\n" +
				"from typing import List\n" +
				"def f(x: typing.Union[int, str]) -> None: ...\n",
		},
		{
			name: "existing bare import is not duplicated",
			input: "import typing\n" +
				"def f(x: int | str) -> None: ...\n",
			expected: "import typing\n" +
				"def f(x: typing.Union[int, str]) -> None: ...\n",
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

func TestCompatImportAddedAtMostOnce(t *testing.T) {
	conv := converter.New()

	input := "type Id = int | str\n" +
		"def first[T](xs: list[T]) -> T | None: ...\n"
	got, err := conv.Convert(input)
	assert.NoError(t, err)
	assert.Equal(t, 1, strings.Count(got, "import typing\n"))
	assert.True(t, strings.HasPrefix(got, "import typing\n"))
}
