package comments_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/commentlife/pkg/comments"
)

type extractCase struct {
	name    string
	content string
	want    []string
}

func runExtractCases(t *testing.T, lang comments.Language, cases []extractCase) {
	t.Helper()

	ext, err := comments.For(lang)
	require.NoError(t, err)

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := ext.ExtractText(tc.content)
			assert.ElementsMatch(t, tc.want, got.Sorted())
		})
	}
}

func TestPythonGrammar(t *testing.T) {
	t.Parallel()

	runExtractCases(t, comments.Python, []extractCase{
		{name: "hash run merges", content: "# a\n# b\nx = 1\n", want: []string{"a b"}},
		{name: "blank line closes run", content: "# a\n\n# b\n", want: []string{"a", "b"}},
		{name: "inline", content: "x = 1  # note\n", want: []string{"note"}},
		{
			name:    "inline leaves run open",
			content: "# a\nx = 1 # inl\n# b\n",
			want:    []string{"inl", "a b"},
		},
		{name: "docstring on one line", content: "    \"\"\"Doc.\"\"\"\n", want: []string{"Doc."}},
		{name: "single quoted docstring", content: "'''Doc.'''\n", want: []string{"Doc."}},
		{
			name:    "multi-line docstring",
			content: "def f():\n    \"\"\"Summary.\n\n    Details here.\n    \"\"\"\n    return 1\n",
			want:    []string{"Summary.  Details here."},
		},
		{
			name:    "hash inside docstring is block text",
			content: "\"\"\"\n# not a hash run\n\"\"\"\n",
			want:    []string{"# not a hash run"},
		},
		{name: "even delimiter count closes on same line", content: "s = \"\"\"a\"\"\" + \"\"\"b\"\"\"\n", want: []string{"s = a + b"}},
		{name: "open run flushed at eof", content: "x = 1\n# tail", want: []string{"tail"}},
		{name: "unterminated block dropped", content: "\"\"\"open\nstill open\n", want: []string{}},
		{name: "no comments", content: "x = 1\ny = 2\n", want: []string{}},
		{name: "duplicates collapse", content: "# same\n\nx = 1 # same\n", want: []string{"same"}},
	})
}

func TestCFamilyGrammar(t *testing.T) {
	t.Parallel()

	runExtractCases(t, comments.CFamily, []extractCase{
		{name: "inline", content: "int x; // note\n", want: []string{"note"}},
		{
			name:    "inline and later block are separate",
			content: "int x; // note\nint y;\n/* block */\n",
			want:    []string{"note", "block"},
		},
		{name: "line run merges", content: "// a\n// b\nint x;\n", want: []string{"a b"}},
		{
			name:    "multi-line block",
			content: "/* first\n * second\n */\nint x;\n",
			want:    []string{"first * second"},
		},
		{
			name:    "inline leaves run open",
			content: "// a\nint y; // inl\n// b\n",
			want:    []string{"inl", "a b"},
		},
		{name: "block start flushes run", content: "// a\n/* b */\n", want: []string{"a", "b"}},
		{name: "block with trailing code", content: "/* a */ int x;\n", want: []string{"a"}},
		{name: "two blocks on one line", content: "/* first */ /* second */\n", want: []string{"first   second"}},
		{name: "block then code then block", content: "/* a */ int x; /* b */\n", want: []string{"a  int x;  b"}},
		{name: "open block flushed at eof", content: "/* never closed\nmore", want: []string{"never closed more"}},
		{name: "open run flushed at eof", content: "int x;\n// tail\n", want: []string{"tail"}},
		{name: "code only", content: "int main() { return 0; }\n", want: []string{}},
	})
}

func TestFortranGrammar(t *testing.T) {
	t.Parallel()

	runExtractCases(t, comments.Fortran, []extractCase{
		{name: "block merges", content: "! a\n! b\nx = 1\n", want: []string{"a b"}},
		{name: "inline flushes block", content: "! a\nx = 1 ! inl\n", want: []string{"a", "inl"}},
		{name: "indented full line", content: "   ! indented\n", want: []string{"indented"}},
		{name: "open block flushed at eof", content: "x = 1\n! tail", want: []string{"tail"}},
		{name: "code only", content: "x = 1\n", want: []string{}},
	})
}

func TestExtract_DecodeFailure(t *testing.T) {
	t.Parallel()

	set, err := comments.Extract(comments.Python, []byte{0xff, 0xfe, '#', ' ', 'x'})
	require.ErrorIs(t, err, comments.ErrDecode)
	assert.Equal(t, 0, set.Len())
}

func TestExtract_NulBytesAreText(t *testing.T) {
	t.Parallel()

	set, err := comments.Extract(comments.Python, []byte("x = '\x00'  # sentinel\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"sentinel"}, set.Sorted())
}

func TestExtract_Idempotent(t *testing.T) {
	t.Parallel()

	content := []byte("# a\n# b\nx = 1 # c\n\"\"\"d\"\"\"\n")

	for _, lang := range []comments.Language{comments.Python, comments.CFamily, comments.Fortran} {
		first, err := comments.Extract(lang, content)
		require.NoError(t, err)

		second, err := comments.Extract(lang, content)
		require.NoError(t, err)

		assert.Equal(t, first, second, lang.String())
	}
}

func TestFor_Unsupported(t *testing.T) {
	t.Parallel()

	_, err := comments.For(comments.Unknown)
	require.ErrorIs(t, err, comments.ErrUnsupportedLanguage)
}

func TestParseLanguage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want comments.Language
	}{
		{in: "python", want: comments.Python},
		{in: "PY", want: comments.Python},
		{in: "cpp", want: comments.CFamily},
		{in: "c++", want: comments.CFamily},
		{in: "fortran", want: comments.Fortran},
		{in: " f90 ", want: comments.Fortran},
	}

	for _, tt := range tests {
		got, err := comments.ParseLanguage(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := comments.ParseLanguage("cobol")
	require.ErrorIs(t, err, comments.ErrUnsupportedLanguage)
}

func TestSet_Diff(t *testing.T) {
	t.Parallel()

	prev := comments.NewSet("a", "b")
	cur := comments.NewSet("b", "c")

	assert.Equal(t, []string{"c"}, cur.Diff(prev))
	assert.Equal(t, []string{"a"}, prev.Diff(cur))
	assert.Empty(t, cur.Diff(cur))
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a b", comments.Normalize("  a\nb \n"))
	assert.Equal(t, "", comments.Normalize("\n"))
}
