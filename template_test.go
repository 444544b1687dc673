package msgfmt

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func mustCompile(t *testing.T, src string) map[string]Pattern {
	t.Helper()
	msgs, err := Compile(src)
	require.NoError(t, err)
	return msgs
}

func requireParseError(t *testing.T, err error, line int) *ParseError {
	t.Helper()
	var perr *ParseError
	require.True(t, errors.As(err, &perr), "expected *ParseError, got %v", err)
	require.Equal(t, line, perr.Line)
	return perr
}

func TestCompile(t *testing.T) {
	t.Parallel()

	t.Run("literal only", func(t *testing.T) {
		t.Parallel()
		msgs := mustCompile(t, "greeting = Hello!\n")
		require.Equal(t, Pattern{&Literal{Text: "Hello!"}}, msgs["greeting"])
	})

	t.Run("placeholder", func(t *testing.T) {
		t.Parallel()
		msgs := mustCompile(t, "greeting = Hello, {$name}!")
		require.Equal(t, Pattern{
			&Literal{Text: "Hello, "},
			&Placeholder{Name: "name"},
			&Literal{Text: "!"},
		}, msgs["greeting"])
	})

	t.Run("selector", func(t *testing.T) {
		t.Parallel()
		msgs := mustCompile(t, "items = {$count ->\n    [0] no items\n   *[other] {$count} items\n}\n")
		require.Len(t, msgs["items"], 1)

		sel, ok := msgs["items"][0].(*Selector)
		require.True(t, ok)
		require.Equal(t, "count", sel.Name)
		require.Equal(t, 1, sel.Default)
		require.Len(t, sel.Branches, 2)
		require.Equal(t, Guard{Text: "0", Number: 0, IsNumber: true}, sel.Branches[0].Guard)
		require.Equal(t, Pattern{&Literal{Text: "no items"}}, sel.Branches[0].Pattern)
		require.Equal(t, Guard{Text: "other"}, sel.Branches[1].Guard)
		require.Equal(t, Pattern{&Placeholder{Name: "count"}, &Literal{Text: " items"}}, sel.Branches[1].Pattern)
	})

	t.Run("selector arrow without spaces", func(t *testing.T) {
		t.Parallel()
		msgs := mustCompile(t, "a = {$n->\n *[x] y\n}")
		sel, ok := msgs["a"][0].(*Selector)
		require.True(t, ok)
		require.Equal(t, "n", sel.Name)
	})

	t.Run("nested selectors", func(t *testing.T) {
		t.Parallel()
		src := "msg = {$gender ->\n" +
			"    [female] {$count ->\n" +
			"        [1] she has one\n" +
			"       *[other] she has many\n" +
			"    }\n" +
			"   *[other] they have some\n" +
			"}\n"
		msgs := mustCompile(t, src)
		outer, ok := msgs["msg"][0].(*Selector)
		require.True(t, ok)
		require.Len(t, outer.Branches, 2)
		inner, ok := outer.Branches[0].Pattern[0].(*Selector)
		require.True(t, ok)
		require.Equal(t, "count", inner.Name)
		require.Len(t, inner.Branches, 2)
	})

	t.Run("continuation lines", func(t *testing.T) {
		t.Parallel()
		msgs := mustCompile(t, "long = first line\n    second line\nnext = x\n")
		require.Equal(t, Pattern{&Literal{Text: "first line\nsecond line"}}, msgs["long"])
		require.Equal(t, Pattern{&Literal{Text: "x"}}, msgs["next"])
	})

	t.Run("value on the next line", func(t *testing.T) {
		t.Parallel()
		msgs := mustCompile(t, "key =\n    starts below\n")
		require.Equal(t, Pattern{&Literal{Text: "starts below"}}, msgs["key"])
	})

	t.Run("comments and blank lines", func(t *testing.T) {
		t.Parallel()
		msgs := mustCompile(t, "# header\n\na = 1\n\n# between\nb = 2\r\n")
		require.Len(t, msgs, 2)
		require.Equal(t, Pattern{&Literal{Text: "2"}}, msgs["b"])
	})

	t.Run("duplicate key last wins", func(t *testing.T) {
		t.Parallel()
		msgs := mustCompile(t, "a = first\nb = other\na = second\n")
		require.Equal(t, Pattern{&Literal{Text: "second"}}, msgs["a"])
	})

	t.Run("escapes", func(t *testing.T) {
		t.Parallel()
		msgs := mustCompile(t, `a = \{$name\} costs \\ 5`)
		require.Equal(t, Pattern{&Literal{Text: `{$name} costs \ 5`}}, msgs["a"])
	})

	t.Run("empty value", func(t *testing.T) {
		t.Parallel()
		msgs := mustCompile(t, "empty =\n")
		p, ok := msgs["empty"]
		require.True(t, ok)
		require.Empty(t, p)
	})

	t.Run("byte order mark", func(t *testing.T) {
		t.Parallel()
		msgs := mustCompile(t, "\uFEFFa = b")
		require.Contains(t, msgs, "a")
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()
		require.Empty(t, mustCompile(t, ""))
	})
}

func TestCompile_Errors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		src  string
		line int
	}{
		{name: "no default branch", src: "a = ok\nitems = {$count ->\n    [0] none\n    [other] some\n}\n", line: 5},
		{name: "two default branches", src: "items = {$count ->\n   *[0] none\n   *[other] some\n}\n", line: 3},
		{name: "unterminated selector", src: "items = {$count ->\n    *[other] some\n", line: 2},
		{name: "unterminated placeholder", src: "a = Hello {$name", line: 1},
		{name: "missing dollar", src: "a = Hello {name}", line: 1},
		{name: "missing variable name", src: "a = {$}", line: 1},
		{name: "unknown escape", src: "a = ok\nb = bad \\q", line: 2},
		{name: "unbalanced closing brace", src: "a = oops }", line: 1},
		{name: "missing equals", src: "a = ok\njust text\n", line: 2},
		{name: "invalid key", src: "bad key = x", line: 1},
		{name: "continuation without entry", src: "   floating", line: 1},
		{name: "empty variant key", src: "a = {$x ->\n *[] y\n}", line: 2},
		{name: "unterminated variant key", src: "a = {$x ->\n *[y\n}", line: 2},
		{name: "invalid utf8", src: "a = ok\nb = \xff\n", line: 2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := Compile(tc.src)
			require.Error(t, err)
			requireParseError(t, err, tc.line)
		})
	}
}
