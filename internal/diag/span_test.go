package diag

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddFileIdempotentByPath(t *testing.T) {
	c := NewCache()
	id1 := c.AddFile("test.ts", "let x = 1;")
	id2 := c.AddFile("test.ts", "let x = 2;") // second version must be ignored

	require.Equal(t, id1, id2)
	f, ok := c.File(id1)
	require.True(t, ok)
	require.Equal(t, "let x = 1;", f.Text)
}

func TestLineColumnRoundTrip(t *testing.T) {
	c := NewCache()
	text := "let x = 42;\nlet y = 100;\nlast"
	id := c.AddFile("test.ts", text)
	f, _ := c.File(id)

	for offset := 0; offset <= len(text); offset++ {
		line, col := f.LineColumn(uint32(offset))

		lines := strings.SplitAfter(text, "\n")
		var prefix strings.Builder
		for i := uint32(1); i < line; i++ {
			prefix.WriteString(lines[i-1])
		}
		prefix.WriteString(lines[line-1][:col-1])

		require.Equalf(t, text[:offset], prefix.String(), "offset=%d line=%d col=%d", offset, line, col)
	}
}

func TestLineText(t *testing.T) {
	c := NewCache()
	id := c.AddFile("test.ts", "line one\nline two\nline three")
	f, _ := c.File(id)

	line, ok := f.LineText(1)
	require.True(t, ok)
	require.Equal(t, "line one", line)

	line, ok = f.LineText(3)
	require.True(t, ok)
	require.Equal(t, "line three", line)

	_, ok = f.LineText(4)
	require.False(t, ok)
	_, ok = f.LineText(0)
	require.False(t, ok)
}

func TestSpanMergeRefusesCrossFile(t *testing.T) {
	a := Span{File: 0, Start: 0, End: 5}
	b := Span{File: 1, Start: 0, End: 5}

	require.Panics(t, func() { a.Merge(b) })

	dummyMerged := DummySpan.Merge(a)
	require.Equal(t, a, dummyMerged)
}

func TestSpanMerge(t *testing.T) {
	a := Span{File: 0, Start: 4, End: 10}
	b := Span{File: 0, Start: 2, End: 6}
	merged := a.Merge(b)
	require.Equal(t, Span{File: 0, Start: 2, End: 10}, merged)
}

func TestLocationDegradesForUnknownSpan(t *testing.T) {
	c := NewCache()
	_, ok := c.Location(DummySpan)
	require.False(t, ok)

	_, ok = c.Location(Span{File: 999})
	require.False(t, ok)
}
