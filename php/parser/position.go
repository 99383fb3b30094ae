package parser

import (
	"fmt"
	"sort"
)

// Position is a 1-based line and column (in bytes) together with the byte
// offset it was computed from.
type Position struct {
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type Span struct {
	Start Position
	End   Position
}

func (s Span) String() string {
	return s.Start.String() + "-" + s.End.String()
}

// LineIndex maps byte offsets to line/column positions. "\r\n" counts as a
// single line break, as does a lone "\r" or "\n".
type LineIndex struct {
	starts []int
	size   int
}

func NewLineIndex(src []byte) *LineIndex {
	idx := &LineIndex{starts: []int{0}, size: len(src)}
	for i := 0; i < len(src); i++ {
		switch src[i] {
		case '\r':
			if i+1 < len(src) && src[i+1] == '\n' {
				i++
			}
			idx.starts = append(idx.starts, i+1)
		case '\n':
			idx.starts = append(idx.starts, i+1)
		}
	}
	return idx
}

// LineCount returns the number of lines, counting a trailing empty line.
func (idx *LineIndex) LineCount() int {
	return len(idx.starts)
}

// Position converts an offset, clamped to the source bounds.
func (idx *LineIndex) Position(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > idx.size {
		offset = idx.size
	}
	line := sort.Search(len(idx.starts), func(i int) bool {
		return idx.starts[i] > offset
	}) - 1
	return Position{
		Offset: offset,
		Line:   line + 1,
		Column: offset - idx.starts[line] + 1,
	}
}

// Offset converts a 1-based line and column back to a byte offset. Out of
// range values are clamped.
func (idx *LineIndex) Offset(line, column int) int {
	if line < 1 {
		return 0
	}
	if line > len(idx.starts) {
		return idx.size
	}
	offset := idx.starts[line-1] + column - 1
	if offset < idx.starts[line-1] {
		offset = idx.starts[line-1]
	}
	if offset > idx.size {
		offset = idx.size
	}
	return offset
}

func (idx *LineIndex) Span(offset, length int) Span {
	return Span{Start: idx.Position(offset), End: idx.Position(offset + length)}
}
