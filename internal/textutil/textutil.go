// Package textutil converts between byte offsets and line/rune positions.
package textutil

import (
	"sort"
	"unicode/utf8"

	"github.com/bethropolis/modstudio/internal/types"
)

// ByteOffsetToRuneIndex converts a byte offset to a rune index in a byte slice.
// Offsets inside a multi-byte rune resolve to that rune's index.
func ByteOffsetToRuneIndex(line []byte, byteOffset int) int {
	if byteOffset <= 0 {
		return 0
	}
	if byteOffset > len(line) {
		byteOffset = len(line)
	}
	runeIndex := 0
	currentOffset := 0
	for currentOffset < byteOffset {
		_, size := utf8.DecodeRune(line[currentOffset:])
		if currentOffset+size > byteOffset {
			break
		}
		currentOffset += size
		runeIndex++
	}
	return runeIndex
}

// LineIndex maps byte offsets of one text to line/rune-column positions.
// Lookups cost a binary search over line starts; columns are precomputed.
type LineIndex struct {
	text       string
	lineStarts []int
	// cols[i] is the rune column of byte offset i. Nil when text is ASCII,
	// where the column is the byte distance from the line start.
	cols []int32
}

// NewLineIndex scans text once for line starts and, for non-ASCII text,
// rune columns.
func NewLineIndex(text string) *LineIndex {
	starts := []int{0}
	ascii := true
	for i := 0; i < len(text); i++ {
		switch {
		case text[i] == '\n':
			starts = append(starts, i+1)
		case text[i] >= utf8.RuneSelf:
			ascii = false
		}
	}
	li := &LineIndex{text: text, lineStarts: starts}
	if !ascii {
		li.cols = runeColumns(text)
	}
	return li
}

// runeColumns assigns every byte offset the column of the rune containing it,
// matching ByteOffsetToRuneIndex on each line.
func runeColumns(text string) []int32 {
	cols := make([]int32, len(text)+1)
	var col int32
	for i := 0; i < len(text); {
		_, size := utf8.DecodeRuneInString(text[i:])
		for k := i; k < i+size; k++ {
			cols[k] = col
		}
		col++
		if text[i] == '\n' {
			col = 0
		}
		i += size
	}
	cols[len(text)] = col
	return cols
}

// LineCount returns the number of lines, counting a trailing empty line.
func (li *LineIndex) LineCount() int {
	return len(li.lineStarts)
}

// Position resolves a byte offset. Offsets are clamped to the text bounds.
func (li *LineIndex) Position(offset int) types.Position {
	offset = min(max(offset, 0), len(li.text))
	// Last line whose start is <= offset.
	line := sort.Search(len(li.lineStarts), func(i int) bool {
		return li.lineStarts[i] > offset
	}) - 1
	col := offset - li.lineStarts[line]
	if li.cols != nil {
		col = int(li.cols[offset])
	}
	return types.Position{Line: line, Col: col}
}

// Offset is the inverse of Position. Columns past the end of a line clamp to it.
func (li *LineIndex) Offset(pos types.Position) int {
	if pos.Line < 0 {
		return 0
	}
	if pos.Line >= len(li.lineStarts) {
		return len(li.text)
	}
	start := li.lineStarts[pos.Line]
	end := len(li.text)
	if pos.Line+1 < len(li.lineStarts) {
		end = li.lineStarts[pos.Line+1] - 1 // exclude the newline
	}
	offset := start
	for col := 0; col < pos.Col && offset < end; col++ {
		_, size := utf8.DecodeRuneInString(li.text[offset:end])
		offset += size
	}
	return offset
}
