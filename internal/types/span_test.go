package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOffsetRangeClamp(t *testing.T) {
	tests := []struct {
		name  string
		in    OffsetRange
		limit int
		want  OffsetRange
	}{
		{"inside", OffsetRange{2, 5}, 10, OffsetRange{2, 5}},
		{"negative start", OffsetRange{-3, 4}, 10, OffsetRange{0, 4}},
		{"past end", OffsetRange{8, 20}, 10, OffsetRange{8, 10}},
		{"reversed", OffsetRange{6, 1}, 10, OffsetRange{1, 6}},
		{"empty text", OffsetRange{0, 0}, 0, OffsetRange{0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Clamp(tt.limit))
		})
	}
}

func TestOffsetRangeText(t *testing.T) {
	content := "const x = 1;"
	assert.Equal(t, "x", OffsetRange{6, 7}.Text(content))
	assert.Equal(t, "1;", OffsetRange{10, 99}.Text(content))
	assert.Equal(t, "", OffsetRange{3, 3}.Text(content))
}

func TestOffsetRangeContains(t *testing.T) {
	outer := OffsetRange{0, 10}
	assert.True(t, outer.Contains(OffsetRange{0, 10}))
	assert.True(t, outer.Contains(OffsetRange{3, 4}))
	assert.False(t, outer.Contains(OffsetRange{5, 11}))
}

func TestPositionBefore(t *testing.T) {
	assert.True(t, Position{Line: 0, Col: 5}.Before(Position{Line: 1, Col: 0}))
	assert.True(t, Position{Line: 2, Col: 1}.Before(Position{Line: 2, Col: 3}))
	assert.False(t, Position{Line: 2, Col: 3}.Before(Position{Line: 2, Col: 3}))
}
