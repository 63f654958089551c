package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinLookup(t *testing.T) {
	RegisterBuiltins()

	tests := []struct {
		query string
		want  string
	}{
		{"tsx", "tsx"},
		{"TS", "typescript"},
		{"js", "javascript"},
		{"golang", "go"},
		{" py ", "python"},
		{"rs", "rust"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			l := Get(tt.query)
			require.NotNil(t, l)
			assert.Equal(t, tt.want, l.Name)
			assert.NotNil(t, l.TreeSitterLang)
		})
	}

	assert.Nil(t, Get("cobol"))
}

func TestGetForFile(t *testing.T) {
	RegisterBuiltins()

	assert.Equal(t, "tsx", GetForFile("components/App.TSX").Name)
	assert.Equal(t, "go", GetForFile("/tmp/main.go").Name)
	assert.Equal(t, "javascript", GetForFile("codemod.cjs").Name)
	assert.Nil(t, GetForFile("README"))
}

func TestDefaultLanguage(t *testing.T) {
	l := Default()
	require.NotNil(t, l)
	assert.Equal(t, DefaultLanguage, l.Name)
	assert.True(t, l.IsRootType("program"))
	assert.False(t, l.IsRootType("expression_statement"))
}

func TestGetAllSorted(t *testing.T) {
	RegisterBuiltins()
	all := GetAll()
	require.GreaterOrEqual(t, len(all), 6)
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].Name, all[i].Name)
	}
}
