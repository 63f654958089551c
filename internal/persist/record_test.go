package persist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordRoundTrip(t *testing.T) {
	in := Record{
		SelectedPairIndex: 1,
		Engine:            "ts-morph",
		Language:          "tsx",
		Editors: []PairRecord{
			{ID: "a", Name: "Test 1", Before: SnippetRecord{Content: "const x = 1;"}},
			{ID: "b", Name: "renamed", After: SnippetRecord{Content: "let y;"}, Output: SnippetRecord{Content: "out"}},
		},
	}

	data, err := EncodeRecord(in)
	require.NoError(t, err)

	out, err := DecodeRecord(data)
	require.NoError(t, err)
	in.Version = RecordVersion
	assert.Equal(t, in, out)
}

func TestDecodeLegacyArray(t *testing.T) {
	data := []byte(`[{"name":"Test 1","before":{"content":"a;","rootNode":{"id":"x"},"ranges":[]},"after":{"content":"b;"},"output":{"content":""}}]`)

	r, err := DecodeRecord(data)
	require.NoError(t, err)
	require.Len(t, r.Editors, 1)
	assert.Equal(t, "Test 1", r.Editors[0].Name)
	assert.Equal(t, "a;", r.Editors[0].Before.Content)
	assert.Equal(t, "b;", r.Editors[0].After.Content)
}

func TestDecodeRecordRejects(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		schema bool
	}{
		{"empty", "", true},
		{"malformed", `{"version":1,"editors":[`, false},
		{"scalar", `42`, true},
		{"wrong version", `{"version":7,"editors":[{"name":"x"}]}`, true},
		{"no editors", `{"version":1,"editors":[]}`, true},
		{"empty legacy array", `[]`, true},
		{"wrong shape", `{"version":1,"editors":"nope"}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeRecord([]byte(tt.data))
			require.Error(t, err)
			if tt.schema {
				assert.ErrorIs(t, err, ErrSchemaMismatch)
			}
		})
	}
}

func TestDecodeRecordClampsSelection(t *testing.T) {
	r, err := DecodeRecord([]byte(`{"version":1,"selectedPairIndex":9,"editors":[{"name":"a"},{"name":"b"}]}`))
	require.NoError(t, err)
	assert.Equal(t, 0, r.SelectedPairIndex)
}
