package snippets

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/modstudio/internal/event"
	"github.com/bethropolis/modstudio/internal/persist"
)

func TestPersistenceRoundTrip(t *testing.T) {
	storage := persist.NewMemory()
	s := newTestStore(t, WithStorage(storage))
	s.AddPair()
	s.AddPair()
	s.SetContent(0, Before)("const a = 1;")
	s.SetContent(1, After)("let b = (")
	s.SetContent(2, Output)("export default {};")
	s.RenameEditor(1)("broken on purpose")
	require.NoError(t, s.SetEngine(EngineRecast))
	require.NoError(t, s.SetSelectedPairIndex(2))
	want := s.Snapshot()

	opts, log := withEventLog(WithStorage(storage))
	reloaded := newTestStore(t, opts...)
	got := reloaded.Snapshot()

	require.Len(t, got.Pairs, len(want.Pairs))
	for i := range want.Pairs {
		assert.Equal(t, want.Pairs[i].ID, got.Pairs[i].ID)
		assert.Equal(t, want.Pairs[i].Name, got.Pairs[i].Name)
		for _, et := range EditorTypes {
			assert.Equal(t, want.Pairs[i].Snippet(et).Content, got.Pairs[i].Snippet(et).Content, "pair %d %s", i, et)
			assert.Equal(t, want.Pairs[i].Snippet(et).Root == nil, got.Pairs[i].Snippet(et).Root == nil,
				"trees are rebuilt on load")
		}
	}
	assert.Equal(t, 2, got.SelectedPairIndex)
	assert.Equal(t, EngineRecast, got.Engine)

	e, ok := log.last(event.TypeStoreLoaded)
	require.True(t, ok)
	assert.Equal(t, event.StoreLoadedData{Restored: true, PairCount: 3}, e.Data)
}

func TestPersistenceRestoresLanguage(t *testing.T) {
	storage := persist.NewMemory()
	s := newTestStore(t, WithStorage(storage))
	s.SetContent(0, Before)("fn main() {}")
	require.NoError(t, s.SetLanguage("rust"))

	reloaded := newTestStore(t, WithStorage(storage))
	st := reloaded.Snapshot()
	assert.Equal(t, "rust", st.Language)
	require.NotNil(t, st.Pairs[0].Before.Root)
	assert.Equal(t, "source_file", st.Pairs[0].Before.Root.Type)
}

func TestPersistenceUsesStorageKey(t *testing.T) {
	storage := persist.NewMemory()
	s := newTestStore(t, WithStorage(storage), WithStorageKey("workspace-a"))
	s.SetContent(0, Before)("a;")

	_, err := storage.Load(context.Background(), persist.DefaultKey)
	assert.ErrorIs(t, err, persist.ErrNotFound)
	data, err := storage.Load(context.Background(), "workspace-a")
	require.NoError(t, err)
	assert.Contains(t, string(data), `"content":"a;"`)
}

func TestLoadFallsBackToDefaults(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"malformed json", `{"editors": [`},
		{"version mismatch", `{"version": 99, "editors": [{"name": "x"}]}`},
		{"no editors", `{"version": 1, "editors": []}`},
		{"not an object", `"editors"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := persist.NewMemory()
			require.NoError(t, storage.Save(context.Background(), persist.DefaultKey, []byte(tt.data)))

			opts, log := withEventLog(WithStorage(storage))
			s := newTestStore(t, opts...)
			st := s.Snapshot()
			require.Len(t, st.Pairs, 1)
			assert.Equal(t, "Test 1", st.Pairs[0].Name)

			e, ok := log.last(event.TypeStoreLoaded)
			require.True(t, ok)
			assert.False(t, e.Data.(event.StoreLoadedData).Restored)
		})
	}
}

func TestLoadUnavailableStorage(t *testing.T) {
	s := newTestStore(t, WithStorage(persist.Unavailable{}))
	s.SetContent(0, Before)("a;")
	assert.Equal(t, "a;", s.Snapshot().Pairs[0].Before.Content)
}

func TestLoadLegacyRecord(t *testing.T) {
	storage := persist.NewMemory()
	legacy := `[{"name":"old","before":{"content":"a;"},"after":{"content":"b;"},"output":{"content":""}},
		{"name":"","before":{"content":""},"after":{"content":""},"output":{"content":""}}]`
	require.NoError(t, storage.Save(context.Background(), persist.DefaultKey, []byte(legacy)))

	s := newTestStore(t, WithStorage(storage))
	st := s.Snapshot()
	require.Len(t, st.Pairs, 2)
	assert.Equal(t, "old", st.Pairs[0].Name)
	assert.Equal(t, "Test 2", st.Pairs[1].Name, "unnamed pairs get a default name")
	assert.NotEmpty(t, st.Pairs[0].ID)
	assert.NotEqual(t, st.Pairs[0].ID, st.Pairs[1].ID)
	assert.NotNil(t, st.Pairs[0].Before.Root)
	assert.Equal(t, DefaultEngine, st.Engine)
}

func TestLoadRepairsDuplicateIDs(t *testing.T) {
	storage := persist.NewMemory()
	rec := `{"version":1,"selectedPairIndex":1,"engine":"nope","language":"klingon","editors":[
		{"id":"same","name":"a","before":{"content":""},"after":{"content":""},"output":{"content":""}},
		{"id":"same","name":"b","before":{"content":""},"after":{"content":""},"output":{"content":""}}]}`
	require.NoError(t, storage.Save(context.Background(), persist.DefaultKey, []byte(rec)))

	s := newTestStore(t, WithStorage(storage))
	st := s.Snapshot()
	require.Len(t, st.Pairs, 2)
	assert.Equal(t, "same", st.Pairs[0].ID)
	assert.NotEqual(t, "same", st.Pairs[1].ID)
	assert.Equal(t, 1, st.SelectedPairIndex)
	assert.Equal(t, DefaultEngine, st.Engine, "unknown engines fall back")
	assert.Equal(t, "tsx", st.Language, "unknown languages fall back")
}

func TestPersistThroughAsyncWriter(t *testing.T) {
	storage := persist.NewMemory()
	w := persist.NewWriter(storage, nil)
	s := newTestStore(t, WithStorage(w))
	s.SetContent(0, Before)("queued;")
	require.NoError(t, w.Close())

	reloaded := newTestStore(t, WithStorage(storage))
	assert.Equal(t, "queued;", reloaded.Snapshot().Pairs[0].Before.Content)
}
