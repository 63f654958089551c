// internal/event/event.go
package event

// Type identifies the kind of event.
type Type int

// Store lifecycle and mutation events.
const (
	TypeUnknown Type = iota

	TypeStoreLoaded         // Fired once the store has restored (or defaulted) its state
	TypeContentChanged      // Fired after a snippet's content was replaced and re-parsed
	TypeSelectionChanged    // Fired after a snippet's ranges were rebuilt
	TypePairsChanged        // Fired when pairs are added, removed, renamed or cleared
	TypeSelectedPairChanged // Fired when the selected pair index changes
	TypeEngineChanged       // Fired when the codemod engine changes
	TypePersistFailed       // Fired when writing the collection to storage failed
)

var typeNames = map[Type]string{
	TypeUnknown:             "unknown",
	TypeStoreLoaded:         "store-loaded",
	TypeContentChanged:      "content-changed",
	TypeSelectionChanged:    "selection-changed",
	TypePairsChanged:        "pairs-changed",
	TypeSelectedPairChanged: "selected-pair-changed",
	TypeEngineChanged:       "engine-changed",
	TypePersistFailed:       "persist-failed",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "unknown"
}

// Event is the structure passed through the event bus.
type Event struct {
	Type Type
	Data any
}

// StoreLoadedData reports where the initial state came from.
type StoreLoadedData struct {
	Restored  bool // false when the default state was used
	PairCount int
}

// SnippetData identifies one snippet slot.
type SnippetData struct {
	PairIndex  int
	PairID     string
	EditorType string
}

// PairsChangedData describes a structural change to the pair collection.
type PairsChangedData struct {
	Action    string // "add", "remove", "rename", "clear", "undo", "redo"
	PairIndex int
	PairCount int
}

// SelectedPairChangedData carries the new selection.
type SelectedPairChangedData struct {
	PairIndex int
}

// EngineChangedData carries the new engine name.
type EngineChangedData struct {
	Engine string
}

// PersistFailedData carries the storage error.
type PersistFailedData struct {
	Key string
	Err error
}
