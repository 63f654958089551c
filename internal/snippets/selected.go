package snippets

import "github.com/bethropolis/modstudio/internal/tree"

// SelectedEditors is the selected pair together with setters bound to its
// index at the time SelectedEditors was called.
type SelectedEditors struct {
	Index int
	EditorPair

	SetBeforeSnippet func(text string)
	SetAfterSnippet  func(text string)
	SetOutputSnippet func(text string)

	SetBeforeSelection func(cmd tree.Command)
	SetAfterSelection  func(cmd tree.Command)
	SetOutputSelection func(cmd tree.Command)

	Rename func(name string)
}

// SelectedEditors returns the selected pair and its bound setters.
func (s *Store) SelectedEditors() SelectedEditors {
	st := s.Snapshot()
	i := st.SelectedPairIndex
	return SelectedEditors{
		Index:      i,
		EditorPair: st.Selected(),

		SetBeforeSnippet: s.SetContent(i, Before),
		SetAfterSnippet:  s.SetContent(i, After),
		SetOutputSnippet: s.SetContent(i, Output),

		SetBeforeSelection: s.SetSelection(i, Before),
		SetAfterSelection:  s.SetSelection(i, After),
		SetOutputSelection: s.SetSelection(i, Output),

		Rename: s.RenameEditor(i),
	}
}
