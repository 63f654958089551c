package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bethropolis/modstudio/internal/snippets"
)

// readInput returns the contents of path, or of stdin when path is empty or "-".
func readInput(cmd *cobra.Command, path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading '%s': %w", path, err)
	}
	return string(data), nil
}

func argAt(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

// pairArg parses a pair index and checks it against the store.
func pairArg(store *snippets.Store, arg string) (int, error) {
	index, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid pair index %q", arg)
	}
	if index < 0 || index >= store.Len() {
		return 0, fmt.Errorf("%w: %d (have %d pairs)", snippets.ErrIndexOutOfRange, index, store.Len())
	}
	return index, nil
}

// slotArgs resolves the <pair> <slot> prefix shared by set and select.
func slotArgs(store *snippets.Store, args []string) (int, snippets.EditorType, error) {
	index, err := pairArg(store, args[0])
	if err != nil {
		return 0, "", err
	}
	slot, err := snippets.ParseEditorType(args[1])
	if err != nil {
		return 0, "", err
	}
	return index, slot, nil
}
