package logger

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetLogger(t *testing.T) {
	t.Cleanup(func() { Init(NewConfig(), io.Discard) })
}

func TestLevelFiltering(t *testing.T) {
	resetLogger(t)
	var buf bytes.Buffer
	Init(Config{LogLevel: "warn"}, &buf)

	Infof("info-should-not-appear")
	Warnf("warn-should-appear %d", 42)

	out := buf.String()
	assert.NotContains(t, out, "info-should-not-appear")
	assert.Contains(t, out, "warn-should-appear 42")
}

func TestTagFiltering(t *testing.T) {
	resetLogger(t)
	var buf bytes.Buffer
	Init(Config{LogLevel: "debug", DisabledTags: []string{"Noisy"}}, &buf)

	DebugTagf("noisy", "dropped-message")
	DebugTagf("store", "kept-message")

	out := buf.String()
	assert.NotContains(t, out, "dropped-message")
	assert.Contains(t, out, "kept-message")
	assert.Contains(t, out, "tag=store")
}

func TestEnabledTagsSilenceUntagged(t *testing.T) {
	resetLogger(t)
	var buf bytes.Buffer
	Init(Config{LogLevel: "debug", EnabledTags: []string{"parser"}}, &buf)

	Infof("untagged-message")
	InfoTagf("parser", "parser-message")
	InfoTagf("store", "store-message")

	out := buf.String()
	assert.NotContains(t, out, "untagged-message")
	assert.NotContains(t, out, "store-message")
	assert.Contains(t, out, "parser-message")
}

func TestPackageFiltering(t *testing.T) {
	resetLogger(t)
	var buf bytes.Buffer
	Init(Config{LogLevel: "debug", DisabledPackages: []string{"logger"}}, &buf)

	Errorf("from-logger-package")
	assert.NotContains(t, buf.String(), "from-logger-package")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name  string
		known bool
	}{
		{"debug", true},
		{"INFO", true},
		{"warning", true},
		{"err", true},
		{"", true},
		{"verbose", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := ParseLevel(tt.name)
			assert.Equal(t, tt.known, ok)
		})
	}
}

func TestOpenOutputStderr(t *testing.T) {
	w, closeFn, err := OpenOutput("-")
	assert.NoError(t, err)
	assert.NotNil(t, w)
	assert.NoError(t, closeFn())
}

func TestOpenOutputCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "studio.log")
	w, closeFn, err := OpenOutput(path)
	require.NoError(t, err)
	Init(Config{LogLevel: "info"}, w)
	resetLogger(t)
	Infof("to-file")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to-file")
}
