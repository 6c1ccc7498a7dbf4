package logging

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerWithPath_JSONToWriter(t *testing.T) {
	var buf bytes.Buffer
	result := NewLoggerWithPath(Config{Level: "debug", Format: FormatJSON, Output: &buf})
	defer result.Close()

	assert.False(t, result.UsingFile)
	logger := ComponentLogger(result.Logger, "window")
	logger.Debug().Int("start", 5).Msg("range applied")

	out := buf.String()
	assert.Contains(t, out, `"component":"window"`)
	assert.Contains(t, out, `"start":5`)
	assert.Contains(t, out, `"message":"range applied"`)
}

func TestNewLoggerWithPath_LevelFallback(t *testing.T) {
	var buf bytes.Buffer
	result := NewLoggerWithPath(Config{Level: "chatty", Format: FormatJSON, Output: &buf})
	assert.Equal(t, zerolog.InfoLevel, result.Logger.GetLevel())

	result.Logger.Debug().Msg("hidden")
	assert.Empty(t, buf.String())
}

func TestNewLoggerWithPath_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "trajview.log")
	result := NewLoggerWithPath(Config{Level: "info", File: path})
	require.True(t, result.UsingFile)
	assert.Equal(t, path, result.FilePath)

	result.Logger.Info().Msg("to file")
	require.NoError(t, result.Close())
	require.NoError(t, result.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}

func TestNewLoggerWithPath_FileFallback(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	var buf bytes.Buffer
	result := NewLoggerWithPath(Config{File: filepath.Join(blocker, "nested.log"), Output: &buf, Format: FormatJSON})
	assert.False(t, result.UsingFile)
	assert.True(t, result.FallbackUsed)
	assert.NotEmpty(t, result.FallbackReason)
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(Config{Format: FormatJSON, Output: &buf})
	ctx := l.WithContext(context.Background())

	FromContext(ctx).Info().Msg("from ctx")
	assert.Contains(t, buf.String(), "from ctx")

	// No logger stored: zerolog returns a disabled logger rather than nil.
	assert.NotNil(t, FromContext(context.Background()))
}

func TestPrintHelpers(t *testing.T) {
	var buf bytes.Buffer
	PrintLogPathMessage(&buf, "/tmp/x.log")
	PrintFallbackWarning(&buf, "denied")
	assert.Contains(t, buf.String(), "Logging to /tmp/x.log")
	assert.Contains(t, buf.String(), "denied")
}
