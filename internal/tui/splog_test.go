package tui

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"hubkit.dev/hubkit/internal/errors"
)

func TestSplog(t *testing.T) {
	t.Run("writes bare messages with prefixes", func(t *testing.T) {
		var buf bytes.Buffer
		splog := NewSplogWithWriter(&buf, false)

		splog.Info("fetching %s", "upstream")
		splog.Warn("careful")
		splog.Error("failed: %d", 2)
		splog.Debug("hidden")

		require.Equal(t, "fetching upstream\n⚠️  careful\n❌ failed: 2\n", buf.String())
	})

	t.Run("debug enabled", func(t *testing.T) {
		var buf bytes.Buffer
		splog := NewSplogWithWriter(&buf, true)
		splog.Debug("state=%s", "rebasing")
		require.Equal(t, "state=rebasing\n", buf.String())
	})

	t.Run("quiet keeps warnings, errors and pages", func(t *testing.T) {
		var buf bytes.Buffer
		splog := NewSplogWithWriter(&buf, true)
		splog.SetQuiet(true)
		splog.Info("nothing")
		splog.Success("done")
		splog.Tip("try this")
		splog.Debug("state")
		splog.Warn("careful")
		splog.Error("failed")
		splog.Page("result\n")
		require.Equal(t, "⚠️  careful\n❌ failed\nresult\n", buf.String())
	})

	t.Run("tips are prefixed", func(t *testing.T) {
		var buf bytes.Buffer
		splog := NewSplogWithWriter(&buf, false)
		splog.Tip("run %s", "hubkit sync")
		require.Equal(t, "💡 run hubkit sync\n", buf.String())
	})

	t.Run("format verbs without args are kept", func(t *testing.T) {
		var buf bytes.Buffer
		splog := NewSplogWithWriter(&buf, false)
		splog.Info("100%")
		require.Equal(t, "100%\n", buf.String())
	})
}

func TestSplogWithFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "hubkit.log")

	splog, err := NewSplogWithConfig(logPath)
	require.NoError(t, err)
	splog.SetQuiet(true)
	splog.Debug("written to file only")
	require.NoError(t, splog.Close())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	require.Contains(t, string(data), "written to file only")
	require.Contains(t, string(data), "level=DEBUG")
}

func TestGetLogFilePath(t *testing.T) {
	t.Setenv("HUBKIT_LOG_FILE", "/tmp/custom.log")
	require.Equal(t, "/tmp/custom.log", GetLogFilePath())

	t.Setenv("HUBKIT_LOG_FILE", "")
	t.Setenv("HOME", "/home/dev")
	require.Equal(t, filepath.Join("/home/dev", ".hubkit", "logs", "hubkit.log"), GetLogFilePath())
}

func TestConfirmNonInteractive(t *testing.T) {
	t.Setenv("HUBKIT_NO_INTERACTIVE", "1")

	_, err := NewPrompter().Confirm("Continue?", true)
	require.ErrorIs(t, err, errors.ErrInteractiveDisabled)
}
