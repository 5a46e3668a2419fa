package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader(t *testing.T) {
	t.Run("Should apply defaults", func(t *testing.T) {
		l := NewLoader()
		require.NoError(t, l.Load())
		require.NoError(t, l.Set("source.path", "book.xlsx"))

		cfg, err := l.Config()
		require.NoError(t, err)
		assert.Equal(t, 4, cfg.Sheet.HeaderRow)
		assert.Equal(t, 14, cfg.Sheet.ImageColumn)
		assert.Equal(t, 3, cfg.Remote.RetryAttempts)
		assert.Equal(t, 1500*time.Millisecond, cfg.Remote.RetryStep)
		assert.True(t, cfg.Remote.MakePublic)
		assert.Equal(t, "book.xlsx", cfg.Source.Path)
	})

	t.Run("Should read prefixed environment variables", func(t *testing.T) {
		t.Setenv("XLCATALOG_SOURCE_PATH", "env.xlsx")
		t.Setenv("XLCATALOG_SHEET_HEADER_ROW", "2")
		t.Setenv("XLCATALOG_REMOTE_RETRY_STEP", "250ms")
		t.Setenv("XLCATALOG_REMOTE_MAKE_PUBLIC", "false")

		l := NewLoader()
		require.NoError(t, l.Load())
		cfg, err := l.Config()
		require.NoError(t, err)
		assert.Equal(t, "env.xlsx", cfg.Source.Path)
		assert.Equal(t, 2, cfg.Sheet.HeaderRow)
		assert.Equal(t, 250*time.Millisecond, cfg.Remote.RetryStep)
		assert.False(t, cfg.Remote.MakePublic)
	})

	t.Run("Should read env files and skip missing ones", func(t *testing.T) {
		dir := t.TempDir()
		file := filepath.Join(dir, ".env")
		require.NoError(t, os.WriteFile(file, []byte("XLCATALOG_SHEET_IMAGE_COLUMN=3\n"), 0o644))
		t.Cleanup(func() { os.Unsetenv("XLCATALOG_SHEET_IMAGE_COLUMN") })

		l := NewLoader()
		require.NoError(t, l.Load(filepath.Join(dir, "missing.env"), file))
		require.NoError(t, l.Set("source.path", "book.xlsx"))
		cfg, err := l.Config()
		require.NoError(t, err)
		assert.Equal(t, 3, cfg.Sheet.ImageColumn)
	})

	t.Run("Should reject invalid values", func(t *testing.T) {
		l := NewLoader()
		require.NoError(t, l.Load())
		require.NoError(t, l.Set("source.path", "book.xlsx"))
		require.NoError(t, l.Set("sheet.header_row", 0))

		_, err := l.Config()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "HeaderRow")
	})

	t.Run("Should require a source path", func(t *testing.T) {
		l := NewLoader()
		require.NoError(t, l.Load())
		_, err := l.Config()
		require.Error(t, err)
	})
}

func TestTransformEnvKey(t *testing.T) {
	cases := map[string]string{
		"XLCATALOG_SOURCE_PATH":           "source.path",
		"XLCATALOG_REMOTE_RETRY_ATTEMPTS": "remote.retry_attempts",
		"XLCATALOG_LOG__LEVEL":            "log.level",
		"XLCATALOG_DEBUG":                 "debug",
	}
	for in, want := range cases {
		got, _ := transformEnvKey(in, "")
		assert.Equal(t, want, got, in)
	}
}
