package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("TETRIS_TEST_STR", "value")
	assert.Equal(t, "value", GetEnv("TETRIS_TEST_STR", "fallback"))
	assert.Equal(t, "fallback", GetEnv("TETRIS_TEST_UNSET", "fallback"))

	t.Setenv("TETRIS_TEST_EMPTY", "")
	assert.Equal(t, "", GetEnv("TETRIS_TEST_EMPTY", "fallback"), "set but empty is still set")
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		value    string
		fallback bool
		want     bool
	}{
		{"true", false, true},
		{"1", false, true},
		{"false", true, false},
		{"0", true, false},
		{"maybe", true, true},
		{"maybe", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("TETRIS_TEST_BOOL", tt.value)
			assert.Equal(t, tt.want, GetEnvBool("TETRIS_TEST_BOOL", tt.fallback))
		})
	}
	assert.True(t, GetEnvBool("TETRIS_TEST_UNSET", true))
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("TETRIS_TEST_INT", "42")
	assert.Equal(t, 42, GetEnvInt("TETRIS_TEST_INT", 7))

	t.Setenv("TETRIS_TEST_INT", "forty-two")
	assert.Equal(t, 7, GetEnvInt("TETRIS_TEST_INT", 7))

	assert.Equal(t, 7, GetEnvInt("TETRIS_TEST_UNSET", 7))
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("TETRIS_TEST_DOTENV=from-file\nTETRIS_TEST_KEEP=file\n"), 0o600))

	t.Setenv("TETRIS_TEST_KEEP", "env")
	// Registered so t restores the variable after the file sets it.
	t.Setenv("TETRIS_TEST_DOTENV", "")
	require.NoError(t, os.Unsetenv("TETRIS_TEST_DOTENV"))

	require.NoError(t, LoadFile(path))
	assert.Equal(t, "from-file", os.Getenv("TETRIS_TEST_DOTENV"))
	assert.Equal(t, "env", os.Getenv("TETRIS_TEST_KEEP"), "existing variables are not overridden")
}

func TestLoadFileMissing(t *testing.T) {
	assert.NoError(t, LoadFile(filepath.Join(t.TempDir(), "nope.env")))
}

func TestLoadSkippedInProduction(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	assert.NoError(t, Load())
}
