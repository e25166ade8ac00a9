package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadWithoutConfig(t *testing.T) {
	f := &flags{LogLevel: "warn"}
	require.NoError(t, f.load())
	require.Equal(t, "warn", f.LogLevel)
	require.False(t, f.DenySleep)
}

func TestLoadMergesUnderFlags(t *testing.T) {
	f := &flags{
		LogLevel:   "warn",
		ConfigFile: writeConfig(t, `{"verbose": true, "log_level": "debug", "deny_sleep": true}`),
	}
	require.NoError(t, f.load())
	require.True(t, f.Verbose)
	require.True(t, f.DenySleep)
	require.Equal(t, "warn", f.LogLevel)

	f = &flags{ConfigFile: writeConfig(t, `{"log_level": "debug"}`)}
	require.NoError(t, f.load())
	require.Equal(t, "debug", f.LogLevel)
}

func TestLoadErrors(t *testing.T) {
	f := &flags{ConfigFile: filepath.Join(t.TempDir(), "missing.json")}
	err := f.load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "read config file")

	f = &flags{ConfigFile: writeConfig(t, `{"verbose": `)}
	err = f.load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "decode config file")
}
