package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDotEnvFiles_Order(t *testing.T) {
	got := DotEnvFiles("/app", ModeDevelopment)
	assert.Equal(t, []string{
		filepath.Join("/app", ".env.development.local"),
		filepath.Join("/app", ".env.local"),
		filepath.Join("/app", ".env.development"),
		filepath.Join("/app", ".env"),
	}, got)
}

func TestDotEnvFiles_TestModeSkipsLocal(t *testing.T) {
	got := DotEnvFiles("/app", ModeTest)
	assert.NotContains(t, got, filepath.Join("/app", ".env.local"))
	assert.Len(t, got, 3)
}

func TestLoadDotEnv_DoesNotOverrideExisting(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("REACT_APP_GREETING=from-file\nREACT_APP_ONLY_FILE=file\n"), 0o600))

	t.Setenv("REACT_APP_GREETING", "from-shell")
	t.Cleanup(func() { _ = os.Unsetenv("REACT_APP_ONLY_FILE") })

	loaded, err := LoadDotEnv(dir, ModeDevelopment)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, ".env")}, loaded)
	assert.Equal(t, "from-shell", os.Getenv("REACT_APP_GREETING"))
	assert.Equal(t, "file", os.Getenv("REACT_APP_ONLY_FILE"))
}

func TestLoadDotEnv_ModeFileWinsOverBase(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("REACT_APP_LAYER=base\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.production"), []byte("REACT_APP_LAYER=prod\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("REACT_APP_LAYER") })

	loaded, err := LoadDotEnv(dir, ModeProduction)
	require.NoError(t, err)
	assert.Len(t, loaded, 2)
	assert.Equal(t, "prod", os.Getenv("REACT_APP_LAYER"))
}

func TestLoadDotEnv_NoFiles(t *testing.T) {
	loaded, err := LoadDotEnv(t.TempDir(), ModeDevelopment)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestClientEnv(t *testing.T) {
	t.Setenv("REACT_APP_API", "https://api.example.com")
	t.Setenv("SECRET_TOKEN", "hidden")

	env := ClientEnv(ModeDevelopment, "")
	assert.Equal(t, "https://api.example.com", env["REACT_APP_API"])
	assert.Equal(t, ModeDevelopment, env["NODE_ENV"])
	assert.Contains(t, env, "PUBLIC_URL")
	assert.NotContains(t, env, "SECRET_TOKEN")
}

func TestSortedKeys(t *testing.T) {
	assert.Equal(t, []string{"A", "B", "C"}, SortedKeys(map[string]string{"C": "", "A": "", "B": ""}))
}
