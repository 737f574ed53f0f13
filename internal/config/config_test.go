package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetConfigValue(t *testing.T) {
	t.Setenv("TEST_CONFIG_KEY", "from-env")

	// Flag takes precedence over env.
	assert.Equal(t, "from-flag", getConfigValue("from-flag", "TEST_CONFIG_KEY", "default"))

	// Env takes precedence over default.
	assert.Equal(t, "from-env", getConfigValue("", "TEST_CONFIG_KEY", "default"))

	// Default when nothing else is set.
	assert.Equal(t, "default", getConfigValue("", "TEST_CONFIG_MISSING", "default"))
}

func TestExpandPath(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)

	t.Run("tilde expansion", func(t *testing.T) {
		expanded, err := expandPath("~/books/data", "")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(homeDir, "books", "data"), expanded)
	})

	t.Run("empty uses default", func(t *testing.T) {
		expanded, err := expandPath("", "/var/lib/pageturn")
		require.NoError(t, err)
		assert.Equal(t, "/var/lib/pageturn", expanded)
	})

	t.Run("relative becomes absolute", func(t *testing.T) {
		expanded, err := expandPath("data", "")
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(expanded))
		assert.True(t, strings.HasSuffix(expanded, "data"))
	})

	t.Run("absolute unchanged", func(t *testing.T) {
		expanded, err := expandPath("/opt/pageturn/data", "")
		require.NoError(t, err)
		assert.Equal(t, "/opt/pageturn/data", expanded)
	})
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")

	content := `# Comment line
SERVER_PORT_TESTONLY=9090

QUOTED_VALUE_TESTONLY="hello world"
`
	require.NoError(t, os.WriteFile(envPath, []byte(content), 0o600))

	t.Setenv("SERVER_PORT_TESTONLY", "")
	t.Setenv("QUOTED_VALUE_TESTONLY", "")
	os.Unsetenv("SERVER_PORT_TESTONLY")
	os.Unsetenv("QUOTED_VALUE_TESTONLY")

	require.NoError(t, loadEnvFile(envPath))

	assert.Equal(t, "9090", os.Getenv("SERVER_PORT_TESTONLY"))
	assert.Equal(t, "hello world", os.Getenv("QUOTED_VALUE_TESTONLY"))
}

func TestLoadEnvFile_DoesNotOverrideExisting(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("EXISTING_VAR_TESTONLY=from-file\n"), 0o600))

	t.Setenv("EXISTING_VAR_TESTONLY", "from-environment")

	require.NoError(t, loadEnvFile(envPath))
	assert.Equal(t, "from-environment", os.Getenv("EXISTING_VAR_TESTONLY"))
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			App:     AppConfig{Environment: "development"},
			Logger:  LoggerConfig{Level: "info"},
			Storage: StorageConfig{DataPath: "/tmp/pageturn"},
		}
	}

	t.Run("valid config", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("bad environment", func(t *testing.T) {
		cfg := valid()
		cfg.App.Environment = "testing"
		assert.Error(t, cfg.Validate())
	})

	t.Run("bad log level", func(t *testing.T) {
		cfg := valid()
		cfg.Logger.Level = "verbose"
		assert.Error(t, cfg.Validate())
	})

	t.Run("empty data path", func(t *testing.T) {
		cfg := valid()
		cfg.Storage.DataPath = ""
		assert.Error(t, cfg.Validate())
	})
}
