package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("HOME", dir)
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)
	t.Setenv("GEMINI_API_KEY", "gm-key")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.Server.Addr)
	assert.Equal(t, int64(50<<20), cfg.MaxUploadBytes())
	assert.Equal(t, "vision", cfg.OCR.Provider)
	assert.Equal(t, "eng", cfg.OCR.Language)
	assert.Equal(t, 4, cfg.OCR.EarlyExitScore)
	assert.Equal(t, 2, cfg.OCR.RetryAttempts)
	assert.False(t, cfg.OCR.Parallel)
	assert.Equal(t, "gm-key", cfg.Gemini.APIKey)
	assert.Equal(t, 168*time.Hour, cfg.Receipt.TTL)
	assert.Empty(t, cfg.Receipt.Secret)
	assert.Equal(t, 30, cfg.RateLimit.RequestsPerMinute)
}

func TestLoad_File(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "doccheck.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":9000"
ocr:
  provider: gemini
  early_exit_score: 5
  parallel: true
receipt:
  secret: file-secret
  ttl: 2h
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "gemini", cfg.OCR.Provider)
	assert.Equal(t, 5, cfg.OCR.EarlyExitScore)
	assert.True(t, cfg.OCR.Parallel)
	assert.Equal(t, "file-secret", cfg.Receipt.Secret)
	assert.Equal(t, 2*time.Hour, cfg.Receipt.TTL)
}

func TestLoad_SearchPath(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("log:\n  level: debug\n"), 0o600))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_Env(t *testing.T) {
	chdirTemp(t)
	t.Setenv("DOCCHECK_SERVER_ADDR", ":7000")
	t.Setenv("DOCCHECK_OCR_EARLY_EXIT_SCORE", "3")
	t.Setenv("DOCCHECK_RECEIPT_SECRET", "${RECEIPT_KEY}")
	t.Setenv("RECEIPT_KEY", "env-secret")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.Equal(t, 3, cfg.OCR.EarlyExitScore)
	assert.Equal(t, "env-secret", cfg.Receipt.Secret)
}

func TestLoad_Invalid(t *testing.T) {
	chdirTemp(t)
	t.Setenv("DOCCHECK_OCR_PROVIDER", "tesseract")

	_, err := Load("")
	assert.ErrorContains(t, err, "unknown ocr.provider")
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	chdirTemp(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestResolveEnvVars(t *testing.T) {
	t.Setenv("TEST_API_KEY", "secret123")

	assert.Equal(t, "secret123", ResolveEnvVars("${TEST_API_KEY}"))
	assert.Equal(t, "", ResolveEnvVars("${DEFINITELY_NOT_SET_12345}"))
	assert.Equal(t, "literal-value", ResolveEnvVars("literal-value"))
}
