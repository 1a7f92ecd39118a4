package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "petsync.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func withArgs(t *testing.T, args ...string) {
	t.Helper()
	orig := os.Args
	t.Cleanup(func() { os.Args = orig })
	os.Args = append([]string{"petsync"}, args...)
}

func TestParseJson_Overlay(t *testing.T) {
	path := writeConfigFile(t, `{
		"api_base_url": "https://pets.example",
		"postcode": "10001",
		"distance": 25,
		"request_timeout": "5s",
		"refresh_timeout": 2000000000,
		"search_debounce": "250ms",
		"requests_per_second": 0.5,
		"log_backend": "zap"
	}`)

	tests := []struct {
		name string
		args []string
	}{
		{"long flag", []string{"-config", path}},
		{"short flag", []string{"-c", path}},
		{"among other flags", []string{"-db", "x.db", "--config=" + path}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withArgs(t, tt.args...)

			cfg := &Config{}
			cfg.LoadDefaults()
			parseJson(cfg)

			assert.Equal(t, "https://pets.example", cfg.APIBaseURL)
			assert.Equal(t, "10001", cfg.Postcode)
			assert.Equal(t, 25, cfg.Distance)
			assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
			assert.Equal(t, 2*time.Second, cfg.RefreshTimeout)
			assert.Equal(t, 250*time.Millisecond, cfg.SearchDebounce)
			assert.Equal(t, 0.5, cfg.RequestsPerSecond)
			assert.Equal(t, "zap", cfg.LogBackend)

			assert.Equal(t, 20, cfg.PageSize, "absent keys keep earlier values")
			assert.Equal(t, "info", cfg.LogLevel)
		})
	}
}

func TestParseJson_NoFile(t *testing.T) {
	withArgs(t, "-db", "x.db")

	cfg := &Config{APIBaseURL: "https://defaults", PageSize: 7}
	parseJson(cfg)

	assert.Equal(t, &Config{APIBaseURL: "https://defaults", PageSize: 7}, cfg)
}

func TestParseJson_Panics(t *testing.T) {
	t.Run("malformed", func(t *testing.T) {
		withArgs(t, "-c", writeConfigFile(t, `{ "page_size": `))
		require.Panics(t, func() { parseJson(&Config{}) })
	})

	t.Run("bad duration", func(t *testing.T) {
		withArgs(t, "-c", writeConfigFile(t, `{ "request_timeout": "soon" }`))
		require.Panics(t, func() { parseJson(&Config{}) })
	})

	t.Run("missing file", func(t *testing.T) {
		withArgs(t, "-c", filepath.Join(t.TempDir(), "nope.json"))
		require.Panics(t, func() { parseJson(&Config{}) })
	})
}
