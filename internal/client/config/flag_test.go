package config

import (
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{"cmd", "-a", "https://pets.example", "-id", "abc", "-db", "/tmp/x.db", "-p", "10",
				"-l", "07097", "-d", "25", "-rps", "1.5", "-log", "zap", "-log-level", "debug"},
			expected: &Config{
				APIBaseURL: "https://pets.example", ClientID: "abc", DatabasePath: "/tmp/x.db", PageSize: 10,
				Postcode: "07097", Distance: 25, RequestsPerSecond: 1.5, LogBackend: "zap", LogLevel: "debug",
			},
		},
		{
			name:     "unknown flags are ignored",
			args:     []string{"cmd", "-search", "Fido", "-p", "5"},
			expected: &Config{PageSize: 5},
		},
		{name: "bad page size", args: []string{"cmd", "-p", "abc"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			config := &Config{}

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(config) })
				return
			}
			require.NotPanics(t, func() { parseFlags(config) })
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}
