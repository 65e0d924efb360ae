package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	base := func() *Config {
		c := &Config{}
		c.LoadDefaults()
		return c
	}

	tests := []struct {
		expected  *Config
		name      string
		args      []string
		expectErr bool
	}{
		{
			name: "all flags",
			args: []string{"-a", "https://api.example.org", "-p", "https://portal.example.org", "-d", "/tmp/x.db", "-t", "10", "-l", "debug"},
			expected: &Config{
				APIBaseURL:     "https://api.example.org",
				PortalURL:      "https://portal.example.org",
				DatabasePath:   "/tmp/x.db",
				RequestTimeout: 10 * time.Second,
				LogLevel:       "debug",
			},
		},
		{
			name: "unrelated flags are ignored",
			args: []string{"-x", "1", "-a", "https://api.example.org", "-c", "cfg.yaml"},
			expected: &Config{
				APIBaseURL:     "https://api.example.org",
				DatabasePath:   "icho.db",
				RequestTimeout: 30 * time.Second,
				LogLevel:       "info",
			},
		},
		{name: "incorrect timeout", args: []string{"-t", "abc"}, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			err := parseFlags(cfg, tt.args)
			if tt.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.expected, cfg))
		})
	}
}
