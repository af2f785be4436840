package config

import (
	"os"
	"testing"
	"time"

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
			args: []string{"cmd",
				"-a", "127.0.0.1:9090", "-m", ":9100", "-d", "db", "-s", "secret", "-t", "30",
				"-r", "cache:6379", "-w", "pw", "-n", "2",
				"-u", "user", "-p", "password", "-b", "bucket", "-g", "us-west-1", "-e", "http://endpoint",
				"-i", "Corner Shop", "-z", "Europe/Riga",
			},
			expected: &Config{
				EndpointAddrGRPC:            "127.0.0.1:9090",
				MetricsAddr:                 ":9100",
				DatabaseDSN:                 "db",
				SecretKey:                   "secret",
				AccessTokenValidityDuration: 30 * time.Minute,
				RedisAddr:                   "cache:6379",
				RedisPassword:               "pw",
				RedisDB:                     2,
				S3RootUser:                  "user",
				S3RootPassword:              "password",
				S3Bucket:                    "bucket",
				S3Region:                    "us-west-1",
				S3BaseEndpoint:              "http://endpoint",
				TOTPIssuer:                  "Corner Shop",
				ReportTimezone:              "Europe/Riga",
			},
		},
		{
			name: "foreign flags are ignored",
			args: []string{"cmd", "-config", "x.json", "-a", ":1"},
			expected: &Config{
				EndpointAddrGRPC: ":1",
			},
		},
		{
			name:        "bad integer panics",
			args:        []string{"cmd", "-n", "two"},
			expectPanic: true,
		},
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
			assert.Empty(t, cmp.Diff(config, tt.expected))
		})
	}
}
