package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBool(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"1", "1", true},
		{"true", "true", true},
		{"TRUE", "TRUE", true},
		{"yes", "yes", true},
		{"on", "on", true},
		{"with spaces", "  true  ", true},
		{"0", "0", false},
		{"false", "false", false},
		{"no", "no", false},
		{"off", "off", false},
		{"empty", "", false},
		{"random", "random", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, parseBool(tc.input))
		})
	}
}

func TestSanitizeURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"clean URL", "http://127.0.0.1:7545", "http://127.0.0.1:7545"},
		{"leading and trailing spaces", "  http://127.0.0.1:7545  ", "http://127.0.0.1:7545"},
		{"quoted", `"ws://127.0.0.1:1248"`, "ws://127.0.0.1:1248"},
		{"single quoted", `'ws://127.0.0.1:1248'`, "ws://127.0.0.1:1248"},
		{"embedded newline", "http://127.0.0.1:\n7545", "http://127.0.0.1:7545"},
		{"embedded tab", "http://local\thost:7545", "http://localhost:7545"},
		{"empty", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, SanitizeURL(tc.input))
		})
	}
}

func TestApplyEnvironment_ProviderURLIsSanitized(t *testing.T) {
	cfg := Defaults()

	t.Setenv(EnvProviderURL, "  'http://127.0.0.1:8545'\n")
	ApplyEnvironment(cfg)

	assert.Equal(t, "http://127.0.0.1:8545", cfg.Provider.URL)
}

func TestApplyEnvironment_UnsetLeavesDefaults(t *testing.T) {
	cfg := Defaults()

	t.Setenv(EnvHome, "")
	t.Setenv(EnvProviderURL, "")
	t.Setenv(EnvOutputFormat, "")
	t.Setenv(EnvLogLevel, "")
	ApplyEnvironment(cfg)

	assert.Equal(t, "~/.ballot", cfg.Home)
	assert.Equal(t, DefaultProviderURL, cfg.Provider.URL)
	assert.Equal(t, "auto", cfg.Output.DefaultFormat)
	assert.Equal(t, "error", cfg.Logging.Level)
}

func TestApplyEnvironment_ChainListAndLogFile(t *testing.T) {
	cfg := Defaults()

	t.Setenv(EnvAllowedChainIDs, " 0x539, 0x1691 ,")
	t.Setenv(EnvLogFile, "/var/log/ballot.log")
	ApplyEnvironment(cfg)

	assert.Equal(t, []string{"0x539", "0x1691"}, cfg.Network.AllowedChainIDs)
	assert.Equal(t, "/var/log/ballot.log", cfg.Logging.File)
}

func TestApplyEnvironment_EmptyValuesIgnored(t *testing.T) {
	cfg := Defaults()
	before := cfg.Network.AllowedChainIDs

	t.Setenv(EnvAllowedChainIDs, "")
	t.Setenv(EnvVerbose, "")
	ApplyEnvironment(cfg)

	assert.Equal(t, before, cfg.Network.AllowedChainIDs)
	assert.False(t, cfg.Output.Verbose)
}

func TestReadEnvFile(t *testing.T) {
	t.Parallel()

	vars, err := ReadEnvFile(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, vars)

	home := t.TempDir()
	content := "# local wallet\nBALLOT_PROVIDER_URL=ws://127.0.0.1:1248\nBALLOT_EXPECT_CLIENT=\"Frame\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(home, EnvFileName), []byte(content), 0o600))

	vars, err = ReadEnvFile(home)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"BALLOT_PROVIDER_URL":  "ws://127.0.0.1:1248",
		"BALLOT_EXPECT_CLIENT": "Frame",
	}, vars)
}

func TestApplyEnvironmentFrom_ProcessEnvWins(t *testing.T) {
	t.Setenv(EnvProviderURL, "http://127.0.0.1:8545")
	t.Setenv(EnvLogLevel, "")
	cfg := Defaults()

	ApplyEnvironmentFrom(cfg, LayeredLookup(map[string]string{
		EnvProviderURL: "ws://127.0.0.1:1248",
		EnvLogLevel:    "debug",
		EnvVerbose:     "yes",
	}))

	assert.Equal(t, "http://127.0.0.1:8545", cfg.Provider.URL)
	assert.Equal(t, "error", cfg.Logging.Level, "a set but empty process variable still hides the file value")
	assert.True(t, cfg.Output.Verbose)
}
