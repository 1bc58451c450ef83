package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// EnvFileName is the optional dotenv file read from the home directory.
const EnvFileName = ".env"

// Environment variable names.
const (
	EnvHome            = "BALLOT_HOME"
	EnvProviderURL     = "BALLOT_PROVIDER_URL"
	EnvExpectClient    = "BALLOT_EXPECT_CLIENT"
	EnvAllowedChainIDs = "BALLOT_ALLOWED_CHAIN_IDS"
	EnvOutputFormat    = "BALLOT_OUTPUT_FORMAT"
	EnvVerbose         = "BALLOT_VERBOSE"
	EnvLogLevel        = "BALLOT_LOG_LEVEL"
	EnvLogFile         = "BALLOT_LOG_FILE"
)

// envBinding applies one environment variable. Bindings with keepEmpty
// apply when the variable is set to the empty string; the rest only apply
// when it is non-empty.
type envBinding struct {
	name      string
	keepEmpty bool
	apply     func(c *Config, v string)
}

//nolint:gochecknoglobals // Static environment table
var envBindings = []envBinding{
	{name: EnvHome, apply: func(c *Config, v string) { c.Home = v }},
	{name: EnvProviderURL, apply: func(c *Config, v string) { c.Provider.URL = SanitizeURL(v) }},
	{name: EnvExpectClient, keepEmpty: true, apply: func(c *Config, v string) {
		c.Provider.ExpectClient = strings.TrimSpace(v)
	}},
	{name: EnvAllowedChainIDs, apply: func(c *Config, v string) { c.Network.AllowedChainIDs = splitList(v) }},
	{name: EnvOutputFormat, apply: func(c *Config, v string) { c.Output.DefaultFormat = strings.ToLower(v) }},
	{name: EnvVerbose, apply: func(c *Config, v string) { c.Output.Verbose = parseBool(v) }},
	{name: EnvLogLevel, apply: func(c *Config, v string) { c.Logging.Level = strings.ToLower(v) }},
	{name: EnvLogFile, apply: func(c *Config, v string) { c.Logging.File = v }},
}

// ApplyEnvironment overlays BALLOT_* variables from the process
// environment onto cfg. Values are not validated here; Validate reports
// them like file values.
func ApplyEnvironment(cfg *Config) {
	ApplyEnvironmentFrom(cfg, os.LookupEnv)
}

// ApplyEnvironmentFrom is ApplyEnvironment with a custom lookup.
func ApplyEnvironmentFrom(cfg *Config, lookup func(string) (string, bool)) {
	for _, b := range envBindings {
		v, ok := lookup(b.name)
		if !ok || (v == "" && !b.keepEmpty) {
			continue
		}
		b.apply(cfg, v)
	}
}

// ReadEnvFile parses home/.env without touching the process environment.
// A missing file yields an empty map.
func ReadEnvFile(home string) (map[string]string, error) {
	vars, err := godotenv.Read(filepath.Join(home, EnvFileName))
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	return vars, err
}

// LayeredLookup resolves names from the process environment first and
// then from file.
func LayeredLookup(file map[string]string) func(string) (string, bool) {
	return func(name string) (string, bool) {
		if v, ok := os.LookupEnv(name); ok {
			return v, true
		}
		v, ok := file[name]
		return v, ok
	}
}

// parseBool accepts the usual shell spellings of true. Anything else is false.
func parseBool(s string) bool {
	switch s = strings.ToLower(strings.TrimSpace(s)); s {
	case "yes", "on":
		return true
	}
	b, err := strconv.ParseBool(s)
	return err == nil && b
}

// SanitizeURL strips what copy and paste tends to drag along with an
// endpoint: outer whitespace, wrapping quotes, and any control characters
// or spaces inside.
func SanitizeURL(raw string) string {
	var sb strings.Builder
	for _, r := range strings.Trim(strings.TrimSpace(raw), `"'`) {
		if r > ' ' && r != 0x7f {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
