package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"

	ballerr "github.com/ballot-dapp/ballot/pkg/errors"
)

// maxSuggestDistance bounds how far a mistyped key may be from a real one
// to be suggested.
const maxSuggestDistance = 4

type keyAccess struct {
	get func(c *Config) string
	set func(c *Config, value string) error
}

//nolint:gochecknoglobals // Static key table for dot-notation access
var keys = map[string]keyAccess{
	"home": {
		get: func(c *Config) string { return c.Home },
		set: func(c *Config, v string) error { c.Home = v; return nil },
	},
	"provider.url": {
		get: func(c *Config) string { return c.Provider.URL },
		set: func(c *Config, v string) error {
			v = SanitizeURL(v)
			if err := validateProviderURL(v); err != nil {
				return err
			}
			c.Provider.URL = v
			return nil
		},
	},
	"provider.expect_client": {
		get: func(c *Config) string { return c.Provider.ExpectClient },
		set: func(c *Config, v string) error { c.Provider.ExpectClient = strings.TrimSpace(v); return nil },
	},
	"provider.poll_interval_ms": {
		get: func(c *Config) string { return strconv.Itoa(c.Provider.PollIntervalMs) },
		set: func(c *Config, v string) error { return setPositiveInt(&c.Provider.PollIntervalMs, "provider.poll_interval_ms", v) },
	},
	"provider.dial_timeout_seconds": {
		get: func(c *Config) string { return strconv.Itoa(c.Provider.DialTimeoutSeconds) },
		set: func(c *Config, v string) error {
			return setPositiveInt(&c.Provider.DialTimeoutSeconds, "provider.dial_timeout_seconds", v)
		},
	},
	"network.allowed_chain_ids": {
		get: func(c *Config) string { return strings.Join(c.Network.AllowedChainIDs, ",") },
		set: func(c *Config, v string) error {
			ids := splitList(v)
			candidate := *c
			candidate.Network.AllowedChainIDs = ids
			if err := candidate.Validate(); err != nil {
				return err
			}
			c.Network.AllowedChainIDs = ids
			return nil
		},
	},
	"network.chain_name": {
		get: func(c *Config) string { return c.Network.ChainName },
		set: func(c *Config, v string) error { c.Network.ChainName = v; return nil },
	},
	"network.native_currency.name": {
		get: func(c *Config) string { return c.Network.NativeCurrency.Name },
		set: func(c *Config, v string) error { c.Network.NativeCurrency.Name = v; return nil },
	},
	"network.native_currency.symbol": {
		get: func(c *Config) string { return c.Network.NativeCurrency.Symbol },
		set: func(c *Config, v string) error { c.Network.NativeCurrency.Symbol = v; return nil },
	},
	"network.native_currency.decimals": {
		get: func(c *Config) string { return strconv.Itoa(c.Network.NativeCurrency.Decimals) },
		set: func(c *Config, v string) error {
			d, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil || d < 0 || d > 36 {
				return invalidValue("network.native_currency.decimals", v, "integer between 0 and 36")
			}
			c.Network.NativeCurrency.Decimals = d
			return nil
		},
	},
	"network.rpc_urls": {
		get: func(c *Config) string { return strings.Join(c.Network.RPCURLs, ",") },
		set: func(c *Config, v string) error { c.Network.RPCURLs = splitList(v); return nil },
	},
	"network.block_explorer_urls": {
		get: func(c *Config) string { return strings.Join(c.Network.BlockExplorerURLs, ",") },
		set: func(c *Config, v string) error { c.Network.BlockExplorerURLs = splitList(v); return nil },
	},
	"ui.connect_button": {
		get: func(c *Config) string { return c.UI.ConnectButton },
		set: func(c *Config, v string) error { c.UI.ConnectButton = v; return nil },
	},
	"ui.switch_button": {
		get: func(c *Config) string { return c.UI.SwitchButton },
		set: func(c *Config, v string) error { c.UI.SwitchButton = v; return nil },
	},
	"ui.display": {
		get: func(c *Config) string { return c.UI.Display },
		set: func(c *Config, v string) error { c.UI.Display = v; return nil },
	},
	"ui.install_url": {
		get: func(c *Config) string { return c.UI.InstallURL },
		set: func(c *Config, v string) error { c.UI.InstallURL = v; return nil },
	},
	"ui.install_label": {
		get: func(c *Config) string { return c.UI.InstallLabel },
		set: func(c *Config, v string) error { c.UI.InstallLabel = v; return nil },
	},
	"output.default_format": {
		get: func(c *Config) string { return c.Output.DefaultFormat },
		set: func(c *Config, v string) error {
			if v != "text" && v != "json" && v != "auto" {
				return invalidValue("output.default_format", v, "text, json, or auto")
			}
			c.Output.DefaultFormat = v
			return nil
		},
	},
	"output.verbose": {
		get: func(c *Config) string { return strconv.FormatBool(c.Output.Verbose) },
		set: func(c *Config, v string) error { c.Output.Verbose = parseBool(v); return nil },
	},
	"logging.level": {
		get: func(c *Config) string { return c.Logging.Level },
		set: func(c *Config, v string) error {
			switch v {
			case "off", "error", "info", "debug":
				c.Logging.Level = v
				return nil
			}
			return invalidValue("logging.level", v, "off, error, info, or debug")
		},
	},
	"logging.file": {
		get: func(c *Config) string { return c.Logging.File },
		set: func(c *Config, v string) error { c.Logging.File = v; return nil },
	},
}

// Keys returns every settable key in dot notation, sorted.
func Keys() []string {
	out := make([]string, 0, len(keys))
	for k := range keys {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Get returns the value of a dot-notation key. List values are
// comma-separated.
func (c *Config) Get(key string) (string, error) {
	access, ok := keys[key]
	if !ok {
		return "", unknownKey(key)
	}
	return access.get(c), nil
}

// Set updates a dot-notation key, validating the value first.
func (c *Config) Set(key, value string) error {
	access, ok := keys[key]
	if !ok {
		return unknownKey(key)
	}
	return access.set(c, value)
}

// SuggestKey returns the known key closest to key, or "" when nothing is
// close enough.
func SuggestKey(key string) string {
	best, bestDist := "", maxSuggestDistance+1
	for _, k := range Keys() {
		if d := levenshtein.ComputeDistance(key, k); d < bestDist {
			best, bestDist = k, d
		}
	}
	return best
}

func unknownKey(key string) error {
	err := ballerr.WithDetails(ballerr.ErrUnknownConfigKey, map[string]string{"key": key})
	if s := SuggestKey(key); s != "" {
		return ballerr.WithSuggestion(err, fmt.Sprintf("did you mean '%s'?", s))
	}
	return ballerr.WithSuggestion(err, "run 'ballot config show' to list keys")
}

func invalidValue(key, value, valid string) error {
	return ballerr.WithDetails(ballerr.ErrInvalidFormat, map[string]string{
		"key":   key,
		"value": value,
		"valid": valid,
	})
}

func setPositiveInt(dst *int, key, value string) error {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n <= 0 {
		return invalidValue(key, value, "positive integer")
	}
	*dst = n
	return nil
}

func splitList(v string) []string {
	out := []string{}
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
