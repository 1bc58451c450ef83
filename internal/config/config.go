// Package config provides configuration management for ballot.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ballot-dapp/ballot/internal/wallet"
	ballerr "github.com/ballot-dapp/ballot/pkg/errors"
)

// Config represents the application configuration.
type Config struct {
	Version  int            `yaml:"version"`
	Home     string         `yaml:"home"`
	Provider ProviderConfig `yaml:"provider"`
	Network  NetworkConfig  `yaml:"network"`
	UI       UIConfig       `yaml:"ui"`
	Output   OutputConfig   `yaml:"output"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ProviderConfig defines how the wallet provider is reached.
type ProviderConfig struct {
	URL                string `yaml:"url"`
	ExpectClient       string `yaml:"expect_client"`
	PollIntervalMs     int    `yaml:"poll_interval_ms"`
	DialTimeoutSeconds int    `yaml:"dial_timeout_seconds"`
}

// NetworkConfig defines the chain allow-list and the network registered
// when the provider does not know the preferred chain.
type NetworkConfig struct {
	AllowedChainIDs   []string       `yaml:"allowed_chain_ids"`
	ChainName         string         `yaml:"chain_name"`
	NativeCurrency    CurrencyConfig `yaml:"native_currency"`
	RPCURLs           []string       `yaml:"rpc_urls"`
	BlockExplorerURLs []string       `yaml:"block_explorer_urls"`
}

// CurrencyConfig defines a network's native currency.
type CurrencyConfig struct {
	Name     string `yaml:"name"`
	Symbol   string `yaml:"symbol"`
	Decimals int    `yaml:"decimals"`
}

// UIConfig names the page controls the binders attach to.
type UIConfig struct {
	ConnectButton string `yaml:"connect_button"`
	SwitchButton  string `yaml:"switch_button"`
	Display       string `yaml:"display"`
	InstallURL    string `yaml:"install_url"`
	InstallLabel  string `yaml:"install_label"`
}

// OutputConfig defines output formatting settings.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
	Verbose       bool   `yaml:"verbose"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Load reads configuration from the specified file.
func Load(path string) (*Config, error) {
	// #nosec G304 -- config file path is from validated user input
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, ballerr.WithDetails(ballerr.ErrConfigInvalid, map[string]string{"path": path, "error": err.Error()})
	}

	return cfg, nil
}

// Save writes configuration to the specified file atomically.
func Save(cfg *Config, path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return writeFileAtomic(path, data, 0o600)
}

// Path returns the default config file path.
func Path(home string) string {
	return filepath.Join(home, "config.yaml")
}

// Validate checks settings that would make every negotiation fail.
func (c *Config) Validate() error {
	if len(c.Network.AllowedChainIDs) == 0 {
		return ballerr.WithSuggestion(ballerr.ErrConfigInvalid, "network.allowed_chain_ids must list at least one chain ID")
	}
	for _, id := range c.Network.AllowedChainIDs {
		if !wallet.ValidChainID(id) {
			return ballerr.WithDetails(ballerr.ErrConfigInvalid, map[string]string{
				"key":   "network.allowed_chain_ids",
				"value": id,
				"valid": "hex quantity such as 0x539",
			})
		}
	}

	if d := c.Network.NativeCurrency.Decimals; d < 0 || d > 36 {
		return ballerr.WithDetails(ballerr.ErrConfigInvalid, map[string]string{
			"key":   "network.native_currency.decimals",
			"value": fmt.Sprintf("%d", d),
		})
	}

	if err := validateProviderURL(c.Provider.URL); err != nil {
		return err
	}

	return nil
}

func validateProviderURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	u, err := url.Parse(strings.TrimSpace(raw))
	if err == nil {
		switch u.Scheme {
		case "http", "https", "ws", "wss":
			if u.Host != "" {
				return nil
			}
		}
	}
	return ballerr.WithDetails(ballerr.ErrConfigInvalid, map[string]string{
		"key":   "provider.url",
		"value": raw,
		"valid": "http(s):// or ws(s):// URL",
	})
}

// AllowList converts the network settings into the connector's allow-list.
func (c *Config) AllowList() wallet.AllowList {
	n := c.Network
	return wallet.AllowList{
		ChainIDs: append([]string(nil), n.AllowedChainIDs...),
		Network: wallet.NetworkDefinition{
			ChainName: n.ChainName,
			NativeCurrency: wallet.NativeCurrency{
				Name:     n.NativeCurrency.Name,
				Symbol:   n.NativeCurrency.Symbol,
				Decimals: n.NativeCurrency.Decimals,
			},
			RPCURLs:           append([]string{}, n.RPCURLs...),
			BlockExplorerURLs: append([]string{}, n.BlockExplorerURLs...),
		},
	}
}

// PollInterval returns the accountsChanged polling interval.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Provider.PollIntervalMs) * time.Millisecond
}

// DialTimeout returns the provider dial timeout.
func (c *Config) DialTimeout() time.Duration {
	return time.Duration(c.Provider.DialTimeoutSeconds) * time.Second
}

// DefaultHome returns the default ballot home directory.
func DefaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ballot"
	}
	return filepath.Join(home, ".ballot")
}
