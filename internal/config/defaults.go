package config

// DefaultProviderURL is the local Ganache endpoint.
const DefaultProviderURL = "http://127.0.0.1:7545"

// DefaultAllowedChainIDs are the common Ganache chain IDs: 1337 and 5777.
//
//nolint:gochecknoglobals // Configuration default, copied into every Defaults()
var DefaultAllowedChainIDs = []string{"0x539", "0x1691"}

// Defaults returns the default configuration.
func Defaults() *Config {
	return &Config{
		Version: 1,
		Home:    "~/.ballot",
		Provider: ProviderConfig{
			URL:                DefaultProviderURL,
			ExpectClient:       "",
			PollIntervalMs:     1000,
			DialTimeoutSeconds: 5,
		},
		Network: NetworkConfig{
			AllowedChainIDs: append([]string(nil), DefaultAllowedChainIDs...),
			ChainName:       "Ganache Local",
			NativeCurrency: CurrencyConfig{
				Name:     "ETH",
				Symbol:   "ETH",
				Decimals: 18,
			},
			RPCURLs:           []string{DefaultProviderURL},
			BlockExplorerURLs: []string{},
		},
		UI: UIConfig{
			ConnectButton: "connectWalletBtn",
			SwitchButton:  "switchAccountBtn",
			Display:       "connectedAddress",
			InstallURL:    "https://metamask.io/download",
			InstallLabel:  "Install MetaMask",
		},
		Output: OutputConfig{
			DefaultFormat: "auto",
			Verbose:       false,
		},
		Logging: LoggingConfig{
			Level: "error",
			File:  "~/.ballot/ballot.log",
		},
	}
}
