package cli

import (
	"context"

	"github.com/ballot-dapp/ballot/internal/config"
	"github.com/ballot-dapp/ballot/internal/provider"
	"github.com/ballot-dapp/ballot/internal/provider/gethrpc"
	"github.com/ballot-dapp/ballot/internal/wallet"
)

// openProviderFn locates the wallet provider. A nil provider means none is
// installed. Tests replace it with a scripted fake.
//
//nolint:gochecknoglobals // Replaceable for testing
var openProviderFn = func(ctx context.Context, c *config.Config, l *config.Logger) (provider.Provider, func()) {
	client := gethrpc.Discover(ctx, gethrpc.Config{
		URL:          c.Provider.URL,
		PollInterval: c.PollInterval(),
		DialTimeout:  c.DialTimeout(),
		Logger:       l.Named("provider"),
	})
	if client == nil {
		return nil, func() {}
	}
	return client, client.Close
}

// newConnector validates the configuration and builds a connector around
// the discovered provider. The returned func releases the provider.
func newConnector(ctx context.Context) (*wallet.Connector, func(), error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	p, release := openProviderFn(ctx, cfg, logger)
	c := wallet.New(p, cfg.AllowList(),
		wallet.WithExpectedClient(cfg.Provider.ExpectClient),
		wallet.WithLogger(logger.Named("wallet")),
	)
	return c, release, nil
}
