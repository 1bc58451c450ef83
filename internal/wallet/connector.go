// Package wallet negotiates with a wallet provider: installation detection,
// network assurance against an allow-list, account acquisition and account
// re-selection.
package wallet

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ballot-dapp/ballot/internal/metrics"
	"github.com/ballot-dapp/ballot/internal/provider"
	ballerr "github.com/ballot-dapp/ballot/pkg/errors"
)

// Logger is the subset of the application logger used by the connector.
type Logger interface {
	Debug(format string, args ...any)
	Error(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Error(string, ...any) {}

// Connector drives the wallet negotiation against one provider handle.
// The library-level operations do not serialize against each other;
// callers that need one negotiation at a time must arrange it themselves.
type Connector struct {
	provider     provider.Provider
	allow        AllowList
	expectClient string
	logger       Logger
	metrics      *metrics.Metrics
}

// Option configures a Connector.
type Option func(*Connector)

// WithExpectedClient requires the provider's client version to contain
// substr (case-insensitive) for the provider to count as installed.
func WithExpectedClient(substr string) Option {
	return func(c *Connector) {
		c.expectClient = strings.TrimSpace(substr)
	}
}

// WithLogger sets the connector's logger.
func WithLogger(l Logger) Option {
	return func(c *Connector) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics records requests and negotiations into m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Connector) {
		if m != nil {
			c.metrics = m
		}
	}
}

// New creates a connector. p may be nil when no provider is present.
func New(p provider.Provider, allow AllowList, opts ...Option) *Connector {
	c := &Connector{
		provider: p,
		allow:    allow,
		logger:   nopLogger{},
		metrics:  metrics.Global,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Provider returns the provider handle, which may be nil.
func (c *Connector) Provider() provider.Provider {
	return c.provider
}

// AllowList returns the allow-list the connector negotiates against.
func (c *Connector) AllowList() AllowList {
	return c.allow
}

// IsProviderInstalled reports whether a provider is present and identifies
// as the expected kind. It issues no requests.
func (c *Connector) IsProviderInstalled() bool {
	if c.provider == nil {
		return false
	}
	if c.expectClient == "" {
		return true
	}
	return strings.Contains(strings.ToLower(c.provider.ClientVersion()), strings.ToLower(c.expectClient))
}

// EnsureAllowedNetwork makes sure the provider is on an allowed chain. When
// it is not, it asks for one switch to the preferred chain and, only if the
// provider does not know that chain, one registration of the network.
// Any other switch or registration failure is returned as ErrNetwork with
// a message asking the user to switch manually. Nothing is retried.
func (c *Connector) EnsureAllowedNetwork(ctx context.Context) error {
	return c.ensureAllowedNetwork(ctx, newNegotiationID())
}

func (c *Connector) ensureAllowedNetwork(ctx context.Context, nid string) error {
	if c.provider == nil {
		return ballerr.ErrProviderMissing
	}

	chainID, err := c.ChainID(ctx)
	if err != nil {
		c.logger.Error("negotiation %s: reading chain id: %v", nid, err)
		return err
	}

	if c.allow.Contains(chainID) {
		c.logger.Debug("negotiation %s: chain %s already allowed", nid, chainID)
		return nil
	}

	target := c.allow.Preferred()
	c.logger.Debug("negotiation %s: chain %s not allowed, switching to %s", nid, chainID, target)

	err = c.request(ctx, provider.RequestArguments{
		Method: provider.MethodSwitchChain,
		Params: []any{map[string]string{"chainId": target}},
	}, nil)
	if err == nil {
		return nil
	}

	if !provider.IsUnrecognizedChain(err) {
		c.logger.Error("negotiation %s: switching to %s: %v", nid, target, err)
		return c.networkError(err)
	}

	c.logger.Debug("negotiation %s: chain %s unknown to provider, registering it", nid, target)
	err = c.request(ctx, provider.RequestArguments{
		Method: provider.MethodAddChain,
		Params: []any{c.allow.registration()},
	}, nil)
	if err != nil {
		c.logger.Error("negotiation %s: registering %s: %v", nid, target, err)
		return c.networkError(err)
	}
	return nil
}

// Connect reaches an allowed network and returns the first account the
// provider grants.
func (c *Connector) Connect(ctx context.Context) (account string, err error) {
	nid := newNegotiationID()
	defer func() { c.finish(nid, "connect", account, err) }()

	if !c.IsProviderInstalled() {
		return "", ballerr.ErrProviderMissing
	}

	if err = c.ensureAllowedNetwork(ctx, nid); err != nil {
		return "", err
	}

	var accounts []string
	if err = c.request(ctx, provider.RequestArguments{Method: provider.MethodRequestAccounts}, &accounts); err != nil {
		return "", err
	}
	if len(accounts) == 0 {
		return "", ballerr.ErrNoAccounts
	}
	return accounts[0], nil
}

// RequestAccountPermissions makes the provider prompt for account selection
// again and returns the first authorized account afterwards. An empty
// result means the user granted nothing and is not an error.
func (c *Connector) RequestAccountPermissions(ctx context.Context) (account string, err error) {
	nid := newNegotiationID()
	defer func() { c.finish(nid, "switch account", account, err) }()

	if !c.IsProviderInstalled() {
		return "", ballerr.ErrProviderMissing
	}

	if err = c.ensureAllowedNetwork(ctx, nid); err != nil {
		return "", err
	}

	err = c.request(ctx, provider.RequestArguments{
		Method: provider.MethodRequestPermissions,
		Params: []any{map[string]any{"eth_accounts": map[string]any{}}},
	}, nil)
	if err != nil {
		return "", err
	}

	accounts, err := c.Accounts(ctx)
	if err != nil {
		return "", err
	}
	if len(accounts) == 0 {
		return "", nil
	}
	return accounts[0], nil
}

// ChainID reads the provider's current chain identifier.
func (c *Connector) ChainID(ctx context.Context) (string, error) {
	if c.provider == nil {
		return "", ballerr.ErrProviderMissing
	}
	var chainID string
	if err := c.request(ctx, provider.RequestArguments{Method: provider.MethodChainID}, &chainID); err != nil {
		return "", err
	}
	return chainID, nil
}

// Accounts lists the already-authorized accounts without prompting.
func (c *Connector) Accounts(ctx context.Context) ([]string, error) {
	if c.provider == nil {
		return nil, ballerr.ErrProviderMissing
	}
	var accounts []string
	if err := c.request(ctx, provider.RequestArguments{Method: provider.MethodAccounts}, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (c *Connector) request(ctx context.Context, args provider.RequestArguments, result any) error {
	start := time.Now()
	err := c.provider.Request(ctx, args, result)
	c.metrics.RecordRequest(args.Method, time.Since(start), err)
	return err
}

func (c *Connector) networkError(cause error) error {
	msg := fmt.Sprintf("Please switch to %s network in your wallet", c.allow.NetworkName())
	return ballerr.WithMessage(ballerr.ErrNetwork, msg, cause)
}

func (c *Connector) finish(nid, op, account string, err error) {
	c.metrics.RecordNegotiation(err)
	if err != nil {
		c.logger.Error("negotiation %s: %s failed: %v", nid, op, err)
		return
	}
	if account == "" {
		c.logger.Debug("negotiation %s: %s finished with no account", nid, op)
		return
	}
	c.logger.Debug("negotiation %s: %s resolved %s", nid, op, ShortAddress(account))
}

func newNegotiationID() string {
	return uuid.NewString()
}
