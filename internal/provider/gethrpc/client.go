// Package gethrpc implements provider.Provider on top of the go-ethereum
// JSON-RPC client, so any EIP-1193 wallet endpoint reachable over HTTP,
// websocket or IPC can stand in for an injected browser provider.
package gethrpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	gethrpc "github.com/ethereum/go-ethereum/rpc"
	"golang.org/x/time/rate"

	"github.com/ballot-dapp/ballot/internal/provider"
)

// DefaultPollInterval paces eth_accounts polling on transports without
// push notifications.
const DefaultPollInterval = time.Second

// ErrEmptyURL indicates no provider endpoint was configured.
var ErrEmptyURL = errors.New("provider URL is empty")

// Logger is the subset of the application logger used here.
type Logger interface {
	Debug(format string, args ...any)
	Error(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Error(string, ...any) {}

// Config describes how to reach the provider.
type Config struct {
	URL          string
	PollInterval time.Duration
	DialTimeout  time.Duration
	Logger       Logger
}

// Client is a provider backed by a go-ethereum rpc.Client.
type Client struct {
	url          string
	rpc          *gethrpc.Client
	version      string
	pollInterval time.Duration
	logger       Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

var _ provider.Provider = (*Client)(nil)

// Dial connects to the endpoint and reads its client version once.
func Dial(ctx context.Context, cfg Config) (*Client, error) {
	url := strings.TrimSpace(cfg.URL)
	if url == "" {
		return nil, ErrEmptyURL
	}

	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}

	rc, err := gethrpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("dialing provider %s: %w", url, err)
	}

	var version string
	if err := rc.CallContext(ctx, &version, provider.MethodClientVersion); err != nil {
		rc.Close()
		return nil, fmt.Errorf("identifying provider %s: %w", url, translate(err))
	}

	return newClient(url, rc, version, cfg), nil
}

func newClient(url string, rc *gethrpc.Client, version string, cfg Config) *Client {
	poll := cfg.PollInterval
	if poll <= 0 {
		poll = DefaultPollInterval
	}
	var logger Logger = nopLogger{}
	if cfg.Logger != nil {
		logger = cfg.Logger
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		url:          url,
		rpc:          rc,
		version:      version,
		pollInterval: poll,
		logger:       logger,
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Discover returns a connected client, or nil when nothing answers at the
// configured endpoint. A missing provider is not an error.
func Discover(ctx context.Context, cfg Config) *Client {
	client, err := Dial(ctx, cfg)
	if err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Debug("no wallet provider at %s: %v", cfg.URL, err)
		}
		return nil
	}
	return client
}

// URL returns the endpoint the client is connected to.
func (c *Client) URL() string {
	return c.url
}

// ClientVersion implements provider.Provider.
func (c *Client) ClientVersion() string {
	return c.version
}

// Request implements provider.Provider.
func (c *Client) Request(ctx context.Context, args provider.RequestArguments, result any) error {
	c.logger.Debug("provider request %s", args.Method)
	if err := c.rpc.CallContext(ctx, result, args.Method, args.Params...); err != nil {
		return translate(err)
	}
	return nil
}

// On implements provider.Provider. Endpoints that push notifications
// deliver events through eth_subscribe. accountsChanged falls back to
// polling eth_accounts whenever the subscription cannot be made: HTTP
// cannot push at all, and most node websockets have no accountsChanged
// subscription.
func (c *Client) On(ctx context.Context, event string, listener func(json.RawMessage)) (provider.Subscription, error) {
	ch := make(chan json.RawMessage, 16)
	sub, err := c.rpc.EthSubscribe(ctx, ch, event)
	if err != nil {
		if event == provider.EventAccountsChanged {
			c.logger.Debug("subscribing to %s over %s: %v; polling %s instead",
				event, c.url, err, provider.MethodAccounts)
			return c.pollAccounts(listener), nil
		}
		if errors.Is(err, gethrpc.ErrNotificationsUnsupported) {
			return nil, fmt.Errorf("subscribing to %s over %s: %w", event, c.url, err)
		}
		return nil, fmt.Errorf("subscribing to %s: %w", event, translate(err))
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for {
			select {
			case payload := <-ch:
				listener(payload)
			case err, ok := <-sub.Err():
				if ok && err != nil {
					c.logger.Error("%s subscription ended: %v", event, err)
				}
				return
			case <-c.ctx.Done():
				sub.Unsubscribe()
				return
			}
		}
	}()

	return provider.SubscriptionFunc(sub.Unsubscribe), nil
}

func (c *Client) pollAccounts(listener func(json.RawMessage)) provider.Subscription {
	ctx, cancel := context.WithCancel(c.ctx)
	limiter := rate.NewLimiter(rate.Every(c.pollInterval), 1)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		var last []string
		primed := false
		for {
			if err := limiter.Wait(ctx); err != nil {
				return
			}

			var accounts []string
			if err := c.rpc.CallContext(ctx, &accounts, provider.MethodAccounts); err != nil {
				if ctx.Err() != nil {
					return
				}
				c.logger.Debug("polling %s: %v", provider.MethodAccounts, err)
				continue
			}

			if !primed {
				last, primed = accounts, true
				continue
			}
			if slices.Equal(last, accounts) {
				continue
			}
			last = accounts

			payload, err := json.Marshal(append([]string{}, accounts...))
			if err != nil {
				continue
			}
			listener(payload)
		}
	}()

	return provider.SubscriptionFunc(cancel)
}

// Close stops subscriptions and closes the connection.
func (c *Client) Close() {
	c.cancel()
	c.wg.Wait()
	c.rpc.Close()
}

// translate maps go-ethereum RPC errors onto tagged provider errors.
func translate(err error) error {
	var rpcErr gethrpc.Error
	if !errors.As(err, &rpcErr) {
		return err
	}

	pe := &provider.Error{Code: rpcErr.ErrorCode(), Message: rpcErr.Error()}
	var dataErr gethrpc.DataError
	if errors.As(err, &dataErr) {
		pe.Data = dataErr.ErrorData()
	}
	return pe
}
