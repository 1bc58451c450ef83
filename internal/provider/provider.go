// Package provider defines the wallet provider capability the connector
// negotiates with: a single request entry point parameterized by method and
// params, plus event subscription.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
)

// Request methods used by the connector.
const (
	MethodChainID            = "eth_chainId"
	MethodSwitchChain        = "wallet_switchEthereumChain"
	MethodAddChain           = "wallet_addEthereumChain"
	MethodRequestAccounts    = "eth_requestAccounts"
	MethodAccounts           = "eth_accounts"
	MethodRequestPermissions = "wallet_requestPermissions"
	MethodClientVersion      = "web3_clientVersion"
)

// EventAccountsChanged is pushed by the provider whenever the set of
// authorized accounts changes.
const EventAccountsChanged = "accountsChanged"

// RequestArguments is the shape of every provider request.
type RequestArguments struct {
	Method string `json:"method"`
	Params []any  `json:"params,omitempty"`
}

// Subscription is a live event subscription.
type Subscription interface {
	Unsubscribe()
}

// Provider is a handle to a wallet provider. A nil Provider means no
// wallet is present, which callers must treat as an expected condition.
type Provider interface {
	// Request performs one provider request and decodes its result into
	// result. A nil result discards the response body.
	Request(ctx context.Context, args RequestArguments, result any) error

	// On subscribes listener to a provider event.
	On(ctx context.Context, event string, listener func(payload json.RawMessage)) (Subscription, error)

	// ClientVersion is the provider's self-identification, captured once
	// when the handle was created.
	ClientVersion() string
}

// OnAccountsChanged subscribes fn to accountsChanged notifications with the
// payload decoded into an account list. Undecodable payloads are delivered
// as an empty list.
func OnAccountsChanged(ctx context.Context, p Provider, fn func(accounts []string)) (Subscription, error) {
	if p == nil {
		return nil, fmt.Errorf("subscribing to %s: no provider", EventAccountsChanged)
	}
	return p.On(ctx, EventAccountsChanged, func(payload json.RawMessage) {
		var accounts []string
		if err := json.Unmarshal(payload, &accounts); err != nil {
			accounts = nil
		}
		fn(accounts)
	})
}

// SubscriptionFunc adapts a plain function to the Subscription interface.
type SubscriptionFunc func()

// Unsubscribe calls f.
func (f SubscriptionFunc) Unsubscribe() {
	if f != nil {
		f()
	}
}
