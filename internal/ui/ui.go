// Package ui binds wallet negotiations to page controls. A page is reached
// only through element lookup by identifier; the binders read and write an
// element's text and enabled state and nothing else.
package ui

import (
	"context"

	"github.com/ballot-dapp/ballot/internal/provider"
)

// Element is a page control addressed by identifier.
type Element interface {
	Text() string
	SetText(text string)
	Disabled() bool
	SetDisabled(disabled bool)
	// OnClick adds a click listener. Listeners run in the clicking goroutine.
	OnClick(listener func(ctx context.Context))
}

// Document looks up elements. ElementByID returns nil for unknown ids.
type Document interface {
	ElementByID(id string) Element
}

// Notifier surfaces a blocking alert to the user.
type Notifier interface {
	Alert(message string)
}

// Opener opens a URL in a new browsing context.
type Opener interface {
	Open(url string) error
}

// Connector is the wallet negotiation the binders drive.
type Connector interface {
	IsProviderInstalled() bool
	Connect(ctx context.Context) (string, error)
	RequestAccountPermissions(ctx context.Context) (string, error)
	Provider() provider.Provider
}

// Logger is the subset of the application logger used by the binders.
type Logger interface {
	Debug(format string, args ...any)
	Error(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Error(string, ...any) {}

// Descriptor names the controls a binder attaches to. DisplayID and
// OnConnected are optional.
type Descriptor struct {
	ButtonID    string
	DisplayID   string
	OnConnected func(account string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(message string)

// Alert calls f.
func (f NotifierFunc) Alert(message string) {
	f(message)
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(url string) error

// Open calls f.
func (f OpenerFunc) Open(url string) error {
	return f(url)
}
