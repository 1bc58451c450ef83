package ui

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/ballot-dapp/ballot/internal/metrics"
	"github.com/ballot-dapp/ballot/internal/provider"
	ballerr "github.com/ballot-dapp/ballot/pkg/errors"
)

// Binder attaches connect and switch-account buttons to a connector.
type Binder struct {
	connector  Connector
	doc        Document
	notifier   Notifier
	opener     Opener
	labels     Labels
	installURL string
	logger     Logger
	metrics    *metrics.Metrics

	mu      sync.Mutex
	buttons map[string]*button
	subs    []provider.Subscription
	closed  bool
}

// button is the live state of one attached button.
type button struct {
	id       string
	flow     flow
	el       Element
	display  Element
	state    ButtonState
	inFlight atomic.Bool
}

// BinderOption configures a Binder.
type BinderOption func(*Binder)

// WithLabels overrides the button texts.
func WithLabels(l Labels) BinderOption {
	return func(b *Binder) {
		b.labels = l
	}
}

// WithInstallURL overrides the wallet install page.
func WithInstallURL(url string) BinderOption {
	return func(b *Binder) {
		if url != "" {
			b.installURL = url
		}
	}
}

// WithBinderLogger sets the binder's logger.
func WithBinderLogger(l Logger) BinderOption {
	return func(b *Binder) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithBinderMetrics records accountsChanged notifications into m.
func WithBinderMetrics(m *metrics.Metrics) BinderOption {
	return func(b *Binder) {
		if m != nil {
			b.metrics = m
		}
	}
}

// NewBinder creates a binder over doc. notifier and opener may be nil, in
// which case alerts and install links are only logged.
func NewBinder(c Connector, doc Document, notifier Notifier, opener Opener, opts ...BinderOption) *Binder {
	b := &Binder{
		connector:  c,
		doc:        doc,
		notifier:   notifier,
		opener:     opener,
		labels:     DefaultLabels(),
		installURL: DefaultInstallURL,
		logger:     nopLogger{},
		metrics:    metrics.Global,
		buttons:    make(map[string]*button),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// AttachWalletUI binds the connect button named by d. A missing button is
// ignored. A successful connect leaves the button disabled; the button then
// follows accountsChanged notifications.
func (b *Binder) AttachWalletUI(ctx context.Context, d Descriptor) {
	btn, installed := b.attach(ctx, d, flowConnect)
	if btn == nil || !installed {
		return
	}

	sub, err := provider.OnAccountsChanged(ctx, b.connector.Provider(), func(accounts []string) {
		b.accountsChanged(btn, accounts)
	})
	if err != nil {
		b.logger.Error("subscribing %s to %s: %v", d.ButtonID, provider.EventAccountsChanged, err)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		sub.Unsubscribe()
		return
	}
	b.subs = append(b.subs, sub)
}

// AttachSwitchAccountUI binds the switch-account button named by d. It
// runs the same state machine as AttachWalletUI but re-prompts for account
// selection and re-enables the button after every outcome.
func (b *Binder) AttachSwitchAccountUI(ctx context.Context, d Descriptor) {
	_, _ = b.attach(ctx, d, flowSwitch)
}

// State returns the state of an attached button, or StateUnbound.
func (b *Binder) State(buttonID string) ButtonState {
	b.mu.Lock()
	defer b.mu.Unlock()
	if btn, ok := b.buttons[buttonID]; ok {
		return btn.state
	}
	return StateUnbound
}

// Close drops every accountsChanged subscription.
func (b *Binder) Close() {
	b.mu.Lock()
	subs := b.subs
	b.subs = nil
	b.closed = true
	b.mu.Unlock()

	for _, sub := range subs {
		sub.Unsubscribe()
	}
}

// attach registers the button once and wires its click listener. It
// returns nil when the button does not exist or was already attached.
func (b *Binder) attach(_ context.Context, d Descriptor, f flow) (*button, bool) {
	el := b.doc.ElementByID(d.ButtonID)
	if el == nil {
		b.logger.Debug("%s button %q not found, skipping", f, d.ButtonID)
		return nil, false
	}

	var display Element
	if d.DisplayID != "" {
		display = b.doc.ElementByID(d.DisplayID)
	}

	b.mu.Lock()
	if _, ok := b.buttons[d.ButtonID]; ok {
		b.mu.Unlock()
		b.logger.Debug("%s button %q already attached", f, d.ButtonID)
		return nil, false
	}
	btn := &button{id: d.ButtonID, flow: f, el: el, display: display}
	b.buttons[d.ButtonID] = btn

	if !b.connector.IsProviderInstalled() {
		btn.state = StateUninstalled
		b.mu.Unlock()

		el.SetText(b.labels.Install)
		el.SetDisabled(false)
		el.OnClick(func(context.Context) {
			b.openInstallPage()
		})
		return btn, false
	}

	btn.state = StateIdle
	b.mu.Unlock()

	el.SetText(f.idleLabel(b.labels))
	el.SetDisabled(false)
	el.OnClick(func(ctx context.Context) {
		b.click(ctx, btn, d.OnConnected)
	})
	return btn, true
}

func (b *Binder) openInstallPage() {
	if b.opener == nil {
		b.logger.Error("no opener for %s", b.installURL)
		return
	}
	if err := b.opener.Open(b.installURL); err != nil {
		b.logger.Error("opening %s: %v", b.installURL, err)
	}
}

// click runs one negotiation. Clicks arriving while the button's previous
// negotiation is still running are dropped.
func (b *Binder) click(ctx context.Context, btn *button, onConnected func(string)) {
	if !btn.inFlight.CompareAndSwap(false, true) {
		b.logger.Debug("%s button %q busy, click dropped", btn.flow, btn.id)
		return
	}
	defer btn.inFlight.Store(false)

	b.setState(btn, StateConnecting)
	btn.el.SetDisabled(true)
	btn.el.SetText(btn.flow.busyLabel(b.labels))

	var (
		account string
		err     error
	)
	if btn.flow == flowSwitch {
		account, err = b.connector.RequestAccountPermissions(ctx)
	} else {
		account, err = b.connector.Connect(ctx)
	}

	if err != nil && ctx.Err() != nil {
		// Cancelled by the host: no alert.
		b.logger.Debug("%s button %q: abandoned: %v", btn.flow, btn.id, err)
		b.setState(btn, StateIdle)
		btn.el.SetText(btn.flow.idleLabel(b.labels))
		btn.el.SetDisabled(false)
		return
	}
	if err != nil {
		b.logger.Error("%s button %q: %v", btn.flow, btn.id, err)
		b.setState(btn, StateError)
		b.alert(btn.flow, err)
		btn.el.SetText(btn.flow.idleLabel(b.labels))
		btn.el.SetDisabled(false)
		return
	}

	if btn.display != nil {
		btn.display.SetText(account)
	}

	if btn.flow == flowSwitch {
		b.setState(btn, StateIdle)
		btn.el.SetText(b.labels.SwitchAccount)
		btn.el.SetDisabled(false)
	} else {
		b.setState(btn, StateConnected)
		btn.el.SetText(b.labels.Connected)
		btn.el.SetDisabled(true)
	}

	if onConnected != nil && account != "" {
		onConnected(account)
	}
}

// accountsChanged applies a provider notification to the connect button
// and its display, whatever state the button is in.
func (b *Binder) accountsChanged(btn *button, accounts []string) {
	b.metrics.RecordAccountsChanged()

	account := ""
	if len(accounts) > 0 {
		account = accounts[0]
	}
	b.logger.Debug("accounts changed, %d account(s)", len(accounts))

	if btn.display != nil {
		btn.display.SetText(account)
	}
	if account != "" {
		b.setState(btn, StateConnected)
		btn.el.SetText(b.labels.Connected)
		btn.el.SetDisabled(true)
		return
	}
	b.setState(btn, StateIdle)
	btn.el.SetText(b.labels.Connect)
	btn.el.SetDisabled(false)
}

func (b *Binder) alert(f flow, err error) {
	msg := ballerr.UserMessage(err)
	if msg == "" {
		msg = f.fallbackMessage()
	}
	if b.notifier == nil {
		b.logger.Error("alert: %s", msg)
		return
	}
	b.notifier.Alert(msg)
}

func (b *Binder) setState(btn *button, s ButtonState) {
	b.mu.Lock()
	defer b.mu.Unlock()
	btn.state = s
}
