package ui_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ballot-dapp/ballot/internal/metrics"
	"github.com/ballot-dapp/ballot/internal/provider"
	"github.com/ballot-dapp/ballot/internal/provider/providertest"
	"github.com/ballot-dapp/ballot/internal/ui"
	"github.com/ballot-dapp/ballot/internal/ui/memdom"
	"github.com/ballot-dapp/ballot/internal/wallet"
)

const (
	connectID = "connectWalletBtn"
	switchID  = "switchAccountBtn"
	displayID = "connectedAddress"
)

// recorder collects alerts and opened URLs.
type recorder struct {
	mu     sync.Mutex
	alerts []string
	opened []string
}

func (r *recorder) Alert(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, msg)
}

func (r *recorder) Open(url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.opened = append(r.opened, url)
	return nil
}

func (r *recorder) Alerts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.alerts...)
}

func (r *recorder) Opened() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.opened...)
}

type fixture struct {
	fake    *providertest.Fake
	doc     *memdom.Document
	rec     *recorder
	binder  *ui.Binder
	metrics *metrics.Metrics
}

func allowList() wallet.AllowList {
	return wallet.AllowList{
		ChainIDs: []string{"0x539", "0x1691"},
		Network:  wallet.NetworkDefinition{ChainName: "Ganache Local"},
	}
}

func newFixture(t *testing.T, fake *providertest.Fake, opts ...ui.BinderOption) *fixture {
	t.Helper()

	m := &metrics.Metrics{}
	var p provider.Provider
	if fake != nil {
		p = fake
	}
	conn := wallet.New(p, allowList(), wallet.WithMetrics(m))

	doc := memdom.New()
	doc.Add(connectID, "")
	doc.Add(switchID, "")
	doc.Add(displayID, "")

	rec := &recorder{}
	opts = append([]ui.BinderOption{ui.WithBinderMetrics(m)}, opts...)
	binder := ui.NewBinder(conn, doc, rec, rec, opts...)
	t.Cleanup(binder.Close)

	return &fixture{fake: fake, doc: doc, rec: rec, binder: binder, metrics: m}
}

func (f *fixture) attachBoth(ctx context.Context) {
	f.binder.AttachWalletUI(ctx, ui.Descriptor{ButtonID: connectID, DisplayID: displayID})
	f.binder.AttachSwitchAccountUI(ctx, ui.Descriptor{ButtonID: switchID, DisplayID: displayID})
}

func TestAttachWalletUI_MissingButtonIsNoop(t *testing.T) {
	t.Parallel()

	fake := providertest.New()
	f := newFixture(t, fake)

	var mutations atomic.Int32
	f.doc.OnChange(func(string) { mutations.Add(1) })

	assert.NotPanics(t, func() {
		f.binder.AttachWalletUI(context.Background(), ui.Descriptor{ButtonID: "nope", DisplayID: displayID})
		f.binder.AttachSwitchAccountUI(context.Background(), ui.Descriptor{ButtonID: "nope"})
	})

	assert.Zero(t, mutations.Load())
	assert.Equal(t, ui.StateUnbound, f.binder.State("nope"))
	assert.Zero(t, fake.Listeners(provider.EventAccountsChanged))
	assert.Empty(t, fake.Calls())
}

func TestAttach_UninstalledOpensInstallPage(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	f.attachBoth(context.Background())

	for _, id := range []string{connectID, switchID} {
		el := f.doc.Get(id)
		assert.Equal(t, "Install MetaMask", el.Text())
		assert.False(t, el.Disabled())
		assert.Equal(t, ui.StateUninstalled, f.binder.State(id))

		assert.True(t, el.Click(context.Background()))
		assert.Equal(t, ui.StateUninstalled, f.binder.State(id))
	}

	assert.Equal(t, []string{ui.DefaultInstallURL, ui.DefaultInstallURL}, f.rec.Opened())
	assert.Empty(t, f.rec.Alerts())
}

func TestAttach_CustomInstallURLAndLabels(t *testing.T) {
	t.Parallel()

	labels := ui.DefaultLabels()
	labels.Install = "Get a wallet"
	f := newFixture(t, nil, ui.WithLabels(labels), ui.WithInstallURL("https://example.org/wallet"))
	f.binder.AttachWalletUI(context.Background(), ui.Descriptor{ButtonID: connectID})

	el := f.doc.Get(connectID)
	assert.Equal(t, "Get a wallet", el.Text())
	el.Click(context.Background())
	assert.Equal(t, []string{"https://example.org/wallet"}, f.rec.Opened())
}

func TestAttachWalletUI_ConnectSuccess(t *testing.T) {
	t.Parallel()

	fake := providertest.New().
		Respond(provider.MethodChainID, "0x539").
		Respond(provider.MethodRequestAccounts, []string{"0xAAA111", "0xBBB222"})
	f := newFixture(t, fake)

	var connected []string
	f.binder.AttachWalletUI(context.Background(), ui.Descriptor{
		ButtonID:    connectID,
		DisplayID:   displayID,
		OnConnected: func(account string) { connected = append(connected, account) },
	})

	btn := f.doc.Get(connectID)
	assert.Equal(t, "Connect Wallet", btn.Text())
	assert.Equal(t, ui.StateIdle, f.binder.State(connectID))

	require.True(t, btn.Click(context.Background()))

	assert.Equal(t, "0xAAA111", f.doc.Get(displayID).Text())
	assert.Equal(t, "Connected", btn.Text())
	assert.True(t, btn.Disabled())
	assert.Equal(t, ui.StateConnected, f.binder.State(connectID))
	assert.Equal(t, []string{"0xAAA111"}, connected)
	assert.Empty(t, f.rec.Alerts())

	assert.False(t, btn.Click(context.Background()), "connect button stays disabled")
	assert.Equal(t, 1, fake.Count(provider.MethodRequestAccounts))
}

func TestAttachWalletUI_ConnectFailureAlertsOnce(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		fake    *providertest.Fake
		wantMsg string
	}{
		{
			name: "network switch refused",
			fake: providertest.New().
				Respond(provider.MethodChainID, "0x1").
				Fail(provider.MethodSwitchChain, provider.UserRejected()),
			wantMsg: "Please switch to Ganache Local network in your wallet",
		},
		{
			name: "no accounts",
			fake: providertest.New().
				Respond(provider.MethodChainID, "0x539").
				Respond(provider.MethodRequestAccounts, []string{}),
			wantMsg: "No accounts returned",
		},
		{
			name: "provider error keeps its message",
			fake: providertest.New().
				Respond(provider.MethodChainID, "0x539").
				Fail(provider.MethodRequestAccounts, provider.UserRejected()),
			wantMsg: "User rejected the request.",
		},
		{
			name: "provider error without message",
			fake: providertest.New().
				Respond(provider.MethodChainID, "0x539").
				Fail(provider.MethodRequestAccounts, &provider.Error{Code: 4100}),
			wantMsg: "provider error 4100",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t, tc.fake)
			f.binder.AttachWalletUI(context.Background(), ui.Descriptor{ButtonID: connectID, DisplayID: displayID})

			btn := f.doc.Get(connectID)
			require.True(t, btn.Click(context.Background()))

			assert.Equal(t, []string{tc.wantMsg}, f.rec.Alerts())
			assert.Equal(t, "Connect Wallet", btn.Text())
			assert.False(t, btn.Disabled())
			assert.Equal(t, ui.StateError, f.binder.State(connectID))
			assert.Empty(t, f.doc.Get(displayID).Text())
		})
	}
}

func TestAttachWalletUI_RetryAfterError(t *testing.T) {
	t.Parallel()

	fake := providertest.New().
		Respond(provider.MethodChainID, "0x539").
		Fail(provider.MethodRequestAccounts, provider.UserRejected()).
		Respond(provider.MethodRequestAccounts, []string{"0xAAA111"})
	f := newFixture(t, fake)
	f.binder.AttachWalletUI(context.Background(), ui.Descriptor{ButtonID: connectID, DisplayID: displayID})

	btn := f.doc.Get(connectID)
	btn.Click(context.Background())
	require.Equal(t, ui.StateError, f.binder.State(connectID))

	btn.Click(context.Background())
	assert.Equal(t, ui.StateConnected, f.binder.State(connectID))
	assert.Equal(t, "0xAAA111", f.doc.Get(displayID).Text())
	assert.Len(t, f.rec.Alerts(), 1)
}

func TestAttachWalletUI_AccountsChanged(t *testing.T) {
	t.Parallel()

	fake := providertest.New().
		Respond(provider.MethodChainID, "0x539").
		Respond(provider.MethodRequestAccounts, []string{"0xAAA111"})
	f := newFixture(t, fake)
	f.binder.AttachWalletUI(context.Background(), ui.Descriptor{ButtonID: connectID, DisplayID: displayID})

	btn := f.doc.Get(connectID)
	display := f.doc.Get(displayID)
	btn.Click(context.Background())
	require.Equal(t, ui.StateConnected, f.binder.State(connectID))

	fake.EmitAccounts()
	assert.Empty(t, display.Text())
	assert.Equal(t, "Connect Wallet", btn.Text())
	assert.False(t, btn.Disabled())
	assert.Equal(t, ui.StateIdle, f.binder.State(connectID))

	fake.EmitAccounts("0xCCC333", "0xAAA111")
	assert.Equal(t, "0xCCC333", display.Text())
	assert.Equal(t, "Connected", btn.Text())
	assert.True(t, btn.Disabled())
	assert.Equal(t, ui.StateConnected, f.binder.State(connectID))

	assert.Equal(t, int64(2), f.metrics.Snapshot().AccountsChanged)
}

func TestAttachWalletUI_AccountsChangedWhileIdle(t *testing.T) {
	t.Parallel()

	fake := providertest.New()
	f := newFixture(t, fake)
	f.binder.AttachWalletUI(context.Background(), ui.Descriptor{ButtonID: connectID, DisplayID: displayID})

	fake.EmitAccounts("0xDDD444")
	assert.Equal(t, "0xDDD444", f.doc.Get(displayID).Text())
	assert.Equal(t, ui.StateConnected, f.binder.State(connectID))
	assert.Empty(t, fake.Calls())
}

func TestAttachSwitchAccountUI_ReenablesAfterSuccess(t *testing.T) {
	t.Parallel()

	fake := providertest.New().
		Respond(provider.MethodChainID, "0x539").
		Respond(provider.MethodRequestPermissions, nil).
		Respond(provider.MethodAccounts, []string{"0xBBB222"}).
		Respond(provider.MethodAccounts, []string{})
	f := newFixture(t, fake)
	f.attachBoth(context.Background())

	btn := f.doc.Get(switchID)
	assert.Equal(t, "Switch Account", btn.Text())

	require.True(t, btn.Click(context.Background()))
	assert.Equal(t, "0xBBB222", f.doc.Get(displayID).Text())
	assert.Equal(t, "Switch Account", btn.Text())
	assert.False(t, btn.Disabled())
	assert.Equal(t, ui.StateIdle, f.binder.State(switchID))

	require.True(t, btn.Click(context.Background()), "switching stays repeatable")
	assert.Empty(t, f.doc.Get(displayID).Text())
	assert.False(t, btn.Disabled())
	assert.Empty(t, f.rec.Alerts())
	assert.Equal(t, 2, fake.Count(provider.MethodRequestPermissions))
}

func TestAttachSwitchAccountUI_Failure(t *testing.T) {
	t.Parallel()

	fake := providertest.New().
		Respond(provider.MethodChainID, "0x539").
		Fail(provider.MethodRequestPermissions, provider.UserRejected())
	f := newFixture(t, fake)
	f.binder.AttachSwitchAccountUI(context.Background(), ui.Descriptor{ButtonID: switchID, DisplayID: displayID})

	btn := f.doc.Get(switchID)
	btn.Click(context.Background())

	assert.Equal(t, []string{"User rejected the request."}, f.rec.Alerts())
	assert.Equal(t, "Switch Account", btn.Text())
	assert.False(t, btn.Disabled())
	assert.Equal(t, ui.StateError, f.binder.State(switchID))
}

func TestAttachSwitchAccountUI_DoesNotFollowAccountsChanged(t *testing.T) {
	t.Parallel()

	fake := providertest.New()
	f := newFixture(t, fake)
	f.binder.AttachSwitchAccountUI(context.Background(), ui.Descriptor{ButtonID: switchID, DisplayID: displayID})

	assert.Zero(t, fake.Listeners(provider.EventAccountsChanged))
}

func TestAttach_Idempotent(t *testing.T) {
	t.Parallel()

	fake := providertest.New()
	f := newFixture(t, fake)
	f.attachBoth(context.Background())
	f.attachBoth(context.Background())

	assert.Equal(t, 1, f.doc.Get(connectID).Listeners())
	assert.Equal(t, 1, f.doc.Get(switchID).Listeners())
	assert.Equal(t, 1, fake.Listeners(provider.EventAccountsChanged))
}

func TestClick_InFlightClicksDropped(t *testing.T) {
	t.Parallel()

	fake := providertest.New().
		Respond(provider.MethodChainID, "0x539").
		Respond(provider.MethodRequestAccounts, []string{"0xAAA111"})
	release := fake.Hold(provider.MethodRequestAccounts)
	f := newFixture(t, fake)
	f.binder.AttachWalletUI(context.Background(), ui.Descriptor{ButtonID: connectID, DisplayID: displayID})

	btn := f.doc.Get(connectID)
	done := make(chan struct{})
	go func() {
		defer close(done)
		btn.Click(context.Background())
	}()

	require.Eventually(t, func() bool {
		return fake.Count(provider.MethodRequestAccounts) == 1
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, ui.StateConnecting, f.binder.State(connectID))
	assert.Equal(t, "Connecting...", btn.Text())
	assert.True(t, btn.Disabled())

	btn.Dispatch(context.Background())
	btn.Dispatch(context.Background())
	assert.Equal(t, 1, fake.Count(provider.MethodChainID))

	release()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("connect did not finish")
	}

	assert.Equal(t, 1, fake.Count(provider.MethodRequestAccounts))
	assert.Equal(t, ui.StateConnected, f.binder.State(connectID))
	assert.Empty(t, f.rec.Alerts())
}

func TestClick_AccountsChangedDuringConnect(t *testing.T) {
	t.Parallel()

	fake := providertest.New().
		Respond(provider.MethodChainID, "0x539").
		Respond(provider.MethodRequestAccounts, []string{"0xAAA111"})
	release := fake.Hold(provider.MethodRequestAccounts)
	defer release()
	f := newFixture(t, fake)
	f.binder.AttachWalletUI(context.Background(), ui.Descriptor{ButtonID: connectID, DisplayID: displayID})

	btn := f.doc.Get(connectID)
	display := f.doc.Get(displayID)
	done := make(chan struct{})
	go func() {
		defer close(done)
		btn.Click(context.Background())
	}()

	require.Eventually(t, func() bool {
		return fake.Count(provider.MethodRequestAccounts) == 1
	}, 2*time.Second, 5*time.Millisecond)
	require.Equal(t, ui.StateConnecting, f.binder.State(connectID))

	fake.EmitAccounts("0xBBB222")
	assert.Equal(t, "0xBBB222", display.Text())
	assert.Equal(t, ui.StateConnected, f.binder.State(connectID))
	assert.Equal(t, "Connected", btn.Text())
	assert.True(t, btn.Disabled())

	fake.EmitAccounts()
	assert.Empty(t, display.Text())
	assert.Equal(t, ui.StateIdle, f.binder.State(connectID))
	assert.Equal(t, "Connect Wallet", btn.Text())
	assert.False(t, btn.Disabled())

	release()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("connect did not finish")
	}

	assert.Equal(t, "0xAAA111", display.Text())
	assert.Equal(t, ui.StateConnected, f.binder.State(connectID))
	assert.Equal(t, "Connected", btn.Text())
	assert.True(t, btn.Disabled())
	assert.Empty(t, f.rec.Alerts())
}

func TestClick_CancelledNegotiationDoesNotAlert(t *testing.T) {
	t.Parallel()

	fake := providertest.New().
		Respond(provider.MethodChainID, "0x539").
		Respond(provider.MethodRequestAccounts, []string{"0xAAA111"})
	release := fake.Hold(provider.MethodRequestAccounts)
	defer release()
	f := newFixture(t, fake)
	f.binder.AttachWalletUI(context.Background(), ui.Descriptor{ButtonID: connectID, DisplayID: displayID})

	ctx, cancel := context.WithCancel(context.Background())
	btn := f.doc.Get(connectID)
	done := make(chan struct{})
	go func() {
		defer close(done)
		btn.Click(ctx)
	}()

	require.Eventually(t, func() bool {
		return fake.Count(provider.MethodRequestAccounts) == 1
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("cancelled connect did not return")
	}

	assert.Empty(t, f.rec.Alerts())
	assert.Equal(t, ui.StateIdle, f.binder.State(connectID))
	assert.Equal(t, "Connect Wallet", btn.Text())
	assert.False(t, btn.Disabled())
	assert.Empty(t, f.doc.Get(displayID).Text())
}

func TestClose_DropsSubscriptions(t *testing.T) {
	t.Parallel()

	fake := providertest.New()
	f := newFixture(t, fake)
	f.binder.AttachWalletUI(context.Background(), ui.Descriptor{ButtonID: connectID, DisplayID: displayID})
	require.Equal(t, 1, fake.Listeners(provider.EventAccountsChanged))

	f.binder.Close()
	assert.Zero(t, fake.Listeners(provider.EventAccountsChanged))

	fake.EmitAccounts("0xAAA111")
	assert.Empty(t, f.doc.Get(displayID).Text())
}

func TestNilNotifierAndOpener(t *testing.T) {
	t.Parallel()

	conn := wallet.New(nil, allowList(), wallet.WithMetrics(&metrics.Metrics{}))
	doc := memdom.New()
	doc.Add(connectID, "")
	binder := ui.NewBinder(conn, doc, nil, nil)
	binder.AttachWalletUI(context.Background(), ui.Descriptor{ButtonID: connectID})

	assert.NotPanics(t, func() {
		doc.Get(connectID).Click(context.Background())
	})
}

func TestButtonState_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		state ui.ButtonState
		want  string
	}{
		{ui.StateUnbound, "unbound"},
		{ui.StateUninstalled, "uninstalled"},
		{ui.StateIdle, "idle"},
		{ui.StateConnecting, "connecting"},
		{ui.StateConnected, "connected"},
		{ui.StateError, "error"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, tc.state.String())
	}
}
