// Package providertest provides a scripted in-memory wallet provider for tests.
package providertest

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/ballot-dapp/ballot/internal/provider"
)

// DefaultClientVersion is what a Fake reports unless told otherwise.
const DefaultClientVersion = "MetaMask/v11.16.0"

// Call is one recorded provider request.
type Call struct {
	Method string
	Params []any
}

type response struct {
	result any
	err    error
}

// Fake is a scripted provider. Responses are queued per method; the last
// queued response for a method keeps answering once the queue drains.
type Fake struct {
	mu        sync.Mutex
	version   string
	responses map[string][]response
	gates     map[string]chan struct{}
	calls     []Call
	listeners map[string]map[int]func(json.RawMessage)
	nextID    int
}

var _ provider.Provider = (*Fake)(nil)

// New creates a Fake with no scripted responses.
func New() *Fake {
	return &Fake{
		version:   DefaultClientVersion,
		responses: make(map[string][]response),
		gates:     make(map[string]chan struct{}),
		listeners: make(map[string]map[int]func(json.RawMessage)),
	}
}

// WithClientVersion changes the self-identification string.
func (f *Fake) WithClientVersion(v string) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.version = v
	return f
}

// Respond queues a successful result for method.
func (f *Fake) Respond(method string, result any) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[method] = append(f.responses[method], response{result: result})
	return f
}

// Fail queues an error for method.
func (f *Fake) Fail(method string, err error) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[method] = append(f.responses[method], response{err: err})
	return f
}

// Hold makes requests for method block until the returned release func is
// called or the request context ends.
func (f *Fake) Hold(method string) (release func()) {
	gate := make(chan struct{})
	f.mu.Lock()
	f.gates[method] = gate
	f.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.gates, method)
			f.mu.Unlock()
			close(gate)
		})
	}
}

// ClientVersion implements provider.Provider.
func (f *Fake) ClientVersion() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.version
}

// Request implements provider.Provider.
func (f *Fake) Request(ctx context.Context, args provider.RequestArguments, result any) error {
	f.mu.Lock()
	f.calls = append(f.calls, Call{Method: args.Method, Params: args.Params})
	gate := f.gates[args.Method]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	f.mu.Lock()
	queue := f.responses[args.Method]
	if len(queue) == 0 {
		f.mu.Unlock()
		return provider.NewError(4200, fmt.Sprintf("The method %q does not exist / is not available.", args.Method))
	}
	resp := queue[0]
	if len(queue) > 1 {
		f.responses[args.Method] = queue[1:]
	}
	f.mu.Unlock()

	if resp.err != nil {
		return resp.err
	}
	if result == nil {
		return nil
	}

	raw, err := json.Marshal(resp.result)
	if err != nil {
		return fmt.Errorf("encoding scripted %s result: %w", args.Method, err)
	}
	return json.Unmarshal(raw, result)
}

// On implements provider.Provider.
func (f *Fake) On(_ context.Context, event string, listener func(json.RawMessage)) (provider.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.listeners[event] == nil {
		f.listeners[event] = make(map[int]func(json.RawMessage))
	}
	id := f.nextID
	f.nextID++
	f.listeners[event][id] = listener

	return provider.SubscriptionFunc(func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.listeners[event], id)
	}), nil
}

// Emit delivers payload to every listener of event, synchronously.
func (f *Fake) Emit(event string, payload json.RawMessage) {
	f.mu.Lock()
	listeners := make([]func(json.RawMessage), 0, len(f.listeners[event]))
	for _, l := range f.listeners[event] {
		listeners = append(listeners, l)
	}
	f.mu.Unlock()

	for _, l := range listeners {
		l(payload)
	}
}

// EmitAccounts pushes an accountsChanged notification.
func (f *Fake) EmitAccounts(accounts ...string) {
	payload, _ := json.Marshal(append([]string{}, accounts...))
	f.Emit(provider.EventAccountsChanged, payload)
}

// Listeners returns the number of live listeners for event.
func (f *Fake) Listeners(event string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.listeners[event])
}

// Calls returns a copy of the request log.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// Methods returns the method names of the request log, in order.
func (f *Fake) Methods() []string {
	calls := f.Calls()
	methods := make([]string, len(calls))
	for i, c := range calls {
		methods[i] = c.Method
	}
	return methods
}

// Count returns how many requests were made for method.
func (f *Fake) Count(method string) int {
	n := 0
	for _, m := range f.Methods() {
		if m == method {
			n++
		}
	}
	return n
}
