// Package memdom is an in-memory page of text elements implementing
// ui.Document. It is safe for concurrent use and is what the CLI renders
// to the terminal.
package memdom

import (
	"context"
	"sync"

	"github.com/ballot-dapp/ballot/internal/ui"
)

// Document holds elements by identifier.
type Document struct {
	mu       sync.Mutex
	elements map[string]*Element
	order    []string
	onChange []func(id string)
}

var _ ui.Document = (*Document)(nil)

// New creates an empty document.
func New() *Document {
	return &Document{elements: make(map[string]*Element)}
}

// Add creates an element with the given id and initial text, replacing any
// element already registered under id.
func (d *Document) Add(id, text string) *Element {
	el := &Element{id: id, text: text, doc: d}

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.elements[id]; !ok {
		d.order = append(d.order, id)
	}
	d.elements[id] = el
	return el
}

// ElementByID implements ui.Document.
func (d *Document) ElementByID(id string) ui.Element {
	if el := d.Get(id); el != nil {
		return el
	}
	return nil
}

// Get returns the concrete element for id, or nil.
func (d *Document) Get(id string) *Element {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.elements[id]
}

// IDs returns element identifiers in insertion order.
func (d *Document) IDs() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.order...)
}

// OnChange registers fn to run after any element's text or enabled state
// changes. fn runs in the goroutine that made the change.
func (d *Document) OnChange(fn func(id string)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onChange = append(d.onChange, fn)
}

// Snapshot returns the text of every element keyed by id.
func (d *Document) Snapshot() map[string]string {
	d.mu.Lock()
	els := make([]*Element, 0, len(d.elements))
	for _, el := range d.elements {
		els = append(els, el)
	}
	d.mu.Unlock()

	out := make(map[string]string, len(els))
	for _, el := range els {
		out[el.id] = el.Text()
	}
	return out
}

func (d *Document) changed(id string) {
	d.mu.Lock()
	hooks := append([]func(string){}, d.onChange...)
	d.mu.Unlock()

	for _, fn := range hooks {
		fn(id)
	}
}

// Element is one in-memory control.
type Element struct {
	mu        sync.Mutex
	id        string
	text      string
	disabled  bool
	listeners []func(ctx context.Context)
	doc       *Document
}

var _ ui.Element = (*Element)(nil)

// ID returns the element identifier.
func (e *Element) ID() string {
	return e.id
}

// Text implements ui.Element.
func (e *Element) Text() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.text
}

// SetText implements ui.Element.
func (e *Element) SetText(text string) {
	e.mu.Lock()
	changed := e.text != text
	e.text = text
	e.mu.Unlock()

	if changed {
		e.doc.changed(e.id)
	}
}

// Disabled implements ui.Element.
func (e *Element) Disabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.disabled
}

// SetDisabled implements ui.Element.
func (e *Element) SetDisabled(disabled bool) {
	e.mu.Lock()
	changed := e.disabled != disabled
	e.disabled = disabled
	e.mu.Unlock()

	if changed {
		e.doc.changed(e.id)
	}
}

// OnClick implements ui.Element.
func (e *Element) OnClick(listener func(ctx context.Context)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, listener)
}

// Listeners returns the number of click listeners.
func (e *Element) Listeners() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.listeners)
}

// Click runs every click listener in order and reports whether the click
// was delivered. Disabled elements swallow clicks.
func (e *Element) Click(ctx context.Context) bool {
	e.mu.Lock()
	if e.disabled {
		e.mu.Unlock()
		return false
	}
	listeners := append([]func(context.Context){}, e.listeners...)
	e.mu.Unlock()

	for _, l := range listeners {
		l(ctx)
	}
	return true
}

// Dispatch runs the click listeners even when the element is disabled,
// the way a script calling the handler directly would.
func (e *Element) Dispatch(ctx context.Context) {
	e.mu.Lock()
	listeners := append([]func(context.Context){}, e.listeners...)
	e.mu.Unlock()

	for _, l := range listeners {
		l(ctx)
	}
}
