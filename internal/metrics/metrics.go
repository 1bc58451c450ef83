// Package metrics provides process-local counters for wallet negotiations.
// Counters are atomic so provider event goroutines can record safely.
package metrics

import (
	"sync/atomic"
	"time"
)

// Metrics holds negotiation metrics.
type Metrics struct {
	// Provider request metrics
	requestsTotal   atomic.Int64
	requestErrors   atomic.Int64
	requestLatencyN atomic.Int64

	// Network assurance metrics
	chainSwitches atomic.Int64
	chainAdds     atomic.Int64

	// Negotiation metrics (connect, switch account)
	negotiationsTotal  atomic.Int64
	negotiationsFailed atomic.Int64

	// Push notifications
	accountsChanged atomic.Int64
}

// Global is the process-wide metrics instance.
//
//nolint:gochecknoglobals // Intentional global for metrics access
var Global = &Metrics{}

// RecordRequest records one provider request.
func (m *Metrics) RecordRequest(method string, duration time.Duration, err error) {
	m.requestsTotal.Add(1)
	m.requestLatencyN.Add(duration.Nanoseconds())
	if err != nil {
		m.requestErrors.Add(1)
	}

	switch method {
	case "wallet_switchEthereumChain":
		m.chainSwitches.Add(1)
	case "wallet_addEthereumChain":
		m.chainAdds.Add(1)
	}
}

// RecordNegotiation records the outcome of a connect or account switch.
func (m *Metrics) RecordNegotiation(err error) {
	m.negotiationsTotal.Add(1)
	if err != nil {
		m.negotiationsFailed.Add(1)
	}
}

// RecordAccountsChanged records an accountsChanged notification.
func (m *Metrics) RecordAccountsChanged() {
	m.accountsChanged.Add(1)
}

// Snapshot is a point-in-time copy of all metrics.
type Snapshot struct {
	RequestsTotal      int64   `json:"requests_total"`
	RequestErrors      int64   `json:"request_errors"`
	ChainSwitches      int64   `json:"chain_switches"`
	ChainAdds          int64   `json:"chain_adds"`
	NegotiationsTotal  int64   `json:"negotiations_total"`
	NegotiationsFailed int64   `json:"negotiations_failed"`
	AccountsChanged    int64   `json:"accounts_changed"`
	AvgLatencyMs       float64 `json:"avg_latency_ms"`
}

// Snapshot returns a point-in-time copy of all metrics.
func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		RequestsTotal:      m.requestsTotal.Load(),
		RequestErrors:      m.requestErrors.Load(),
		ChainSwitches:      m.chainSwitches.Load(),
		ChainAdds:          m.chainAdds.Load(),
		NegotiationsTotal:  m.negotiationsTotal.Load(),
		NegotiationsFailed: m.negotiationsFailed.Load(),
		AccountsChanged:    m.accountsChanged.Load(),
		AvgLatencyMs:       m.AvgLatencyMs(),
	}
}

// AvgLatencyMs returns the average provider request latency in
// milliseconds, or 0 before the first request.
func (m *Metrics) AvgLatencyMs() float64 {
	calls := m.requestsTotal.Load()
	if calls == 0 {
		return 0
	}
	return float64(m.requestLatencyN.Load()) / float64(calls) / 1e6
}

// Reset sets every counter back to zero.
func (m *Metrics) Reset() {
	m.requestsTotal.Store(0)
	m.requestErrors.Store(0)
	m.requestLatencyN.Store(0)
	m.chainSwitches.Store(0)
	m.chainAdds.Store(0)
	m.negotiationsTotal.Store(0)
	m.negotiationsFailed.Store(0)
	m.accountsChanged.Store(0)
}
