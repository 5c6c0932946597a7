package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters for portal requests and for the
// calls the portal makes to remote services.
type Metrics struct {
	mu            sync.Mutex
	requestCount  map[string]int64
	errorCount    map[string]int64
	remoteCount   map[string]int64
	remoteLatency map[string]time.Duration
}

// MetricsSnapshot is a point-in-time copy of the counters.
type MetricsSnapshot struct {
	Requests      map[string]int64  `json:"requests"`
	Errors        map[string]int64  `json:"errors"`
	RemoteCalls   map[string]int64  `json:"remoteCalls"`
	RemoteLatency map[string]string `json:"remoteLatency"`
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount:  make(map[string]int64),
		errorCount:    make(map[string]int64),
		remoteCount:   make(map[string]int64),
		remoteLatency: make(map[string]time.Duration),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := pathKey(path, method, status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RecordRemoteCall counts a call to a remote service. Status 0 means the
// call never got an answer.
func (m *Metrics) RecordRemoteCall(operation string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := operation + "|" + strconv.Itoa(status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.remoteCount[key]++
	m.remoteLatency[operation] += duration
}

// Snapshot copies the counters. Latency is the cumulative time per operation.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{
		Requests:      map[string]int64{},
		Errors:        map[string]int64{},
		RemoteCalls:   map[string]int64{},
		RemoteLatency: map[string]string{},
	}
	if m == nil {
		return snap
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range m.requestCount {
		snap.Requests[k] = v
	}
	for k, v := range m.errorCount {
		snap.Errors[k] = v
	}
	for k, v := range m.remoteCount {
		snap.RemoteCalls[k] = v
	}
	for k, v := range m.remoteLatency {
		snap.RemoteLatency[k] = v.String()
	}
	return snap
}

func pathKey(path, method string, status int) string {
	return path + "|" + method + "|" + strconv.Itoa(status)
}
