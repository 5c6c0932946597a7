package observability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetrics_Snapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/api/orders", "GET", 200, time.Millisecond)
	m.RecordRequest("/api/orders", "GET", 200, time.Millisecond)
	m.RecordError("/api/orders", "POST", "VALIDATION_FAILED")
	m.RecordRemoteCall("orders.list", 200, 2*time.Millisecond)
	m.RecordRemoteCall("orders.list", 401, 3*time.Millisecond)

	snap := m.Snapshot()

	assert.Equal(t, int64(2), snap.Requests["/api/orders|GET|200"])
	assert.Equal(t, int64(1), snap.Errors["/api/orders|POST|VALIDATION_FAILED"])
	assert.Equal(t, int64(1), snap.RemoteCalls["orders.list|200"])
	assert.Equal(t, int64(1), snap.RemoteCalls["orders.list|401"])
	assert.Equal(t, "5ms", snap.RemoteLatency["orders.list"])
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", "GET", 200, 0)
	m.RecordRemoteCall("auth.me", 0, 0)

	snap := m.Snapshot()
	assert.Empty(t, snap.Requests)
	assert.Empty(t, snap.RemoteCalls)
}
