package workspace

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/anupgautam23/oms-frontend/internal/domain"
	"github.com/anupgautam23/oms-frontend/internal/observability"
	"github.com/anupgautam23/oms-frontend/internal/tokenstore"
)

type backend struct {
	meCalls     atomic.Int32
	ordersCalls atomic.Int32
	rejectToken atomic.Bool
	srv         *httptest.Server
}

func newBackend(t *testing.T) *backend {
	t.Helper()
	b := &backend{}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"token": "tok-1", "username": "jane"})
	})
	mux.HandleFunc("/api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		b.meCalls.Add(1)
		if b.rejectToken.Load() || r.Header.Get("Authorization") != "Bearer tok-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"id":42,"username":"jane","email":"jane@oms.com"}`))
	})
	mux.HandleFunc("/api/orders", func(w http.ResponseWriter, r *http.Request) {
		b.ordersCalls.Add(1)
		if b.rejectToken.Load() {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`[{"id":1,"userId":42,"productName":"Laptop Pro","quantity":2,"price":999.99,"totalAmount":1999.98,"status":"PENDING","createdAt":"2026-03-01T12:00:00Z"}]`))
	})
	b.srv = httptest.NewServer(mux)
	t.Cleanup(b.srv.Close)
	return b
}

func newTestRegistry(t *testing.T, b *backend, kv tokenstore.KV) *Registry {
	t.Helper()
	return NewRegistry(Dependencies{
		KV:         kv,
		HTTPClient: b.srv.Client(),
		AuthURL:    b.srv.URL,
		OrderURL:   b.srv.URL,
		Policy:     domain.NewEmailRolePolicy(domain.DefaultAdminEmail),
		InboxSize:  10,
		Metrics:    observability.NewMetrics(),
		Logger:     zaptest.NewLogger(t),
	})
}

func TestRegistry_ResolveCreatesOneWorkspacePerID(t *testing.T) {
	b := newBackend(t)
	kv := tokenstore.NewMemoryKV()
	require.NoError(t, tokenstore.New(kv, "ws-1").SaveToken(context.Background(), "tok-1"))
	reg := newTestRegistry(t, b, kv)

	const callers = 16
	var wg sync.WaitGroup
	got := make([]*Workspace, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ws, err := reg.Resolve(context.Background(), "ws-1")
			assert.NoError(t, err)
			got[i] = ws
		}(i)
	}
	wg.Wait()

	for _, ws := range got {
		assert.Same(t, got[0], ws)
	}
	assert.Equal(t, 1, reg.Len())
	assert.Equal(t, int32(1), b.meCalls.Load())
	assert.Equal(t, int32(1), b.ordersCalls.Load())

	user := got[0].Session.User()
	require.NotNil(t, user)
	assert.Equal(t, "42", user.ID)
	assert.Len(t, got[0].Orders.UserOrders(), 1)
}

func TestRegistry_ResolveWithoutTokenStaysLoggedOut(t *testing.T) {
	b := newBackend(t)
	reg := newTestRegistry(t, b, tokenstore.NewMemoryKV())

	ws, err := reg.Resolve(context.Background(), "fresh")
	require.NoError(t, err)

	assert.Nil(t, ws.Session.User())
	assert.Zero(t, b.meCalls.Load())
	assert.Zero(t, ws.Navigator.Mark())
}

func TestRegistry_LoginThenRejectedTokenEndsSession(t *testing.T) {
	b := newBackend(t)
	reg := newTestRegistry(t, b, tokenstore.NewMemoryKV())
	ctx := context.Background()

	ws, err := reg.Resolve(ctx, "ws-2")
	require.NoError(t, err)
	require.True(t, ws.Session.Login(ctx, "jane@oms.com", "secret"))
	require.Len(t, ws.Orders.Orders(), 1)
	ws.Notifications.Drain()

	b.rejectToken.Store(true)
	mark := ws.Navigator.Mark()
	assert.False(t, ws.Orders.FetchUserOrders(ctx))

	assert.True(t, ws.Navigator.RedirectedSince(mark))
	assert.Nil(t, ws.Session.User())
	assert.Empty(t, ws.Orders.Orders())
	stored, err := ws.Store.Load(ctx)
	require.NoError(t, err)
	assert.False(t, stored.HasToken())
	assert.Nil(t, stored.User)

	var messages []string
	for _, n := range ws.Notifications.Drain() {
		messages = append(messages, n.Message)
	}
	assert.Contains(t, messages, "Your session has expired. Please sign in again.")
}

func TestRegistry_EvictIdleWorkspaces(t *testing.T) {
	b := newBackend(t)
	kv := tokenstore.NewMemoryKV()
	reg := newTestRegistry(t, b, kv)
	ctx := context.Background()

	clock := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	reg.now = func() time.Time { return clock }

	ws, err := reg.Resolve(ctx, "old")
	require.NoError(t, err)
	require.True(t, ws.Session.Login(ctx, "jane@oms.com", "secret"))

	clock = clock.Add(20 * time.Minute)
	_, err = reg.Resolve(ctx, "recent")
	require.NoError(t, err)

	clock = clock.Add(15 * time.Minute)
	assert.Equal(t, 1, reg.Evict(30*time.Minute))
	assert.Equal(t, 1, reg.Len())

	again, err := reg.Resolve(ctx, "old")
	require.NoError(t, err)
	assert.NotSame(t, ws, again)
	require.NotNil(t, again.Session.User())
	assert.Equal(t, "42", again.Session.User().ID)
}

func TestRegistry_RestoreSurvivesCancelledCaller(t *testing.T) {
	b := newBackend(t)
	kv := tokenstore.NewMemoryKV()
	require.NoError(t, tokenstore.New(kv, "ws").SaveToken(context.Background(), "tok-1"))
	reg := newTestRegistry(t, b, kv)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ws, err := reg.Resolve(ctx, "ws")

	require.NoError(t, err)
	require.NotNil(t, ws.Session.User())
	assert.Equal(t, "42", ws.Session.User().ID)
}

func TestNavigator_RunsHooksAndCountsRedirects(t *testing.T) {
	nav := &Navigator{}
	calls := 0
	nav.OnRedirect(func() { calls++ })
	before := nav.Mark()

	nav.RedirectToLogin()

	assert.Equal(t, 1, calls)
	assert.True(t, nav.RedirectedSince(before))
	assert.False(t, nav.RedirectedSince(nav.Mark()))
}
