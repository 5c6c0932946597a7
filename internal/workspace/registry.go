// Package workspace wires one session/order provider tree per portal client.
package workspace

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/anupgautam23/oms-frontend/internal/client"
	"github.com/anupgautam23/oms-frontend/internal/domain"
	"github.com/anupgautam23/oms-frontend/internal/events"
	"github.com/anupgautam23/oms-frontend/internal/observability"
	"github.com/anupgautam23/oms-frontend/internal/service"
	"github.com/anupgautam23/oms-frontend/internal/tokenstore"
)

// Workspace is the state of one portal client.
type Workspace struct {
	ID            string
	Store         *tokenstore.Store
	Session       *service.SessionManager
	Orders        *service.OrderStore
	Notifications *service.NotificationService
	Dispatcher    events.Dispatcher
	Navigator     *Navigator

	lastSeen atomic.Int64
}

// Touch records client activity.
func (w *Workspace) Touch(now time.Time) {
	w.lastSeen.Store(now.UnixNano())
}

// LastSeen returns the time of the latest activity.
func (w *Workspace) LastSeen() time.Time {
	return time.Unix(0, w.lastSeen.Load())
}

// Dependencies are shared by every workspace of a registry.
type Dependencies struct {
	KV         tokenstore.KV
	HTTPClient *http.Client
	AuthURL    string
	OrderURL   string
	Policy     domain.RolePolicy
	InboxSize  int
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

type entry struct {
	ws    *Workspace
	ready chan struct{}
}

// Registry creates, looks up and evicts workspaces.
type Registry struct {
	deps Dependencies
	now  func() time.Time

	mu         sync.Mutex
	workspaces map[string]*entry
}

// NewRegistry creates an empty registry.
func NewRegistry(deps Dependencies) *Registry {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.KV == nil {
		deps.KV = tokenstore.NewMemoryKV()
	}
	return &Registry{
		deps:       deps,
		now:        time.Now,
		workspaces: make(map[string]*entry),
	}
}

// Resolve returns the workspace for id, creating it and restoring its
// persisted session when unknown. Concurrent callers for a new id share a
// single workspace and all wait for its restore to finish; a waiter whose
// context ends gives up with the context error.
func (r *Registry) Resolve(ctx context.Context, id string) (*Workspace, error) {
	r.mu.Lock()
	e, ok := r.workspaces[id]
	if !ok {
		e = &entry{ws: r.build(id), ready: make(chan struct{})}
		e.ws.Touch(r.now())
		r.workspaces[id] = e
	}
	r.mu.Unlock()

	if ok {
		select {
		case <-e.ready:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	} else {
		// restore must not be cut short by the first caller going away
		e.ws.Session.Init(context.WithoutCancel(ctx))
		close(e.ready)
		r.deps.Logger.Debug("workspace created", zap.String("workspace", id), zap.Bool("authenticated", e.ws.Session.IsAuthenticated()))
	}
	e.ws.Touch(r.now())
	return e.ws, nil
}

// Evict drops workspaces idle for longer than idle and returns how many were
// dropped. Persisted tokens stay in the token store.
func (r *Registry) Evict(idle time.Duration) int {
	cutoff := r.now().Add(-idle)
	r.mu.Lock()
	defer r.mu.Unlock()
	evicted := 0
	for id, e := range r.workspaces {
		select {
		case <-e.ready:
		default:
			continue
		}
		if e.ws.LastSeen().Before(cutoff) {
			delete(r.workspaces, id)
			evicted++
		}
	}
	return evicted
}

// Len reports the number of live workspaces.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.workspaces)
}

// Ping checks the token store backend.
func (r *Registry) Ping(ctx context.Context) error {
	return r.deps.KV.Ping(ctx)
}

func (r *Registry) build(id string) *Workspace {
	logger := r.deps.Logger
	dispatcher := events.NewInMemoryDispatcher()
	store := tokenstore.New(r.deps.KV, id)
	nav := &Navigator{}

	notes := service.NewNotificationService(dispatcher, id, r.deps.InboxSize, logger)
	notes.RegisterHandlers()

	requester := client.NewRequester(r.deps.HTTPClient, store, nav, r.deps.Metrics, logger.With(zap.String("workspace", id)))

	session := service.NewSessionManager(service.SessionDependencies{
		Identity:   client.NewIdentityClient(r.deps.AuthURL, requester),
		Store:      store,
		Policy:     r.deps.Policy,
		Notifier:   notes,
		Dispatcher: dispatcher,
		Workspace:  id,
		Logger:     logger,
	})

	orders := service.NewOrderStore(service.OrderDependencies{
		Orders:     client.NewOrderClient(r.deps.OrderURL, requester),
		Session:    session,
		Notifier:   notes,
		Dispatcher: dispatcher,
		Workspace:  id,
		Logger:     logger,
	})
	orders.RegisterHandlers()

	nav.OnRedirect(func() {
		session.Expire(context.Background())
	})

	return &Workspace{
		ID:            id,
		Store:         store,
		Session:       session,
		Orders:        orders,
		Notifications: notes,
		Dispatcher:    dispatcher,
		Navigator:     nav,
	}
}
