package service

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"github.com/anupgautam23/oms-frontend/internal/client"
	"github.com/anupgautam23/oms-frontend/internal/domain"
	"github.com/anupgautam23/oms-frontend/internal/events"
	apperrors "github.com/anupgautam23/oms-frontend/pkg/util"
)

// Session change reasons carried by session.changed events.
const (
	ReasonRestored  = "restored"
	ReasonLoggedIn  = "logged_in"
	ReasonLoggedOut = "logged_out"
	ReasonExpired   = "expired"
)

// IdentityAPI is the identity service surface used by the session manager.
type IdentityAPI interface {
	Login(ctx context.Context, usernameOrEmail, password string) (*client.LoginResponse, error)
	Register(ctx context.Context, name, email, password string) error
	Me(ctx context.Context) (domain.Profile, error)
}

// SessionStore persists the bearer token and cached identity.
type SessionStore interface {
	Load(ctx context.Context) (domain.StoredSession, error)
	SaveToken(ctx context.Context, token string) error
	SaveUser(ctx context.Context, user *domain.User) error
	Clear(ctx context.Context) error
}

// SessionDependencies encapsulates collaborators of the session manager.
type SessionDependencies struct {
	Identity   IdentityAPI
	Store      SessionStore
	Policy     domain.RolePolicy
	Notifier   Notifier
	Dispatcher events.Dispatcher
	Workspace  string
	Logger     *zap.Logger
}

// SessionManager owns the current user of one workspace.
type SessionManager struct {
	identity   IdentityAPI
	store      SessionStore
	policy     domain.RolePolicy
	notifier   Notifier
	dispatcher events.Dispatcher
	workspace  string
	logger     *zap.Logger

	mu       sync.RWMutex
	user     *domain.User
	inFlight int

	ready     chan struct{}
	readyOnce sync.Once
}

// NewSessionManager builds a logged-out manager; call Init to restore a
// persisted session.
func NewSessionManager(deps SessionDependencies) *SessionManager {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionManager{
		identity:   deps.Identity,
		store:      deps.Store,
		policy:     deps.Policy,
		notifier:   deps.Notifier,
		dispatcher: deps.Dispatcher,
		workspace:  deps.Workspace,
		logger:     logger.With(zap.String("workspace", deps.Workspace)),
		ready:      make(chan struct{}),
	}
}

// Ready is closed once Init has finished, whatever its outcome.
func (s *SessionManager) Ready() <-chan struct{} {
	return s.ready
}

// User returns a copy of the current user, or nil when logged out.
func (s *SessionManager) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// IsAuthenticated reports whether a user is present.
func (s *SessionManager) IsAuthenticated() bool {
	return s.User() != nil
}

// IsLoading reports whether a session operation is in flight.
func (s *SessionManager) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inFlight > 0
}

func (s *SessionManager) begin() func() {
	s.mu.Lock()
	s.inFlight++
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		s.inFlight--
		s.mu.Unlock()
	}
}

// Init validates a persisted token against the identity service. Any failure
// purges the token and cached identity and leaves the session logged out.
func (s *SessionManager) Init(ctx context.Context) {
	defer s.readyOnce.Do(func() { close(s.ready) })
	done := s.begin()
	defer done()

	stored, err := s.store.Load(ctx)
	if err != nil {
		s.logger.Error("failed to read token store", zap.Error(err))
		return
	}
	if !stored.HasToken() {
		if stored.User != nil {
			s.purge(ctx)
		}
		return
	}

	user, err := s.fetchIdentity(ctx)
	if err != nil {
		s.logger.Info("stored token rejected", zap.Error(err))
		s.purge(ctx)
		return
	}
	s.setUser(ctx, user, ReasonRestored)
}

// Login exchanges credentials, stores the token and fetches the identity. It
// reports failure through a notification and a false return.
func (s *SessionManager) Login(ctx context.Context, email, password string) bool {
	done := s.begin()
	defer done()

	resp, err := s.identity.Login(ctx, email, password)
	if err != nil {
		s.logger.Info("login rejected", zap.Error(err))
		s.notifier.Error(ctx, loginFailureMessage(err))
		return false
	}
	if err := s.store.SaveToken(ctx, resp.BearerToken()); err != nil {
		s.logger.Error("failed to persist token", zap.Error(err))
		s.endSession(ctx)
		s.notifier.Error(ctx, apperrors.UserMessage(err))
		return false
	}

	user, err := s.fetchIdentity(ctx)
	if err != nil {
		s.logger.Warn("identity fetch failed after login", zap.Error(err))
		s.endSession(ctx)
		s.notifier.Error(ctx, apperrors.UserMessage(err))
		return false
	}

	s.setUser(ctx, user, ReasonLoggedIn)
	s.notifier.Success(ctx, fmt.Sprintf("Welcome back, %s!", user.Name))
	return true
}

// Register creates an account without signing in.
func (s *SessionManager) Register(ctx context.Context, name, email, password string) bool {
	done := s.begin()
	defer done()

	if err := s.identity.Register(ctx, name, email, password); err != nil {
		s.logger.Info("registration rejected", zap.Error(err))
		s.notifier.Error(ctx, registerFailureMessage(err))
		return false
	}
	s.notifier.Success(ctx, "Account created successfully!")
	return true
}

// Logout clears persisted and in-memory session state. It never calls the
// identity service and may be repeated; only a logout that cleared something
// is announced.
func (s *SessionManager) Logout(ctx context.Context) {
	stored, err := s.store.Load(ctx)
	persisted := err != nil || stored.HasToken() || stored.User != nil
	if s.endSession(ctx) || persisted {
		s.notifier.Success(ctx, "Logged out successfully")
	}
}

// Expire drops the in-memory user after the token store has been purged by
// a rejected authenticated call.
func (s *SessionManager) Expire(ctx context.Context) {
	if s.clearUser(ctx, ReasonExpired) {
		s.notifier.Error(ctx, apperrors.UserMessage(apperrors.NewUnauthorized("")))
	}
}

func (s *SessionManager) fetchIdentity(ctx context.Context) (*domain.User, error) {
	profile, err := s.identity.Me(ctx)
	if err != nil {
		return nil, err
	}
	user := domain.NewUser(profile, s.policy)
	if err := s.store.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// endSession purges the token store and drops the in-memory user; a partial
// login has already overwritten any previous token.
func (s *SessionManager) endSession(ctx context.Context) bool {
	s.purge(ctx)
	return s.clearUser(ctx, ReasonLoggedOut)
}

func (s *SessionManager) purge(ctx context.Context) {
	if err := s.store.Clear(ctx); err != nil {
		s.logger.Error("failed to clear token store", zap.Error(err))
	}
}

func (s *SessionManager) setUser(ctx context.Context, user *domain.User, reason string) {
	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
	s.publish(ctx, user, reason)
}

// clearUser reports whether a user was present.
func (s *SessionManager) clearUser(ctx context.Context, reason string) bool {
	s.mu.Lock()
	had := s.user != nil
	s.user = nil
	s.mu.Unlock()
	if had {
		s.publish(ctx, nil, reason)
	}
	return had
}

func (s *SessionManager) publish(ctx context.Context, user *domain.User, reason string) {
	if s.dispatcher == nil {
		return
	}
	var snapshot *domain.User
	if user != nil {
		u := *user
		snapshot = &u
	}
	event := events.New(events.EventSessionChanged, s.workspace, events.SessionChangedPayload{User: snapshot, Reason: reason})
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("session change handler failed", zap.Error(err))
	}
}

func loginFailureMessage(err error) string {
	switch apperrors.RemoteStatus(err) {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return "Invalid credentials"
	}
	return apperrors.UserMessage(err)
}

func registerFailureMessage(err error) string {
	if apperrors.IsCode(err, apperrors.CodeHTTP) {
		return fmt.Sprintf("Registration failed: %s", err.Error())
	}
	return apperrors.UserMessage(err)
}
