package tokenstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anupgautam23/oms-frontend/internal/domain"
)

// Store scopes a KV backend to one workspace namespace.
type Store struct {
	kv        KV
	namespace string
}

// New returns a store whose keys are prefixed with namespace.
func New(kv KV, namespace string) *Store {
	return &Store{kv: kv, namespace: namespace}
}

// Namespace returns the workspace the store is scoped to.
func (s *Store) Namespace() string {
	return s.namespace
}

func (s *Store) key(name string) string {
	return s.namespace + ":" + name
}

// Token returns the stored bearer token, or "" when none is stored.
func (s *Store) Token(ctx context.Context) (string, error) {
	token, _, err := s.kv.Get(ctx, s.key(TokenKey))
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	return token, nil
}

// Load reads the token and the cached identity. A cached identity that no
// longer decodes is reported as absent.
func (s *Store) Load(ctx context.Context) (domain.StoredSession, error) {
	token, err := s.Token(ctx)
	if err != nil {
		return domain.StoredSession{}, err
	}
	raw, ok, err := s.kv.Get(ctx, s.key(UserKey))
	if err != nil {
		return domain.StoredSession{}, fmt.Errorf("read user: %w", err)
	}
	session := domain.StoredSession{Token: token}
	if ok && raw != "" {
		var user domain.User
		if json.Unmarshal([]byte(raw), &user) == nil {
			session.User = &user
		}
	}
	return session, nil
}

// SaveToken persists the bearer token.
func (s *Store) SaveToken(ctx context.Context, token string) error {
	if err := s.kv.Set(ctx, s.key(TokenKey), token); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	return nil
}

// SaveUser persists the cached identity.
func (s *Store) SaveUser(ctx context.Context, user *domain.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := s.kv.Set(ctx, s.key(UserKey), string(raw)); err != nil {
		return fmt.Errorf("write user: %w", err)
	}
	return nil
}

// Clear removes token and cached identity together.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, s.key(TokenKey), s.key(UserKey)); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
