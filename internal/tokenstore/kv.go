// Package tokenstore persists the bearer token and the cached identity of each
// workspace in a durable key-value backend.
package tokenstore

import "context"

// Keys are scoped per workspace and always cleared together.
const (
	TokenKey = "oms_token"
	UserKey  = "oms_user"
)

// KV is the minimal durable key-value contract a backend must honour.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
}
