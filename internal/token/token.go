// Package token persists the session bearer token across process restarts,
// the way a browser client keeps it in localStorage under a fixed key.
package token

import "context"

// Store is the durable key-value home of the bearer token. Only the auth
// container writes to it; everything else reads.
type Store interface {
	// Load returns the stored token, or "" when none is stored.
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}
