package cart

import "context"

// Store persists one cart per session id. Implementations must treat a missing
// session as an empty cart, not an error.
type Store interface {
	Get(ctx context.Context, sessionID string) (Cart, error)
	Save(ctx context.Context, sessionID string, cart Cart) error
	Delete(ctx context.Context, sessionID string) error
}
