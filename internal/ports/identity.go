package ports

import "context"

// IdentityResolver maps a session token to a verified user identity
type IdentityResolver interface {
	// Resolve returns domain.ErrUnauthenticated when the token is unknown
	Resolve(ctx context.Context, token string) (string, error)
}
