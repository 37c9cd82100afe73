package shared

import "context"

type identityContextKey struct{}

// Identity carries the caller's user id and role as supplied by the upstream
// gateway. The ledger core trusts this value and performs no authentication.
type Identity struct {
	UserID int64
	Role   string
}

// ContextWithIdentity stores the caller identity in context.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFromContext extracts the caller identity from context.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityContextKey{}).(Identity)
	return id, ok
}

// OwnerFromContext returns the calling user's id, or zero when absent.
func OwnerFromContext(ctx context.Context) int64 {
	id, _ := IdentityFromContext(ctx)
	return id.UserID
}
