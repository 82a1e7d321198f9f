package auth

import "context"

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID string
	Role   string
}

// IsAdmin reports whether p carries the admin role.
func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }

type ctxKey struct{}

// WithPrincipal stores p in the context.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// PrincipalFromCtx extracts the principal. The second value is false for
// anonymous callers.
func PrincipalFromCtx(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(ctxKey{}).(Principal)
	if !ok || p.UserID == "" {
		return Principal{}, false
	}
	return p, true
}

// ContextAuthorizer answers identity questions from the principal stored by
// the authentication middleware. It satisfies services.Authorizer.
type ContextAuthorizer struct{}

// IsAdmin reports whether the caller holds the admin role.
func (ContextAuthorizer) IsAdmin(ctx context.Context) bool {
	p, ok := PrincipalFromCtx(ctx)
	return ok && p.IsAdmin()
}

// UserID returns the caller's id, or "" when anonymous.
func (ContextAuthorizer) UserID(ctx context.Context) string {
	p, _ := PrincipalFromCtx(ctx)
	return p.UserID
}
