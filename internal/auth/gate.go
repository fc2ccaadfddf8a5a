package auth

import "context"

type claimsKey struct{}

// WithClaims returns a context carrying the caller's claims.
func WithClaims(ctx context.Context, claims Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFrom returns the caller's claims, if any.
func ClaimsFrom(ctx context.Context) (Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(Claims)
	return claims, ok
}

// RoleGate authorizes callers whose token carries one of the staff roles.
type RoleGate struct {
	roles map[string]struct{}
}

// NewRoleGate builds a gate accepting the given roles.
func NewRoleGate(roles ...string) *RoleGate {
	g := &RoleGate{roles: make(map[string]struct{}, len(roles))}
	for _, r := range roles {
		g.roles[r] = struct{}{}
	}
	return g
}

// Authorized reports whether the context carries claims with an accepted role.
func (g *RoleGate) Authorized(ctx context.Context) bool {
	claims, ok := ClaimsFrom(ctx)
	if !ok || claims.Subject == "" {
		return false
	}
	_, ok = g.roles[claims.Role]
	return ok
}
