package common

import (
	"context"

	"github.com/sngm3741/cafe-finder/api/internal/cafe/domain"
)

type contextKey string

const principalContextKey contextKey = "principal"

// ContextWithPrincipal stores the authenticated caller into context.
func ContextWithPrincipal(ctx context.Context, principal domain.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, principal)
}

// PrincipalFromContext extracts the authenticated caller from context.
func PrincipalFromContext(ctx context.Context) (domain.Principal, bool) {
	principal, ok := ctx.Value(principalContextKey).(domain.Principal)
	return principal, ok
}
