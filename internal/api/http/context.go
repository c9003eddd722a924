package http

import (
	"context"

	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/security"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/service"
)

type claimsKey struct{}

// withClaims stores the authenticated caller on ctx.
func withClaims(ctx context.Context, claims *security.UserClaims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFromContext returns the caller set by the auth middleware, or nil on public routes.
func ClaimsFromContext(ctx context.Context) *security.UserClaims {
	claims, _ := ctx.Value(claimsKey{}).(*security.UserClaims)
	return claims
}

// actorFrom is the caller as the services see it.
func actorFrom(ctx context.Context) service.Actor {
	claims := ClaimsFromContext(ctx)
	if claims == nil {
		return service.Actor{}
	}
	return service.Actor{UserID: claims.UserID, Role: claims.Role}
}
