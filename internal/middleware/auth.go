package middleware

import (
	"context"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/mealledger/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// AdminIDKey is the context key for storing the authenticated admin ID.
const AdminIDKey contextKey = "admin_id"

// GetAdminID extracts the admin ID from the context.
// Returns empty string if not found.
func GetAdminID(ctx context.Context) string {
	adminID, _ := ctx.Value(AdminIDKey).(string)
	return adminID
}

// WithAdminID returns a copy of ctx carrying adminID.
func WithAdminID(ctx context.Context, adminID string) context.Context {
	return context.WithValue(ctx, AdminIDKey, adminID)
}

// bearerToken returns the token of an "Authorization: Bearer <token>" header.
func bearerToken(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// RequireAuth returns a middleware that validates JWT tokens and requires authentication.
// The admin ID of a valid token is added to the request context and recorded as
// the author of every change made by the call.
func RequireAuth(jwtManager *auth.JWTManager) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			authHeader := req.Header().Get("Authorization")
			if authHeader == "" {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
			}

			tokenString, ok := bearerToken(authHeader)
			if !ok {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidToken)
			}

			claims, err := jwtManager.Validate(tokenString)
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}

			return next(WithAdminID(ctx, claims.AdminID), req)
		}
	}
}

// OptionalAuth returns a middleware that validates JWT tokens if present, but allows
// requests without authentication. Changes made without a token carry no author.
func OptionalAuth(jwtManager *auth.JWTManager) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if tokenString, ok := bearerToken(req.Header().Get("Authorization")); ok {
				// Invalid tokens are ignored.
				if claims, err := jwtManager.Validate(tokenString); err == nil {
					ctx = WithAdminID(ctx, claims.AdminID)
				}
			}
			return next(ctx, req)
		}
	}
}
