package middleware

import (
	"context"
	"net/http"
	"strings"

	"personal-health-record/internal/service"
	"personal-health-record/pkg/jwt"
	"personal-health-record/pkg/response"

	"github.com/google/uuid"
)

type contextKey string

const (
	UserIDKey  contextKey = "user_id"
	TokenIDKey contextKey = "token_id"
)

// GuardState is the outcome of the per-request session check.
type GuardState string

const (
	GuardLoading         GuardState = "loading"
	GuardAuthenticated   GuardState = "authenticated"
	GuardUnauthenticated GuardState = "unauthenticated"
)

// Guard carries the state reached and, when authenticated, the token claims.
type Guard struct {
	State  GuardState
	Claims *jwt.Claims
	Reason string
}

type AuthMiddleware struct {
	jwtService   *jwt.JWTService
	sessionStore service.SessionStore
}

func NewAuthMiddleware(jwtService *jwt.JWTService, sessionStore service.SessionStore) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService:   jwtService,
		sessionStore: sessionStore,
	}
}

// Check runs the session check once. It starts in GuardLoading and ends in
// GuardAuthenticated or GuardUnauthenticated; an error leaves it in GuardLoading.
func (m *AuthMiddleware) Check(r *http.Request) (Guard, error) {
	guard := Guard{State: GuardLoading}

	unauthenticated := func(reason string) (Guard, error) {
		guard.State = GuardUnauthenticated
		guard.Reason = reason
		return guard, nil
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return unauthenticated("Authorization header is required")
	}

	// Extract token from "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return unauthenticated("Invalid authorization header format")
	}

	claims, err := m.jwtService.ValidateToken(parts[1])
	if err != nil {
		return unauthenticated("Invalid or expired token")
	}

	if claims.TokenType != jwt.AccessToken {
		return unauthenticated("Invalid token type")
	}

	exists, err := m.sessionStore.Exists(r.Context(), jwt.AccessToken, claims.UserID, claims.TokenID)
	if err != nil {
		return guard, err
	}
	if !exists {
		return unauthenticated("Token has been revoked")
	}

	guard.State = GuardAuthenticated
	guard.Claims = claims
	return guard, nil
}

func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		guard, err := m.Check(r)
		if err != nil {
			response.InternalServerError(w, "Failed to validate token")
			return
		}
		if guard.State != GuardAuthenticated {
			response.Unauthorized(w, guard.Reason)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), guard.Claims)))
	})
}

// WithClaims adds user info to the context
func WithClaims(ctx context.Context, claims *jwt.Claims) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
	ctx = context.WithValue(ctx, TokenIDKey, claims.TokenID)
	return ctx
}

// GetUserIDFromContext extracts user ID from context
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

// GetTokenIDFromContext extracts token ID from context
func GetTokenIDFromContext(ctx context.Context) (string, bool) {
	tokenID, ok := ctx.Value(TokenIDKey).(string)
	return tokenID, ok
}
