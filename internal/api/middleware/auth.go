package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"Ciale/internal/auth"
)

// Context keys for storing caller information
type contextKey string

const (
	IdentityKey    contextKey = "identity"
	AccessTokenKey contextKey = "access_token"
)

// TokenParser verifies a signed token and returns the identity it carries
type TokenParser interface {
	Parse(token string) (*auth.Identity, error)
}

// SessionTokenSource reads the token stored in a session cookie
type SessionTokenSource interface {
	Token(r *http.Request) string
}

// AuthMiddleware authenticates requests with a Bearer token or, failing that, the session cookie
type AuthMiddleware struct {
	tokens   TokenParser
	sessions SessionTokenSource
}

// NewAuthMiddleware creates the auth middleware. sessions may be nil to accept Bearer tokens only.
func NewAuthMiddleware(tokens TokenParser, sessions SessionTokenSource) *AuthMiddleware {
	return &AuthMiddleware{
		tokens:   tokens,
		sessions: sessions,
	}
}

// RequireAuth rejects unauthenticated requests with 401.
// On success the caller's identity and token are injected into the context.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, source, malformed := m.extractToken(r)
		if malformed {
			writeAuthError(w, "Invalid Authorization header format. Expected: Bearer <token>")
			return
		}
		if token == "" {
			writeAuthError(w, "Authentication required")
			return
		}

		identity, err := m.tokens.Parse(token)
		if err != nil {
			log.Printf("[AUTH_FAILURE] type=%s ip=%s method=%s path=%s error=%v",
				source, r.RemoteAddr, r.Method, r.URL.Path, err)
			writeAuthError(w, "Invalid or expired token")
			return
		}

		next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), identity, token)))
	})
}

// OptionalAuth loads the identity when a valid token is present and otherwise continues anonymously
func (m *AuthMiddleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, _, malformed := m.extractToken(r)
		if token == "" || malformed {
			next.ServeHTTP(w, r)
			return
		}

		identity, err := m.tokens.Parse(token)
		if err != nil {
			log.Printf("Optional auth failed: %v", err)
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), identity, token)))
	})
}

// extractToken prefers the Authorization header over the session cookie
func (m *AuthMiddleware) extractToken(r *http.Request) (token, source string, malformed bool) {
	if header := r.Header.Get("Authorization"); header != "" {
		if !strings.HasPrefix(header, "Bearer ") {
			return "", "bearer", true
		}
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")), "bearer", false
	}
	if m.sessions != nil {
		return m.sessions.Token(r), "session", false
	}
	return "", "", false
}

func withIdentity(ctx context.Context, identity *auth.Identity, token string) context.Context {
	ctx = context.WithValue(ctx, IdentityKey, identity)
	return context.WithValue(ctx, AccessTokenKey, token)
}

// GetIdentity returns the authenticated caller, or nil for anonymous requests
func GetIdentity(r *http.Request) *auth.Identity {
	return IdentityFromContext(r.Context())
}

// IdentityFromContext returns the authenticated caller stored in ctx, or nil
func IdentityFromContext(ctx context.Context) *auth.Identity {
	identity, _ := ctx.Value(IdentityKey).(*auth.Identity)
	return identity
}

// GetAccessToken returns the token the request authenticated with
func GetAccessToken(r *http.Request) string {
	token, _ := r.Context().Value(AccessTokenKey).(string)
	return token
}

// SetTestIdentity sets the caller identity in the context for testing purposes
// This function should ONLY be used in tests to mock authenticated users
func SetTestIdentity(ctx context.Context, identity auth.Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, &identity)
}

// writeAuthError writes a JSON error response for authentication failures
func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	response := `{"error":"AuthenticationRequired","message":"` + message + `"}`
	if _, err := w.Write([]byte(response)); err != nil {
		log.Printf("Failed to write auth error response: %v", err)
	}
}
