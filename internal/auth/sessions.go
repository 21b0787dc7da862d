package auth

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
)

// MinSessionSecretLength is the minimum cookie signing secret size in bytes
const MinSessionSecretLength = 32

const (
	sessionName     = "ciale_session"
	sessionTokenKey = "token"
)

// SessionStore keeps the caller's token in a signed cookie
type SessionStore struct {
	store *sessions.CookieStore
}

// NewSessionStore creates a cookie store signed with secret.
// maxAge bounds the cookie lifetime; secure marks the cookie HTTPS-only.
func NewSessionStore(secret string, maxAge time.Duration, secure bool) (*SessionStore, error) {
	if len(secret) < MinSessionSecretLength {
		return nil, fmt.Errorf("session secret must be at least %d bytes", MinSessionSecretLength)
	}

	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	store.MaxAge(store.Options.MaxAge)

	return &SessionStore{store: store}, nil
}

// Save stores token in the session cookie on w
func (s *SessionStore) Save(w http.ResponseWriter, r *http.Request, token string) error {
	// A cookie that fails to decode yields a fresh session, which is then overwritten
	session, _ := s.store.Get(r, sessionName)
	session.Values[sessionTokenKey] = token
	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Token returns the token stored in the request's session cookie, or "" when there is none
func (s *SessionStore) Token(r *http.Request) string {
	session, err := s.store.Get(r, sessionName)
	if err != nil {
		return ""
	}
	token, _ := session.Values[sessionTokenKey].(string)
	return token
}

// Clear expires the session cookie
func (s *SessionStore) Clear(w http.ResponseWriter, r *http.Request) error {
	session, _ := s.store.Get(r, sessionName)
	session.Values = map[interface{}]interface{}{}
	session.Options.MaxAge = -1
	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
