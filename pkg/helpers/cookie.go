package helpers

import (
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
)

type Manager struct {
	Domain string
	Secure bool
	MaxAge time.Duration
}

func NewCookie(domain string, secure bool, maxAge time.Duration) *Manager {
	return &Manager{Domain: domain, Secure: secure, MaxAge: maxAge}
}

// Options returns the session cookie attributes. The cookie is HttpOnly and
// Lax so the credentialed frontend origin can still send it.
func (m *Manager) Options() sessions.Options {
	return sessions.Options{
		Path:     "/",
		Domain:   m.Domain,
		MaxAge:   int(m.MaxAge.Seconds()),
		Secure:   m.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// NewSessionStore builds a signed cookie store.
func NewSessionStore(secret string, m *Manager) sessions.Store {
	store := cookie.NewStore([]byte(secret))
	store.Options(m.Options())
	return store
}
