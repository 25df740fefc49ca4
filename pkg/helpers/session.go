package helpers

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// SessionUserKey is the session value holding the logged-in identity.
const SessionUserKey = "user_id"

// Identity is anything that can be bound to a login session.
type Identity interface {
	SessionID() string
}

// LoginSession binds id to the caller's session and writes the cookie.
func LoginSession(c *gin.Context, id Identity) error {
	s := sessions.Default(c)
	s.Set(SessionUserKey, id.SessionID())
	return s.Save()
}

// SessionIdentity returns the identity stored in the session, if any.
func SessionIdentity(c *gin.Context) (string, bool) {
	v, ok := sessions.Default(c).Get(SessionUserKey).(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
