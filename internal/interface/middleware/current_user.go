package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/dog-registry/pkg/helpers"
)

const identityKey = "identity"

// IdentityLoader resolves a session identifier. It returns (nil, nil) when the
// identifier no longer matches anything.
type IdentityLoader func(c *gin.Context, sessionID string) (helpers.Identity, error)

// CurrentUser loads the identity bound to the session cookie, if any, and
// exposes it through CurrentIdentity. It never rejects a request.
func CurrentUser(load IdentityLoader, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, ok := helpers.SessionIdentity(c)
		if !ok {
			c.Next()
			return
		}
		id, err := load(c, sid)
		if err != nil {
			helpers.LogWarn(log, "load session user failed", err, logrus.Fields{"session_id": sid})
		}
		if err == nil && id != nil {
			c.Set(identityKey, id)
		}
		c.Next()
	}
}

// CurrentIdentity returns the identity loaded by CurrentUser.
func CurrentIdentity(c *gin.Context) (helpers.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	id, ok := v.(helpers.Identity)
	return id, ok
}
