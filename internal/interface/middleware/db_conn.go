package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/oksasatya/dog-registry/pkg/helpers"
	"github.com/oksasatya/dog-registry/pkg/response"
)

const dbKey = "db"

// DBConn pins one pooled connection to the request for the whole handler
// chain. The connection goes back to the pool when the chain returns or
// panics, since gorm defers its Close.
func DBConn(db *gorm.DB, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		entered := false
		err := db.WithContext(c.Request.Context()).Connection(func(tx *gorm.DB) error {
			entered = true
			c.Set(dbKey, tx.Session(&gorm.Session{NewDB: true}))
			c.Next()
			return nil
		})
		if err != nil && !entered {
			helpers.LogError(log, "acquire db connection failed", err, logrus.Fields{"path": c.Request.URL.Path})
			response.Abort(c, http.StatusServiceUnavailable, "database unavailable", nil)
		}
	}
}

// DB returns the request-scoped handle set by DBConn.
func DB(c *gin.Context) (*gorm.DB, bool) {
	v, ok := c.Get(dbKey)
	if !ok {
		return nil, false
	}
	db, ok := v.(*gorm.DB)
	return db, ok && db != nil
}
