package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/dog-registry/internal/interface/http"
	"github.com/oksasatya/dog-registry/internal/interface/middleware"
)

// UserModule mounts the user routes under /user.
// Public: POST /user/register (rate limited per IP when Redis is configured)
type UserModule struct {
	Handler       *handlers.UserHandler
	Redis         *redis.Client
	RegisterLimit int
	Allow         middleware.AllowFunc
}

func NewUserModule(h *handlers.UserHandler, rdb *redis.Client, registerLimit int, allow middleware.AllowFunc) *UserModule {
	return &UserModule{Handler: h, Redis: rdb, RegisterLimit: registerLimit, Allow: allow}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	registerLimiter := middleware.RateLimit(m.Redis, m.RegisterLimit, time.Minute, middleware.KeyByRoute(), m.Allow)

	user := rg.Group("/user")
	user.POST("/register", registerLimiter, m.Handler.Register)
}
