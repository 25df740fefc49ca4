package router

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/dog-registry/internal/container"
	"github.com/oksasatya/dog-registry/internal/interface/middleware"
	"github.com/oksasatya/dog-registry/pkg/helpers"
	"github.com/oksasatya/dog-registry/pkg/validation"
)

// NewEngine builds the Gin engine from the singletons in the container.
// Config, logger, database and avatar store must be set beforehand. Extra
// modules are mounted next to the built-in ones and share their middlewares.
func NewEngine(extra ...Module) *gin.Engine {
	cfg := container.GetConfig()
	logger := container.GetLogger()

	validation.Init()

	r := gin.New()
	// c.ClientIP() reads forwarding headers only from trusted proxies
	if err := r.SetTrustedProxies(cfg.TrustedProxyList()); err != nil {
		helpers.LogError(logger, "invalid trusted proxies; trusting none", err, nil)
		_ = r.SetTrustedProxies(nil)
	}
	r.TrustedPlatform = trustedPlatform(cfg.TrustedPlatform)

	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	if cfg.HTTPLogEnabled {
		r.Use(middleware.AccessLog(logger))
	}

	// CORS
	corsCfg := cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	r.Use(cors.New(corsCfg))

	// Session cookie
	cookies := helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure, cfg.SessionMaxAge)
	r.Use(sessions.Sessions(cfg.SessionName, helpers.NewSessionStore(cfg.SessionSecret, cookies)))

	// Avatars written by the disk store
	r.Static("/profile_pics", cfg.AvatarDir)

	// Registry: auto-register modules using container
	reg := NewRegistry(r)
	InitModules(reg)
	for _, m := range extra {
		reg.Add(m)
	}
	reg.RegisterAll()

	return r
}

func trustedPlatform(name string) string {
	switch strings.ToLower(name) {
	case "cloudflare":
		return gin.PlatformCloudflare
	case "google":
		return gin.PlatformGoogleAppEngine
	default:
		return name
	}
}
