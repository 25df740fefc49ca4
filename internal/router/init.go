package router

import (
	"gorm.io/gorm"

	userapp "github.com/oksasatya/dog-registry/internal/application"
	"github.com/oksasatya/dog-registry/internal/container"
	repo "github.com/oksasatya/dog-registry/internal/domain/repository"
	"github.com/oksasatya/dog-registry/internal/infrastructure/sqlite"
	handlers "github.com/oksasatya/dog-registry/internal/interface/http"
	"github.com/oksasatya/dog-registry/internal/interface/middleware"
	"github.com/oksasatya/dog-registry/internal/router/modules"
	"github.com/oksasatya/dog-registry/pkg/helpers"
)

type UserModuleDeps struct {
	Service *userapp.Service
	Handler *handlers.UserHandler
}

func userRepo(db *gorm.DB) repo.UserRepository {
	return sqlite.NewUserRepository(db)
}

func buildUserDeps() UserModuleDeps {
	cfg := container.GetConfig()

	avatars := helpers.NewAvatarSaver(container.GetAvatarStore(), helpers.AvatarOptions{
		MaxWidth:  cfg.AvatarMaxWidth,
		MaxHeight: cfg.AvatarMaxHeight,
		Rotate:    cfg.AvatarRotate,
	})

	// keep the interface nil when no broker is configured
	var events userapp.Publisher
	if pub := container.GetRabbitPub(); pub != nil {
		events = pub
	}

	service := userapp.NewService(avatars, events, container.GetLogger(), cfg.NormalizeEmail)
	handler := handlers.NewUserHandler(service, userRepo, container.GetLogger(), cfg.StrictStatusCodes)

	return UserModuleDeps{
		Service: service,
		Handler: handler,
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	userDeps := buildUserDeps()

	// every module route gets its own pooled connection and the session user
	r.Use(
		middleware.DBConn(container.GetDB(), logger),
		middleware.CurrentUser(userDeps.Handler.LoadUser, logger),
	)

	var allow middleware.AllowFunc
	if cfg.RateLimitSkipPrivate {
		allow = middleware.AllowPrivateIP()
	}

	r.Add(modules.NewIndexModule())
	r.Add(modules.NewUserModule(userDeps.Handler, container.GetRedis(), cfg.RegisterRateLimit, allow))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
