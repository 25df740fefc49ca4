package handlers

import (
	"errors"
	"expvar"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	userapp "github.com/oksasatya/dog-registry/internal/application"
	repo "github.com/oksasatya/dog-registry/internal/domain/repository"
	"github.com/oksasatya/dog-registry/internal/interface/middleware"
	"github.com/oksasatya/dog-registry/pkg/helpers"
	"github.com/oksasatya/dog-registry/pkg/response"
	"github.com/oksasatya/dog-registry/pkg/validation"
)

const (
	MsgUserExists = "A user with that name or email already exists"
	MsgSuccess    = "Success"

	// Body codes kept for existing clients; the HTTP status line follows them
	// only in strict mode.
	codeDuplicate = http.StatusUnauthorized
	codeCreated   = http.StatusCreated

	// bcrypt only hashes the first 72 bytes and refuses longer input.
	maxPasswordBytes = 72
)

// registrations is published under /debug/vars.
var registrations = expvar.NewMap("registrations")

// UserRepoFactory binds a user repository to a request-scoped handle.
type UserRepoFactory func(db *gorm.DB) repo.UserRepository

type UserHandler struct {
	Svc               *userapp.Service
	Users             UserRepoFactory
	Logger            *logrus.Logger
	StrictStatusCodes bool
}

func NewUserHandler(svc *userapp.Service, users UserRepoFactory, logger *logrus.Logger, strict bool) *UserHandler {
	return &UserHandler{Svc: svc, Users: users, Logger: logger, StrictStatusCodes: strict}
}

type registerRequest struct {
	Email    string                `form:"email" binding:"required,email"`
	Username string                `form:"username" binding:"required,max=64"`
	Password string                `form:"password" binding:"required"`
	File     *multipart.FileHeader `form:"file" binding:"required"`
}

func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindWith(&req, binding.FormMultipart); err != nil {
		registrations.Add("invalid", 1)
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if len(req.Password) > maxPasswordBytes {
		registrations.Add("invalid", 1)
		response.Error(c, http.StatusBadRequest, "invalid payload", passwordTooLong())
		return
	}

	db, ok := middleware.DB(c)
	if !ok {
		response.Error(c, http.StatusServiceUnavailable, "database unavailable", nil)
		return
	}

	u, err := h.Svc.Register(c.Request.Context(), h.Users(db), userapp.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Avatar:   req.File,
	})
	switch {
	case errors.Is(err, userapp.ErrEmailTaken):
		registrations.Add("duplicate", 1)
		status := http.StatusOK
		code := codeDuplicate
		if h.StrictStatusCodes {
			status, code = http.StatusConflict, http.StatusConflict
		}
		response.Write(c, status, code, MsgUserExists, response.Empty{})
		return
	case errors.Is(err, bcrypt.ErrPasswordTooLong):
		registrations.Add("invalid", 1)
		response.Error(c, http.StatusBadRequest, "invalid payload", passwordTooLong())
		return
	case errors.Is(err, helpers.ErrInvalidAvatar):
		registrations.Add("invalid", 1)
		response.Error(c, http.StatusBadRequest, "invalid avatar image", map[string]string{"file": err.Error()})
		return
	case err != nil:
		helpers.LogError(h.Logger, "register user failed", err, logrus.Fields{"request_id": c.GetString("request_id")})
		response.Error(c, http.StatusInternalServerError, "internal server error", nil)
		return
	}

	if err := helpers.LoginSession(c, u); err != nil {
		helpers.LogError(h.Logger, "save session failed", err, logrus.Fields{"user_id": u.ID})
		response.Error(c, http.StatusInternalServerError, "internal server error", nil)
		return
	}

	registrations.Add("created", 1)
	status := http.StatusOK
	if h.StrictStatusCodes {
		status = http.StatusCreated
	}
	response.Success(c, status, codeCreated, gin.H{
		"id":       u.ID,
		"username": u.Username,
		"email":    u.Email,
		"image":    u.Image,
	}, MsgSuccess)
}

func passwordTooLong() map[string]string {
	return map[string]string{"password": fmt.Sprintf("must be at most %d bytes long", maxPasswordBytes)}
}

// LoadUser is the session loader used by middleware.CurrentUser.
func (h *UserHandler) LoadUser(c *gin.Context, sessionID string) (helpers.Identity, error) {
	db, ok := middleware.DB(c)
	if !ok {
		return nil, errors.New("no request database handle")
	}
	u, err := userapp.LoadUser(c.Request.Context(), h.Users(db), sessionID)
	if err != nil || u == nil {
		return nil, err
	}
	return u, nil
}
