package application

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/dog-registry/internal/domain/entity"
	repo "github.com/oksasatya/dog-registry/internal/domain/repository"
	"github.com/oksasatya/dog-registry/pkg/helpers"
)

var (
	ErrEmailTaken = errors.New("email already registered")
)

// EventUserRegistered is the event type published after a successful registration.
const EventUserRegistered = "user.registered"

// Publisher sends domain events to a broker.
type Publisher interface {
	Publish(ctx context.Context, eventType string, body any) error
}

type Service struct {
	Avatars        *helpers.AvatarSaver
	Events         Publisher
	Logger         *logrus.Logger
	NormalizeEmail bool
}

func NewService(avatars *helpers.AvatarSaver, events Publisher, logger *logrus.Logger, normalizeEmail bool) *Service {
	return &Service{
		Avatars:        avatars,
		Events:         events,
		Logger:         logger,
		NormalizeEmail: normalizeEmail,
	}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	Avatar   *multipart.FileHeader
}

type UserRegistered struct {
	Type       string    `json:"type"`
	UserID     uint      `json:"user_id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	Image      string    `json:"image"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Register creates a user with a hashed password and a stored avatar.
// The lookup and the insert are not atomic; two concurrent requests with the
// same email can both succeed.
func (s *Service) Register(ctx context.Context, users repo.UserRepository, in RegisterInput) (*entity.User, error) {
	email := in.Email
	if s.NormalizeEmail {
		email = strings.ToLower(email)
	}

	existing, err := users.GetByEmail(ctx, email)
	switch {
	case err == nil && existing != nil:
		return nil, ErrEmailTaken
	case err != nil && !errors.Is(err, repo.ErrNotFound):
		return nil, fmt.Errorf("lookup user by email: %w", err)
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	image, err := s.Avatars.Save(ctx, in.Avatar)
	if err != nil {
		return nil, err
	}

	u := &entity.User{
		Username: in.Username,
		Email:    email,
		Password: hash,
		Image:    image,
	}
	if err := users.Create(ctx, u); err != nil {
		if derr := s.Avatars.Discard(ctx, image); derr != nil {
			helpers.LogWarn(s.Logger, "remove orphaned avatar failed", derr, logrus.Fields{"image": image})
		}
		return nil, err
	}

	s.publishRegistered(ctx, u)
	return u, nil
}

func (s *Service) publishRegistered(ctx context.Context, u *entity.User) {
	if s.Events == nil {
		return
	}
	ev := UserRegistered{
		Type:       EventUserRegistered,
		UserID:     u.ID,
		Username:   u.Username,
		Email:      u.Email,
		Image:      u.Image,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.Events.Publish(ctx, EventUserRegistered, ev); err != nil {
		helpers.LogWarn(s.Logger, "publish user.registered failed", err, logrus.Fields{"user_id": u.ID})
	}
}

// LoadUser resolves a session identity to a user. Unknown or malformed ids
// yield (nil, nil).
func LoadUser(ctx context.Context, users repo.UserRepository, sessionID string) (*entity.User, error) {
	id, err := entity.ParseSessionID(sessionID)
	if err != nil {
		return nil, nil
	}
	u, err := users.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}
