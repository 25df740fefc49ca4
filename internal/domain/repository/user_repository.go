package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/dog-registry/internal/domain/entity"
)

// ErrNotFound is returned when a lookup matches no row. It is an expected
// outcome callers branch on, not a failure.
var ErrNotFound = errors.New("record not found")

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id uint) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
}
