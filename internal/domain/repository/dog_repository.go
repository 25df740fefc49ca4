package repository

import (
	"context"

	"github.com/oksasatya/dog-registry/internal/domain/entity"
)

type DogRepository interface {
	Create(ctx context.Context, d *entity.Dog) error
	List(ctx context.Context) ([]entity.Dog, error)
}
