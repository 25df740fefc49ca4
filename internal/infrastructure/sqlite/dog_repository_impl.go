package sqlite

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/oksasatya/dog-registry/internal/domain/entity"
	"github.com/oksasatya/dog-registry/internal/domain/repository"
)

type DogRepository struct {
	db *gorm.DB
}

func NewDogRepository(db *gorm.DB) *DogRepository {
	return &DogRepository{db: db}
}

func (r *DogRepository) Create(ctx context.Context, d *entity.Dog) error {
	m := DogModel{Name: d.Name, Owner: d.Owner, Breed: d.Breed, CreatedAt: d.CreatedAt}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return fmt.Errorf("create dog: %w", err)
	}
	d.ID = m.ID
	d.CreatedAt = m.CreatedAt
	return nil
}

func (r *DogRepository) List(ctx context.Context) ([]entity.Dog, error) {
	var rows []DogModel
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list dogs: %w", err)
	}
	out := make([]entity.Dog, 0, len(rows))
	for _, m := range rows {
		out = append(out, m.toEntity())
	}
	return out, nil
}

var _ repository.DogRepository = (*DogRepository)(nil)
