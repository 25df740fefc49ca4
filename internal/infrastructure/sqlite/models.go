package sqlite

import (
	"time"

	"github.com/oksasatya/dog-registry/internal/domain/entity"
)

// UserModel maps the user table. Email is indexed for lookups but carries no
// unique constraint.
type UserModel struct {
	ID       uint   `gorm:"primaryKey;autoIncrement"`
	Username string `gorm:"type:varchar(255);not null"`
	Email    string `gorm:"type:varchar(255);not null;index"`
	Password string `gorm:"type:varchar(255);not null"`
	Image    string `gorm:"type:varchar(255);not null"`
}

func (UserModel) TableName() string { return "user" }

// DogModel maps the dog table.
type DogModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	Name      string    `gorm:"type:varchar(255);not null"`
	Owner     string    `gorm:"type:varchar(255);not null"`
	Breed     string    `gorm:"type:varchar(255);not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (DogModel) TableName() string { return "dog" }

func toUserModel(u *entity.User) UserModel {
	return UserModel{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Password: u.Password,
		Image:    u.Image,
	}
}

func (m UserModel) toEntity() *entity.User {
	return &entity.User{
		ID:       m.ID,
		Username: m.Username,
		Email:    m.Email,
		Password: m.Password,
		Image:    m.Image,
	}
}

func (m DogModel) toEntity() entity.Dog {
	return entity.Dog{
		ID:        m.ID,
		Name:      m.Name,
		Owner:     m.Owner,
		Breed:     m.Breed,
		CreatedAt: m.CreatedAt,
	}
}
