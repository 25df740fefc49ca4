package sqlite

import (
	"errors"

	"gorm.io/gorm"

	"github.com/oksasatya/dog-registry/internal/domain/repository"
)

// wrapGormError maps gorm's not-found error onto the repository sentinel and
// passes everything else through.
func wrapGormError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repository.ErrNotFound
	}
	return err
}
