package validation

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

type signup struct {
	Email    string `form:"email" binding:"required,email"`
	Username string `form:"username" binding:"required,max=64"`
	Password string `form:"password" binding:"required"`
}

func newValidate() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	v.RegisterTagNameFunc(fieldName)
	return v
}

func TestToDetails_FieldNames(t *testing.T) {
	err := newValidate().Struct(signup{Email: "nope"})

	details := ToDetails(err)

	assert.Equal(t, map[string]string{
		"email":    "must be a valid email",
		"username": "is required",
		"password": "is required",
	}, details)
}

func TestToDetails_Max(t *testing.T) {
	err := newValidate().Struct(signup{Email: "a@b.c", Username: strings.Repeat("x", 65), Password: "p"})

	assert.Equal(t, map[string]string{"username": "must be at most 64 characters long"}, ToDetails(err))
}

func TestToDetails_NonValidationErrors(t *testing.T) {
	assert.Nil(t, ToDetails(nil))
	assert.Equal(t, map[string]string{"payload": "expected multipart/form-data"}, ToDetails(http.ErrNotMultipart))
	assert.Equal(t, map[string]string{"payload": "invalid payload"}, ToDetails(errors.New("boom")))
}
