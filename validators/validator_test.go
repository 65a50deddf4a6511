package validators

import (
	"errors"
	"testing"

	"github.com/anonto42/yatube/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostFormRequiresText(t *testing.T) {
	v := NewValidator()

	err := v.Validate(models.PostForm{})
	require.Error(t, err)
	assert.Equal(t, map[string]string{"text": "This field is required."}, FieldErrors(err))

	assert.NoError(t, v.Validate(models.PostForm{Text: "hello", Group: "3"}))

	err = v.Validate(models.PostForm{Text: "hello", Group: "cats"})
	assert.Equal(t, "Select a valid choice.", FieldErrors(err)["group"])
}

func TestSignupForm(t *testing.T) {
	v := NewValidator()

	err := v.Validate(models.SignupForm{
		Username:        "bad name!",
		Email:           "nope",
		Password:        "longenough",
		PasswordConfirm: "different1",
	})
	errs := FieldErrors(err)
	assert.Contains(t, errs, "username")
	assert.Contains(t, errs, "email")
	assert.Equal(t, "The two password fields didn't match.", errs["password_confirm"])

	assert.NoError(t, v.Validate(models.SignupForm{
		Username:        "leo.t@home",
		Password:        "longenough",
		PasswordConfirm: "longenough",
	}))
}

func TestGroupSlug(t *testing.T) {
	v := NewValidator()
	assert.NoError(t, v.Validate(models.CreateGroupRequest{Title: "Cats", Slug: "cats-and_dogs"}))
	assert.Error(t, v.Validate(models.CreateGroupRequest{Title: "Cats", Slug: "cats & dogs"}))
}

func TestFieldErrorsPassesThroughOtherErrors(t *testing.T) {
	assert.Nil(t, FieldErrors(nil))
	assert.Equal(t, map[string]string{"__all__": "boom"}, FieldErrors(errors.New("boom")))
}

func TestMustRegisterPanicsOnBadTag(t *testing.T) {
	assert.NotPanics(t, func() { NewValidator() })
	assert.Panics(t, func() {
		mustRegister(NewValidator().validate, "", usernamePattern)
	})
}
