package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

func TestAuthErrors(t *testing.T) {
	missing := ToDomainError(NewAuthMissing())
	assert.Equal(t, http.StatusUnauthorized, missing.HTTPStatus)
	assert.Equal(t, MsgNoToken, missing.Message)

	invalid := ToDomainError(NewAuthInvalid())
	assert.Equal(t, http.StatusForbidden, invalid.HTTPStatus)
	assert.Equal(t, MsgInvalidToken, invalid.Message)
}

func TestToDomainError(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", NewNotFound("Could not find food for the provided id."))
	de := ToDomainError(wrapped)
	assert.Equal(t, http.StatusNotFound, de.HTTPStatus)
	assert.Equal(t, CodeNotFound, de.Code)

	de = ToDomainError(fiber.ErrNotFound)
	assert.Equal(t, MsgRouteNotFound, de.Message)

	de = ToDomainError(fiber.NewError(http.StatusBadRequest, "bad json"))
	assert.Equal(t, CodeValidation, de.Code)
	assert.Equal(t, "bad json", de.Message)

	de = ToDomainError(pgx.ErrNoRows)
	assert.Equal(t, http.StatusNotFound, de.HTTPStatus)

	cause := errors.New("disk on fire")
	de = ToDomainError(cause)
	assert.Equal(t, http.StatusInternalServerError, de.HTTPStatus)
	assert.Equal(t, MsgUnknown, de.Message)
	assert.ErrorIs(t, de, cause)

	assert.Nil(t, ToDomainError(nil))
}

func TestUnexpectedKeepsMessage(t *testing.T) {
	cause := errors.New("bcrypt")
	err := NewUnexpected("Encryption failed.", cause)
	de := ToDomainError(err)
	assert.Equal(t, "Encryption failed.", de.Message)
	assert.Equal(t, "Encryption failed.: bcrypt", de.Error())
	assert.ErrorIs(t, err, cause)
}
