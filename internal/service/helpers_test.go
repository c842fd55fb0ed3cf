package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/diet-tracker/internal/auth"
	"github.com/spec-kit/diet-tracker/internal/config"
	"github.com/spec-kit/diet-tracker/internal/events"
	"github.com/spec-kit/diet-tracker/internal/repository"
	apperrors "github.com/spec-kit/diet-tracker/pkg/util/errorutil"
)

type fixture struct {
	store      *repository.MemoryStore
	dispatcher events.Dispatcher
	tokens     *auth.TokenManager
	users      *UserService
	foods      *FoodService
}

func newFixture(t *testing.T, adminEmails ...string) fixture {
	t.Helper()
	store := repository.NewMemoryStore()
	dispatcher := events.NewInMemoryDispatcher()
	tokens := auth.NewTokenManager("secret", 0)
	return fixture{
		store:      store,
		dispatcher: dispatcher,
		tokens:     tokens,
		users: NewUserService(config.AuthConfig{BcryptCost: 4, AdminEmails: adminEmails}, UserDependencies{
			UserRepo:     store.Users(),
			TokenManager: tokens,
			Dispatcher:   dispatcher,
		}),
		foods: NewFoodService(FoodDependencies{
			FoodRepo:   store.Foods(),
			UserRepo:   store.Users(),
			Dispatcher: dispatcher,
		}),
	}
}

func requireDomainError(t *testing.T, err error, status int, message string) {
	t.Helper()
	var de *apperrors.DomainError
	require.True(t, errors.As(err, &de), "expected DomainError, got %v", err)
	assert.Equal(t, status, de.HTTPStatus)
	assert.Equal(t, message, de.Message)
}
