package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/diet-tracker/internal/domain"
	"github.com/spec-kit/diet-tracker/internal/events"
)

func signUp(t *testing.T, f fixture, email string) domain.Identity {
	t.Helper()
	user, err := f.users.SignUp(context.Background(), SignUpInput{FirstName: "F", LastName: "L", Email: email, Password: "secret1"})
	require.NoError(t, err)
	return domain.Identity{ID: user.ID, Email: user.Email}
}

func TestFoodCreate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ada := signUp(t, f, "ada@example.com")
	bob := signUp(t, f, "bob@example.com")

	var created []events.Event
	f.dispatcher.Subscribe(events.EventFoodCreated, func(_ context.Context, e events.Event) error {
		created = append(created, e)
		return nil
	})

	own, err := f.foods.Create(ctx, ada, FoodInput{ProductName: "apple", Calorie: 95, TimeConsumed: time.Now()})
	require.NoError(t, err)
	assert.Equal(t, ada.ID, own.CreatorID)
	require.NotNil(t, own.Creator)
	assert.Equal(t, ada.Email, own.Creator.Email)

	forBob, err := f.foods.Create(ctx, ada, FoodInput{ProductName: "pear", Calorie: 100, TimeConsumed: time.Now(), CreatorID: bob.ID})
	require.NoError(t, err)
	assert.Equal(t, bob.ID, forBob.CreatorID)

	_, err = f.foods.Create(ctx, ada, FoodInput{ProductName: "x", CreatorID: "ghost"})
	requireDomainError(t, err, http.StatusNotFound, "Could not find user for provided id.")

	require.Len(t, created, 2)
	assert.Equal(t, bob.ID, created[1].UserID)
	assert.Equal(t, ada.ID, created[1].ActorID)
}

func TestFoodUpdateAndGet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ada := signUp(t, f, "ada@example.com")

	food, err := f.foods.Create(ctx, ada, FoodInput{ProductName: "apple", Calorie: 95, TimeConsumed: time.Now()})
	require.NoError(t, err)

	updated, err := f.foods.Update(ctx, ada, food.ID, FoodInput{ProductName: "green apple", Calorie: 80, TimeConsumed: food.TimeConsumed, IsCheatFood: true})
	require.NoError(t, err)
	assert.Equal(t, "green apple", updated.ProductName)
	assert.True(t, updated.IsCheatFood)
	assert.Equal(t, ada.ID, updated.CreatorID)

	got, err := f.foods.Get(ctx, food.ID)
	require.NoError(t, err)
	assert.Equal(t, 80.0, got.Calorie)

	_, err = f.foods.Update(ctx, ada, "missing", FoodInput{})
	requireDomainError(t, err, http.StatusNotFound, "Could not find food for the provided id.")
	_, err = f.foods.Get(ctx, "missing")
	requireDomainError(t, err, http.StatusNotFound, "Could not find food for the provided id.")
}

func TestFoodListsAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ada := signUp(t, f, "ada@example.com")

	_, err := f.foods.ListByUser(ctx, ada.ID)
	requireDomainError(t, err, http.StatusNotFound, "Could not find foods for the provided user id.")

	now := time.Now()
	older, err := f.foods.Create(ctx, ada, FoodInput{ProductName: "older", Calorie: 1, TimeConsumed: now.Add(-time.Hour)})
	require.NoError(t, err)
	newer, err := f.foods.Create(ctx, ada, FoodInput{ProductName: "newer", Calorie: 1, TimeConsumed: now})
	require.NoError(t, err)

	list, err := f.foods.ListByUser(ctx, ada.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)

	all, err := f.foods.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	deleted, err := f.foods.Delete(ctx, ada, []string{older.ID, "missing"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	list, err = f.foods.ListByUser(ctx, ada.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
