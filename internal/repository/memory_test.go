package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/diet-tracker/internal/domain"
)

func TestMemoryUsers(t *testing.T) {
	ctx := context.Background()
	users := NewMemoryStore().Users()

	u := &domain.User{FirstName: "Ada", Email: "Ada@Example.com", DailyThreshold: domain.DefaultDailyThreshold}
	require.NoError(t, users.Create(ctx, u))
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "ada@example.com", u.Email)

	err := users.Create(ctx, &domain.User{Email: "ADA@example.com"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	got, err := users.GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = users.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, pgx.ErrNoRows)

	got.DailyThreshold = 1800
	require.NoError(t, users.Update(ctx, got))
	reloaded, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 1800, reloaded.DailyThreshold)

	assert.ErrorIs(t, users.Update(ctx, &domain.User{ID: "missing"}), pgx.ErrNoRows)
}

func TestMemoryUsersListNonAdmin(t *testing.T) {
	ctx := context.Background()
	users := NewMemoryStore().Users()
	require.NoError(t, users.Create(ctx, &domain.User{Email: "admin@x.io", IsAdmin: true}))
	require.NoError(t, users.Create(ctx, &domain.User{Email: "user@x.io"}))

	list, err := users.ListNonAdmin(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "user@x.io", list[0].Email)
}

func TestMemoryFoods(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	users, foods := store.Users(), store.Foods()

	owner := &domain.User{FirstName: "Ada", LastName: "L", Email: "ada@x.io"}
	require.NoError(t, users.Create(ctx, owner))

	day := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	breakfast := &domain.Food{ProductName: "oats", Calorie: 300, TimeConsumed: day.Add(8 * time.Hour), CreatorID: owner.ID}
	dinner := &domain.Food{ProductName: "pizza", Calorie: 900, TimeConsumed: day.Add(20 * time.Hour), CreatorID: owner.ID}
	cake := &domain.Food{ProductName: "cake", Calorie: 500, TimeConsumed: day.Add(21 * time.Hour), CreatorID: owner.ID, IsCheatFood: true}
	tomorrow := &domain.Food{ProductName: "eggs", Calorie: 200, TimeConsumed: day.Add(32 * time.Hour), CreatorID: owner.ID}
	for _, f := range []*domain.Food{breakfast, dinner, cake, tomorrow} {
		require.NoError(t, foods.Create(ctx, f))
	}

	list, err := foods.ListByCreator(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, list, 4)
	assert.Equal(t, "eggs", list[0].ProductName)
	assert.Equal(t, "oats", list[3].ProductName)

	total, err := foods.SumCalories(ctx, owner.ID, day, day.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1200.0, total)

	all, err := foods.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)
	require.NotNil(t, all[0].Creator)
	assert.Equal(t, "ada@x.io", all[0].Creator.Email)
	assert.Empty(t, all[0].Creator.PasswordHash)

	dinner.Calorie = 700
	require.NoError(t, foods.Update(ctx, dinner))
	got, err := foods.GetByID(ctx, dinner.ID)
	require.NoError(t, err)
	assert.Equal(t, 700.0, got.Calorie)
	assert.Equal(t, owner.ID, got.CreatorID)

	deleted, err := foods.DeleteMany(ctx, []string{breakfast.ID, "missing"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
	_, err = foods.GetByID(ctx, breakfast.ID)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}
