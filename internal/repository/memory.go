package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/diet-tracker/internal/domain"
)

// MemoryStore keeps users and foods in process. It backs the server when no
// POSTGRES_DSN is configured and is used by tests.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]domain.User
	foods map[string]domain.Food
	now   func() time.Time
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[string]domain.User),
		foods: make(map[string]domain.Food),
		now:   time.Now,
	}
}

// Users returns a UserRepository view of the store.
func (s *MemoryStore) Users() UserRepository {
	return memoryUsers{s}
}

// Foods returns a FoodRepository view of the store.
func (s *MemoryStore) Foods() FoodRepository {
	return memoryFoods{s}
}

type memoryUsers struct{ s *MemoryStore }

func (r memoryUsers) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	email := strings.ToLower(user.Email)
	for _, existing := range r.s.users {
		if existing.Email == email {
			return ErrEmailTaken
		}
	}
	now := r.s.now()
	user.ID = uuid.NewString()
	user.Email = email
	user.CreatedAt = now
	user.UpdatedAt = now
	r.s.users[user.ID] = *user
	return nil
}

func (r memoryUsers) Update(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	user.Email = strings.ToLower(user.Email)
	user.UpdatedAt = r.s.now()
	r.s.users[user.ID] = *user
	return nil
}

func (r memoryUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	user, ok := r.s.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

func (r memoryUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, user := range r.s.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r memoryUsers) ListNonAdmin(_ context.Context) ([]domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var users []domain.User
	for _, user := range r.s.users {
		if !user.IsAdmin {
			users = append(users, user)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })
	return users, nil
}

type memoryFoods struct{ s *MemoryStore }

func (r memoryFoods) Create(_ context.Context, food *domain.Food) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	food.ID = uuid.NewString()
	food.CreatedAt = now
	food.UpdatedAt = now
	r.s.foods[food.ID] = *food
	return nil
}

func (r memoryFoods) Update(_ context.Context, food *domain.Food) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.foods[food.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	existing.ProductName = food.ProductName
	existing.TimeConsumed = food.TimeConsumed
	existing.Calorie = food.Calorie
	existing.IsCheatFood = food.IsCheatFood
	existing.UpdatedAt = r.s.now()
	r.s.foods[food.ID] = existing
	*food = existing
	return nil
}

func (r memoryFoods) GetByID(_ context.Context, id string) (*domain.Food, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	food, ok := r.s.foods[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &food, nil
}

func (r memoryFoods) ListByCreator(_ context.Context, creatorID string) ([]domain.Food, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var foods []domain.Food
	for _, food := range r.s.foods {
		if food.CreatorID == creatorID {
			foods = append(foods, food)
		}
	}
	sortNewestFirst(foods)
	return foods, nil
}

func (r memoryFoods) ListAll(_ context.Context) ([]domain.FoodWithCreator, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	foods := make([]domain.Food, 0, len(r.s.foods))
	for _, food := range r.s.foods {
		foods = append(foods, food)
	}
	sortNewestFirst(foods)

	out := make([]domain.FoodWithCreator, 0, len(foods))
	for _, food := range foods {
		item := domain.FoodWithCreator{Food: food}
		if user, ok := r.s.users[food.CreatorID]; ok {
			item.Creator = &domain.User{ID: user.ID, FirstName: user.FirstName, LastName: user.LastName, Email: user.Email}
		}
		out = append(out, item)
	}
	return out, nil
}

func (r memoryFoods) SumCalories(_ context.Context, creatorID string, from, to time.Time) (float64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var total float64
	for _, food := range r.s.foods {
		if food.CreatorID != creatorID || food.IsCheatFood {
			continue
		}
		if !food.TimeConsumed.Before(from) && food.TimeConsumed.Before(to) {
			total += food.Calorie
		}
	}
	return total, nil
}

func (r memoryFoods) DeleteMany(_ context.Context, ids []string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var deleted int64
	for _, id := range ids {
		if _, ok := r.s.foods[id]; ok {
			delete(r.s.foods, id)
			deleted++
		}
	}
	return deleted, nil
}

func sortNewestFirst(foods []domain.Food) {
	sort.SliceStable(foods, func(i, j int) bool { return foods[i].TimeConsumed.After(foods[j].TimeConsumed) })
}
