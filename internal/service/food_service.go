package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/diet-tracker/internal/domain"
	"github.com/spec-kit/diet-tracker/internal/events"
	"github.com/spec-kit/diet-tracker/internal/repository"
	apperrors "github.com/spec-kit/diet-tracker/pkg/util/errorutil"
)

// FoodInput describes a created or edited entry.
type FoodInput struct {
	ProductName  string
	Calorie      float64
	TimeConsumed time.Time
	IsCheatFood  bool
	CreatorID    string
}

// FoodService coordinates food entry workflows.
type FoodService struct {
	foods      repository.FoodRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// FoodDependencies bundles repositories for the food service.
type FoodDependencies struct {
	FoodRepo   repository.FoodRepository
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewFoodService constructs the service.
func NewFoodService(deps FoodDependencies) *FoodService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FoodService{
		foods:      deps.FoodRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// Create stores an entry for input.CreatorID, defaulting to the caller.
func (s *FoodService) Create(ctx context.Context, actor domain.Identity, input FoodInput) (*domain.FoodWithCreator, error) {
	creatorID := input.CreatorID
	if creatorID == "" {
		creatorID = actor.ID
	}

	user, err := s.users.GetByID(ctx, creatorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("Could not find user for provided id.")
		}
		return nil, apperrors.NewUnexpected("Creating food failed, please try again.", err)
	}

	food := &domain.Food{
		ProductName:  input.ProductName,
		Calorie:      input.Calorie,
		TimeConsumed: input.TimeConsumed,
		IsCheatFood:  input.IsCheatFood,
		CreatorID:    user.ID,
	}
	if err := s.foods.Create(ctx, food); err != nil {
		return nil, apperrors.NewUnexpected("Creating food failed, please try again.", err)
	}

	s.publish(ctx, events.New(events.EventFoodCreated, user.ID, actor.ID, foodPayload(food)))
	return &domain.FoodWithCreator{Food: *food, Creator: user}, nil
}

// Update overwrites the editable fields of an entry.
func (s *FoodService) Update(ctx context.Context, actor domain.Identity, id string, input FoodInput) (*domain.Food, error) {
	food, err := s.foods.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("Could not find food for the provided id.")
		}
		return nil, apperrors.NewUnexpected("Something went wrong, could not update food.", err)
	}

	food.ProductName = input.ProductName
	food.TimeConsumed = input.TimeConsumed
	food.Calorie = input.Calorie
	food.IsCheatFood = input.IsCheatFood
	if err := s.foods.Update(ctx, food); err != nil {
		return nil, apperrors.NewUnexpected("Something went wrong, could not update food.", err)
	}

	s.publish(ctx, events.New(events.EventFoodUpdated, food.CreatorID, actor.ID, foodPayload(food)))
	return food, nil
}

// Get returns a single entry.
func (s *FoodService) Get(ctx context.Context, id string) (*domain.Food, error) {
	food, err := s.foods.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("Could not find food for the provided id.")
		}
		return nil, apperrors.NewUnexpected("Something went wrong, could not find a food.", err)
	}
	return food, nil
}

// ListByUser returns a user's entries, newest first. An empty list is a 404.
func (s *FoodService) ListByUser(ctx context.Context, userID string) ([]domain.Food, error) {
	foods, err := s.foods.ListByCreator(ctx, userID)
	if err != nil {
		return nil, apperrors.NewUnexpected("Fetching foods failed, please try again later.", err)
	}
	if len(foods) == 0 {
		return nil, apperrors.NewNotFound("Could not find foods for the provided user id.")
	}
	return foods, nil
}

// ListAll returns every entry with its creator.
func (s *FoodService) ListAll(ctx context.Context) ([]domain.FoodWithCreator, error) {
	foods, err := s.foods.ListAll(ctx)
	if err != nil {
		return nil, apperrors.NewUnexpected("Something went wrong, could not find a food list.", err)
	}
	return foods, nil
}

// Delete removes entries by id. Unknown ids are ignored.
func (s *FoodService) Delete(ctx context.Context, actor domain.Identity, ids []string) (int64, error) {
	var entries []events.DeletedEntry
	for _, id := range ids {
		food, err := s.foods.GetByID(ctx, id)
		if errors.Is(err, pgx.ErrNoRows) {
			continue
		}
		if err != nil {
			return 0, apperrors.NewUnexpected("Something went wrong, could not delete food.", err)
		}
		entries = append(entries, events.DeletedEntry{CreatorID: food.CreatorID, TimeConsumed: food.TimeConsumed})
	}

	deleted, err := s.foods.DeleteMany(ctx, ids)
	if err != nil {
		return 0, apperrors.NewUnexpected("Something went wrong, could not delete food.", err)
	}
	s.publish(ctx, events.New(events.EventFoodsDeleted, "", actor.ID, events.FoodsDeletedPayload{
		FoodIDs: ids,
		Deleted: deleted,
		Entries: entries,
	}))
	return deleted, nil
}

func (s *FoodService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handlers failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func foodPayload(food *domain.Food) events.FoodPayload {
	return events.FoodPayload{
		FoodID:       food.ID,
		ProductName:  food.ProductName,
		Calorie:      food.Calorie,
		TimeConsumed: food.TimeConsumed,
		IsCheatFood:  food.IsCheatFood,
	}
}
