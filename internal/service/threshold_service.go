package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/diet-tracker/internal/domain"
	"github.com/spec-kit/diet-tracker/internal/events"
	"github.com/spec-kit/diet-tracker/internal/observability"
	"github.com/spec-kit/diet-tracker/internal/repository"
)

// ThresholdService watches intake events and flags users whose daily total
// exceeds their configured threshold.
type ThresholdService struct {
	dispatcher events.Dispatcher
	users      repository.UserRepository
	foods      repository.FoodRepository
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NewThresholdService creates the service.
func NewThresholdService(dispatcher events.Dispatcher, users repository.UserRepository, foods repository.FoodRepository, metrics *observability.Metrics, logger *zap.Logger) *ThresholdService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ThresholdService{
		dispatcher: dispatcher,
		users:      users,
		foods:      foods,
		metrics:    metrics,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (t *ThresholdService) RegisterHandlers() {
	if t.dispatcher == nil {
		return
	}
	t.dispatcher.Subscribe(events.EventFoodCreated, t.handleFoodChanged)
	t.dispatcher.Subscribe(events.EventFoodUpdated, t.handleFoodChanged)
	t.dispatcher.Subscribe(events.EventFoodsDeleted, t.handleFoodsDeleted)
	t.dispatcher.Subscribe(events.EventThresholdUpdated, t.handleThresholdUpdated)
}

func (t *ThresholdService) handleFoodChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.FoodPayload)
	if !ok {
		return nil
	}
	_, err := t.Check(ctx, event.UserID, payload.TimeConsumed)
	return err
}

// handleFoodsDeleted recomputes every day touched by a delete. A delete only
// lowers a total, so nothing is counted; a day back within budget is logged.
func (t *ThresholdService) handleFoodsDeleted(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.FoodsDeletedPayload)
	if !ok {
		return nil
	}
	type userDay struct {
		userID string
		day    time.Time
	}
	seen := make(map[userDay]bool)
	for _, entry := range payload.Entries {
		key := userDay{entry.CreatorID, dayOf(entry.TimeConsumed)}
		if seen[key] {
			continue
		}
		seen[key] = true

		user, total, err := t.dayTotal(ctx, key.userID, key.day)
		if err != nil {
			return err
		}
		if total <= float64(user.DailyThreshold) {
			t.logger.Info("daily total within threshold after delete",
				zap.String("user_id", key.userID),
				zap.Time("day", key.day),
				zap.Float64("total", total))
		}
	}
	return nil
}

func (t *ThresholdService) handleThresholdUpdated(ctx context.Context, event events.Event) error {
	t.logger.Info("ThresholdUpdated", zap.String("user_id", event.UserID), zap.Any("payload", event.Payload))
	_, err := t.Check(ctx, event.UserID, time.Now())
	return err
}

// Check reports whether userID's intake on the calendar day of at (UTC)
// exceeds their threshold, logging and counting a breach.
func (t *ThresholdService) Check(ctx context.Context, userID string, at time.Time) (bool, error) {
	from := dayOf(at)
	user, total, err := t.dayTotal(ctx, userID, from)
	if err != nil {
		return false, err
	}

	if total <= float64(user.DailyThreshold) {
		return false, nil
	}

	t.metrics.RecordThresholdExceeded()
	t.logger.Warn("daily threshold exceeded",
		zap.String("user_id", userID),
		zap.Time("day", from),
		zap.Float64("total", total),
		zap.Int("threshold", user.DailyThreshold))
	return true, nil
}

func (t *ThresholdService) dayTotal(ctx context.Context, userID string, day time.Time) (*domain.User, float64, error) {
	user, err := t.users.GetByID(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	total, err := t.foods.SumCalories(ctx, userID, day, day.Add(24*time.Hour))
	if err != nil {
		return nil, 0, err
	}
	return user, total, nil
}

func dayOf(at time.Time) time.Time {
	return at.UTC().Truncate(24 * time.Hour)
}
