package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherDeliversToSubscribersOfType(t *testing.T) {
	d := NewInMemoryDispatcher()
	var got []string
	d.Subscribe(EventFoodCreated, func(_ context.Context, e Event) error {
		got = append(got, "first:"+e.UserID)
		return nil
	})
	d.Subscribe(EventFoodCreated, func(_ context.Context, e Event) error {
		got = append(got, "second:"+e.UserID)
		return nil
	})
	d.Subscribe(EventFoodsDeleted, func(context.Context, Event) error {
		t.Fatal("unexpected delivery")
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), New(EventFoodCreated, "u-1", "u-1", FoodPayload{FoodID: "f-1"})))
	assert.Equal(t, []string{"first:u-1", "second:u-1"}, got)
}

func TestDispatcherJoinsHandlerErrors(t *testing.T) {
	d := NewInMemoryDispatcher()
	boom := errors.New("boom")
	calls := 0
	d.Subscribe(EventThresholdUpdated, func(context.Context, Event) error {
		calls++
		return boom
	})
	d.Subscribe(EventThresholdUpdated, func(context.Context, Event) error {
		calls++
		return nil
	})

	err := d.Publish(context.Background(), New(EventThresholdUpdated, "u-1", "admin", ThresholdUpdatedPayload{NewThreshold: 1500}))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}

func TestNewStampsEvent(t *testing.T) {
	e := New(EventFoodUpdated, "u-1", "u-2", nil)
	assert.NotEmpty(t, e.ID)
	assert.False(t, e.Timestamp.IsZero())
	assert.Equal(t, "u-2", e.ActorID)
}
