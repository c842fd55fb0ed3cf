package state

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/diet-tracker/internal/client/action"
	"github.com/spec-kit/diet-tracker/internal/client/dispatch"
)

func pendingEvent(label action.Label) dispatch.Event {
	return dispatch.Event{DispatchID: uuid.New(), Label: label, Phase: dispatch.PhasePending}
}

func successEvent(t *testing.T, label action.Label, payload any) dispatch.Event {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return dispatch.Event{DispatchID: uuid.New(), Label: label, Phase: dispatch.PhaseSuccess, Payload: raw}
}

func errorEvent(label action.Label, message string) dispatch.Event {
	return dispatch.Event{
		DispatchID: uuid.New(),
		Label:      label,
		Phase:      dispatch.PhaseError,
		Err:        &dispatch.Error{Kind: dispatch.KindValidation, Status: 422, Message: message},
	}
}

func TestLoginTransitions(t *testing.T) {
	s := NewStore()

	s.Apply(pendingEvent(action.LoginRequested))
	snap := s.Snapshot()
	assert.True(t, snap.User.Loading)
	assert.Equal(t, StatusPending, snap.User.Login.Status)

	s.Apply(successEvent(t, action.LoginReceived, map[string]any{
		"id": "u-1", "email": "a@b.c", "isAdmin": true, "dailyThreshold": 2100, "token": "t",
	}))
	snap = s.Snapshot()
	assert.False(t, snap.User.Loading)
	assert.Equal(t, StatusSuccess, snap.User.Login.Status)
	require.NotNil(t, snap.User.Details)
	assert.Equal(t, "u-1", snap.User.Details.ID)
	assert.True(t, snap.User.Details.IsAdmin)

	s.Apply(pendingEvent(action.LoginRequested))
	s.Apply(errorEvent(action.LoginRequestFailed, "User does not exists."))
	snap = s.Snapshot()
	assert.Nil(t, snap.User.Details)
	assert.Equal(t, Lifecycle{Status: StatusError, Message: "User does not exists."}, snap.User.Login)
}

func TestMalformedPayloadBecomesError(t *testing.T) {
	s := NewStore()
	s.Apply(pendingEvent(action.UserListRequested))
	s.Apply(dispatch.Event{Label: action.UserListReceived, Phase: dispatch.PhaseSuccess, Payload: json.RawMessage(`{"not":"a list"}`)})

	snap := s.Snapshot()
	assert.Equal(t, StatusError, snap.User.UserList.Status)
	assert.False(t, snap.User.Loading)
}

func TestThresholdUpdatesDetailsAndUserList(t *testing.T) {
	s := NewStore()
	s.Apply(successEvent(t, action.LoginReceived, map[string]any{"id": "admin", "isAdmin": true, "dailyThreshold": 2100}))
	s.Apply(successEvent(t, action.UserListReceived, []map[string]any{
		{"id": "u-1", "dailyThreshold": 2100},
		{"id": "u-2", "dailyThreshold": 2100},
	}))

	s.Apply(pendingEvent(action.UpdateThresholdRequested))
	s.Apply(successEvent(t, action.UpdateThresholdReceived, map[string]any{"user": map[string]any{"id": "u-2", "dailyThreshold": 1500}}))

	snap := s.Snapshot()
	assert.Equal(t, StatusSuccess, snap.User.Threshold.Status)
	assert.Equal(t, 2100, snap.User.Details.DailyThreshold)
	assert.Equal(t, 2100, snap.User.Users[0].DailyThreshold)
	assert.Equal(t, 1500, snap.User.Users[1].DailyThreshold)

	s.Apply(successEvent(t, action.UpdateThresholdReceived, map[string]any{"user": map[string]any{"id": "admin", "dailyThreshold": 1000}}))
	assert.Equal(t, 1000, s.Snapshot().User.Details.DailyThreshold)
}

func TestFoodTransitions(t *testing.T) {
	s := NewStore()

	s.Apply(pendingEvent(action.FoodsByUserRequested))
	assert.True(t, s.Snapshot().Food.Loading)
	s.Apply(successEvent(t, action.FoodsByUserReceived, []map[string]any{
		{"id": "f-1", "productName": "apple", "calorie": 95, "creator": "u-1"},
	}))
	snap := s.Snapshot()
	require.Len(t, snap.Food.ByUser, 1)
	assert.Equal(t, "u-1", snap.Food.ByUser[0].Creator.ID)

	s.Apply(pendingEvent(action.CreateFoodRequested))
	assert.Equal(t, StatusPending, s.Snapshot().Food.Create.Status)
	s.Apply(successEvent(t, action.CreateFoodReceived, map[string]any{"food": map[string]any{
		"id": "f-2", "productName": "pear", "creator": map[string]any{"id": "u-1", "email": "a@b.c"},
	}}))
	snap = s.Snapshot()
	assert.Equal(t, StatusSuccess, snap.Food.Create.Status)
	require.Len(t, snap.Food.ByUser, 2)
	assert.Equal(t, "a@b.c", snap.Food.ByUser[1].Creator.Email)

	s.Apply(pendingEvent(action.FoodsListRequested))
	s.Apply(successEvent(t, action.FoodsListReceived, []map[string]any{
		{"id": "f-1", "productName": "apple", "calorie": 95, "creator": map[string]any{"id": "u-1", "firstName": "Ada", "email": "a@b.c"}},
		{"id": "f-3", "productName": "cake", "calorie": 400, "creator": map[string]any{"id": "u-2", "firstName": "Bob"}},
	}))
	s.Apply(successEvent(t, action.CreateFoodForUserReceived, map[string]any{"food": map[string]any{"id": "f-4", "creator": "u-2"}}))
	require.Len(t, s.Snapshot().Food.All, 3)

	s.Apply(pendingEvent(action.UpdateFoodRequested))
	s.Apply(successEvent(t, action.UpdateFoodReceived, map[string]any{"id": "f-1", "productName": "green apple", "calorie": 80, "creator": "u-1"}))
	snap = s.Snapshot()
	assert.Equal(t, StatusSuccess, snap.Food.Update.Status)
	assert.Equal(t, "green apple", snap.Food.All[0].ProductName)
	assert.Equal(t, "Ada", snap.Food.All[0].Creator.FirstName, "populated creator kept")
	assert.Equal(t, "green apple", snap.Food.ByUser[0].ProductName)

	s.Apply(pendingEvent(action.DeleteFoodsRequested))
	s.Apply(successEvent(t, action.DeleteFoodsReceived, map[string]any{"message": "Deleted food.", "deleteFoodIds": []string{"f-1", "f-3"}}))
	snap = s.Snapshot()
	assert.Equal(t, StatusSuccess, snap.Food.Delete.Status)
	require.Len(t, snap.Food.All, 1)
	assert.Equal(t, "f-4", snap.Food.All[0].ID)
	require.Len(t, snap.Food.ByUser, 1)
	assert.Equal(t, "f-2", snap.Food.ByUser[0].ID)

	s.Apply(errorEvent(action.DeleteFoodsRequestFailed, "Something went wrong, could not delete food."))
	assert.Equal(t, "Something went wrong, could not delete food.", s.Snapshot().Food.Delete.Message)
}

func TestEveryLabelIsHandled(t *testing.T) {
	s := NewStore()
	for _, l := range action.Labels() {
		assert.NotPanics(t, func() { s.Apply(pendingEvent(l)) }, l.String())
	}
	assert.Panics(t, func() { s.Apply(pendingEvent(action.Label(999))) })
}

func TestUnauthorizedLeavesPendingFlags(t *testing.T) {
	s := NewStore()
	s.Apply(successEvent(t, action.LoginReceived, map[string]any{"id": "u-1"}))
	s.Apply(successEvent(t, action.FoodsByUserReceived, []map[string]any{{"id": "f-1"}}))
	s.Apply(pendingEvent(action.CreateFoodRequested))

	s.Unauthorized()
	snap := s.Snapshot()
	assert.True(t, snap.User.Unauthorized)
	assert.Nil(t, snap.User.Details)
	assert.Empty(t, snap.Food.ByUser)
	assert.Equal(t, StatusPending, snap.Food.Create.Status)

	s.Unauthorized()
	assert.Equal(t, snap, s.Snapshot())

	s.Apply(successEvent(t, action.LoginReceived, map[string]any{"id": "u-1"}))
	assert.False(t, s.Snapshot().User.Unauthorized)

	s.ResetCreateFoodStatus()
	assert.Equal(t, StatusIdle, s.Snapshot().Food.Create.Status)
	s.Reset()
	assert.Equal(t, State{}, s.Snapshot())
}

func TestResetTransitions(t *testing.T) {
	s := NewStore()
	s.Apply(successEvent(t, action.LoginReceived, map[string]any{"id": "u-1"}))
	s.Apply(successEvent(t, action.UserListReceived, []map[string]any{{"id": "u-2"}}))
	s.Apply(successEvent(t, action.FoodsByUserReceived, []map[string]any{{"id": "f-1"}}))
	s.Apply(successEvent(t, action.FoodsListReceived, []map[string]any{{"id": "f-2"}}))
	s.Apply(errorEvent(action.CreateFoodRequestFailed, "create"))
	s.Apply(errorEvent(action.CreateFoodForUserRequestFailed, "create for user"))
	s.Apply(errorEvent(action.UpdateFoodRequestFailed, "update"))
	s.Apply(errorEvent(action.DeleteFoodsRequestFailed, "delete"))
	s.Apply(errorEvent(action.SignUpRequestFailed, "signup"))

	s.ResetCreateFoodStatus()
	snap := s.Snapshot()
	assert.Equal(t, Lifecycle{}, snap.Food.Create)
	assert.Equal(t, Lifecycle{}, snap.Food.CreateForUser)
	assert.Equal(t, StatusError, snap.Food.Update.Status)

	s.ResetUpdateFoodStatus()
	assert.Equal(t, Lifecycle{}, s.Snapshot().Food.Update)
	assert.Equal(t, StatusError, s.Snapshot().Food.Delete.Status)

	s.ResetDeleteFoodStatus()
	assert.Equal(t, Lifecycle{}, s.Snapshot().Food.Delete)

	s.ResetSignUpStatus()
	snap = s.Snapshot()
	assert.Equal(t, Lifecycle{}, snap.User.SignUp)
	assert.Equal(t, StatusSuccess, snap.User.Login.Status)

	s.ResetFoods()
	snap = s.Snapshot()
	assert.Equal(t, FoodState{}, snap.Food)
	require.NotNil(t, snap.User.Details)

	s.ResetUser()
	snap = s.Snapshot()
	assert.Nil(t, snap.User.Details)
	assert.Nil(t, snap.User.Users)
	assert.Equal(t, StatusSuccess, snap.User.UserList.Status)

	// A reset lets a retriggered operation go through pending again.
	var statuses []Status
	s.Subscribe(func(st State) { statuses = append(statuses, st.Food.Update.Status) })
	s.Apply(errorEvent(action.UpdateFoodRequestFailed, "again"))
	s.ResetUpdateFoodStatus()
	s.Apply(pendingEvent(action.UpdateFoodRequested))
	assert.Equal(t, []Status{StatusError, StatusIdle, StatusPending}, statuses)
}

func TestSnapshotsAreIsolated(t *testing.T) {
	s := NewStore()
	s.Apply(successEvent(t, action.FoodsListReceived, []map[string]any{{"id": "f-1"}}))

	snap := s.Snapshot()
	snap.Food.All[0].ID = "mutated"
	assert.Equal(t, "f-1", s.Snapshot().Food.All[0].ID)
}

func TestSubscribersReceiveSnapshots(t *testing.T) {
	s := NewStore()
	var statuses []Status
	s.Subscribe(func(st State) { statuses = append(statuses, st.Food.Create.Status) })

	s.Apply(pendingEvent(action.CreateFoodRequested))
	s.Apply(errorEvent(action.CreateFoodRequestFailed, "bad"))
	assert.Equal(t, []Status{StatusPending, StatusError}, statuses)
}

func TestCreatorDecoding(t *testing.T) {
	var c Creator
	require.NoError(t, json.Unmarshal([]byte(`"u-1"`), &c))
	assert.Equal(t, Creator{ID: "u-1"}, c)

	require.NoError(t, json.Unmarshal([]byte(`{"id":"u-2","firstName":"Bob","email":"b@c.d"}`), &c))
	assert.Equal(t, Creator{ID: "u-2", FirstName: "Bob", Email: "b@c.d"}, c)

	require.NoError(t, json.Unmarshal([]byte(`null`), &c))
	assert.Equal(t, Creator{}, c)
}
