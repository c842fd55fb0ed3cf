// Package state is the client's reducer-style state holder. Lifecycle events
// from the dispatcher are the only way request state changes; session-wide
// resets go through Unauthorized and Reset.
package state

import (
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"github.com/spec-kit/diet-tracker/internal/client/action"
	"github.com/spec-kit/diet-tracker/internal/client/dispatch"
)

// Status is the tri-state of one operation kind.
type Status int

const (
	StatusIdle Status = iota
	StatusPending
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusPending:
		return "pending"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Lifecycle tracks one operation kind.
type Lifecycle struct {
	Status  Status
	Message string
}

func pending() Lifecycle {
	return Lifecycle{Status: StatusPending}
}

func succeeded() Lifecycle {
	return Lifecycle{Status: StatusSuccess}
}

func failed(msg string) Lifecycle {
	return Lifecycle{Status: StatusError, Message: msg}
}

// UserState is the user slice.
type UserState struct {
	Details      *User
	Users        []User
	Loading      bool
	Unauthorized bool

	Login     Lifecycle
	SignUp    Lifecycle
	UserList  Lifecycle
	Threshold Lifecycle
}

// FoodState is the food slice. ByUser holds the signed-in user's entries,
// All holds the admin view.
type FoodState struct {
	ByUser  []Food
	All     []Food
	Loading bool

	Create        Lifecycle
	CreateForUser Lifecycle
	ByUserList    Lifecycle
	Update        Lifecycle
	Delete        Lifecycle
	AllList       Lifecycle
}

// State is a snapshot of the whole store.
type State struct {
	User UserState
	Food FoodState
}

func (s State) clone() State {
	out := s
	if s.User.Details != nil {
		d := *s.User.Details
		out.User.Details = &d
	}
	out.User.Users = slices.Clone(s.User.Users)
	out.Food.ByUser = slices.Clone(s.Food.ByUser)
	out.Food.All = slices.Clone(s.Food.All)
	return out
}

// Store applies lifecycle events and notifies subscribers.
type Store struct {
	mu          sync.Mutex
	state       State
	subscribers []func(State)
}

func NewStore() *Store {
	return &Store{}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Subscribe registers fn to receive a snapshot after every change.
func (s *Store) Subscribe(fn func(State)) {
	s.mu.Lock()
	s.subscribers = append(s.subscribers, fn)
	s.mu.Unlock()
}

// Apply reduces one lifecycle event.
func (s *Store) Apply(ev dispatch.Event) {
	s.update(func(st *State) { reduce(st, ev) })
}

// Unauthorized marks the session as rejected and drops user and food data.
// Per-operation lifecycles are left as they are.
func (s *Store) Unauthorized() {
	s.update(func(st *State) {
		st.User.Details = nil
		st.User.Users = nil
		st.User.Loading = false
		st.User.Unauthorized = true
		st.Food.ByUser = nil
		st.Food.All = nil
		st.Food.Loading = false
	})
}

// Reset returns the store to its initial state, as on an explicit logout.
func (s *Store) Reset() {
	s.update(func(st *State) { *st = State{} })
}

// ResetCreateFoodStatus returns both create lifecycles to idle so the next
// create starts from a clean status.
func (s *Store) ResetCreateFoodStatus() {
	s.update(func(st *State) {
		st.Food.Create = Lifecycle{}
		st.Food.CreateForUser = Lifecycle{}
	})
}

func (s *Store) ResetUpdateFoodStatus() {
	s.update(func(st *State) { st.Food.Update = Lifecycle{} })
}

func (s *Store) ResetDeleteFoodStatus() {
	s.update(func(st *State) { st.Food.Delete = Lifecycle{} })
}

func (s *Store) ResetSignUpStatus() {
	s.update(func(st *State) { st.User.SignUp = Lifecycle{} })
}

// ResetFoods empties the food slice: both lists, the loading flag and every
// food lifecycle.
func (s *Store) ResetFoods() {
	s.update(func(st *State) { st.Food = FoodState{} })
}

// ResetUser drops the user details and the user list. Lifecycles and the
// unauthorized flag are kept.
func (s *Store) ResetUser() {
	s.update(func(st *State) {
		st.User.Details = nil
		st.User.Users = nil
	})
}

func (s *Store) update(fn func(*State)) {
	s.mu.Lock()
	fn(&s.state)
	snap := s.state.clone()
	subs := slices.Clone(s.subscribers)
	s.mu.Unlock()

	for _, sub := range subs {
		sub(snap)
	}
}

func errorMessage(ev dispatch.Event) string {
	if ev.Err != nil {
		return ev.Err.Message
	}
	return "request failed"
}

func decode[T any](ev dispatch.Event) (T, error) {
	var out T
	if len(ev.Payload) == 0 {
		return out, fmt.Errorf("%s: empty payload", ev.Label)
	}
	if err := json.Unmarshal(ev.Payload, &out); err != nil {
		return out, fmt.Errorf("%s: %w", ev.Label, err)
	}
	return out, nil
}

func reduce(st *State, ev dispatch.Event) {
	switch ev.Label {
	case action.LabelNone:
		return

	case action.LoginRequested:
		st.User.Loading = true
		st.User.Details = nil
		st.User.Login = pending()
	case action.LoginReceived:
		st.User.Loading = false
		p, err := decode[loginPayload](ev)
		if err != nil {
			st.User.Login = failed(err.Error())
			return
		}
		u := p.User
		st.User.Details = &u
		st.User.Unauthorized = false
		st.User.Login = succeeded()
	case action.LoginRequestFailed:
		st.User.Loading = false
		st.User.Details = nil
		st.User.Login = failed(errorMessage(ev))

	case action.SignUpRequested:
		st.User.Loading = true
		st.User.SignUp = pending()
	case action.SignUpReceived:
		st.User.Loading = false
		st.User.SignUp = succeeded()
	case action.SignUpRequestFailed:
		st.User.Loading = false
		st.User.SignUp = failed(errorMessage(ev))

	case action.UserListRequested:
		st.User.Loading = true
		st.User.Users = nil
		st.User.UserList = pending()
	case action.UserListReceived:
		st.User.Loading = false
		users, err := decode[[]User](ev)
		if err != nil {
			st.User.UserList = failed(err.Error())
			return
		}
		st.User.Users = users
		st.User.UserList = succeeded()
	case action.UserListRequestFailed:
		st.User.Loading = false
		st.User.UserList = failed(errorMessage(ev))

	case action.UpdateThresholdRequested:
		st.User.Threshold = pending()
	case action.UpdateThresholdReceived:
		p, err := decode[userEnvelope](ev)
		if err != nil {
			st.User.Threshold = failed(err.Error())
			return
		}
		if st.User.Details != nil && st.User.Details.ID == p.User.ID {
			st.User.Details.DailyThreshold = p.User.DailyThreshold
		}
		for i := range st.User.Users {
			if st.User.Users[i].ID == p.User.ID {
				st.User.Users[i].DailyThreshold = p.User.DailyThreshold
			}
		}
		st.User.Threshold = succeeded()
	case action.UpdateThresholdRequestFailed:
		st.User.Threshold = failed(errorMessage(ev))

	case action.CreateFoodRequested:
		st.Food.Create = pending()
	case action.CreateFoodReceived:
		p, err := decode[foodEnvelope](ev)
		if err != nil {
			st.Food.Create = failed(err.Error())
			return
		}
		st.Food.ByUser = append(st.Food.ByUser, p.Food)
		st.Food.Create = succeeded()
	case action.CreateFoodRequestFailed:
		st.Food.Create = failed(errorMessage(ev))

	case action.CreateFoodForUserRequested:
		st.Food.CreateForUser = pending()
	case action.CreateFoodForUserReceived:
		p, err := decode[foodEnvelope](ev)
		if err != nil {
			st.Food.CreateForUser = failed(err.Error())
			return
		}
		st.Food.All = append(st.Food.All, p.Food)
		st.Food.CreateForUser = succeeded()
	case action.CreateFoodForUserRequestFailed:
		st.Food.CreateForUser = failed(errorMessage(ev))

	case action.FoodsByUserRequested:
		st.Food.Loading = true
		st.Food.ByUser = nil
		st.Food.ByUserList = pending()
	case action.FoodsByUserReceived:
		st.Food.Loading = false
		foods, err := decode[[]Food](ev)
		if err != nil {
			st.Food.ByUserList = failed(err.Error())
			return
		}
		st.Food.ByUser = foods
		st.Food.ByUserList = succeeded()
	case action.FoodsByUserRequestFailed:
		st.Food.Loading = false
		st.Food.ByUserList = failed(errorMessage(ev))

	case action.UpdateFoodRequested:
		st.Food.Update = pending()
	case action.UpdateFoodReceived:
		f, err := decode[Food](ev)
		if err != nil {
			st.Food.Update = failed(err.Error())
			return
		}
		replaceFood(st.Food.All, f)
		replaceFood(st.Food.ByUser, f)
		st.Food.Update = succeeded()
	case action.UpdateFoodRequestFailed:
		st.Food.Update = failed(errorMessage(ev))

	case action.DeleteFoodsRequested:
		st.Food.Delete = pending()
	case action.DeleteFoodsReceived:
		p, err := decode[deletePayload](ev)
		if err != nil {
			st.Food.Delete = failed(err.Error())
			return
		}
		st.Food.All = removeFoods(st.Food.All, p.DeleteFoodIDs)
		st.Food.ByUser = removeFoods(st.Food.ByUser, p.DeleteFoodIDs)
		st.Food.Delete = succeeded()
	case action.DeleteFoodsRequestFailed:
		st.Food.Delete = failed(errorMessage(ev))

	case action.FoodsListRequested:
		st.Food.Loading = true
		st.Food.All = nil
		st.Food.AllList = pending()
	case action.FoodsListReceived:
		st.Food.Loading = false
		foods, err := decode[[]Food](ev)
		if err != nil {
			st.Food.AllList = failed(err.Error())
			return
		}
		st.Food.All = foods
		st.Food.AllList = succeeded()
	case action.FoodsListRequestFailed:
		st.Food.Loading = false
		st.Food.AllList = failed(errorMessage(ev))

	default:
		panic(fmt.Sprintf("state: unhandled label %s", ev.Label))
	}
}

// replaceFood keeps the existing creator when the update carries only an id.
func replaceFood(foods []Food, f Food) {
	for i := range foods {
		if foods[i].ID != f.ID {
			continue
		}
		if f.Creator.FirstName == "" && foods[i].Creator.ID == f.Creator.ID {
			f.Creator = foods[i].Creator
		}
		foods[i] = f
	}
}

func removeFoods(foods []Food, ids []string) []Food {
	return slices.DeleteFunc(foods, func(f Food) bool {
		return slices.Contains(ids, f.ID)
	})
}
