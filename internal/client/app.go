// Package client is the diet tracker's client application: it wires the
// dispatcher, the state store and the session manager together and exposes
// the operations a user interface drives.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/spec-kit/diet-tracker/internal/client/action"
	"github.com/spec-kit/diet-tracker/internal/client/dispatch"
	"github.com/spec-kit/diet-tracker/internal/client/session"
	"github.com/spec-kit/diet-tracker/internal/client/state"
	"github.com/spec-kit/diet-tracker/internal/domain"
)

var (
	// ErrSignedOut is returned by protected operations when no session exists.
	ErrSignedOut = errors.New("client: not signed in")
	// ErrNotAdmin is returned by admin-only operations for regular users.
	ErrNotAdmin = errors.New("client: admin access required")
)

// Options configures an App.
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	Tokens     session.TokenStore
	Logger     *zap.Logger
}

// App is the client application.
type App struct {
	store      *state.Store
	session    *session.Manager
	dispatcher *dispatch.Dispatcher
	logger     *zap.Logger
}

func New(opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	store := state.NewStore()
	sess := session.NewManager(opts.Tokens, logger.Named("session"))
	sess.Subscribe(func(session.Notice) { store.Unauthorized() })

	return &App{
		store:   store,
		session: sess,
		dispatcher: dispatch.New(dispatch.Options{
			BaseURL:      opts.BaseURL,
			HTTPClient:   opts.HTTPClient,
			Tokens:       sess,
			Unauthorized: sess,
			Sink:         store,
			Logger:       logger.Named("dispatch"),
		}),
		logger: logger,
	}
}

func (a *App) Store() *state.Store {
	return a.store
}

func (a *App) Session() *session.Manager {
	return a.session
}

func (a *App) Dispatcher() *dispatch.Dispatcher {
	return a.dispatcher
}

// OnNotice registers fn for forced reauthentication notices.
func (a *App) OnNotice(fn func(session.Notice)) {
	a.session.Subscribe(fn)
}

// Bootstrap restores a session from a stored token. It reports false when
// there is no token to restore, and ErrSignedOut when the token was cleared
// while the details were loading.
func (a *App) Bootstrap(ctx context.Context) (bool, error) {
	token, err := a.session.Token(ctx)
	if err != nil {
		return false, fmt.Errorf("read token: %w", err)
	}
	if token == "" {
		return false, nil
	}

	res := a.dispatcher.Dispatch(ctx, action.UserDetails())
	if err := resultErr(res); err != nil {
		return false, err
	}
	var user state.User
	if err := json.Unmarshal(res.Payload, &user); err != nil {
		return false, fmt.Errorf("decode user details: %w", err)
	}
	restored, err := a.session.Restore(ctx, sessionFor(user), token)
	if err != nil {
		return false, err
	}
	if !restored {
		return false, ErrSignedOut
	}
	return true, nil
}

// Login authenticates and stores the issued token. Data cached for a
// previous user is dropped first.
func (a *App) Login(ctx context.Context, email, password string) (session.Session, error) {
	a.store.ResetUser()
	a.store.ResetFoods()
	res := a.dispatcher.Dispatch(ctx, action.Login(action.Credentials{Email: email, Password: password}))
	if err := resultErr(res); err != nil {
		return session.Session{}, err
	}
	var payload struct {
		state.User
		Token string `json:"token"`
	}
	if err := json.Unmarshal(res.Payload, &payload); err != nil {
		return session.Session{}, fmt.Errorf("decode login response: %w", err)
	}
	if payload.Token == "" {
		return session.Session{}, errors.New("login response carried no token")
	}
	sess := sessionFor(payload.User)
	if err := a.session.SignIn(ctx, sess, payload.Token); err != nil {
		return session.Session{}, err
	}
	return sess, nil
}

// SignUp registers an account. It does not sign in.
func (a *App) SignUp(ctx context.Context, reg action.Registration) (state.User, error) {
	a.store.ResetSignUpStatus()
	res := a.dispatcher.Dispatch(ctx, action.SignUp(reg))
	if err := resultErr(res); err != nil {
		return state.User{}, err
	}
	var env struct {
		User state.User `json:"user"`
	}
	if err := json.Unmarshal(res.Payload, &env); err != nil {
		return state.User{}, fmt.Errorf("decode sign-up response: %w", err)
	}
	return env.User, nil
}

// Logout clears the session, the token and all cached state.
func (a *App) Logout(ctx context.Context) error {
	err := a.session.SignOut(ctx)
	a.store.Reset()
	return err
}

// LoadDashboard loads what the signed-in user sees: admins get the user list
// and every entry, other users get their own entries.
func (a *App) LoadDashboard(ctx context.Context) error {
	sess, err := a.requireSession()
	if err != nil {
		return err
	}

	if !sess.IsAdmin {
		res := a.dispatcher.Dispatch(ctx, action.ListFoodsByUser(sess.Identity.ID))
		err := resultErr(res)
		var apiErr *dispatch.Error
		if errors.As(err, &apiErr) && apiErr.Kind == dispatch.KindNotFound {
			return nil
		}
		return err
	}

	users := a.dispatcher.Go(ctx, action.ListUsers())
	foods := a.dispatcher.Go(ctx, action.ListAllFoods())
	return errors.Join(resultErr(<-users), resultErr(<-foods))
}

// CreateFood logs an entry for the signed-in user.
func (a *App) CreateFood(ctx context.Context, entry action.FoodEntry) (state.Food, error) {
	if _, err := a.requireSession(); err != nil {
		return state.Food{}, err
	}
	entry.Creator = ""
	return a.createFood(ctx, action.CreateFood(entry))
}

// CreateFoodForUser logs an entry on behalf of userID.
func (a *App) CreateFoodForUser(ctx context.Context, userID string, entry action.FoodEntry) (state.Food, error) {
	if _, err := a.requireAdmin(); err != nil {
		return state.Food{}, err
	}
	entry.Creator = userID
	return a.createFood(ctx, action.CreateFoodForUser(entry))
}

func (a *App) createFood(ctx context.Context, desc action.Descriptor) (state.Food, error) {
	a.store.ResetCreateFoodStatus()
	res := a.dispatcher.Dispatch(ctx, desc)
	if err := resultErr(res); err != nil {
		return state.Food{}, err
	}
	var env struct {
		Food state.Food `json:"food"`
	}
	if err := json.Unmarshal(res.Payload, &env); err != nil {
		return state.Food{}, fmt.Errorf("decode food: %w", err)
	}
	return env.Food, nil
}

// UpdateFood edits an entry.
func (a *App) UpdateFood(ctx context.Context, id string, entry action.FoodEntry) (state.Food, error) {
	if _, err := a.requireSession(); err != nil {
		return state.Food{}, err
	}
	entry.Creator = ""
	a.store.ResetUpdateFoodStatus()
	res := a.dispatcher.Dispatch(ctx, action.UpdateFood(id, entry))
	if err := resultErr(res); err != nil {
		return state.Food{}, err
	}
	var food state.Food
	if err := json.Unmarshal(res.Payload, &food); err != nil {
		return state.Food{}, fmt.Errorf("decode food: %w", err)
	}
	return food, nil
}

// DeleteFoods removes entries and returns the ids the server confirmed.
func (a *App) DeleteFoods(ctx context.Context, ids []string) ([]string, error) {
	if _, err := a.requireSession(); err != nil {
		return nil, err
	}
	a.store.ResetDeleteFoodStatus()
	res := a.dispatcher.Dispatch(ctx, action.DeleteFoods(ids))
	if err := resultErr(res); err != nil {
		return nil, err
	}
	var body struct {
		DeleteFoodIDs []string `json:"deleteFoodIds"`
	}
	if err := json.Unmarshal(res.Payload, &body); err != nil {
		return nil, fmt.Errorf("decode delete response: %w", err)
	}
	return body.DeleteFoodIDs, nil
}

// UpdateDailyThreshold sets userID's daily calorie threshold. An empty
// userID targets the signed-in user, whose session is refreshed on success.
func (a *App) UpdateDailyThreshold(ctx context.Context, userID string, threshold int) (state.User, error) {
	sess, err := a.requireSession()
	if err != nil {
		return state.User{}, err
	}
	if userID == "" {
		userID = sess.Identity.ID
	}
	res := a.dispatcher.Dispatch(ctx, action.UpdateDailyThreshold(action.Threshold{UserID: userID, DailyThreshold: threshold}))
	if err := resultErr(res); err != nil {
		return state.User{}, err
	}
	var env struct {
		User state.User `json:"user"`
	}
	if err := json.Unmarshal(res.Payload, &env); err != nil {
		return state.User{}, fmt.Errorf("decode user: %w", err)
	}
	if env.User.ID == sess.Identity.ID {
		sess.DailyThreshold = env.User.DailyThreshold
		a.session.Refresh(sess)
	}
	return env.User, nil
}

func (a *App) requireSession() (session.Session, error) {
	sess, ok := a.session.Current()
	if !ok {
		return session.Session{}, ErrSignedOut
	}
	return sess, nil
}

func (a *App) requireAdmin() (session.Session, error) {
	sess, err := a.requireSession()
	if err != nil {
		return sess, err
	}
	if !sess.IsAdmin {
		return sess, ErrNotAdmin
	}
	return sess, nil
}

func sessionFor(u state.User) session.Session {
	return session.Session{
		Identity:       domain.Identity{ID: u.ID, Email: u.Email},
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		IsAdmin:        u.IsAdmin,
		DailyThreshold: u.DailyThreshold,
	}
}

func resultErr(res dispatch.Result) error {
	if res.OK() {
		return nil
	}
	if res.Err != nil {
		return res.Err
	}
	return fmt.Errorf("request %s %s failed", res.Descriptor.Method, res.Descriptor.URL)
}
