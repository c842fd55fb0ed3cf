package service

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/diet-tracker/internal/auth"
	"github.com/spec-kit/diet-tracker/internal/config"
	"github.com/spec-kit/diet-tracker/internal/domain"
	"github.com/spec-kit/diet-tracker/internal/events"
	"github.com/spec-kit/diet-tracker/internal/repository"
	apperrors "github.com/spec-kit/diet-tracker/pkg/util/errorutil"
)

// SignUpInput carries the fields of a new account.
type SignUpInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// UserService coordinates account flows.
type UserService struct {
	users       repository.UserRepository
	tokens      *auth.TokenManager
	dispatcher  events.Dispatcher
	logger      *zap.Logger
	bcryptCost  int
	adminEmails []string
}

// UserDependencies bundles collaborators for the user service.
type UserDependencies struct {
	UserRepo     repository.UserRepository
	TokenManager *auth.TokenManager
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// NewUserService builds the service.
func NewUserService(cfg config.AuthConfig, deps UserDependencies) *UserService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		users:       deps.UserRepo,
		tokens:      deps.TokenManager,
		dispatcher:  deps.Dispatcher,
		logger:      logger,
		bcryptCost:  cfg.BcryptCost,
		adminEmails: cfg.AdminEmails,
	}
}

// SignUp creates a new account. Emails are stored lowercased.
func (s *UserService) SignUp(ctx context.Context, in SignUpInput) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewValidationError("User exists already, please login instead.", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewUnexpected("Signing up failed, please try again later.", err)
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewUnexpected("Encryption failed.", err)
	}

	user := &domain.User{
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Email:          email,
		PasswordHash:   hash,
		IsAdmin:        slices.Contains(s.adminEmails, email),
		DailyThreshold: domain.DefaultDailyThreshold,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, apperrors.NewValidationError("User exists already, please login instead.", err)
		}
		return nil, apperrors.NewUnexpected("Signing up failed, please try again later.", err)
	}

	s.logger.Info("user signed up", zap.String("user_id", user.ID), zap.Bool("admin", user.IsAdmin))
	return user, nil
}

// Login checks credentials and issues a token.
func (s *UserService) Login(ctx context.Context, email, password string) (*domain.User, *domain.Token, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewNotFound("User does not exists.")
		}
		return nil, nil, apperrors.NewUnexpected("Logging in failed, please try again later.", err)
	}

	if !auth.PasswordMatches(user.PasswordHash, password) {
		return nil, nil, apperrors.NewUnauthorized("Invalid credentials, could not log you in.")
	}

	token, err := s.tokens.Issue(domain.Identity{ID: user.ID, Email: user.Email})
	if err != nil {
		return nil, nil, apperrors.NewUnexpected("Logging in failed, please try again later.", err)
	}
	return user, token, nil
}

// Details returns the caller's own account.
func (s *UserService) Details(ctx context.Context, identity domain.Identity) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, identity.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("Could not find user for provided id.")
		}
		return nil, apperrors.NewUnexpected("No user found, please try again later.", err)
	}
	return user, nil
}

// ListUsers returns every non-admin account.
func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.ListNonAdmin(ctx)
	if err != nil {
		return nil, apperrors.NewUnexpected("Fetching users failed, please try again later.", err)
	}
	return users, nil
}

// UpdateDailyThreshold stores a new calorie budget for userID.
func (s *UserService) UpdateDailyThreshold(ctx context.Context, actor domain.Identity, userID string, threshold int) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("Could not find user for provided id.")
		}
		return nil, apperrors.NewUnexpected("No user found, please try again later.", err)
	}

	previous := user.DailyThreshold
	user.DailyThreshold = threshold
	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.NewUnexpected("Update daily threshold failed, please try again later.", err)
	}

	s.publish(ctx, events.New(events.EventThresholdUpdated, user.ID, actor.ID, events.ThresholdUpdatedPayload{
		OldThreshold: previous,
		NewThreshold: threshold,
	}))
	return user, nil
}

func (s *UserService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handlers failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}
