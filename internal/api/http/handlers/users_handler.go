package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/diet-tracker/internal/api/dto"
	"github.com/spec-kit/diet-tracker/internal/auth"
	"github.com/spec-kit/diet-tracker/internal/service"
	apperrors "github.com/spec-kit/diet-tracker/pkg/util/errorutil"
)

// UsersHandler exposes the /api/users endpoints.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(users *service.UserService) *UsersHandler {
	return &UsersHandler{users: users}
}

// SignUp handles POST /api/users/signup.
func (h *UsersHandler) SignUp(c *fiber.Ctx) error {
	var req dto.SignUpRequest
	if err := parseAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.users.SignUp(c.UserContext(), service.SignUpInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.UserEnvelope{User: dto.NewUserResponse(user)})
}

// Login handles POST /api/users/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseAndValidate(c, &req); err != nil {
		return err
	}

	user, token, err := h.users.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.LoginResponse{
		UserResponse: dto.NewUserResponse(user),
		Token:        token.Value,
		ExpiresAt:    token.ExpiresAt,
	})
}

// List handles GET /api/users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	users, err := h.users.ListUsers(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, dto.NewUserResponse(&users[i]))
	}
	return c.JSON(items)
}

// Details handles POST /api/users/getUserDetails.
func (h *UsersHandler) Details(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewAuthMissing()
	}
	user, err := h.users.Details(c.UserContext(), *identity)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserResponse(user))
}

// UpdateDailyThreshold handles PATCH /api/users/updateDailyThresHold.
func (h *UsersHandler) UpdateDailyThreshold(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewAuthMissing()
	}
	var req dto.UpdateThresholdRequest
	if err := parseAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.users.UpdateDailyThreshold(c.UserContext(), *identity, req.UserID, *req.DailyThreshold)
	if err != nil {
		return err
	}
	return c.JSON(dto.UserEnvelope{User: dto.NewUserResponse(user)})
}
