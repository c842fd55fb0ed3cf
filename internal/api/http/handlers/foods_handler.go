package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/diet-tracker/internal/api/dto"
	"github.com/spec-kit/diet-tracker/internal/auth"
	"github.com/spec-kit/diet-tracker/internal/service"
	apperrors "github.com/spec-kit/diet-tracker/pkg/util/errorutil"
)

// FoodsHandler exposes the /api/foods endpoints.
type FoodsHandler struct {
	foods *service.FoodService
}

// NewFoodsHandler constructs handler.
func NewFoodsHandler(foods *service.FoodService) *FoodsHandler {
	return &FoodsHandler{foods: foods}
}

// Create handles POST /api/foods.
func (h *FoodsHandler) Create(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewAuthMissing()
	}
	var req dto.FoodRequest
	if err := parseAndValidate(c, &req); err != nil {
		return err
	}

	food, err := h.foods.Create(c.UserContext(), *identity, foodInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.FoodEnvelope{Food: dto.NewFoodWithCreatorResponse(food)})
}

// Update handles PATCH /api/foods/:fid.
func (h *FoodsHandler) Update(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewAuthMissing()
	}
	var req dto.FoodRequest
	if err := parseAndValidate(c, &req); err != nil {
		return err
	}

	food, err := h.foods.Update(c.UserContext(), *identity, c.Params("fid"), foodInput(req))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewFoodResponse(food))
}

// Get handles GET /api/foods/:fid.
func (h *FoodsHandler) Get(c *fiber.Ctx) error {
	food, err := h.foods.Get(c.UserContext(), c.Params("fid"))
	if err != nil {
		return err
	}
	return c.JSON(dto.FoodEnvelope{Food: dto.NewFoodResponse(food)})
}

// ListByUser handles GET /api/foods/user/:uid.
func (h *FoodsHandler) ListByUser(c *fiber.Ctx) error {
	foods, err := h.foods.ListByUser(c.UserContext(), c.Params("uid"))
	if err != nil {
		return err
	}
	items := make([]dto.FoodResponse, 0, len(foods))
	for i := range foods {
		items = append(items, dto.NewFoodResponse(&foods[i]))
	}
	return c.JSON(items)
}

// ListAll handles GET /api/foods/all.
func (h *FoodsHandler) ListAll(c *fiber.Ctx) error {
	foods, err := h.foods.ListAll(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.FoodResponse, 0, len(foods))
	for i := range foods {
		items = append(items, dto.NewFoodWithCreatorResponse(&foods[i]))
	}
	return c.JSON(items)
}

// Delete handles DELETE /api/foods.
func (h *FoodsHandler) Delete(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewAuthMissing()
	}
	var req dto.DeleteFoodsRequest
	if err := parseAndValidate(c, &req); err != nil {
		return err
	}

	if _, err := h.foods.Delete(c.UserContext(), *identity, req.FoodIDs); err != nil {
		return err
	}
	return c.JSON(dto.DeleteFoodsResponse{Message: "Deleted food.", DeleteFoodIDs: req.FoodIDs})
}

func foodInput(req dto.FoodRequest) service.FoodInput {
	return service.FoodInput{
		ProductName:  req.ProductName,
		Calorie:      *req.Calorie,
		TimeConsumed: req.TimeConsumed,
		IsCheatFood:  req.IsCheatFood,
		CreatorID:    req.Creator,
	}
}
