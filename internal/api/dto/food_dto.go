package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/spec-kit/diet-tracker/internal/domain"
)

// FoodRequest payload for creating or editing an entry.
type FoodRequest struct {
	ProductName  string    `json:"productName"`
	Calorie      *float64  `json:"calorie"`
	TimeConsumed time.Time `json:"timeConsumed"`
	IsCheatFood  bool      `json:"isCheatFood"`
	Creator      string    `json:"creator,omitempty"`
}

// Validate checks the food payload.
func (r FoodRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ProductName, validation.Required),
		validation.Field(&r.Calorie, validation.NotNil, validation.Min(0.0)),
		validation.Field(&r.TimeConsumed, validation.Required),
	)
}

// DeleteFoodsRequest payload for DELETE /api/foods.
type DeleteFoodsRequest struct {
	FoodIDs []string `json:"foodIds"`
}

// Validate checks the delete payload.
func (r DeleteFoodsRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FoodIDs, validation.Required),
	)
}

// CreatorSummary is the populated creator of an entry.
type CreatorSummary struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// FoodResponse is the public view of an entry. Creator is either the creator
// id or a CreatorSummary when populated.
type FoodResponse struct {
	ID           string    `json:"id"`
	ProductName  string    `json:"productName"`
	TimeConsumed time.Time `json:"timeConsumed"`
	Calorie      float64   `json:"calorie"`
	IsCheatFood  bool      `json:"isCheatFood"`
	Creator      any       `json:"creator"`
}

// FoodEnvelope wraps an entry as {"food": ...}.
type FoodEnvelope struct {
	Food FoodResponse `json:"food"`
}

// DeleteFoodsResponse confirms a bulk delete.
type DeleteFoodsResponse struct {
	Message       string   `json:"message"`
	DeleteFoodIDs []string `json:"deleteFoodIds"`
}

// NewFoodResponse maps an entry with an unpopulated creator.
func NewFoodResponse(f *domain.Food) FoodResponse {
	return FoodResponse{
		ID:           f.ID,
		ProductName:  f.ProductName,
		TimeConsumed: f.TimeConsumed,
		Calorie:      f.Calorie,
		IsCheatFood:  f.IsCheatFood,
		Creator:      f.CreatorID,
	}
}

// NewFoodWithCreatorResponse maps an entry and populates its creator when known.
func NewFoodWithCreatorResponse(f *domain.FoodWithCreator) FoodResponse {
	resp := NewFoodResponse(&f.Food)
	if f.Creator != nil {
		resp.Creator = CreatorSummary{
			ID:        f.Creator.ID,
			FirstName: f.Creator.FirstName,
			LastName:  f.Creator.LastName,
			Email:     f.Creator.Email,
		}
	}
	return resp
}
