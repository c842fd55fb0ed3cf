package domain

import "time"

// Food is a single intake entry owned by its creator.
type Food struct {
	ID           string
	ProductName  string
	TimeConsumed time.Time
	Calorie      float64
	IsCheatFood  bool
	CreatorID    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FoodWithCreator pairs an entry with a summary of the user that logged it.
type FoodWithCreator struct {
	Food
	Creator *User
}
