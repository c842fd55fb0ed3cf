package domain

import "time"

// DefaultDailyThreshold is the calorie budget assigned to new users.
const DefaultDailyThreshold = 2100

// User is an account that logs food intake. Admins review everyone's intake.
type User struct {
	ID             string
	FirstName      string
	LastName       string
	Email          string
	PasswordHash   string
	IsAdmin        bool
	DailyThreshold int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
