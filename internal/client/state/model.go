package state

import (
	"bytes"
	"encoding/json"
	"time"
)

// User is the client view of an account.
type User struct {
	ID             string    `json:"id"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Email          string    `json:"email"`
	IsAdmin        bool      `json:"isAdmin"`
	DailyThreshold int       `json:"dailyThreshold"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Creator is an entry's owner. The API sends either a bare id or a
// populated object; both decode here.
type Creator struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
}

func (c *Creator) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = Creator{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*c = Creator{ID: id}
		return nil
	}
	type plain Creator
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*c = Creator(p)
	return nil
}

// Food is one logged entry.
type Food struct {
	ID           string    `json:"id"`
	ProductName  string    `json:"productName"`
	TimeConsumed time.Time `json:"timeConsumed"`
	Calorie      float64   `json:"calorie"`
	IsCheatFood  bool      `json:"isCheatFood"`
	Creator      Creator   `json:"creator"`
}

type loginPayload struct {
	User
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type userEnvelope struct {
	User User `json:"user"`
}

type foodEnvelope struct {
	Food Food `json:"food"`
}

type deletePayload struct {
	Message       string   `json:"message"`
	DeleteFoodIDs []string `json:"deleteFoodIds"`
}
