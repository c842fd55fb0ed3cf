// Package action builds declarative descriptors of API calls. A descriptor
// is a plain value: building one has no side effects and the same value can
// be dispatched any number of times.
package action

import (
	"net/http"
	"net/url"
	"time"
)

// Endpoint is fixed method and path metadata for one API call.
type Endpoint struct {
	Method string
	Path   string
}

// Endpoint catalog.
var (
	EndpointLogin                = Endpoint{Method: http.MethodPost, Path: "/api/users/login"}
	EndpointSignUp               = Endpoint{Method: http.MethodPost, Path: "/api/users/signup"}
	EndpointUsers                = Endpoint{Method: http.MethodGet, Path: "/api/users"}
	EndpointUserDetails          = Endpoint{Method: http.MethodPost, Path: "/api/users/getUserDetails"}
	EndpointUpdateDailyThreshold = Endpoint{Method: http.MethodPatch, Path: "/api/users/updateDailyThresHold"}
	EndpointCreateFood           = Endpoint{Method: http.MethodPost, Path: "/api/foods"}
	EndpointUpdateFood           = Endpoint{Method: http.MethodPatch, Path: "/api/foods"}
	EndpointDeleteFoods          = Endpoint{Method: http.MethodDelete, Path: "/api/foods"}
	EndpointFoodsByUser          = Endpoint{Method: http.MethodGet, Path: "/api/foods/user"}
	EndpointAllFoods             = Endpoint{Method: http.MethodGet, Path: "/api/foods/all"}
)

// Descriptor describes one HTTP call and the labels fired around it.
type Descriptor struct {
	Method    string
	URL       string
	Body      any
	OnStart   Label
	OnSuccess Label
	OnError   Label
}

// New builds a descriptor for endpoint with optional path segments appended.
func New(endpoint Endpoint, body any, onStart, onSuccess, onError Label, segments ...string) Descriptor {
	u := endpoint.Path
	for _, s := range segments {
		u += "/" + url.PathEscape(s)
	}
	return Descriptor{
		Method:    endpoint.Method,
		URL:       u,
		Body:      body,
		OnStart:   onStart,
		OnSuccess: onSuccess,
		OnError:   onError,
	}
}

// Credentials is the login body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the sign-up body.
type Registration struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// Threshold is the daily threshold body.
type Threshold struct {
	UserID         string `json:"userId"`
	DailyThreshold int    `json:"dailyThreshold"`
}

// FoodEntry is the create/update body. Creator is only read on create.
type FoodEntry struct {
	ProductName  string    `json:"productName"`
	Calorie      float64   `json:"calorie"`
	TimeConsumed time.Time `json:"timeConsumed"`
	IsCheatFood  bool      `json:"isCheatFood"`
	Creator      string    `json:"creator,omitempty"`
}

// FoodIDs is the bulk delete body.
type FoodIDs struct {
	FoodIDs []string `json:"foodIds"`
}

func Login(body Credentials) Descriptor {
	return New(EndpointLogin, body, LoginRequested, LoginReceived, LoginRequestFailed)
}

func SignUp(body Registration) Descriptor {
	return New(EndpointSignUp, body, SignUpRequested, SignUpReceived, SignUpRequestFailed)
}

func ListUsers() Descriptor {
	return New(EndpointUsers, nil, UserListRequested, UserListReceived, UserListRequestFailed)
}

// UserDetails fetches the caller's account. It resolves through the login
// labels because the result establishes the session the same way.
func UserDetails() Descriptor {
	return New(EndpointUserDetails, nil, LoginRequested, LoginReceived, LoginRequestFailed)
}

func UpdateDailyThreshold(body Threshold) Descriptor {
	return New(EndpointUpdateDailyThreshold, body, UpdateThresholdRequested, UpdateThresholdReceived, UpdateThresholdRequestFailed)
}

// CreateFood logs an entry from a user's own view.
func CreateFood(body FoodEntry) Descriptor {
	return New(EndpointCreateFood, body, CreateFoodRequested, CreateFoodReceived, CreateFoodRequestFailed)
}

// CreateFoodForUser logs an entry from the admin view.
func CreateFoodForUser(body FoodEntry) Descriptor {
	return New(EndpointCreateFood, body, CreateFoodForUserRequested, CreateFoodForUserReceived, CreateFoodForUserRequestFailed)
}

func UpdateFood(id string, body FoodEntry) Descriptor {
	return New(EndpointUpdateFood, body, UpdateFoodRequested, UpdateFoodReceived, UpdateFoodRequestFailed, id)
}

func DeleteFoods(ids []string) Descriptor {
	return New(EndpointDeleteFoods, FoodIDs{FoodIDs: ids}, DeleteFoodsRequested, DeleteFoodsReceived, DeleteFoodsRequestFailed)
}

func ListFoodsByUser(userID string) Descriptor {
	return New(EndpointFoodsByUser, nil, FoodsByUserRequested, FoodsByUserReceived, FoodsByUserRequestFailed, userID)
}

func ListAllFoods() Descriptor {
	return New(EndpointAllFoods, nil, FoodsListRequested, FoodsListReceived, FoodsListRequestFailed)
}
