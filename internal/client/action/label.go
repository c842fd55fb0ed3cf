package action

import "fmt"

// Label names one state transition of the client store. The set is closed:
// every label is declared here and the store switches over all of them.
type Label int

const (
	// LabelNone marks an absent lifecycle label.
	LabelNone Label = iota

	LoginRequested
	LoginReceived
	LoginRequestFailed

	SignUpRequested
	SignUpReceived
	SignUpRequestFailed

	UserListRequested
	UserListReceived
	UserListRequestFailed

	UpdateThresholdRequested
	UpdateThresholdReceived
	UpdateThresholdRequestFailed

	CreateFoodRequested
	CreateFoodReceived
	CreateFoodRequestFailed

	CreateFoodForUserRequested
	CreateFoodForUserReceived
	CreateFoodForUserRequestFailed

	FoodsByUserRequested
	FoodsByUserReceived
	FoodsByUserRequestFailed

	UpdateFoodRequested
	UpdateFoodReceived
	UpdateFoodRequestFailed

	DeleteFoodsRequested
	DeleteFoodsReceived
	DeleteFoodsRequestFailed

	FoodsListRequested
	FoodsListReceived
	FoodsListRequestFailed

	labelCount
)

var labelNames = [labelCount]string{
	LabelNone:                      "none",
	LoginRequested:                 "user/loginRequested",
	LoginReceived:                  "user/loginReceived",
	LoginRequestFailed:             "user/loginRequestFailed",
	SignUpRequested:                "user/signUpRequested",
	SignUpReceived:                 "user/signUpReceived",
	SignUpRequestFailed:            "user/signUpRequestFailed",
	UserListRequested:              "user/userListRequested",
	UserListReceived:               "user/userListReceived",
	UserListRequestFailed:          "user/userListRequestFailed",
	UpdateThresholdRequested:       "user/updateDailyThresholdRequested",
	UpdateThresholdReceived:        "user/updateDailyThresholdReceived",
	UpdateThresholdRequestFailed:   "user/updateDailyThresholdRequestFailed",
	CreateFoodRequested:            "food/createFoodRequested",
	CreateFoodReceived:             "food/createFoodReceived",
	CreateFoodRequestFailed:        "food/createFoodRequestFailed",
	CreateFoodForUserRequested:     "food/createFoodForUserRequested",
	CreateFoodForUserReceived:      "food/createFoodForUserReceived",
	CreateFoodForUserRequestFailed: "food/createFoodForUserRequestFailed",
	FoodsByUserRequested:           "food/foodsListByUserIdRequested",
	FoodsByUserReceived:            "food/foodsListByUserIdReceived",
	FoodsByUserRequestFailed:       "food/foodsListByUserIdRequestFailed",
	UpdateFoodRequested:            "food/updateFoodsDataForUser",
	UpdateFoodReceived:             "food/updateFoodsDataReceived",
	UpdateFoodRequestFailed:        "food/updateFoodsDataRequestFailed",
	DeleteFoodsRequested:           "food/deleteFoodsDataForUser",
	DeleteFoodsReceived:            "food/deleteFoodsDataReceived",
	DeleteFoodsRequestFailed:       "food/deleteFoodsDataRequestFailed",
	FoodsListRequested:             "food/foodsListRequested",
	FoodsListReceived:              "food/foodsListReceived",
	FoodsListRequestFailed:         "food/foodsListRequestFailed",
}

func (l Label) String() string {
	if l < 0 || l >= labelCount {
		return fmt.Sprintf("Label(%d)", int(l))
	}
	return labelNames[l]
}

// Valid reports whether l is a declared label other than LabelNone.
func (l Label) Valid() bool {
	return l > LabelNone && l < labelCount
}

// Labels returns every declared label except LabelNone.
func Labels() []Label {
	out := make([]Label, 0, labelCount-1)
	for l := LabelNone + 1; l < labelCount; l++ {
		out = append(out, l)
	}
	return out
}
