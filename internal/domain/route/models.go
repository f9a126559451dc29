package route

import "time"

// TravelRoute is a pre-configured (user, fromCity, toCity) pair with its
// fixed distance and reimbursement amount. It is the only source of truth
// for what travel claims a user may submit.
type TravelRoute struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	FromCity  string    `json:"fromCity"`
	ToCity    string    `json:"toCity"`
	Distance  float64   `json:"distance"`
	Amount    float64   `json:"amount"`
	Active    bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type RouteInput struct {
	FromCity string  `json:"fromCity"`
	ToCity   string  `json:"toCity"`
	Distance float64 `json:"distance"`
	Amount   float64 `json:"amount"`
}
