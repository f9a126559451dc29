package reports

import "time"

// Dashboard aggregates approval and spend figures over a date range,
// restricted to the caller's visibility scope.
type Dashboard struct {
	From            time.Time     `json:"from"`
	To              time.Time     `json:"to"`
	ApprovedDaily   float64       `json:"approvedDailyTotal"`
	ApprovedTravel  float64       `json:"approvedTravelTotal"`
	PendingDaily    int           `json:"pendingDaily"`
	PendingTravel   int           `json:"pendingTravel"`
	SpendByRole     []RoleSpend   `json:"spendByRole"`
	TopRoutes       []RouteUsage  `json:"topRoutes"`
	TeamPerformance []TeamSummary `json:"teamPerformance,omitempty"`
}

type RoleSpend struct {
	Role  string  `json:"role"`
	Total float64 `json:"total"`
}

type RouteUsage struct {
	FromCity string  `json:"fromCity"`
	ToCity   string  `json:"toCity"`
	Trips    int     `json:"trips"`
	Total    float64 `json:"total"`
}

type TeamSummary struct {
	UserID   string  `json:"userId"`
	FullName string  `json:"fullName"`
	Role     string  `json:"role"`
	Approved float64 `json:"approvedTotal"`
	Pending  int     `json:"pendingCount"`
}

// StatementLine is one row of a user's monthly allowance statement.
type StatementLine struct {
	Date   time.Time
	Kind   string
	Detail string
	Status string
	Amount float64
}
