package rates

import "time"

// StationType classifies a travel claim. Non-normal stations scale the
// derived daily allowance by the configured multiplier.
type StationType string

const (
	StationNormal     StationType = "NORMAL"
	StationOutstation StationType = "OUTSTATION"
	StationExStation  StationType = "EX_STATION"
)

type RoleRate struct {
	Role        string    `json:"role"`
	DailyAmount float64   `json:"dailyAmount"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type StationMultiplier struct {
	StationType StationType `json:"stationType"`
	Multiplier  float64     `json:"multiplier"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}
