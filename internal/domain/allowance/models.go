package allowance

import (
	"time"

	"ams/internal/domain/rates"
)

type Kind string

const (
	KindDaily  Kind = "DAILY"
	KindTravel Kind = "TRAVEL"
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// Source records how a daily allowance came to exist. It decides which
// existing record a travel derivation may overwrite.
type Source string

const (
	SourceManual    Source = "MANUAL"
	SourceScheduler Source = "SCHEDULER"
	SourceTravel    Source = "TRAVEL_ALLOWANCE"
)

type DailyAllowance struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	Date       time.Time `json:"date"`
	Amount     float64   `json:"amount"`
	Status     Status    `json:"status"`
	Source     Source    `json:"source"`
	ApproverID string    `json:"approverId,omitempty"`
	Remarks    string    `json:"remarks"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type TravelAllowance struct {
	ID          string            `json:"id"`
	UserID      string            `json:"userId"`
	Date        time.Time         `json:"date"`
	FromCity    string            `json:"fromCity"`
	ToCity      string            `json:"toCity"`
	Distance    float64           `json:"distance"`
	TravelMode  string            `json:"travelMode"`
	StationType rates.StationType `json:"stationType"`
	Amount      float64           `json:"amount"`
	Status      Status            `json:"status"`
	ApproverID  string            `json:"approverId,omitempty"`
	Remarks     string            `json:"remarks"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// DailySubmission carries the caller-supplied fields of a daily claim.
// The amount is never part of it; it is always computed from the role rate.
type DailySubmission struct {
	Date    time.Time
	Remarks string
}

// TravelSubmission carries the caller-supplied fields of a travel claim.
// Distance and amount come from the configured route, never from here.
type TravelSubmission struct {
	Date        time.Time
	FromCity    string
	ToCity      string
	TravelMode  string
	StationType rates.StationType
	Remarks     string
}

type Filter struct {
	Kind   Kind
	Status Status
	UserID string
	From   time.Time
	To     time.Time
}

// VisibleAllowances is the result of a scoped listing.
type VisibleAllowances struct {
	Daily  []DailyAllowance  `json:"daily"`
	Travel []TravelAllowance `json:"travel"`
}

// SweepCandidate is an active, non-admin user without a daily allowance on
// the sweep date.
type SweepCandidate struct {
	UserID string
	Role   string
}

// SweepSummary reports one daily sweep run.
type SweepSummary struct {
	Date          time.Time `json:"date"`
	Candidates    int       `json:"candidates"`
	Created       int       `json:"created"`
	SkippedNoRate int       `json:"skippedNoRate"`
}
