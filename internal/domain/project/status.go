package project

import "strings"

// Status is the project lifecycle state.
type Status string

const (
	StatusPlanning  Status = "planning"
	StatusActive    Status = "active"
	StatusOnHold    Status = "on_hold"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (s Status) String() string { return string(s) }

func (s Status) IsValid() bool {
	switch s {
	case StatusPlanning, StatusActive, StatusOnHold, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transitions exist from s.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo encodes the legal transition table.
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusPlanning:
		return target == StatusActive || target == StatusCancelled
	case StatusActive:
		return target == StatusOnHold || target == StatusCompleted || target == StatusCancelled
	case StatusOnHold:
		return target == StatusActive || target == StatusCancelled
	default:
		return false
	}
}

func ParseStatus(s string) (Status, bool) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	return st, st.IsValid()
}
