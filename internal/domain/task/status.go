package task

import "strings"

// Status is the task lifecycle state.
type Status string

const (
	StatusToDo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusInReview   Status = "in_review"
	StatusDone       Status = "done"
	StatusCancelled  Status = "cancelled"
)

func (s Status) String() string { return string(s) }

func (s Status) IsValid() bool {
	switch s {
	case StatusToDo, StatusInProgress, StatusInReview, StatusDone, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether s ends the lifecycle. Reopen is modeled as an
// explicit operation, not a transition out of a terminal state.
func (s Status) IsTerminal() bool {
	return s == StatusDone || s == StatusCancelled
}

// CanTransitionTo encodes the legal transition table.
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusToDo:
		return target == StatusInProgress || target == StatusCancelled
	case StatusInProgress:
		return target == StatusInReview || target == StatusDone || target == StatusCancelled
	case StatusInReview:
		return target == StatusInProgress || target == StatusDone || target == StatusCancelled
	default:
		return false
	}
}

func ParseStatus(s string) (Status, bool) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	return st, st.IsValid()
}

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

func (p Priority) String() string { return string(p) }

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	default:
		return false
	}
}

func ParsePriority(s string) (Priority, bool) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	return p, p.IsValid()
}
