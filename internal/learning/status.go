package learning

import "fmt"

// Status is the lifecycle stage of a learning plan as reported by the
// backend, plus the local-only StatusUnknown used before the first resolve.
type Status string

const (
	// StatusUnknown means the plan's status has not been resolved yet.
	// It never comes from the backend.
	StatusUnknown Status = "unknown"

	// StatusActive is a mentor-proposed plan awaiting user review.
	StatusActive Status = "active"

	// StatusConfirmed is a plan the user accepted.
	StatusConfirmed Status = "confirmed"

	// StatusCompleted is a confirmed plan with every lesson finished.
	StatusCompleted Status = "completed"

	// StatusDeleted is a rejected or removed plan.
	StatusDeleted Status = "deleted"
)

var terminalStatuses = map[Status]bool{
	StatusCompleted: true,
	StatusDeleted:   true,
}

// Forward transitions a client may initiate or mirror locally.
// Deleted is additionally reachable from any status when the backend
// reports the plan gone; that forced path bypasses validation entirely
// (see Controller.ResolveStatus).
var validTransitions = map[Status]map[Status]bool{
	StatusActive: {
		StatusConfirmed: true,
		StatusDeleted:   true,
	},
	StatusConfirmed: {
		StatusCompleted: true,
	},
}

// IsTerminal reports whether no further transitions are possible from s.
func IsTerminal(s Status) bool {
	return terminalStatuses[s]
}

// ValidateTransition checks that from → to is a legal forward transition.
func ValidateTransition(from, to Status) error {
	if IsTerminal(from) {
		return fmt.Errorf("cannot transition from terminal status %q", from)
	}
	allowed, ok := validTransitions[from]
	if !ok {
		return fmt.Errorf("no transitions defined from status %q", from)
	}
	if !allowed[to] {
		return fmt.Errorf("invalid plan transition: %q → %q", from, to)
	}
	return nil
}

// ParseStatus maps a backend status string to a Status. Anything the
// backend might send that we do not recognize is adopted verbatim so the
// server stays authoritative; an empty string means unknown.
func ParseStatus(s string) Status {
	if s == "" {
		return StatusUnknown
	}
	return Status(s)
}
