package workflows

import "strings"

// Status is the lifecycle state of a triggered workflow run.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// ParseStatus normalizes a remote status string. Unknown values map to
// pending so that callers keep polling rather than misreport a terminal
// state.
func ParseStatus(s string) Status {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusRunning:
		return StatusRunning
	case StatusSucceeded:
		return StatusSucceeded
	case StatusFailed:
		return StatusFailed
	case StatusCancelled:
		return StatusCancelled
	default:
		return StatusPending
	}
}

// IsTerminal reports whether the run has finished.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusSucceeded, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// IsRunning reports whether the run is still in flight.
func (s Status) IsRunning() bool {
	return !s.IsTerminal()
}
