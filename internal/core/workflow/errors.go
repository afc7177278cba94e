package workflow

import "errors"

var (
	// ErrInvalidTransition is returned when a trigger is not permitted from the current status.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrNotCurrentApprover is returned when someone other than the current approver decides.
	ErrNotCurrentApprover = errors.New("actor is not the current approver")

	// ErrUnroutable is returned when no approver at all can be found for an expense.
	ErrUnroutable = errors.New("expense cannot be routed to any approver")
)
