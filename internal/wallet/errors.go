package wallet

import "fmt"

// ValidationError reports bad input to CreateRequest. Field names the
// offending field so callers can surface an actionable message.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError reports an unknown withdrawal request or user id.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// InvalidTransitionError reports an illegal lifecycle move, such as
// approving an already-approved request.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition withdrawal from %s to %s", e.From, e.To)
}
