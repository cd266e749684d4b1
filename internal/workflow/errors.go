package workflow

import "fmt"

// TransitionError reports an illegal status change request
type TransitionError struct {
	Kind EntityKind
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid transition for %s: %s -> %s", e.Kind, e.From, e.To)
}

// LinkageError reports a missing or mismatched cross-entity reference
type LinkageError struct {
	Message string
}

func (e *LinkageError) Error() string {
	return e.Message
}

// LockedError reports a mutation attempted on a finalized record
type LockedError struct {
	Message string
}

func (e *LockedError) Error() string {
	return e.Message
}
