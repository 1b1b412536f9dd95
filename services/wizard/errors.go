package wizard

import (
	"errors"
	"fmt"
)

var (
	// ErrUseSubmit is returned by Advance on the last step; leaving it is a submission.
	ErrUseSubmit = errors.New("wizard: the last step is completed by submitting")
	// ErrNotFinalStep is returned by Submit before the last step is reached.
	ErrNotFinalStep = errors.New("wizard: registration can only be submitted from the last step")
	// ErrSubmitInFlight is returned when a submission is already running for the mount.
	ErrSubmitInFlight = errors.New("wizard: a submission is already in progress")
	// ErrInvalidStep is returned for a jump target outside 1..6.
	ErrInvalidStep = errors.New("wizard: step out of range")
	// ErrMountNotFound is returned for unknown or dropped mount ids.
	ErrMountNotFound = errors.New("wizard: mount not found")
	// ErrUnknownField is returned when a field update names no draft field.
	ErrUnknownField = errors.New("wizard: unknown draft field")
	// ErrUnknownDocument is returned for document slots other than the three compliance documents.
	ErrUnknownDocument = errors.New("wizard: unknown document slot")
	// ErrImageIndex is returned when removing an image that does not exist.
	ErrImageIndex = errors.New("wizard: image index out of range")
	// ErrPersist wraps draft store failures. The in-memory change is kept.
	ErrPersist = errors.New("wizard: draft could not be saved")
)

// ValidationError carries the ordered field errors of a failed step.
type ValidationError struct {
	Step   Step
	Errors FieldErrors
}

func (e *ValidationError) Error() string {
	if first, ok := e.Errors.First(); ok {
		return first.Message
	}
	return fmt.Sprintf("step %d is invalid", int(e.Step))
}

// FileConstraintError rejects a selected file before it reaches a slot.
type FileConstraintError struct {
	Field   string
	Message string
}

func (e *FileConstraintError) Error() string {
	return e.Message
}

// SubmitError is a registration call that the backend rejected or that never
// reached it. Message is safe to show to the user.
type SubmitError struct {
	Message string
	Err     error
}

func (e *SubmitError) Error() string {
	return e.Message
}

func (e *SubmitError) Unwrap() error {
	return e.Err
}
