package wizard

import "platter/models"

// JumpPolicy decides which step validations gate a forward move.
type JumpPolicy int

const (
	// ValidateCurrentOnly gates any forward move on the current step alone,
	// so a sidebar jump may skip steps that were never validated.
	ValidateCurrentOnly JumpPolicy = iota
	// ValidateIntermediate gates a forward move on the current step and
	// every step between it and the target.
	ValidateIntermediate
)

// RequiredValidations returns the steps that must pass for a move from
// current to target. Backward and same-step moves require none.
func (p JumpPolicy) RequiredValidations(current, target Step) []Step {
	if target <= current {
		return nil
	}
	if p == ValidateIntermediate {
		steps := make([]Step, 0, int(target-current))
		for s := current; s < target; s++ {
			steps = append(steps, s)
		}
		return steps
	}
	return []Step{current}
}

// validateSteps runs each step in order and stops at the first that fails.
func validateSteps(steps []Step, draft models.RestaurantDraft, files FileView) *ValidationError {
	for _, s := range steps {
		if errs := Validate(s, draft, files); len(errs) > 0 {
			return &ValidationError{Step: s, Errors: errs}
		}
	}
	return nil
}
