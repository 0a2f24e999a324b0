package workflow

// StateMachine tracks a current state and validates transitions against a
// configured transition table.
type StateMachine interface {
	// State returns the current state
	State() State

	// CanFire returns true if the trigger is permitted in the current state
	CanFire(trigger Trigger) bool

	// Fire attempts to execute the trigger, transitioning to the new state if allowed
	Fire(trigger Trigger) error

	// PermittedTriggers returns all triggers that can be fired in the current state
	PermittedTriggers() []Trigger
}

// NewReviewMachine builds the admin review state machine seeded with the
// submission's current status.
//
// An admin may move any submission to APPROVED or REJECTED at will, including
// re-firing the transition the record is already in (re-approving an approved
// record is a no-op for the caller but still permitted, so the ledger update
// is still issued). Nothing ever transitions back to PENDING.
func NewReviewMachine(current State) StateMachine {
	b := NewBuilder()
	for state := range validStates {
		b.Configure(state).
			Permit(TriggerApprove, StateApproved).
			Permit(TriggerReject, StateRejected)
	}
	return b.Build(current)
}

// TriggerFor maps a requested target state to the trigger that reaches it.
// Requesting PENDING (or any unknown state) yields ErrInvalidTransition since
// no trigger leads back to it.
func TriggerFor(target State) (Trigger, error) {
	switch target {
	case StateApproved:
		return TriggerApprove, nil
	case StateRejected:
		return TriggerReject, nil
	default:
		return "", ErrInvalidTransition
	}
}
