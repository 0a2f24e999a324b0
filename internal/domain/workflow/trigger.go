package workflow

// Trigger represents an admin action that can cause a state transition.
type Trigger string

const (
	TriggerApprove Trigger = "APPROVE"
	TriggerReject  Trigger = "REJECT"
)

// String returns the string representation of the trigger.
func (t Trigger) String() string {
	return string(t)
}
