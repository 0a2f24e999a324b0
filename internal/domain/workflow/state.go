package workflow

// State represents a submission's review state.
type State string

const (
	// StatePending is the initial state when the extracted amount is absent or
	// does not match the expected fee.
	StatePending State = "PENDING"

	// StateApproved is set automatically when the extracted amount matches the
	// expected fee exactly, or manually by an admin.
	StateApproved State = "APPROVED"

	// StateRejected is only ever set manually by an admin. The verifier never
	// auto-rejects.
	StateRejected State = "REJECTED"
)

var validStates = map[State]bool{
	StatePending:  true,
	StateApproved: true,
	StateRejected: true,
}

// The ledger sheet stores Malay status labels; these are the wire and display
// values for each state.
var stateLabels = map[State]string{
	StatePending:  "MENUNGGU PENGESAHAN",
	StateApproved: "LULUS",
	StateRejected: "DITOLAK",
}

// String returns the string representation of the state.
func (s State) String() string {
	return string(s)
}

// IsValid returns true if the state is a valid review state.
func (s State) IsValid() bool {
	return validStates[s]
}

// Label returns the Malay display label used in the ledger sheet.
func (s State) Label() string {
	return stateLabels[s]
}

// StateFromLabel maps a ledger label (or a canonical state name) back to a
// State. Unknown values map to StatePending, matching how the dashboard treats
// blank or legacy status cells.
func StateFromLabel(label string) State {
	switch label {
	case stateLabels[StateApproved], string(StateApproved):
		return StateApproved
	case stateLabels[StateRejected], string(StateRejected):
		return StateRejected
	default:
		return StatePending
	}
}
