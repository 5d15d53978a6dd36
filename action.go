package toggle

// Action describes a state transition consumed by a Reducer.
//
// The set of actions is closed: ToggleAction and ResetAction are the only
// implementations.
type Action interface {
	String() string
	sealed()
}

// ToggleAction flips the on state.
type ToggleAction struct{}

func (ToggleAction) String() string { return "toggle" }
func (ToggleAction) sealed()        {}

// ResetAction restores InitialState, ignoring the current state.
type ResetAction struct {
	InitialState State
}

func (ResetAction) String() string { return "reset" }
func (ResetAction) sealed()        {}
