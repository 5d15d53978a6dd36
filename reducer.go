package toggle

import (
	"errors"
	"fmt"
)

// ErrUnsupportedAction is the panic value (wrapped) raised by Reduce for an
// action outside the closed set.
var ErrUnsupportedAction = errors.New("toggle: unsupported action")

// State is the toggle state.
type State struct {
	On bool
}

// Reducer computes the next state for an action.
type Reducer func(s State, a Action) State

// Reduce is the default Reducer.
//
// It panics with an error wrapping ErrUnsupportedAction if a is not a
// ToggleAction or ResetAction. That can only happen through a nil action or a
// foreign type embedding Action, both of which are defects in the caller.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case ToggleAction:
		return State{On: !s.On}
	case ResetAction:
		return a.InitialState
	default:
		panic(fmt.Errorf("%w: %T", ErrUnsupportedAction, a))
	}
}
