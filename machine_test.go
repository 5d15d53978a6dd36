package toggle

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type change struct {
	next   State
	action Action
}

func TestMachine_Uncontrolled(t *testing.T) {
	var changes []change
	m := New(Config{OnChange: func(next State, a Action) {
		changes = append(changes, change{next, a})
	}})
	m.Control(nil)

	assert.False(t, m.Controlled())
	assert.False(t, m.On())

	m.Toggle()
	assert.True(t, m.On())

	m.Reset()
	assert.False(t, m.On())

	require.Len(t, changes, 2)
	assert.Equal(t, change{State{On: true}, ToggleAction{}}, changes[0])
	assert.Equal(t, change{State{On: false}, ResetAction{InitialState: State{On: false}}}, changes[1])
}

func TestMachine_UncontrolledInitialOn(t *testing.T) {
	m := New(Config{InitialOn: true})
	assert.True(t, m.On())

	m.Toggle()
	m.Toggle()
	m.Toggle()
	assert.False(t, m.On())

	m.Reset()
	assert.True(t, m.On())
}

func TestMachine_ControlledDoesNotMutate(t *testing.T) {
	var changes []change
	m := New(Config{OnChange: func(next State, a Action) {
		changes = append(changes, change{next, a})
	}})
	m.Control(Bool(true))

	m.Toggle()

	assert.True(t, m.Controlled())
	assert.True(t, m.On(), "rendered value stays at the supplied value")
	require.Len(t, changes, 1)
	assert.Equal(t, State{On: false}, changes[0].next)
	assert.Equal(t, ToggleAction{}, changes[0].action)
}

func TestMachine_ControlledIgnoresLocalState(t *testing.T) {
	m := New(Config{ReadOnly: true})
	m.Control(nil)
	m.Toggle() // local state is now on

	m.Control(Bool(false))
	assert.False(t, m.On())

	m.Toggle()
	m.Control(Bool(false))
	assert.False(t, m.On())
}

func TestMachine_ControlCopiesSuppliedValue(t *testing.T) {
	m := New(Config{ReadOnly: true})
	on := true
	m.Control(&on)
	on = false
	assert.True(t, m.On())
}

func TestMachine_ResetReportsInitialStateWhenControlled(t *testing.T) {
	var got []State
	m := New(Config{InitialOn: true, OnChange: func(next State, _ Action) {
		got = append(got, next)
	}})
	m.Control(Bool(false))
	m.Reset()

	assert.Equal(t, []State{{On: true}}, got)
	assert.False(t, m.On())
}

func TestMachine_CustomReducer(t *testing.T) {
	// a reducer that refuses to turn off
	stubborn := func(s State, a Action) State {
		next := Reduce(s, a)
		if _, ok := a.(ToggleAction); ok && !next.On {
			return s
		}
		return next
	}
	m := New(Config{Reducer: stubborn})
	m.Toggle()
	m.Toggle()
	assert.True(t, m.On())
}

func TestMachine_UnsupportedActionPanics(t *testing.T) {
	m := New(Config{})
	assert.Panics(t, func() { m.Dispatch(bogusAction{}) })
}

type warnings []string

func (w *warnings) warn(format string, a ...any) {
	*w = append(*w, fmt.Sprintf(format, a...))
}

func TestWarnings_OnWithoutOnChange(t *testing.T) {
	var w warnings
	m := New(Config{Warn: w.warn})

	m.Control(Bool(true))
	m.Control(Bool(false))
	m.Control(Bool(true))

	assert.Equal(t, warnings{WarnOnWithoutOnChange}, w, "warned once per machine")
}

func TestWarnings_SilencedByOnChangeOrReadOnly(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"with OnChange", Config{OnChange: func(State, Action) {}}},
		{"read only", Config{ReadOnly: true}},
		{"production", Config{Production: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var w warnings
			tt.cfg.Warn = w.warn
			m := New(tt.cfg)
			m.Control(Bool(true))
			m.Toggle()
			assert.Empty(t, w)
		})
	}
}

func TestWarnings_ModeTransitions(t *testing.T) {
	var w warnings
	m := New(Config{ReadOnly: true, Warn: w.warn})

	m.Control(nil)
	assert.Empty(t, w)

	m.Control(Bool(true))
	assert.Equal(t, warnings{WarnBecameControlled}, w)

	m.Control(Bool(false))
	assert.Len(t, w, 1, "no repeat while staying controlled")

	m.Control(nil)
	assert.Len(t, w, 1, "back to the original mode")

	m.Control(Bool(true))
	assert.Equal(t, warnings{WarnBecameControlled, WarnBecameControlled}, w)
}

func TestWarnings_ControlledToUncontrolled(t *testing.T) {
	var w warnings
	m := New(Config{OnChange: func(State, Action) {}, Warn: w.warn})

	m.Control(Bool(false))
	m.Control(nil)
	m.Control(nil)

	assert.Equal(t, warnings{WarnBecameUncontrolled}, w)
}

func TestWarnings_ProductionSuppressesTransitions(t *testing.T) {
	var w warnings
	m := New(Config{Production: true, Warn: w.warn})

	m.Control(Bool(true))
	m.Control(nil)
	m.Control(Bool(true))

	assert.Empty(t, w)
}

func TestWarnings_DoNotAlterBehavior(t *testing.T) {
	var w warnings
	warned := New(Config{Warn: w.warn})
	silent := New(Config{Production: true})

	for _, on := range []*bool{nil, Bool(true), nil} {
		warned.Control(on)
		silent.Control(on)
		warned.Toggle()
		silent.Toggle()
		assert.Equal(t, silent.On(), warned.On())
	}
	assert.NotEmpty(t, w)
}
