// Package toggle implements a two-state toggle machine that runs either
// uncontrolled, owning its state, or controlled, reflecting a value supplied by
// its owner while still reporting the transitions it would have made.
//
// Example:
//
//	m := toggle.New(toggle.Config{
//		OnChange: func(next toggle.State, a toggle.Action) {
//			log.Printf("%s -> %v", a, next.On)
//		},
//	})
//	m.Control(nil) // uncontrolled
//	m.Toggle()     // m.On() == true
//	m.Reset()      // m.On() == false
package toggle

// Config configures a Machine.
type Config struct {
	// InitialOn is the state the machine starts with and returns to on Reset.
	InitialOn bool

	// Reducer computes transitions. Defaults to Reduce.
	Reducer Reducer

	// OnChange, if set, is called on every dispatch with the state the reducer
	// produced from the effective state, whether or not the machine applied it.
	OnChange func(next State, a Action)

	// ReadOnly marks a controlled machine without OnChange as intentional and
	// silences the matching warning.
	ReadOnly bool

	// Production suppresses all misuse warnings.
	Production bool

	// Warn receives misuse warnings. A nil Warn discards them.
	Warn func(format string, a ...any)
}

// Machine is a long-lived toggle instance. It is not safe for concurrent use;
// the owner serializes calls.
type Machine struct {
	cfg          Config
	reducer      Reducer
	initialState State
	state        State
	controlledOn *bool
	diag         diagnostics
}

// New creates a machine in the uncontrolled mode.
func New(cfg Config) *Machine {
	m := &Machine{
		cfg:          cfg,
		reducer:      cfg.Reducer,
		initialState: State{On: cfg.InitialOn},
	}
	if m.reducer == nil {
		m.reducer = Reduce
	}
	m.state = m.initialState
	return m
}

// Bool returns a pointer to v, for passing a controlling value to Control.
func Bool(v bool) *bool {
	return &v
}

// Control records the value supplied by the owner for the current render. A
// nil on leaves the machine uncontrolled. Misuse warnings are evaluated here.
func (m *Machine) Control(on *bool) {
	if on != nil {
		v := *on
		on = &v
	}
	m.controlledOn = on
	m.diag.observe(m.cfg, on != nil)
}

// Controlled reports whether the owner currently supplies the on value.
func (m *Machine) Controlled() bool {
	return m.controlledOn != nil
}

// On returns the effective state: the supplied value when controlled,
// otherwise the machine's own state.
func (m *Machine) On() bool {
	if m.controlledOn != nil {
		return *m.controlledOn
	}
	return m.state.On
}

// State returns the effective state.
func (m *Machine) State() State {
	return State{On: m.On()}
}

// Dispatch applies a to the machine's own state when uncontrolled and reports
// the would-be next state to OnChange in either mode.
func (m *Machine) Dispatch(a Action) {
	current := m.State()
	if !m.Controlled() {
		m.state = m.reducer(m.state, a)
	}
	if m.cfg.OnChange != nil {
		m.cfg.OnChange(m.reducer(current, a), a)
	}
}

// Toggle dispatches a ToggleAction.
func (m *Machine) Toggle() {
	m.Dispatch(ToggleAction{})
}

// Reset dispatches a ResetAction back to the initial state.
func (m *Machine) Reset() {
	m.Dispatch(ResetAction{InitialState: m.initialState})
}
