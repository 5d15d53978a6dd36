package via

// StateHandle is a per-tab value, set from actions and read by views.
type StateHandle[T any] struct {
	id      string
	initial T
}

func State[T any](initial T) *StateHandle[T] {
	return &StateHandle[T]{
		id:      genRandID(),
		initial: initial,
	}
}

func (st *StateHandle[T]) Get(s *Session) T {
	if s == nil || s.s == nil {
		return st.initial
	}
	if val, ok := s.s.state[st.id]; ok {
		return val.(T)
	}
	return st.initial
}

func (st *StateHandle[T]) Set(s *Session, value T) {
	if s == nil || s.s == nil {
		return
	}
	if s.mode == sessionModeView {
		s.warn("State.Set() called during view render; mutation ignored")
		return
	}
	s.s.state[st.id] = value
}

// RefHandle is a per-tab value created lazily by its init func and kept
// across renders; it holds long-lived instances owned by one tab, like a
// component's state machine.
type RefHandle[T any] struct {
	id   string
	init func() T
}

func Ref[T any](init func() T) *RefHandle[T] {
	if init == nil {
		panic("via: Ref requires an init func")
	}
	return &RefHandle[T]{
		id:   genRandID(),
		init: init,
	}
}

// Get returns the tab's instance, creating it on first use. Views may call Get.
func (r *RefHandle[T]) Get(s *Session) T {
	if s == nil || s.s == nil {
		return r.init()
	}
	if val, ok := s.s.state[r.id]; ok {
		return val.(T)
	}
	val := r.init()
	s.s.state[r.id] = val
	return val
}
