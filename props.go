package toggle

import "maps"

// Props are the properties a getter hands to a display control.
type Props struct {
	// Pressed is rendered as aria-pressed when non-nil.
	Pressed *bool
	// OnClick runs when the control is clicked.
	OnClick func()
	// Attrs are passed through to the control untouched.
	Attrs map[string]string
}

// CallAll returns a func calling every non-nil fn in order.
func CallAll(fns ...func()) func() {
	return func() {
		for _, fn := range fns {
			if fn != nil {
				fn()
			}
		}
	}
}

// TogglerProps returns props for a control that toggles the machine. The
// caller's OnClick runs before the toggle; the caller's Pressed and Attrs take
// precedence over the getter's.
func (m *Machine) TogglerProps(extra Props) Props {
	return mergeProps(Props{
		Pressed: Bool(m.On()),
		OnClick: m.Toggle,
	}, extra)
}

// ResetterProps returns props for a control that resets the machine, merged
// the same way as TogglerProps.
func (m *Machine) ResetterProps(extra Props) Props {
	return mergeProps(Props{OnClick: m.Reset}, extra)
}

func mergeProps(own, extra Props) Props {
	p := Props{
		Pressed: own.Pressed,
		OnClick: CallAll(extra.OnClick, own.OnClick),
	}
	if extra.Pressed != nil {
		p.Pressed = extra.Pressed
	}
	if len(extra.Attrs) > 0 {
		p.Attrs = maps.Clone(extra.Attrs)
	}
	return p
}
