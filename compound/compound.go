// Package compound implements a toggle built from cooperating pieces: a
// container owning the on state and descendants (On, Off, Button) that read
// it through an explicit *Value handed down the view.
//
// Example:
//
//	v.Page("/", func(c *via.Composition) {
//		tg := compound.New(c)
//		c.View(func(s *via.Session) h.H {
//			return tg.Provide(s, func(v *compound.Value) h.H {
//				return h.Div(
//					compound.On(v, h.Text("The button is on")),
//					compound.Off(v, h.Text("The button is off")),
//					compound.Button(v),
//				)
//			})
//		})
//	})
package compound

import (
	"errors"

	"github.com/go-via/toggle/h"
	"github.com/go-via/toggle/via"
	"github.com/go-via/toggle/widget"
)

// ErrOutsideToggle is the panic value raised when a descendant is rendered
// without the Value of an enclosing Toggle.
var ErrOutsideToggle = errors.New("compound: On, Off and Button must be used inside a Toggle")

// Value is what a Toggle shares with its descendants for one render.
type Value struct {
	On     bool
	Toggle *via.ActionHandle
}

// Toggle is the container. It owns one on state per tab.
type Toggle struct {
	on   *via.StateHandle[bool]
	flip *via.ActionHandle
}

// New registers a toggle container on c.
func New(c *via.Composition) *Toggle {
	t := &Toggle{on: via.State(false)}
	t.flip = via.Action(c, t.Toggle)
	return t
}

// On reports the tab's state.
func (t *Toggle) On(s *via.Session) bool {
	return t.on.Get(s)
}

// Toggle flips the tab's state. It must run inside an action.
func (t *Toggle) Toggle(s *via.Session) {
	t.on.Set(s, !t.on.Get(s))
}

// Provide renders children with the container's Value.
func (t *Toggle) Provide(s *via.Session, children func(v *Value) h.H) h.H {
	return children(&Value{On: t.On(s), Toggle: t.flip})
}

// Use returns v, panicking with ErrOutsideToggle when it is nil.
func Use(v *Value) *Value {
	if v == nil {
		panic(ErrOutsideToggle)
	}
	return v
}

// On renders children only while the toggle is on.
func On(v *Value, children ...h.H) h.H {
	if !Use(v).On {
		return nil
	}
	return h.Group(children...)
}

// Off renders children only while the toggle is off.
func Off(v *Value, children ...h.H) h.H {
	if Use(v).On {
		return nil
	}
	return h.Group(children...)
}

// Button renders a switch bound to the toggle.
func Button(v *Value, attrs ...map[string]string) h.H {
	v = Use(v)
	return switchFor(v.On, v.Toggle, attrs)
}

func switchFor(on bool, trigger *via.ActionHandle, attrs []map[string]string) h.H {
	merged := map[string]string{}
	for _, a := range attrs {
		for k, val := range a {
			merged[k] = val
		}
	}
	return widget.Switch(widget.SwitchProps{
		On:    on,
		Click: trigger.OnClick(via.ActionOptionWithPrevent()),
		Attrs: merged,
	})
}

// ButtonProps customizes a button made with Toggle.Button.
type ButtonProps struct {
	// OnClick runs after the toggle has flipped, in the same action.
	OnClick func(s *via.Session)
	Attrs   map[string]string
}

// ButtonHandle is a button with its own click handling, declared at compose
// time and rendered with the Value of its container.
type ButtonHandle struct {
	click *via.ActionHandle
	attrs map[string]string
}

// Button declares a button whose click runs the container's toggle first and
// then p.OnClick.
func (t *Toggle) Button(c *via.Composition, p ButtonProps) *ButtonHandle {
	b := &ButtonHandle{attrs: p.Attrs}
	b.click = via.Action(c, func(s *via.Session) {
		t.Toggle(s)
		if p.OnClick != nil {
			p.OnClick(s)
		}
	})
	return b
}

// Render renders the button from the container's Value.
func (b *ButtonHandle) Render(v *Value) h.H {
	v = Use(v)
	return switchFor(v.On, b.click, []map[string]string{b.attrs})
}
