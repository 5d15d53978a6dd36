// Package controlled renders toggle.Machine as a switch. A Toggle follows the
// on value its owner passes to View and falls back to its own state when that
// value is nil. The switch is a via component mounted into the owner's view.
package controlled

import (
	"github.com/go-via/toggle"
	"github.com/go-via/toggle/h"
	"github.com/go-via/toggle/via"
	"github.com/go-via/toggle/widget"
)

// ChangeFunc observes the state a toggle would move to.
type ChangeFunc func(s *via.Session, next toggle.State, a toggle.Action)

// Config configures a Toggle.
type Config struct {
	InitialOn bool
	Reducer   toggle.Reducer
	OnChange  ChangeFunc
	ReadOnly  bool
	// Attrs are passed to the switch, e.g. {"aria-label": "Dark mode"}.
	Attrs map[string]string
}

// Toggle is a controllable switch with one machine per tab.
type Toggle struct {
	cfg      Config
	instance *via.RefHandle[*instance]
	comp     *via.CompHandle
	toggle   *via.ActionHandle
	reset    *via.ActionHandle
}

// instance binds a tab's machine to the session it was last reached through,
// so that OnChange can reach the owner's state.
type instance struct {
	m *toggle.Machine
	s *via.Session
}

// New registers a toggle on c. Misuse warnings go to c's logger unless the
// app runs in production.
func New(c *via.Composition, cfg Config) *Toggle {
	t := &Toggle{cfg: cfg}
	t.instance = via.Ref(func() *instance {
		inst := &instance{}
		mcfg := toggle.Config{
			InitialOn:  cfg.InitialOn,
			Reducer:    cfg.Reducer,
			ReadOnly:   cfg.ReadOnly,
			Production: c.Production(),
			Warn:       c.Warnf,
		}
		if cfg.OnChange != nil {
			mcfg.OnChange = func(next toggle.State, a toggle.Action) {
				cfg.OnChange(inst.s, next, a)
			}
		}
		inst.m = toggle.New(mcfg)
		return inst
	})
	t.comp = c.Component(func(cc *via.Composition) {
		t.toggle = via.Action(cc, func(s *via.Session) {
			t.Machine(s).TogglerProps(toggle.Props{}).OnClick()
		})
		t.reset = via.Action(cc, func(s *via.Session) {
			t.Machine(s).ResetterProps(toggle.Props{}).OnClick()
		})
		cc.View(t.render)
	})
	return t
}

// ID returns the DOM id of the element wrapping the switch.
func (t *Toggle) ID() string {
	return t.comp.ID()
}

// Machine returns the tab's machine, bound to s: OnChange handlers run by it
// receive s until the machine is reached through another session.
func (t *Toggle) Machine(s *via.Session) *toggle.Machine {
	inst := t.instance.Get(s)
	inst.s = s
	return inst.m
}

// View renders the switch. on is the owner's value for this render; nil
// leaves the toggle uncontrolled.
func (t *Toggle) View(s *via.Session, on *bool) h.H {
	t.Machine(s).Control(on)
	return t.comp.Mount(s)
}

func (t *Toggle) render(s *via.Session) h.H {
	m := t.Machine(s)
	p := m.TogglerProps(toggle.Props{Attrs: t.cfg.Attrs})
	return widget.Switch(widget.SwitchProps{
		On:      m.On(),
		Pressed: p.Pressed,
		Click:   t.toggle.OnClick(via.ActionOptionWithPrevent()),
		Attrs:   p.Attrs,
	})
}

// ResetButton renders a button resetting the toggle to its initial state.
func (t *Toggle) ResetButton(label string) h.H {
	return h.Button(h.Text(label), t.reset.OnClick())
}
