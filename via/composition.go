package via

import (
	"fmt"

	"github.com/go-via/toggle/h"
)

// Composition collects what a page or component declares: its actions and
// its view.
type Composition struct {
	id          string
	route       string
	app         *V
	viewFn      func(*Session) h.H
	actions     map[string]func(*Session)
	isComponent bool
}

func newComposition(app *V, route string) *Composition {
	return &Composition{
		id:      genRandID(),
		route:   route,
		app:     app,
		actions: make(map[string]func(*Session)),
	}
}

func (c *Composition) ID() string {
	return c.id
}

// View sets the func rendering this composition. Pages are wrapped in a main
// element carrying the composition ID, which is what patches replace.
func (c *Composition) View(viewFn func(s *Session) h.H) {
	if viewFn == nil {
		panic("composition contains no view")
	}
	if c.isComponent {
		c.viewFn = viewFn
		return
	}
	c.viewFn = func(s *Session) h.H {
		return h.Main(h.ID(c.id), viewFn(s))
	}
}

// Production reports whether the app runs with development diagnostics off.
func (c *Composition) Production() bool {
	return c.app != nil && c.app.cfg.Production
}

// Warnf logs a warning through the app logger.
func (c *Composition) Warnf(format string, a ...any) {
	if c.app == nil {
		return
	}
	c.app.logWarn(nil, format, a...)
}

// Infof logs an info message through the app logger.
func (c *Composition) Infof(format string, a ...any) {
	if c.app == nil {
		return
	}
	c.app.logInfo(nil, format, a...)
}

func (c *Composition) getActionFn(id string) (func(*Session), error) {
	if f, ok := c.actions[id]; ok {
		return f, nil
	}
	return nil, fmt.Errorf("action '%s' not found", id)
}
