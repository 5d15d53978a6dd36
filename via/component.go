package via

import (
	"maps"

	"github.com/go-via/toggle/h"
)

// ComposeFn is the compose function for a component (same shape as a page's).
type ComposeFn func(c *Composition)

// CompHandle is a handle to a composed component.
type CompHandle struct {
	id     string
	viewFn func(*Session) h.H
}

// ID returns the component's DOM id.
func (ch *CompHandle) ID() string {
	return ch.id
}

// Mount renders the component into the parent view, wrapped in a div with its ID.
func (ch *CompHandle) Mount(s *Session) h.H {
	return h.Div(h.ID(ch.id), ch.viewFn(s))
}

// Component creates a child component from a compose function. The child's
// actions are registered on the parent so they resolve from the page.
func (c *Composition) Component(composeFn ComposeFn) *CompHandle {
	child := &Composition{
		id:          genRandID(),
		route:       c.route,
		app:         c.app,
		actions:     make(map[string]func(*Session)),
		isComponent: true,
	}

	composeFn(child)
	if child.viewFn == nil {
		panic("component in " + c.route + " has no view")
	}

	maps.Copy(c.actions, child.actions)

	return &CompHandle{
		id:     child.id,
		viewFn: child.viewFn,
	}
}
