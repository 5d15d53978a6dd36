package via

import (
	"fmt"

	"github.com/go-via/toggle/h"
)

// Action registers fn on c and returns a handle whose triggers can be placed
// in a view.
func Action(c *Composition, fn func(s *Session)) *ActionHandle {
	if fn == nil {
		panic("via: nil action func")
	}
	idStr := genRandID()
	c.actions[idStr] = fn
	return &ActionHandle{id: idStr}
}

// ActionHandle represents a handle to an event handler fn
type ActionHandle struct {
	id string
}

// ID returns the action handle's unique identifier.
func (a *ActionHandle) ID() string {
	return a.id
}

// ActionHandleOption configures behavior of action handles
type ActionHandleOption interface {
	apply(*triggerOpts)
}

type triggerOpts struct {
	prevent bool
}

type withPrevent bool

func (o withPrevent) apply(opts *triggerOpts) {
	opts.prevent = bool(o)
}

// ActionOptionWithPrevent is an option that adds preventDefault() to the event handler.
func ActionOptionWithPrevent() ActionHandleOption {
	return withPrevent(true)
}

func applyOptions(options ...ActionHandleOption) triggerOpts {
	var opts triggerOpts
	for _, opt := range options {
		if opt != nil {
			opt.apply(&opts)
		}
	}
	return opts
}

// Expr returns the client expression that invokes the action.
func (a *ActionHandle) Expr() string {
	return fmt.Sprintf("@get('/_action/%s')", a.id)
}

// OnClick returns a via.h DOM attribute that triggers on click.
func (a *ActionHandle) OnClick(options ...ActionHandleOption) h.H {
	opts := applyOptions(options...)
	event := "on:click"
	if opts.prevent {
		event += ".prevent"
	}
	return h.Data(event, a.Expr())
}
