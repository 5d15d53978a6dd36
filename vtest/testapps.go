package vtest

import (
	"net/http"

	"github.com/go-via/toggle/h"
	"github.com/go-via/toggle/via"
)

// NewLightApp creates a minimal app for testing the harness: a light that a
// button and a test-id'd checkbox both flip, and a button without an action.
func NewLightApp() http.Handler {
	v := via.New()

	v.Page("/", func(c *via.Composition) {
		on := via.State(false)
		flips := via.State(0)

		flip := via.Action(c, func(s *via.Session) {
			on.Set(s, !on.Get(s))
			flips.Set(s, flips.Get(s)+1)
		})

		c.View(func(s *via.Session) h.H {
			state := "off"
			if on.Get(s) {
				state = "on"
			}
			return h.Div(
				h.H1(h.Text("Light")),
				h.P(h.Textf("Light is %s", state)),
				h.P(h.Textf("Flips: %d", flips.Get(s))),
				h.Button(h.Text("Flip"), flip.OnClick()),
				h.Button(h.Text("Inert")),
				h.Input(h.Type("checkbox"), h.TestID("light"), flip.OnClick(via.ActionOptionWithPrevent())),
			)
		})
	})

	return v.HTTPServeMux()
}
