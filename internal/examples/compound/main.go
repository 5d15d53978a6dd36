package main

import (
	"log"

	"github.com/go-via/toggle/compound"
	"github.com/go-via/toggle/h"
	"github.com/go-via/toggle/plugins/switchcss"
	"github.com/go-via/toggle/via"
)

func NewCompoundPage() *via.V {
	v := via.New()
	v.Config(via.Options{
		DocumentTitle: "Compound Toggle",
		Plugins:       []via.Plugin{switchcss.New()},
	})

	v.Page("/", func(c *via.Composition) {
		tg := compound.New(c)

		c.View(func(s *via.Session) h.H {
			return tg.Provide(s, func(tv *compound.Value) h.H {
				return h.Div(
					compound.On(tv, h.Text("The button is on")),
					compound.Off(tv, h.Text("The button is off")),
					h.Div(compound.Button(tv)),
				)
			})
		})
	})

	return v
}

func main() {
	opts, err := via.LoadOptions("via.yaml")
	if err != nil {
		log.Fatalf("[fatal] %v", err)
	}
	v := NewCompoundPage()
	v.Config(opts)
	v.Start()
}
