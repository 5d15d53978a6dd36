// Package widget holds display controls shared by the toggle components.
package widget

import (
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/go-via/toggle/h"
)

// SwitchProps configures a Switch.
type SwitchProps struct {
	On bool
	// Pressed renders aria-pressed on the button face when non-nil.
	Pressed *bool
	// Click is the trigger attribute placed on the input, usually an
	// ActionHandle's OnClick.
	Click h.H
	// Attrs are extra attributes for the button face. "aria-label" is moved
	// to the label and "class" is appended to the switch classes.
	Attrs map[string]string
}

// Switch renders a checkbox styled as a switch.
func Switch(p SwitchProps) h.H {
	label := "Toggle"
	classes := []string{"toggle-btn", "toggle-btn-off"}
	if p.On {
		classes[1] = "toggle-btn-on"
	}

	var face []h.H
	if p.Pressed != nil {
		face = append(face, h.Aria("pressed", strconv.FormatBool(*p.Pressed)))
	}
	for _, name := range slices.Sorted(maps.Keys(p.Attrs)) {
		v := p.Attrs[name]
		switch name {
		case "aria-label":
			label = v
		case "class":
			classes = append([]string{v}, classes...)
		default:
			face = append(face, h.Attr(name, v))
		}
	}
	face = append([]h.H{h.Class(strings.Join(classes, " "))}, face...)

	return h.Label(
		h.AriaLabel(label),
		h.Style("display: block"),
		h.Input(
			h.Class("toggle-input"),
			h.Type("checkbox"),
			h.If(p.On, h.Checked()),
			h.TestID("toggle-input"),
			p.Click,
		),
		h.Span(face...),
	)
}
