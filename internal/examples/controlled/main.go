package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-via/toggle"
	"github.com/go-via/toggle/controlled"
	"github.com/go-via/toggle/h"
	"github.com/go-via/toggle/internal/eventlog"
	"github.com/go-via/toggle/plugins/switchcss"
	"github.com/go-via/toggle/via"
)

// Once the click count exceeds clickCutoff the synchronized toggles freeze
// until reset.
const (
	clickCutoff  = 4
	recentEvents = 3
)

// NewControlledPage builds the app. Changes of the uncontrolled toggle are
// recorded to rec, and the latest listed under it, when rec is not nil.
func NewControlledPage(rec eventlog.Recorder) *via.V {
	v := via.New()
	v.Config(via.Options{
		DocumentTitle: "Controlled Toggle",
		Plugins:       []via.Plugin{switchcss.New()},
	})

	v.Page("/", func(c *via.Composition) {
		bothOn := via.State(false)
		timesClicked := via.State(0)

		handleToggleChange := func(s *via.Session, next toggle.State, a toggle.Action) {
			if _, ok := a.(toggle.ToggleAction); ok && timesClicked.Get(s) > clickCutoff {
				return
			}
			bothOn.Set(s, next.On)
			timesClicked.Set(s, timesClicked.Get(s)+1)
		}

		first := controlled.New(c, controlled.Config{})
		second := controlled.New(c, controlled.Config{OnChange: handleToggleChange})
		uncontrolled := controlled.New(c, controlled.Config{
			Attrs: map[string]string{"aria-label": "Uncontrolled toggle"},
			OnChange: func(s *via.Session, next toggle.State, a toggle.Action) {
				c.Infof("uncontrolled toggle onChange: on=%t action=%s", next.On, a)
				s.ExecScript(consoleInfo("Uncontrolled Toggle onChange", next, a))
				if rec == nil {
					return
				}
				err := rec.Record(s.Context(), eventlog.Event{
					Source: "uncontrolled",
					On:     next.On,
					Action: a.String(),
					At:     time.Now(),
				})
				if err != nil {
					c.Warnf("record toggle change: %v", err)
				}
			},
		})

		reset := via.Action(c, func(s *via.Session) {
			bothOn.Set(s, false)
			timesClicked.Set(s, 0)
		})

		c.View(func(s *via.Session) h.H {
			on := bothOn.Get(s)
			clicks := timesClicked.Get(s)

			var counter h.H
			if clicks > clickCutoff {
				counter = h.Div(h.TestID("notice"), h.Text("Whoa, you clicked too much!"), h.Br())
			} else {
				counter = h.Div(h.TestID("click-count"), h.Textf("Click count: %d", clicks))
			}

			return h.Div(
				h.Div(
					first.View(s, toggle.Bool(on)),
					second.View(s, toggle.Bool(on)),
				),
				counter,
				h.Button(h.Text("Reset"), reset.OnClick()),
				h.Hr(),
				h.Div(
					h.Div(h.Text("Uncontrolled Toggle:")),
					uncontrolled.View(s, nil),
					uncontrolled.ResetButton("Reset uncontrolled"),
					recentChanges(c, s, rec),
				),
			)
		})
	})

	return v
}

func recentChanges(c *via.Composition, s *via.Session, rec eventlog.Recorder) h.H {
	if rec == nil {
		return nil
	}
	events, err := rec.Recent(s.Context(), recentEvents)
	if err != nil {
		c.Warnf("list toggle changes: %v", err)
		return nil
	}
	if len(events) == 0 {
		return nil
	}
	items := make([]h.H, 0, len(events))
	for _, e := range events {
		items = append(items, h.Li(h.Textf("%s: on=%t", e.Action, e.On)))
	}
	return h.Ul(append([]h.H{h.TestID("recent-changes")}, items...)...)
}

func consoleInfo(msg string, next toggle.State, a toggle.Action) string {
	args, _ := json.Marshal([]any{msg, map[string]bool{"on": next.On}, map[string]string{"type": a.String()}})
	return fmt.Sprintf("console.info(...%s)", args)
}

func main() {
	opts, err := via.LoadOptions("via.yaml")
	if err != nil {
		log.Fatalf("[fatal] %v", err)
	}

	events, err := eventlog.Open(context.Background(), "toggles.db")
	if err != nil {
		log.Fatalf("[fatal] %v", err)
	}
	defer events.Close()

	v := NewControlledPage(events)
	v.Config(opts)
	v.Start()
}
