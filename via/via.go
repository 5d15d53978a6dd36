// Package via is a small server-driven UI runtime.
//
// Pages are composed once into a Composition that declares state, actions and
// a view. Each browser tab gets a session: actions run against it, and every
// change is re-rendered on the server and streamed to the browser as a
// Datastar patch over SSE.
package via

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-via/toggle/h"
	"github.com/starfederation/datastar-go/datastar"
)

const (
	defaultDatastarURL = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.6/bundles/datastar.js"

	// tabSignal names the signal carrying the session id back on every request.
	tabSignal = "via-c"
)

// V is the root application.
// It manages page routing, tab sessions, and SSE connections for live updates.
type V struct {
	cfg                  Options
	mux                  *http.ServeMux
	sessionRegistry      map[string]*session
	sessionRegistryMutex sync.RWMutex
	documentHeadIncludes []h.H
	documentFootIncludes []h.H
}

func (v *V) logErr(s *session, format string, a ...any) {
	log.Printf("[error] %smsg=%q", sessionRef(s), fmt.Sprintf(format, a...))
}

func (v *V) logWarn(s *session, format string, a ...any) {
	if v.cfg.LogLvl >= LogLevelWarn {
		log.Printf("[warn] %smsg=%q", sessionRef(s), fmt.Sprintf(format, a...))
	}
}

func (v *V) logInfo(s *session, format string, a ...any) {
	if v.cfg.LogLvl >= LogLevelInfo {
		log.Printf("[info] %smsg=%q", sessionRef(s), fmt.Sprintf(format, a...))
	}
}

func (v *V) logDebug(s *session, format string, a ...any) {
	if v.cfg.LogLvl == LogLevelDebug {
		log.Printf("[debug] %smsg=%q", sessionRef(s), fmt.Sprintf(format, a...))
	}
}

func sessionRef(s *session) string {
	if s == nil || s.id == "" {
		return ""
	}
	return fmt.Sprintf("via-s=%q ", s.id)
}

// Config overrides the default configuration with the given configuration options.
// Zero fields keep their current value.
func (v *V) Config(cfg Options) {
	if cfg.LogLvl != undefined {
		v.cfg.LogLvl = cfg.LogLvl
	}
	if cfg.DocumentTitle != "" {
		v.cfg.DocumentTitle = cfg.DocumentTitle
	}
	if cfg.ServerAddress != "" {
		v.cfg.ServerAddress = cfg.ServerAddress
	}
	if cfg.DatastarURL != "" {
		v.cfg.DatastarURL = cfg.DatastarURL
	}
	if cfg.SessionTTL != 0 {
		v.cfg.SessionTTL = cfg.SessionTTL
	}
	if cfg.Production {
		v.cfg.Production = true
	}
	for _, plugin := range cfg.Plugins {
		if plugin != nil {
			plugin.Register(v)
		}
	}
}

// AppendToHead appends the given h.H nodes to the head of the base HTML document.
// Useful for including css stylesheets and JS scripts.
func (v *V) AppendToHead(elements ...h.H) {
	for _, el := range elements {
		if el != nil {
			v.documentHeadIncludes = append(v.documentHeadIncludes, el)
		}
	}
}

// AppendToFoot appends the given h.H nodes to the end of the base HTML document body.
func (v *V) AppendToFoot(elements ...h.H) {
	for _, el := range elements {
		if el != nil {
			v.documentFootIncludes = append(v.documentFootIncludes, el)
		}
	}
}

// Page registers a route and composes it. The compose func runs once, here;
// the view it declares runs on every render of every tab.
//
// Example:
//
//	v.Page("/", func(c *via.Composition) {
//		count := via.State(0)
//		inc := via.Action(c, func(s *via.Session) {
//			count.Set(s, count.Get(s)+1)
//		})
//		c.View(func(s *via.Session) h.H {
//			return h.Button(h.Textf("Clicked %d", count.Get(s)), inc.OnClick())
//		})
//	})
func (v *V) Page(route string, composeFn func(c *Composition)) {
	c := newComposition(v, route)
	composeFn(c)
	if c.viewFn == nil {
		panic("page " + route + " has no view")
	}
	pattern := "GET " + route
	if strings.HasSuffix(route, "/") {
		pattern += "{$}" // pages match exactly
	}
	v.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		sess := newSession(genRandID(), c)
		v.logDebug(sess, "GET %s", route)

		sess.mu.Lock()
		body := c.viewFn(sess.viewSession(r.Context()))
		sess.mu.Unlock()
		v.registerSession(sess)

		head := append([]h.H{}, v.documentHeadIncludes...)
		head = append(head,
			h.Script(h.Type("module"), h.Src(v.cfg.DatastarURL)),
			h.Meta(h.Data("signals", fmt.Sprintf("{'%s':'%s'}", tabSignal, sess.id))),
			h.Meta(h.Data("init", "@get('/_sse')")),
		)
		view := h.HTML5(h.HTML5Props{
			Title: v.cfg.DocumentTitle,
			Head:  head,
			Body:  append([]h.H{body}, v.documentFootIncludes...),
		})
		if err := view.Render(w); err != nil {
			v.logErr(sess, "render page %s: %v", route, err)
		}
	})
}

func (v *V) registerSession(s *session) {
	v.sessionRegistryMutex.Lock()
	defer v.sessionRegistryMutex.Unlock()
	v.sessionRegistry[s.id] = s
	v.logDebug(s, "new session added to registry")
}

func (v *V) getSession(id string) (*session, error) {
	v.sessionRegistryMutex.RLock()
	defer v.sessionRegistryMutex.RUnlock()
	if s, ok := v.sessionRegistry[id]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("session '%s' not found", id)
}

// HandleFunc registers the HTTP handler function for a given pattern. The handler function panics if
// in conflict with another registered handler with the same pattern.
func (v *V) HandleFunc(pattern string, f http.HandlerFunc) {
	v.mux.HandleFunc(pattern, f)
}

// HTTPServeMux exposes the app's router, for embedding or testing.
func (v *V) HTTPServeMux() *http.ServeMux {
	return v.mux
}

// Start starts the Via HTTP server on the configured address.
func (v *V) Start() {
	v.logInfo(nil, "via started on address: %s", v.cfg.ServerAddress)
	go v.sweepSessions(context.Background(), time.Minute)
	log.Fatalf("[fatal] %v", http.ListenAndServe(v.cfg.ServerAddress, v.mux))
}

func (v *V) sessionFromRequest(r *http.Request) (*session, error) {
	var sigs map[string]any
	if err := datastar.ReadSignals(r, &sigs); err != nil {
		return nil, fmt.Errorf("read signals: %w", err)
	}
	id, _ := sigs[tabSignal].(string)
	return v.getSession(id)
}

func (v *V) handleSSE(w http.ResponseWriter, r *http.Request) {
	sess, err := v.sessionFromRequest(r)
	if err != nil {
		v.logErr(nil, "sse connection refused: %v", err)
		w.WriteHeader(http.StatusNotFound)
		return
	}
	sess.streams.Add(1)
	defer func() {
		sess.streams.Add(-1)
		sess.touch()
	}()
	sse := datastar.NewSSE(w, r)
	v.logDebug(sess, "SSE connection established")

	// bring a reconnecting tab up to date
	sess.mu.Lock()
	sess.sync(r.Context())
	sess.mu.Unlock()

	for {
		select {
		case <-sse.Context().Done():
			v.logDebug(sess, "SSE connection closed")
			return
		case p := <-sess.patchChan:
			if err := p.send(sse); err != nil {
				v.logErr(sess, "send patch: %v", err)
				return
			}
		}
	}
}

func (v *V) handleAction(w http.ResponseWriter, r *http.Request) {
	actionID := r.PathValue("id")
	sess, err := v.sessionFromRequest(r)
	if err != nil {
		v.logErr(nil, "action '%s' failed: %v", actionID, err)
		w.WriteHeader(http.StatusNotFound)
		return
	}
	actionFn, err := sess.comp.getActionFn(actionID)
	if err != nil {
		v.logDebug(sess, "action '%s' failed: %v", actionID, err)
		w.WriteHeader(http.StatusNotFound)
		return
	}

	sess.touch()
	sess.mu.Lock()
	defer sess.mu.Unlock()
	// log err if actionFn panics
	defer func() {
		if rec := recover(); rec != nil {
			v.logErr(sess, "action '%s' failed: %v", actionID, rec)
			w.WriteHeader(http.StatusInternalServerError)
		}
	}()
	actionFn(sess.actionSession(r.Context()))
	// state may live outside StateHandles (refs), so always re-render
	sess.sync(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// New creates a new Via application with default configuration.
func New() *V {
	v := &V{
		mux:             http.NewServeMux(),
		sessionRegistry: make(map[string]*session),
		cfg: Options{
			ServerAddress: ":3000",
			LogLvl:        LogLevelInfo,
			DocumentTitle: "⚡ Via",
			DatastarURL:   defaultDatastarURL,
			SessionTTL:    1800,
		},
	}
	v.mux.HandleFunc("GET /_sse", v.handleSSE)
	v.mux.HandleFunc("GET /_action/{id}", v.handleAction)
	return v
}

func genRandID() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)[:8]
}

func render(n h.H) (string, error) {
	var buf bytes.Buffer
	if err := n.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
