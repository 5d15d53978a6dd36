package via

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-via/toggle/h"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageRoute(t *testing.T) {
	v := New()
	v.Page("/", func(c *Composition) {
		c.View(func(s *Session) h.H {
			return h.Div(h.Text("Hello Via!"))
		})
	})

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	v.mux.ServeHTTP(w, req)

	body := w.Body.String()
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, body, "Hello Via!")
	assert.Contains(t, body, "<!doctype html>")
	assert.Contains(t, body, defaultDatastarURL)
	assert.Contains(t, body, `data-init="@get(&#39;/_sse&#39;)"`)
}

func TestPage_WithoutViewPanics(t *testing.T) {
	v := New()
	assert.PanicsWithValue(t, "page /empty has no view", func() {
		v.Page("/empty", func(c *Composition) {})
	})
}

func TestPage_RegistersSessionPerVisit(t *testing.T) {
	v := New()
	v.Page("/", func(c *Composition) {
		c.View(func(s *Session) h.H { return h.Div() })
	})

	first := visit(t, v, "/")
	second := visit(t, v, "/")

	assert.NotEqual(t, first, second)
	_, err := v.getSession(first)
	assert.NoError(t, err)
	_, err = v.getSession("missing")
	assert.Error(t, err)
}

func TestAppendToHead(t *testing.T) {
	v := New()
	v.AppendToHead(h.Link(h.Rel("stylesheet"), h.Href("/style.css")), nil)
	v.AppendToFoot(h.Script(h.Src("/foot.js")))
	v.Page("/", func(c *Composition) {
		c.View(func(s *Session) h.H { return h.Div() })
	})

	w := httptest.NewRecorder()
	v.mux.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	assert.Contains(t, w.Body.String(), `<link rel="stylesheet" href="/style.css">`)
	assert.Contains(t, w.Body.String(), `<script src="/foot.js"></script>`)
}

func TestAction_UnknownSession(t *testing.T) {
	v := New()
	w := httptest.NewRecorder()
	v.mux.ServeHTTP(w, actionRequest(t, "abc", "nope"))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAction_UnknownAction(t *testing.T) {
	v := New()
	v.Page("/", func(c *Composition) {
		c.View(func(s *Session) h.H { return h.Div() })
	})
	id := visit(t, v, "/")

	w := httptest.NewRecorder()
	v.mux.ServeHTTP(w, actionRequest(t, "abc", id))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAction_RunsAgainstTabState(t *testing.T) {
	v := New()
	count := State(0)
	var inc *ActionHandle
	v.Page("/", func(c *Composition) {
		inc = Action(c, func(s *Session) {
			count.Set(s, count.Get(s)+1)
		})
		c.View(func(s *Session) h.H {
			return h.P(h.Textf("Count: %d", count.Get(s)))
		})
	})
	tab1 := visit(t, v, "/")
	tab2 := visit(t, v, "/")

	for range 3 {
		w := httptest.NewRecorder()
		v.mux.ServeHTTP(w, actionRequest(t, inc.ID(), tab1))
		require.Equal(t, http.StatusNoContent, w.Code)
	}
	w := httptest.NewRecorder()
	v.mux.ServeHTTP(w, actionRequest(t, inc.ID(), tab2))

	s1, _ := v.getSession(tab1)
	s2, _ := v.getSession(tab2)
	assert.Equal(t, 3, count.Get(s1.viewSession(context.Background())))
	assert.Equal(t, 1, count.Get(s2.viewSession(context.Background())))
}

func TestAction_PanicIsRecovered(t *testing.T) {
	v := New()
	var boom *ActionHandle
	v.Page("/", func(c *Composition) {
		boom = Action(c, func(s *Session) { panic("boom") })
		c.View(func(s *Session) h.H { return h.Div() })
	})
	id := visit(t, v, "/")

	w := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		v.mux.ServeHTTP(w, actionRequest(t, boom.ID(), id))
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestSSE_StreamsViewAfterAction(t *testing.T) {
	v := New()
	on := State(false)
	var flip *ActionHandle
	v.Page("/", func(c *Composition) {
		flip = Action(c, func(s *Session) { on.Set(s, !on.Get(s)) })
		c.View(func(s *Session) h.H {
			return h.P(h.Textf("on=%v", on.Get(s)))
		})
	})
	id := visit(t, v, "/")

	stream := openStream(t, v, id)
	stream.waitFor(t, "on=false")

	w := httptest.NewRecorder()
	v.mux.ServeHTTP(w, actionRequest(t, flip.ID(), id))
	stream.waitFor(t, "on=true")
	assert.Contains(t, stream.body(), "event: datastar-patch-elements")
}

func TestSSE_ExecScript(t *testing.T) {
	v := New()
	var say *ActionHandle
	v.Page("/", func(c *Composition) {
		say = Action(c, func(s *Session) { s.ExecScript("console.info('hi')") })
		c.View(func(s *Session) h.H { return h.Div() })
	})
	id := visit(t, v, "/")
	stream := openStream(t, v, id)

	w := httptest.NewRecorder()
	v.mux.ServeHTTP(w, actionRequest(t, say.ID(), id))
	stream.waitFor(t, "console.info")
}

func TestSSE_UnknownSession(t *testing.T) {
	v := New()
	w := httptest.NewRecorder()
	v.mux.ServeHTTP(w, streamRequest(t, context.Background(), "nope"))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

var tabIDPattern = regexp.MustCompile(`via-c&#39;:&#39;([a-f0-9]+)&#39;`)

func visit(t *testing.T, v *V, path string) string {
	t.Helper()
	w := httptest.NewRecorder()
	v.mux.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
	m := tabIDPattern.FindStringSubmatch(w.Body.String())
	require.Len(t, m, 2, "tab id not found in:\n%s", w.Body.String())
	return m[1]
}

func signalsQuery(id string) string {
	return "datastar=" + url.QueryEscape(`{"`+tabSignal+`":"`+id+`"}`)
}

func actionRequest(t *testing.T, actionID, tabID string) *http.Request {
	t.Helper()
	return httptest.NewRequest("GET", "/_action/"+actionID+"?"+signalsQuery(tabID), nil)
}

func streamRequest(t *testing.T, ctx context.Context, tabID string) *http.Request {
	t.Helper()
	req := httptest.NewRequest("GET", "/_sse?"+signalsQuery(tabID), nil)
	req.Header.Set("Accept", "text/event-stream")
	return req.WithContext(ctx)
}

type lockedRecorder struct {
	*httptest.ResponseRecorder
	mu sync.Mutex
}

func (w *lockedRecorder) Write(b []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.ResponseRecorder.Write(b)
}

func (w *lockedRecorder) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.ResponseRecorder.Flush()
}

type testStream struct {
	w *lockedRecorder
}

func (s *testStream) body() string {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	return s.w.Body.String()
}

func (s *testStream) waitFor(t *testing.T, text string) {
	t.Helper()
	require.Eventually(t, func() bool {
		return strings.Contains(s.body(), text)
	}, 2*time.Second, 5*time.Millisecond, "stream never contained %q", text)
}

func openStream(t *testing.T, v *V, tabID string) *testStream {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	w := &lockedRecorder{ResponseRecorder: httptest.NewRecorder()}
	done := make(chan struct{})
	go func() {
		defer close(done)
		v.mux.ServeHTTP(w, streamRequest(t, ctx, tabID))
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return &testStream{w: w}
}

func TestPage_MatchesExactly(t *testing.T) {
	v := New()
	v.Page("/", func(c *Composition) {
		c.View(func(s *Session) h.H { return h.Div() })
	})

	w := httptest.NewRecorder()
	v.mux.ServeHTTP(w, httptest.NewRequest("GET", "/elsewhere", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
