// Package vtest drives via apps in-process: it loads a page, keeps its SSE
// stream open, triggers actions the way the browser would and tracks the
// latest patched view.
package vtest

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"
)

// PatchTimeout bounds how long Click waits for the re-rendered view.
var PatchTimeout = 2 * time.Second

var (
	tabIDRe     = regexp.MustCompile(`\{'via-c':'([a-f0-9]+)'\}`)
	clickAttrRe = regexp.MustCompile(`data-on:click(?:\.[a-z]+)*="@get\(&#39;([^&"]+)&#39;\)"`)
	buttonRe    = regexp.MustCompile(`<button([^>]*)>(.*?)</button>`)
	tagRe       = regexp.MustCompile(`<[a-z][a-z0-9]*([^>]*)>`)
	stripTagsRe = regexp.MustCompile(`<[^>]+>`)
	spaceRe     = regexp.MustCompile(`\s+`)
)

// Page is a stateful browser tab.
type Page struct {
	handler http.Handler
	tabID   string
	html    string
	sse     *SSE
}

// VisitWith loads path from handler and connects its SSE stream. It panics if
// the response is not a via page, since nothing else can be tested.
func VisitWith(handler http.Handler, path string) *Page {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	body := w.Body.String()
	tabID := extractTabID(body)
	if tabID == "" {
		panic(fmt.Sprintf("vtest: %s is not a via page (status %d)", path, w.Code))
	}

	p := &Page{
		handler: handler,
		tabID:   tabID,
		html:    body,
		sse:     connect(handler, tabID),
	}
	// the stream opens with the current view
	if _, err := p.sse.waitForPatch(0); err != nil {
		p.Close()
		panic(fmt.Sprintf("vtest: %s: %v", path, err))
	}
	return p
}

// TabID returns the via tab id of the page.
func (p *Page) TabID() string {
	return p.tabID
}

// HTML returns the current markup: the full document until the first
// action, then the latest patched view.
func (p *Page) HTML() string {
	return p.html
}

// Text returns the visible text of the current markup.
func (p *Page) Text() string {
	return visibleText(p.html)
}

// Count returns the number of occurrences of s in the current markup.
func (p *Page) Count(s string) int {
	return strings.Count(p.html, s)
}

// Click clicks the first button whose visible text is text.
func (p *Page) Click(text string) error {
	for _, m := range buttonRe.FindAllStringSubmatch(p.html, -1) {
		if visibleText(m[2]) != text {
			continue
		}
		actionURL := clickURL(m[1])
		if actionURL == "" {
			return fmt.Errorf("button %q has no click action", text)
		}
		return p.trigger(actionURL)
	}
	return fmt.Errorf("button %q not found", text)
}

// ClickTestID clicks the n-th (0-based) element carrying data-testid=testID.
func (p *Page) ClickTestID(testID string, n int) error {
	marker := `data-testid="` + testID + `"`
	i := 0
	for _, m := range tagRe.FindAllStringSubmatch(p.html, -1) {
		if !strings.Contains(m[1], marker) {
			continue
		}
		if i < n {
			i++
			continue
		}
		actionURL := clickURL(m[1])
		if actionURL == "" {
			return fmt.Errorf("element %s #%d has no click action", testID, n)
		}
		return p.trigger(actionURL)
	}
	return fmt.Errorf("element %s #%d not found", testID, n)
}

// trigger runs an action and waits for the view the server pushes after it.
func (p *Page) trigger(actionURL string) error {
	seen := p.sse.patchCount()
	req := httptest.NewRequest(http.MethodGet, actionURL+"?"+signalsQuery(p.tabID), nil)
	w := httptest.NewRecorder()
	p.handler.ServeHTTP(w, req)
	if w.Code >= http.StatusBadRequest {
		return fmt.Errorf("action %s: status %d", actionURL, w.Code)
	}
	view, err := p.sse.waitForPatch(seen)
	if err != nil {
		return fmt.Errorf("action %s: %w", actionURL, err)
	}
	p.html = view
	return nil
}

// AssertText asserts the page's visible text contains text.
func (p *Page) AssertText(t testing.TB, text string) {
	t.Helper()
	if !strings.Contains(p.Text(), text) {
		t.Fatalf("expected page to contain %q, html:\n%s", text, p.html)
	}
}

// AssertNoText asserts the page's visible text does not contain text.
func (p *Page) AssertNoText(t testing.TB, text string) {
	t.Helper()
	if strings.Contains(p.Text(), text) {
		t.Fatalf("expected page not to contain %q, html:\n%s", text, p.html)
	}
}

// Close closes the page's SSE connection.
func (p *Page) Close() {
	if p.sse != nil {
		p.sse.Close()
	}
}

func extractTabID(doc string) string {
	m := tabIDRe.FindStringSubmatch(html.UnescapeString(doc))
	if m == nil {
		return ""
	}
	return m[1]
}

func clickURL(attrs string) string {
	m := clickAttrRe.FindStringSubmatch(attrs)
	if m == nil {
		return ""
	}
	return m[1]
}

func visibleText(markup string) string {
	text := stripTagsRe.ReplaceAllString(markup, " ")
	text = html.UnescapeString(text)
	return strings.TrimSpace(spaceRe.ReplaceAllString(text, " "))
}

func signalsQuery(tabID string) string {
	return "datastar=" + url.QueryEscape(`{"via-c":"`+tabID+`"}`)
}

// Tester performs plain requests against a via app.
type Tester struct {
	handler http.Handler
}

// New creates a new Tester for the given Via HTTPServeMux.
func New(handler http.Handler) *Tester {
	return &Tester{handler: handler}
}

// Response wraps an HTTP response with Via-specific helpers.
type Response struct {
	*httptest.ResponseRecorder
}

// Get performs a GET request to the given path.
func (t *Tester) Get(path string) *Response {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	t.handler.ServeHTTP(w, req)
	return &Response{ResponseRecorder: w}
}

// TabID returns the via tab id embedded in the response, if any.
func (r *Response) TabID() string {
	return extractTabID(r.Body.String())
}

// AssertStatus asserts the response status code.
func (r *Response) AssertStatus(t testing.TB, expected int) {
	t.Helper()
	if r.Code != expected {
		t.Fatalf("expected status %d, got %d", expected, r.Code)
	}
}

// AssertContains asserts the response body contains the given text.
func (r *Response) AssertContains(t testing.TB, text string) {
	t.Helper()
	if !strings.Contains(r.Body.String(), text) {
		t.Fatalf("expected body to contain %q, body:\n%s", text, r.Body.String())
	}
}

// syncedResponseWriter wraps httptest.ResponseRecorder with synchronized access
type syncedResponseWriter struct {
	*httptest.ResponseRecorder
	mu sync.Mutex
}

func (w *syncedResponseWriter) Write(b []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.ResponseRecorder.Write(b)
}

func (w *syncedResponseWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.ResponseRecorder.Flush()
}

func (w *syncedResponseWriter) safeBodyString() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.ResponseRecorder.Body.String()
}

// SSE is an open event stream of one tab.
type SSE struct {
	recorder *syncedResponseWriter
	cancel   context.CancelFunc
	done     chan struct{}
}

func connect(handler http.Handler, tabID string) *SSE {
	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/_sse?"+signalsQuery(tabID), nil).WithContext(ctx)
	req.Header.Set("Accept", "text/event-stream")

	s := &SSE{
		recorder: &syncedResponseWriter{ResponseRecorder: httptest.NewRecorder()},
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	go func() {
		defer close(s.done)
		handler.ServeHTTP(s.recorder, req)
	}()
	return s
}

// Patches returns the markup of every element patch received so far.
func (s *SSE) Patches() []string {
	return parseElementPatches(s.recorder.safeBodyString())
}

// Events returns the raw events received so far.
func (s *SSE) Events() []string {
	body := strings.TrimSpace(s.recorder.safeBodyString())
	if body == "" {
		return nil
	}
	return strings.Split(body, "\n\n")
}

func (s *SSE) patchCount() int {
	return len(s.Patches())
}

// waitForPatch waits until more than seen element patches arrived and
// returns the newest.
func (s *SSE) waitForPatch(seen int) (string, error) {
	deadline := time.Now().Add(PatchTimeout)
	for {
		if patches := s.Patches(); len(patches) > seen {
			return patches[len(patches)-1], nil
		}
		if time.Now().After(deadline) {
			return "", fmt.Errorf("no view patch within %s", PatchTimeout)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// Close closes the SSE connection and waits for the handler to return.
func (s *SSE) Close() {
	s.cancel()
	<-s.done
}

// parseElementPatches returns the views pushed on the stream. Patches aimed
// at a selector, such as executed scripts appended to the body, are skipped.
func parseElementPatches(body string) []string {
	var patches []string
	for _, event := range strings.Split(body, "\n\n") {
		isPatch := false
		var markup []string
		for _, line := range strings.Split(strings.TrimSpace(event), "\n") {
			if line == "event: datastar-patch-elements" {
				isPatch = true
			}
			if strings.HasPrefix(line, "data: selector ") {
				isPatch = false
				break
			}
			if data, ok := strings.CutPrefix(line, "data: elements "); ok {
				markup = append(markup, data)
			}
		}
		if isPatch {
			patches = append(patches, strings.Join(markup, "\n"))
		}
	}
	return patches
}
