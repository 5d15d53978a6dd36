package via

import (
	"fmt"

	"github.com/starfederation/datastar-go/datastar"
)

type patchType uint8

const (
	patchTypeElements patchType = iota
	patchTypeScript
)

type patch struct {
	typ     patchType
	content string
}

func (p patch) send(sse *datastar.ServerSentEventGenerator) error {
	switch p.typ {
	case patchTypeElements:
		return sse.PatchElements(p.content)
	case patchTypeScript:
		return sse.ExecuteScript(p.content)
	default:
		return fmt.Errorf("unknown patch type %d", p.typ)
	}
}

// ExecScript runs s in the tab's browser.
func (s *Session) ExecScript(script string) {
	if script == "" || s.ss == nil {
		return
	}
	select {
	case s.ss.patchChan <- patch{patchTypeScript, script}:
	default:
	}
}
