// Package switchcss is a via plugin that serves the stylesheet for
// widget.Switch and links it from every page.
//
//	v := via.New()
//	v.Config(via.Options{Plugins: []via.Plugin{switchcss.New()}})
package switchcss

import (
	_ "embed"
	"hash/crc32"
	"net/http"
	"strconv"

	"github.com/go-via/toggle/h"
	"github.com/go-via/toggle/via"
)

// Path is where the stylesheet is served.
const Path = "/_plugins/switchcss/switch.css"

//go:embed switch.css
var stylesheet []byte

var etag = `"` + strconv.FormatUint(uint64(crc32.ChecksumIEEE(stylesheet)), 16) + `"`

type plugin struct{}

// New returns the plugin.
func New() via.Plugin {
	return plugin{}
}

func (plugin) Register(v *via.V) {
	v.HandleFunc("GET "+Path, serveStylesheet)
	v.AppendToHead(h.Link(h.Rel("stylesheet"), h.Href(Path)))
}

func serveStylesheet(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Header().Set("ETag", etag)
	_, _ = w.Write(stylesheet)
}
