// Package h is the HTML DSL used by views. It wraps gomponents so that views
// import a single package.
package h

import (
	"io"

	g "maragu.dev/gomponents"
	gc "maragu.dev/gomponents/components"
)

// H is a renderable HTML node or attribute.
type H interface {
	Render(w io.Writer) error
}

// Text is HTML-escaped text.
func Text(s string) H {
	return g.Text(s)
}

// Textf is HTML-escaped formatted text.
func Textf(format string, a ...any) H {
	return g.Textf(format, a...)
}

// Raw is unescaped HTML.
func Raw(s string) H {
	return g.Raw(s)
}

// Attr is an arbitrary attribute. With no value it renders as a boolean attribute.
func Attr(name string, value ...string) H {
	return g.Attr(name, value...)
}

// If returns n when condition holds, nil otherwise. Nil children render nothing.
func If(condition bool, n H) H {
	if !condition {
		return nil
	}
	return n
}

// Group renders nodes side by side without a wrapping element.
func Group(nodes ...H) H {
	list := make(g.Group, 0, len(nodes))
	for _, n := range nodes {
		if gn, ok := n.(g.Node); ok {
			list = append(list, gn)
		}
	}
	return list
}

type HTML5Props struct {
	Title    string
	Language string
	Head     []H
	Body     []H
}

// HTML5 is a complete document with doctype.
func HTML5(p HTML5Props) H {
	return gc.HTML5(gc.HTML5Props{
		Title:    p.Title,
		Language: p.Language,
		Head:     retype(p.Head),
		Body:     retype(p.Body),
	})
}
