package h

import gh "maragu.dev/gomponents/html"

func Href(v string) H {
	return gh.Href(v)
}

func Type(v string) H {
	return gh.Type(v)
}

func Src(v string) H {
	return gh.Src(v)
}

func ID(v string) H {
	return gh.ID(v)
}

func Rel(v string) H {
	return gh.Rel(v)
}

func Class(v string) H {
	return gh.Class(v)
}

func Style(v string) H {
	return gh.Style(v)
}

func Checked() H {
	return gh.Checked()
}

// Data attributes automatically have their name prefixed with "data-".
func Data(name, v string) H {
	return gh.Data(name, v)
}

// TestID sets data-testid, the hook vtest uses to find elements.
func TestID(v string) H {
	return gh.Data("testid", v)
}

func Aria(name, v string) H {
	return gh.Aria(name, v)
}

func AriaLabel(v string) H {
	return gh.Aria("label", v)
}
