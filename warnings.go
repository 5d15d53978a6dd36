package toggle

// Misuse warnings emitted through Config.Warn.
const (
	WarnOnWithoutOnChange = "toggle: an `on` value was supplied without an OnChange handler; " +
		"the toggle is read-only. Set either OnChange or ReadOnly."
	WarnBecameControlled = "toggle: an uncontrolled toggle is becoming controlled; " +
		"keep a toggle controlled or uncontrolled for its whole lifetime."
	WarnBecameUncontrolled = "toggle: a controlled toggle is becoming uncontrolled; " +
		"keep a toggle controlled or uncontrolled for its whole lifetime."
)

// diagnostics holds the history needed to detect misuse across renders.
type diagnostics struct {
	mounted          bool
	wasControlled    bool // mode at the first observation
	lastControlled   bool
	warnedNoOnChange bool
}

func (d *diagnostics) observe(cfg Config, controlled bool) {
	if !d.mounted {
		d.mounted = true
		d.wasControlled = controlled
		d.lastControlled = controlled
	}
	defer func() { d.lastControlled = controlled }()

	if cfg.Production || cfg.Warn == nil {
		return
	}

	if controlled && cfg.OnChange == nil && !cfg.ReadOnly && !d.warnedNoOnChange {
		d.warnedNoOnChange = true
		cfg.Warn("%s", WarnOnWithoutOnChange)
	}

	// only the render that leaves the original mode warns
	if controlled == d.lastControlled || controlled == d.wasControlled {
		return
	}
	if controlled {
		cfg.Warn("%s", WarnBecameControlled)
	} else {
		cfg.Warn("%s", WarnBecameUncontrolled)
	}
}
