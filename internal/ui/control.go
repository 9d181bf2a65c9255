package ui

// Control is a button that triggers a network call.
type Control struct {
	Label   string `json:"label"`
	Enabled bool   `json:"enabled"`
	idle    string
}

// NewControl returns an enabled control showing label.
func NewControl(label string) Control {
	return Control{Label: label, Enabled: true, idle: label}
}

// Disable marks the control busy and returns the function that restores it.
// An empty pending label keeps the idle label. The returned function is
// safe to call more than once.
func (c *Control) Disable(pending string) (restore func()) {
	c.Enabled = false
	if pending != "" {
		c.Label = pending
	}
	done := false
	return func() {
		if done {
			return
		}
		done = true
		c.Enabled = true
		c.Label = c.idle
	}
}

// Busy reports whether a call is in flight.
func (c *Control) Busy() bool { return !c.Enabled }
