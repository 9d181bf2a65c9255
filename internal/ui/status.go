// Package ui holds the view-state primitives the console paints into:
// status regions, buttons, panels and the blocking notification queue.
package ui

// Class is the visual state of a status region.
type Class string

const (
	ClassNone    Class = ""
	ClassSuccess Class = "success"
	ClassError   Class = "error"
)

// Status is an inline status text region.
type Status struct {
	Text  string `json:"text"`
	Class Class  `json:"class"`
}

// Pending shows neutral progress text.
func (s *Status) Pending(text string) {
	s.Text = text
	s.Class = ClassNone
}

func (s *Status) Success(text string) {
	s.Text = text
	s.Class = ClassSuccess
}

func (s *Status) Fail(text string) {
	s.Text = text
	s.Class = ClassError
}
