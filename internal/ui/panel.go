package ui

// Panel is a region that is either hidden or shows typed content.
type Panel[T any] struct {
	Hidden  bool `json:"hidden"`
	Content *T   `json:"content"`
}

// HiddenPanel returns an empty, hidden panel.
func HiddenPanel[T any]() Panel[T] {
	return Panel[T]{Hidden: true}
}

// Show replaces the content and makes the panel visible.
func (p *Panel[T]) Show(content T) {
	p.Content = &content
	p.Hidden = false
}

// Hide empties the panel.
func (p *Panel[T]) Hide() {
	p.Content = nil
	p.Hidden = true
}
