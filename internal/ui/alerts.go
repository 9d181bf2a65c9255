package ui

import (
	"github.com/google/uuid"
)

// Alert is a blocking notification the user must acknowledge.
type Alert struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// Alerts is a FIFO of unacknowledged notifications.
type Alerts struct {
	items []Alert
}

// Push enqueues message and returns the created alert.
func (a *Alerts) Push(message string) Alert {
	alert := Alert{ID: uuid.NewString(), Message: message}
	a.items = append(a.items, alert)
	return alert
}

// Ack removes the alert with id, or the oldest alert when id is empty.
// It reports whether anything was removed.
func (a *Alerts) Ack(id string) bool {
	if len(a.items) == 0 {
		return false
	}
	if id == "" {
		a.items = a.items[1:]
		return true
	}
	for i, alert := range a.items {
		if alert.ID == id {
			a.items = append(a.items[:i], a.items[i+1:]...)
			return true
		}
	}
	return false
}

// Items returns a copy of the queue, oldest first.
func (a *Alerts) Items() []Alert {
	out := make([]Alert, len(a.items))
	copy(out, a.items)
	return out
}
