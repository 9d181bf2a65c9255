package ui

import "testing"

func TestControlDisableRestores(t *testing.T) {
	ctl := NewControl("Get location")

	restore := ctl.Disable("Locating...")
	if ctl.Enabled || ctl.Label != "Locating..." {
		t.Fatalf("expected busy control, got %+v", ctl)
	}

	restore()
	restore()
	if !ctl.Enabled || ctl.Label != "Get location" {
		t.Fatalf("expected restored control, got %+v", ctl)
	}
}

func TestControlDisableKeepsLabelWhenPendingEmpty(t *testing.T) {
	ctl := NewControl("Refresh")
	restore := ctl.Disable("")
	if ctl.Label != "Refresh" || !ctl.Busy() {
		t.Fatalf("unexpected control %+v", ctl)
	}
	restore()
}

func TestStatusTransitions(t *testing.T) {
	var s Status
	s.Pending("Finding nearest driver...")
	if s.Class != ClassNone {
		t.Fatalf("expected neutral class, got %q", s.Class)
	}
	s.Fail("Something went wrong.")
	if s.Class != ClassError {
		t.Fatalf("expected error class, got %q", s.Class)
	}
	s.Success("Ride created successfully!")
	if s != (Status{Text: "Ride created successfully!", Class: ClassSuccess}) {
		t.Fatalf("unexpected success status %+v", s)
	}
}

func TestPanelShowHide(t *testing.T) {
	p := HiddenPanel[string]()
	p.Show("content")
	if p.Hidden || p.Content == nil || *p.Content != "content" {
		t.Fatalf("unexpected panel %+v", p)
	}
	p.Hide()
	if !p.Hidden || p.Content != nil {
		t.Fatalf("expected hidden empty panel, got %+v", p)
	}
}

func TestAlertsAck(t *testing.T) {
	var a Alerts
	first := a.Push("Ride completed!")
	second := a.Push("Network error: boom")

	if !a.Ack(second.ID) {
		t.Fatal("expected ack by id")
	}
	if a.Ack("missing") {
		t.Fatal("expected unknown id to be ignored")
	}
	if got := a.Items(); len(got) != 1 || got[0].ID != first.ID {
		t.Fatalf("unexpected queue %+v", got)
	}
	if !a.Ack("") || len(a.Items()) != 0 {
		t.Fatal("expected oldest acked")
	}
	if a.Ack("") {
		t.Fatal("expected empty queue ack to report false")
	}
}
