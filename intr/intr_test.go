package intr

import "testing"

func TestPostReplacesSameDevice(t *testing.T) {
	c := New()
	c.Post(Request{Vector: 1, BR: 4, Dev: "rk05"})
	c.Post(Request{Vector: 2, BR: 5, Dev: "rk05"})
	pending := c.Pending()
	if len(pending) != 1 {
		t.Fatalf("len(pending) = %d, want 1", len(pending))
	}
	if pending[0].Vector != 2 || pending[0].BR != 5 {
		t.Errorf("pending[0] = %+v, want the replacement request", pending[0])
	}
}

func TestTakeRespectsPriority(t *testing.T) {
	c := New()
	c.Post(Request{Vector: 0o100, BR: 6, Dev: "clock"})
	if _, ok := c.Take(6); ok {
		t.Fatal("BR6 request must not be taken at CPU priority 6")
	}
	req, ok := c.Take(5)
	if !ok {
		t.Fatal("BR6 request should be taken at CPU priority 5")
	}
	if req.Vector != 0o100 {
		t.Errorf("Vector = %o, want 100", req.Vector)
	}
	if c.Any() {
		t.Fatal("queue should be empty after Take")
	}
}

func TestTakeBreaksTiesByLowestVector(t *testing.T) {
	c := New()
	c.Post(Request{Vector: 0o220, BR: 5, Dev: "rk05"})
	c.Post(Request{Vector: 0o060, BR: 5, Dev: "dl11.rx"})
	req, ok := c.Take(0)
	if !ok {
		t.Fatal("expected a request")
	}
	if req.Vector != 0o060 {
		t.Errorf("Vector = %o, want 060 (lowest vector wins the tie)", req.Vector)
	}
}

func TestTakePrefersHigherBR(t *testing.T) {
	c := New()
	c.Post(Request{Vector: 0o220, BR: 5, Dev: "rk05"})
	c.Post(Request{Vector: 0o100, BR: 6, Dev: "clock"})
	req, ok := c.Take(0)
	if !ok {
		t.Fatal("expected a request")
	}
	if req.BR != 6 {
		t.Errorf("BR = %d, want 6 (higher priority wins)", req.BR)
	}
}

func TestCancelRemovesDeviceRequest(t *testing.T) {
	c := New()
	c.Post(Request{Vector: 0o060, BR: 4, Dev: "dl11.rx"})
	c.Cancel("dl11.rx")
	if c.Any() {
		t.Fatal("expected no pending requests after Cancel")
	}
}

func TestSetPendingReplacesQueue(t *testing.T) {
	c := New()
	c.Post(Request{Vector: 1, BR: 4, Dev: "a"})
	c.SetPending([]Request{{Vector: 2, BR: 5, Dev: "b"}})
	pending := c.Pending()
	if len(pending) != 1 || pending[0].Dev != "b" {
		t.Errorf("pending = %+v, want just {b}", pending)
	}
}
