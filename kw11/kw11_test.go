package kw11

import (
	"testing"
	"time"

	"pdp11/intr"
	"pdp11/memory"
	"pdp11/unibus"
)

func TestTickSetsStatusAndPostsInterruptWhenEnabled(t *testing.T) {
	mem := memory.New()
	bus := unibus.New(mem)
	ic := intr.New()
	k := New(bus, ic, time.Millisecond)
	defer k.Stop()

	k.WriteCSR(csrIE)

	deadline := time.After(time.Second)
	for {
		if ic.Any() {
			break
		}
		select {
		case <-deadline:
			t.Fatal("timed out waiting for clock interrupt")
		case <-time.After(time.Millisecond):
		}
	}

	if k.ReadCSR()&(1<<7) == 0 {
		t.Error("expected tick flag set in CSR")
	}
}

func TestWriteCSRCancelsInterruptWhenDisabled(t *testing.T) {
	mem := memory.New()
	bus := unibus.New(mem)
	ic := intr.New()
	k := New(bus, ic, time.Millisecond)
	defer k.Stop()

	k.WriteCSR(csrIE)
	time.Sleep(20 * time.Millisecond)
	k.WriteCSR(0)
	if ic.Any() {
		t.Error("expected clock interrupt cancelled once IE is cleared")
	}
}
