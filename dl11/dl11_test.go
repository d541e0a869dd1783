package dl11

import (
	"testing"

	"pdp11/intr"
	"pdp11/memory"
	"pdp11/unibus"
)

type fakeTerm struct{ out []byte }

func (f *fakeTerm) WriteByte(b byte) { f.out = append(f.out, b) }

func newTestDL11(t *testing.T) (*DL11, *unibus.Bus, *fakeTerm) {
	t.Helper()
	mem := memory.New()
	bus := unibus.New(mem)
	ic := intr.New()
	term := &fakeTerm{}
	d := New(bus, ic, term)
	return d, bus, term
}

func TestTransmitDeliversByteToTerminal(t *testing.T) {
	d, bus, term := newTestDL11(t)
	bus.WriteWord(XBUF, 'A')
	if len(term.out) != 1 || term.out[0] != 'A' {
		t.Fatalf("term.out = %v, want [A]", term.out)
	}
	xcsr, _ := bus.ReadWord(XCSR)
	if xcsr&csrDone == 0 {
		t.Error("expected transmitter Done after write")
	}
	_ = d
}

func TestPostKeyLoadsIdleReceiverImmediately(t *testing.T) {
	d, bus, _ := newTestDL11(t)
	d.PostKey('x')
	rcsr, _ := bus.ReadWord(RCSR)
	if rcsr&csrDone == 0 {
		t.Fatal("expected receiver Done set immediately")
	}
	rbuf, _ := bus.ReadWord(RBUF)
	if rbuf != 'x' {
		t.Errorf("RBUF = %q, want 'x'", rbuf)
	}
}

func TestPostKeyQueuesWhileReceiverBusy(t *testing.T) {
	d, bus, _ := newTestDL11(t)
	d.PostKey('a')
	d.PostKey('b')

	rbuf, _ := bus.ReadWord(RBUF)
	if rbuf != 'a' {
		t.Fatalf("RBUF = %q, want 'a'", rbuf)
	}

	// The read above acknowledged 'a' and pulled 'b' off the queue; with
	// the queue now empty, further reads keep returning 'b'.
	bus.ReadWord(RBUF)
	rbuf2, _ := bus.ReadWord(RBUF)
	if rbuf2 != 'b' {
		t.Fatalf("RBUF after drain = %q, want 'b'", rbuf2)
	}
}

func TestReceiverInterruptPostedWhenEnabled(t *testing.T) {
	d, bus, _ := newTestDL11(t)
	ic := d.intr
	bus.WriteWord(RCSR, csrIE)
	d.PostKey('z')
	if !ic.Any() {
		t.Fatal("expected a pending receiver interrupt")
	}
}
