package machine

import (
	"os"
	"testing"
	"time"
)

func TestLoadBootAndStep(t *testing.T) {
	m := New(nil)
	defer m.Clk.Stop()
	m.Reset()
	// CLR R0; HALT
	m.LoadBoot(0o1000, []uint16{0o005000, 0o000000})
	m.Reset()

	m.CPU.R[0] = 0o177777
	m.Step()
	if m.CPU.R[0] != 0 {
		t.Fatalf("R0 = %o, want 0 after CLR", m.CPU.R[0])
	}
	m.Step()
	if !m.CPU.Halted() {
		t.Fatal("expected CPU halted after HALT")
	}
}

func TestStartStopRunsInBackground(t *testing.T) {
	m := New(nil)
	defer m.Clk.Stop()
	// An infinite loop: BR .-0 (branch to self) so Start never halts on
	// its own; Stop must still terminate the goroutine.
	m.LoadBoot(0o1000, []uint16{0o000777})
	m.Reset()

	m.Start()
	if !m.Running() {
		t.Fatal("expected Running() true right after Start")
	}
	time.Sleep(10 * time.Millisecond)
	m.Stop()
	if m.Running() {
		t.Fatal("expected Running() false after Stop")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	m := New(nil)
	defer m.Clk.Stop()
	m.LoadBoot(0o1000, []uint16{0o012700, 0o123456}) // MOV #123456, R0
	m.Reset()
	m.Step()
	if m.CPU.R[0] != 0o123456 {
		t.Fatalf("R0 = %o, want 123456", m.CPU.R[0])
	}

	path := t.TempDir() + "/snap.bin"
	if err := m.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	m2 := New(nil)
	defer m2.Clk.Stop()
	if err := m2.Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m2.CPU.R[0] != 0o123456 {
		t.Errorf("restored R0 = %o, want 123456", m2.CPU.R[0])
	}
	if m2.CPU.R[7] != m.CPU.R[7] {
		t.Errorf("restored PC = %o, want %o", m2.CPU.R[7], m.CPU.R[7])
	}
	os.Remove(path)
}
