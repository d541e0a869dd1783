package parser

import (
	"strings"
	"testing"

	"pdp11/machine"
)

func TestMatchCommandUniquePrefix(t *testing.T) {
	c := cmd{name: "boot", min: 4}
	if !matchCommand(c, "boot") {
		t.Error("exact name should match")
	}
	if matchCommand(c, "boo") {
		t.Error("prefix shorter than min should not match")
	}
}

func TestMatchCommandShortMinPrefix(t *testing.T) {
	c := cmd{name: "quit", min: 1}
	if !matchCommand(c, "q") {
		t.Error("single-letter prefix should match when min=1")
	}
}

func TestProcessCommandUnknown(t *testing.T) {
	m := newTestMachine(t)
	if _, err := ProcessCommand("frobnicate", m); err == nil {
		t.Fatal("expected error for unknown command")
	}
}

func TestProcessCommandBlankLine(t *testing.T) {
	m := newTestMachine(t)
	quit, err := ProcessCommand("   ", m)
	if err != nil || quit {
		t.Fatalf("blank line should be a no-op, got quit=%v err=%v", quit, err)
	}
}

func TestExamineAndDeposit(t *testing.T) {
	m := newTestMachine(t)
	if _, err := ProcessCommand("deposit 1000 012345", m); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	v, tr := m.Bus.ReadWord(0o1000)
	if tr != nil || v != 0o12345 {
		t.Fatalf("ReadWord(1000) = %o, %v", v, tr)
	}
	if _, err := ProcessCommand("examine 1000", m); err != nil {
		t.Fatalf("examine: %v", err)
	}
}

func TestQuitRequestsExit(t *testing.T) {
	m := newTestMachine(t)
	quit, err := ProcessCommand("quit", m)
	if err != nil {
		t.Fatalf("quit: %v", err)
	}
	if !quit {
		t.Fatal("expected quit=true")
	}
}

func TestCompleteCmdFiltersByPrefix(t *testing.T) {
	matches := CompleteCmd("st")
	found := map[string]bool{}
	for _, m := range matches {
		found[m] = true
	}
	if !found["stop"] || !found["step"] {
		t.Errorf("CompleteCmd(%q) = %v, want stop and step", "st", matches)
	}
}

func newTestMachine(t *testing.T) *machine.Machine {
	t.Helper()
	m := machine.New(nil)
	t.Cleanup(func() { m.Clk.Stop() })
	m.Reset()
	return m
}

func TestParseAddrRejectsEmpty(t *testing.T) {
	if _, err := parseAddr(""); err == nil {
		t.Fatal("expected error for empty address")
	}
	if _, err := parseAddr(strings.TrimSpace(" ")); err == nil {
		t.Fatal("expected error for blank address")
	}
}
