package config

import (
	"strings"
	"testing"
)

func TestParseBasic(t *testing.T) {
	src := `
# sample machine configuration
rk0 /tmp/rk0.dsk ro
boot 173000
clock 60
debug mmu
debug bus
`
	cfg, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.RK0Path != "/tmp/rk0.dsk" {
		t.Errorf("RK0Path = %q", cfg.RK0Path)
	}
	if !cfg.RK0ReadOnly {
		t.Errorf("expected RK0ReadOnly")
	}
	if cfg.BootAddr != 0o173000 {
		t.Errorf("BootAddr = %o", cfg.BootAddr)
	}
	if cfg.ClockHz != 60 {
		t.Errorf("ClockHz = %d", cfg.ClockHz)
	}
	if len(cfg.Debug) != 2 || cfg.Debug[0] != "mmu" || cfg.Debug[1] != "bus" {
		t.Errorf("Debug = %v", cfg.Debug)
	}
}

func TestParseCommentsAndBlankLines(t *testing.T) {
	src := "\n# nothing here\n   \nclock 0\n"
	cfg, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.ClockHz != 0 {
		t.Errorf("ClockHz = %d, want 0", cfg.ClockHz)
	}
}

func TestParseUnknownDirective(t *testing.T) {
	if _, err := Parse(strings.NewReader("frobnicate 1 2 3\n")); err == nil {
		t.Fatal("expected error for unknown directive")
	}
}

func TestParseMissingArgs(t *testing.T) {
	cases := []string{"rk0\n", "boot\n", "clock\n"}
	for _, src := range cases {
		if _, err := Parse(strings.NewReader(src)); err == nil {
			t.Errorf("Parse(%q): expected error", src)
		}
	}
}
