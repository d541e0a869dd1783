package debug

import "testing"

func TestEnabledIsCaseInsensitiveAndOptIn(t *testing.T) {
	if Enabled("mmu") {
		t.Fatal("nothing should be enabled by default")
	}
	Enable("MMU")
	if !Enabled("mmu") {
		t.Fatal("expected mmu enabled regardless of case")
	}
	if Enabled("rk05") {
		t.Fatal("enabling mmu must not enable unrelated modules")
	}
}

func TestLogfNoopsWhenDisabled(t *testing.T) {
	// Logf must not panic even with format args when the module is off.
	Logf("unused-module", "value=%d", 42)
}
