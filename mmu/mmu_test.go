package mmu

import "testing"

func TestDisabledPassthroughRedirectsIOPage(t *testing.T) {
	m := New()
	phys, abort := m.Translate(0o170000, Kernel, Read)
	if abort != nil {
		t.Fatalf("unexpected abort: %+v", abort)
	}
	if phys != 0o770000 {
		t.Errorf("phys = %o, want 770000", phys)
	}
}

func TestDisabledPassthroughBelowIOPage(t *testing.T) {
	m := New()
	phys, abort := m.Translate(0o001000, Kernel, Read)
	if abort != nil {
		t.Fatalf("unexpected abort: %+v", abort)
	}
	if phys != 0o001000 {
		t.Errorf("phys = %o, want 001000", phys)
	}
}

func TestNonResidentPageAborts(t *testing.T) {
	m := New()
	m.SR0 = sr0Enable
	// PDR left at zero: ACF = acfNone
	_, abort := m.Translate(0, Kernel, Read)
	if abort == nil || !abort.NonResident {
		t.Fatalf("expected non-resident abort, got %+v", abort)
	}
}

func TestReadOnlyPageAbortsOnWrite(t *testing.T) {
	m := New()
	m.SR0 = sr0Enable
	m.PDR[Kernel][0] = acfReadOnly << pdrACFShift
	m.PDR[Kernel][0] |= pdrPLFMask << pdrPLFShift // max length, expand-up
	m.PAR[Kernel][0] = 0

	if _, abort := m.Translate(0, Kernel, Read); abort != nil {
		t.Fatalf("unexpected abort on read: %+v", abort)
	}
	_, abort := m.Translate(0, Kernel, Write)
	if abort == nil || !abort.ReadOnly {
		t.Fatalf("expected read-only abort, got %+v", abort)
	}
}

func TestTranslateAppliesPageAddressRegister(t *testing.T) {
	m := New()
	m.SR0 = sr0Enable
	m.PDR[Kernel][0] = acfReadWrite<<pdrACFShift | pdrPLFMask<<pdrPLFShift
	m.PAR[Kernel][0] = 0o17 // block number, shifted left 6 bits (64-byte blocks)

	phys, abort := m.Translate(0o100, Kernel, Read)
	if abort != nil {
		t.Fatalf("unexpected abort: %+v", abort)
	}
	want := uint32(0o17<<6) + 0o100
	if phys != want {
		t.Errorf("phys = %o, want %o", phys, want)
	}
}

func TestPageLengthViolationExpandUp(t *testing.T) {
	m := New()
	m.SR0 = sr0Enable
	m.PDR[Kernel][0] = acfReadWrite<<pdrACFShift | 0<<pdrPLFShift // PLF=0: only block 0 valid
	m.PAR[Kernel][0] = 0

	if _, abort := m.Translate(0, Kernel, Read); abort != nil {
		t.Fatalf("block 0 should be valid, got abort %+v", abort)
	}
	_, abort := m.Translate(0o100, Kernel, Read) // block 1
	if abort == nil || !abort.PageLength {
		t.Fatalf("expected page-length abort, got %+v", abort)
	}
}

func TestWrittenBitSetOnSuccessfulWrite(t *testing.T) {
	m := New()
	m.SR0 = sr0Enable
	m.PDR[User][2] = acfReadWrite<<pdrACFShift | pdrPLFMask<<pdrPLFShift
	if m.Written(User, 2) {
		t.Fatal("W bit should start clear")
	}
	virt := uint16(2 << pageShift)
	if _, abort := m.Translate(virt, User, Write); abort != nil {
		t.Fatalf("unexpected abort: %+v", abort)
	}
	if !m.Written(User, 2) {
		t.Fatal("W bit should be set after a successful write")
	}
}

func TestResetDisablesButKeepsPageRegisters(t *testing.T) {
	m := New()
	m.SR0 = sr0Enable
	m.PAR[Kernel][0] = 0o123
	m.Reset()
	if m.Enabled() {
		t.Fatal("Reset must disable relocation")
	}
	if m.PAR[Kernel][0] != 0o123 {
		t.Fatal("Reset must not clear page registers")
	}
}
