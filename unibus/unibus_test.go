package unibus

import (
	"testing"

	"pdp11/memory"
)

func TestReadWriteWordRAM(t *testing.T) {
	b := New(memory.New())
	if tr := b.WriteWord(0o1000, 0o123456); tr != nil {
		t.Fatalf("write: %v", tr)
	}
	v, tr := b.ReadWord(0o1000)
	if tr != nil || v != 0o123456 {
		t.Fatalf("ReadWord = %o, %v", v, tr)
	}
}

func TestReadWriteWordOddAddressTraps(t *testing.T) {
	b := New(memory.New())
	if _, tr := b.ReadWord(0o1001); tr == nil {
		t.Fatal("expected bus error trap on odd address read")
	}
	if tr := b.WriteWord(0o1001, 0); tr == nil {
		t.Fatal("expected bus error trap on odd address write")
	}
}

func TestUnmappedIOPageAddressTraps(t *testing.T) {
	b := New(memory.New())
	if _, tr := b.ReadWord(memory.IOPageBase); tr == nil {
		t.Fatal("expected bus error trap on unmapped IO page address")
	}
}

func TestMapDispatchesToRegister(t *testing.T) {
	b := New(memory.New())
	var stored uint16
	b.Map(Register{
		Addr:  memory.IOPageBase,
		Read:  func() uint16 { return stored },
		Write: func(v uint16) { stored = v },
	})
	if tr := b.WriteWord(memory.IOPageBase, 0o777); tr != nil {
		t.Fatalf("write: %v", tr)
	}
	if stored != 0o777 {
		t.Fatalf("stored = %o, want 777", stored)
	}
	v, tr := b.ReadWord(memory.IOPageBase)
	if tr != nil || v != 0o777 {
		t.Fatalf("ReadWord = %o, %v", v, tr)
	}
}

func TestMapDuplicatePanics(t *testing.T) {
	b := New(memory.New())
	reg := Register{Addr: memory.IOPageBase, Read: func() uint16 { return 0 }, Write: func(uint16) {}}
	b.Map(reg)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on duplicate register mapping")
		}
	}()
	b.Map(reg)
}

func TestUnmapRemovesRegister(t *testing.T) {
	b := New(memory.New())
	b.Map(Register{Addr: memory.IOPageBase, Read: func() uint16 { return 1 }, Write: func(uint16) {}})
	b.Unmap(memory.IOPageBase)
	if _, tr := b.ReadWord(memory.IOPageBase); tr == nil {
		t.Fatal("expected bus error after unmap")
	}
}

func TestByteAccessPromotesToWordInRegister(t *testing.T) {
	b := New(memory.New())
	var stored uint16
	b.Map(Register{
		Addr:  memory.IOPageBase,
		Read:  func() uint16 { return stored },
		Write: func(v uint16) { stored = v },
	})
	if tr := b.WriteByte(memory.IOPageBase, 0x34); tr != nil {
		t.Fatalf("write low byte: %v", tr)
	}
	if stored != 0x0034 {
		t.Fatalf("stored = %#o, want low byte set only", stored)
	}
	if tr := b.WriteByte(memory.IOPageBase+1, 0x12); tr != nil {
		t.Fatalf("write high byte: %v", tr)
	}
	if stored != 0x1234 {
		t.Fatalf("stored = %#x, want 0x1234", stored)
	}
	lo, tr := b.ReadByte(memory.IOPageBase)
	if tr != nil || lo != 0x34 {
		t.Fatalf("ReadByte(low) = %#x, %v", lo, tr)
	}
	hi, tr := b.ReadByte(memory.IOPageBase + 1)
	if tr != nil || hi != 0x12 {
		t.Fatalf("ReadByte(high) = %#x, %v", hi, tr)
	}
}

func TestByteAccessRAM(t *testing.T) {
	b := New(memory.New())
	if tr := b.WriteByte(0o1000, 0xab); tr != nil {
		t.Fatalf("write: %v", tr)
	}
	v, tr := b.ReadByte(0o1000)
	if tr != nil || v != 0xab {
		t.Fatalf("ReadByte = %#x, %v", v, tr)
	}
}
