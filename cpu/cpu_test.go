package cpu

import (
	"testing"

	"pdp11/intr"
	"pdp11/memory"
	"pdp11/mmu"
	"pdp11/trap"
	"pdp11/unibus"
)

func newTestCPU() *CPU {
	mem := memory.New()
	bus := unibus.New(mem)
	mm := mmu.New()
	ic := intr.New()
	return New(bus, mm, ic)
}

func load(c *CPU, addr uint16, words ...uint16) {
	for i, w := range words {
		c.Bus.WriteWord(uint32(addr)+uint32(i*2), w)
	}
}

func TestResetStartsInKernelMode(t *testing.T) {
	c := newTestCPU()
	c.BootPC = 0o1000
	c.Reset()
	if c.CurMode() != ModeKernel {
		t.Errorf("CurMode() = %d, want kernel", c.CurMode())
	}
	if c.R[7] != 0o1000 {
		t.Errorf("R[7] = %o, want 1000", c.R[7])
	}
}

func TestMOVRegToReg(t *testing.T) {
	c := newTestCPU()
	c.Reset()
	// MOV R1, R2
	load(c, 0, 0o010102)
	c.R[1] = 0o123456
	c.Step()
	if c.R[2] != 0o123456 {
		t.Errorf("R2 = %o, want 123456", c.R[2])
	}
	if c.PSW&FlagZ != 0 {
		t.Errorf("Z flag set for nonzero move")
	}
}

func TestMOVSetsZeroFlag(t *testing.T) {
	c := newTestCPU()
	c.Reset()
	load(c, 0, 0o010102) // MOV R1, R2
	c.R[1] = 0
	c.Step()
	if c.PSW&FlagZ == 0 {
		t.Errorf("expected Z flag set")
	}
}

func TestADDSetsCarryOnOverflow(t *testing.T) {
	c := newTestCPU()
	c.Reset()
	// ADD R1, R2
	load(c, 0, 0o060102)
	c.R[1] = 1
	c.R[2] = 0xffff
	c.Step()
	if c.R[2] != 0 {
		t.Errorf("R2 = %o, want 0", c.R[2])
	}
	if c.PSW&FlagC == 0 {
		t.Errorf("expected carry out of ADD")
	}
	if c.PSW&FlagZ == 0 {
		t.Errorf("expected zero result")
	}
}

func TestCLRClearsRegisterAndSetsZ(t *testing.T) {
	c := newTestCPU()
	c.Reset()
	load(c, 0, 0o005001) // CLR R1
	c.R[1] = 0o177777
	c.Step()
	if c.R[1] != 0 {
		t.Errorf("R1 = %o, want 0", c.R[1])
	}
	if c.PSW&FlagZ == 0 {
		t.Errorf("expected Z flag set")
	}
	if c.PSW&(FlagN|FlagV|FlagC) != 0 {
		t.Errorf("expected N,V,C clear, PSW=%o", c.PSW)
	}
}

func TestBranchTaken(t *testing.T) {
	c := newTestCPU()
	c.Reset()
	// CLR R0 (sets Z); BEQ 2 (skips the two-word MOV below); MOV #1,R0
	load(c, 0,
		0o005000,           // CLR R0
		0o001402,           // BEQ 2  -> PC += 2*2
		0o012700, 0o000001, // MOV #1, R0  (should be skipped)
	)
	c.Step() // CLR R0
	c.Step() // BEQ, taken
	if c.R[7] != 8 {
		t.Errorf("PC = %o, want 10 octal (branch should have skipped the MOV)", c.R[7])
	}
	if c.R[0] != 0 {
		t.Errorf("R0 = %o, want 0 (MOV must not have executed)", c.R[0])
	}
}

func TestJSRandRTS(t *testing.T) {
	c := newTestCPU()
	c.Reset()
	c.R[6] = 0o1000 // SP
	// JSR R5, @#100 ; at 100: RTS R5
	load(c, 0, 0o004537, 0o000100)
	load(c, 0o100, 0o000205) // RTS R5
	c.Step()                 // JSR
	if c.R[7] != 0o100 {
		t.Errorf("PC after JSR = %o, want 100", c.R[7])
	}
	c.Step() // RTS R5
	if c.R[7] != 4 {
		t.Errorf("PC after RTS = %o, want 4", c.R[7])
	}
}

func TestHaltInKernelMode(t *testing.T) {
	c := newTestCPU()
	c.Reset()
	load(c, 0, 0o000000) // HALT
	c.Step()
	if !c.Halted() {
		t.Errorf("expected CPU halted after HALT in kernel mode")
	}
}

func TestWaitSuspendsUntilInterrupt(t *testing.T) {
	c := newTestCPU()
	c.Reset()
	load(c, 0, 0o000001) // WAIT
	c.Step()
	if !c.Waiting() {
		t.Fatal("expected CPU waiting after WAIT")
	}
	c.Step() // no interrupt pending: should remain waiting, PC unchanged
	if c.R[7] != 2 {
		t.Errorf("PC = %o, want 2 (unchanged while waiting)", c.R[7])
	}
}

func TestMOVBSignExtendsIntoRegister(t *testing.T) {
	c := newTestCPU()
	c.Reset()
	// MOVB #377, R0  (immediate byte 0xff, sign-extends into R0)
	load(c, 0, 0o112700, 0o000377)
	c.Step()
	if c.R[0] != 0o177777 {
		t.Errorf("R0 = %o, want 177777 (sign-extended -1)", c.R[0])
	}
}

func TestCMPCarryIsBorrow(t *testing.T) {
	c := newTestCPU()
	c.Reset()
	// CMP R1, R2 : src=5, dst=3 -> 5-3, no borrow, C clear.
	load(c, 0, 0o020102)
	c.R[1], c.R[2] = 5, 3
	c.Step()
	if c.PSW&FlagC != 0 {
		t.Errorf("CMP 5,3: C set, want clear (no borrow)")
	}

	c.Reset()
	// CMP R1, R2 : src=3, dst=5 -> 3-5, borrows, C set.
	load(c, 0, 0o020102)
	c.R[1], c.R[2] = 3, 5
	c.Step()
	if c.PSW&FlagC == 0 {
		t.Errorf("CMP 3,5: C clear, want set (borrow)")
	}
}

func TestSUBCarryIsBorrow(t *testing.T) {
	c := newTestCPU()
	c.Reset()
	// SUB R1, R2 : dst -= src; dst=5, src=2 -> 3, no borrow, C clear.
	load(c, 0, 0o160102)
	c.R[1], c.R[2] = 2, 5
	c.Step()
	if c.R[2] != 3 {
		t.Errorf("R2 = %o, want 3", c.R[2])
	}
	if c.PSW&FlagC != 0 {
		t.Errorf("SUB 5-2: C set, want clear (no borrow)")
	}

	c.Reset()
	// SUB R1, R2 : dst=3, src=5 -> borrows, C set.
	load(c, 0, 0o160102)
	c.R[1], c.R[2] = 5, 3
	c.Step()
	if c.PSW&FlagC == 0 {
		t.Errorf("SUB 3-5: C clear, want set (borrow)")
	}
}

func TestSBCCarryIsBorrow(t *testing.T) {
	c := newTestCPU()
	c.Reset()
	// SBC R0, with incoming C set (subtract 1): R0=0 -> 0-1 borrows, C stays set.
	load(c, 0, 0o005600) // SBC R0
	c.R[0] = 0
	c.PSW |= FlagC
	c.Step()
	if c.R[0] != 0xffff {
		t.Errorf("R0 = %o, want 177777", c.R[0])
	}
	if c.PSW&FlagC == 0 {
		t.Errorf("SBC 0-1: C clear, want set (borrow)")
	}

	c.Reset()
	// SBC R0, with incoming C clear (subtract 0): R0=5 -> 5-0, no borrow, C clear.
	load(c, 0, 0o005600)
	c.R[0] = 5
	c.Step()
	if c.PSW&FlagC != 0 {
		t.Errorf("SBC 5-0: C set, want clear (no borrow)")
	}
}

func TestTrapFromKernelModePushesOntoLiveStack(t *testing.T) {
	c := newTestCPU()
	c.Reset()
	c.R[6] = 0o1000 // kernel SP already in use, KSP left stale at 0 by Reset
	load(c, 0, 0o104400)                  // TRAP 0
	load(c, trap.TRAP, 0o2000, 0)         // vector: new PC=2000, new PSW=0
	c.Step()

	if c.R[7] != 0o2000 {
		t.Fatalf("R7 = %o, want 2000 (vectored to new PC)", c.R[7])
	}
	if c.R[6] != 0o1000-4 {
		t.Fatalf("R6 = %o, want %o (two words pushed on the live stack)", c.R[6], uint16(0o1000-4))
	}
	pc, _ := c.Bus.ReadWord(uint32(c.R[6]))
	psw, _ := c.Bus.ReadWord(uint32(c.R[6]) + 2)
	if pc != 2 {
		t.Errorf("pushed PC = %o, want 2 (old PC after TRAP fetch)", pc)
	}
	if psw != 0 {
		t.Errorf("pushed PSW = %o, want 0 (old PSW)", psw)
	}
}

func TestMARKUnwindsFrame(t *testing.T) {
	c := newTestCPU()
	c.Reset()
	c.R[5] = 0o2000 // holds the subroutine's return address
	c.R[7] = 0o500
	load(c, 0o500, 0o006400)   // MARK 0 (no stacked args to discard)
	load(c, 0o502, 0o003000)  // the saved caller R5, sitting right after the instruction
	c.Step()
	if c.R[7] != 0o2000 {
		t.Errorf("PC = %o, want 2000 (jumped through old R5)", c.R[7])
	}
	if c.R[5] != 0o3000 {
		t.Errorf("R5 = %o, want 3000 (popped saved R5)", c.R[5])
	}
	if c.R[6] != 0o504 {
		t.Errorf("R6 = %o, want 504 (new SP past the popped word)", c.R[6])
	}
}
