/*
 * pdp11 - CPU: fetch/decode/execute loop, PSW, register banks.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package cpu implements the PDP-11/40 instruction set: fetch/decode,
// addressing modes, condition codes, traps, and interrupt service. It is
// an ordinary struct with pointer-receiver methods (the teacher's device
// context convention, not its package-singleton CPU convention) so that
// the whole machine stays a single value with no module-level mutable
// state.
package cpu

import (
	"time"

	"pdp11/intr"
	"pdp11/mmu"
	"pdp11/trap"
	"pdp11/unibus"
)

// Processor modes. Supervisor mode (01/10) exists on the real KT-11 but
// Unix V6 never uses it.
const (
	ModeKernel = 0
	ModeUser   = 3
)

// PSW field layout.
const (
	pswCurModeShift  = 14
	pswPrevModeShift = 12
	pswModeMask      = 0x3
	pswRegSet        = 1 << 11
	pswPriShift      = 5
	pswPriMask       = 0x7
	pswTBit          = 1 << 4

	FlagN = 1 << 3
	FlagZ = 1 << 2
	FlagV = 1 << 1
	FlagC = 1 << 0
)

// CPU holds the entire PDP-11 register and control state.
type CPU struct {
	R   [8]uint16 // live general registers, R6 is the SP for the current mode, R7 is PC
	Alt [6]uint16 // alternate R0'..R5' bank, swapped in by the PSW register-set bit
	KSP uint16
	USP uint16
	PSW uint16

	Bus  *unibus.Bus
	MMU  *mmu.MMU
	Intr *intr.Controller

	waiting    bool // executing WAIT, suspended until an interrupt is pending
	halted     bool // HALT in kernel mode; resumes only on Reset
	rttInhibit bool // RTT suppresses the T-bit trap for exactly one instruction

	BootPC uint16 // PC loaded by Reset, set by the host control surface
}

// New returns a CPU wired to the given bus, MMU, and interrupt controller.
func New(bus *unibus.Bus, m *mmu.MMU, ic *intr.Controller) *CPU {
	return &CPU{Bus: bus, MMU: m, Intr: ic}
}

// Reset zeros general registers, sets PSW to 0 (kernel mode, priority 0,
// register set 0), disables the MMU, and loads PC from BootPC.
func (c *CPU) Reset() {
	c.R = [8]uint16{}
	c.Alt = [6]uint16{}
	c.KSP = 0
	c.USP = 0
	c.PSW = 0
	c.waiting = false
	c.halted = false
	c.rttInhibit = false
	c.MMU.Reset()
	c.R[7] = c.BootPC
}

// CurMode returns the current processor mode (0 = kernel, 3 = user).
func (c *CPU) CurMode() int {
	return int(c.PSW>>pswCurModeShift) & pswModeMask
}

// PrevMode returns the previous processor mode.
func (c *CPU) PrevMode() int {
	return int(c.PSW>>pswPrevModeShift) & pswModeMask
}

// Priority returns the current processor priority level (0..7).
func (c *CPU) Priority() int {
	return int(c.PSW>>pswPriShift) & pswPriMask
}

// mmuMode maps a PSW mode field (0 or 3) to the MMU's Kernel/User index.
func mmuMode(mode int) int {
	if mode == ModeKernel {
		return mmu.Kernel
	}
	return mmu.User
}

// setMode rewrites the current/previous mode fields of the PSW, banking
// the stack pointer and the register set as required.
func (c *CPU) setMode(newMode int) {
	old := c.CurMode()
	if old != newMode {
		c.bankSP(old)
	}
	c.PSW = (c.PSW &^ (pswModeMask << pswCurModeShift)) | uint16(newMode&pswModeMask)<<pswCurModeShift
	c.loadSP(newMode)
}

// bankSP saves the live R6 into the physical SP register for mode.
func (c *CPU) bankSP(mode int) {
	if mode == ModeKernel {
		c.KSP = c.R[6]
	} else {
		c.USP = c.R[6]
	}
}

// loadSP restores the live R6 from the physical SP register for mode.
func (c *CPU) loadSP(mode int) {
	if mode == ModeKernel {
		c.R[6] = c.KSP
	} else {
		c.R[6] = c.USP
	}
}

// loadPSW replaces the whole PSW, banking/restoring SPs and swapping the
// R0-R5 register set as the mode and register-set-select bits change.
func (c *CPU) loadPSW(newPSW uint16) {
	oldMode := c.CurMode()
	oldSet := c.PSW&pswRegSet != 0
	c.bankSP(oldMode)

	newSet := newPSW&pswRegSet != 0
	if newSet != oldSet {
		for i := 0; i < 6; i++ {
			c.R[i], c.Alt[i] = c.Alt[i], c.R[i]
		}
	}

	c.PSW = newPSW
	c.loadSP(c.CurMode())
}

// Step executes one instruction, services one pending interrupt, or
// returns immediately if the CPU is halted or waiting with nothing
// pending. Interrupts are sampled exactly once, here, at the start of
// the instruction boundary - never mid-instruction.
func (c *CPU) Step() {
	if c.halted {
		return
	}

	if req, ok := c.Intr.Take(c.Priority()); ok {
		c.waiting = false
		c.serviceInterrupt(req)
		return
	}

	if c.waiting {
		return
	}

	c.execute()
}

// Run calls Step in a loop until stop is closed. WAIT never busy-spins
// the host: it sleeps in small increments between pending-interrupt
// checks, per the machine's concurrency model.
func (c *CPU) Run(stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		default:
		}
		if c.waiting && !c.Intr.Any() {
			time.Sleep(200 * time.Microsecond)
			continue
		}
		c.Step()
		if c.halted {
			return
		}
	}
}

// Halted reports whether the CPU is stopped on a kernel-mode HALT.
func (c *CPU) Halted() bool {
	return c.halted
}

// Waiting reports whether the CPU is suspended in WAIT.
func (c *CPU) Waiting() bool {
	return c.waiting
}

// SetRunState forces the halted/waiting flags, used only by snapshot
// restore.
func (c *CPU) SetRunState(halted, waiting bool) {
	c.halted = halted
	c.waiting = waiting
}

// fetchWord fetches the next instruction-stream word at R7, through the
// MMU in the current mode, and advances R7 by 2. Used both for the
// opcode word and for in-line operands (immediate, absolute, index).
func (c *CPU) fetchWord() (uint16, *trap.Trap) {
	pc := c.R[7]
	if pc&1 != 0 {
		return 0, trap.New(trap.BusError)
	}
	word, tr := c.readWordMode(pc, c.CurMode())
	if tr != nil {
		return 0, tr
	}
	c.R[7] = pc + 2
	return word, nil
}

func (c *CPU) translate(virt uint16, mode int, acc mmu.Access) (uint32, *trap.Trap) {
	phys, abort := c.MMU.Translate(virt, mmuMode(mode), acc)
	if abort != nil {
		return 0, trap.New(trap.MMU)
	}
	return phys, nil
}

func (c *CPU) readWordMode(virt uint16, mode int) (uint16, *trap.Trap) {
	if virt&1 != 0 {
		return 0, trap.New(trap.BusError)
	}
	phys, tr := c.translate(virt, mode, mmu.Read)
	if tr != nil {
		return 0, tr
	}
	return c.Bus.ReadWord(phys)
}

func (c *CPU) writeWordMode(virt uint16, mode int, data uint16) *trap.Trap {
	if virt&1 != 0 {
		return trap.New(trap.BusError)
	}
	phys, tr := c.translate(virt, mode, mmu.Write)
	if tr != nil {
		return tr
	}
	return c.Bus.WriteWord(phys, data)
}

func (c *CPU) readByteMode(virt uint16, mode int) (uint8, *trap.Trap) {
	phys, tr := c.translate(virt, mode, mmu.Read)
	if tr != nil {
		return 0, tr
	}
	return c.Bus.ReadByte(phys)
}

func (c *CPU) writeByteMode(virt uint16, mode int, data uint8) *trap.Trap {
	phys, tr := c.translate(virt, mode, mmu.Write)
	if tr != nil {
		return tr
	}
	return c.Bus.WriteByte(phys, data)
}

func (c *CPU) readWordCur(virt uint16) (uint16, *trap.Trap)  { return c.readWordMode(virt, c.CurMode()) }
func (c *CPU) writeWordCur(virt uint16, v uint16) *trap.Trap { return c.writeWordMode(virt, c.CurMode(), v) }
func (c *CPU) readByteCur(virt uint16) (uint8, *trap.Trap)   { return c.readByteMode(virt, c.CurMode()) }
func (c *CPU) writeByteCur(virt uint16, v uint8) *trap.Trap  { return c.writeByteMode(virt, c.CurMode(), v) }

// push/pop onto the *current* mode's stack (R6), used by instructions
// and by trap entry once it has switched the live mode to kernel.
func (c *CPU) push(v uint16) *trap.Trap {
	c.R[6] -= 2
	return c.writeWordCur(c.R[6], v)
}

func (c *CPU) pop() (uint16, *trap.Trap) {
	v, tr := c.readWordCur(c.R[6])
	if tr != nil {
		return 0, tr
	}
	c.R[6] += 2
	return v, nil
}

// NZ condition-code helpers.
func (c *CPU) setNZ16(v uint16) {
	c.PSW &^= FlagN | FlagZ
	if v&0x8000 != 0 {
		c.PSW |= FlagN
	}
	if v == 0 {
		c.PSW |= FlagZ
	}
}

func (c *CPU) setNZ8(v uint8) {
	c.PSW &^= FlagN | FlagZ
	if v&0x80 != 0 {
		c.PSW |= FlagN
	}
	if v == 0 {
		c.PSW |= FlagZ
	}
}

func (c *CPU) setFlag(flag uint16, on bool) {
	if on {
		c.PSW |= flag
	} else {
		c.PSW &^= flag
	}
}

func (c *CPU) flag(flag uint16) bool {
	return c.PSW&flag != 0
}
