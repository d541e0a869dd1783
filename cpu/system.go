// Trap and interrupt entry/exit: HALT, WAIT, RTI, RTT, EMT/TRAP/BPT/IOT,
// and the shared vector-dispatch sequence used by both synchronous
// traps and device interrupts.
package cpu

import (
	"pdp11/intr"
	"pdp11/trap"
)

// opHALT stops the CPU. HALT outside kernel mode is a privilege
// violation and traps to the reserved-instruction vector instead.
func (c *CPU) opHALT() *trap.Trap {
	if c.CurMode() != ModeKernel {
		return trap.New(trap.Reserved)
	}
	c.halted = true
	return nil
}

// opWAIT suspends instruction execution until an interrupt is pending.
func (c *CPU) opWAIT() *trap.Trap {
	c.waiting = true
	return nil
}

// opTrapFixed is EMT/TRAP/BPT/IOT: always traps to the given vector.
func (c *CPU) opTrapFixed(vector uint16) *trap.Trap {
	return trap.New(vector)
}

// opRTI pops PC then PSW from the current mode's stack. In user mode only the
// condition codes are restored from the popped PSW; the protected
// fields (mode, priority, T-bit, register set) are left untouched, per
// the KT-11's privilege rules.
func (c *CPU) opRTI() *trap.Trap {
	return c.returnFromTrap(false)
}

// opRTT behaves like RTI but also suppresses the T-bit trap for the one
// instruction following the return, so that single-stepping back into
// a T-bit-set context does not immediately retrap.
func (c *CPU) opRTT() *trap.Trap {
	return c.returnFromTrap(true)
}

func (c *CPU) returnFromTrap(isRTT bool) *trap.Trap {
	pc, tr := c.pop()
	if tr != nil {
		return tr
	}
	psw, tr := c.pop()
	if tr != nil {
		return tr
	}

	if c.CurMode() != ModeKernel {
		psw = (c.PSW &^ 0xf) | (psw & 0xf)
	}
	c.loadPSW(psw)
	c.R[7] = pc
	if isRTT {
		c.rttInhibit = true
	}
	return nil
}

// trapEnter runs the shared PDP-11 trap/interrupt sequence: push the
// old PSW then the old PC onto the kernel stack, fetch the new PC/PSW
// from the vector (always read as physical addresses, bypassing
// relocation, as real trap vectors live in fixed low memory), force
// kernel mode, and record the prior mode in the new PSW's previous-mode
// field. A fault while entering the vector is retried once through the
// bus-error vector; a fault during that retry is a double trap, which
// halts the machine exactly as real hardware's red-zone stop does.
func (c *CPU) trapEnter(vector uint16) {
	c.trapEnterGuarded(vector, false)
}

func (c *CPU) trapEnterGuarded(vector uint16, retry bool) {
	oldPSW := c.PSW
	oldPC := c.R[7]
	oldMode := c.CurMode()

	newPC, tr := c.Bus.ReadWord(uint32(vector))
	if tr == nil {
		var newPSWWord uint16
		newPSWWord, tr = c.Bus.ReadWord(uint32(vector) + 2)
		if tr == nil {
			// Switch the live stack pointer to the kernel bank before
			// pushing, the way real trap entry always runs on the
			// kernel stack. If already in kernel mode R6 already is
			// the live KSP, so banking it again here would clobber it
			// with a stale value - only switch when the mode actually
			// changes.
			if oldMode != ModeKernel {
				c.bankSP(oldMode)
				c.PSW &^= pswModeMask << pswCurModeShift
				c.loadSP(ModeKernel)
			}
			if tr = c.push(oldPSW); tr == nil {
				if tr = c.push(oldPC); tr == nil {
					finalPSW := (newPSWWord &^ (pswModeMask << pswPrevModeShift)) | uint16(oldMode&pswModeMask)<<pswPrevModeShift
					finalPSW &^= pswModeMask << pswCurModeShift // traps always enter kernel mode
					c.loadPSW(finalPSW)
					c.R[7] = newPC
					c.waiting = false
					return
				}
			}
		}
	}

	if retry {
		c.halted = true
		return
	}
	c.trapEnterGuarded(trap.BusError, true)
}

// serviceInterrupt delivers one pending device interrupt using the same
// vector-dispatch sequence as a synchronous trap.
func (c *CPU) serviceInterrupt(req intr.Request) {
	c.trapEnter(req.Vector)
}
