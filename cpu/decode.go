// Instruction fetch/decode dispatch. The table is expressed as a chain
// of mask/pattern checks in the order the real microcode decodes them
// (fixed opcodes, then operate-group, then general double-operand),
// rather than a 65536-entry table, to keep the mapping readable.
package cpu

import "pdp11/trap"

// execute fetches one instruction and dispatches it. Any trap raised
// during fetch, operand decode, or execution is delivered through
// trapEnter before returning.
func (c *CPU) execute() {
	instr, tr := c.fetchWord()
	if tr != nil {
		c.trapEnter(tr.Vector)
		return
	}

	tr = c.dispatch(instr)
	if tr != nil {
		c.trapEnter(tr.Vector)
		return
	}

	if c.flag(FlagT) && !c.rttInhibit {
		c.trapEnter(tBitVector)
	}
	c.rttInhibit = false
}

const (
	FlagT      = pswTBit
	tBitVector = 0o014
)

func (c *CPU) dispatch(instr uint16) *trap.Trap {
	switch {
	case instr == 0o000000:
		return c.opHALT()
	case instr == 0o000001:
		return c.opWAIT()
	case instr == 0o000002:
		return c.opRTI()
	case instr == 0o000003:
		return c.opTrapFixed(trap.BPT)
	case instr == 0o000004:
		return c.opTrapFixed(trap.IOT)
	case instr == 0o000005:
		c.Reset()
		return nil
	case instr == 0o000006:
		return c.opRTT()

	case instr&0o177770 == 0o000200: // RTS
		return c.opRTS(int(instr & 7))

	case instr&0o177740 == 0o000240: // CLC/CLV/.../SCC
		return c.opCC(instr)

	case instr&0o177700 == 0o000300: // SWAB
		return c.opSingle(instr, swabOp)

	case instr&0o177700 == 0o000100: // JMP
		return c.opJMP(instr)

	case instr&0o177000 == 0o004000: // JSR
		return c.opJSR(instr)

	case instr&0o177700 >= 0o005000 && instr&0o177700 <= 0o006700,
		instr&0o177700 >= 0o105000 && instr&0o177700 <= 0o106700:
		return c.opSingleGroup(instr)

	case instr&0o177400 == 0o104000: // EMT
		return c.opTrapFixed(trap.EMT)
	case instr&0o177400 == 0o104400: // TRAP
		return c.opTrapFixed(trap.TRAP)

	case instr&0o177000 == 0o070000: // MUL
		return c.opMUL(instr)
	case instr&0o177000 == 0o071000: // DIV
		return c.opDIV(instr)
	case instr&0o177000 == 0o072000: // ASH
		return c.opASH(instr)
	case instr&0o177000 == 0o073000: // ASHC
		return c.opASHC(instr)
	case instr&0o177000 == 0o074000: // XOR
		return c.opXOR(instr)
	case instr&0o177000 == 0o077000: // SOB
		return c.opSOB(instr)

	case isBranchOpcode(instr):
		return c.opBranch(instr)

	default:
		return c.opDoubleGroup(instr)
	}
}

// isBranchOpcode reports whether the top byte of instr names one of the
// 15 conditional/unconditional branches.
func isBranchOpcode(instr uint16) bool {
	top := instr >> 8
	switch top {
	case 0o001, 0o002, 0o003, 0o004, 0o005, 0o006, 0o007,
		0o200, 0o201, 0o202, 0o203, 0o204, 0o205, 0o206, 0o207:
		return true
	}
	return false
}
