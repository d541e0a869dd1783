// Operand addressing mode resolution: the eight PDP-11 modes times general
// register selection, including the R6/R7 auto-inc/dec step-by-2 special
// case and the deferred-pointer-is-always-word-sized rule.
package cpu

import "pdp11/trap"

// operand names either a register (direct access, no memory traffic) or
// a resolved virtual effective address.
type operand struct {
	isReg bool
	reg   int
	addr  uint16
}

// step returns the auto-increment/decrement step for reg in the given
// operand size: R6 (SP) and R7 (PC) always move by 2, regardless of a
// byte operation, since the stack and instruction stream stay word
// aligned.
func step(reg int, byteOp bool) uint16 {
	if byteOp && reg != 6 && reg != 7 {
		return 1
	}
	return 2
}

// decodeOperand resolves a 6-bit mode/register specifier into an
// operand, fetching an extra index word from the instruction stream for
// modes 6 and 7.
func (c *CPU) decodeOperand(mode, reg int, byteOp bool) (operand, *trap.Trap) {
	switch mode {
	case 0: // register direct
		return operand{isReg: true, reg: reg}, nil

	case 1: // register deferred
		return operand{addr: c.R[reg]}, nil

	case 2: // autoincrement
		addr := c.R[reg]
		c.R[reg] += step(reg, byteOp)
		return operand{addr: addr}, nil

	case 3: // autoincrement deferred
		addr := c.R[reg]
		c.R[reg] += 2
		ptr, tr := c.readWordCur(addr)
		if tr != nil {
			return operand{}, tr
		}
		return operand{addr: ptr}, nil

	case 4: // autodecrement
		c.R[reg] -= step(reg, byteOp)
		return operand{addr: c.R[reg]}, nil

	case 5: // autodecrement deferred
		c.R[reg] -= 2
		ptr, tr := c.readWordCur(c.R[reg])
		if tr != nil {
			return operand{}, tr
		}
		return operand{addr: ptr}, nil

	case 6: // indexed
		x, tr := c.fetchWord()
		if tr != nil {
			return operand{}, tr
		}
		return operand{addr: c.R[reg] + x}, nil

	default: // 7: indexed deferred
		x, tr := c.fetchWord()
		if tr != nil {
			return operand{}, tr
		}
		ptr, tr := c.readWordCur(c.R[reg] + x)
		if tr != nil {
			return operand{}, tr
		}
		return operand{addr: ptr}, nil
	}
}

// effectiveAddr returns the operand's virtual address. Valid only when
// !isReg; JMP and JSR reject a register target with a reserved-instruction
// trap, and MFPx/MTPx read or write the register directly instead.
func (op operand) effectiveAddr() uint16 {
	return op.addr
}

func (c *CPU) readOperandWord(op operand) (uint16, *trap.Trap) {
	if op.isReg {
		return c.R[op.reg], nil
	}
	return c.readWordCur(op.addr)
}

func (c *CPU) readOperandByte(op operand) (uint8, *trap.Trap) {
	if op.isReg {
		return uint8(c.R[op.reg] & 0xff), nil
	}
	return c.readByteCur(op.addr)
}

func (c *CPU) writeOperandWord(op operand, v uint16) *trap.Trap {
	if op.isReg {
		c.R[op.reg] = v
		return nil
	}
	return c.writeWordCur(op.addr, v)
}

// writeOperandByte stores a byte result. signExtend implements the MOVB
// special case: when the destination is a register, MOVB sign-extends
// the byte across all 16 bits instead of leaving the high byte alone.
func (c *CPU) writeOperandByte(op operand, v uint8, signExtend bool) *trap.Trap {
	if op.isReg {
		if signExtend {
			c.R[op.reg] = uint16(int16(int8(v)))
		} else {
			c.R[op.reg] = (c.R[op.reg] & 0xff00) | uint16(v)
		}
		return nil
	}
	return c.writeByteCur(op.addr, v)
}
