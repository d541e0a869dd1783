// Extended instruction set: MUL, DIV, ASH, ASHC, XOR.
package cpu

import "pdp11/trap"

func (c *CPU) opMUL(instr uint16) *trap.Trap {
	reg := int(instr>>6) & 7
	mode := int(instr>>3) & 7
	dreg := int(instr) & 7
	op, tr := c.decodeOperand(mode, dreg, false)
	if tr != nil {
		return tr
	}
	s, tr := c.readOperandWord(op)
	if tr != nil {
		return tr
	}

	a := int32(int16(c.R[reg]))
	b := int32(int16(s))
	prod := int64(a) * int64(b)

	if reg&1 == 0 {
		c.R[reg] = uint16(prod >> 16)
		c.R[reg+1] = uint16(prod)
	} else {
		c.R[reg] = uint16(prod)
	}

	c.PSW &^= FlagN | FlagZ | FlagV | FlagC
	if prod < 0 {
		c.PSW |= FlagN
	}
	if prod == 0 {
		c.PSW |= FlagZ
	}
	if prod < -32768 || prod > 32767 {
		c.PSW |= FlagC
	}
	return nil
}

func (c *CPU) opDIV(instr uint16) *trap.Trap {
	reg := int(instr>>6) & 7
	mode := int(instr>>3) & 7
	dreg := int(instr) & 7
	op, tr := c.decodeOperand(mode, dreg, false)
	if tr != nil {
		return tr
	}
	s, tr := c.readOperandWord(op)
	if tr != nil {
		return tr
	}

	divisor := int32(int16(s))
	dividend := int32(int16(c.R[reg]))<<16 | int32(c.R[reg+1])

	c.PSW &^= FlagN | FlagZ | FlagV | FlagC
	if divisor == 0 {
		c.PSW |= FlagV | FlagC
		return nil
	}

	quotient := dividend / divisor
	remainder := dividend % divisor

	if quotient < -32768 || quotient > 32767 {
		c.PSW |= FlagV | FlagC
		return nil
	}

	c.R[reg] = uint16(quotient)
	c.R[reg+1] = uint16(remainder)
	if quotient < 0 {
		c.PSW |= FlagN
	}
	if quotient == 0 {
		c.PSW |= FlagZ
	}
	return nil
}

// shiftCount extracts the signed 6-bit shift count (-32..31) used by
// ASH and ASHC: positive shifts left, negative shifts right.
func shiftCount(raw uint16) int {
	v := int(raw & 0o77)
	if v&0o40 != 0 {
		v -= 0o100
	}
	return v
}

func (c *CPU) opASH(instr uint16) *trap.Trap {
	reg := int(instr>>6) & 7
	mode := int(instr>>3) & 7
	sreg := int(instr) & 7
	op, tr := c.decodeOperand(mode, sreg, false)
	if tr != nil {
		return tr
	}
	s, tr := c.readOperandWord(op)
	if tr != nil {
		return tr
	}

	n := shiftCount(s)
	v := int32(int16(c.R[reg]))
	c.PSW &^= FlagN | FlagZ | FlagV | FlagC

	var result int32
	switch {
	case n == 0:
		result = v
	case n > 0:
		if n > 16 {
			n = 16
		}
		shifted := v << uint(n)
		lastOut := (v >> uint(16-n)) & 1
		c.setFlag(FlagC, lastOut != 0)
		result = int32(int16(shifted))
		signChanged := (v < 0) != (result < 0)
		c.setFlag(FlagV, signChanged)
	default:
		sh := -n
		if sh > 16 {
			sh = 16
		}
		c.setFlag(FlagC, (v>>uint(sh-1))&1 != 0)
		result = v >> uint(sh)
	}

	c.R[reg] = uint16(result)
	c.setNZ16(uint16(result))
	return nil
}

func (c *CPU) opASHC(instr uint16) *trap.Trap {
	reg := int(instr>>6) & 7
	mode := int(instr>>3) & 7
	sreg := int(instr) & 7
	op, tr := c.decodeOperand(mode, sreg, false)
	if tr != nil {
		return tr
	}
	s, tr := c.readOperandWord(op)
	if tr != nil {
		return tr
	}

	n := shiftCount(s)
	hi := reg
	lo := reg | 1
	v := int64(int32(uint32(c.R[hi])<<16 | uint32(c.R[lo])))
	c.PSW &^= FlagN | FlagZ | FlagV | FlagC

	var result int64
	switch {
	case n == 0:
		result = v
	case n > 0:
		if n > 32 {
			n = 32
		}
		shifted := v << uint(n)
		lastOut := (v >> uint(32-n)) & 1
		c.setFlag(FlagC, lastOut != 0)
		result = int64(int32(shifted))
		c.setFlag(FlagV, (v < 0) != (result < 0))
	default:
		sh := -n
		if sh > 32 {
			sh = 32
		}
		c.setFlag(FlagC, (v>>uint(sh-1))&1 != 0)
		result = v >> uint(sh)
	}

	c.R[hi] = uint16(result >> 16)
	c.R[lo] = uint16(result)
	c.PSW &^= FlagN | FlagZ
	if result < 0 {
		c.PSW |= FlagN
	}
	if result == 0 {
		c.PSW |= FlagZ
	}
	return nil
}

func (c *CPU) opXOR(instr uint16) *trap.Trap {
	reg := int(instr>>6) & 7
	mode := int(instr>>3) & 7
	dreg := int(instr) & 7
	op, tr := c.decodeOperand(mode, dreg, false)
	if tr != nil {
		return tr
	}
	d, tr := c.readOperandWord(op)
	if tr != nil {
		return tr
	}
	res := c.R[reg] ^ d
	c.setNZ16(res)
	c.setFlag(FlagV, false)
	return c.writeOperandWord(op, res)
}
