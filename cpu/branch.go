// Control flow: conditional branches, JMP/JSR/RTS/SOB, and the
// condition-code set/clear group.
package cpu

import "pdp11/trap"

// opBranch decodes the branch condition from the top byte and the
// signed 8-bit displacement from the low byte.
func (c *CPU) opBranch(instr uint16) *trap.Trap {
	offset := int16(int8(instr & 0xff))
	taken := false

	n, z, v, carry := c.flag(FlagN), c.flag(FlagZ), c.flag(FlagV), c.flag(FlagC)

	switch instr >> 8 {
	case 0o001:
		taken = true // BR
	case 0o002:
		taken = !z // BNE
	case 0o003:
		taken = z // BEQ
	case 0o004:
		taken = n == v // BGE
	case 0o005:
		taken = n != v // BLT
	case 0o006:
		taken = !z && n == v // BGT
	case 0o007:
		taken = z || n != v // BLE
	case 0o200:
		taken = !n // BPL
	case 0o201:
		taken = n // BMI
	case 0o202:
		taken = !carry && !z // BHI
	case 0o203:
		taken = carry || z // BLOS
	case 0o204:
		taken = !v // BVC
	case 0o205:
		taken = v // BVS
	case 0o206:
		taken = !carry // BCC / BHIS
	case 0o207:
		taken = carry // BCS / BLO
	}

	if taken {
		c.R[7] = uint16(int32(c.R[7]) + int32(offset)*2)
	}
	return nil
}

// opJMP loads PC from the operand's effective address. JMP to a
// register (mode 0) is illegal since there is no memory address to
// jump to.
func (c *CPU) opJMP(instr uint16) *trap.Trap {
	mode := int(instr>>3) & 7
	reg := int(instr) & 7
	if mode == 0 {
		return trap.New(trap.Reserved)
	}
	op, tr := c.decodeOperand(mode, reg, false)
	if tr != nil {
		return tr
	}
	c.R[7] = op.effectiveAddr()
	return nil
}

// opJSR pushes the link register then sets it to the old PC, jumping
// to the operand's effective address.
func (c *CPU) opJSR(instr uint16) *trap.Trap {
	link := int(instr>>6) & 7
	mode := int(instr>>3) & 7
	reg := int(instr) & 7
	if mode == 0 {
		return trap.New(trap.Reserved)
	}
	op, tr := c.decodeOperand(mode, reg, false)
	if tr != nil {
		return tr
	}
	target := op.effectiveAddr()

	if tr := c.push(c.R[link]); tr != nil {
		return tr
	}
	c.R[link] = c.R[7]
	c.R[7] = target
	return nil
}

// opRTS pops the return address into PC from the link register.
func (c *CPU) opRTS(link int) *trap.Trap {
	val, tr := c.pop()
	if tr != nil {
		return tr
	}
	c.R[7] = c.R[link]
	c.R[link] = val
	return nil
}

// opSOB: decrement the register, and if still nonzero, branch backward
// by twice the 6-bit unsigned offset.
func (c *CPU) opSOB(instr uint16) *trap.Trap {
	reg := int(instr>>6) & 7
	off := int(instr & 0o77)
	c.R[reg]--
	if c.R[reg] != 0 {
		c.R[7] -= uint16(off * 2)
	}
	return nil
}

// opCC implements the CLC/CLV/CLZ/CLN/CCC/SEC/SEV/SEZ/SEN/SCC family:
// bit 4 (0o20) selects set vs clear, and the low 4 bits select which of
// N,Z,V,C to affect.
func (c *CPU) opCC(instr uint16) *trap.Trap {
	set := instr&0o20 != 0
	if instr&1 != 0 {
		c.setFlag(FlagC, set)
	}
	if instr&2 != 0 {
		c.setFlag(FlagV, set)
	}
	if instr&4 != 0 {
		c.setFlag(FlagZ, set)
	}
	if instr&8 != 0 {
		c.setFlag(FlagN, set)
	}
	return nil
}
