// Double-operand general instructions (MOV, CMP, BIT, BIC, BIS, ADD, SUB)
// and the single-operand group (CLR, COM, INC, DEC, NEG, ADC, SBC, TST,
// ROR, ROL, ASR, ASL, SWAB, SXT, MFPI, MTPI), word and byte forms.
package cpu

import "pdp11/trap"

// opDoubleGroup handles MOV/CMP/BIT/BIC/BIS (word+byte, opcode top 4
// bits in {1..5, 9..13}) and ADD/SUB (word only, top 4 bits 6 and 14).
func (c *CPU) opDoubleGroup(instr uint16) *trap.Trap {
	top4 := instr >> 12
	byteOp := top4 >= 9 && top4 <= 13
	op := top4
	if byteOp {
		op -= 8
	}

	srcMode := int(instr>>9) & 7
	srcReg := int(instr>>6) & 7
	dstMode := int(instr>>3) & 7
	dstReg := int(instr) & 7

	src, tr := c.decodeOperand(srcMode, srcReg, byteOp && op != 6 && op != 14)
	if tr != nil {
		return tr
	}

	switch op {
	case 6: // ADD (word only)
		return c.doADD(src, dstMode, dstReg, false)
	case 14: // SUB (word only)
		return c.doADD(src, dstMode, dstReg, true)
	}

	dst, tr := c.decodeOperand(dstMode, dstReg, byteOp)
	if tr != nil {
		return tr
	}

	if byteOp {
		return c.doByteOp(op, src, dst)
	}
	return c.doWordOp(op, src, dst)
}

func (c *CPU) doWordOp(op uint16, src, dst operand) *trap.Trap {
	s, tr := c.readOperandWord(src)
	if tr != nil {
		return tr
	}
	switch op {
	case 1: // MOV
		c.setNZ16(s)
		c.setFlag(FlagV, false)
		return c.writeOperandWord(dst, s)
	case 2: // CMP
		d, tr := c.readOperandWord(dst)
		if tr != nil {
			return tr
		}
		res, carry, ovf := subWidth(uint32(s), uint32(d), width16)
		c.setNZ16(uint16(res))
		c.setFlag(FlagV, ovf)
		c.setFlag(FlagC, carry)
		return nil
	case 3: // BIT
		d, tr := c.readOperandWord(dst)
		if tr != nil {
			return tr
		}
		res := s & d
		c.setNZ16(res)
		c.setFlag(FlagV, false)
		return nil
	case 4: // BIC
		d, tr := c.readOperandWord(dst)
		if tr != nil {
			return tr
		}
		res := d &^ s
		c.setNZ16(res)
		c.setFlag(FlagV, false)
		return c.writeOperandWord(dst, res)
	case 5: // BIS
		d, tr := c.readOperandWord(dst)
		if tr != nil {
			return tr
		}
		res := d | s
		c.setNZ16(res)
		c.setFlag(FlagV, false)
		return c.writeOperandWord(dst, res)
	}
	return nil
}

func (c *CPU) doByteOp(op uint16, src, dst operand) *trap.Trap {
	s, tr := c.readOperandByte(src)
	if tr != nil {
		return tr
	}
	switch op {
	case 1: // MOVB
		c.setNZ8(s)
		c.setFlag(FlagV, false)
		return c.writeOperandByte(dst, s, true)
	case 2: // CMPB
		d, tr := c.readOperandByte(dst)
		if tr != nil {
			return tr
		}
		res, carry, ovf := subWidth(uint32(s), uint32(d), width8)
		c.setNZ8(uint8(res))
		c.setFlag(FlagV, ovf)
		c.setFlag(FlagC, carry)
		return nil
	case 3: // BITB
		d, tr := c.readOperandByte(dst)
		if tr != nil {
			return tr
		}
		res := s & d
		c.setNZ8(res)
		c.setFlag(FlagV, false)
		return nil
	case 4: // BICB
		d, tr := c.readOperandByte(dst)
		if tr != nil {
			return tr
		}
		res := d &^ s
		c.setNZ8(res)
		c.setFlag(FlagV, false)
		return c.writeOperandByte(dst, res, false)
	case 5: // BISB
		d, tr := c.readOperandByte(dst)
		if tr != nil {
			return tr
		}
		res := d | s
		c.setNZ8(res)
		c.setFlag(FlagV, false)
		return c.writeOperandByte(dst, res, false)
	}
	return nil
}

func (c *CPU) doADD(src operand, dstMode, dstReg int, sub bool) *trap.Trap {
	s, tr := c.readOperandWord(src)
	if tr != nil {
		return tr
	}
	dst, tr := c.decodeOperand(dstMode, dstReg, false)
	if tr != nil {
		return tr
	}
	d, tr := c.readOperandWord(dst)
	if tr != nil {
		return tr
	}

	var res uint32
	var carry, ovf bool
	if sub {
		res, carry, ovf = subWidth(uint32(d), uint32(s), width16)
	} else {
		res, carry, ovf = addWidth(uint32(s), uint32(d), width16)
	}
	c.setNZ16(uint16(res))
	c.setFlag(FlagV, ovf)
	c.setFlag(FlagC, carry)
	return c.writeOperandWord(dst, uint16(res))
}

// singleOp identifies one member of the CLR..SXT operate group.
type singleOp int

const (
	opCLR singleOp = iota
	opCOM
	opINC
	opDEC
	opNEG
	opADC
	opSBC
	opTST
	opROR
	opROL
	opASR
	opASL
	opMFPI
	opMTPI
	opSXT
	swabOp
)

// opSingleGroup decodes the base (instr & 0o177700) against the
// CLR..SXT table, including the byte-form bit (0o100000).
func (c *CPU) opSingleGroup(instr uint16) *trap.Trap {
	base := instr & 0o177700
	byteOp := base&0o100000 != 0
	wordBase := base &^ 0o100000

	var which singleOp
	switch wordBase {
	case 0o005000:
		which = opCLR
	case 0o005100:
		which = opCOM
	case 0o005200:
		which = opINC
	case 0o005300:
		which = opDEC
	case 0o005400:
		which = opNEG
	case 0o005500:
		which = opADC
	case 0o005600:
		which = opSBC
	case 0o005700:
		which = opTST
	case 0o006000:
		which = opROR
	case 0o006100:
		which = opROL
	case 0o006200:
		which = opASR
	case 0o006300:
		which = opASL
	case 0o006400:
		return c.opMARK(instr)
	case 0o006500:
		which = opMFPI
	case 0o006600:
		which = opMTPI
	case 0o006700:
		if byteOp {
			return trap.New(trap.Reserved)
		}
		which = opSXT
	default:
		return trap.New(trap.Reserved)
	}

	return c.opSingle(instr, which)
}

func (c *CPU) opSingle(instr uint16, which singleOp) *trap.Trap {
	byteOp := instr&0o100000 != 0 && which != opSXT && which != swabOp
	mode := int(instr>>3) & 7
	reg := int(instr) & 7

	if which == swabOp {
		return c.execSWAB(mode, reg)
	}
	if which == opMFPI || which == opMTPI {
		return c.execMOVPI(mode, reg, which == opMTPI)
	}
	if which == opSXT {
		op, tr := c.decodeOperand(mode, reg, false)
		if tr != nil {
			return tr
		}
		var v uint16
		if c.flag(FlagN) {
			v = 0xffff
		}
		c.setFlag(FlagZ, !c.flag(FlagN))
		return c.writeOperandWord(op, v)
	}

	op, tr := c.decodeOperand(mode, reg, byteOp)
	if tr != nil {
		return tr
	}
	if byteOp {
		return c.execSingleByte(which, op)
	}
	return c.execSingleWord(which, op)
}

func (c *CPU) execSingleWord(which singleOp, op operand) *trap.Trap {
	v, tr := c.readOperandWord(op)
	if tr != nil {
		return tr
	}
	var res uint32
	var carry, ovf bool
	store := true

	switch which {
	case opCLR:
		res = 0
		c.setFlag(FlagC, false)
		c.setFlag(FlagV, false)
	case opCOM:
		res = uint32(^v) & 0xffff
		c.setFlag(FlagC, true)
		c.setFlag(FlagV, false)
	case opINC:
		res, _, ovf = addWidth(uint32(v), 1, width16)
		c.setFlag(FlagV, ovf)
	case opDEC:
		res, _, ovf = subWidth(uint32(v), 1, width16)
		c.setFlag(FlagV, ovf)
	case opNEG:
		res, carry, ovf = subWidth(0, uint32(v), width16)
		c.setFlag(FlagV, ovf)
		c.setFlag(FlagC, v != 0)
		_ = carry
	case opADC:
		cbit := uint32(0)
		if c.flag(FlagC) {
			cbit = 1
		}
		res, carry, ovf = addWidth(uint32(v), cbit, width16)
		c.setFlag(FlagV, ovf)
		c.setFlag(FlagC, carry)
	case opSBC:
		cbit := uint32(0)
		if c.flag(FlagC) {
			cbit = 1
		}
		res, carry, ovf = subWidth(uint32(v), cbit, width16)
		c.setFlag(FlagV, ovf)
		c.setFlag(FlagC, carry)
	case opTST:
		res = uint32(v)
		c.setFlag(FlagC, false)
		c.setFlag(FlagV, false)
		store = false
	case opROR:
		cin := uint32(0)
		if c.flag(FlagC) {
			cin = 1 << 16
		}
		full := uint32(v) | cin
		c.setFlag(FlagC, full&1 != 0)
		res = full >> 1
		c.setFlag(FlagV, c.flag(FlagC) != (res&0x8000 != 0))
	case opROL:
		cin := uint32(0)
		if c.flag(FlagC) {
			cin = 1
		}
		full := (uint32(v) << 1) | cin
		c.setFlag(FlagC, full&0x10000 != 0)
		res = full & 0xffff
		c.setFlag(FlagV, c.flag(FlagC) != (res&0x8000 != 0))
	case opASR:
		c.setFlag(FlagC, v&1 != 0)
		res = uint32(v>>1) | uint32(v&0x8000)
		c.setFlag(FlagV, c.flag(FlagC) != (res&0x8000 != 0))
	case opASL:
		c.setFlag(FlagC, v&0x8000 != 0)
		res = (uint32(v) << 1) & 0xffff
		c.setFlag(FlagV, c.flag(FlagC) != (res&0x8000 != 0))
	}

	c.setNZ16(uint16(res))
	if !store {
		return nil
	}
	return c.writeOperandWord(op, uint16(res))
}

func (c *CPU) execSingleByte(which singleOp, op operand) *trap.Trap {
	v, tr := c.readOperandByte(op)
	if tr != nil {
		return tr
	}
	var res uint32
	var carry, ovf bool
	store := true

	switch which {
	case opCLR:
		res = 0
		c.setFlag(FlagC, false)
		c.setFlag(FlagV, false)
	case opCOM:
		res = uint32(^v) & 0xff
		c.setFlag(FlagC, true)
		c.setFlag(FlagV, false)
	case opINC:
		res, _, ovf = addWidth(uint32(v), 1, width8)
		c.setFlag(FlagV, ovf)
	case opDEC:
		res, _, ovf = subWidth(uint32(v), 1, width8)
		c.setFlag(FlagV, ovf)
	case opNEG:
		res, _, ovf = subWidth(0, uint32(v), width8)
		c.setFlag(FlagV, ovf)
		c.setFlag(FlagC, v != 0)
	case opADC:
		cbit := uint32(0)
		if c.flag(FlagC) {
			cbit = 1
		}
		res, carry, ovf = addWidth(uint32(v), cbit, width8)
		c.setFlag(FlagV, ovf)
		c.setFlag(FlagC, carry)
	case opSBC:
		cbit := uint32(0)
		if c.flag(FlagC) {
			cbit = 1
		}
		res, carry, ovf = subWidth(uint32(v), cbit, width8)
		c.setFlag(FlagV, ovf)
		c.setFlag(FlagC, carry)
	case opTST:
		res = uint32(v)
		c.setFlag(FlagC, false)
		c.setFlag(FlagV, false)
		store = false
	case opROR:
		cin := uint32(0)
		if c.flag(FlagC) {
			cin = 1 << 8
		}
		full := uint32(v) | cin
		c.setFlag(FlagC, full&1 != 0)
		res = full >> 1
		c.setFlag(FlagV, c.flag(FlagC) != (res&0x80 != 0))
	case opROL:
		cin := uint32(0)
		if c.flag(FlagC) {
			cin = 1
		}
		full := (uint32(v) << 1) | cin
		c.setFlag(FlagC, full&0x100 != 0)
		res = full & 0xff
		c.setFlag(FlagV, c.flag(FlagC) != (res&0x80 != 0))
	case opASR:
		c.setFlag(FlagC, v&1 != 0)
		res = uint32(v>>1) | uint32(v&0x80)
		c.setFlag(FlagV, c.flag(FlagC) != (res&0x80 != 0))
	case opASL:
		c.setFlag(FlagC, v&0x80 != 0)
		res = (uint32(v) << 1) & 0xff
		c.setFlag(FlagV, c.flag(FlagC) != (res&0x80 != 0))
	}

	c.setNZ8(uint8(res))
	if !store {
		return nil
	}
	return c.writeOperandByte(op, uint8(res), false)
}

// opMARK implements the JSR-cleanup instruction: discard nn argument
// words from the stack, return through R5's linkage, and restore the
// caller's R5 from the newly exposed top of stack.
func (c *CPU) opMARK(instr uint16) *trap.Trap {
	nn := int(instr & 0o77)
	c.R[6] = c.R[7] + uint16(nn*2)
	c.R[7] = c.R[5]
	v, tr := c.pop()
	if tr != nil {
		return tr
	}
	c.R[5] = v
	return nil
}

// execSWAB swaps the high and low bytes of a word operand.
func (c *CPU) execSWAB(mode, reg int) *trap.Trap {
	op, tr := c.decodeOperand(mode, reg, false)
	if tr != nil {
		return tr
	}
	v, tr := c.readOperandWord(op)
	if tr != nil {
		return tr
	}
	res := (v >> 8) | (v << 8)
	c.setNZ8(uint8(res))
	c.setFlag(FlagV, false)
	c.setFlag(FlagC, false)
	return c.writeOperandWord(op, res)
}

// execMOVPI implements MFPI/MTPI: move between the current stack and
// the previous mode's address space. Unix V6 uses these around mode
// switches far less than RSX-style systems, but a full instruction set
// implements them anyway.
func (c *CPU) execMOVPI(mode, reg int, isWrite bool) *trap.Trap {
	prevMode := c.PrevMode()
	op, tr := c.decodeOperand(mode, reg, false)
	if tr != nil {
		return tr
	}

	if isWrite {
		v, tr := c.pop()
		if tr != nil {
			return tr
		}
		c.setNZ16(v)
		c.setFlag(FlagV, false)
		if op.isReg {
			return c.writeOperandWord(op, v)
		}
		return c.writeWordMode(op.addr, prevMode, v)
	}

	var v uint16
	if op.isReg {
		if reg == 6 {
			if prevMode == ModeKernel {
				v = c.KSP
			} else {
				v = c.USP
			}
		} else {
			v = c.R[reg]
		}
	} else {
		var tr *trap.Trap
		v, tr = c.readWordMode(op.addr, prevMode)
		if tr != nil {
			return tr
		}
	}
	c.setNZ16(v)
	c.setFlag(FlagV, false)
	return c.push(v)
}
