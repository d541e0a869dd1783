/*
 * pdp11 - KT-11 memory management unit.
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

// Package mmu implements the KT-11 memory management unit: translation of
// 16-bit virtual addresses to 18-bit physical addresses for the kernel and
// user address spaces, with per-page access control and length checking.
package mmu

import "pdp11/util/debug"

const (
	// Mode indices into the per-space register files. Supervisor mode
	// exists on later PDP-11 models but is never used by Unix V6.
	Kernel = 0
	User   = 1

	numPages = 8

	pageShift = 13
	dispMask  = 0o17777 // 13 bits of displacement within a page
	blockBits = 6       // a PLF block is 64 bytes

	// PDR field layout. Not bit-for-bit identical to the real KT-11 (the
	// spec does not require it); internally consistent is what matters.
	pdrACFShift = 1
	pdrACFMask  = 0x7
	acfNone     = 0 // non-resident: any access aborts
	acfReadOnly = 1 // read allowed, write aborts
	acfReadWrite = 3 // read and write allowed

	pdrED  = 1 << 3 // expansion direction: 0 = up, 1 = down
	pdrW   = 1 << 6 // written bit, set by the MMU on a successful write
	pdrPLFShift = 8
	pdrPLFMask  = 0x7f

	// SR0 fields.
	sr0Enable     uint16 = 1 << 0
	sr0PageLenAbt uint16 = 1 << 14
	sr0ROAbt      uint16 = 1 << 13
	sr0NonResAbt  uint16 = 1 << 15
	sr0PageShift  uint16 = 1
	sr0PageMask   uint16 = 0x7
	sr0ModeShift  uint16 = 5
	sr0ModeMask   uint16 = 0x3
)

// Access describes the kind of access being translated, used to decide
// which PDR abort applies.
type Access int

const (
	Read Access = iota
	Write
)

// Abort describes why a translation failed. The CPU turns this into a
// trap to vector 0o250 at the instruction boundary, before committing any
// side effect that depended on the faulting access.
type Abort struct {
	NonResident bool
	PageLength  bool
	ReadOnly    bool
}

// MMU holds the KT-11 register file: PAR/PDR pairs for kernel and user
// space, and the SR0 status/enable register.
type MMU struct {
	PAR [2][numPages]uint16
	PDR [2][numPages]uint16
	SR0 uint16
}

// New returns an MMU with translation disabled, matching machine reset.
func New() *MMU {
	return &MMU{}
}

// Enabled reports whether relocation is active (SR0 bit 0).
func (m *MMU) Enabled() bool {
	return m.SR0&sr0Enable != 0
}

// Reset disables the MMU and clears SR0, leaving PAR/PDR contents intact
// (matches real KT-11 behavior: RESET does not clear the page registers).
func (m *MMU) Reset() {
	m.SR0 = 0
}

// Translate converts a 16-bit virtual address in the given mode to an
// 18-bit physical address. When disabled, virtual maps to physical
// one-to-one except that 0o160000..0o177777 is redirected to the I/O page
// 0o760000..0o777777, per the machine's invariants.
func (m *MMU) Translate(virt uint16, mode int, acc Access) (uint32, *Abort) {
	if !m.Enabled() {
		if virt >= 0o160000 {
			return 0o760000 + uint32(virt-0o160000), nil
		}
		return uint32(virt), nil
	}

	page := int(virt>>pageShift) & (numPages - 1)
	disp := uint32(virt) & dispMask

	pdr := m.PDR[mode][page]
	par := m.PAR[mode][page]

	acf := (pdr >> pdrACFShift) & pdrACFMask
	switch acf {
	case acfNone:
		m.raiseAbort(mode, page, sr0NonResAbt)
		return 0, &Abort{NonResident: true}
	case acfReadOnly:
		if acc == Write {
			m.raiseAbort(mode, page, sr0ROAbt)
			return 0, &Abort{ReadOnly: true}
		}
	}

	plf := (pdr >> pdrPLFShift) & pdrPLFMask
	block := uint16(disp >> blockBits)
	expandDown := pdr&pdrED != 0
	violated := false
	if expandDown {
		violated = block < plf
	} else {
		violated = block > plf
	}
	if violated {
		m.raiseAbort(mode, page, sr0PageLenAbt)
		return 0, &Abort{PageLength: true}
	}

	if acc == Write {
		m.PDR[mode][page] |= pdrW
	}

	phys := (uint32(par) << blockBits) + disp
	return phys, nil
}

// raiseAbort records the faulting mode/page and abort reason in SR0. Real
// hardware latches only the first abort until software clears it; here we
// always record the most recent one, which is sufficient for a
// single-threaded CPU that traps immediately on abort.
func (m *MMU) raiseAbort(mode, page int, flag uint16) {
	m.SR0 &^= sr0PageLenAbt | sr0ROAbt | sr0NonResAbt | (sr0PageMask << sr0PageShift) | (sr0ModeMask << sr0ModeShift)
	m.SR0 |= flag
	m.SR0 |= uint16(page&int(sr0PageMask)) << sr0PageShift
	m.SR0 |= uint16(mode&int(sr0ModeMask)) << sr0ModeShift
	debug.Logf("mmu", "abort mode=%d page=%d flag=%o", mode, page, flag)
}

// Written reports the PDR "W" bit for a page, set after any successful
// write translation through that page.
func (m *MMU) Written(mode, page int) bool {
	return m.PDR[mode][page]&pdrW != 0
}
