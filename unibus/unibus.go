/*
 * pdp11 - Unibus: physical address dispatch to RAM or device registers.
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

// Package unibus resolves 18-bit physical addresses to RAM or to a
// memory-mapped device register, the way the teacher's sys_channel
// package resolves a device address to a channel subchannel - but here
// the dispatch key is a flat address range rather than a device number.
package unibus

import (
	"pdp11/memory"
	"pdp11/trap"
)

// Register is one memory-mapped device register: a base physical address
// and handlers for word-sized read/write. Devices that expose several
// registers install one Register per address.
type Register struct {
	Addr  uint32
	Read  func() uint16
	Write func(uint16)
}

// Bus dispatches physical reads/writes between RAM and registered
// devices. It holds no device state itself; devices register their
// registers with Bus.Map at construction time.
type Bus struct {
	mem  *memory.Memory
	regs map[uint32]Register
}

// New returns a Unibus backed by the given memory.
func New(mem *memory.Memory) *Bus {
	return &Bus{mem: mem, regs: make(map[uint32]Register)}
}

// Map installs a device register at a physical address in the I/O page.
// Panics if addr is already mapped, which would indicate a configuration
// bug rather than a runtime condition.
func (b *Bus) Map(reg Register) {
	if _, exists := b.regs[reg.Addr]; exists {
		panic("unibus: duplicate register mapping")
	}
	b.regs[reg.Addr] = reg
}

// Unmap removes a previously mapped register, e.g. when a device detaches.
func (b *Bus) Unmap(addr uint32) {
	delete(b.regs, addr)
}

// ReadWord reads a word at an even physical address, from RAM or a
// mapped device register. Odd addresses and unmapped I/O-page addresses
// trap with a bus error.
func (b *Bus) ReadWord(addr uint32) (uint16, *trap.Trap) {
	if addr&1 != 0 {
		return 0, trap.New(trap.BusError)
	}
	if b.mem.InRange(addr) {
		return b.mem.ReadWord(addr), nil
	}
	if reg, ok := b.regs[addr]; ok {
		return reg.Read(), nil
	}
	return 0, trap.New(trap.BusError)
}

// WriteWord writes a word at an even physical address.
func (b *Bus) WriteWord(addr uint32, data uint16) *trap.Trap {
	if addr&1 != 0 {
		return trap.New(trap.BusError)
	}
	if b.mem.InRange(addr) {
		b.mem.WriteWord(addr, data)
		return nil
	}
	if reg, ok := b.regs[addr]; ok {
		reg.Write(data)
		return nil
	}
	return trap.New(trap.BusError)
}

// ReadByte reads a single byte. Device registers only expose word
// semantics, so a byte read is promoted to a word read of the containing
// even address, per the Unibus byte-access convention.
func (b *Bus) ReadByte(addr uint32) (uint8, *trap.Trap) {
	if b.mem.InRange(addr) {
		return b.mem.ReadByte(addr), nil
	}
	word, tr := b.ReadWord(addr &^ 1)
	if tr != nil {
		return 0, tr
	}
	if addr&1 != 0 {
		return uint8(word >> 8), nil
	}
	return uint8(word), nil
}

// WriteByte stores a single byte. A byte write to a device register is
// promoted to a read-modify-write of the containing word.
func (b *Bus) WriteByte(addr uint32, data uint8) *trap.Trap {
	if b.mem.InRange(addr) {
		b.mem.WriteByte(addr, data)
		return nil
	}
	word := addr &^ 1
	cur, tr := b.ReadWord(word)
	if tr != nil {
		return tr
	}
	if addr&1 != 0 {
		cur = (cur & 0x00ff) | (uint16(data) << 8)
	} else {
		cur = (cur & 0xff00) | uint16(data)
	}
	return b.WriteWord(word, cur)
}
