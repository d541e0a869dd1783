/*
 * pdp11 - Low level core memory.
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

// Package memory implements the PDP-11 core memory array: 124K 16-bit
// words addressed by physical byte address 0..IOPageBase exclusive.
package memory

const (
	// WordCount is the number of 16-bit words of main memory (124K words,
	// 248 KiB), per the machine's data model.
	WordCount = 124 * 1024

	// IOPageBase is the first physical byte address of the 8KiB I/O page;
	// addresses at or above this are never backed by RAM.
	IOPageBase uint32 = 0o760000
)

// Memory is the machine's RAM array, word addressable.
type Memory struct {
	words [WordCount]uint16
}

// New returns a zeroed memory array.
func New() *Memory {
	return &Memory{}
}

// InRange reports whether a physical byte address falls within RAM.
func (m *Memory) InRange(addr uint32) bool {
	return addr < IOPageBase
}

// ReadWord returns the word at the given even physical byte address
// without bounds checking; callers must check InRange first.
func (m *Memory) ReadWord(addr uint32) uint16 {
	return m.words[(addr>>1)%WordCount]
}

// WriteWord stores a word at the given even physical byte address
// without bounds checking; callers must check InRange first.
func (m *Memory) WriteWord(addr uint32, data uint16) {
	m.words[(addr>>1)%WordCount] = data
}

// ReadByte returns one byte of a word at the given physical byte address.
func (m *Memory) ReadByte(addr uint32) uint8 {
	w := m.ReadWord(addr &^ 1)
	if addr&1 != 0 {
		return uint8(w >> 8)
	}
	return uint8(w)
}

// WriteByte stores one byte of a word at the given physical byte address,
// leaving the other byte of the containing word untouched.
func (m *Memory) WriteByte(addr uint32, data uint8) {
	word := addr &^ 1
	w := m.ReadWord(word)
	if addr&1 != 0 {
		w = (w & 0x00ff) | (uint16(data) << 8)
	} else {
		w = (w & 0xff00) | uint16(data)
	}
	m.WriteWord(word, w)
}

// Raw returns the backing word slice for save/restore snapshots.
func (m *Memory) Raw() []uint16 {
	return m.words[:]
}

// LoadRaw overwrites the backing word slice from a snapshot, copying at
// most WordCount words.
func (m *Memory) LoadRaw(words []uint16) {
	n := copy(m.words[:], words)
	for i := n; i < WordCount; i++ {
		m.words[i] = 0
	}
}
