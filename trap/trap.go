/*
 * pdp11 - Trap vectors shared by the CPU, MMU, and Unibus.
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

// Package trap holds the PDP-11 trap vector constants and the Trap type
// threaded between the Unibus, the MMU, and the CPU. Inside the CPU a
// Trap is resolved into a guest trap-vector dispatch by cpu.Step; RK05
// DMA and the console's examine/deposit treat one as a failed access.
package trap

// Vectors, per the machine's error-handling design. Each is a fixed
// low-memory address holding {new PC, new PSW}.
const (
	BusError   uint16 = 0o004 // odd address, unmapped physical, odd PC fetch, stack overflow
	Reserved   uint16 = 0o010 // undefined opcode
	BPT        uint16 = 0o014 // BPT instruction, or T-bit trap
	IOT        uint16 = 0o020 // IOT instruction
	PowerFail  uint16 = 0o024 // host-triggered power fail
	EMT        uint16 = 0o030 // EMT instruction
	TRAP       uint16 = 0o034 // TRAP instruction (Unix syscalls)
	ConsoleIn  uint16 = 0o060 // DL-11 receiver, BR4
	ConsoleOut uint16 = 0o064 // DL-11 transmitter, BR4
	Clock      uint16 = 0o100 // KW-11 line clock, BR6
	RK05       uint16 = 0o220 // RK05 completion, BR5
	MMU        uint16 = 0o250 // MMU access/length abort
)

// Trap is a PDP-11 trap condition raised while translating, fetching, or
// executing an instruction.
type Trap struct {
	Vector uint16
}

func (t *Trap) Error() string {
	return "trap to vector"
}

// New returns a Trap for the given vector.
func New(vector uint16) *Trap {
	return &Trap{Vector: vector}
}
