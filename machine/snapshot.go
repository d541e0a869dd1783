/*
 * pdp11 - Machine state snapshot capture/restore.
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

package machine

import (
	"os"

	"pdp11/snapshot"
)

// Capture builds a snapshot.State reflecting the machine's current
// architectural state.
func (m *Machine) Capture() *snapshot.State {
	s := &snapshot.State{
		R:      m.CPU.R,
		Alt:    m.CPU.Alt,
		KSP:    m.CPU.KSP,
		USP:    m.CPU.USP,
		PSW:    m.CPU.PSW,
		BootPC: m.CPU.BootPC,

		Halted:  m.CPU.Halted(),
		Waiting: m.CPU.Waiting(),

		PAR: m.MMU.PAR,
		PDR: m.MMU.PDR,
		SR0: m.MMU.SR0,

		Pending: m.Intr.Pending(),

		ClockCSR: m.Clk.ReadCSR(),

		RAM: append([]uint16(nil), m.Mem.Raw()...),
	}
	s.RCSR, s.XCSR, s.RBUF = m.DL.Registers()
	s.RK05.DS, s.RK05.ER, s.RK05.CS, s.RK05.WC, s.RK05.BA, s.RK05.DA = m.RK0.Registers()
	return s
}

// Restore loads a previously captured snapshot.State into the machine.
// The machine must be stopped first.
func (m *Machine) Restore(s *snapshot.State) {
	m.CPU.R = s.R
	m.CPU.Alt = s.Alt
	m.CPU.KSP = s.KSP
	m.CPU.USP = s.USP
	m.CPU.PSW = s.PSW
	m.CPU.BootPC = s.BootPC
	m.CPU.SetRunState(s.Halted, s.Waiting)

	m.MMU.PAR = s.PAR
	m.MMU.PDR = s.PDR
	m.MMU.SR0 = s.SR0

	m.Intr.SetPending(s.Pending)

	m.Clk.WriteCSR(s.ClockCSR)
	m.DL.SetRegisters(s.RCSR, s.XCSR, s.RBUF)
	m.RK0.SetRegisters(s.RK05.DS, s.RK05.ER, s.RK05.CS, s.RK05.WC, s.RK05.BA, s.RK05.DA)

	m.Mem.LoadRaw(s.RAM)
}

// Save writes a snapshot of the machine's current state to path.
func (m *Machine) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return snapshot.Write(f, m.Capture())
}

// Load restores the machine's state from a snapshot file at path.
func (m *Machine) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	s, err := snapshot.Read(f)
	if err != nil {
		return err
	}
	m.Restore(s)
	return nil
}
