/*
 * pdp11 - Machine: wires CPU, MMU, Unibus, and devices into one PDP-11/40.
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

// Package machine assembles memory, the KT-11 MMU, the Unibus, the CPU,
// and the RK05/DL11/KW11 devices into a single PDP-11/40. It is the
// one place in the module that owns every piece of mutable state as
// ordinary struct fields: the host control surface (Reset/Start/Stop/
// Step/LoadBoot/PostKey/Save/Load) the teacher's emu/core.Start loop
// generalized to a struct method instead of a package-level System.
package machine

import (
	"log/slog"
	"time"

	"pdp11/cpu"
	"pdp11/dl11"
	"pdp11/event"
	"pdp11/intr"
	"pdp11/kw11"
	"pdp11/memory"
	"pdp11/mmu"
	"pdp11/rk05"
	"pdp11/trap"
	"pdp11/unibus"
)

// Machine is the whole emulated PDP-11/40.
type Machine struct {
	Mem   *memory.Memory
	MMU   *mmu.MMU
	Bus   *unibus.Bus
	Intr  *intr.Controller
	CPU   *cpu.CPU
	Sched *event.Scheduler

	RK0  *rk05.RK05
	DL   *dl11.DL11
	Clk  *kw11.KW11

	stop    chan struct{}
	running bool
}

// New builds a Machine with all devices wired and mapped, using term as
// the console's host-side adapter (the local tty, or nil for none).
func New(term dl11.Terminal) *Machine {
	mem := memory.New()
	ic := intr.New()
	bus := unibus.New(mem)
	mm := mmu.New()
	sched := event.New()
	c := cpu.New(bus, mm, ic)

	m := &Machine{Mem: mem, MMU: mm, Bus: bus, Intr: ic, CPU: c, Sched: sched}

	m.RK0 = rk05.New(bus, ic, sched, m.dmaRead, m.dmaWrite)
	m.DL = dl11.New(bus, ic, term)
	m.Clk = kw11.New(bus, ic, 0)

	return m
}

// dmaRead/dmaWrite give devices direct Unibus access for DMA transfers,
// bypassing the CPU's MMU exactly as real Unibus DMA does: the address
// a device is handed is already physical.
func (m *Machine) dmaRead(phys uint32, n int) ([]byte, *trap.Trap) {
	out := make([]byte, n)
	for i := 0; i < n; i += 2 {
		w, tr := m.Bus.ReadWord(phys + uint32(i))
		if tr != nil {
			return nil, tr
		}
		out[i] = byte(w)
		if i+1 < n {
			out[i+1] = byte(w >> 8)
		}
	}
	return out, nil
}

func (m *Machine) dmaWrite(phys uint32, data []byte) *trap.Trap {
	for i := 0; i < len(data); i += 2 {
		var w uint16
		w = uint16(data[i])
		if i+1 < len(data) {
			w |= uint16(data[i+1]) << 8
		}
		if tr := m.Bus.WriteWord(phys+uint32(i), w); tr != nil {
			return tr
		}
	}
	return nil
}

// Reset resets the CPU (and therefore the MMU) and clears any pending
// interrupts, as a console RESET switch would.
func (m *Machine) Reset() {
	m.CPU.Reset()
	m.Intr.SetPending(nil)
}

// LoadBoot copies a boot program into memory at addr and points the
// CPU's next Reset at it; it also sets PC immediately for a Start
// issued without an intervening Reset.
func (m *Machine) LoadBoot(addr uint16, words []uint16) {
	for i, w := range words {
		m.Mem.WriteWord(uint32(addr)+uint32(i*2), w)
	}
	m.CPU.BootPC = addr
	m.CPU.R[7] = addr
}

// Start runs the CPU loop in a background goroutine until Stop is
// called or the CPU halts. Each iteration also advances the event
// scheduler by one tick, so RK05 transfer completion and other
// deferred device work progress at roughly one tick per instruction.
func (m *Machine) Start() {
	if m.running {
		return
	}
	m.stop = make(chan struct{})
	m.running = true
	go func() {
		defer func() { m.running = false }()
		for {
			select {
			case <-m.stop:
				return
			default:
			}
			if m.CPU.Waiting() && !m.Intr.Any() {
				time.Sleep(200 * time.Microsecond)
				m.Sched.Advance(1)
				continue
			}
			m.CPU.Step()
			m.Sched.Advance(1)
			if m.CPU.Halted() {
				return
			}
		}
	}()
}

// Stop signals the running CPU loop to exit and waits briefly for it.
func (m *Machine) Stop() {
	if !m.running {
		return
	}
	close(m.stop)
	for i := 0; i < 100 && m.running; i++ {
		time.Sleep(time.Millisecond)
	}
}

// Step executes exactly one CPU step. The machine must not be Running.
func (m *Machine) Step() {
	if m.running {
		slog.Warn("step requested while machine is running")
		return
	}
	m.CPU.Step()
	m.Sched.Advance(1)
}

// Running reports whether the background CPU goroutine is active.
func (m *Machine) Running() bool {
	return m.running
}

// AttachRK0 opens path as the RK05 controller's backing cartridge image.
func (m *Machine) AttachRK0(path string, readOnly bool) error {
	return m.RK0.Attach(path, readOnly)
}

// PostKey delivers one console keystroke to the DL11 receiver.
func (m *Machine) PostKey(b byte) {
	m.DL.PostKey(b)
}

// Shutdown stops the clock's background ticker. Call once, on process
// exit.
func (m *Machine) Shutdown() {
	m.Stop()
	m.Clk.Stop()
}
