/*
 * pdp11 - RK05 disk controller (RK11-D style register set).
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

// Package rk05 implements one RK11-D/RK05 disk controller: the six
// device registers, sector-addressed read/write against a backing
// image file, and completion interrupts. The struct-with-context shape
// follows the teacher's tape.Context device: a file handle plus
// register state, reachable only through Unibus.Map'd closures rather
// than a package singleton.
package rk05

import (
	"io"
	"os"

	"pdp11/event"
	"pdp11/intr"
	"pdp11/trap"
	"pdp11/unibus"
	"pdp11/util/debug"
)

// Register addresses in the I/O page.
const (
	RKDS = 0o777400
	RKER = 0o777402
	RKCS = 0o777404
	RKWC = 0o777406
	RKBA = 0o777410
	RKDA = 0o777412
)

// Geometry of one RK05 cartridge: 203 cylinders, 2 surfaces, 12 sectors
// of 256 words (512 bytes) each.
const (
	Cylinders     = 203
	Surfaces      = 2
	SectorsPerTrk = 12
	WordsPerSect  = 256
	BytesPerSect  = WordsPerSect * 2
)

// RKCS function codes (bits 1-3).
const (
	funcReset = 0
	funcWrite = 1
	funcRead  = 2
	funcSeek  = 5
)

// RKCS bit layout.
const (
	csGo      = 1 << 0
	csFuncSh  = 1
	csFuncMsk = 0x7
	csIE      = 1 << 6
	csReady   = 1 << 7
	csErr     = 1 << 15
)

// RKER bit layout (subset: the errors a V6 driver actually checks for).
const (
	erNXC  = 1 << 6  // non-existent cylinder
	erNXS  = 1 << 5  // non-existent sector
	erTE   = 1 << 15 // composite error summary maps to csErr
	erWLO  = 1 << 13 // write lock violation
	erDE   = 1 << 14 // data error
)

// RK05 models one controller driving one attached cartridge.
type RK05 struct {
	bus   *unibus.Bus
	intr  *intr.Controller
	sched *event.Scheduler

	read  func(phys uint32, n int) ([]byte, *trap.Trap)
	write func(phys uint32, data []byte) *trap.Trap

	ds, er, cs, wc, ba, da uint16

	file     *os.File
	readOnly bool
}

// New creates an unattached RK05 controller and maps its registers on
// bus. read/write give the controller direct physical-memory access for
// DMA transfers (bypassing the CPU's MMU, as the real Unibus does).
func New(bus *unibus.Bus, ic *intr.Controller, sched *event.Scheduler,
	read func(phys uint32, n int) ([]byte, *trap.Trap),
	write func(phys uint32, data []byte) *trap.Trap) *RK05 {

	rk := &RK05{bus: bus, intr: ic, sched: sched, read: read, write: write}
	rk.ds = csReady
	rk.cs = csReady

	bus.Map(unibus.Register{Addr: RKDS, Read: rk.readDS, Write: func(uint16) {}})
	bus.Map(unibus.Register{Addr: RKER, Read: func() uint16 { return rk.er }, Write: func(uint16) {}})
	bus.Map(unibus.Register{Addr: RKCS, Read: func() uint16 { return rk.cs }, Write: rk.writeCS})
	bus.Map(unibus.Register{Addr: RKWC, Read: func() uint16 { return rk.wc }, Write: func(v uint16) { rk.wc = v }})
	bus.Map(unibus.Register{Addr: RKBA, Read: func() uint16 { return rk.ba }, Write: func(v uint16) { rk.ba = v }})
	bus.Map(unibus.Register{Addr: RKDA, Read: func() uint16 { return rk.da }, Write: func(v uint16) { rk.da = v }})
	return rk
}

// Attach opens path as the controller's backing image. readOnly sets
// the write-lock bit reported in RKDS.
func (rk *RK05) Attach(path string, readOnly bool) error {
	flag := os.O_RDWR
	if readOnly {
		flag = os.O_RDONLY
	}
	f, err := os.OpenFile(path, flag, 0o644)
	if err != nil {
		return err
	}
	rk.file = f
	rk.readOnly = readOnly
	rk.ds |= 1 << 11
	if readOnly {
		rk.ds |= 1 << 13
	}
	return nil
}

// Detach closes the backing image, if any.
func (rk *RK05) Detach() error {
	if rk.file == nil {
		return nil
	}
	err := rk.file.Close()
	rk.file = nil
	rk.ds &^= 1 << 11
	return err
}

// Registers returns the controller's register file, for snapshotting.
func (rk *RK05) Registers() (ds, er, cs, wc, ba, da uint16) {
	return rk.ds, rk.er, rk.cs, rk.wc, rk.ba, rk.da
}

// SetRegisters restores a snapshotted register state.
func (rk *RK05) SetRegisters(ds, er, cs, wc, ba, da uint16) {
	rk.ds, rk.er, rk.cs, rk.wc, rk.ba, rk.da = ds, er, cs, wc, ba, da
}

func (rk *RK05) readDS() uint16 {
	return rk.ds
}

// writeCS starts a function when software sets the GO bit.
func (rk *RK05) writeCS(v uint16) {
	rk.cs = (rk.cs &^ (csIE)) | (v & (csIE | (csFuncMsk << csFuncSh)))
	if v&csGo == 0 {
		return
	}
	rk.cs &^= csReady | csErr
	fn := (v >> csFuncSh) & csFuncMsk
	rk.sched.Add(rk, rk.complete, transferDelay, int(fn))
}

const transferDelay = 2000 // scheduler ticks to simulate seek+transfer latency

// complete runs the requested function against the backing file and
// raises the completion interrupt.
func (rk *RK05) complete(fn int) {
	var tr *trap.Trap
	switch fn {
	case funcRead:
		tr = rk.doTransfer(false)
	case funcWrite:
		tr = rk.doTransfer(true)
	case funcSeek, funcReset:
		// no data movement
	default:
	}

	rk.cs |= csReady
	if tr != nil {
		rk.cs |= csErr
		debug.Logf("rk05", "function %d failed: er=%o", fn, rk.er)
	}
	if rk.cs&csIE != 0 {
		rk.intr.Post(intr.Request{Vector: trap.RK05, BR: 5, Dev: "rk05"})
	}
}

// doTransfer moves rk.wc's two's-complement word count between the
// backing file (at the sector named by RKDA) and physical memory (at
// RKBA) in one step, then advances RKBA past the data and clears RKWC;
// no intermediate progress is visible while the transfer is pending.
func (rk *RK05) doTransfer(write bool) *trap.Trap {
	if rk.file == nil {
		rk.er |= erNXC
		return trap.New(trap.RK05)
	}
	if write && rk.readOnly {
		rk.er |= erWLO
		return trap.New(trap.RK05)
	}

	drive := (rk.da >> 13) & 0x7
	_ = drive
	cyl := (rk.da >> 5) & 0x1ff
	surf := (rk.da >> 4) & 0x1
	sect := rk.da & 0xf

	if int(cyl) >= Cylinders {
		rk.er |= erNXC
		return trap.New(trap.RK05)
	}
	if int(sect) >= SectorsPerTrk {
		rk.er |= erNXS
		return trap.New(trap.RK05)
	}

	track := int(cyl)*Surfaces + int(surf)
	offset := int64(track*SectorsPerTrk+int(sect)) * BytesPerSect

	words := int(int16(rk.wc)) * -1
	if words <= 0 {
		return nil
	}
	nbytes := words * 2

	if write {
		data, tr := rk.read(uint32(rk.ba), nbytes)
		if tr != nil {
			rk.er |= erDE
			return tr
		}
		if _, err := rk.file.WriteAt(data, offset); err != nil {
			rk.er |= erDE
			return trap.New(trap.RK05)
		}
	} else {
		buf := make([]byte, nbytes)
		n, err := rk.file.ReadAt(buf, offset)
		if err != nil && err != io.EOF {
			rk.er |= erDE
			return trap.New(trap.RK05)
		}
		for i := n; i < nbytes; i++ {
			buf[i] = 0
		}
		if tr := rk.write(uint32(rk.ba), buf); tr != nil {
			rk.er |= erDE
			return tr
		}
	}

	rk.ba += uint16(nbytes)
	rk.wc = 0
	return nil
}
