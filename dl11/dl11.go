/*
 * pdp11 - DL-11 console serial line.
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

// Package dl11 implements the console's DL-11 half-duplex serial
// interface: receiver/transmitter status and buffer registers, a
// bounded keyboard queue, and BR4 interrupts. The host side (the local
// raw terminal adapter) feeds PostKey and drains transmitted
// bytes through the Terminal it is given; dl11 itself never touches a
// socket or a tty.
package dl11

import (
	"pdp11/intr"
	"pdp11/trap"
	"pdp11/unibus"
)

// Register addresses in the I/O page.
const (
	RCSR = 0o777560
	RBUF = 0o777562
	XCSR = 0o777564
	XBUF = 0o777566
)

const (
	csrDone = 1 << 7
	csrIE   = 1 << 6
)

const queueDepth = 64

// Terminal is the host-side console adapter that displays bytes the
// guest transmits; localtty.TTY implements it. Typed bytes do not pass
// through it: the host side delivers them with PostKey.
type Terminal interface {
	// WriteByte delivers one character the guest wrote to XBUF.
	WriteByte(b byte)
}

// DL11 is one console line.
type DL11 struct {
	intr *intr.Controller
	term Terminal

	rcsr, xcsr uint16
	rbuf       uint16

	queue []byte
}

// New creates a DL11 with the transmitter initially ready and maps its
// four registers on bus.
func New(bus *unibus.Bus, ic *intr.Controller, term Terminal) *DL11 {
	d := &DL11{intr: ic, term: term, xcsr: csrDone}

	bus.Map(unibus.Register{Addr: RCSR, Read: func() uint16 { return d.rcsr }, Write: d.writeRCSR})
	bus.Map(unibus.Register{Addr: RBUF, Read: d.readRBUF, Write: func(uint16) {}})
	bus.Map(unibus.Register{Addr: XCSR, Read: func() uint16 { return d.xcsr }, Write: d.writeXCSR})
	bus.Map(unibus.Register{Addr: XBUF, Read: func() uint16 { return 0 }, Write: d.writeXBUF})
	return d
}

func (d *DL11) writeRCSR(v uint16) {
	d.rcsr = (d.rcsr &^ csrIE) | (v & csrIE)
	if d.rcsr&csrIE != 0 && d.rcsr&csrDone != 0 {
		d.intr.Post(intr.Request{Vector: trap.ConsoleIn, BR: 4, Dev: "dl11.rx"})
	} else {
		d.intr.Cancel("dl11.rx")
	}
}

func (d *DL11) readRBUF() uint16 {
	v := d.rbuf
	d.rcsr &^= csrDone
	d.intr.Cancel("dl11.rx")
	d.popQueue()
	return v
}

func (d *DL11) writeXCSR(v uint16) {
	wasIE := d.xcsr&csrIE != 0
	d.xcsr = (d.xcsr &^ csrIE) | (v & csrIE)
	if !wasIE && d.xcsr&csrIE != 0 && d.xcsr&csrDone != 0 {
		d.intr.Post(intr.Request{Vector: trap.ConsoleOut, BR: 4, Dev: "dl11.tx"})
	}
}

func (d *DL11) writeXBUF(v uint16) {
	d.xcsr &^= csrDone
	if d.term != nil {
		d.term.WriteByte(byte(v))
	}
	d.xcsr |= csrDone
	if d.xcsr&csrIE != 0 {
		d.intr.Post(intr.Request{Vector: trap.ConsoleOut, BR: 4, Dev: "dl11.tx"})
	}
}

// PostKey enqueues one byte typed at the console. If the receiver is
// idle it is loaded immediately; otherwise the byte waits in a bounded
// FIFO and is dropped if the queue is full, matching a real DL-11's
// lack of input buffering beyond one character deep plus host slack.
func (d *DL11) PostKey(b byte) {
	if d.rcsr&csrDone == 0 {
		d.loadRBUF(b)
		return
	}
	if len(d.queue) >= queueDepth {
		return
	}
	d.queue = append(d.queue, b)
}

func (d *DL11) loadRBUF(b byte) {
	d.rbuf = uint16(b)
	d.rcsr |= csrDone
	if d.rcsr&csrIE != 0 {
		d.intr.Post(intr.Request{Vector: trap.ConsoleIn, BR: 4, Dev: "dl11.rx"})
	}
}

// Registers returns the receiver/transmitter status and the buffered
// received word, for snapshotting. The pending keyboard queue is not
// preserved across a snapshot.
func (d *DL11) Registers() (rcsr, xcsr, rbuf uint16) {
	return d.rcsr, d.xcsr, d.rbuf
}

// SetRegisters restores a snapshotted register state.
func (d *DL11) SetRegisters(rcsr, xcsr, rbuf uint16) {
	d.rcsr, d.xcsr, d.rbuf = rcsr, xcsr, rbuf
}

func (d *DL11) popQueue() {
	if len(d.queue) == 0 {
		return
	}
	b := d.queue[0]
	d.queue = d.queue[1:]
	d.loadRBUF(b)
}
