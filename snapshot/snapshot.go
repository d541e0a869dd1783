/*
 * pdp11 - Machine state snapshots.
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

// Package snapshot saves and restores a running Machine's complete
// architectural state: CPU registers and both banks, the MMU's page
// register files, pending interrupts, and the full RAM image. There is
// no library in the retrieved corpus for structured save/restore, so
// this is one of the few places the module reaches for the standard
// library (encoding/gob) rather than a third-party codec.
package snapshot

import (
	"encoding/gob"
	"io"

	"pdp11/intr"
)

// State is the flat, gob-encodable image of everything
// machine.Machine.Capture records. Field names are exported so gob can see them; nothing
// outside this package should construct one directly except via
// machine.Machine accessors.
type State struct {
	R             [8]uint16
	Alt           [6]uint16
	KSP, USP, PSW uint16
	BootPC        uint16
	Halted        bool
	Waiting       bool

	PAR, PDR [2][8]uint16
	SR0      uint16

	Pending []intr.Request

	RCSR, XCSR, RBUF uint16

	ClockCSR uint16

	RK05 DiskState

	RAM []uint16
}

// DiskState captures the RK05 controller's register file. A transfer's
// pending completion event is not captured, so a transfer in progress
// at capture time does not complete after a restore.
type DiskState struct {
	DS, ER, CS, WC, BA, DA uint16
}

// Write gob-encodes s to w.
func Write(w io.Writer, s *State) error {
	return gob.NewEncoder(w).Encode(s)
}

// Read gob-decodes a State from r.
func Read(r io.Reader) (*State, error) {
	var s State
	if err := gob.NewDecoder(r).Decode(&s); err != nil {
		return nil, err
	}
	return &s, nil
}
