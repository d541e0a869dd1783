/*
 * pdp11 - Local raw-mode terminal adapter for the DL-11 console.
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

// Package localtty feeds the DL-11 console from the host's own stdin/
// stdout instead of a network session: raw mode so the guest sees
// every keystroke unbuffered and unechoed, exactly the "byte-stream
// sink/source feeding the DL-11" role the console plays. It implements
// dl11.Terminal.
package localtty

import (
	"os"

	"golang.org/x/term"

	"pdp11/machine"
)

// TTY is a raw-mode wrapper around the process's controlling terminal.
type TTY struct {
	fd       int
	oldState *term.State
	out      *os.File
}

// Open switches the process's stdin into raw mode and returns a TTY.
// Restore must be called before the process exits to leave the
// terminal in a sane state.
func Open() (*TTY, error) {
	fd := int(os.Stdin.Fd())
	old, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	return &TTY{fd: fd, oldState: old, out: os.Stdout}, nil
}

// Restore puts the terminal back into its original (cooked) mode.
func (t *TTY) Restore() error {
	if t.oldState == nil {
		return nil
	}
	return term.Restore(t.fd, t.oldState)
}

// WriteByte implements dl11.Terminal: a byte the guest transmitted is
// written straight to the host's stdout.
func (t *TTY) WriteByte(b byte) {
	t.out.Write([]byte{b})
}

// Pump reads raw bytes from stdin and delivers them to m's console
// until stdin is closed or an error occurs, remapping Backspace (0x08)
// to DEL (0177). Run it in its own goroutine; it blocks on
// os.Stdin.Read.
func Pump(m *machine.Machine) error {
	buf := make([]byte, 1)
	for {
		n, err := os.Stdin.Read(buf)
		if n > 0 {
			b := buf[0]
			if b == 0x08 {
				b = 0o177
			}
			m.PostKey(b)
		}
		if err != nil {
			return err
		}
	}
}
