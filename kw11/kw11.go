/*
 * pdp11 - KW-11 line frequency clock.
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

// Package kw11 implements the line-frequency clock: a free-running
// 60Hz (configurable) ticker goroutine that posts a BR6 interrupt once
// per tick while enabled. The ticker-plus-enable-channel shape follows
// the teacher's timer.Timer, reworked as a single interrupt source
// instead of a master-channel event bus.
package kw11

import (
	"sync"
	"time"

	"pdp11/intr"
	"pdp11/trap"
	"pdp11/unibus"
)

// CSR is the KW11-L line clock status register address.
const CSR = 0o777546

const csrIE = 1 << 6

// KW11 is the line clock device: one status register (bit 7 = "tick
// happened", bit 6 = interrupt enable) and a background ticker.
type KW11 struct {
	mu     sync.Mutex
	intr   *intr.Controller
	csr    uint16
	ticker *time.Ticker
	done   chan struct{}
	wg     sync.WaitGroup
}

// New creates a KW11 ticking at interval (60Hz line frequency is
// 16.666...ms; a zero interval defaults to that) and maps its status
// register on bus.
func New(bus *unibus.Bus, ic *intr.Controller, interval time.Duration) *KW11 {
	if interval <= 0 {
		interval = 16666667 * time.Nanosecond
	}
	k := &KW11{intr: ic, ticker: time.NewTicker(interval), done: make(chan struct{})}
	k.wg.Add(1)
	go k.run()
	bus.Map(unibus.Register{Addr: CSR, Read: k.ReadCSR, Write: k.WriteCSR})
	return k
}

func (k *KW11) run() {
	defer k.wg.Done()
	for {
		select {
		case <-k.ticker.C:
			k.mu.Lock()
			k.csr |= 1 << 7
			enabled := k.csr&csrIE != 0
			k.mu.Unlock()
			if enabled {
				k.intr.Post(intr.Request{Vector: trap.Clock, BR: 6, Dev: "kw11"})
			}
		case <-k.done:
			return
		}
	}
}

// Stop halts the ticker goroutine. Call once, when the machine shuts
// down.
func (k *KW11) Stop() {
	k.ticker.Stop()
	close(k.done)
	k.wg.Wait()
}

// ReadCSR returns the clock status register.
func (k *KW11) ReadCSR() uint16 {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.csr
}

// WriteCSR sets the interrupt-enable bit and clears the tick flag if
// software acknowledges it by writing a 0 there.
func (k *KW11) WriteCSR(v uint16) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.csr = (k.csr & (1 << 7)) | (v & csrIE)
	if v&(1<<7) == 0 {
		k.csr &^= 1 << 7
	}
	if k.csr&csrIE == 0 {
		k.intr.Cancel("kw11")
	}
}
