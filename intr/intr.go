/*
 * pdp11 - Interrupt priority controller.
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

// Package intr holds the pending Unibus interrupt queue: a small set of
// device-posted {vector, BR level} records, sampled once per CPU
// instruction boundary. Devices and the clock/keyboard feeder goroutines
// post to it under a mutex; the CPU goroutine is the only reader.
package intr

import "sync"

// Request is one pending interrupt: a trap vector and the bus-request
// priority level (4..7) it was raised at. Dev identifies the source so
// that a device can never have more than one request pending at once.
type Request struct {
	Vector uint16
	BR     int
	Dev    string
}

// Controller holds the set of currently pending interrupt requests.
type Controller struct {
	mu      sync.Mutex
	pending []Request
}

// New returns an empty interrupt controller.
func New() *Controller {
	return &Controller{}
}

// Post adds a pending interrupt for a device, replacing any earlier
// request from the same device (at most one pending interrupt per
// device, per the machine's invariants).
func (c *Controller) Post(req Request) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.pending {
		if c.pending[i].Dev == req.Dev {
			c.pending[i] = req
			return
		}
	}
	c.pending = append(c.pending, req)
}

// Cancel removes any pending interrupt for the named device.
func (c *Controller) Cancel(dev string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.pending {
		if c.pending[i].Dev == dev {
			c.pending = append(c.pending[:i], c.pending[i+1:]...)
			return
		}
	}
}

// Pending returns a copy of the currently pending requests, for
// snapshotting.
func (c *Controller) Pending() []Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Request, len(c.pending))
	copy(out, c.pending)
	return out
}

// SetPending replaces the pending queue wholesale, for snapshot restore.
func (c *Controller) SetPending(reqs []Request) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = append([]Request(nil), reqs...)
}

// Any reports whether any interrupt is pending, regardless of priority.
// Used by WAIT to decide whether the CPU may resume.
func (c *Controller) Any() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending) > 0
}

// Take removes and returns the highest-priority pending request whose BR
// level is strictly greater than the given CPU priority, breaking ties by
// lowest vector address. Returns ok=false if nothing qualifies.
func (c *Controller) Take(priority int) (req Request, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	best := -1
	for i := range c.pending {
		if c.pending[i].BR <= priority {
			continue
		}
		if best == -1 {
			best = i
			continue
		}
		if c.pending[i].BR > c.pending[best].BR ||
			(c.pending[i].BR == c.pending[best].BR && c.pending[i].Vector < c.pending[best].Vector) {
			best = i
		}
	}
	if best == -1 {
		return Request{}, false
	}
	req = c.pending[best]
	c.pending = append(c.pending[:best], c.pending[best+1:]...)
	return req, true
}
