/*
 * pdp11 - Event scheduler
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

// Package event is a cycle-counted callback scheduler used by the
// Unibus devices (RK05 seek/transfer completion) to defer
// work without spawning a goroutine per device. It is the same
// sorted-linked-list design as the teacher's event scheduler, turned
// into a struct so the machine owns one Scheduler value instead of the
// package holding the list itself.
package event

// Callback is invoked when an event's remaining ticks reach zero.
type Callback func(arg int)

type node struct {
	ticks int
	cb    Callback
	arg   int
	owner any
	prev  *node
	next  *node
}

// Scheduler is a sorted list of pending callbacks, each carrying a
// tick count relative to the event before it.
type Scheduler struct {
	head *node
	tail *node
}

// New returns an empty Scheduler.
func New() *Scheduler {
	return &Scheduler{}
}

// Add schedules cb to run after the given number of ticks. owner
// identifies the device for Cancel; arg is passed through to cb.
// Scheduling with ticks <= 0 runs the callback immediately.
func (s *Scheduler) Add(owner any, cb Callback, ticks int, arg int) {
	if ticks <= 0 {
		cb(arg)
		return
	}

	ev := &node{owner: owner, cb: cb, ticks: ticks, arg: arg}

	cur := s.head
	if cur == nil {
		s.head = ev
		s.tail = ev
		return
	}

	for cur != nil {
		if ev.ticks <= cur.ticks {
			cur.ticks -= ev.ticks
			ev.prev = cur.prev
			ev.next = cur
			cur.prev = ev
			if ev.prev != nil {
				ev.prev.next = ev
			} else {
				s.head = ev
			}
			return
		}
		ev.ticks -= cur.ticks
		cur = cur.next
	}

	ev.prev = s.tail
	s.tail.next = ev
	s.tail = ev
}

// Cancel removes the first pending event matching owner and arg, if any.
func (s *Scheduler) Cancel(owner any, arg int) {
	for cur := s.head; cur != nil; cur = cur.next {
		if cur.owner != owner || cur.arg != arg {
			continue
		}
		if cur.next != nil {
			cur.next.ticks += cur.ticks
			cur.next.prev = cur.prev
		} else {
			s.tail = cur.prev
		}
		if cur.prev != nil {
			cur.prev.next = cur.next
		} else {
			s.head = cur.next
		}
		return
	}
}

// Advance moves time forward by t ticks, running and removing every
// event whose remaining ticks drop to zero or below.
func (s *Scheduler) Advance(t int) {
	cur := s.head
	if cur == nil {
		return
	}
	cur.ticks -= t
	for cur != nil && cur.ticks <= 0 {
		cb, arg := cur.cb, cur.arg
		s.head = cur.next
		if s.head != nil {
			s.head.prev = nil
		} else {
			s.tail = nil
		}
		cb(arg)
		cur = s.head
	}
}

// Pending reports whether any event is scheduled.
func (s *Scheduler) Pending() bool {
	return s.head != nil
}
