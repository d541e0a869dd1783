/*
 * pdp11 - Octal formatting helpers for the console and logs.
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

// Package octal formats machine words the way PDP-11 operators and
// listings do: fixed-width octal, never hex. Used by the examine/
// deposit console commands and by the config parser.
package octal

import "fmt"

// Word formats a 16-bit value as 6-digit zero-padded octal.
func Word(v uint16) string {
	return fmt.Sprintf("%06o", v)
}

// Byte formats an 8-bit value as 3-digit zero-padded octal.
func Byte(v uint8) string {
	return fmt.Sprintf("%03o", v)
}

// Addr formats an 18-bit physical address as 6-digit octal (the
// Unibus address space never needs more than 6 octal digits).
func Addr(v uint32) string {
	return fmt.Sprintf("%06o", v&0o777777)
}

// Parse reads an octal string (with or without a leading "0o") into a
// uint32, for console command arguments.
func Parse(s string) (uint32, error) {
	if len(s) > 2 && (s[:2] == "0o" || s[:2] == "0O") {
		s = s[2:]
	}
	var v uint32
	_, err := fmt.Sscanf(s, "%o", &v)
	if err != nil {
		return 0, err
	}
	return v, nil
}
