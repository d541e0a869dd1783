/*
 * pdp11 - Configuration file parser.
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

// Package config reads the machine's startup configuration file: one
// directive per line, '#' starts a comment, blank lines are ignored.
// The line format is the teacher's <directive> <whitespace> <args>
// shape, cut down from a multi-model channel/device registry to the
// handful of directives a single PDP-11/40 needs.
//
// Recognized directives:
//
//	rk0 <path> [ro]     attach path as the RK05 cartridge image
//	boot <octal-addr>   address the CPU starts at (initial PC and BootPC)
//	clock <hz>          stored in ClockHz; the machine does not apply it,
//	                    and its line clock always ticks at 60Hz
//	debug <flag>        enable a debug flag (repeatable)
package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"pdp11/util/octal"
)

// Config holds the directives read from a configuration file.
type Config struct {
	RK0Path   string
	RK0ReadOnly bool
	BootAddr  uint16
	ClockHz   int
	Debug     []string
}

// Load reads and parses the configuration file at path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads directives from r.
func Parse(r io.Reader) (*Config, error) {
	cfg := &Config{ClockHz: 60}
	scanner := bufio.NewScanner(r)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		directive := strings.ToLower(fields[0])
		args := fields[1:]
		if err := cfg.apply(directive, args); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNumber, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) apply(directive string, args []string) error {
	switch directive {
	case "rk0":
		if len(args) == 0 {
			return fmt.Errorf("rk0: missing path")
		}
		cfg.RK0Path = args[0]
		for _, a := range args[1:] {
			if strings.EqualFold(a, "ro") {
				cfg.RK0ReadOnly = true
			}
		}
	case "boot":
		if len(args) == 0 {
			return fmt.Errorf("boot: missing address")
		}
		addr, err := octal.Parse(args[0])
		if err != nil {
			return fmt.Errorf("boot: %w", err)
		}
		cfg.BootAddr = uint16(addr)
	case "clock":
		if len(args) == 0 {
			return fmt.Errorf("clock: missing rate")
		}
		hz, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("clock: %w", err)
		}
		cfg.ClockHz = hz
	case "debug":
		cfg.Debug = append(cfg.Debug, args...)
	default:
		return fmt.Errorf("unknown directive: %s", directive)
	}
	return nil
}
