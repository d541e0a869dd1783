/*
 * pdp11 - Console command parser.
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

// Package parser implements the operator console's command language:
// boot/reset/go/stop/step/examine/deposit/attach/detach/save/load/quit.
// Commands are matched on a unique prefix the way the teacher's command
// parser does, down to the same cmdLine/matchCommand shape, generalized
// from a channel-device console to a single CPU/RK05/DL11 machine.
package parser

import (
	"errors"
	"fmt"
	"strings"

	"pdp11/machine"
	"pdp11/util/octal"
)

type cmd struct {
	name    string
	min     int
	process func(*cmdLine, *machine.Machine) (bool, error)
}

type cmdLine struct {
	line string
	pos  int
}

var cmdList = []cmd{
	{name: "boot", min: 4, process: cmdBoot},
	{name: "reset", min: 3, process: cmdReset},
	{name: "go", min: 2, process: cmdGo},
	{name: "continue", min: 1, process: cmdGo},
	{name: "stop", min: 4, process: cmdStop},
	{name: "step", min: 4, process: cmdStep},
	{name: "examine", min: 1, process: cmdExamine},
	{name: "deposit", min: 1, process: cmdDeposit},
	{name: "attach", min: 2, process: cmdAttach},
	{name: "detach", min: 2, process: cmdDetach},
	{name: "save", min: 2, process: cmdSave},
	{name: "load", min: 2, process: cmdLoad},
	{name: "show", min: 2, process: cmdShow},
	{name: "quit", min: 1, process: cmdQuit},
	{name: "exit", min: 4, process: cmdQuit},
}

// ProcessCommand runs one command line against m, returning true if the
// console should exit.
func ProcessCommand(commandLine string, m *machine.Machine) (bool, error) {
	line := cmdLine{line: commandLine}
	word := line.getWord()
	if word == "" {
		return false, nil
	}

	match := matchList(word)
	if len(match) == 0 {
		return false, fmt.Errorf("command not found: %s", word)
	}
	if len(match) > 1 {
		return false, fmt.Errorf("ambiguous command: %s", word)
	}
	return match[0].process(&line, m)
}

// CompleteCmd returns the candidate command names for line, for the
// liner completer. Unlike ProcessCommand this ignores each command's
// minimum-abbreviation length: while typing, any prefix is a candidate.
func CompleteCmd(commandLine string) []string {
	line := cmdLine{line: commandLine}
	word := strings.ToLower(line.getWord())
	var out []string
	for _, c := range cmdList {
		if strings.HasPrefix(c.name, word) {
			out = append(out, c.name)
		}
	}
	return out
}

func matchList(name string) []cmd {
	if name == "" {
		return nil
	}
	var out []cmd
	for _, c := range cmdList {
		if matchCommand(c, name) {
			out = append(out, c)
		}
	}
	return out
}

// matchCommand reports whether name is a prefix of c.name at least
// c.min characters long, or an exact match.
func matchCommand(c cmd, name string) bool {
	if len(name) > len(c.name) {
		return false
	}
	if !strings.EqualFold(c.name[:len(name)], name) {
		return false
	}
	return len(name) >= c.min || len(name) == len(c.name)
}

func (l *cmdLine) isEOL() bool {
	return l.pos >= len(l.line)
}

func (l *cmdLine) skipSpace() {
	for !l.isEOL() && l.line[l.pos] == ' ' {
		l.pos++
	}
}

func (l *cmdLine) getWord() string {
	l.skipSpace()
	start := l.pos
	for !l.isEOL() && l.line[l.pos] != ' ' {
		l.pos++
	}
	return l.line[start:l.pos]
}

func (l *cmdLine) rest() string {
	l.skipSpace()
	return l.line[l.pos:]
}

func parseAddr(s string) (uint32, error) {
	if s == "" {
		return 0, errors.New("missing address")
	}
	return octal.Parse(s)
}
