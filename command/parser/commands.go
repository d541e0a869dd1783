/*
 * pdp11 - Console commands.
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

package parser

import (
	"fmt"
	"strings"

	"pdp11/machine"
	"pdp11/util/octal"
)

// RK05 bootstrap ROM: the standard V6 "boot from unit 0" read-in that
// the console's boot switch would load, reading sector 0 (one 256-word
// block) into location 0 and transferring control there.
var rk05BootROM = []uint16{
	0o012700, 0o177412, // MOV #177412, R0   ; RKDA addr
	0o005010,           // CLR (R0)          ; drive/cyl/sect 0
	0o005040,           // CLR -(R0)         ; RKBA: load at location 0
	0o012740, 0o177400, // MOV #177400, -(R0); RKWC: -256 words, one sector
	0o012740, 0o000005, // MOV #5, -(R0)     ; RKCS: function=read, go
	0o105710,           // TSTB (R0)
	0o100376,           // BPL .-2
	0o005007,           // CLR PC
}

const bootROMBase = 0o10000

func cmdBoot(l *cmdLine, m *machine.Machine) (bool, error) {
	if m.Running() {
		return false, fmt.Errorf("machine is running; stop first")
	}
	m.LoadBoot(bootROMBase, rk05BootROM)
	m.Reset()
	m.CPU.R[7] = bootROMBase
	m.Start()
	return false, nil
}

func cmdReset(l *cmdLine, m *machine.Machine) (bool, error) {
	if m.Running() {
		return false, fmt.Errorf("machine is running; stop first")
	}
	m.Reset()
	return false, nil
}

func cmdGo(l *cmdLine, m *machine.Machine) (bool, error) {
	if arg := l.getWord(); arg != "" {
		addr, err := parseAddr(arg)
		if err != nil {
			return false, err
		}
		m.CPU.R[7] = uint16(addr)
	}
	m.Start()
	return false, nil
}

func cmdStop(l *cmdLine, m *machine.Machine) (bool, error) {
	m.Stop()
	return false, nil
}

func cmdStep(l *cmdLine, m *machine.Machine) (bool, error) {
	if m.Running() {
		return false, fmt.Errorf("machine is running; stop first")
	}
	n := 1
	if arg := l.getWord(); arg != "" {
		fmt.Sscanf(arg, "%d", &n)
	}
	for i := 0; i < n && !m.CPU.Halted(); i++ {
		m.Step()
	}
	fmt.Printf("R7 %s\n", octal.Word(m.CPU.R[7]))
	return false, nil
}

func cmdExamine(l *cmdLine, m *machine.Machine) (bool, error) {
	arg := l.getWord()
	addr, err := parseAddr(arg)
	if err != nil {
		return false, err
	}
	v, tr := m.Bus.ReadWord(addr)
	if tr != nil {
		return false, fmt.Errorf("bus error at %s", octal.Addr(addr))
	}
	fmt.Printf("%s: %s\n", octal.Addr(addr), octal.Word(v))
	return false, nil
}

func cmdDeposit(l *cmdLine, m *machine.Machine) (bool, error) {
	addrArg := l.getWord()
	valArg := l.getWord()
	addr, err := parseAddr(addrArg)
	if err != nil {
		return false, err
	}
	val, err := octal.Parse(valArg)
	if err != nil {
		return false, fmt.Errorf("bad value: %s", valArg)
	}
	if tr := m.Bus.WriteWord(addr, uint16(val)); tr != nil {
		return false, fmt.Errorf("bus error at %s", octal.Addr(addr))
	}
	return false, nil
}

func cmdAttach(l *cmdLine, m *machine.Machine) (bool, error) {
	dev := l.getWord()
	path := l.rest()
	if path == "" {
		return false, fmt.Errorf("usage: attach <device> <file>")
	}
	readOnly := false
	if strings.HasPrefix(path, "-ro ") {
		readOnly = true
		path = strings.TrimSpace(path[4:])
	}
	switch strings.ToLower(dev) {
	case "rk0", "rk05":
		if err := m.AttachRK0(path, readOnly); err != nil {
			return false, err
		}
	default:
		return false, fmt.Errorf("unknown device: %s", dev)
	}
	return false, nil
}

func cmdDetach(l *cmdLine, m *machine.Machine) (bool, error) {
	dev := l.getWord()
	switch strings.ToLower(dev) {
	case "rk0", "rk05":
		if err := m.RK0.Detach(); err != nil {
			return false, err
		}
	default:
		return false, fmt.Errorf("unknown device: %s", dev)
	}
	return false, nil
}

func cmdSave(l *cmdLine, m *machine.Machine) (bool, error) {
	path := l.rest()
	if path == "" {
		return false, fmt.Errorf("usage: save <file>")
	}
	return false, m.Save(path)
}

func cmdLoad(l *cmdLine, m *machine.Machine) (bool, error) {
	path := l.rest()
	if path == "" {
		return false, fmt.Errorf("usage: load <file>")
	}
	return false, m.Load(path)
}

func cmdShow(l *cmdLine, m *machine.Machine) (bool, error) {
	fmt.Printf("R0-R5: ")
	for i := 0; i < 6; i++ {
		fmt.Printf("%s ", octal.Word(m.CPU.R[i]))
	}
	fmt.Printf("\nSP  %s  PC  %s  PSW %s\n",
		octal.Word(m.CPU.R[6]), octal.Word(m.CPU.R[7]), octal.Word(m.CPU.PSW))
	fmt.Printf("halted=%v waiting=%v running=%v\n",
		m.CPU.Halted(), m.CPU.Waiting(), m.Running())
	return false, nil
}

func cmdQuit(l *cmdLine, m *machine.Machine) (bool, error) {
	m.Stop()
	return true, nil
}
