/*
 * pdp11 - Per-module debug logging.
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

// Package debug gates per-module trace logging behind the "debug"
// directives in a configuration file (config.Config.Debug), the same
// opt-in-by-name idea as the teacher's DEBUGFILE device, reworked to
// write through slog instead of a dedicated debug file.
package debug

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

var (
	mu      sync.RWMutex
	enabled = map[string]bool{}
)

// Enable turns on trace logging for the named module (e.g. "mmu", "bus",
// "rk05"). Names are matched case-insensitively.
func Enable(modules ...string) {
	mu.Lock()
	defer mu.Unlock()
	for _, m := range modules {
		enabled[strings.ToLower(m)] = true
	}
}

// Enabled reports whether tracing is on for module.
func Enabled(module string) bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled[strings.ToLower(module)]
}

// Logf emits a debug-level slog record tagged with module, if and only
// if that module has been Enabled.
func Logf(module string, format string, a ...any) {
	if !Enabled(module) {
		return
	}
	slog.Debug(formatMsg(format, a...), "module", module)
}

func formatMsg(format string, a ...any) string {
	if len(a) == 0 {
		return format
	}
	return fmt.Sprintf(format, a...)
}
