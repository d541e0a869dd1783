/*
 * pdp11 - Main process.
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

package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	getopt "github.com/pborman/getopt/v2"

	"pdp11/command/reader"
	"pdp11/config"
	"pdp11/dl11"
	"pdp11/localtty"
	"pdp11/machine"
	"pdp11/util/debug"
	"pdp11/util/logger"
)

var Logger *slog.Logger

func main() {
	optConfig := getopt.StringLong("config", 'c', "", "Configuration file")
	optRK0 := getopt.StringLong("rk0", 'r', "", "RK05 unit 0 image")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optRaw := getopt.BoolLong("raw", 0, "Drive the console from the local tty instead of stdin lines")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	var file *os.File
	if *optLogFile != "" {
		file, _ = os.Create(*optLogFile)
	}
	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelInfo)
	debugFlag := false
	Logger = slog.New(logger.NewHandler(file, &slog.HandlerOptions{Level: programLevel, AddSource: false}, &debugFlag))
	slog.SetDefault(Logger)

	Logger.Info("pdp11 started")

	var cfg *config.Config
	if *optConfig != "" {
		var err error
		cfg, err = config.Load(*optConfig)
		if err != nil {
			Logger.Error(err.Error())
			os.Exit(1)
		}
	} else {
		cfg = &config.Config{ClockHz: 60}
	}
	if *optRK0 != "" {
		cfg.RK0Path = *optRK0
	}
	debug.Enable(cfg.Debug...)

	var term dl11.Terminal
	var tty *localtty.TTY
	if *optRaw {
		t, err := localtty.Open()
		if err != nil {
			Logger.Error(err.Error())
			os.Exit(1)
		}
		tty = t
		term = tty
	}

	m := machine.New(term)
	m.Reset()

	if cfg.RK0Path != "" {
		if err := m.AttachRK0(cfg.RK0Path, cfg.RK0ReadOnly); err != nil {
			Logger.Error("attach rk0: " + err.Error())
			os.Exit(1)
		}
	}
	if cfg.BootAddr != 0 {
		m.CPU.R[7] = cfg.BootAddr
		m.CPU.BootPC = cfg.BootAddr
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	if *optRaw {
		go func() {
			if err := localtty.Pump(m); err != nil {
				Logger.Info("console pump stopped: " + err.Error())
			}
		}()
		go func() {
			<-sigChan
			close(done)
		}()
	} else {
		go func() {
			reader.ConsoleReader(m)
			close(done)
		}()
	}

	select {
	case <-sigChan:
	case <-done:
	}

	Logger.Info("shutting down")
	m.Shutdown()
	if tty != nil {
		tty.Restore()
	}
	time.Sleep(10 * time.Millisecond)
}
