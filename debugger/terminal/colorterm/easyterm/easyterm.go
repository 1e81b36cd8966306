// This file is part of Gopher386.
//
// Gopher386 is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Gopher386 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Gopher386.  If not, see <https://www.gnu.org/licenses/>.

//go:build !windows

// Package easyterm is a wrapper for "github.com/pkg/term/termios". It
// provides some features not present in the third-party package, such as
// terminal geometry, and wraps termios methods in functions with friendlier
// names.
package easyterm

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"
)

// EasyTerm is the main container for posix terminals. Usually embedded in
// other struct types.
type EasyTerm struct {
	input  *os.File
	output *os.File
	buffer *bufio.Writer

	canAttr    unix.Termios
	rawAttr    unix.Termios
	cbreakAttr unix.Termios

	// geometry is updated by the SIGWINCH handler
	mu     sync.Mutex
	width  int
	height int

	winch chan os.Signal
	done  chan bool
}

// Initialise the fields in the EasyTerm struct. The current terminal
// attributes are used for canonical mode.
func (et *EasyTerm) Initialise(input *os.File, output *os.File) error {
	et.input = input
	et.output = output
	et.buffer = bufio.NewWriter(output)

	if err := termios.Tcgetattr(et.input.Fd(), &et.canAttr); err != nil {
		return fmt.Errorf("easyterm: %w", err)
	}

	et.rawAttr = et.canAttr
	termios.Cfmakeraw(&et.rawAttr)

	et.cbreakAttr = et.canAttr
	termios.Cfmakecbreak(&et.cbreakAttr)

	et.updateGeometry()

	et.winch = make(chan os.Signal, 1)
	et.done = make(chan bool)
	signal.Notify(et.winch, syscall.SIGWINCH)

	go func() {
		for {
			select {
			case <-et.winch:
				et.updateGeometry()
			case <-et.done:
				return
			}
		}
	}()

	return nil
}

// CleanUp restores the terminal to its canonical mode and stops the
// geometry updates.
func (et *EasyTerm) CleanUp() {
	if et.done != nil {
		signal.Stop(et.winch)
		close(et.done)
		et.done = nil
	}
	_ = et.Flush()
	_ = et.CanonicalMode()
}

func (et *EasyTerm) updateGeometry() {
	ws, err := unix.IoctlGetWinsize(int(et.output.Fd()), unix.TIOCGWINSZ)

	et.mu.Lock()
	defer et.mu.Unlock()

	if err != nil {
		et.width = 80
		et.height = 24
		return
	}

	et.width = int(ws.Col)
	et.height = int(ws.Row)
}

// Geometry returns the width and height of the terminal.
func (et *EasyTerm) Geometry() (int, int) {
	et.mu.Lock()
	defer et.mu.Unlock()
	return et.width, et.height
}

func (et *EasyTerm) setAttr(attr *unix.Termios) error {
	if err := termios.Tcsetattr(et.input.Fd(), termios.TCSANOW, attr); err != nil {
		return fmt.Errorf("easyterm: %w", err)
	}
	return nil
}

// CanonicalMode puts the terminal into normal, everyday canonical mode.
func (et *EasyTerm) CanonicalMode() error {
	return et.setAttr(&et.canAttr)
}

// RawMode puts the terminal into raw mode.
func (et *EasyTerm) RawMode() error {
	return et.setAttr(&et.rawAttr)
}

// CBreakMode puts the terminal into cbreak mode. Characters are available
// as soon as they are typed and are not echoed.
func (et *EasyTerm) CBreakMode() error {
	return et.setAttr(&et.cbreakAttr)
}

// TermPrint writes the string to the terminal. The output is buffered until
// Flush() is called.
func (et *EasyTerm) TermPrint(s string) {
	_, _ = et.buffer.WriteString(s)
}

// Flush buffered output to the terminal.
func (et *EasyTerm) Flush() error {
	if et.buffer == nil {
		return nil
	}
	if err := et.buffer.Flush(); err != nil {
		return fmt.Errorf("easyterm: %w", err)
	}
	return nil
}
