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

package debugger

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/bradleyjkemp/memviz"
	"github.com/jetsetilly/gopher386/debugger/terminal"
	"github.com/jetsetilly/gopher386/debugger/terminal/commandline"
	"github.com/jetsetilly/gopher386/hardware/cpu"
	"github.com/jetsetilly/gopher386/hardware/cpu/registers"
	"github.com/jetsetilly/gopher386/logger"
	"github.com/jetsetilly/gopher386/paths"
)

// parseCommand tokenises and validates the input and then runs the command.
// Errors returned from this function are printed by the input loop.
func (dbg *Debugger) parseCommand(input string) error {
	tokens := commandline.TokeniseInput(input)

	// check validity of input. this allows us to ignore the success flag
	// when calling tokens.Get() for required arguments
	if err := dbg.commands.ValidateTokens(tokens); err != nil {
		return err
	}

	command, ok := tokens.Get()
	if !ok {
		// user pressed return
		return nil
	}

	switch command {
	case cmdHelp:
		keyword, ok := tokens.Get()
		if ok {
			dbg.printLine(terminal.StyleHelp, dbg.commands.Help(keyword))
		} else {
			dbg.printLine(terminal.StyleHelp, dbg.commands.HelpOverview())
		}

	case cmdQuit:
		dbg.running = false

	case cmdReset:
		if err := dbg.machine.Reset(); err != nil {
			return err
		}
		dbg.printLine(terminal.StyleFeedback, "machine reset")

	case cmdContinue:
		return dbg.run(cpu.Unbounded, false)

	case cmdStep:
		count := 1
		if s, ok := tokens.Get(); ok {
			n, _ := strconv.ParseInt(s, 0, 32)
			if n <= 0 {
				return fmt.Errorf("step count must be positive (%s)", s)
			}
			count = int(n)
		}
		return dbg.run(uint64(count), true)

	case cmdInfo:
		arg, _ := tokens.Get()
		switch arg {
		case "REGS", "R":
			dbg.printRegisters()
		case "WATCHES", "W":
			dbg.printLine(terminal.StyleInstrument, "%s", dbg.watches.String())
		case "DEVICES", "D":
			dbg.printLine(terminal.StyleInstrument, "memory mapped\n%s", dbg.machine.MMIO)
			dbg.printLine(terminal.StyleInstrument, "ports\n%s", dbg.machine.Ports)
		}

	case cmdPrint:
		expr := tokens.Remainder()
		v, err := dbg.eval.Evaluate(expr)
		if err != nil {
			return err
		}
		dbg.printLine(terminal.StyleInstrument, "%s = %dU = %d = %#x", expr, v, int32(v), v)

	case cmdExamine:
		s, _ := tokens.Get()
		n, _ := strconv.ParseInt(s, 0, 32)
		if n <= 0 {
			return fmt.Errorf("word count must be positive (%s)", s)
		}

		expr := tokens.Remainder()
		addr, err := dbg.eval.Evaluate(expr)
		if err != nil {
			return err
		}

		return dbg.examine(addr, int(n))

	case cmdWatch:
		expr := tokens.Remainder()
		no, err := dbg.watches.Insert(expr)
		if err != nil {
			return err
		}
		dbg.printLine(terminal.StyleFeedback, "watchpoint %d: %s", no, strings.TrimSpace(expr))

	case cmdDelete:
		s, _ := tokens.Get()
		no, _ := strconv.ParseInt(s, 0, 32)
		if !dbg.watches.Delete(int(no)) {
			return fmt.Errorf("no watchpoint %d", no)
		}
		dbg.printLine(terminal.StyleFeedback, "watchpoint %d deleted", no)

	case cmdLog:
		arg, ok := tokens.Get()
		if !ok {
			logger.Write(dbg.writerInStyle(terminal.StyleLog))
			return nil
		}
		switch arg {
		case "LAST":
			logger.Tail(dbg.writerInStyle(terminal.StyleLog), 1)
		case "CLEAR":
			logger.Clear()
		}

	case cmdMemviz:
		filename, ok := tokens.Get()
		if !ok {
			filename = fmt.Sprintf("%s.dot", paths.UniqueFilename("memviz", ""))
		}
		if err := dbg.memviz(filename); err != nil {
			return err
		}
		dbg.printLine(terminal.StyleFeedback, "memviz written to %s", filename)
	}

	return nil
}

// registers in the style of the NEMU monitor
func (dbg *Debugger) printRegisters() {
	regs := dbg.machine.Regs

	s := strings.Builder{}
	for i, n := range registers.Names32 {
		v := regs.Read(i, 4)
		s.WriteString(fmt.Sprintf("%s\t0x%08x\t%d\n", n, v, v))
	}
	s.WriteString(fmt.Sprintf("eip\t0x%08x\t%d\n", regs.EIP, regs.EIP))

	b := func(f bool) int {
		if f {
			return 1
		}
		return 0
	}
	sr := regs.Status
	s.WriteString(fmt.Sprintf("[OF IF SF ZF CF] = [%d %d %d %d %d]",
		b(sr.Overflow), b(sr.InterruptEnabled), b(sr.Sign), b(sr.Zero), b(sr.Carry)))

	dbg.printLine(terminal.StyleInstrument, "%s", s.String())
}

// examine memory as 4 byte words, one word per line. bytes are printed in
// address order
func (dbg *Debugger) examine(addr uint32, count int) error {
	for i := 0; i < count; i++ {
		a := addr + uint32(i*4)

		s := strings.Builder{}
		s.WriteString(fmt.Sprintf("  0x%x:    ", a))
		for j := uint32(0); j < 4; j++ {
			v, err := dbg.machine.Mem.Peek(a+j, 1)
			if err != nil {
				return fmt.Errorf("cannot access memory at %#08x: %w", a+j, err)
			}
			s.WriteString(fmt.Sprintf("%02x ", v))
		}

		dbg.printLine(terminal.StyleInstrument, "%s", strings.TrimRight(s.String(), " "))
	}
	return nil
}

// memviz writes a graphviz rendering of the register file and the active
// watchpoints to the named file
func (dbg *Debugger) memviz(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("memviz: %w", err)
	}

	memviz.Map(f, dbg.machine.Regs, dbg.watches.List())

	if err := f.Close(); err != nil {
		return fmt.Errorf("memviz: %w", err)
	}

	return nil
}
