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
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/jetsetilly/gopher386/debugger/expression"
	"github.com/jetsetilly/gopher386/debugger/terminal"
	"github.com/jetsetilly/gopher386/debugger/terminal/commandline"
	"github.com/jetsetilly/gopher386/debugger/watchpoints"
	"github.com/jetsetilly/gopher386/hardware"
	"github.com/jetsetilly/gopher386/hardware/cpu"
	"github.com/jetsetilly/gopher386/hardware/memory"
	"github.com/jetsetilly/gopher386/logger"
)

// size of the buffer used by TermRead()
const inputBufferSize = 256

// Debugger is the monitor for the emulated machine.
type Debugger struct {
	machine *hardware.Machine
	term    terminal.Terminal

	commands *commandline.Commands
	eval     *expression.Evaluator
	watches  *watchpoints.Watchpoints

	events *terminal.ReadEvents

	// the input loop continues while this is true
	running bool

	input []byte
}

// peeker reads memory on behalf of the expression evaluator.
type peeker struct {
	mem *memory.Memory
}

func (p peeker) Read(address uint32, width int) (uint32, error) {
	return p.mem.Peek(address, width)
}

// NewDebugger creates and initialises everything required for a new
// debugging session. Use the Start() method to actually begin the session.
func NewDebugger(machine *hardware.Machine, term terminal.Terminal) (*Debugger, error) {
	if term == nil {
		return nil, fmt.Errorf("debugger: no terminal")
	}

	dbg := &Debugger{
		machine: machine,
		term:    term,
		events: &terminal.ReadEvents{
			IntEvents: make(chan os.Signal, 1),
		},
		input: make([]byte, inputBufferSize),
	}

	var err error
	dbg.commands, err = parseCommandTemplate()
	if err != nil {
		return nil, fmt.Errorf("debugger: %w", err)
	}

	dbg.eval = expression.NewEvaluator(machine.Regs, peeker{mem: machine.Mem})
	dbg.watches = watchpoints.NewWatchpoints(dbg.eval)

	return dbg, nil
}

// Start the input loop. Returns when the user quits or a fatal error
// occurs. The fatal error is returned.
func (dbg *Debugger) Start() error {
	if err := dbg.term.Initialise(); err != nil {
		return fmt.Errorf("debugger: %w", err)
	}
	defer dbg.term.CleanUp()

	dbg.term.RegisterTabCompletion(commandline.NewTabCompletion(dbg.commands))

	signal.Notify(dbg.events.IntEvents, os.Interrupt)
	defer signal.Stop(dbg.events.IntEvents)

	dbg.printLine(terminal.StyleFeedback, "gopher386 debugger. type HELP for a list of commands")

	dbg.running = true
	for dbg.running {
		n, err := dbg.term.TermRead(dbg.input, dbg.prompt(), dbg.events)
		if err != nil {
			switch {
			case errors.Is(err, terminal.ErrUserAbort):
				return nil
			case errors.Is(err, terminal.ErrUserInterrupt):
				if !dbg.term.IsInteractive() {
					return nil
				}
				continue
			}
			return fmt.Errorf("debugger: %w", err)
		}

		if n == 0 {
			continue
		}

		line := strings.TrimRight(string(dbg.input[:n]), "\r\n")
		if err := dbg.parseCommand(line); err != nil {
			dbg.printLine(terminal.StyleError, "%s", err)
			if isFatal(err) {
				return err
			}
		}
	}

	return nil
}

func (dbg *Debugger) prompt() terminal.Prompt {
	mc := dbg.machine.CPU
	if mc.State == cpu.Running {
		return terminal.Prompt{
			Type:    terminal.PromptTypeCPUStep,
			Content: fmt.Sprintf("%#08x", mc.Regs.EIP),
		}
	}
	return terminal.Prompt{
		Type:    terminal.PromptTypeEnded,
		Content: mc.State.String(),
	}
}

// isFatal returns true if the error should end the debugging session.
func isFatal(err error) bool {
	return errors.Is(err, watchpoints.ErrPoolExhausted) || errors.Is(err, errFatal)
}

// errFatal wraps errors from the emulation that stop the machine.
var errFatal = errors.New("fatal")

// run the machine for n instructions. each instruction is printed if echo
// is true. execution stops early if the program ends, a watchpoint is hit or
// the user interrupts.
func (dbg *Debugger) run(n uint64, echo bool) error {
	mc := dbg.machine.CPU

	if mc.State == cpu.Ended {
		dbg.printLine(terminal.StyleFeedback, "program execution has ended. RESET to run again")
		return nil
	}

	// drain any interrupt that arrived while waiting for input
	select {
	case <-dbg.events.IntEvents:
	default:
	}

	callback := func() (bool, error) {
		if echo && !mc.Waiting {
			dbg.printLine(terminal.StyleCPUStep, "%s", mc.LastResult)
		}

		if dbg.watches.Active() {
			if hits, ok := dbg.watches.Check(); ok {
				for _, h := range hits {
					dbg.printLine(terminal.StyleHalt, "%s", h)
				}
				return false, nil
			}
		}

		select {
		case <-dbg.events.IntEvents:
			dbg.printLine(terminal.StyleHalt, "interrupted at %#08x", mc.Regs.EIP)
			return false, nil
		default:
		}

		// any input from the user halts a continuous run
		if !echo && dbg.term.TermReadCheck() {
			dbg.printLine(terminal.StyleHalt, "halted by input at %#08x", mc.Regs.EIP)
			return false, nil
		}

		return true, nil
	}

	_, err := dbg.machine.Run(n, callback)
	if err != nil {
		if errors.Is(err, cpu.ErrEnded) {
			dbg.printLine(terminal.StyleFeedback, "%s", err)
			return nil
		}
		logger.Log(logger.Allow, "debugger", err)
		return fmt.Errorf("%w: %w", errFatal, err)
	}

	if mc.State == cpu.Ended {
		// the instruction that ended the program isn't passed to the
		// callback
		if echo && !mc.Waiting {
			dbg.printLine(terminal.StyleCPUStep, "%s", mc.LastResult)
		}
		if mc.ExitCode == 0 {
			dbg.printLine(terminal.StyleHalt, "hit good trap at eip = %#08x", mc.LastResult.Address)
		} else {
			dbg.printLine(terminal.StyleHalt, "hit bad trap at eip = %#08x (exit code %d)", mc.LastResult.Address, mc.ExitCode)
		}
	}

	return nil
}
