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

package colorterm

import (
	"fmt"
	"io"
	"unicode"

	"github.com/jetsetilly/gopher386/debugger/terminal"
	"github.com/jetsetilly/gopher386/debugger/terminal/colorterm/easyterm"
	"github.com/jetsetilly/gopher386/debugger/terminal/colorterm/easyterm/ansi"
	"github.com/jetsetilly/gopher386/logger"
)

// TermReadCheck implements the terminal.Input interface.
func (ct *ColorTerminal) TermReadCheck() bool {
	return len(ct.reader) > 0
}

// TermRead implements the terminal.Input interface.
func (ct *ColorTerminal) TermRead(input []byte, prompt terminal.Prompt, events *terminal.ReadEvents) (int, error) {
	if ct.silenced {
		return 0, nil
	}

	if err := ct.EasyTerm.CBreakMode(); err != nil {
		return 0, fmt.Errorf("colorterm: %w", err)
	}
	defer func() {
		_ = ct.EasyTerm.CanonicalMode()
	}()

	// the number of bytes in the line and the cursor position in the line
	n := 0
	cursor := 0

	// index into the command history. len(history) is the line being edited
	history := len(ct.commandHistory)

	// the line being edited before moving through the history
	var liveInput []byte

	redraw := func() {
		ct.EasyTerm.TermPrint(ansi.ClearLine)
		ct.EasyTerm.TermPrint(ansi.CursorHome)
		ct.printPrompt(prompt)
		ct.EasyTerm.TermPrint(string(input[:n]))
		ct.EasyTerm.TermPrint(ansi.CursorBack(n - cursor))
		_ = ct.EasyTerm.Flush()
	}

	replace := func(b []byte) {
		n = copy(input, b)
		cursor = n
	}

	if ct.tabCompletion != nil {
		ct.tabCompletion.Reset()
	}

	redraw()

	// escape sequences arrive one rune at a time
	esc := 0

	for {
		var rr readRune

		select {
		case <-events.IntEvents:
			ct.EasyTerm.TermPrint("\n")
			_ = ct.EasyTerm.Flush()
			return 0, terminal.ErrUserInterrupt
		case rr = <-ct.reader:
		}

		if rr.err != nil {
			if rr.err == io.EOF {
				return 0, terminal.ErrUserAbort
			}
			return 0, fmt.Errorf("colorterm: %w", rr.err)
		}

		r := rr.r

		switch esc {
		case 1:
			if r == easyterm.EscCursor {
				esc = 2
			} else {
				esc = 0
			}
			continue
		case 2:
			esc = 0
			switch r {
			case easyterm.CursorUp:
				if history > 0 {
					if history == len(ct.commandHistory) {
						liveInput = append(liveInput[:0], input[:n]...)
					}
					history--
					replace(ct.commandHistory[history].input)
				}
			case easyterm.CursorDown:
				if history < len(ct.commandHistory) {
					history++
					if history == len(ct.commandHistory) {
						replace(liveInput)
					} else {
						replace(ct.commandHistory[history].input)
					}
				}
			case easyterm.CursorForward:
				if cursor < n {
					cursor++
				}
			case easyterm.CursorBackward:
				if cursor > 0 {
					cursor--
				}
			case easyterm.CursorHome:
				cursor = 0
			case easyterm.CursorEnd:
				cursor = n
			case easyterm.EscDelete:
				esc = 3
				continue
			}
			redraw()
			continue
		case 3:
			// tilde completing the delete sequence
			esc = 0
			if r == '~' && cursor < n {
				copy(input[cursor:], input[cursor+1:n])
				n--
				redraw()
			}
			continue
		}

		switch r {
		case easyterm.KeyEsc:
			esc = 1

		case easyterm.KeyInterrupt:
			ct.EasyTerm.TermPrint("\n")
			_ = ct.EasyTerm.Flush()
			return 0, terminal.ErrUserInterrupt

		case easyterm.KeyEOF:
			if n == 0 {
				ct.EasyTerm.TermPrint("\n")
				_ = ct.EasyTerm.Flush()
				return 0, terminal.ErrUserAbort
			}

		case easyterm.KeySuspend:
			_ = ct.EasyTerm.CanonicalMode()
			if err := easyterm.SuspendProcess(); err != nil {
				logger.Log(logger.Allow, "colorterm", err)
			}
			_ = ct.EasyTerm.CBreakMode()
			redraw()

		case easyterm.KeyTab:
			if ct.tabCompletion != nil && cursor == n {
				replace([]byte(ct.tabCompletion.Complete(string(input[:n]))))
				redraw()
			}

		case easyterm.KeyCarriageReturn, easyterm.KeyLineFeed:
			ct.EasyTerm.TermPrint("\n")
			_ = ct.EasyTerm.Flush()

			if n > 0 {
				ct.commandHistory = append(ct.commandHistory, command{
					input: append([]byte{}, input[:n]...),
				})
			}

			if n < len(input) {
				input[n] = '\n'
				return n + 1, nil
			}
			return n, nil

		case easyterm.KeyBackspace, easyterm.KeyDelete:
			if cursor > 0 {
				copy(input[cursor-1:], input[cursor:n])
				cursor--
				n--
				redraw()
			}

		default:
			if ct.tabCompletion != nil {
				ct.tabCompletion.Reset()
			}

			if !unicode.IsPrint(r) || r > unicode.MaxASCII {
				continue
			}

			// leave room for the newline
			if n >= len(input)-1 {
				continue
			}

			copy(input[cursor+1:], input[cursor:n])
			input[cursor] = byte(r)
			cursor++
			n++
			redraw()
		}
	}
}
