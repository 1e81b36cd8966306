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

//go:build windows

package colorterm

import (
	"fmt"

	"github.com/jetsetilly/gopher386/debugger/terminal"
)

// ColorTerminal is not available on windows.
type ColorTerminal struct {
}

func (ct *ColorTerminal) Initialise() error {
	return fmt.Errorf("colorterm: color terminal not available on windows")
}

func (ct *ColorTerminal) CleanUp() {
}

func (ct *ColorTerminal) RegisterTabCompletion(tc terminal.TabCompletion) {
}

func (ct *ColorTerminal) IsInteractive() bool {
	return false
}

func (ct *ColorTerminal) Silence(silenced bool) {
}

func (ct *ColorTerminal) TermRead(input []byte, prompt terminal.Prompt, events *terminal.ReadEvents) (int, error) {
	return 0, nil
}

func (ct *ColorTerminal) TermReadCheck() bool {
	return false
}

func (ct *ColorTerminal) TermPrintLine(style terminal.Style, s string) {
}
