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
	"github.com/jetsetilly/gopher386/debugger/terminal/commandline"
)

// debugger keywords
const (
	cmdContinue = "CONTINUE"
	cmdStep     = "STEP"
	cmdInfo     = "INFO"
	cmdPrint    = "PRINT"
	cmdExamine  = "EXAMINE"
	cmdWatch    = "WATCH"
	cmdDelete   = "DELETE"
	cmdLog      = "LOG"
	cmdMemviz   = "MEMVIZ"
	cmdReset    = "RESET"
	cmdQuit     = "QUIT"
	cmdHelp     = "HELP"
)

var commandTemplate = []string{
	cmdContinue,
	cmdStep + " (%<count>N)",
	cmdInfo + " [REGS|WATCHES|DEVICES|R|W|D]",
	cmdPrint + " [%<expression>S] {%S}",
	cmdExamine + " [%<count>N] [%<expression>S] {%S}",
	cmdWatch + " [%<expression>S] {%S}",
	cmdDelete + " [%<watchpoint>N]",
	cmdLog + " (LAST|CLEAR)",
	cmdMemviz + " (%<file>F)",
	cmdReset,
	cmdQuit,
}

// short forms of commands
var commandAliases = map[string]string{
	"C":  cmdContinue,
	"SI": cmdStep,
	"P":  cmdPrint,
	"X":  cmdExamine,
	"W":  cmdWatch,
	"D":  cmdDelete,
	"Q":  cmdQuit,
}

var helps = map[string]string{
	cmdContinue: "Continue execution until the program ends or a watchpoint is hit.",
	cmdStep:     "Execute the next instruction, or the number of instructions specified. Each\ninstruction is printed as it is executed.",
	cmdInfo:     "Print the registers and flags (REGS or R) the list of watchpoints (WATCHES or W) or the devices in the memory and port maps (DEVICES or D).",
	cmdPrint:    "Evaluate the expression and print the result as unsigned, signed and\nhexadecimal values.",
	cmdExamine:  "Print count words of memory starting at the address given by the expression.",
	cmdWatch:    "Halt execution when the value of the expression changes.",
	cmdDelete:   "Delete the numbered watchpoint.",
	cmdLog:      "Print the central log. LAST prints the most recent entry only and CLEAR\nempties the log.",
	cmdMemviz:   "Write a graphviz rendering of the registers and active watchpoints to file.\nA unique filename is generated if one is not given.",
	cmdReset:    "Reset the machine and reload the program. Watchpoints are kept.",
	cmdQuit:     "Leave the debugger.",
	cmdHelp:     "Lists commands and provides help for individual commands.",
}

func parseCommandTemplate() (*commandline.Commands, error) {
	cmds, err := commandline.ParseCommandTemplate(commandTemplate)
	if err != nil {
		return nil, err
	}

	for alias, keyword := range commandAliases {
		if err := cmds.AddAlias(alias, keyword); err != nil {
			return nil, err
		}
	}

	if err := cmds.AddHelp(cmdHelp, helps); err != nil {
		return nil, err
	}

	return cmds, nil
}
