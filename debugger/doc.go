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

// Package debugger implements the interactive monitor for the emulated
// machine. The monitor reads commands from a terminal.Terminal, steps or
// runs the machine and reports on its state.
//
// Expressions given to the PRINT, EXAMINE and WATCH commands are evaluated
// by the expression package. Registers are referred to with a leading
// dollar sign and memory is dereferenced with the unary * operator. For
// example:
//
//	PRINT $eax + 4
//	WATCH *($esp + 8)
//
// While any watchpoint is active, every watched expression is evaluated
// after each instruction. A change of value halts execution.
//
// Fatal errors in the emulation are printed and returned by Start(). All
// other errors are printed and the monitor continues.
package debugger
