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

// Package rtl is the micro-operation layer of the CPU. Every instruction is
// expressed as a short sequence of the operations in this package.
//
// Operations on values are pure functions of fixed-width operands (Sext,
// Zext, Msb, AddFlags, etc.). Operations that touch machine state are
// methods of the RTL type: register transfer, memory transfer, the stack and
// the flags. Arithmetic never touches the flags. Flags are only changed by
// the explicit flag operations or by the Update functions.
//
// Widths are always specified in bytes and must be 1, 2 or 4.
package rtl
