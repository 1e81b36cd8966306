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

// Package registers implements the register file of the 32-bit CPU. The
// general purpose registers can be accessed as 32-bit, 16-bit and 8-bit
// quantities and all views share the same storage. For example, writing to
// AX changes the lower 16 bits of EAX and writing to AH changes bits 8 to 15
// of EAX.
//
// Register indexes follow the instruction encoding. For 32-bit and 16-bit
// access the indexes are:
//
//	0 EAX/AX  1 ECX/CX  2 EDX/DX  3 EBX/BX
//	4 ESP/SP  5 EBP/BP  6 ESI/SI  7 EDI/DI
//
// For 8-bit access indexes 0 to 3 are the low bytes of the first four
// registers and indexes 4 to 7 are the high bytes of the same registers:
//
//	0 AL  1 CL  2 DL  3 BL  4 AH  5 CH  6 DH  7 BH
//
// The Status type represents the flags register. Flags are stored as
// individual fields and are packed into the EFLAGS layout with the Value()
// function.
package registers
