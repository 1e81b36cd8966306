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

// Package cpu emulates a 32-bit CPU implementing a subset of the x86
// instruction set. Instructions are executed one at a time by Step(). Run()
// executes many instructions, optionally calling a function after each one.
//
// Each instruction passes through the same stages: check for a pending
// external interrupt, fetch the opcode, decode the operands, execute and
// then commit the new value of EIP. The decode and execute stages for an
// opcode are found in the opcode tables. Instructions are implemented with
// the micro-operations in the rtl package.
//
// Any condition that the emulation does not support is fatal. This includes
// unimplemented opcodes, interrupt vectors beyond the limit of the interrupt
// descriptor table and access to a virtual address that is not mapped. After
// a fatal error the CPU is aborted and every subsequent call to Step() will
// return the same error.
//
// The guest program ends by executing the trap instruction (opcode 0xd6).
// The value of EAX at that point is the exit code and is available in the
// ExitCode field.
package cpu
