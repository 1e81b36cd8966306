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

// Package hardware is the base package for the emulated machine. The Machine
// type brings together the CPU, the memory and the peripherals and is used for
// all aspects of emulation: debugging sessions and batch runs.
//
// Devices are registered with two tables when the machine is created. The
// memory mapped device table is consulted for every physical memory access
// and the port table is consulted by the IN and OUT instructions. See the
// memorymap package for the addresses.
//
// The timer is driven by the number of instructions executed, not by the
// host clock. This keeps a run of the emulation deterministic.
package hardware
