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

// Package memory implements the memory of the emulated machine. Physical
// memory is a flat array of bytes. Memory mapped devices are dispatched
// through an mmio.Table which is consulted before physical memory.
//
// The Memory type provides the virtual address path used by the CPU. When
// paging is enabled, virtual addresses are translated with a two level walk
// of the page directory and page tables. An access that crosses a page
// boundary is split into two physical accesses.
//
// There is no page fault mechanism. A translation that finds an entry that
// is not present fails with ErrPageNotPresent and that error is fatal for the
// emulation.
package memory
