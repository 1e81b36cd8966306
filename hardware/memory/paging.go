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

package memory

import (
	"errors"
	"fmt"

	"github.com/jetsetilly/gopher386/hardware/memory/memorymap"
)

// ErrPageNotPresent is returned when address translation finds a page
// directory or page table entry that is not present.
var ErrPageNotPresent = errors.New("page not present")

// flag bits common to both PDE and PTE values
const (
	EntryPresent  = 0x001
	EntryWritable = 0x002
	EntryUser     = 0x004
)

// PDE is a page directory entry.
type PDE uint32

// Present returns true if the entry points to a page table.
func (e PDE) Present() bool {
	return e&EntryPresent == EntryPresent
}

// Base returns the physical address of the page table.
func (e PDE) Base() uint32 {
	return uint32(e) &^ memorymap.PageMask
}

// PTE is a page table entry.
type PTE uint32

// Present returns true if the entry points to a page.
func (e PTE) Present() bool {
	return e&EntryPresent == EntryPresent
}

// Base returns the physical address of the page.
func (e PTE) Base() uint32 {
	return uint32(e) &^ memorymap.PageMask
}

// DirectoryIndex returns the page directory index of a virtual address.
func DirectoryIndex(vaddr uint32) uint32 {
	return (vaddr >> 22) & 0x3ff
}

// TableIndex returns the page table index of a virtual address.
func TableIndex(vaddr uint32) uint32 {
	return (vaddr >> 12) & 0x3ff
}

// PageOffset returns the offset of a virtual address within its page.
func PageOffset(vaddr uint32) uint32 {
	return vaddr & memorymap.PageMask
}

// Paging is the view of the CPU required for address translation.
type Paging interface {
	PagingEnabled() bool
	PageDirectory() uint32
}

// Translate a virtual address to a physical address. If paging is not
// enabled the virtual address is the physical address.
func (m *Memory) Translate(vaddr uint32) (uint32, error) {
	if m.paging == nil || !m.paging.PagingEnabled() {
		return vaddr, nil
	}

	dir := m.paging.PageDirectory()

	v, err := m.Phys.Read(dir+DirectoryIndex(vaddr)*4, 4)
	if err != nil {
		return 0, fmt.Errorf("memory: page directory: %w", err)
	}
	pde := PDE(v)
	if !pde.Present() {
		return 0, fmt.Errorf("memory: translate %#08x: pde %#08x: %w", vaddr, uint32(pde), ErrPageNotPresent)
	}

	v, err = m.Phys.Read(pde.Base()+TableIndex(vaddr)*4, 4)
	if err != nil {
		return 0, fmt.Errorf("memory: page table: %w", err)
	}
	pte := PTE(v)
	if !pte.Present() {
		return 0, fmt.Errorf("memory: translate %#08x: pte %#08x: %w", vaddr, uint32(pte), ErrPageNotPresent)
	}

	return pte.Base() | PageOffset(vaddr), nil
}
