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
	"fmt"

	"github.com/jetsetilly/gopher386/hardware/memory/memorymap"
)

// Memory is the virtual address path to physical memory.
type Memory struct {
	Phys   *Physical
	paging Paging
}

// NewMemory is the preferred method of initialisation for the Memory type.
// The paging argument is usually the CPU's register file.
func NewMemory(phys *Physical, paging Paging) *Memory {
	return &Memory{
		Phys:   phys,
		paging: paging,
	}
}

// AttachPaging sets the source of the paging state. Used when the register
// file is created after memory.
func (m *Memory) AttachPaging(paging Paging) {
	m.paging = paging
}

// Read width bytes from the virtual address. Width must be between one and
// four. An access that crosses a page boundary is split into two physical
// reads.
func (m *Memory) Read(vaddr uint32, width int) (uint32, error) {
	if width < 1 || width > 4 {
		return 0, fmt.Errorf("memory: read of %d bytes: %w", width, ErrAccessLength)
	}

	off := PageOffset(vaddr)
	if off+uint32(width) <= memorymap.PageSize {
		paddr, err := m.Translate(vaddr)
		if err != nil {
			return 0, err
		}
		return m.Phys.Read(paddr, width)
	}

	len1 := int(memorymap.PageSize - off)
	len2 := width - len1

	paddr, err := m.Translate(vaddr)
	if err != nil {
		return 0, err
	}
	lo, err := m.Phys.Read(paddr, len1)
	if err != nil {
		return 0, err
	}

	paddr, err = m.Translate(vaddr + uint32(len1))
	if err != nil {
		return 0, err
	}
	hi, err := m.Phys.Read(paddr, len2)
	if err != nil {
		return 0, err
	}

	return lo | (hi << (uint(len1) * 8)), nil
}

// Write the low width bytes of data to the virtual address. An access that
// crosses a page boundary is split into two physical writes.
func (m *Memory) Write(vaddr uint32, width int, data uint32) error {
	if width < 1 || width > 4 {
		return fmt.Errorf("memory: write of %d bytes: %w", width, ErrAccessLength)
	}

	off := PageOffset(vaddr)
	if off+uint32(width) <= memorymap.PageSize {
		paddr, err := m.Translate(vaddr)
		if err != nil {
			return err
		}
		return m.Phys.Write(paddr, width, data)
	}

	len1 := int(memorymap.PageSize - off)
	len2 := width - len1

	// both translations before either write so that a failed translation
	// of the second page leaves memory unchanged
	paddr1, err := m.Translate(vaddr)
	if err != nil {
		return err
	}
	paddr2, err := m.Translate(vaddr + uint32(len1))
	if err != nil {
		return err
	}

	if err := m.Phys.Write(paddr1, len1, data); err != nil {
		return err
	}
	return m.Phys.Write(paddr2, len2, data>>(uint(len1)*8))
}

// Peek reads width bytes from the virtual address on behalf of the debugger.
// It behaves exactly like Read().
func (m *Memory) Peek(vaddr uint32, width int) (uint32, error) {
	return m.Read(vaddr, width)
}
