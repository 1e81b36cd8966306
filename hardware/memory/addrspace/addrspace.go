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

// Package addrspace manages virtual address spaces for software running on
// the emulated machine. It writes page directories and page tables into
// physical memory in the format expected by the memory package.
//
// The Manager never allocates physical pages itself. Pages for directories
// and tables are requested from the PageAllocator supplied by the caller.
//
// All address spaces share the kernel mappings created by Init(). User
// mappings are made with Map() and are only visible in the Space they were
// made in.
package addrspace

import (
	"errors"
	"fmt"

	"github.com/jetsetilly/gopher386/hardware/memory"
	"github.com/jetsetilly/gopher386/hardware/memory/memorymap"
)

// PageAllocator returns the physical address of a free page.
type PageAllocator func() (uint32, error)

// Control is the part of the CPU that selects the active address space.
type Control interface {
	LoadPageDirectory(base uint32)
	EnablePaging()
}

// ErrNotInitialised is returned if Protect() is called before Init().
var ErrNotInitialised = errors.New("address space manager not initialised")

// Area is a range of virtual addresses.
type Area struct {
	Origin uint32
	Memtop uint32
}

// Space is a single address space.
type Space struct {
	PageDirectory uint32
	Area          Area
}

// Manager creates and switches between address spaces.
type Manager struct {
	phys  *memory.Physical
	alloc PageAllocator
	ctl   Control

	// page directory of the kernel. zero until Init() has been called
	kernel uint32

	// number of kernel PDEs. copied into every new address space
	kernelEntries uint32
}

// NewManager is the preferred method of initialisation for the Manager type.
func NewManager(phys *memory.Physical, alloc PageAllocator, ctl Control) *Manager {
	return &Manager{
		phys:  phys,
		alloc: alloc,
		ctl:   ctl,
	}
}

// Init identity maps the virtual addresses from zero to memtop, loads the
// kernel page directory and enables paging. Memtop must not be beyond
// memorymap.OriginUser.
func (m *Manager) Init(memtop uint32) error {
	if memtop > memorymap.OriginUser {
		return fmt.Errorf("addrspace: kernel memtop %#08x overlaps user area", memtop)
	}

	dir, err := m.newPage()
	if err != nil {
		return err
	}

	kernel := &Space{PageDirectory: dir, Area: Area{Origin: 0, Memtop: memtop}}
	for va := uint32(0); va < memtop; va += memorymap.PageSize {
		if err := m.Map(kernel, va, va); err != nil {
			return err
		}
	}

	m.kernel = dir
	m.kernelEntries = (memtop + (1 << 22) - 1) >> 22

	m.ctl.LoadPageDirectory(dir)
	m.ctl.EnablePaging()

	return nil
}

// Kernel returns the address space created by Init().
func (m *Manager) Kernel() *Space {
	return &Space{PageDirectory: m.kernel, Area: Area{Origin: 0, Memtop: memorymap.OriginUser}}
}

// Protect creates a new address space with the kernel mappings and an empty
// user area.
func (m *Manager) Protect() (*Space, error) {
	if m.kernel == 0 {
		return nil, fmt.Errorf("addrspace: %w", ErrNotInitialised)
	}

	dir, err := m.newPage()
	if err != nil {
		return nil, err
	}

	for i := uint32(0); i < m.kernelEntries; i++ {
		pde, err := m.phys.Read(m.kernel+i*4, 4)
		if err != nil {
			return nil, fmt.Errorf("addrspace: %w", err)
		}
		if err := m.phys.Write(dir+i*4, 4, pde); err != nil {
			return nil, fmt.Errorf("addrspace: %w", err)
		}
	}

	return &Space{
		PageDirectory: dir,
		Area:          Area{Origin: memorymap.OriginUser, Memtop: memorymap.MemtopUser},
	}, nil
}

// Map the page containing the virtual address to the page containing the
// physical address. A page table is allocated if necessary.
func (m *Manager) Map(s *Space, vaddr uint32, paddr uint32) error {
	pdeAddr := s.PageDirectory + memory.DirectoryIndex(vaddr)*4

	v, err := m.phys.Read(pdeAddr, 4)
	if err != nil {
		return fmt.Errorf("addrspace: %w", err)
	}

	pde := memory.PDE(v)
	if !pde.Present() {
		tab, err := m.newPage()
		if err != nil {
			return err
		}
		pde = memory.PDE(tab | memory.EntryPresent | memory.EntryWritable | memory.EntryUser)
		if err := m.phys.Write(pdeAddr, 4, uint32(pde)); err != nil {
			return fmt.Errorf("addrspace: %w", err)
		}
	}

	pte := (paddr &^ memorymap.PageMask) | memory.EntryPresent | memory.EntryWritable | memory.EntryUser
	if err := m.phys.Write(pde.Base()+memory.TableIndex(vaddr)*4, 4, pte); err != nil {
		return fmt.Errorf("addrspace: %w", err)
	}

	return nil
}

// Switch makes the address space the active one.
func (m *Manager) Switch(s *Space) {
	m.ctl.LoadPageDirectory(s.PageDirectory)
}

// Release the address space. Pages are never returned to the allocator so
// this does nothing.
func (m *Manager) Release(s *Space) {
}

// newPage allocates and clears a page.
func (m *Manager) newPage() (uint32, error) {
	pg, err := m.alloc()
	if err != nil {
		return 0, fmt.Errorf("addrspace: %w", err)
	}
	if pg&memorymap.PageMask != 0 {
		return 0, fmt.Errorf("addrspace: allocated page %#08x is not aligned", pg)
	}
	for i := uint32(0); i < memorymap.PageSize; i += 4 {
		if err := m.phys.Write(pg+i, 4, 0); err != nil {
			return 0, fmt.Errorf("addrspace: %w", err)
		}
	}
	return pg, nil
}

// ErrOutOfPages is returned by the allocator created with NewBumpAllocator()
// when there are no more pages.
var ErrOutOfPages = errors.New("out of pages")

// NewBumpAllocator returns a PageAllocator that hands out consecutive pages
// from origin up to memtop.
func NewBumpAllocator(origin uint32, memtop uint32) PageAllocator {
	next := (origin + memorymap.PageMask) &^ memorymap.PageMask
	return func() (uint32, error) {
		if next+memorymap.PageSize > memtop || next < origin {
			return 0, ErrOutOfPages
		}
		pg := next
		next += memorymap.PageSize
		return pg, nil
	}
}
