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

	"github.com/jetsetilly/gopher386/hardware/memory/mmio"
)

// Sentinel errors for physical memory access.
var (
	ErrAddressBound = errors.New("address out of bounds")
	ErrAccessLength = errors.New("illegal access length")
)

// Physical is the physical memory of the machine.
type Physical struct {
	data []byte
	mmio *mmio.Table
}

// NewPhysical is the preferred method of initialisation for the Physical
// type. The mmio table can be nil.
func NewPhysical(size uint32, table *mmio.Table) *Physical {
	if table == nil {
		table = mmio.NewTable("mmio")
	}
	return &Physical{
		data: make([]byte, size),
		mmio: table,
	}
}

// Size returns the number of bytes in physical memory.
func (p *Physical) Size() uint32 {
	return uint32(len(p.data))
}

// MMIO returns the table of memory mapped devices.
func (p *Physical) MMIO() *mmio.Table {
	return p.mmio
}

// Read width bytes from the physical address. Memory mapped devices take
// priority over RAM.
func (p *Physical) Read(address uint32, width int) (uint32, error) {
	if width < 1 || width > 4 {
		return 0, fmt.Errorf("memory: read of %d bytes: %w", width, ErrAccessLength)
	}

	if no := p.mmio.Lookup(address); no >= 0 {
		return p.mmio.Read(no, address, width) & mask(width), nil
	}

	if err := p.checkBounds(address, width); err != nil {
		return 0, err
	}

	var v uint32
	for i := width - 1; i >= 0; i-- {
		v = (v << 8) | uint32(p.data[address+uint32(i)])
	}
	return v, nil
}

// Write the low width bytes of data to the physical address.
func (p *Physical) Write(address uint32, width int, data uint32) error {
	if width < 1 || width > 4 {
		return fmt.Errorf("memory: write of %d bytes: %w", width, ErrAccessLength)
	}

	if no := p.mmio.Lookup(address); no >= 0 {
		p.mmio.Write(no, address, width, data&mask(width))
		return nil
	}

	if err := p.checkBounds(address, width); err != nil {
		return err
	}

	for i := 0; i < width; i++ {
		p.data[address+uint32(i)] = byte(data >> (i * 8))
	}
	return nil
}

// Load copies data into physical memory at the address. Memory mapped
// devices are not consulted.
func (p *Physical) Load(address uint32, data []byte) error {
	if uint64(address)+uint64(len(data)) > uint64(len(p.data)) {
		return fmt.Errorf("memory: load of %d bytes at %#08x: %w", len(data), address, ErrAddressBound)
	}
	copy(p.data[address:], data)
	return nil
}

// Clear sets all of physical memory to zero.
func (p *Physical) Clear() {
	clear(p.data)
}

func (p *Physical) checkBounds(address uint32, width int) error {
	if uint64(address)+uint64(width) > uint64(len(p.data)) {
		return fmt.Errorf("memory: physical address %#08x (size %#x): %w", address, len(p.data), ErrAddressBound)
	}
	return nil
}

func mask(width int) uint32 {
	if width >= 4 {
		return 0xffffffff
	}
	return (uint32(1) << (uint(width) * 8)) - 1
}
