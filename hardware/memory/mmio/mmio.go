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

// Package mmio maps ranges of an address space to devices. Each range added
// to a Table is given a number, the map number, and accesses are dispatched
// to the device by that number.
//
// The physical memory uses a Table to divert accesses to memory mapped
// devices. The CPU uses a second Table for the I/O port space.
package mmio

import (
	"errors"
	"fmt"
	"strings"
)

// Device is implemented by anything that can be mapped into an address
// space. The offset is relative to the origin of the range and the width is
// in bytes.
type Device interface {
	Read(offset uint32, width int) uint32
	Write(offset uint32, width int, data uint32)
}

// Sentinel errors returned by Add().
var (
	ErrOverlap   = errors.New("range overlaps existing range")
	ErrEmptySize = errors.New("range has no size")
)

type entry struct {
	label  string
	origin uint32
	memtop uint32
	dev    Device
}

// Table of address ranges and the devices that serve them.
type Table struct {
	name    string
	entries []entry
}

// NewTable is the preferred method of initialisation for the Table type.
// The name is used in error messages and when listing the table.
func NewTable(name string) *Table {
	return &Table{name: name}
}

// Add a device at origin. The range is size bytes long. Returns the map
// number of the new range.
func (t *Table) Add(label string, origin uint32, size uint32, dev Device) (int, error) {
	if size == 0 {
		return -1, fmt.Errorf("mmio: %s: %s: %w", t.name, label, ErrEmptySize)
	}

	memtop := origin + size - 1
	if memtop < origin {
		return -1, fmt.Errorf("mmio: %s: %s: range wraps the address space", t.name, label)
	}

	for _, e := range t.entries {
		if origin <= e.memtop && memtop >= e.origin {
			return -1, fmt.Errorf("mmio: %s: %s with %s: %w", t.name, label, e.label, ErrOverlap)
		}
	}

	t.entries = append(t.entries, entry{
		label:  label,
		origin: origin,
		memtop: memtop,
		dev:    dev,
	})

	return len(t.entries) - 1, nil
}

// Lookup returns the map number for the address. Returns -1 if the address
// is not mapped.
func (t *Table) Lookup(address uint32) int {
	for i, e := range t.entries {
		if address >= e.origin && address <= e.memtop {
			return i
		}
	}
	return -1
}

// Read from the device with the map number.
func (t *Table) Read(no int, address uint32, width int) uint32 {
	e := t.entries[no]
	return e.dev.Read(address-e.origin, width)
}

// Write to the device with the map number.
func (t *Table) Write(no int, address uint32, width int, data uint32) {
	e := t.entries[no]
	e.dev.Write(address-e.origin, width, data)
}

// Range describes one entry in the table.
type Range struct {
	No     int
	Label  string
	Origin uint32
	Memtop uint32
}

// List returns the ranges in the table in map number order.
func (t *Table) List() []Range {
	l := make([]Range, 0, len(t.entries))
	for i, e := range t.entries {
		l = append(l, Range{
			No:     i,
			Label:  e.label,
			Origin: e.origin,
			Memtop: e.memtop,
		})
	}
	return l
}

// Len returns the number of ranges in the table.
func (t *Table) Len() int {
	return len(t.entries)
}

func (t *Table) String() string {
	s := strings.Builder{}
	for _, r := range t.List() {
		s.WriteString(fmt.Sprintf("%2d %-10s %#08x -> %#08x\n", r.No, r.Label, r.Origin, r.Memtop))
	}
	return s.String()
}
