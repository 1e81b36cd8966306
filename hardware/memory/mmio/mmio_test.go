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

package mmio_test

import (
	"errors"
	"testing"

	"github.com/jetsetilly/gopher386/hardware/memory/mmio"
	"github.com/jetsetilly/gopher386/test"
)

type mockDevice struct {
	lastOffset uint32
	lastWidth  int
	lastData   uint32
}

func (d *mockDevice) Read(offset uint32, width int) uint32 {
	d.lastOffset = offset
	d.lastWidth = width
	return 0xaa + offset
}

func (d *mockDevice) Write(offset uint32, width int, data uint32) {
	d.lastOffset = offset
	d.lastWidth = width
	d.lastData = data
}

func TestTable(t *testing.T) {
	tab := mmio.NewTable("test")

	a := &mockDevice{}
	b := &mockDevice{}

	no, err := tab.Add("a", 0x1000, 0x100, a)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, no, 0)

	no, err = tab.Add("b", 0x2000, 4, b)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, no, 1)

	test.ExpectEquality(t, tab.Lookup(0x0fff), -1)
	test.ExpectEquality(t, tab.Lookup(0x1000), 0)
	test.ExpectEquality(t, tab.Lookup(0x10ff), 0)
	test.ExpectEquality(t, tab.Lookup(0x1100), -1)
	test.ExpectEquality(t, tab.Lookup(0x2003), 1)
	test.ExpectEquality(t, tab.Lookup(0x2004), -1)

	// dispatch by map number with the offset relative to the origin
	test.ExpectEquality(t, tab.Read(0, 0x1010, 2), 0xba)
	test.ExpectEquality(t, a.lastOffset, 0x10)
	test.ExpectEquality(t, a.lastWidth, 2)

	tab.Write(1, 0x2002, 1, 0x55)
	test.ExpectEquality(t, b.lastOffset, 2)
	test.ExpectEquality(t, b.lastData, 0x55)
	test.ExpectEquality(t, a.lastData, 0)

	test.ExpectEquality(t, tab.Len(), 2)

	l := tab.List()
	test.DemandEquality(t, len(l), 2)
	test.ExpectEquality(t, l[1].Label, "b")
	test.ExpectEquality(t, l[1].Origin, 0x2000)
	test.ExpectEquality(t, l[1].Memtop, 0x2003)
}

func TestOverlap(t *testing.T) {
	tab := mmio.NewTable("test")

	_, err := tab.Add("a", 0x1000, 0x100, &mockDevice{})
	test.DemandSuccess(t, err)

	_, err = tab.Add("b", 0x10ff, 0x10, &mockDevice{})
	test.ExpectSuccess(t, errors.Is(err, mmio.ErrOverlap))

	_, err = tab.Add("c", 0x0f00, 0x101, &mockDevice{})
	test.ExpectSuccess(t, errors.Is(err, mmio.ErrOverlap))

	// adjacent is fine
	_, err = tab.Add("d", 0x0f00, 0x100, &mockDevice{})
	test.ExpectSuccess(t, err)

	_, err = tab.Add("e", 0x5000, 0, &mockDevice{})
	test.ExpectSuccess(t, errors.Is(err, mmio.ErrEmptySize))

	_, err = tab.Add("f", 0xfffffff0, 0x20, &mockDevice{})
	test.ExpectFailure(t, err)
}
