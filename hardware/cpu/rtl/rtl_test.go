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

package rtl_test

import (
	"errors"
	"testing"

	"github.com/jetsetilly/gopher386/hardware/cpu/registers"
	"github.com/jetsetilly/gopher386/hardware/cpu/rtl"
	"github.com/jetsetilly/gopher386/test"
)

// flat little-endian memory for testing
type mockMem struct {
	data [0x1000]byte
}

func (m *mockMem) Read(address uint32, width int) (uint32, error) {
	var v uint32
	for i := width - 1; i >= 0; i-- {
		v = v<<8 | uint32(m.data[address+uint32(i)])
	}
	return v, nil
}

func (m *mockMem) Write(address uint32, width int, data uint32) error {
	for i := 0; i < width; i++ {
		m.data[address+uint32(i)] = byte(data >> (i * 8))
	}
	return nil
}

func TestExtension(t *testing.T) {
	test.ExpectEquality(t, rtl.Sext(0x80, 1), 0xffffff80)
	test.ExpectEquality(t, rtl.Sext(0x7f, 1), 0x7f)
	test.ExpectEquality(t, rtl.Sext(0x12348000, 2), 0xffff8000)
	test.ExpectEquality(t, rtl.Sext(0x80000000, 4), 0x80000000)
	test.ExpectEquality(t, rtl.Zext(0xffffff80, 1), 0x80)
	test.ExpectEquality(t, rtl.Zext(0xffff8000, 2), 0x8000)
	test.ExpectEquality(t, rtl.Msb(0x80, 1), 1)
	test.ExpectEquality(t, rtl.Msb(0x80, 2), 0)
	test.ExpectEquality(t, rtl.Eq0(0), 1)
	test.ExpectEquality(t, rtl.Neq0(0), 0)
	test.ExpectEquality(t, rtl.EqI(5, 5), 1)
}

func TestAddFlags(t *testing.T) {
	r, cf, of := rtl.AddFlags(0xff, 1, false, 1)
	test.ExpectEquality(t, r, 0)
	test.ExpectEquality(t, cf, true)
	test.ExpectEquality(t, of, false)

	r, cf, of = rtl.AddFlags(0x7f, 1, false, 1)
	test.ExpectEquality(t, r, 0x80)
	test.ExpectEquality(t, cf, false)
	test.ExpectEquality(t, of, true)

	r, cf, of = rtl.AddFlags(0xffffffff, 0, true, 4)
	test.ExpectEquality(t, r, 0)
	test.ExpectEquality(t, cf, true)
	test.ExpectEquality(t, of, false)

	r, cf, _ = rtl.AddFlags(0xfffe, 1, true, 2)
	test.ExpectEquality(t, r, 0)
	test.ExpectEquality(t, cf, true)
}

func TestSubFlags(t *testing.T) {
	r, cf, of := rtl.SubFlags(0, 1, false, 4)
	test.ExpectEquality(t, r, 0xffffffff)
	test.ExpectEquality(t, cf, true)
	test.ExpectEquality(t, of, false)

	r, cf, of = rtl.SubFlags(0x80, 1, false, 1)
	test.ExpectEquality(t, r, 0x7f)
	test.ExpectEquality(t, cf, false)
	test.ExpectEquality(t, of, true)

	r, cf, _ = rtl.SubFlags(5, 5, true, 4)
	test.ExpectEquality(t, r, 0xffffffff)
	test.ExpectEquality(t, cf, true)

	r, cf, of = rtl.SubFlags(10, 3, false, 2)
	test.ExpectEquality(t, r, 7)
	test.ExpectEquality(t, cf, false)
	test.ExpectEquality(t, of, false)
}

func TestStack(t *testing.T) {
	regs := registers.NewRegisters()
	mem := &mockMem{}
	r := rtl.NewRTL(regs, mem)

	regs.Write(registers.ESP, 4, 0x800)
	test.DemandSuccess(t, r.Push(0xdeadbeef))
	test.ExpectEquality(t, regs.Read(registers.ESP, 4), 0x7fc)
	test.DemandSuccess(t, r.Push(0x12345678))
	test.ExpectEquality(t, regs.Read(registers.ESP, 4), 0x7f8)

	v, err := r.Lm(0x7fc, 4)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, v, 0xdeadbeef)

	v, err = r.Pop()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, v, 0x12345678)
	v, err = r.Pop()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, v, 0xdeadbeef)
	test.ExpectEquality(t, regs.Read(registers.ESP, 4), 0x800)
}

func TestUpdateFlags(t *testing.T) {
	regs := registers.NewRegisters()
	r := rtl.NewRTL(regs, &mockMem{})

	r.UpdateZFSF(0x100, 1)
	test.ExpectEquality(t, r.GetZF(), true)
	test.ExpectEquality(t, r.GetSF(), false)

	r.UpdateZFSF(0x8000, 2)
	test.ExpectEquality(t, r.GetZF(), false)
	test.ExpectEquality(t, r.GetSF(), true)

	// register transfer does not affect flags
	r.Sr(registers.EAX, 4, 0)
	test.ExpectEquality(t, r.GetZF(), false)
}

func TestSetcc(t *testing.T) {
	regs := registers.NewRegisters()
	r := rtl.NewRTL(regs, &mockMem{})

	setcc := func(cc uint8) uint32 {
		t.Helper()
		v, err := r.Setcc(cc)
		test.DemandSuccess(t, err)
		return v
	}

	// all flags clear
	test.ExpectEquality(t, setcc(0x0), 0) // o
	test.ExpectEquality(t, setcc(0x1), 1) // no
	test.ExpectEquality(t, setcc(0x2), 0) // b
	test.ExpectEquality(t, setcc(0x4), 0) // e
	test.ExpectEquality(t, setcc(0x5), 1) // ne
	test.ExpectEquality(t, setcc(0xc), 0) // l
	test.ExpectEquality(t, setcc(0xf), 1) // nle

	// ZF=1, CF=0: E true, B false, BE true
	r.SetZF(true)
	test.ExpectEquality(t, setcc(0x4), 1)
	test.ExpectEquality(t, setcc(0x2), 0)
	test.ExpectEquality(t, setcc(0x6), 1)
	test.ExpectEquality(t, setcc(0x7), 0)

	// SF != OF: L true
	r.SetZF(false)
	r.SetSF(true)
	test.ExpectEquality(t, setcc(0xc), 1)
	test.ExpectEquality(t, setcc(0xe), 1)
	test.ExpectEquality(t, setcc(0x8), 1)
	r.SetOF(true)
	test.ExpectEquality(t, setcc(0xc), 0)
	test.ExpectEquality(t, setcc(0x0), 1)

	// parity is not supported
	_, err := r.Setcc(0xa)
	test.ExpectSuccess(t, errors.Is(err, rtl.ErrParityUnsupported))
	_, err = r.Setcc(0xb)
	test.ExpectSuccess(t, errors.Is(err, rtl.ErrParityUnsupported))
}
