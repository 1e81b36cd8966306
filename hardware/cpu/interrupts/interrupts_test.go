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

package interrupts_test

import (
	"errors"
	"testing"

	"github.com/jetsetilly/gopher386/hardware/cpu/interrupts"
	"github.com/jetsetilly/gopher386/hardware/cpu/registers"
	"github.com/jetsetilly/gopher386/hardware/cpu/rtl"
	"github.com/jetsetilly/gopher386/hardware/memory"
	"github.com/jetsetilly/gopher386/test"
)

func setup(t *testing.T) (*interrupts.Controller, *registers.Registers, *memory.Memory) {
	t.Helper()
	regs := registers.NewRegisters()
	mem := memory.NewMemory(memory.NewPhysical(0x10000, nil), regs)
	ctrl := interrupts.NewController(regs, rtl.NewRTL(regs, mem))

	regs.IDTR.Base = 0x1000
	regs.IDTR.Limit = 0x800 - 1
	regs.Write(registers.ESP, 4, 0x8000)

	return ctrl, regs, mem
}

func TestRaise(t *testing.T) {
	ctrl, regs, mem := setup(t)

	// gate for vector 0x80 with handler address 0x00123456
	gate := uint32(0x1000 + 0x80*8)
	test.DemandSuccess(t, mem.Write(gate, 4, 0x00083456))
	test.DemandSuccess(t, mem.Write(gate+4, 4, 0x00128e00))

	regs.Status.InterruptEnabled = true
	regs.Status.Carry = true

	target, err := ctrl.Raise(0x80, 0x100007)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, target, 0x00123456)

	// interrupts are disabled
	test.ExpectEquality(t, regs.Status.InterruptEnabled, false)

	// stack holds the return address, CS and EFLAGS
	test.ExpectEquality(t, regs.Read(registers.ESP, 4), 0x8000-12)

	v, err := mem.Read(0x8000-12, 4)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v, 0x100007)

	v, err = mem.Read(0x8000-8, 4)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v, 8)

	// the pushed flags have the interrupt flag as it was before the raise
	v, err = mem.Read(0x8000-4, 4)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v, registers.FlagInterrupt|registers.FlagCarry|0x2)
}

func TestVectorLimit(t *testing.T) {
	ctrl, regs, _ := setup(t)

	regs.IDTR.Limit = 0x80*8 - 1
	_, err := ctrl.Raise(0x80, 0)
	test.ExpectSuccess(t, errors.Is(err, interrupts.ErrVectorLimit))

	// nothing was pushed
	test.ExpectEquality(t, regs.Read(registers.ESP, 4), 0x8000)

	_, err = ctrl.Raise(0x7f, 0)
	test.ExpectSuccess(t, err)
}

func TestExternalRequest(t *testing.T) {
	ctrl, _, _ := setup(t)

	test.ExpectEquality(t, ctrl.Pending(), false)
	ctrl.Request()
	ctrl.Request()
	test.ExpectEquality(t, ctrl.Pending(), true)
	ctrl.Acknowledge()
	test.ExpectEquality(t, ctrl.Pending(), false)
}
