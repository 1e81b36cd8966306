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

package rtl

import (
	"errors"
	"fmt"

	"github.com/jetsetilly/gopher386/hardware/cpu/registers"
)

// ErrParityUnsupported is returned by Setcc() when the condition depends on
// the parity flag, which is not implemented.
var ErrParityUnsupported = errors.New("parity flag not supported")

// Memory is the view of memory required by the micro-op layer. Addresses are
// virtual.
type Memory interface {
	Read(address uint32, width int) (uint32, error)
	Write(address uint32, width int, data uint32) error
}

// RTL gives micro-operations access to the registers and memory of the
// machine.
type RTL struct {
	regs *registers.Registers
	mem  Memory

	// temporaries available to instruction handlers. they have no
	// meaning between instructions
	T0 uint32
	T1 uint32
	T2 uint32
	T3 uint32
}

// NewRTL is the preferred method of initialisation for the RTL type.
func NewRTL(regs *registers.Registers, mem Memory) *RTL {
	return &RTL{
		regs: regs,
		mem:  mem,
	}
}

// Lr loads the register with index at the specified width.
func (r *RTL) Lr(index int, width int) uint32 {
	return r.regs.Read(index, width)
}

// Sr stores v in the register with index at the specified width.
func (r *RTL) Sr(index int, width int, v uint32) {
	r.regs.Write(index, width, v)
}

// Lm loads width bytes from the virtual address.
func (r *RTL) Lm(address uint32, width int) (uint32, error) {
	return r.mem.Read(address, width)
}

// Sm stores the low width bytes of v at the virtual address.
func (r *RTL) Sm(address uint32, width int, v uint32) error {
	return r.mem.Write(address, width, v)
}

// Push a 32-bit value onto the stack.
func (r *RTL) Push(v uint32) error {
	esp := r.regs.Read(registers.ESP, 4) - 4
	if err := r.mem.Write(esp, 4, v); err != nil {
		return fmt.Errorf("push: %w", err)
	}
	r.regs.Write(registers.ESP, 4, esp)
	return nil
}

// Pop a 32-bit value from the stack.
func (r *RTL) Pop() (uint32, error) {
	esp := r.regs.Read(registers.ESP, 4)
	v, err := r.mem.Read(esp, 4)
	if err != nil {
		return 0, fmt.Errorf("pop: %w", err)
	}
	r.regs.Write(registers.ESP, 4, esp+4)
	return v, nil
}

// GetCF returns the carry flag.
func (r *RTL) GetCF() bool { return r.regs.Status.Carry }

// SetCF sets the carry flag.
func (r *RTL) SetCF(v bool) { r.regs.Status.Carry = v }

// GetZF returns the zero flag.
func (r *RTL) GetZF() bool { return r.regs.Status.Zero }

// SetZF sets the zero flag.
func (r *RTL) SetZF(v bool) { r.regs.Status.Zero = v }

// GetSF returns the sign flag.
func (r *RTL) GetSF() bool { return r.regs.Status.Sign }

// SetSF sets the sign flag.
func (r *RTL) SetSF(v bool) { r.regs.Status.Sign = v }

// GetOF returns the overflow flag.
func (r *RTL) GetOF() bool { return r.regs.Status.Overflow }

// SetOF sets the overflow flag.
func (r *RTL) SetOF(v bool) { r.regs.Status.Overflow = v }

// GetIF returns the interrupt flag.
func (r *RTL) GetIF() bool { return r.regs.Status.InterruptEnabled }

// SetIF sets the interrupt flag.
func (r *RTL) SetIF(v bool) { r.regs.Status.InterruptEnabled = v }

// UpdateZF sets the zero flag according to the result at the width.
func (r *RTL) UpdateZF(result uint32, width int) {
	r.regs.Status.Zero = result&Mask(width) == 0
}

// UpdateSF sets the sign flag according to the result at the width.
func (r *RTL) UpdateSF(result uint32, width int) {
	r.regs.Status.Sign = Msb(result, width) == 1
}

// UpdateZFSF sets both the zero and sign flags.
func (r *RTL) UpdateZFSF(result uint32, width int) {
	r.UpdateZF(result, width)
	r.UpdateSF(result, width)
}
