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

package cpu

import (
	"github.com/jetsetilly/gopher386/hardware/cpu/registers"
)

// TrapFrame is the saved state of the CPU passed to a TrapHandler. The field
// order matches the layout of the frame as it would be built on the guest
// stack.
type TrapFrame struct {
	EFLAGS    uint32
	CS        uint32
	EIP       uint32
	ErrorCode uint32
	IRQ       uint32

	EAX uint32
	ECX uint32
	EDX uint32
	EBX uint32
	ESP uint32
	EBP uint32
	ESI uint32
	EDI uint32
}

// SyscallArg returns the nth argument of a system call. The system call number
// is argument zero and is in EAX. The following arguments are in EBX, ECX and
// EDX. Returns zero for any other argument.
func (tf *TrapFrame) SyscallArg(n int) uint32 {
	switch n {
	case 0:
		return tf.EAX
	case 1:
		return tf.EBX
	case 2:
		return tf.ECX
	case 3:
		return tf.EDX
	}
	return 0
}

// SetSyscallReturn sets the return value of a system call.
func (tf *TrapFrame) SetSyscallReturn(v uint32) {
	tf.EAX = v
}

// TrapHandler is implemented by host code that services software interrupts.
// The returned frame is the state the CPU resumes with. Returning the frame
// argument unchanged resumes at the instruction following the INT. Returning
// nil passes the interrupt to the guest's interrupt descriptor table.
type TrapHandler interface {
	HandleTrap(tf *TrapFrame) *TrapFrame
}

// saveFrame builds a frame from the current CPU state. the return address is
// the address of the next instruction.
func (mc *CPU) saveFrame(vector uint8, returnAddr uint32) *TrapFrame {
	r := mc.Regs
	return &TrapFrame{
		EFLAGS: r.Status.Value(),
		CS:     uint32(r.CS),
		EIP:    returnAddr,
		IRQ:    uint32(vector),
		EAX:    r.Read(registers.EAX, 4),
		ECX:    r.Read(registers.ECX, 4),
		EDX:    r.Read(registers.EDX, 4),
		EBX:    r.Read(registers.EBX, 4),
		ESP:    r.Read(registers.ESP, 4),
		EBP:    r.Read(registers.EBP, 4),
		ESI:    r.Read(registers.ESI, 4),
		EDI:    r.Read(registers.EDI, 4),
	}
}

// restoreFrame loads the CPU state from the frame and returns the address to
// resume at.
func (mc *CPU) restoreFrame(tf *TrapFrame) uint32 {
	r := mc.Regs
	r.Status.FromValue(tf.EFLAGS)
	r.CS = uint16(tf.CS)
	r.Write(registers.EAX, 4, tf.EAX)
	r.Write(registers.ECX, 4, tf.ECX)
	r.Write(registers.EDX, 4, tf.EDX)
	r.Write(registers.EBX, 4, tf.EBX)
	r.Write(registers.ESP, 4, tf.ESP)
	r.Write(registers.EBP, 4, tf.EBP)
	r.Write(registers.ESI, 4, tf.ESI)
	r.Write(registers.EDI, 4, tf.EDI)
	return tf.EIP
}
