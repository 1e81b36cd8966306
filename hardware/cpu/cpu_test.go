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

package cpu_test

import (
	"errors"
	"testing"

	"github.com/jetsetilly/gopher386/hardware/cpu"
	"github.com/jetsetilly/gopher386/hardware/cpu/interrupts"
	"github.com/jetsetilly/gopher386/hardware/cpu/registers"
	"github.com/jetsetilly/gopher386/hardware/memory"
	"github.com/jetsetilly/gopher386/hardware/memory/mmio"
	"github.com/jetsetilly/gopher386/test"
)

// top of the stack used by the test programs
const stackTop = 0x1f0000

// creates a CPU with the program loaded at the reset address and the stack
// pointer set
func newCPU(t *testing.T, ports *mmio.Table, program ...byte) (*cpu.CPU, *memory.Physical) {
	t.Helper()

	regs := registers.NewRegisters()
	phys := memory.NewPhysical(0x200000, nil)
	mem := memory.NewMemory(phys, regs)
	mc := cpu.NewCPU(regs, mem, ports)

	test.DemandSuccess(t, phys.Load(registers.ResetEIP, program))
	regs.Write(registers.ESP, 4, stackTop)

	return mc, phys
}

// steps the CPU the number of times, failing the test on any error
func step(t *testing.T, mc *cpu.CPU, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		test.DemandSuccess(t, mc.Step())
	}
}

func TestMovAddTrap(t *testing.T) {
	mc, _ := newCPU(t, nil,
		0xb8, 0x05, 0x00, 0x00, 0x00, // movl $0x5,%eax
		0x83, 0xc0, 0x03, // addl $0x3,%eax
		0xd6, // trap
	)

	n, err := mc.Run(cpu.Unbounded, nil)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, n, 3)
	test.ExpectEquality(t, mc.State, cpu.Ended)
	test.ExpectEquality(t, mc.ExitCode, 8)

	// stepping after the end is not fatal but the CPU remains in the ended
	// state
	test.ExpectEquality(t, errors.Is(mc.Step(), cpu.ErrEnded), true)
	test.ExpectEquality(t, mc.State, cpu.Ended)
}

func TestArithmeticFlags(t *testing.T) {
	mc, _ := newCPU(t, nil,
		0xb8, 0xff, 0xff, 0xff, 0xff, // movl $0xffffffff,%eax
		0x83, 0xc0, 0x01, // addl $0x1,%eax
		0xb8, 0x00, 0x00, 0x00, 0x80, // movl $0x80000000,%eax
		0x83, 0xe8, 0x01, // subl $0x1,%eax
		0x3d, 0x00, 0x00, 0x00, 0x80, // cmpl $0x80000000,%eax
	)

	step(t, mc, 2)
	test.ExpectEquality(t, mc.Regs.Read(registers.EAX, 4), 0)
	test.ExpectEquality(t, mc.Regs.Status.Carry, true)
	test.ExpectEquality(t, mc.Regs.Status.Zero, true)
	test.ExpectEquality(t, mc.Regs.Status.Sign, false)
	test.ExpectEquality(t, mc.Regs.Status.Overflow, false)

	step(t, mc, 2)
	test.ExpectEquality(t, mc.Regs.Read(registers.EAX, 4), 0x7fffffff)
	test.ExpectEquality(t, mc.Regs.Status.Carry, false)
	test.ExpectEquality(t, mc.Regs.Status.Zero, false)
	test.ExpectEquality(t, mc.Regs.Status.Overflow, true)

	// 0x7fffffff - 0x80000000 borrows and overflows
	step(t, mc, 1)
	test.ExpectEquality(t, mc.Regs.Read(registers.EAX, 4), 0x7fffffff)
	test.ExpectEquality(t, mc.Regs.Status.Carry, true)
	test.ExpectEquality(t, mc.Regs.Status.Overflow, true)
	test.ExpectEquality(t, mc.Regs.Status.Sign, true)
}

func TestLoop(t *testing.T) {
	mc, _ := newCPU(t, nil,
		0x31, 0xc0, // xorl %eax,%eax
		0xb9, 0x0a, 0x00, 0x00, 0x00, // movl $0xa,%ecx
		0x01, 0xc8, // addl %ecx,%eax
		0x49,       // decl %ecx
		0x75, 0xfb, // jne -5
		0xd6, // trap
	)

	_, err := mc.Run(cpu.Unbounded, nil)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, mc.State, cpu.Ended)
	test.ExpectEquality(t, mc.ExitCode, 55)
}

func TestCallRet(t *testing.T) {
	mc, _ := newCPU(t, nil,
		0xe8, 0x0b, 0x00, 0x00, 0x00, // call 0x100010
		0x83, 0xc0, 0x01, // addl $0x1,%eax
		0xd6,                                     // trap
		0x90, 0x90, 0x90, 0x90, 0x90, 0x90, 0x90, // padding
		0xb8, 0x29, 0x00, 0x00, 0x00, // movl $0x29,%eax
		0xc3, // ret
	)

	step(t, mc, 1)
	test.ExpectEquality(t, mc.Regs.EIP, 0x100010)
	test.ExpectEquality(t, mc.Regs.Read(registers.ESP, 4), stackTop-4)
	test.ExpectEquality(t, mc.LastResult.IsJump, true)
	test.ExpectEquality(t, mc.LastResult.Asm, "call 0x100010")

	_, err := mc.Run(cpu.Unbounded, nil)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, mc.ExitCode, 42)
	test.ExpectEquality(t, mc.Regs.Read(registers.ESP, 4), stackTop)
}

func TestEffectiveAddress(t *testing.T) {
	mc, _ := newCPU(t, nil,
		0x8d, 0x44, 0xb3, 0x10, // leal 0x10(%ebx,%esi,4),%eax
		0x8d, 0x0d, 0x00, 0x20, 0x00, 0x00, // leal 0x2000,%ecx
		0x8d, 0x55, 0xfc, // leal -0x4(%ebp),%edx
	)
	mc.Regs.Write(registers.EBX, 4, 0x1000)
	mc.Regs.Write(registers.ESI, 4, 3)
	mc.Regs.Write(registers.EBP, 4, 0x5000)

	step(t, mc, 1)
	test.ExpectEquality(t, mc.Regs.Read(registers.EAX, 4), 0x101c)
	test.ExpectEquality(t, mc.LastResult.Asm, "leal 0x10(%ebx,%esi,4),%eax")
	test.ExpectEquality(t, mc.LastResult.Len, 4)

	step(t, mc, 1)
	test.ExpectEquality(t, mc.Regs.Read(registers.ECX, 4), 0x2000)
	test.ExpectEquality(t, mc.LastResult.Asm, "leal 0x2000,%ecx")

	step(t, mc, 1)
	test.ExpectEquality(t, mc.Regs.Read(registers.EDX, 4), 0x4ffc)
	test.ExpectEquality(t, mc.LastResult.Asm, "leal -0x4(%ebp),%edx")
}

func TestMemoryOperands(t *testing.T) {
	mc, phys := newCPU(t, nil,
		0xa3, 0x00, 0x20, 0x00, 0x00, // movl %eax,0x2000
		0x0f, 0xb6, 0x0d, 0x00, 0x20, 0x00, 0x00, // movzbl 0x2000,%ecx
		0x0f, 0xbe, 0x15, 0x00, 0x20, 0x00, 0x00, // movsbl 0x2000,%edx
		0x66, 0x0f, 0xbe, 0x1d, 0x00, 0x20, 0x00, 0x00, // movsbw 0x2000,%bx
		0xc6, 0x05, 0x04, 0x20, 0x00, 0x00, 0x7f, // movb $0x7f,0x2004
	)
	mc.Regs.Write(registers.EAX, 4, 0x12345680)
	mc.Regs.Write(registers.EBX, 4, 0xaaaaaaaa)

	step(t, mc, 1)
	v, err := phys.Read(0x2000, 4)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v, 0x12345680)

	step(t, mc, 1)
	test.ExpectEquality(t, mc.Regs.Read(registers.ECX, 4), 0x80)
	test.ExpectEquality(t, mc.LastResult.Asm, "movzbl 0x2000,%ecx")

	step(t, mc, 1)
	test.ExpectEquality(t, mc.Regs.Read(registers.EDX, 4), 0xffffff80)

	// the upper half of the destination is not changed by a 16-bit move
	step(t, mc, 1)
	test.ExpectEquality(t, mc.Regs.Read(registers.EBX, 4), 0xaaaaff80)

	step(t, mc, 1)
	v, err = phys.Read(0x2004, 1)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v, 0x7f)
}

func TestOperandSizePrefix(t *testing.T) {
	mc, _ := newCPU(t, nil,
		0x66, 0xb8, 0x34, 0x12, // movw $0x1234,%ax
		0x66, 0x40, // incw %ax
	)
	mc.Regs.Write(registers.EAX, 4, 0xffff0000)

	step(t, mc, 1)
	test.ExpectEquality(t, mc.Regs.Read(registers.EAX, 4), 0xffff1234)
	test.ExpectEquality(t, mc.Regs.EIP, registers.ResetEIP+4)

	step(t, mc, 1)
	test.ExpectEquality(t, mc.Regs.Read(registers.EAX, 4), 0xffff1235)
	test.ExpectEquality(t, mc.LastResult.Asm, "incw %ax")
}

func TestSetcc(t *testing.T) {
	mc, _ := newCPU(t, nil,
		0x83, 0xf8, 0x05, // cmpl $0x5,%eax
		0x0f, 0x9c, 0xc0, // setl %al
		0x0f, 0x97, 0xc1, // setnbe %cl
		0x0f, 0x9a, 0xc2, // setp %dl
	)
	mc.Regs.Write(registers.EAX, 4, 3)
	mc.Regs.Write(registers.ECX, 4, 0xff)

	step(t, mc, 2)
	test.ExpectEquality(t, mc.Regs.Read(registers.EAX, 1), 1)
	test.ExpectEquality(t, mc.LastResult.Asm, "setl %al")

	step(t, mc, 1)
	test.ExpectEquality(t, mc.Regs.Read(registers.ECX, 1), 0)

	// parity is not supported and is fatal
	err := mc.Step()
	test.ExpectFailure(t, err)
	test.ExpectEquality(t, mc.State, cpu.Aborted)
}

func TestSignExtension(t *testing.T) {
	mc, _ := newCPU(t, nil,
		0x99,       // cltd
		0x98,       // cwtl
		0x66, 0x98, // cbtw
		0x66, 0x99, // cwtd
	)
	mc.Regs.Write(registers.EAX, 4, 0x80000080)

	step(t, mc, 1)
	test.ExpectEquality(t, mc.Regs.Read(registers.EDX, 4), 0xffffffff)

	step(t, mc, 1)
	test.ExpectEquality(t, mc.Regs.Read(registers.EAX, 4), 0x00000080)

	step(t, mc, 1)
	test.ExpectEquality(t, mc.Regs.Read(registers.EAX, 4), 0x0000ff80)

	mc.Regs.Write(registers.EDX, 4, 0x12340000)
	step(t, mc, 1)
	test.ExpectEquality(t, mc.Regs.Read(registers.EDX, 4), 0x1234ffff)
}

func TestMultiplyDivide(t *testing.T) {
	mc, _ := newCPU(t, nil,
		0xb8, 0x64, 0x00, 0x00, 0x00, // movl $0x64,%eax
		0x31, 0xd2, // xorl %edx,%edx
		0xb9, 0x07, 0x00, 0x00, 0x00, // movl $0x7,%ecx
		0xf7, 0xf1, // divl %ecx
		0xf7, 0xe1, // mull %ecx
		0x6b, 0xc0, 0xfe, // imull $-2,%eax,%eax
		0xf7, 0xf9, // idivl %ecx
	)

	step(t, mc, 4)
	test.ExpectEquality(t, mc.Regs.Read(registers.EAX, 4), 14)
	test.ExpectEquality(t, mc.Regs.Read(registers.EDX, 4), 2)

	step(t, mc, 1)
	test.ExpectEquality(t, mc.Regs.Read(registers.EAX, 4), 98)
	test.ExpectEquality(t, mc.Regs.Read(registers.EDX, 4), 0)
	test.ExpectEquality(t, mc.Regs.Status.Carry, false)

	step(t, mc, 1)
	test.ExpectEquality(t, int32(mc.Regs.Read(registers.EAX, 4)), -196)

	// edx must be the sign extension of eax for a signed divide
	mc.Regs.Write(registers.EDX, 4, 0xffffffff)
	step(t, mc, 1)
	test.ExpectEquality(t, int32(mc.Regs.Read(registers.EAX, 4)), -28)
	test.ExpectEquality(t, mc.Regs.Read(registers.EDX, 4), 0)
}

func TestDivideError(t *testing.T) {
	mc, _ := newCPU(t, nil,
		0xf7, 0xf1, // divl %ecx
	)

	// there is no interrupt descriptor table so the divide error is fatal
	err := mc.Step()
	test.ExpectEquality(t, errors.Is(err, interrupts.ErrVectorLimit), true)
	test.ExpectEquality(t, mc.State, cpu.Aborted)
}

func TestShifts(t *testing.T) {
	mc, _ := newCPU(t, nil,
		0xc1, 0xe0, 0x04, // shll $0x4,%eax
		0xd1, 0xe8, // shrl %eax
		0xd3, 0xf8, // sarl %cl,%eax
		0xd0, 0xc3, // rolb %bl
	)
	mc.Regs.Write(registers.EAX, 4, 0x18000001)
	mc.Regs.Write(registers.ECX, 4, 4)
	mc.Regs.Write(registers.EBX, 4, 0x81)

	step(t, mc, 1)
	test.ExpectEquality(t, mc.Regs.Read(registers.EAX, 4), 0x80000010)
	test.ExpectEquality(t, mc.Regs.Status.Carry, true)
	test.ExpectEquality(t, mc.Regs.Status.Sign, true)

	step(t, mc, 1)
	test.ExpectEquality(t, mc.Regs.Read(registers.EAX, 4), 0x40000008)
	test.ExpectEquality(t, mc.Regs.Status.Carry, false)
	test.ExpectEquality(t, mc.Regs.Status.Overflow, true)

	step(t, mc, 1)
	test.ExpectEquality(t, mc.Regs.Read(registers.EAX, 4), 0x04000000)
	test.ExpectEquality(t, mc.Regs.Status.Carry, true)

	step(t, mc, 1)
	test.ExpectEquality(t, mc.Regs.Read(registers.EBX, 1), 0x03)
	test.ExpectEquality(t, mc.Regs.Status.Carry, true)
}

func TestLogicClearsCarry(t *testing.T) {
	mc, _ := newCPU(t, nil,
		0xf9,       // stc
		0x85, 0xc0, // testl %eax,%eax
		0x0c, 0x80, // orb $0x80,%al
		0xf7, 0xd0, // notl %eax
	)

	step(t, mc, 1)
	test.ExpectEquality(t, mc.Regs.Status.Carry, true)

	step(t, mc, 1)
	test.ExpectEquality(t, mc.Regs.Status.Carry, false)
	test.ExpectEquality(t, mc.Regs.Status.Zero, true)

	step(t, mc, 1)
	test.ExpectEquality(t, mc.Regs.Status.Sign, true)
	test.ExpectEquality(t, mc.Regs.Status.Zero, false)

	// not has no effect on the flags
	step(t, mc, 1)
	test.ExpectEquality(t, mc.Regs.Read(registers.EAX, 4), 0xffffff7f)
	test.ExpectEquality(t, mc.Regs.Status.Sign, true)
}

func TestStack(t *testing.T) {
	mc, _ := newCPU(t, nil,
		0x55,       // pushl %ebp
		0x89, 0xe5, // movl %esp,%ebp
		0x6a, 0xff, // pushl $-1
		0x60, // pusha
		0x61, // popa
		0x58, // popl %eax
		0xc9, // leave
		0x5b, // popl %ebx
	)
	mc.Regs.Write(registers.EBP, 4, 0xdeadbeef)

	step(t, mc, 3)
	test.ExpectEquality(t, mc.Regs.Read(registers.ESP, 4), stackTop-8)

	step(t, mc, 2)
	test.ExpectEquality(t, mc.Regs.Read(registers.ESP, 4), stackTop-8)

	step(t, mc, 1)
	test.ExpectEquality(t, mc.Regs.Read(registers.EAX, 4), 0xffffffff)

	step(t, mc, 1)
	test.ExpectEquality(t, mc.Regs.Read(registers.EBP, 4), 0xdeadbeef)
	test.ExpectEquality(t, mc.Regs.Read(registers.ESP, 4), stackTop)

	// the popped value is the same as the original value of EBP
	mc.Regs.Write(registers.ESP, 4, stackTop-4)
	step(t, mc, 1)
	test.ExpectEquality(t, mc.Regs.Read(registers.EBX, 4), 0xdeadbeef)
}

func TestUnimplemented(t *testing.T) {
	mc, _ := newCPU(t, nil,
		0x0f, 0x0b, // ud2
	)

	err := mc.Step()
	test.ExpectEquality(t, errors.Is(err, cpu.ErrUnimplemented), true)
	test.ExpectEquality(t, mc.State, cpu.Aborted)
	test.ExpectEquality(t, mc.Regs.EIP, registers.ResetEIP)

	// the error is sticky
	test.ExpectEquality(t, mc.Step(), err)
	test.ExpectEquality(t, mc.Err(), err)

	// reset clears the aborted state
	mc.Reset()
	test.ExpectEquality(t, mc.State, cpu.Running)
	test.ExpectSuccess(t, mc.Err())
}

// trap handler that adds the first two system call arguments
type adder struct {
	calls int
}

func (a *adder) HandleTrap(tf *cpu.TrapFrame) *cpu.TrapFrame {
	a.calls++
	tf.SetSyscallReturn(tf.SyscallArg(1) + tf.SyscallArg(2))
	return tf
}

func TestTrapHandler(t *testing.T) {
	mc, _ := newCPU(t, nil,
		0xb8, 0x01, 0x00, 0x00, 0x00, // movl $0x1,%eax
		0xbb, 0x02, 0x00, 0x00, 0x00, // movl $0x2,%ebx
		0xb9, 0x03, 0x00, 0x00, 0x00, // movl $0x3,%ecx
		0xcd, 0x80, // int $0x80
		0xd6, // trap
	)

	a := &adder{}
	mc.AttachTrapHandler(0x80, a)

	_, err := mc.Run(cpu.Unbounded, nil)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, a.calls, 1)
	test.ExpectEquality(t, mc.ExitCode, 5)
	test.ExpectEquality(t, mc.Regs.Read(registers.ESP, 4), stackTop)
}

// writes an interrupt gate for the vector into the table at base
func writeGate(t *testing.T, phys *memory.Physical, base uint32, vector uint32, handler uint32) {
	t.Helper()
	gate := base + vector*8
	test.DemandSuccess(t, phys.Write(gate, 4, handler&0xffff|0x8<<16))
	test.DemandSuccess(t, phys.Write(gate+4, 4, handler&0xffff0000|0x8e00))
}

func TestExternalInterrupt(t *testing.T) {
	mc, phys := newCPU(t, nil,
		0xfb, // sti
		0x90, // nop
		0x90, // nop
		0xd6, // trap
	)

	// handler increments ebx and returns
	const handler = 0x100100
	test.DemandSuccess(t, phys.Load(handler, []byte{0x43, 0xcf}))

	const idt = 0x3000
	writeGate(t, phys, idt, interrupts.IRQTimer, handler)
	mc.Regs.IDTR.Base = idt
	mc.Regs.IDTR.Limit = 0x7ff

	// interrupts are disabled so the request waits
	mc.Interrupts().Request()
	test.ExpectEquality(t, mc.Regs.Status.InterruptEnabled, false)
	step(t, mc, 1)
	test.ExpectEquality(t, mc.Interrupts().Pending(), true)

	// the interrupt is delivered and the first instruction of the handler
	// is executed in the same step
	step(t, mc, 1)
	test.ExpectEquality(t, mc.Interrupts().Pending(), false)
	test.ExpectEquality(t, mc.Regs.Read(registers.EBX, 4), 1)
	test.ExpectEquality(t, mc.Regs.Status.InterruptEnabled, false)
	test.ExpectEquality(t, mc.LastResult.Address, handler)

	// iret restores the flags and returns to the interrupted instruction
	step(t, mc, 1)
	test.ExpectEquality(t, mc.Regs.EIP, registers.ResetEIP+1)
	test.ExpectEquality(t, mc.Regs.Status.InterruptEnabled, true)
	test.ExpectEquality(t, mc.Regs.Read(registers.ESP, 4), stackTop)

	_, err := mc.Run(cpu.Unbounded, nil)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, mc.State, cpu.Ended)
}

func TestSoftwareInterrupt(t *testing.T) {
	mc, phys := newCPU(t, nil,
		0x0f, 0x01, 0x1d, 0x00, 0x40, 0x00, 0x00, // lidt 0x4000
		0xcd, 0x81, // int $0x81
		0xd6, // trap
	)

	const handler = 0x100200
	test.DemandSuccess(t, phys.Load(handler, []byte{0xb8, 0x07, 0x00, 0x00, 0x00, 0xcf}))

	const idt = 0x3000
	writeGate(t, phys, idt, 0x81, handler)

	// the six byte descriptor of the table
	test.DemandSuccess(t, phys.Write(0x4000, 2, 0x7ff))
	test.DemandSuccess(t, phys.Write(0x4002, 4, idt))

	step(t, mc, 1)
	test.ExpectEquality(t, mc.Regs.IDTR.Base, idt)
	test.ExpectEquality(t, mc.Regs.IDTR.Limit, 0x7ff)

	step(t, mc, 1)
	test.ExpectEquality(t, mc.Regs.EIP, handler)

	// return address, code segment and flags
	test.ExpectEquality(t, mc.Regs.Read(registers.ESP, 4), stackTop-12)

	_, err := mc.Run(cpu.Unbounded, nil)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, mc.ExitCode, 7)
}

func TestHalt(t *testing.T) {
	mc, _ := newCPU(t, nil,
		0xf4, // hlt
	)
	mc.Regs.Write(registers.EAX, 4, 3)

	// with interrupts disabled the halt ends the program
	_, err := mc.Run(cpu.Unbounded, nil)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, mc.State, cpu.Ended)
	test.ExpectEquality(t, mc.ExitCode, 3)
}

func TestHaltWaiting(t *testing.T) {
	mc, _ := newCPU(t, nil,
		0xfb, // sti
		0xf4, // hlt
		0xd6, // trap
	)

	source := true
	mc.InterruptSource = func() bool { return source }

	step(t, mc, 2)
	test.ExpectEquality(t, mc.Waiting, true)

	// the CPU does nothing while waiting
	eip := mc.Regs.EIP
	step(t, mc, 10)
	test.ExpectEquality(t, mc.Regs.EIP, eip)
	test.ExpectEquality(t, mc.State, cpu.Running)
	test.ExpectEquality(t, mc.Instructions, 2)

	// nothing can wake the CPU once the source has gone
	source = false
	step(t, mc, 1)
	test.ExpectEquality(t, mc.Waiting, false)
	test.ExpectEquality(t, mc.State, cpu.Ended)
}

func TestHaltWithoutInterruptSource(t *testing.T) {
	mc, _ := newCPU(t, nil,
		0xb8, 0x02, 0x00, 0x00, 0x00, // movl $0x2,%eax
		0xfb, // sti
		0xf4, // hlt
		0xd6, // trap
	)

	// interrupts are enabled but nothing can request one so the halt ends
	// the program rather than waiting forever
	n, err := mc.Run(cpu.Unbounded, nil)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, n, 3)
	test.ExpectEquality(t, mc.Waiting, false)
	test.ExpectEquality(t, mc.State, cpu.Ended)
	test.ExpectEquality(t, mc.ExitCode, 2)
	test.ExpectEquality(t, mc.LastResult.Address, 0x100006)
}

func TestPageNotPresentAborts(t *testing.T) {
	mc, _ := newCPU(t, nil,
		0xb8, 0x01, 0x00, 0x00, 0x00, // movl $0x1,%eax
		0xd6, // trap
	)

	// paging with a directory containing no present entries. the fetch of
	// the first instruction can't be translated
	mc.Regs.LoadPageDirectory(0x10000)
	mc.Regs.EnablePaging()

	n, err := mc.Run(cpu.Unbounded, nil)
	test.ExpectEquality(t, errors.Is(err, memory.ErrPageNotPresent), true)
	test.ExpectEquality(t, n, 0)
	test.ExpectEquality(t, mc.State, cpu.Aborted)
	test.ExpectEquality(t, errors.Is(mc.Err(), memory.ErrPageNotPresent), true)

	// the run has terminated. further steps return the same error and
	// nothing is executed
	test.ExpectEquality(t, errors.Is(mc.Step(), memory.ErrPageNotPresent), true)
	test.ExpectEquality(t, mc.State, cpu.Aborted)
	test.ExpectEquality(t, mc.Regs.Read(registers.EAX, 4), 0)
	test.ExpectEquality(t, mc.Instructions, 0)
}

// port device that records writes and returns a status value for reads
type mockPort struct {
	written []uint32
}

func (p *mockPort) Read(offset uint32, width int) uint32 {
	if offset == 5 {
		return 0x20
	}
	return 0
}

func (p *mockPort) Write(offset uint32, width int, data uint32) {
	p.written = append(p.written, data)
}

func TestPortIO(t *testing.T) {
	ports := mmio.NewTable("ports")
	dev := &mockPort{}
	_, err := ports.Add("serial", 0x3f8, 8, dev)
	test.DemandSuccess(t, err)

	mc, _ := newCPU(t, ports,
		0xb0, 0x41, // movb $0x41,%al
		0x66, 0xba, 0xf8, 0x03, // movw $0x3f8,%dx
		0xee,       // outb %al,(%dx)
		0xe4, 0xfd, // inb $0xfd,%al
		0xe5, 0x10, // inl $0x10,%eax
	)

	step(t, mc, 3)
	test.DemandEquality(t, len(dev.written), 1)
	test.ExpectEquality(t, dev.written[0], 0x41)

	// 0xfd is not a port with a device
	step(t, mc, 1)
	test.ExpectEquality(t, mc.Regs.Read(registers.EAX, 1), 0xff)

	mc.Regs.Write(registers.EAX, 4, 0)
	step(t, mc, 1)
	test.ExpectEquality(t, mc.Regs.Read(registers.EAX, 4), 0xffffffff)
}

func TestRunCallback(t *testing.T) {
	mc, _ := newCPU(t, nil,
		0x40, 0x40, 0x40, 0x40, 0x40, // incl %eax
		0xd6, // trap
	)

	var count int
	n, err := mc.Run(cpu.Unbounded, func() (bool, error) {
		count++
		return count < 3, nil
	})
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, n, 3)
	test.ExpectEquality(t, mc.Regs.Read(registers.EAX, 4), 3)
	test.ExpectEquality(t, mc.State, cpu.Running)

	// bounded run
	n, err = mc.Run(1, nil)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, n, 1)
	test.ExpectEquality(t, mc.Regs.Read(registers.EAX, 4), 4)
	test.ExpectEquality(t, mc.Instructions, 4)
}

func TestControlRegisters(t *testing.T) {
	mc, _ := newCPU(t, nil,
		0x0f, 0x20, 0xc0, // movl %cr0,%eax
		0x0f, 0x22, 0xdb, // movl %ebx,%cr3
	)
	mc.Regs.Write(registers.EBX, 4, 0x5000)

	step(t, mc, 1)
	test.ExpectEquality(t, mc.Regs.Read(registers.EAX, 4), registers.CR0ProtectionEnable)
	test.ExpectEquality(t, mc.LastResult.Asm, "movl %cr0,%eax")

	step(t, mc, 1)
	test.ExpectEquality(t, mc.Regs.CR3, 0x5000)
	test.ExpectEquality(t, mc.Regs.PageDirectory(), 0x5000)
}

func TestResultString(t *testing.T) {
	mc, _ := newCPU(t, nil,
		0xb8, 0x05, 0x00, 0x00, 0x00, // movl $0x5,%eax
	)
	test.ExpectEquality(t, mc.LastResult.Valid(), false)

	step(t, mc, 1)
	test.ExpectEquality(t, mc.LastResult.String(), "00100000:   b8 05 00 00 00          movl $0x5,%eax")
}

// trap handler that switches to another context
type switcher struct {
	next cpu.TrapFrame
}

func (s *switcher) HandleTrap(tf *cpu.TrapFrame) *cpu.TrapFrame {
	return &s.next
}

// trap handler that declines every interrupt
type decliner struct{}

func (decliner) HandleTrap(tf *cpu.TrapFrame) *cpu.TrapFrame {
	return nil
}

func TestTrapHandlerSwitch(t *testing.T) {
	mc, _ := newCPU(t, nil,
		0xcd, 0x81, // int $0x81
	)

	s := &switcher{
		next: cpu.TrapFrame{
			EIP:    0x100800,
			ESP:    0x180000,
			EAX:    0x99,
			EFLAGS: 0x202,
			CS:     8,
		},
	}
	mc.AttachTrapHandler(0x81, s)

	step(t, mc, 1)
	test.ExpectEquality(t, mc.Regs.EIP, 0x100800)
	test.ExpectEquality(t, mc.Regs.Read(registers.ESP, 4), 0x180000)
	test.ExpectEquality(t, mc.Regs.Read(registers.EAX, 4), 0x99)
	test.ExpectEquality(t, mc.Regs.Status.InterruptEnabled, true)

	// a declined trap goes to the descriptor table, which is empty
	mc.Reset()
	mc.AttachTrapHandler(0x81, decliner{})
	err := mc.Step()
	test.ExpectEquality(t, errors.Is(err, interrupts.ErrVectorLimit), true)

	// removing the handler
	mc.Reset()
	mc.AttachTrapHandler(0x81, nil)
	err = mc.Step()
	test.ExpectEquality(t, errors.Is(err, interrupts.ErrVectorLimit), true)
}
