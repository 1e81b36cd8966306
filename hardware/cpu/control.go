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
	"fmt"

	"github.com/jetsetilly/gopher386/hardware/cpu/registers"
	"github.com/jetsetilly/gopher386/hardware/cpu/rtl"
)

// jump to the target. the jump is committed after execution.
func (dc *DecodeContext) jump(target uint32) {
	dc.IsJump = true
	dc.JumpTarget = target
}

// relative jump. the target was calculated by the decoder
func execJmp(mc *CPU) error {
	dc := &mc.dc
	dc.jump(dc.JumpTarget)
	dc.Asm = fmt.Sprintf("jmp %s", dc.Src.text)
	return nil
}

// indirect jump through a register or memory
func execJmpE(mc *CPU) error {
	dc := &mc.dc
	dc.jump(dc.Dest.Value)
	dc.Asm = fmt.Sprintf("jmp *%s", dc.Dest.text)
	return nil
}

func execJcc(mc *CPU) error {
	dc := &mc.dc
	cc := dc.condition()
	dc.Asm = fmt.Sprintf("j%s %s", rtl.ConditionNames[cc], dc.Src.text)

	v, err := mc.rtl.Setcc(cc)
	if err != nil {
		return fmt.Errorf("cpu: %w", err)
	}
	if v == 1 {
		dc.jump(dc.JumpTarget)
	}
	return nil
}

func execCall(mc *CPU) error {
	dc := &mc.dc
	if err := mc.rtl.Push(dc.SeqEIP); err != nil {
		return err
	}
	dc.jump(dc.JumpTarget)
	dc.Asm = fmt.Sprintf("call %s", dc.Src.text)
	return nil
}

func execCallE(mc *CPU) error {
	dc := &mc.dc
	if err := mc.rtl.Push(dc.SeqEIP); err != nil {
		return err
	}
	dc.jump(dc.Dest.Value)
	dc.Asm = fmt.Sprintf("call *%s", dc.Dest.text)
	return nil
}

func execRet(mc *CPU) error {
	dc := &mc.dc
	v, err := mc.rtl.Pop()
	if err != nil {
		return err
	}
	dc.jump(v)
	return nil
}

// return and release the number of bytes of stack in the immediate operand
func execRetImm(mc *CPU) error {
	if err := execRet(mc); err != nil {
		return err
	}
	esp := mc.rtl.Lr(registers.ESP, 4)
	mc.rtl.Sr(registers.ESP, 4, esp+mc.dc.Src.Value)
	return nil
}

// raise an interrupt and jump to the handler.
func (mc *CPU) raise(vector uint8, returnAddr uint32) error {
	target, err := mc.intr.Raise(vector, returnAddr)
	if err != nil {
		return fmt.Errorf("cpu: %w", err)
	}
	mc.dc.jump(target)
	return nil
}

// software interrupt. the vector is either serviced by a host trap handler or
// by the guest handler in the interrupt descriptor table
func execInt(mc *CPU) error {
	dc := &mc.dc
	vector := uint8(dc.Src.Value)
	dc.Asm = fmt.Sprintf("int $%#x", vector)

	// a handler that returns no frame declines the interrupt
	if h, ok := mc.traps[vector]; ok {
		if tf := h.HandleTrap(mc.saveFrame(vector, dc.SeqEIP)); tf != nil {
			dc.jump(mc.restoreFrame(tf))
			return nil
		}
	}

	return mc.raise(vector, dc.SeqEIP)
}

// the return address, the code segment selector and the flags are popped in
// that order
func execIret(mc *CPU) error {
	dc := &mc.dc
	eip, err := mc.rtl.Pop()
	if err != nil {
		return err
	}
	cs, err := mc.rtl.Pop()
	if err != nil {
		return err
	}
	eflags, err := mc.rtl.Pop()
	if err != nil {
		return err
	}

	mc.Regs.CS = uint16(cs)
	mc.Regs.Status.FromValue(eflags)
	dc.jump(eip)
	return nil
}

// halt. with interrupts enabled and a source of external interrupts the CPU
// waits for the next interrupt. otherwise nothing can wake the CPU so the
// program ends
func execHlt(mc *CPU) error {
	if mc.rtl.GetIF() && mc.canWake() {
		mc.Waiting = true
		return nil
	}
	mc.End(mc.rtl.Lr(registers.EAX, 4))
	return nil
}

// end the program with the exit code in EAX
func execTrap(mc *CPU) error {
	mc.dc.Asm = "trap"
	mc.End(mc.rtl.Lr(registers.EAX, 4))
	return nil
}
