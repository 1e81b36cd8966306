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

// executor carries out an instruction using the operands in the decode
// context.
type executor func(mc *CPU) error

// operand returns the single operand of an instruction that has only one.
func (dc *DecodeContext) operand() *Operand {
	if dc.Dest.Kind != OperandNone {
		return &dc.Dest
	}
	return &dc.Src
}

func execMov(mc *CPU) error {
	return mc.writeOperand(&mc.dc.Dest, mc.dc.Src.Value)
}

func execMovzx(mc *CPU) error {
	dc := &mc.dc
	dc.Asm = fmt.Sprintf("movz%s%s %s,%s", suffix(dc.Src.Width), suffix(dc.Dest.Width), dc.Src.text, dc.Dest.text)
	return mc.writeOperand(&dc.Dest, rtl.Zext(dc.Src.Value, dc.Src.Width))
}

func execMovsx(mc *CPU) error {
	dc := &mc.dc
	dc.Asm = fmt.Sprintf("movs%s%s %s,%s", suffix(dc.Src.Width), suffix(dc.Dest.Width), dc.Src.text, dc.Dest.text)
	return mc.writeOperand(&dc.Dest, rtl.Sext(dc.Src.Value, dc.Src.Width))
}

func execLea(mc *CPU) error {
	dc := &mc.dc
	return mc.writeOperand(&dc.Dest, dc.Src.Addr)
}

// the stack is always 32-bit. a 16-bit operand is zero extended before it is
// pushed
func execPush(mc *CPU) error {
	return mc.rtl.Push(mc.dc.operand().Value)
}

func execPop(mc *CPU) error {
	v, err := mc.rtl.Pop()
	if err != nil {
		return err
	}
	return mc.writeOperand(&mc.dc.Dest, v)
}

func execPusha(mc *CPU) error {
	esp := mc.rtl.Lr(registers.ESP, 4)
	for r := registers.EAX; r <= registers.EDI; r++ {
		v := mc.rtl.Lr(r, 4)
		if r == registers.ESP {
			v = esp
		}
		if err := mc.rtl.Push(v); err != nil {
			return err
		}
	}
	return nil
}

func execPopa(mc *CPU) error {
	for r := registers.EDI; r >= registers.EAX; r-- {
		v, err := mc.rtl.Pop()
		if err != nil {
			return err
		}

		// the saved stack pointer is discarded
		if r != registers.ESP {
			mc.rtl.Sr(r, 4, v)
		}
	}
	return nil
}

// exchange with the accumulator. the register is in the low bits of the
// opcode
func decodeXchgA(mc *CPU) error {
	if err := decodeR(mc); err != nil {
		return err
	}
	mc.dc.Src.setRegister(registers.EAX, mc.dc.Width)
	return mc.loadOperand(&mc.dc.Src)
}

func execXchg(mc *CPU) error {
	dc := &mc.dc
	s, d := dc.Src.Value, dc.Dest.Value
	if err := mc.writeOperand(&dc.Dest, s); err != nil {
		return err
	}
	return mc.writeOperand(&dc.Src, d)
}

func execLeave(mc *CPU) error {
	mc.rtl.Sr(registers.ESP, 4, mc.rtl.Lr(registers.EBP, 4))
	v, err := mc.rtl.Pop()
	if err != nil {
		return err
	}
	mc.rtl.Sr(registers.EBP, 4, v)
	return nil
}

// sign extend the accumulator into EDX (or DX).
func execCltd(mc *CPU) error {
	dc := &mc.dc
	dc.Mnemonic = "cltd"
	if dc.Width == 2 {
		dc.Mnemonic = "cwtd"
	}

	var v uint32
	if rtl.Msb(mc.rtl.Lr(registers.EAX, dc.Width), dc.Width) == 1 {
		v = 0xffffffff
	}
	mc.rtl.Sr(registers.EDX, dc.Width, v)
	return nil
}

// sign extend the lower half of the accumulator into the whole.
func execCwtl(mc *CPU) error {
	dc := &mc.dc
	if dc.Width == 2 {
		dc.Mnemonic = "cbtw"
		mc.rtl.Sr(registers.EAX, 2, rtl.Sext(mc.rtl.Lr(registers.EAX, 1), 1))
		return nil
	}
	dc.Mnemonic = "cwtl"
	mc.rtl.Sr(registers.EAX, 4, rtl.Sext(mc.rtl.Lr(registers.EAX, 2), 2))
	return nil
}

func execNop(mc *CPU) error {
	return nil
}
