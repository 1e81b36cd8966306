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
	"github.com/jetsetilly/gopher386/hardware/cpu/rtl"
)

// vector of the divide error exception
const vectorDivide = 0

// update the four arithmetic flags
func (mc *CPU) arithFlags(result uint32, cf bool, of bool, width int) {
	mc.rtl.SetCF(cf)
	mc.rtl.SetOF(of)
	mc.rtl.UpdateZFSF(result, width)
}

func execAdd(mc *CPU) error {
	dc := &mc.dc
	r, cf, of := rtl.AddFlags(dc.Dest.Value, dc.Src.Value, false, dc.Width)
	mc.arithFlags(r, cf, of, dc.Width)
	return mc.writeOperand(&dc.Dest, r)
}

func execAdc(mc *CPU) error {
	dc := &mc.dc
	r, cf, of := rtl.AddFlags(dc.Dest.Value, dc.Src.Value, mc.rtl.GetCF(), dc.Width)
	mc.arithFlags(r, cf, of, dc.Width)
	return mc.writeOperand(&dc.Dest, r)
}

func execSub(mc *CPU) error {
	dc := &mc.dc
	r, cf, of := rtl.SubFlags(dc.Dest.Value, dc.Src.Value, false, dc.Width)
	mc.arithFlags(r, cf, of, dc.Width)
	return mc.writeOperand(&dc.Dest, r)
}

func execSbb(mc *CPU) error {
	dc := &mc.dc
	r, cf, of := rtl.SubFlags(dc.Dest.Value, dc.Src.Value, mc.rtl.GetCF(), dc.Width)
	mc.arithFlags(r, cf, of, dc.Width)
	return mc.writeOperand(&dc.Dest, r)
}

func execCmp(mc *CPU) error {
	dc := &mc.dc
	r, cf, of := rtl.SubFlags(dc.Dest.Value, dc.Src.Value, false, dc.Width)
	mc.arithFlags(r, cf, of, dc.Width)
	return nil
}

// inc and dec leave the carry flag unchanged
func execInc(mc *CPU) error {
	dc := &mc.dc
	r, _, of := rtl.AddFlags(dc.Dest.Value, 1, false, dc.Width)
	mc.rtl.SetOF(of)
	mc.rtl.UpdateZFSF(r, dc.Width)
	return mc.writeOperand(&dc.Dest, r)
}

func execDec(mc *CPU) error {
	dc := &mc.dc
	r, _, of := rtl.SubFlags(dc.Dest.Value, 1, false, dc.Width)
	mc.rtl.SetOF(of)
	mc.rtl.UpdateZFSF(r, dc.Width)
	return mc.writeOperand(&dc.Dest, r)
}

func execNeg(mc *CPU) error {
	dc := &mc.dc
	r, _, of := rtl.SubFlags(0, dc.Dest.Value, false, dc.Width)
	mc.arithFlags(r, dc.Dest.Value&rtl.Mask(dc.Width) != 0, of, dc.Width)
	return mc.writeOperand(&dc.Dest, r)
}

// high and low halves of a double width result are written to DX:AX (or
// EDX:EAX). the byte form writes the whole result to AX.
func (mc *CPU) writeDouble(v uint64, width int) {
	switch width {
	case 1:
		mc.rtl.Sr(registers.EAX, 2, uint32(v))
	default:
		mc.rtl.Sr(registers.EAX, width, uint32(v))
		mc.rtl.Sr(registers.EDX, width, uint32(v>>(width*8)))
	}
}

// unsigned multiply of the accumulator.
func execMul(mc *CPU) error {
	dc := &mc.dc
	a := uint64(mc.rtl.Lr(registers.EAX, dc.Width))
	v := a * uint64(dc.Dest.Value&rtl.Mask(dc.Width))
	mc.writeDouble(v, dc.Width)

	high := v>>(dc.Width*8) != 0
	mc.rtl.SetCF(high)
	mc.rtl.SetOF(high)
	return nil
}

// signed multiply of the accumulator.
func execImul1(mc *CPU) error {
	dc := &mc.dc
	a := int64(int32(rtl.Sext(mc.rtl.Lr(registers.EAX, dc.Width), dc.Width)))
	b := int64(int32(rtl.Sext(dc.Dest.Value, dc.Width)))
	v := a * b
	mc.writeDouble(uint64(v), dc.Width)

	// the result does not fit in the low half
	lost := v != int64(int32(rtl.Sext(uint32(v), dc.Width)))
	mc.rtl.SetCF(lost)
	mc.rtl.SetOF(lost)
	return nil
}

// signed multiply to a register. the two operand form multiplies the
// destination by the source and the three operand form multiplies the source
// by an immediate.
func execImul2(mc *CPU) error {
	dc := &mc.dc
	a := dc.Dest.Value
	b := dc.Src.Value
	if dc.Src2.Kind != OperandNone {
		a = dc.Src.Value
		b = dc.Src2.Value
	}

	v := int64(int32(rtl.Sext(a, dc.Width))) * int64(int32(rtl.Sext(b, dc.Width)))
	lost := v != int64(int32(rtl.Sext(uint32(v), dc.Width)))
	mc.rtl.SetCF(lost)
	mc.rtl.SetOF(lost)
	return mc.writeOperand(&dc.Dest, uint32(v))
}

// the dividend of a divide instruction. the byte form divides AX and the
// other forms divide DX:AX (or EDX:EAX).
func (mc *CPU) dividend(width int) uint64 {
	if width == 1 {
		return uint64(mc.rtl.Lr(registers.EAX, 2))
	}
	lo := uint64(mc.rtl.Lr(registers.EAX, width))
	hi := uint64(mc.rtl.Lr(registers.EDX, width))
	return hi<<(width*8) | lo
}

// the quotient and remainder of a divide instruction. the byte form writes
// the quotient to AL and the remainder to AH.
func (mc *CPU) quotient(q uint32, r uint32, width int) {
	if width == 1 {
		mc.rtl.Sr(registers.EAX, 2, (r&0xff)<<8|(q&0xff))
		return
	}
	mc.rtl.Sr(registers.EAX, width, q)
	mc.rtl.Sr(registers.EDX, width, r)
}

// divide by zero or a quotient too large for the destination raises the
// divide error exception. the return address is the divide instruction.
func (mc *CPU) divideError() error {
	return mc.raise(vectorDivide, mc.dc.Address)
}

func execDiv(mc *CPU) error {
	dc := &mc.dc
	divisor := uint64(dc.Dest.Value & rtl.Mask(dc.Width))
	if divisor == 0 {
		return mc.divideError()
	}

	n := mc.dividend(dc.Width)
	q := n / divisor
	if q > uint64(rtl.Mask(dc.Width)) {
		return mc.divideError()
	}
	mc.quotient(uint32(q), uint32(n%divisor), dc.Width)
	return nil
}

func execIdiv(mc *CPU) error {
	dc := &mc.dc
	divisor := int64(int32(rtl.Sext(dc.Dest.Value, dc.Width)))
	if divisor == 0 {
		return mc.divideError()
	}

	// sign extend the double width dividend
	bits := uint(dc.Width) * 16
	n := int64(mc.dividend(dc.Width)<<(64-bits)) >> (64 - bits)

	q := n / divisor
	limit := int64(1) << (uint(dc.Width)*8 - 1)
	if q >= limit || q < -limit {
		return mc.divideError()
	}
	mc.quotient(uint32(q), uint32(n%divisor), dc.Width)
	return nil
}
