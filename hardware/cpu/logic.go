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

	"github.com/jetsetilly/gopher386/hardware/cpu/rtl"
)

// the logical instructions clear the carry and overflow flags
func (mc *CPU) logicFlags(result uint32, width int) {
	mc.rtl.SetCF(false)
	mc.rtl.SetOF(false)
	mc.rtl.UpdateZFSF(result, width)
}

func execAnd(mc *CPU) error {
	dc := &mc.dc
	r := dc.Dest.Value & dc.Src.Value
	mc.logicFlags(r, dc.Width)
	return mc.writeOperand(&dc.Dest, r)
}

func execOr(mc *CPU) error {
	dc := &mc.dc
	r := dc.Dest.Value | dc.Src.Value
	mc.logicFlags(r, dc.Width)
	return mc.writeOperand(&dc.Dest, r)
}

func execXor(mc *CPU) error {
	dc := &mc.dc
	r := dc.Dest.Value ^ dc.Src.Value
	mc.logicFlags(r, dc.Width)
	return mc.writeOperand(&dc.Dest, r)
}

func execTest(mc *CPU) error {
	dc := &mc.dc
	mc.logicFlags(dc.Dest.Value&dc.Src.Value, dc.Width)
	return nil
}

// not does not affect the flags
func execNot(mc *CPU) error {
	dc := &mc.dc
	return mc.writeOperand(&dc.Dest, ^dc.Dest.Value)
}

// the shift count is masked to five bits. a count of zero changes nothing,
// not even the flags
func (dc *DecodeContext) shiftCount() uint32 {
	return dc.Src.Value & 0x1f
}

func execShl(mc *CPU) error {
	dc := &mc.dc
	n := dc.shiftCount()
	if n == 0 {
		return nil
	}

	bits := uint32(dc.Width) * 8
	v := dc.Dest.Value & rtl.Mask(dc.Width)
	r := (v << n) & rtl.Mask(dc.Width)

	// last bit shifted out
	cf := n <= bits && (v>>(bits-n))&1 == 1
	mc.rtl.SetCF(cf)
	mc.rtl.SetOF((rtl.Msb(r, dc.Width) == 1) != cf)
	mc.rtl.UpdateZFSF(r, dc.Width)
	return mc.writeOperand(&dc.Dest, r)
}

func execShr(mc *CPU) error {
	dc := &mc.dc
	n := dc.shiftCount()
	if n == 0 {
		return nil
	}

	v := dc.Dest.Value & rtl.Mask(dc.Width)
	r := v >> n

	mc.rtl.SetCF((v>>(n-1))&1 == 1)
	mc.rtl.SetOF(rtl.Msb(v, dc.Width) == 1)
	mc.rtl.UpdateZFSF(r, dc.Width)
	return mc.writeOperand(&dc.Dest, r)
}

func execSar(mc *CPU) error {
	dc := &mc.dc
	n := dc.shiftCount()
	if n == 0 {
		return nil
	}

	v := int32(rtl.Sext(dc.Dest.Value, dc.Width))
	r := uint32(v>>n) & rtl.Mask(dc.Width)

	mc.rtl.SetCF((v>>(n-1))&1 == 1)
	mc.rtl.SetOF(false)
	mc.rtl.UpdateZFSF(r, dc.Width)
	return mc.writeOperand(&dc.Dest, r)
}

// rotates only affect the carry and overflow flags
func execRol(mc *CPU) error {
	dc := &mc.dc
	bits := uint32(dc.Width) * 8
	n := dc.shiftCount() % bits
	if dc.shiftCount() == 0 {
		return nil
	}

	v := dc.Dest.Value & rtl.Mask(dc.Width)
	r := ((v << n) | (v >> (bits - n))) & rtl.Mask(dc.Width)

	cf := r&1 == 1
	mc.rtl.SetCF(cf)
	mc.rtl.SetOF((rtl.Msb(r, dc.Width) == 1) != cf)
	return mc.writeOperand(&dc.Dest, r)
}

func execRor(mc *CPU) error {
	dc := &mc.dc
	bits := uint32(dc.Width) * 8
	n := dc.shiftCount() % bits
	if dc.shiftCount() == 0 {
		return nil
	}

	v := dc.Dest.Value & rtl.Mask(dc.Width)
	r := ((v >> n) | (v << (bits - n))) & rtl.Mask(dc.Width)

	msb := rtl.Msb(r, dc.Width)
	mc.rtl.SetCF(msb == 1)
	mc.rtl.SetOF(msb != rtl.Msb(r<<1, dc.Width))
	return mc.writeOperand(&dc.Dest, r)
}

// the condition is in the low nibble of the opcode
func (dc *DecodeContext) condition() uint8 {
	return uint8(dc.Opcode & 0x0f)
}

func execSetcc(mc *CPU) error {
	dc := &mc.dc
	cc := dc.condition()
	v, err := mc.rtl.Setcc(cc)
	if err != nil {
		return fmt.Errorf("cpu: %w", err)
	}
	dc.Asm = fmt.Sprintf("set%s %s", rtl.ConditionNames[cc], dc.Dest.text)
	return mc.writeOperand(&dc.Dest, v)
}
