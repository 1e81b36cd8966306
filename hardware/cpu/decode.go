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
	"strings"

	"github.com/jetsetilly/gopher386/hardware/cpu/registers"
	"github.com/jetsetilly/gopher386/hardware/cpu/rtl"
)

// OperandKind is the location of an Operand.
type OperandKind int

// List of valid OperandKind values.
const (
	OperandNone OperandKind = iota
	OperandRegister
	OperandMemory
	OperandImmediate
)

func (k OperandKind) String() string {
	switch k {
	case OperandNone:
		return "none"
	case OperandRegister:
		return "register"
	case OperandMemory:
		return "memory"
	case OperandImmediate:
		return "immediate"
	}
	return "unknown"
}

// Operand of an instruction.
type Operand struct {
	Kind OperandKind

	// register index. only valid for OperandRegister
	Reg int

	// effective address. only valid for OperandMemory
	Addr uint32

	// value of the operand. memory destinations are only loaded if the
	// instruction reads them
	Value uint32

	Width int

	// assembler representation
	text string
}

func (op Operand) String() string {
	return op.text
}

func (op *Operand) setRegister(reg int, width int) {
	op.Kind = OperandRegister
	op.Reg = reg
	op.Width = width
	switch width {
	case 1:
		op.text = "%" + registers.Names8[reg]
	case 2:
		op.text = "%" + registers.Names16[reg]
	default:
		op.text = "%" + registers.Names32[reg]
	}
}

func (op *Operand) setImmediate(v uint32, width int) {
	op.Kind = OperandImmediate
	op.Value = v
	op.Width = width
	op.text = fmt.Sprintf("$%#x", v)
}

// ModRM is the decoded ModR/M byte.
type ModRM struct {
	Mod uint8
	Reg uint8
	RM  uint8
}

// DecodeContext is the state of the instruction being decoded and executed.
type DecodeContext struct {
	// address of the first byte of the instruction
	Address uint32

	// address of the next byte to fetch. after decoding it is the address of
	// the next sequential instruction
	SeqEIP uint32

	// opcode. two byte opcodes include the 0x0f escape in the upper byte
	Opcode uint16

	// the 0x66 prefix was seen
	OperandSize16 bool

	// operand width in bytes
	Width int

	ModRM    ModRM
	hasModRM bool

	Src  Operand
	Src2 Operand
	Dest Operand

	// the instruction has changed the flow of control
	IsJump     bool
	JumpTarget uint32

	Mnemonic string

	// assembler text. set by the instruction when the default form is not
	// suitable
	Asm string

	// bytes of the instruction as fetched
	Bytes    [maxInstructionLength]byte
	numBytes int
}

// longest instruction supported by the decoder
const maxInstructionLength = 16

func (dc *DecodeContext) reset(eip uint32) {
	*dc = DecodeContext{
		Address: eip,
		SeqEIP:  eip,
	}
}

func (dc *DecodeContext) opcodeString() string {
	if dc.Opcode > 0xff {
		return fmt.Sprintf("%#04x", dc.Opcode)
	}
	return fmt.Sprintf("%#02x", dc.Opcode)
}

// asm returns the assembler text for the instruction, using the default form
// if the instruction hasn't set one.
func (dc *DecodeContext) asm() string {
	if dc.Asm != "" {
		return dc.Asm
	}

	var s strings.Builder
	s.WriteString(dc.Mnemonic)

	var ops []string
	for _, op := range []*Operand{&dc.Src, &dc.Src2, &dc.Dest} {
		if op.Kind != OperandNone {
			ops = append(ops, op.text)
		}
	}
	if len(ops) > 0 {
		s.WriteString(suffix(dc.Width))
		s.WriteString(" ")
		s.WriteString(strings.Join(ops, ","))
	}

	return s.String()
}

// assembler suffix for the operand width
func suffix(width int) string {
	switch width {
	case 1:
		return "b"
	case 2:
		return "w"
	}
	return "l"
}

// fetch the next width bytes of the instruction.
func (mc *CPU) fetch(width int) (uint32, error) {
	dc := &mc.dc
	if dc.numBytes+width > maxInstructionLength {
		return 0, fmt.Errorf("cpu: instruction too long at %#08x", dc.Address)
	}

	v, err := mc.rtl.Lm(dc.SeqEIP, width)
	if err != nil {
		return 0, fmt.Errorf("cpu: fetch: %w", err)
	}

	for i := 0; i < width; i++ {
		dc.Bytes[dc.numBytes] = uint8(v >> (i * 8))
		dc.numBytes++
	}
	dc.SeqEIP += uint32(width)

	return v, nil
}

// fetch an immediate value of width bytes.
func (mc *CPU) fetchImmediate(op *Operand, width int) error {
	v, err := mc.fetch(width)
	if err != nil {
		return err
	}
	op.setImmediate(v, width)
	return nil
}

// fetch an 8-bit immediate value and sign extend it to width bytes.
func (mc *CPU) fetchSignedImmediate(op *Operand, width int) error {
	v, err := mc.fetch(1)
	if err != nil {
		return err
	}
	op.setImmediate(rtl.Sext(v, 1)&rtl.Mask(width), width)
	return nil
}

// loadOperand reads the value of a register or memory operand.
func (mc *CPU) loadOperand(op *Operand) error {
	switch op.Kind {
	case OperandRegister:
		op.Value = mc.rtl.Lr(op.Reg, op.Width)
	case OperandMemory:
		v, err := mc.rtl.Lm(op.Addr, op.Width)
		if err != nil {
			return fmt.Errorf("cpu: %w", err)
		}
		op.Value = v
	}
	return nil
}

// writeOperand is the only way an instruction commits a result to its
// destination.
func (mc *CPU) writeOperand(op *Operand, v uint32) error {
	switch op.Kind {
	case OperandRegister:
		mc.rtl.Sr(op.Reg, op.Width, v)
	case OperandMemory:
		if err := mc.rtl.Sm(op.Addr, op.Width, v); err != nil {
			return fmt.Errorf("cpu: %w", err)
		}
	default:
		return fmt.Errorf("cpu: cannot write to %s operand at %#08x", op.Kind, mc.dc.Address)
	}
	op.Value = v & rtl.Mask(op.Width)
	return nil
}

// decodeModRM reads the ModR/M byte and, if required, the SIB byte and
// displacement. The r/m operand is written to rm and the reg field is
// returned in the ModRM field of the decode context.
//
// If the r/m operand refers to memory then only the effective address is
// calculated. The value is not loaded.
func (mc *CPU) decodeModRM(rm *Operand, width int) error {
	dc := &mc.dc

	b, err := mc.fetch(1)
	if err != nil {
		return err
	}
	dc.hasModRM = true
	dc.ModRM = ModRM{
		Mod: uint8(b>>6) & 0x03,
		Reg: uint8(b>>3) & 0x07,
		RM:  uint8(b) & 0x07,
	}

	if dc.ModRM.Mod == 3 {
		rm.setRegister(int(dc.ModRM.RM), width)
		return nil
	}

	var addr uint32
	var base, index string
	var scale uint32 = 1
	baseReg := int(dc.ModRM.RM)
	hasBase := true

	if dc.ModRM.RM == 4 {
		sib, err := mc.fetch(1)
		if err != nil {
			return err
		}
		scale = 1 << (sib >> 6)
		idx := int(sib>>3) & 0x07
		baseReg = int(sib) & 0x07

		// an index of 4 means no index register
		if idx != 4 {
			addr += mc.rtl.Lr(idx, 4) * scale
			index = registers.Names32[idx]
		}

		// a base of 5 with mod 0 means no base register and a 32-bit
		// displacement
		if baseReg == 5 && dc.ModRM.Mod == 0 {
			hasBase = false
		}
	} else if dc.ModRM.RM == 5 && dc.ModRM.Mod == 0 {
		hasBase = false
	}

	if hasBase {
		addr += mc.rtl.Lr(baseReg, 4)
		base = registers.Names32[baseReg]
	}

	var disp uint32
	switch {
	case !hasBase || dc.ModRM.Mod == 2:
		disp, err = mc.fetch(4)
		if err != nil {
			return err
		}
	case dc.ModRM.Mod == 1:
		disp, err = mc.fetch(1)
		if err != nil {
			return err
		}
		disp = rtl.Sext(disp, 1)
	}
	addr += disp

	rm.Kind = OperandMemory
	rm.Addr = addr
	rm.Width = width

	var s strings.Builder
	if disp != 0 || (base == "" && index == "") {
		if int32(disp) < 0 && hasBase {
			fmt.Fprintf(&s, "-%#x", -int32(disp))
		} else {
			fmt.Fprintf(&s, "%#x", disp)
		}
	}
	if base != "" || index != "" {
		s.WriteString("(")
		if base != "" {
			s.WriteString("%" + base)
		}
		if index != "" {
			fmt.Fprintf(&s, ",%%%s,%d", index, scale)
		}
		s.WriteString(")")
	}
	rm.text = s.String()

	return nil
}

// decoder reads the operands of an instruction following the opcode.
type decoder func(mc *CPU) error

// G is the register selected by the reg field and E is the register or memory
// operand selected by the r/m field.

// register to r/m. the destination is loaded because the instruction reads it.
func decodeG2E(mc *CPU) error {
	if err := decodeMovG2E(mc); err != nil {
		return err
	}
	return mc.loadOperand(&mc.dc.Dest)
}

// register to r/m. the destination is not loaded.
func decodeMovG2E(mc *CPU) error {
	dc := &mc.dc
	if err := mc.decodeModRM(&dc.Dest, dc.Width); err != nil {
		return err
	}
	dc.Src.setRegister(int(dc.ModRM.Reg), dc.Width)
	return mc.loadOperand(&dc.Src)
}

// r/m to register. the register destination is always loaded.
func decodeE2G(mc *CPU) error {
	dc := &mc.dc
	if err := mc.decodeModRM(&dc.Src, dc.Width); err != nil {
		return err
	}
	if err := mc.loadOperand(&dc.Src); err != nil {
		return err
	}
	dc.Dest.setRegister(int(dc.ModRM.Reg), dc.Width)
	return mc.loadOperand(&dc.Dest)
}

// r/m to register with an immediate of operand width. three operand imul.
func decodeIE2G(mc *CPU) error {
	if err := decodeE2G(mc); err != nil {
		return err
	}
	return mc.fetchImmediate(&mc.dc.Src2, mc.dc.Width)
}

// r/m to register with a sign extended 8-bit immediate. three operand imul.
func decodeSIE2G(mc *CPU) error {
	if err := decodeE2G(mc); err != nil {
		return err
	}
	return mc.fetchSignedImmediate(&mc.dc.Src2, mc.dc.Width)
}

// r/m of the width in the opcode entry to a register of operand size. used by
// the zero and sign extending moves.
func decodeExtend(mc *CPU) error {
	dc := &mc.dc
	if err := mc.decodeModRM(&dc.Src, dc.Width); err != nil {
		return err
	}
	if err := mc.loadOperand(&dc.Src); err != nil {
		return err
	}
	if dc.OperandSize16 {
		dc.Dest.setRegister(int(dc.ModRM.Reg), 2)
	} else {
		dc.Dest.setRegister(int(dc.ModRM.Reg), 4)
	}
	return nil
}

// effective address to register.
func decodeLea(mc *CPU) error {
	dc := &mc.dc
	if err := mc.decodeModRM(&dc.Src, dc.Width); err != nil {
		return err
	}
	if dc.Src.Kind != OperandMemory {
		return fmt.Errorf("cpu: lea with register operand at %#08x", dc.Address)
	}
	dc.Dest.setRegister(int(dc.ModRM.Reg), dc.Width)
	return nil
}

// r/m only. the operand is loaded. used by the group instructions.
func decodeE(mc *CPU) error {
	if err := decodeMovE(mc); err != nil {
		return err
	}
	return mc.loadOperand(&mc.dc.Dest)
}

// r/m only. the operand is not loaded.
func decodeMovE(mc *CPU) error {
	return mc.decodeModRM(&mc.dc.Dest, mc.dc.Width)
}

// immediate to r/m. the destination is loaded.
func decodeI2E(mc *CPU) error {
	if err := decodeE(mc); err != nil {
		return err
	}
	return mc.fetchImmediate(&mc.dc.Src, mc.dc.Width)
}

// immediate to r/m. the destination is not loaded.
func decodeMovI2E(mc *CPU) error {
	if err := decodeMovE(mc); err != nil {
		return err
	}
	return mc.fetchImmediate(&mc.dc.Src, mc.dc.Width)
}

// sign extended 8-bit immediate to r/m.
func decodeSI2E(mc *CPU) error {
	if err := decodeE(mc); err != nil {
		return err
	}
	return mc.fetchSignedImmediate(&mc.dc.Src, mc.dc.Width)
}

// 8-bit immediate to r/m. used by the shift group.
func decodeIb2E(mc *CPU) error {
	if err := decodeE(mc); err != nil {
		return err
	}
	return mc.fetchImmediate(&mc.dc.Src, 1)
}

// constant 1 to r/m. used by the shift group.
func decode12E(mc *CPU) error {
	if err := decodeE(mc); err != nil {
		return err
	}
	mc.dc.Src.setImmediate(1, 1)
	return nil
}

// CL to r/m. used by the shift group.
func decodeCL2E(mc *CPU) error {
	if err := decodeE(mc); err != nil {
		return err
	}
	mc.dc.Src.setRegister(registers.ECX, 1)
	return mc.loadOperand(&mc.dc.Src)
}

// immediate to the accumulator.
func decodeI2a(mc *CPU) error {
	dc := &mc.dc
	dc.Dest.setRegister(registers.EAX, dc.Width)
	if err := mc.loadOperand(&dc.Dest); err != nil {
		return err
	}
	return mc.fetchImmediate(&dc.Src, dc.Width)
}

// immediate to the register in the low three bits of the opcode.
func decodeI2r(mc *CPU) error {
	dc := &mc.dc
	dc.Dest.setRegister(int(dc.Opcode&0x07), dc.Width)
	return mc.fetchImmediate(&dc.Src, dc.Width)
}

// the register in the low three bits of the opcode. the register is loaded.
func decodeR(mc *CPU) error {
	dc := &mc.dc
	dc.Dest.setRegister(int(dc.Opcode&0x07), dc.Width)
	return mc.loadOperand(&dc.Dest)
}

// immediate of operand width.
func decodeI(mc *CPU) error {
	return mc.fetchImmediate(&mc.dc.Src, mc.dc.Width)
}

// sign extended 8-bit immediate.
func decodeSI(mc *CPU) error {
	return mc.fetchSignedImmediate(&mc.dc.Src, mc.dc.Width)
}

// 8-bit immediate.
func decodeIb(mc *CPU) error {
	return mc.fetchImmediate(&mc.dc.Src, 1)
}

// 16-bit immediate.
func decodeIw(mc *CPU) error {
	return mc.fetchImmediate(&mc.dc.Src, 2)
}

// relative jump target. the displacement is the operand width or a single
// byte if the opcode entry says so.
func decodeJ(mc *CPU) error {
	dc := &mc.dc
	disp, err := mc.fetch(dc.Width)
	if err != nil {
		return err
	}
	disp = rtl.Sext(disp, dc.Width)

	// the target is relative to the end of the instruction
	dc.JumpTarget = dc.SeqEIP + disp
	if dc.OperandSize16 {
		dc.JumpTarget &= 0xffff
	}
	dc.Src.setImmediate(dc.JumpTarget, 4)
	dc.Src.text = fmt.Sprintf("%#x", dc.JumpTarget)
	return nil
}

// memory offset to the accumulator.
func decodeO2a(mc *CPU) error {
	dc := &mc.dc
	addr, err := mc.fetch(4)
	if err != nil {
		return err
	}
	dc.Src.Kind = OperandMemory
	dc.Src.Addr = addr
	dc.Src.Width = dc.Width
	dc.Src.text = fmt.Sprintf("%#x", addr)
	if err := mc.loadOperand(&dc.Src); err != nil {
		return err
	}
	dc.Dest.setRegister(registers.EAX, dc.Width)
	return nil
}

// accumulator to memory offset.
func decodeA2O(mc *CPU) error {
	dc := &mc.dc
	addr, err := mc.fetch(4)
	if err != nil {
		return err
	}
	dc.Dest.Kind = OperandMemory
	dc.Dest.Addr = addr
	dc.Dest.Width = dc.Width
	dc.Dest.text = fmt.Sprintf("%#x", addr)
	dc.Src.setRegister(registers.EAX, dc.Width)
	return mc.loadOperand(&dc.Src)
}
