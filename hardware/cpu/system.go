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
	"github.com/jetsetilly/gopher386/logger"
)

// value read from a port with no device
const unmappedPort = 0xffffffff

// the port number is an 8-bit immediate or in DX. the decoder for the DX form
// leaves the source operand empty
func (dc *DecodeContext) port(mc *CPU) uint32 {
	if dc.Src.Kind == OperandImmediate {
		return dc.Src.Value
	}
	return mc.rtl.Lr(registers.EDX, 2)
}

func execIn(mc *CPU) error {
	dc := &mc.dc
	port := dc.port(mc)

	v := uint32(unmappedPort)
	if no := mc.ports.Lookup(port); no != -1 {
		v = mc.ports.Read(no, port, dc.Width)
	} else {
		logger.Logf(logger.Allow, "cpu", "in: no device at port %#04x", port)
	}

	dc.Dest.setRegister(registers.EAX, dc.Width)
	return mc.writeOperand(&dc.Dest, v&rtl.Mask(dc.Width))
}

func execOut(mc *CPU) error {
	dc := &mc.dc
	port := dc.port(mc)
	v := mc.rtl.Lr(registers.EAX, dc.Width)

	if no := mc.ports.Lookup(port); no != -1 {
		mc.ports.Write(no, port, dc.Width, v)
	} else {
		logger.Logf(logger.Allow, "cpu", "out: no device at port %#04x", port)
	}
	return nil
}

// the six byte operand is the limit of the table followed by the base
func execLidt(mc *CPU) error {
	dc := &mc.dc
	limit, err := mc.rtl.Lm(dc.Dest.Addr, 2)
	if err != nil {
		return fmt.Errorf("cpu: %w", err)
	}
	base, err := mc.rtl.Lm(dc.Dest.Addr+2, 4)
	if err != nil {
		return fmt.Errorf("cpu: %w", err)
	}
	mc.Regs.IDTR.Limit = uint16(limit)
	mc.Regs.IDTR.Base = base
	dc.Asm = fmt.Sprintf("lidt %s", dc.Dest.text)
	return nil
}

// control register selected by the reg field. the r/m field is always a
// register
func decodeControl(mc *CPU) error {
	dc := &mc.dc
	if err := mc.decodeModRM(&dc.Dest, 4); err != nil {
		return err
	}
	if dc.Dest.Kind != OperandRegister {
		return fmt.Errorf("cpu: control register move with memory operand at %#08x", dc.Address)
	}
	return nil
}

func (mc *CPU) controlRegister(n uint8) (*uint32, error) {
	switch n {
	case 0:
		return &mc.Regs.CR0, nil
	case 3:
		return &mc.Regs.CR3, nil
	}
	return nil, fmt.Errorf("cpu: %w (cr%d) at %#08x", ErrUnimplemented, n, mc.dc.Address)
}

// move from a control register
func execMovFromCR(mc *CPU) error {
	dc := &mc.dc
	cr, err := mc.controlRegister(dc.ModRM.Reg)
	if err != nil {
		return err
	}
	dc.Asm = fmt.Sprintf("movl %%cr%d,%s", dc.ModRM.Reg, dc.Dest.text)
	return mc.writeOperand(&dc.Dest, *cr)
}

// move to a control register
func execMovToCR(mc *CPU) error {
	dc := &mc.dc
	cr, err := mc.controlRegister(dc.ModRM.Reg)
	if err != nil {
		return err
	}
	*cr = mc.rtl.Lr(dc.Dest.Reg, 4)
	dc.Asm = fmt.Sprintf("movl %s,%%cr%d", dc.Dest.text, dc.ModRM.Reg)
	return nil
}

func execClc(mc *CPU) error {
	mc.rtl.SetCF(false)
	return nil
}

func execStc(mc *CPU) error {
	mc.rtl.SetCF(true)
	return nil
}

func execCmc(mc *CPU) error {
	mc.rtl.SetCF(!mc.rtl.GetCF())
	return nil
}

func execCli(mc *CPU) error {
	mc.rtl.SetIF(false)
	return nil
}

func execSti(mc *CPU) error {
	mc.rtl.SetIF(true)
	return nil
}
