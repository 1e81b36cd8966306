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

package registers

import (
	"fmt"
	"strings"
)

// Register indexes for 32-bit and 16-bit access.
const (
	EAX = iota
	ECX
	EDX
	EBX
	ESP
	EBP
	ESI
	EDI
)

// NumGPR is the number of general purpose registers.
const NumGPR = 8

// Names of the registers by width and index.
var (
	Names32 = [NumGPR]string{"eax", "ecx", "edx", "ebx", "esp", "ebp", "esi", "edi"}
	Names16 = [NumGPR]string{"ax", "cx", "dx", "bx", "sp", "bp", "si", "di"}
	Names8  = [NumGPR]string{"al", "cl", "dl", "bl", "ah", "ch", "dh", "bh"}
)

// DescriptorTable is the base address and limit of a descriptor table. Used
// for the IDTR.
type DescriptorTable struct {
	Base  uint32
	Limit uint16
}

// bits in CR0
const (
	CR0ProtectionEnable = 0x00000001
	CR0Paging           = 0x80000000
)

// Registers is the complete register file of the CPU.
type Registers struct {
	gpr [NumGPR]uint32

	EIP    uint32
	Status Status

	// code segment selector. only used when building interrupt frames
	CS uint16

	IDTR DescriptorTable

	CR0 uint32
	CR3 uint32
}

// ResetEIP is the value of EIP after a reset. The guest image is loaded at
// this address.
const ResetEIP = 0x100000

// NewRegisters is the preferred method of initialisation for the Registers
// type.
func NewRegisters() *Registers {
	r := &Registers{}
	r.Reset()
	return r
}

// Reset all registers to their initial state.
func (r *Registers) Reset() {
	r.gpr = [NumGPR]uint32{}
	r.EIP = ResetEIP
	r.Status.Reset()
	r.CS = 8
	r.IDTR = DescriptorTable{}
	r.CR0 = CR0ProtectionEnable
	r.CR3 = 0
}

// Read register by index and width. Width is the number of bytes and must be
// 1, 2 or 4.
func (r *Registers) Read(index int, width int) uint32 {
	switch width {
	case 4:
		return r.gpr[index&7]
	case 2:
		return r.gpr[index&7] & 0xffff
	case 1:
		if index&4 == 4 {
			return (r.gpr[index&3] >> 8) & 0xff
		}
		return r.gpr[index&3] & 0xff
	}
	panic(fmt.Sprintf("registers: illegal width (%d)", width))
}

// Write register by index and width. Only the bits covered by the width are
// changed.
func (r *Registers) Write(index int, width int, v uint32) {
	switch width {
	case 4:
		r.gpr[index&7] = v
	case 2:
		r.gpr[index&7] = (r.gpr[index&7] &^ 0xffff) | (v & 0xffff)
	case 1:
		if index&4 == 4 {
			r.gpr[index&3] = (r.gpr[index&3] &^ 0xff00) | ((v & 0xff) << 8)
		} else {
			r.gpr[index&3] = (r.gpr[index&3] &^ 0xff) | (v & 0xff)
		}
	default:
		panic(fmt.Sprintf("registers: illegal width (%d)", width))
	}
}

// Lookup returns the value of the named register. Names are case
// insensitive and cover all widths of the general purpose registers and EIP.
func (r *Registers) Lookup(name string) (uint32, bool) {
	name = strings.ToLower(name)
	if name == "eip" {
		return r.EIP, true
	}
	for i := 0; i < NumGPR; i++ {
		switch name {
		case Names32[i]:
			return r.Read(i, 4), true
		case Names16[i]:
			return r.Read(i, 2), true
		case Names8[i]:
			return r.Read(i, 1), true
		}
	}
	return 0, false
}

// PagingEnabled returns true if the paging bit of CR0 is set.
func (r *Registers) PagingEnabled() bool {
	return r.CR0&CR0Paging == CR0Paging
}

// PageDirectory returns the physical address of the page directory.
func (r *Registers) PageDirectory() uint32 {
	return r.CR3 &^ 0xfff
}

// LoadPageDirectory sets CR3.
func (r *Registers) LoadPageDirectory(base uint32) {
	r.CR3 = base &^ 0xfff
}

// EnablePaging sets the paging bit of CR0.
func (r *Registers) EnablePaging() {
	r.CR0 |= CR0Paging
}

func (r *Registers) String() string {
	s := strings.Builder{}
	for i := 0; i < NumGPR; i++ {
		s.WriteString(fmt.Sprintf("%s=%#08x ", Names32[i], r.gpr[i]))
	}
	s.WriteString(fmt.Sprintf("eip=%#08x %s", r.EIP, r.Status.String()))
	return s.String()
}
