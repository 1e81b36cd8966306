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
)

// Result records the most recently executed instruction.
type Result struct {
	// address of the first byte of the instruction
	Address uint32

	// the raw bytes of the instruction
	Bytes [maxInstructionLength]byte
	Len   int

	// assembler text
	Asm string

	// the instruction changed the flow of control
	IsJump bool
}

func (r *Result) set(dc *DecodeContext) {
	r.Address = dc.Address
	r.Bytes = dc.Bytes
	r.Len = dc.numBytes
	r.Asm = dc.asm()
	r.IsJump = dc.IsJump
}

// Valid returns false if no instruction has been executed.
func (r Result) Valid() bool {
	return r.Len > 0
}

func (r Result) String() string {
	if !r.Valid() {
		return ""
	}

	var s strings.Builder
	fmt.Fprintf(&s, "%08x:   ", r.Address)
	for _, b := range r.Bytes[:r.Len] {
		fmt.Fprintf(&s, "%02x ", b)
	}

	// align the assembler text for instructions of up to eight bytes
	if r.Len < 8 {
		s.WriteString(strings.Repeat("   ", 8-r.Len))
	}
	s.WriteString(r.Asm)

	return s.String()
}
