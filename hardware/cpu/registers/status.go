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
	"strings"
)

// bits of the EFLAGS register that are represented in the Status type
const (
	FlagCarry     = 0x0001
	FlagZero      = 0x0040
	FlagSign      = 0x0080
	FlagInterrupt = 0x0200
	FlagOverflow  = 0x0800

	// bit 1 of EFLAGS is reserved and always set
	flagReserved = 0x0002
)

// Status is the flags register of the CPU.
type Status struct {
	Carry            bool
	Zero             bool
	Sign             bool
	InterruptEnabled bool
	Overflow         bool
}

// Label returns the canonical name for the status register.
func (sr Status) Label() string {
	return "eflags"
}

// String returns the flags as a series of letters. Uppercase indicates the
// flag is set.
func (sr Status) String() string {
	s := strings.Builder{}

	flag := func(set bool, r rune) {
		if set {
			s.WriteRune(r)
		} else {
			s.WriteRune(r + ('a' - 'A'))
		}
	}

	flag(sr.Overflow, 'O')
	flag(sr.InterruptEnabled, 'I')
	flag(sr.Sign, 'S')
	flag(sr.Zero, 'Z')
	flag(sr.Carry, 'C')

	return s.String()
}

// Reset status flags to initial state.
func (sr *Status) Reset() {
	sr.FromValue(0)
}

// Value packs the flags into the EFLAGS layout, suitable for pushing onto
// the stack.
func (sr Status) Value() uint32 {
	v := uint32(flagReserved)
	if sr.Carry {
		v |= FlagCarry
	}
	if sr.Zero {
		v |= FlagZero
	}
	if sr.Sign {
		v |= FlagSign
	}
	if sr.InterruptEnabled {
		v |= FlagInterrupt
	}
	if sr.Overflow {
		v |= FlagOverflow
	}
	return v
}

// FromValue unpacks an EFLAGS value, popped from the stack for example.
// Bits that are not represented by the Status type are ignored.
func (sr *Status) FromValue(v uint32) {
	sr.Carry = v&FlagCarry == FlagCarry
	sr.Zero = v&FlagZero == FlagZero
	sr.Sign = v&FlagSign == FlagSign
	sr.InterruptEnabled = v&FlagInterrupt == FlagInterrupt
	sr.Overflow = v&FlagOverflow == FlagOverflow
}
