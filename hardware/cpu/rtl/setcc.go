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

package rtl

import "fmt"

// condition codes selected by bits 3 to 1 of the condition nibble.
const (
	condOverflow = iota << 1
	condBelow
	condEqual
	condBelowEqual
	condSign
	condParity
	condLess
	condLessEqual
)

// ConditionNames are the mnemonic suffixes of the sixteen conditions, in
// encoding order.
var ConditionNames = [16]string{
	"o", "no", "b", "nb", "e", "ne", "be", "nbe",
	"s", "ns", "p", "np", "l", "nl", "le", "nle",
}

// Setcc evaluates the condition encoded in the low nibble of cc against the
// current flags. Bit 0 of the nibble inverts the result. Returns 1 if the
// condition holds and 0 if it doesn't.
//
// Conditions that depend on the parity flag return ErrParityUnsupported.
func (r *RTL) Setcc(cc uint8) (uint32, error) {
	sr := &r.regs.Status

	var v bool
	switch cc & 0xe {
	case condOverflow:
		v = sr.Overflow
	case condBelow:
		v = sr.Carry
	case condEqual:
		v = sr.Zero
	case condBelowEqual:
		v = sr.Carry || sr.Zero
	case condSign:
		v = sr.Sign
	case condParity:
		return 0, fmt.Errorf("setcc: %s: %w", ConditionNames[cc&0xf], ErrParityUnsupported)
	case condLess:
		v = sr.Sign != sr.Overflow
	case condLessEqual:
		v = sr.Sign != sr.Overflow || sr.Zero
	}

	if cc&1 == 1 {
		v = !v
	}

	if v {
		return 1, nil
	}
	return 0, nil
}
