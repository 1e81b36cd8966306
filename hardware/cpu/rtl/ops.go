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

// Mask returns the bit mask for the width.
func Mask(width int) uint32 {
	switch width {
	case 1:
		return 0xff
	case 2:
		return 0xffff
	}
	return 0xffffffff
}

// Msb returns the most significant bit of v for the width. The return value
// is either 0 or 1.
func Msb(v uint32, width int) uint32 {
	return (v >> (uint(width)*8 - 1)) & 1
}

// Zext zero extends the low width bytes of v to 32 bits.
func Zext(v uint32, width int) uint32 {
	return v & Mask(width)
}

// Sext sign extends the low width bytes of v to 32 bits.
func Sext(v uint32, width int) uint32 {
	switch width {
	case 1:
		return uint32(int32(int8(v)))
	case 2:
		return uint32(int32(int16(v)))
	}
	return v
}

// Eq0 returns 1 if v is zero and 0 otherwise.
func Eq0(v uint32) uint32 {
	if v == 0 {
		return 1
	}
	return 0
}

// Neq0 returns 1 if v is not zero and 0 otherwise.
func Neq0(v uint32) uint32 {
	return Eq0(v) ^ 1
}

// EqI returns 1 if v is equal to imm and 0 otherwise.
func EqI(v uint32, imm uint32) uint32 {
	return Eq0(v ^ imm)
}

// AddFlags adds src and the carry to dest. The result is masked to the
// width. Also returns the carry and overflow conditions of the addition.
func AddFlags(dest uint32, src uint32, carry bool, width int) (result uint32, cf bool, of bool) {
	m := Mask(width)
	dest &= m
	src &= m

	wide := uint64(dest) + uint64(src)
	if carry {
		wide++
	}
	result = uint32(wide) & m
	cf = wide > uint64(m)

	// operands have the same sign and the result has a different sign
	of = Msb(^(dest^src)&(dest^result), width) == 1

	return result, cf, of
}

// SubFlags subtracts src and the borrow from dest. The result is masked to
// the width. The returned carry indicates a borrow.
func SubFlags(dest uint32, src uint32, borrow bool, width int) (result uint32, cf bool, of bool) {
	m := Mask(width)
	dest &= m
	src &= m

	b := uint64(0)
	if borrow {
		b = 1
	}
	result = (dest - src - uint32(b)) & m
	cf = uint64(dest) < uint64(src)+b

	// operands have different signs and the result has the sign of the
	// subtrahend
	of = Msb((dest^src)&(dest^result), width) == 1

	return result, cf, of
}
