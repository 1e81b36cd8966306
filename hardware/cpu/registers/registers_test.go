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

package registers_test

import (
	"testing"

	"github.com/jetsetilly/gopher386/hardware/cpu/registers"
	"github.com/jetsetilly/gopher386/test"
)

func TestSharedStorage(t *testing.T) {
	r := registers.NewRegisters()

	r.Write(registers.EAX, 4, 0x12345678)
	test.ExpectEquality(t, r.Read(registers.EAX, 2), 0x5678)
	test.ExpectEquality(t, r.Read(0, 1), 0x78) // AL
	test.ExpectEquality(t, r.Read(4, 1), 0x56) // AH

	// writing to the 16bit view leaves the upper bits unchanged
	r.Write(registers.EAX, 2, 0xaaaa)
	test.ExpectEquality(t, r.Read(registers.EAX, 4), 0x1234aaaa)

	// writing to AH
	r.Write(4, 1, 0xbb)
	test.ExpectEquality(t, r.Read(registers.EAX, 4), 0x1234bbaa)

	// writing to AL
	r.Write(0, 1, 0xcc)
	test.ExpectEquality(t, r.Read(registers.EAX, 4), 0x1234bbcc)

	// 8bit index 4 is AH and not the low byte of ESP
	r.Write(registers.ESP, 4, 0xffffffff)
	r.Write(4, 1, 0x00)
	test.ExpectEquality(t, r.Read(registers.ESP, 4), 0xffffffff)
	test.ExpectEquality(t, r.Read(registers.EAX, 4), 0x123400cc)

	// BH
	r.Write(registers.EBX, 4, 0)
	r.Write(7, 1, 0x7f)
	test.ExpectEquality(t, r.Read(registers.EBX, 4), 0x7f00)
}

func TestAllGPRs(t *testing.T) {
	r := registers.NewRegisters()
	for i := 0; i < registers.NumGPR; i++ {
		v := uint32(i) * 0x11111111
		r.Write(i, 4, v)
		test.ExpectEquality(t, r.Read(i, 4), v)
		test.ExpectEquality(t, r.Read(i, 2), v&0xffff)
	}
}

func TestLookup(t *testing.T) {
	r := registers.NewRegisters()
	r.Write(registers.ECX, 4, 0xdeadbeef)
	r.EIP = 0x100004

	v, ok := r.Lookup("ecx")
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, v, 0xdeadbeef)

	v, ok = r.Lookup("CX")
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, v, 0xbeef)

	v, ok = r.Lookup("ch")
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, v, 0xbe)

	v, ok = r.Lookup("eip")
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, v, 0x100004)

	_, ok = r.Lookup("efx")
	test.ExpectFailure(t, ok)
}

func TestStatus(t *testing.T) {
	var sr registers.Status
	test.ExpectEquality(t, sr.Value(), 0x2)
	test.ExpectEquality(t, sr.String(), "oiszc")

	sr.Carry = true
	sr.Overflow = true
	test.ExpectEquality(t, sr.Value(), 0x803)
	test.ExpectEquality(t, sr.String(), "OiszC")

	sr.FromValue(0x2c2)
	test.ExpectEquality(t, sr.Carry, false)
	test.ExpectEquality(t, sr.Zero, true)
	test.ExpectEquality(t, sr.Sign, true)
	test.ExpectEquality(t, sr.InterruptEnabled, true)
	test.ExpectEquality(t, sr.Overflow, false)
	test.ExpectEquality(t, sr.Value(), 0x2c2)
}

func TestControlRegisters(t *testing.T) {
	r := registers.NewRegisters()
	test.ExpectEquality(t, r.EIP, registers.ResetEIP)
	test.ExpectEquality(t, r.CS, 8)
	test.ExpectFailure(t, r.PagingEnabled())

	r.LoadPageDirectory(0x1234567)
	test.ExpectEquality(t, r.PageDirectory(), 0x1234000)

	r.EnablePaging()
	test.ExpectSuccess(t, r.PagingEnabled())
}
