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

package peripherals_test

import (
	"errors"
	"testing"
	"time"

	"github.com/jetsetilly/gopher386/hardware/memory/mmio"
	"github.com/jetsetilly/gopher386/hardware/peripherals"
	"github.com/jetsetilly/gopher386/test"
)

func TestDevicesImplementInterface(t *testing.T) {
	test.DemandImplements[mmio.Device](t, peripherals.NewSerial(nil))
	test.DemandImplements[mmio.Device](t, peripherals.NewRTC())
	test.DemandImplements[mmio.Device](t, peripherals.NewKeyboard())
	test.DemandImplements[mmio.Device](t, peripherals.NewKeyboard().Status())
	test.DemandImplements[mmio.Device](t, peripherals.Screen{})
	test.DemandImplements[mmio.Device](t, peripherals.NewVGA())
	test.DemandImplements[mmio.Device](t, &peripherals.Audio{})
}

func TestSerial(t *testing.T) {
	w := &test.Writer{}
	s := peripherals.NewSerial(w)

	for _, c := range []byte("hello\n") {
		s.Write(0, 1, uint32(c))
	}
	test.ExpectEquality(t, w.Compare("hello\n"), true)

	// writes to other registers are ignored
	s.Write(1, 1, 'x')
	test.ExpectEquality(t, w.String(), "hello\n")

	test.ExpectEquality(t, s.Read(5, 1), 0x20)
	test.ExpectEquality(t, s.Read(0, 1), 0)
}

func TestRTC(t *testing.T) {
	now := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	rtc := peripherals.NewRTC()
	rtc.SetClock(func() time.Time { return now })
	test.ExpectEquality(t, rtc.Read(0, 4), 0)

	now = now.Add(1500 * time.Millisecond)
	test.ExpectEquality(t, rtc.Read(0, 4), 1500)
}

func TestKeyboard(t *testing.T) {
	k := peripherals.NewKeyboard()
	status := k.Status()

	test.ExpectEquality(t, status.Read(0, 1), 0)
	test.ExpectEquality(t, k.Read(0, 4), 0)

	a := peripherals.KeyCode("A")
	test.ExpectInequality(t, a, 0)
	test.ExpectEquality(t, peripherals.KeyCode("NOT A KEY"), 0)

	test.ExpectEquality(t, k.Press(a, true), true)
	test.ExpectEquality(t, k.Press(a, false), true)
	test.ExpectEquality(t, status.Read(0, 1), 1)
	test.ExpectEquality(t, k.Read(0, 4), a|peripherals.KeyDownMask)
	test.ExpectEquality(t, k.Read(0, 4), a)
	test.ExpectEquality(t, status.Read(0, 1), 0)

	// the queue is bounded
	var n int
	for k.Press(a, true) {
		n++
	}
	test.ExpectEquality(t, n, 64)

	k.Reset()
	test.ExpectEquality(t, status.Read(0, 1), 0)
}

func TestScreen(t *testing.T) {
	v := peripherals.NewVGA()
	test.ExpectEquality(t, v.Screen().Read(0, 4), 400<<16|300)
}

func TestVGA(t *testing.T) {
	v := peripherals.NewVGA()

	// initial frame is always presented
	test.ExpectEquality(t, v.Frame(func([]byte) {}), true)
	test.ExpectEquality(t, v.Frame(func([]byte) {}), false)

	v.Write(4, 4, 0x00ff8040)
	test.ExpectEquality(t, v.Read(4, 4), 0x00ff8040)
	test.ExpectEquality(t, v.Read(5, 1), 0x80)

	var pixel []byte
	test.ExpectEquality(t, v.Frame(func(pixels []byte) {
		pixel = append(pixel, pixels[4:8]...)
	}), true)
	test.DemandEquality(t, len(pixel), 4)
	test.ExpectEquality(t, pixel[0], 0x40)
	test.ExpectEquality(t, pixel[1], 0x80)
	test.ExpectEquality(t, pixel[2], 0xff)

	// out of range accesses are clipped
	v.Write(400*300*4-2, 4, 0xffffffff)
	test.ExpectEquality(t, v.Read(400*300*4-2, 4), 0xffff)

	v.Clear()
	test.ExpectEquality(t, v.Read(4, 4), 0)
}

type mockMixer struct {
	samples []uint8
	fail    bool
}

func (m *mockMixer) SetAudio(sample uint8) error {
	if m.fail {
		return errors.New("mixer failure")
	}
	m.samples = append(m.samples, sample)
	return nil
}

func TestAudio(t *testing.T) {
	a := &peripherals.Audio{}
	m := &mockMixer{}
	a.AddMixer(m)
	a.AddMixer(&mockMixer{fail: true})

	a.Write(0, 1, 0x180)
	a.Write(0, 1, 0x7f)
	test.DemandEquality(t, len(m.samples), 2)
	test.ExpectEquality(t, m.samples[0], 0x80)
	test.ExpectEquality(t, m.samples[1], 0x7f)
	test.ExpectEquality(t, a.Read(0, 1), 0)
}
