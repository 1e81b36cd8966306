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

package peripherals

import (
	"time"
)

// RTC reports the number of milliseconds since the machine started.
type RTC struct {
	boot time.Time

	// returns the current time. replaceable for testing
	now func() time.Time
}

// NewRTC is the preferred method of initialisation for the RTC type.
func NewRTC() *RTC {
	rtc := &RTC{now: time.Now}
	rtc.Reset()
	return rtc
}

// Reset the boot time to now.
func (rtc *RTC) Reset() {
	rtc.boot = rtc.now()
}

// SetClock replaces the function used to read the current time. The boot time
// is reset.
func (rtc *RTC) SetClock(now func() time.Time) {
	rtc.now = now
	rtc.Reset()
}

// Uptime returns the time since the boot time.
func (rtc *RTC) Uptime() time.Duration {
	return rtc.now().Sub(rtc.boot)
}

// Read implements the mmio.Device interface.
func (rtc *RTC) Read(offset uint32, width int) uint32 {
	return uint32(rtc.Uptime().Milliseconds())
}

// Write implements the mmio.Device interface. The RTC cannot be written.
func (rtc *RTC) Write(offset uint32, width int, data uint32) {
}
