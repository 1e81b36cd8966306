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

package performance

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jetsetilly/gopher386/hardware"
	"github.com/jetsetilly/gopher386/hardware/cpu"
)

// the timer channel is only checked every performanceBrake instructions
const performanceBrake = 1000

// sentinal error returned by Run() loop.
var timedOut = errors.New("performance timed out")

// Check the performance of the emulator. The machine should already have a
// program loaded.
//
// Emulation will run for the specified duration and will create a cpu,
// memory profile, a trace (or a combination of those) as defined by the
// Profile argument.
func Check(output io.Writer, profile Profile, m *hardware.Machine, duration string) error {
	dur, err := time.ParseDuration(duration)
	if err != nil {
		return fmt.Errorf("performance: %w", err)
	}

	// number of instructions completed by earlier runs of the program
	var completed uint64

	runner := func() error {
		timesUp := time.After(dur)
		brake := 0

		callback := func() (bool, error) {
			brake++
			if brake < performanceBrake {
				return true, nil
			}
			brake = 0

			select {
			case <-timesUp:
				return false, timedOut
			default:
			}
			return true, nil
		}

		for {
			_, err := m.Run(cpu.Unbounded, callback)
			if err != nil {
				return err
			}

			// the program has ended. run it again
			if m.CPU.State == cpu.Ended {
				completed += m.CPU.Instructions
				if err := m.Reset(); err != nil {
					return err
				}
			}

			// check for the end of the measurement period here too because
			// very short programs might never reach the brake
			select {
			case <-timesUp:
				return timedOut
			default:
			}
		}
	}

	err = RunProfiler(profile, "performance", runner)
	if err != nil && !errors.Is(err, timedOut) {
		return fmt.Errorf("performance: %w", err)
	}

	n := completed + m.CPU.Instructions
	mips := float64(n) / dur.Seconds() / 1000000
	fmt.Fprintf(output, "%.2f MIPS (%d instructions in %.2f seconds)\n", mips, n, dur.Seconds())

	return nil
}
