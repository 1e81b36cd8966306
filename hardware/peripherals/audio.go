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
	"github.com/jetsetilly/gopher386/logger"
)

// AudioMixer receives the samples written to the audio port.
type AudioMixer interface {
	SetAudio(sample uint8) error
}

// Audio is an 8-bit mono audio output. Each write to the port is a sample.
type Audio struct {
	mixers []AudioMixer
}

// AddMixer adds a mixer to the list of mixers that receive samples.
func (a *Audio) AddMixer(m AudioMixer) {
	a.mixers = append(a.mixers, m)
}

// Read implements the mmio.Device interface.
func (a *Audio) Read(offset uint32, width int) uint32 {
	return 0
}

// Write implements the mmio.Device interface.
func (a *Audio) Write(offset uint32, width int, data uint32) {
	for _, m := range a.mixers {
		if err := m.SetAudio(uint8(data)); err != nil {
			logger.Log(logger.Allow, "audio", err)
		}
	}
}
