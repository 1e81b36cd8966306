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
	"io"

	"github.com/jetsetilly/gopher386/logger"
)

// offsets of the serial port registers
const (
	serialData   = 0
	serialStatus = 5
)

// the transmitter is always ready
const serialTxReady = 0x20

// Serial is a transmit only serial port. Bytes written to the data register
// are passed to the output writer.
type Serial struct {
	output io.Writer
}

// NewSerial is the preferred method of initialisation for the Serial type. A
// nil output discards all data.
func NewSerial(output io.Writer) *Serial {
	if output == nil {
		output = io.Discard
	}
	return &Serial{output: output}
}

// SetOutput changes the writer that receives the serial data.
func (s *Serial) SetOutput(output io.Writer) {
	if output == nil {
		output = io.Discard
	}
	s.output = output
}

// Read implements the mmio.Device interface.
func (s *Serial) Read(offset uint32, width int) uint32 {
	if offset == serialStatus {
		return serialTxReady
	}
	return 0
}

// Write implements the mmio.Device interface.
func (s *Serial) Write(offset uint32, width int, data uint32) {
	if offset != serialData {
		return
	}
	if _, err := s.output.Write([]byte{uint8(data)}); err != nil {
		logger.Logf(logger.Allow, "serial", "%v", err)
	}
}
