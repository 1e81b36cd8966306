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

// Package peripherals contains the devices attached to the I/O ports and the
// memory mapped framebuffer. Every device implements the mmio.Device
// interface and is registered with a device table by the hardware package.
//
// Devices that are fed from outside the emulation goroutine, the keyboard
// and the framebuffer, are safe for concurrent use.
package peripherals
