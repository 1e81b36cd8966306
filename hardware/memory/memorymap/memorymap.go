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

// Package memorymap defines the layout of the emulated machine: where the
// guest image is loaded, where devices are mapped in the physical address
// space and which I/O ports they answer to.
package memorymap

// Size of physical memory unless specified otherwise by the preferences.
const DefaultPhysicalSize = uint32(128 * 1024 * 1024)

// The guest image is loaded at this physical address and execution begins
// here.
const OriginImage = uint32(0x100000)

// Paging constants. Pages are 4KiB and both the page directory and page
// tables have 1024 entries.
const (
	PageSize     = uint32(4096)
	PageMask     = PageSize - 1
	TableEntries = 1024
)

// The area of the virtual address space reserved for user processes. Every
// address space shares the kernel mappings below OriginUser.
const (
	OriginUser = uint32(0x08000000)
	MemtopUser = uint32(0xc0000000)
)

// Memory mapped video. 32bit pixels in row order.
const (
	ScreenWidth  = 400
	ScreenHeight = 300
	OriginVGA    = uint32(0x40000)
	SizeVGA      = uint32(ScreenWidth * ScreenHeight * 4)
)

// I/O ports.
const (
	PortSerial         = uint32(0x3f8)
	SizeSerial         = uint32(8)
	PortRTC            = uint32(0x48)
	SizeRTC            = uint32(4)
	PortKeyboardData   = uint32(0x60)
	PortKeyboardStatus = uint32(0x64)
	PortScreen         = uint32(0x100)
	SizeScreen         = uint32(4)
	PortAudio          = uint32(0x200)
	SizeAudio          = uint32(4)
)

// Size of the I/O port space.
const PortSpace = uint32(0x10000)
