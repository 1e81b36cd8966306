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
	"sync"

	"github.com/jetsetilly/gopher386/hardware/memory/memorymap"
)

// Screen reports the size of the framebuffer.
type Screen struct {
	Width  uint32
	Height uint32
}

// Read implements the mmio.Device interface. The width is in the upper
// sixteen bits and the height in the lower sixteen bits.
func (s Screen) Read(offset uint32, width int) uint32 {
	return s.Width<<16 | s.Height&0xffff
}

// Write implements the mmio.Device interface. The screen size cannot be
// changed.
func (s Screen) Write(offset uint32, width int, data uint32) {
}

// VGA is the memory mapped framebuffer. Each pixel is 32-bits with the red,
// green and blue components in the low three bytes.
//
// The framebuffer is written by the emulation and read by the display, which
// usually runs in another goroutine.
type VGA struct {
	crit sync.Mutex

	// pixels stored as little-endian 32-bit values
	pixels []byte

	// framebuffer has changed since the last call to Frame()
	dirty bool
}

// NewVGA is the preferred method of initialisation for the VGA type.
func NewVGA() *VGA {
	return &VGA{
		pixels: make([]byte, memorymap.SizeVGA),
		dirty:  true,
	}
}

// Screen returns the size of the framebuffer.
func (v *VGA) Screen() Screen {
	return Screen{
		Width:  memorymap.ScreenWidth,
		Height: memorymap.ScreenHeight,
	}
}

// Read implements the mmio.Device interface.
func (v *VGA) Read(offset uint32, width int) uint32 {
	v.crit.Lock()
	defer v.crit.Unlock()

	var d uint32
	for i := 0; i < width && int(offset)+i < len(v.pixels); i++ {
		d |= uint32(v.pixels[int(offset)+i]) << (i * 8)
	}
	return d
}

// Write implements the mmio.Device interface.
func (v *VGA) Write(offset uint32, width int, data uint32) {
	v.crit.Lock()
	defer v.crit.Unlock()

	for i := 0; i < width && int(offset)+i < len(v.pixels); i++ {
		v.pixels[int(offset)+i] = uint8(data >> (i * 8))
	}
	v.dirty = true
}

// Clear the framebuffer to black.
func (v *VGA) Clear() {
	v.crit.Lock()
	defer v.crit.Unlock()
	clear(v.pixels)
	v.dirty = true
}

// Frame calls the function with the pixels if the framebuffer has changed
// since the previous call. The function must not retain the slice. Returns
// true if the function was called.
func (v *VGA) Frame(f func(pixels []byte)) bool {
	v.crit.Lock()
	defer v.crit.Unlock()

	if !v.dirty {
		return false
	}
	f(v.pixels)
	v.dirty = false
	return true
}
