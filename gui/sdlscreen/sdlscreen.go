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

// Package sdlscreen displays the VGA framebuffer in an SDL window and
// forwards key events to the emulated keyboard.
//
// SDL requires that all calls are made from the main thread. The Service()
// function should therefore be called repeatedly from the main goroutine,
// with the emulation itself running in another goroutine. The VGA device
// guards the framebuffer so this is safe.
package sdlscreen

import (
	"fmt"

	"github.com/jetsetilly/gopher386/hardware/memory/memorymap"
	"github.com/jetsetilly/gopher386/hardware/peripherals"
	"github.com/jetsetilly/gopher386/logger"
	"github.com/veandco/go-sdl2/sdl"
)

// bytes per pixel in the framebuffer
const pixelDepth = 4

// Screen is the SDL window showing the framebuffer.
type Screen struct {
	vga      *peripherals.VGA
	keyboard *peripherals.Keyboard

	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
}

// NewScreen creates the window. The window is scaled by the scale factor.
func NewScreen(vga *peripherals.VGA, keyboard *peripherals.Keyboard, scale int) (*Screen, error) {
	if scale < 1 {
		scale = 1
	}

	scr := &Screen{
		vga:      vga,
		keyboard: keyboard,
	}

	var err error

	err = sdl.Init(sdl.INIT_VIDEO)
	if err != nil {
		return nil, fmt.Errorf("sdlscreen: %w", err)
	}

	scr.window, err = sdl.CreateWindow("Gopher386",
		int32(sdl.WINDOWPOS_UNDEFINED), int32(sdl.WINDOWPOS_UNDEFINED),
		int32(memorymap.ScreenWidth*scale), int32(memorymap.ScreenHeight*scale),
		uint32(sdl.WINDOW_SHOWN))
	if err != nil {
		return nil, fmt.Errorf("sdlscreen: %w", err)
	}

	scr.renderer, err = sdl.CreateRenderer(scr.window, -1, uint32(sdl.RENDERER_ACCELERATED))
	if err != nil {
		return nil, fmt.Errorf("sdlscreen: %w", err)
	}

	// pixels are little-endian 0x00rrggbb values which is the byte order of
	// ARGB8888
	scr.texture, err = scr.renderer.CreateTexture(uint32(sdl.PIXELFORMAT_ARGB8888),
		int(sdl.TEXTUREACCESS_STREAMING),
		int32(memorymap.ScreenWidth), int32(memorymap.ScreenHeight))
	if err != nil {
		return nil, fmt.Errorf("sdlscreen: %w", err)
	}

	logger.Logf(logger.Allow, "sdlscreen", "window opened at scale %d", scale)

	return scr, nil
}

// Destroy the window and release SDL resources.
func (scr *Screen) Destroy() {
	if scr.texture != nil {
		_ = scr.texture.Destroy()
	}
	if scr.renderer != nil {
		_ = scr.renderer.Destroy()
	}
	if scr.window != nil {
		_ = scr.window.Destroy()
	}
	sdl.Quit()
}

// Service handles pending SDL events and redraws the window if the
// framebuffer has changed. Returns false if the window has been closed.
func (scr *Screen) Service() bool {
	for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
		switch ev := ev.(type) {
		case *sdl.QuitEvent:
			return false

		case *sdl.KeyboardEvent:
			if ev.Repeat != 0 {
				continue
			}
			code := KeyCode(sdl.GetKeyName(ev.Keysym.Sym))
			if code == 0 {
				continue
			}
			if !scr.keyboard.Press(code, ev.Type == sdl.KEYDOWN) {
				logger.Log(logger.Allow, "sdlscreen", "keyboard queue full")
			}
		}
	}

	var err error
	if scr.vga.Frame(func(pixels []byte) {
		err = scr.texture.Update(nil, pixels, memorymap.ScreenWidth*pixelDepth)
	}) {
		if err != nil {
			logger.Log(logger.Allow, "sdlscreen", err)
			return true
		}
		if err := scr.renderer.Copy(scr.texture, nil, nil); err != nil {
			logger.Log(logger.Allow, "sdlscreen", err)
			return true
		}
		scr.renderer.Present()
	}

	return true
}
