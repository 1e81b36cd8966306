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

	"github.com/jetsetilly/gopher386/hardware/memory/mmio"
)

// KeyDownMask is set in a key code if the key was pressed. The bit is clear
// if the key was released.
const KeyDownMask = 0x8000

// KeyNames lists the keys in key code order. Key code zero means no key.
var KeyNames = []string{
	"NONE", "ESCAPE",
	"F1", "F2", "F3", "F4", "F5", "F6", "F7", "F8", "F9", "F10", "F11", "F12",
	"GRAVE", "1", "2", "3", "4", "5", "6", "7", "8", "9", "0",
	"MINUS", "EQUALS", "BACKSPACE",
	"TAB", "Q", "W", "E", "R", "T", "Y", "U", "I", "O", "P",
	"LEFTBRACKET", "RIGHTBRACKET", "BACKSLASH",
	"CAPSLOCK", "A", "S", "D", "F", "G", "H", "J", "K", "L",
	"SEMICOLON", "APOSTROPHE", "RETURN",
	"LSHIFT", "Z", "X", "C", "V", "B", "N", "M",
	"COMMA", "PERIOD", "SLASH", "RSHIFT",
	"LCTRL", "APPLICATION", "LALT", "SPACE", "RALT", "RCTRL",
	"UP", "DOWN", "LEFT", "RIGHT",
	"INSERT", "DELETE", "HOME", "END", "PAGEUP", "PAGEDOWN",
}

// KeyCode returns the key code for the key name. Returns zero if the name is
// not recognised.
func KeyCode(name string) uint32 {
	for i, n := range KeyNames {
		if n == name {
			return uint32(i)
		}
	}
	return 0
}

// maximum number of key events waiting to be read. further events are
// dropped
const keyboardQueueLen = 64

// Keyboard is a queue of key events. The data port returns the oldest event
// and the status port returns one if there is an event waiting.
type Keyboard struct {
	crit  sync.Mutex
	queue []uint32
}

// NewKeyboard is the preferred method of initialisation for the Keyboard
// type.
func NewKeyboard() *Keyboard {
	return &Keyboard{
		queue: make([]uint32, 0, keyboardQueueLen),
	}
}

// Press queues a key event. Returns false if the queue is full.
func (k *Keyboard) Press(code uint32, down bool) bool {
	if down {
		code |= KeyDownMask
	}

	k.crit.Lock()
	defer k.crit.Unlock()

	if len(k.queue) >= keyboardQueueLen {
		return false
	}
	k.queue = append(k.queue, code)
	return true
}

// Reset empties the queue.
func (k *Keyboard) Reset() {
	k.crit.Lock()
	defer k.crit.Unlock()
	k.queue = k.queue[:0]
}

// Read implements the mmio.Device interface. Reading the data port removes
// the event from the queue.
func (k *Keyboard) Read(offset uint32, width int) uint32 {
	k.crit.Lock()
	defer k.crit.Unlock()

	if len(k.queue) == 0 {
		return 0
	}
	v := k.queue[0]
	k.queue = k.queue[1:]
	return v
}

// Write implements the mmio.Device interface. Writes are ignored.
func (k *Keyboard) Write(offset uint32, width int, data uint32) {
}

// Status returns the device for the status port.
func (k *Keyboard) Status() mmio.Device {
	return keyboardStatus{k: k}
}

type keyboardStatus struct {
	k *Keyboard
}

func (s keyboardStatus) Read(offset uint32, width int) uint32 {
	s.k.crit.Lock()
	defer s.k.crit.Unlock()
	if len(s.k.queue) > 0 {
		return 1
	}
	return 0
}

func (s keyboardStatus) Write(offset uint32, width int, data uint32) {
}
