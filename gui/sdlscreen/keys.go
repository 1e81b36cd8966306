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

package sdlscreen

import (
	"strings"

	"github.com/jetsetilly/gopher386/hardware/peripherals"
)

// SDL key names that differ from the names used by the keyboard device
var keyNames = map[string]string{
	"`":           "GRAVE",
	"-":           "MINUS",
	"=":           "EQUALS",
	"[":           "LEFTBRACKET",
	"]":           "RIGHTBRACKET",
	"\\":          "BACKSLASH",
	";":           "SEMICOLON",
	"'":           "APOSTROPHE",
	",":           "COMMA",
	".":           "PERIOD",
	"/":           "SLASH",
	"LEFT SHIFT":  "LSHIFT",
	"RIGHT SHIFT": "RSHIFT",
	"LEFT CTRL":   "LCTRL",
	"RIGHT CTRL":  "RCTRL",
	"LEFT ALT":    "LALT",
	"RIGHT ALT":   "RALT",
	"MENU":        "APPLICATION",
	"ENTER":       "RETURN",
}

// KeyCode converts an SDL key name to a key code for the keyboard device.
// Returns zero if the key has no equivalent.
func KeyCode(sdlName string) uint32 {
	n := strings.ToUpper(sdlName)
	if k, ok := keyNames[n]; ok {
		n = k
	}
	return peripherals.KeyCode(n)
}
