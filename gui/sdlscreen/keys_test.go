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

package sdlscreen_test

import (
	"testing"

	"github.com/jetsetilly/gopher386/gui/sdlscreen"
	"github.com/jetsetilly/gopher386/hardware/peripherals"
	"github.com/jetsetilly/gopher386/test"
)

func TestKeyCode(t *testing.T) {
	test.ExpectEquality(t, sdlscreen.KeyCode("A"), peripherals.KeyCode("A"))
	test.ExpectEquality(t, sdlscreen.KeyCode("Return"), peripherals.KeyCode("RETURN"))
	test.ExpectEquality(t, sdlscreen.KeyCode("Left Shift"), peripherals.KeyCode("LSHIFT"))
	test.ExpectEquality(t, sdlscreen.KeyCode("PageUp"), peripherals.KeyCode("PAGEUP"))
	test.ExpectEquality(t, sdlscreen.KeyCode("["), peripherals.KeyCode("LEFTBRACKET"))
	test.ExpectEquality(t, sdlscreen.KeyCode("Keypad 5"), uint32(0))
	test.ExpectInequality(t, sdlscreen.KeyCode("Escape"), uint32(0))
}
