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

package ansi_test

import (
	"testing"

	"github.com/jetsetilly/gopher386/debugger/terminal/colorterm/easyterm/ansi"
	"github.com/jetsetilly/gopher386/test"
)

func TestColourBuild(t *testing.T) {
	s, err := ansi.ColourBuild("red", "", "", false)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, s, "\033[31m")

	s, err = ansi.ColourBuild("red", "blue", "bold", true)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, s, "\033[91;44;1m")

	s, err = ansi.ColourBuild("normal", "", "", false)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, s, "\033[39m")

	_, err = ansi.ColourBuild("puce", "", "", false)
	test.ExpectFailure(t, err)
	_, err = ansi.ColourBuild("", "", "blink", false)
	test.ExpectFailure(t, err)

	test.ExpectEquality(t, ansi.Pens["yellow"], "\033[93m")
	test.ExpectEquality(t, ansi.DimPens["white"], "\033[37m")
	test.ExpectEquality(t, ansi.PenStyles["bold"], "\033[1m")
	test.ExpectEquality(t, ansi.CursorBack(3), "\033[3D")
	test.ExpectEquality(t, ansi.CursorBack(0), "")
}
