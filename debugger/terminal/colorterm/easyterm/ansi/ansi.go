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

// Package ansi defines ANSI control codes for styles and colours.
package ansi

import (
	"fmt"
	"strings"
)

// ansi colour numbers. black is zero
var colours = []string{"BLACK", "RED", "GREEN", "YELLOW", "BLUE", "MAGENTA", "CYAN", "WHITE"}

const colDefault = 9

// ansi targets. the colour number is appended to these
const (
	targetPen       = 3
	targetPaper     = 4
	targetBrightPen = 9
)

var attributes = map[string]int{
	"BOLD":      1,
	"DIM":       2,
	"UNDERLINE": 4,
	"INVERSE":   7,
}

// Pens is the table of colours to be used for text.
var Pens = map[string]string{}

// DimPens is the table of pastel colours to be used for text.
var DimPens = map[string]string{}

// PenStyles is the table of styles to be used for text.
var PenStyles = map[string]string{}

// Control sequences.
const (
	NormalPen  = "\033[0m"
	ClearLine  = "\033[2K"
	CursorHome = "\r"
)

// CursorBack returns the sequence to move the cursor n columns left.
func CursorBack(n int) string {
	if n <= 0 {
		return ""
	}
	return fmt.Sprintf("\033[%dD", n)
}

func init() {
	for _, c := range colours {
		k := strings.ToLower(c)
		Pens[k] = mustBuild(c, "", "", true)
		DimPens[k] = mustBuild(c, "", "", false)
	}
	for a := range attributes {
		PenStyles[strings.ToLower(a)] = mustBuild("", "", a, false)
	}
}

func mustBuild(pen, paper, attribute string, brightPen bool) string {
	s, err := ColourBuild(pen, paper, attribute, brightPen)
	if err != nil {
		panic(err)
	}
	return s
}

func colourNumber(c string) (int, error) {
	c = strings.ToUpper(c)
	if c == "NORMAL" {
		return colDefault, nil
	}
	for i := range colours {
		if colours[i] == c {
			return i, nil
		}
	}
	return 0, fmt.Errorf("ansi: unknown colour (%s)", c)
}

// ColourBuild creates the ANSI sequence to create the pen with the
// foreground and background colour and attribute. Empty strings leave that
// part of the pen unchanged.
func ColourBuild(pen, paper, attribute string, brightPen bool) (string, error) {
	var codes []string

	if pen != "" {
		n, err := colourNumber(pen)
		if err != nil {
			return "", err
		}
		target := targetPen
		if brightPen {
			target = targetBrightPen
		}
		codes = append(codes, fmt.Sprintf("%d%d", target, n))
	}

	if paper != "" {
		n, err := colourNumber(paper)
		if err != nil {
			return "", err
		}
		codes = append(codes, fmt.Sprintf("%d%d", targetPaper, n))
	}

	if attribute != "" {
		a, ok := attributes[strings.ToUpper(attribute)]
		if !ok {
			return "", fmt.Errorf("ansi: unknown attribute (%s)", attribute)
		}
		codes = append(codes, fmt.Sprintf("%d", a))
	}

	return fmt.Sprintf("\033[%sm", strings.Join(codes, ";")), nil
}
