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

//go:build !windows

package colorterm

import (
	"bufio"
	"io"
)

type readRune struct {
	r   rune
	err error
}

// runeReader delivers runes from the input on a channel so that reading can
// be interleaved with other events.
type runeReader chan readRune

func initRuneReader(input io.Reader) runeReader {
	r := make(runeReader, 64)

	go func() {
		b := bufio.NewReader(input)
		for {
			c, _, err := b.ReadRune()
			r <- readRune{r: c, err: err}
			if err != nil {
				return
			}
		}
	}()

	return r
}
