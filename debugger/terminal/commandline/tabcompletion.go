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

package commandline

import (
	"strings"
)

// TabCompletion implements the terminal.TabCompletion interface.
type TabCompletion struct {
	cmds *Commands

	matches []string
	match   int

	// the words before the word being completed
	prefix string

	// the most recent completion. if Complete() is called with this value
	// then the next match is returned
	lastCompletion string
}

// NewTabCompletion initialises a new TabCompletion instance.
func NewTabCompletion(cmds *Commands) *TabCompletion {
	return &TabCompletion{cmds: cmds}
}

// Reset is used to clear an outstanding completion session.
func (tc *TabCompletion) Reset() {
	tc.matches = tc.matches[:0]
	tc.match = 0
	tc.prefix = ""
	tc.lastCompletion = ""
}

// Complete transforms the input such that the last word in the input is
// expanded to meet the closest match allowed by the template. Subsequent
// calls to Complete() without an intervening call to Reset() will cycle
// through the original available options.
func (tc *TabCompletion) Complete(input string) string {
	if len(tc.matches) > 0 && input == tc.lastCompletion {
		tc.match = (tc.match + 1) % len(tc.matches)
		tc.lastCompletion = tc.prefix + tc.matches[tc.match] + " "
		return tc.lastCompletion
	}

	tc.Reset()

	words := strings.Fields(input)
	if len(words) == 0 || strings.HasSuffix(input, " ") {
		return input
	}

	last := strings.ToUpper(words[len(words)-1])
	if len(words) > 1 {
		tc.prefix = strings.Join(words[:len(words)-1], " ") + " "
	}

	for _, o := range tc.options(words) {
		if strings.HasPrefix(o, last) {
			tc.matches = append(tc.matches, o)
		}
	}

	if len(tc.matches) == 0 {
		return input
	}

	tc.lastCompletion = tc.prefix + tc.matches[0] + " "
	return tc.lastCompletion
}

// the literal options available for the last word. arguments are counted by
// position
func (tc *TabCompletion) options(words []string) []string {
	if len(words) == 1 {
		return tc.cmds.Keywords()
	}

	c, ok := tc.cmds.index[tc.cmds.resolve(words[0])]
	if !ok {
		return nil
	}

	n := len(words) - 2
	if n >= len(c.args) {
		if len(c.args) == 0 || c.args[len(c.args)-1].typ != argRepeat {
			return nil
		}
		n = len(c.args) - 1
	}

	var opts []string
	for _, o := range c.args[n].options {
		if !o.isPlaceholder() {
			opts = append(opts, o.tag)
		}
	}
	return opts
}
