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
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnrecognisedCommand is returned by Validate() and ValidateTokens()
// when the first token is not a command keyword or alias.
var ErrUnrecognisedCommand = errors.New("unrecognised command")

// Validate input string against command defintions.
func (cmds Commands) Validate(input string) error {
	return cmds.ValidateTokens(TokeniseInput(input))
}

// ValidateTokens like Validate, but works on tokens rather than an input
// string. Aliases are replaced by the keyword and literal arguments are
// normalised to upper case. The tokens are reset on return.
func (cmds Commands) ValidateTokens(tokens *Tokens) error {
	defer tokens.Reset()

	kw, ok := tokens.Get()
	if !ok {
		return nil
	}
	kw = cmds.resolve(kw)

	c, ok := cmds.index[kw]
	if !ok {
		return fmt.Errorf("%w (%s)", ErrUnrecognisedCommand, kw)
	}
	tokens.Update(kw)

	for _, a := range c.args {
		if err := a.validate(tokens); err != nil {
			return fmt.Errorf("%s: %w", kw, err)
		}
	}

	if tokens.Remaining() > 0 {
		arg, _ := tokens.Get()

		if kw == cmds.helpCommand {
			return fmt.Errorf("no help for %s", strings.ToUpper(arg))
		}

		return fmt.Errorf("unrecognised argument (%s) for %s", arg, kw)
	}

	return nil
}

func (a argument) validate(tokens *Tokens) error {
	for {
		tok, ok := tokens.Get()
		if !ok {
			if a.typ == argRequired {
				return fmt.Errorf("%s required", a.verbose())
			}
			return nil
		}

		if !a.match(tokens, tok) {
			if a.typ == argRequired {
				return fmt.Errorf("unrecognised argument (%s)", tok)
			}

			// examine the token again with the next argument
			tokens.Unget()
			return nil
		}

		if a.typ != argRepeat {
			return nil
		}
	}
}

// match the token against the options of the argument. literals are tried
// first so that a literal is preferred over a string placeholder
func (a argument) match(tokens *Tokens, tok string) bool {
	for _, o := range a.options {
		if !o.isPlaceholder() && strings.ToUpper(tok) == o.tag {
			tokens.Update(o.tag)
			return true
		}
	}

	for _, o := range a.options {
		switch o.tag {
		case "%N":
			if _, err := strconv.ParseInt(tok, 0, 32); err == nil {
				return true
			}
		case "%S", "%F":
			return true
		}
	}

	return false
}
