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

package commandline_test

import (
	"errors"
	"testing"

	"github.com/jetsetilly/gopher386/debugger/terminal/commandline"
	"github.com/jetsetilly/gopher386/test"
)

func TestParser(t *testing.T) {
	cmds, err := commandline.ParseCommandTemplate([]string{
		"step (%<count>N)",
		"INFO [REGS|WATCHES]",
		"PRINT %<expression>S {%S}",
		"QUIT",
	})
	test.DemandSuccess(t, err)

	// sorted and normalised
	test.ExpectEquality(t, cmds.String(), "INFO [REGS|WATCHES]\nPRINT <expression> {<string>}\nQUIT\nSTEP (<count>)")

	_, err = commandline.ParseCommandTemplate([]string{"TEST (arg"})
	test.ExpectFailure(t, err)
	_, err = commandline.ParseCommandTemplate([]string{"TEST (arg]"})
	test.ExpectFailure(t, err)
	_, err = commandline.ParseCommandTemplate([]string{"TEST (a|(b))"})
	test.ExpectFailure(t, err)
	_, err = commandline.ParseCommandTemplate([]string{"TEST %X"})
	test.ExpectFailure(t, err)
	_, err = commandline.ParseCommandTemplate([]string{"TEST {%S} %N"})
	test.ExpectFailure(t, err)
	_, err = commandline.ParseCommandTemplate([]string{"TEST", "test"})
	test.ExpectFailure(t, err)
}

func TestValidation(t *testing.T) {
	cmds, err := commandline.ParseCommandTemplate([]string{
		"TEST [arg]",
		"OPT (arg)",
		"NUM [%N]",
		"CHOICE [foo|bar|%N] (baz)",
		"EXPR [%S] {%S}",
	})
	test.DemandSuccess(t, err)

	test.ExpectSuccess(t, cmds.Validate(""))

	test.ExpectSuccess(t, cmds.Validate("TEST arg"))
	test.ExpectSuccess(t, cmds.Validate("test ARG"))
	test.ExpectFailure(t, cmds.Validate("TEST"))
	test.ExpectFailure(t, cmds.Validate("TEST arg foo"))
	test.ExpectFailure(t, cmds.Validate("TEST foo"))

	test.ExpectSuccess(t, cmds.Validate("OPT"))
	test.ExpectSuccess(t, cmds.Validate("OPT arg"))
	test.ExpectFailure(t, cmds.Validate("OPT foo"))

	test.ExpectSuccess(t, cmds.Validate("NUM 10"))
	test.ExpectSuccess(t, cmds.Validate("NUM 0x10"))
	test.ExpectSuccess(t, cmds.Validate("NUM -1"))
	test.ExpectFailure(t, cmds.Validate("NUM ten"))

	test.ExpectSuccess(t, cmds.Validate("CHOICE foo"))
	test.ExpectSuccess(t, cmds.Validate("CHOICE 5 baz"))
	test.ExpectFailure(t, cmds.Validate("CHOICE wibble"))

	test.ExpectSuccess(t, cmds.Validate("EXPR $eax + 1 == 2"))
	test.ExpectFailure(t, cmds.Validate("EXPR"))

	err = cmds.Validate("WIBBLE")
	test.ExpectSuccess(t, errors.Is(err, commandline.ErrUnrecognisedCommand))
}

func TestNormalisation(t *testing.T) {
	cmds, err := commandline.ParseCommandTemplate([]string{
		"INFO [REGS|WATCHES|R|W]",
		"STEP (%N)",
	})
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, cmds.AddAlias("si", "STEP"))
	test.ExpectFailure(t, cmds.AddAlias("x", "EXAMINE"))
	test.ExpectFailure(t, cmds.AddAlias("info", "STEP"))

	toks := commandline.TokeniseInput("info  r")
	test.DemandSuccess(t, cmds.ValidateTokens(toks))
	test.ExpectEquality(t, toks.String(), "INFO R")

	toks = commandline.TokeniseInput("si 5")
	test.DemandSuccess(t, cmds.ValidateTokens(toks))
	test.ExpectEquality(t, toks.String(), "STEP 5")

	kw, ok := toks.Get()
	test.ExpectEquality(t, ok, true)
	test.ExpectEquality(t, kw, "STEP")
	test.ExpectEquality(t, toks.Remaining(), 1)
	test.ExpectEquality(t, toks.Remainder(), "5")
	test.ExpectEquality(t, toks.Remaining(), 0)
	_, ok = toks.Get()
	test.ExpectEquality(t, ok, false)
}

func TestHelp(t *testing.T) {
	cmds, err := commandline.ParseCommandTemplate([]string{
		"CONTINUE",
		"STEP (%<count>N)",
	})
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, cmds.AddAlias("c", "CONTINUE"))
	test.DemandSuccess(t, cmds.AddHelp("HELP", map[string]string{
		"CONTINUE": "Continue execution",
		"STEP":     "Step instructions",
	}))
	test.ExpectFailure(t, cmds.AddHelp("HELP", nil))

	test.ExpectSuccess(t, cmds.Validate("HELP"))
	test.ExpectSuccess(t, cmds.Validate("HELP step"))
	test.ExpectSuccess(t, cmds.Validate("HELP c"))
	test.ExpectFailure(t, cmds.Validate("HELP wibble"))

	test.ExpectEquality(t, cmds.Help("step"), "Step instructions\n\n  Usage: STEP (<count>)")
	test.ExpectEquality(t, cmds.Help("c"), "Continue execution\n\n  Usage: CONTINUE\n  Alias: C")
	test.ExpectEquality(t, cmds.Help("wibble"), "no help for WIBBLE")
	test.ExpectEquality(t, cmds.HelpOverview(), "CONTINUE   HELP       STEP")
}

func TestTabCompletion(t *testing.T) {
	cmds, err := commandline.ParseCommandTemplate([]string{
		"TEST [arg]",
		"TEST1 [arg]",
		"FOO [bar|baz] wibble",
		"EXPR %S",
	})
	test.DemandSuccess(t, err)

	tc := commandline.NewTabCompletion(cmds)

	completion := tc.Complete("TE")
	test.ExpectEquality(t, completion, "TEST ")

	// next completion option
	completion = tc.Complete(completion)
	test.ExpectEquality(t, completion, "TEST1 ")

	// cycle back to the first completion option
	completion = tc.Complete(completion)
	test.ExpectEquality(t, completion, "TEST ")

	tc.Reset()
	test.ExpectEquality(t, tc.Complete("test a"), "test ARG ")

	tc.Reset()
	completion = tc.Complete("FOO ba")
	test.ExpectEquality(t, completion, "FOO BAR ")
	completion = tc.Complete(completion)
	test.ExpectEquality(t, completion, "FOO BAZ ")

	// whitespace is normalised
	tc.Reset()
	test.ExpectEquality(t, tc.Complete("FOO   bar     wib"), "FOO bar WIBBLE ")

	// nothing to complete
	tc.Reset()
	test.ExpectEquality(t, tc.Complete("EXPR $ea"), "EXPR $ea")
	test.ExpectEquality(t, tc.Complete("XYZ"), "XYZ")
	test.ExpectEquality(t, tc.Complete("TEST "), "TEST ")
}
