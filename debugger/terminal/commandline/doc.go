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

// Package commandline facilitates parsing of command line input. Given a
// command template, it can be used to tokenise and validate user input. It
// also functions as a tab-completion engine, implementing the
// terminal.TabCompletion interface.
//
// The Commands type is the base product of the package. To create an
// instance of Commands, use ParseCommandTemplate() with a suitable template.
// An example template would be:
//
//	template := []string {
//		"LIST",
//		"PRINT [%<expression>S] {%S}",
//		"SORT (RISING|FALLING)",
//		"STEP (%<count>N)",
//	}
//
// Each entry is a keyword followed by zero or more arguments separated by
// spaces. An argument is one of:
//
//	WORD      a literal word. matched case insensitively
//	%N        a number. decimal or hexadecimal with a 0x prefix
//	%S        any string
//	%F        a filename
//	[a|b]     a required choice of one of the alternatives
//	(a|b)     an optional choice
//	{a|b}     zero or more repetitions of the alternatives
//
// Placeholders can be given a label that is used in the help text and in
// error messages. For example %<count>N. Groups can not be nested.
//
// Once parsed, the resulting Commands instance can be used to validate input.
//
//	cmds, _ := ParseCommandTemplate(template)
//	toks := TokeniseInput("list")
//	err := cmds.ValidateTokens(toks)
//	if err != nil {
//		panic("validation failed")
//	}
//
// All validation is case-insensitive. Literal words in the validated tokens
// are normalised to upper case so the tokens can be processed with a simple
// switch statement.
//
// Keywords can be given short aliases with the AddAlias() function. Aliases
// are replaced by the keyword during validation.
//
// The TabCompletion type is used to transform input such that it more closely
// resembles a valid command according to the supplied template. Given a
// number of options to use for the completion, the first option will be
// returned first followed by the second, third, etc. on subsequent calls to
// Complete(). A tab completion session can be terminated with a call to
// Reset().
package commandline
