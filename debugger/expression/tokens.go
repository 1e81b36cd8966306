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

package expression

import (
	"fmt"
	"regexp"
)

// MaxTokens is the maximum number of tokens in an expression.
const MaxTokens = 32

// MaxTokenLength is the length of the longest token plus one.
const MaxTokenLength = 32

type tokenType int

// the order of the operator types matters. binary operators are between
// opBinaryBegin and opBinaryEnd and unary operators are between
// opUnaryBegin and opUnaryEnd
const (
	tkSpace tokenType = iota
	tkDec
	tkHex
	tkReg
	tkLParen
	tkRParen

	opBinaryBegin
	opOr
	opAnd
	opBitOr
	opBitXor
	opBitAnd
	opEq
	opNeq
	opLess
	opLessEq
	opGreater
	opGreaterEq
	opAdd
	opSub
	opMul
	opDiv
	opMod
	opBinaryEnd

	opUnaryBegin
	opBitNot
	opNot
	opDeref
	opNeg
	opUnaryEnd
)

func (t tokenType) isOperator() bool {
	return t.isBinary() || t.isUnary()
}

func (t tokenType) isBinary() bool {
	return t > opBinaryBegin && t < opBinaryEnd
}

func (t tokenType) isUnary() bool {
	return t > opUnaryBegin && t < opUnaryEnd
}

// precedence of operators. lower values bind more loosely. returns zero for
// non-operators
func (t tokenType) precedence() int {
	switch t {
	case opOr:
		return 1
	case opAnd:
		return 2
	case opBitOr:
		return 3
	case opBitXor:
		return 4
	case opBitAnd:
		return 5
	case opEq, opNeq:
		return 6
	case opLess, opLessEq, opGreater, opGreaterEq:
		return 7
	case opAdd, opSub:
		return 8
	case opMul, opDiv, opMod:
		return 9
	case opBitNot, opNot, opDeref, opNeg:
		return 10
	}
	return 0
}

var operatorText = map[tokenType]string{
	opOr: "||", opAnd: "&&", opBitOr: "|", opBitXor: "^", opBitAnd: "&",
	opEq: "==", opNeq: "!=", opLess: "<", opLessEq: "<=", opGreater: ">",
	opGreaterEq: ">=", opAdd: "+", opSub: "-", opMul: "*", opDiv: "/",
	opMod: "%", opBitNot: "~", opNot: "!", opDeref: "*", opNeg: "-",
}

type token struct {
	typ tokenType
	str string
}

func (tk token) String() string {
	switch tk.typ {
	case tkDec, tkHex, tkReg:
		return tk.str
	case tkLParen:
		return "("
	case tkRParen:
		return ")"
	}
	return operatorText[tk.typ]
}

type rule struct {
	re  *regexp.Regexp
	typ tokenType
}

func newRule(pattern string, typ tokenType) rule {
	re := regexp.MustCompile(fmt.Sprintf("^(?:%s)", pattern))
	re.Longest()
	return rule{re: re, typ: typ}
}

// lexical rules are tried in order. hexadecimal literals are tried before
// decimal literals and two character operators before the single character
// operators they begin with
var rules = []rule{
	newRule(` +`, tkSpace),
	newRule(`\(`, tkLParen),
	newRule(`\)`, tkRParen),
	newRule(`0x[0-9a-fA-F]+`, tkHex),
	newRule(`[0-9]+`, tkDec),
	newRule(`\$(e?[a-d]x|e?[sb]p|e?[sd]i|[a-d][hl]|eip)`, tkReg),
	newRule(`&&`, opAnd),
	newRule(`\|\|`, opOr),
	newRule(`&`, opBitAnd),
	newRule(`\|`, opBitOr),
	newRule(`\^`, opBitXor),
	newRule(`==`, opEq),
	newRule(`!=`, opNeq),
	newRule(`<=`, opLessEq),
	newRule(`<`, opLess),
	newRule(`>=`, opGreaterEq),
	newRule(`>`, opGreater),
	newRule(`\+`, opAdd),
	newRule(`-`, opSub),
	newRule(`\*`, opMul),
	newRule(`/`, opDiv),
	newRule(`%`, opMod),
	newRule(`!`, opNot),
	newRule(`~`, opBitNot),
}

// tokenise the expression into the token buffer. the buffer is cleared
// first
func (ev *Evaluator) tokenise(expr string) error {
	ev.numTokens = 0

	pos := 0
	for pos < len(expr) {
		var match *rule
		var l int

		for i := range rules {
			if loc := rules[i].re.FindStringIndex(expr[pos:]); loc != nil {
				match = &rules[i]
				l = loc[1]
				break
			}
		}

		if match == nil {
			return fmt.Errorf("expression: %w at position %d (%s)", ErrNoMatch, pos, expr[pos:])
		}

		s := expr[pos : pos+l]
		pos += l

		if match.typ == tkSpace {
			continue
		}

		if l >= MaxTokenLength {
			return fmt.Errorf("expression: %w (%s)", ErrTokenTooLong, s)
		}
		if ev.numTokens >= MaxTokens {
			return fmt.Errorf("expression: %w (more than %d)", ErrTooManyTokens, MaxTokens)
		}

		ev.tokens[ev.numTokens] = token{typ: match.typ, str: s}
		ev.numTokens++
	}

	return nil
}

// reclassify the multiply and subtract operators as dereference and
// negation when they can't be binary operators. that is when they are at the
// start of the expression or follow another operator or an opening
// parenthesis
func (ev *Evaluator) reclassify() {
	for i := 0; i < ev.numTokens; i++ {
		tk := &ev.tokens[i]
		if tk.typ != opMul && tk.typ != opSub {
			continue
		}

		if i == 0 || ev.tokens[i-1].typ.isOperator() || ev.tokens[i-1].typ == tkLParen {
			if tk.typ == opMul {
				tk.typ = opDeref
			} else {
				tk.typ = opNeg
			}
		}
	}
}
