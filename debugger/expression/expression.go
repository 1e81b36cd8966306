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
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Sentinel errors. All errors returned by Evaluate() wrap one of these.
var (
	ErrNoMatch            = errors.New("unrecognised input")
	ErrTokenTooLong       = errors.New("token too long")
	ErrTooManyTokens      = errors.New("too many tokens")
	ErrParentheses        = errors.New("parentheses are not matched")
	ErrSyntax             = errors.New("bad expression")
	ErrNoDominantOperator = errors.New("no dominant operator")
	ErrBadLiteral         = errors.New("bad numeric literal")
	ErrUnknownRegister    = errors.New("unknown register")
	ErrDivideByZero       = errors.New("division by zero")
	ErrMemory             = errors.New("memory not readable")
)

// Registers resolves register names. The name does not include the leading
// dollar sign.
type Registers interface {
	Lookup(name string) (uint32, bool)
}

// Memory is read when dereferencing an address. Reads should go through
// the same address translation as the CPU.
type Memory interface {
	Read(address uint32, width int) (uint32, error)
}

// Evaluator evaluates expressions against the registers and memory of the
// machine.
type Evaluator struct {
	regs Registers
	mem  Memory

	tokens    [MaxTokens]token
	numTokens int
}

// NewEvaluator is the preferred method of initialisation for the Evaluator
// type.
func NewEvaluator(regs Registers, mem Memory) *Evaluator {
	return &Evaluator{
		regs: regs,
		mem:  mem,
	}
}

// Evaluate the expression. The result is the 32 bit pattern of the signed
// result.
func (ev *Evaluator) Evaluate(expr string) (uint32, error) {
	if err := ev.tokenise(expr); err != nil {
		return 0, err
	}

	if !ev.balanced() {
		return 0, fmt.Errorf("expression: %w", ErrParentheses)
	}

	ev.reclassify()

	v, err := ev.eval(0, ev.numTokens-1)
	if err != nil {
		return 0, err
	}

	return uint32(v), nil
}

// String returns the tokens of the most recent expression separated by
// spaces. Useful for checking how an expression has been interpreted.
func (ev *Evaluator) String() string {
	s := strings.Builder{}
	for i := 0; i < ev.numTokens; i++ {
		if i > 0 {
			s.WriteRune(' ')
		}
		s.WriteString(ev.tokens[i].String())
	}
	return s.String()
}

// balanced returns true if every closing parenthesis has an opening
// parenthesis and the other way around.
func (ev *Evaluator) balanced() bool {
	depth := 0
	for i := 0; i < ev.numTokens; i++ {
		switch ev.tokens[i].typ {
		case tkLParen:
			depth++
		case tkRParen:
			if depth == 0 {
				return false
			}
			depth--
		}
	}
	return depth == 0
}

// returns the index of the parenthesis that closes the one at p. returns -1
// if there is no such parenthesis
func (ev *Evaluator) closing(p int) int {
	depth := 0
	for i := p; i < ev.numTokens; i++ {
		switch ev.tokens[i].typ {
		case tkLParen:
			depth++
		case tkRParen:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// the dominant operator is the operator with the lowest precedence that is
// not inside parentheses. of binary operators with equal precedence the
// rightmost is dominant, which makes the operators left associative. unary
// operators are right associative so the leftmost is dominant
func (ev *Evaluator) dominant(p int, q int) int {
	pos := -1
	prec := 0

	for i := p; i <= q; i++ {
		tk := ev.tokens[i].typ

		if tk == tkLParen {
			i = ev.closing(i)
			if i < 0 {
				return -1
			}
			continue
		}

		if !tk.isOperator() {
			continue
		}

		pr := tk.precedence()
		if pos == -1 || pr < prec || (pr == prec && tk.isBinary()) {
			pos = i
			prec = pr
		}
	}

	return pos
}

func (ev *Evaluator) eval(p int, q int) (int32, error) {
	if p > q {
		return 0, fmt.Errorf("expression: %w", ErrSyntax)
	}

	if p == q {
		return ev.operand(ev.tokens[p])
	}

	if ev.tokens[p].typ == tkLParen && ev.closing(p) == q {
		return ev.eval(p+1, q-1)
	}

	pos := ev.dominant(p, q)
	if pos < 0 {
		return 0, fmt.Errorf("expression: %w", ErrNoDominantOperator)
	}

	op := ev.tokens[pos].typ

	if op.isUnary() {
		// a unary operator can't have anything to its left
		if pos != p {
			return 0, fmt.Errorf("expression: %w: unexpected %s", ErrSyntax, ev.tokens[pos])
		}

		v, err := ev.eval(pos+1, q)
		if err != nil {
			return 0, err
		}
		return ev.unary(op, v)
	}

	// both sides are always evaluated. there is no short circuit for the
	// logical operators
	lv, err := ev.eval(p, pos-1)
	if err != nil {
		return 0, err
	}
	rv, err := ev.eval(pos+1, q)
	if err != nil {
		return 0, err
	}

	return binary(op, lv, rv)
}

// operand returns the value of a literal or register.
func (ev *Evaluator) operand(tk token) (int32, error) {
	switch tk.typ {
	case tkHex:
		v, err := strconv.ParseUint(tk.str[2:], 16, 32)
		if err != nil {
			return 0, fmt.Errorf("expression: %w (%s)", ErrBadLiteral, tk.str)
		}
		return int32(v), nil

	case tkDec:
		v, err := strconv.ParseUint(tk.str, 10, 32)
		if err != nil {
			return 0, fmt.Errorf("expression: %w (%s)", ErrBadLiteral, tk.str)
		}
		return int32(v), nil

	case tkReg:
		v, ok := ev.regs.Lookup(tk.str[1:])
		if !ok {
			return 0, fmt.Errorf("expression: %w (%s)", ErrUnknownRegister, tk.str)
		}
		return int32(v), nil
	}

	return 0, fmt.Errorf("expression: %w: unexpected %s", ErrSyntax, tk)
}

func (ev *Evaluator) unary(op tokenType, v int32) (int32, error) {
	switch op {
	case opBitNot:
		return ^v, nil
	case opNot:
		return boolean(v == 0), nil
	case opNeg:
		return -v, nil
	case opDeref:
		m, err := ev.mem.Read(uint32(v), 4)
		if err != nil {
			return 0, fmt.Errorf("expression: %w: %#08x: %w", ErrMemory, uint32(v), err)
		}
		return int32(m), nil
	}
	return 0, fmt.Errorf("expression: %w", ErrSyntax)
}

func binary(op tokenType, lv int32, rv int32) (int32, error) {
	switch op {
	case opOr:
		return boolean(lv != 0 || rv != 0), nil
	case opAnd:
		return boolean(lv != 0 && rv != 0), nil
	case opBitOr:
		return lv | rv, nil
	case opBitXor:
		return lv ^ rv, nil
	case opBitAnd:
		return lv & rv, nil
	case opEq:
		return boolean(lv == rv), nil
	case opNeq:
		return boolean(lv != rv), nil
	case opLess:
		return boolean(lv < rv), nil
	case opLessEq:
		return boolean(lv <= rv), nil
	case opGreater:
		return boolean(lv > rv), nil
	case opGreaterEq:
		return boolean(lv >= rv), nil
	case opAdd:
		return lv + rv, nil
	case opSub:
		return lv - rv, nil
	case opMul:
		return lv * rv, nil
	case opDiv:
		if rv == 0 {
			return 0, fmt.Errorf("expression: %w", ErrDivideByZero)
		}
		return lv / rv, nil
	case opMod:
		if rv == 0 {
			return 0, fmt.Errorf("expression: %w", ErrDivideByZero)
		}
		return lv % rv, nil
	}
	return 0, fmt.Errorf("expression: %w", ErrSyntax)
}

func boolean(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
