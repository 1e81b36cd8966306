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

// Package expression evaluates the arithmetic expressions typed into the
// debugger. Expressions can refer to registers by name, with a leading
// dollar sign, and can dereference memory with the unary * operator:
//
//	$eax + 4
//	*($esp + 8) == 0x1234
//	($ecx & 0xff) != 0 && !$ebx
//
// Arithmetic is signed and 32 bits wide. The result is returned as the
// 32 bit pattern and the caller decides how to interpret it.
//
// All evaluation errors are recoverable and are returned as errors wrapping
// one of the sentinel errors of this package. An Evaluator is reused for
// every expression but the token buffer is reinitialised on every call to
// Evaluate().
package expression
