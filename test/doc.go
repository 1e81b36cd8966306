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

// Package test bundles the helper functions used by the package tests in the
// project. They remove the boilerplate of comparing values and reporting
// failures through the standard testing harness.
//
// The Expect functions report a failure but allow the test to continue. The
// Demand functions stop the test immediately, which is useful when later
// parts of a test depend on the value being correct. For example, demanding
// that the lengths of two slices are equal before iterating over them.
//
// How the success/failure functions treat nil is worth noting: nil is a
// success value. This is because a nil error is the usual way of indicating
// that a function completed without a problem.
//
// The Writer and RingWriter types implement io.Writer and are used to capture
// output for later comparison.
package test
