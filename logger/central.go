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

// Package logger is the central log for the emulator. Any component can add
// an entry with Log() or Logf(). Entries are tagged, usually with the name of
// the package making the entry.
//
// Consecutive identical entries are collapsed into a single entry with a
// repeat count. Only the most recent entries are kept.
//
// The package level functions all operate on a single central log. Separate
// Logger instances can be created with NewLogger(), which is mostly useful
// for testing.
package logger

import (
	"io"
)

// the number of entries kept by the central logger.
const maxCentral = 256

var central *Logger

func init() {
	central = NewLogger(maxCentral)
}

// Log adds an entry to the central logger. The detail argument is
// converted to a string according to its type. Errors use the Error()
// string and Stringers the String() string.
func Log(perm Permission, tag string, detail any) {
	central.Log(perm, tag, detail)
}

// Logf adds a formatted entry to the central logger.
func Logf(perm Permission, tag string, detail string, args ...any) {
	central.Logf(perm, tag, detail, args...)
}

// Clear all entries from central logger.
func Clear() {
	central.Clear()
}

// Write contents of central logger to io.Writer.
func Write(output io.Writer) {
	central.Write(output)
}

// Tail writes the last N entries of the central logger to io.Writer.
func Tail(output io.Writer, number int) {
	central.Tail(output, number)
}

// SetEcho causes new log entries to be written to io.Writer as they are
// added. A nil writer stops the echo. If writeExisting is true the entries
// already in the log are written to the writer immediately.
func SetEcho(output io.Writer, writeExisting bool) {
	central.SetEcho(output, writeExisting)
}

// BorrowLog gives the function access to the list of entries in the
// central logger. The slice must not be retained.
func BorrowLog(f func([]Entry)) {
	central.BorrowLog(f)
}
