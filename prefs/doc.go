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

// Package prefs facilitates the storage of preferences on disk. A Disk
// instance is created with NewDisk() and values are added to it with Add().
// Preference values are typed: Bool, Int and String. Each type implements a
// Set() function that takes either a value of the native type or a string
// representation of it.
//
// Values are saved to the preferences file as lines of the form
//
//	key :: value
//
// A preferences file can be shared by more than one Disk instance. Saving a
// Disk preserves the entries in the file that it doesn't know about.
//
// Preferences can also be set from the command line with the
// PushCommandLineStack() function. Values on the command line stack override
// the values loaded from disk.
package prefs
