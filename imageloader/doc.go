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

// Package imageloader is used to specify and load the guest image that the
// machine executes. Images are raw binaries that are copied to the image
// origin in physical memory. No executable format is recognised.
//
// An empty filename selects the built-in default image. The default image
// exercises register, memory and scaled-index addressing and then ends the
// emulation with a GOOD TRAP.
package imageloader
