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

package imageloader

import (
	"crypto/sha1"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// DefaultName is the name given to the built-in image.
const DefaultName = "default image"

// ErrUnexpectedHash is returned by Load() when the data does not match the
// expected hash.
var ErrUnexpectedHash = errors.New("unexpected hash value")

// the built-in image. stores a word and an ID at a computed address, then
// ends with a GOOD TRAP
var defaultImage = []byte{
	0xb8, 0x34, 0x12, 0x00, 0x00, // movl $0x1234,%eax
	0xb9, 0x27, 0x00, 0x10, 0x00, // movl $0x100027,%ecx
	0x89, 0x01, // movl %eax,(%ecx)
	0x66, 0xc7, 0x41, 0x04, 0x01, 0x00, // movw $0x1,0x4(%ecx)
	0xbb, 0x02, 0x00, 0x00, 0x00, // movl $0x2,%ebx
	0x66, 0xc7, 0x84, 0x99, 0x00, 0xe0, 0xff, 0xff, 0x01, 0x00, // movw $0x1,-0x2000(%ecx,%ebx,4)
	0xb8, 0x00, 0x00, 0x00, 0x00, // movl $0x0,%eax
	0xd6, // trap
}

// Loader is used to specify the guest image to load.
type Loader struct {
	// filename of the image to load. the empty string indicates the
	// built-in image
	Filename string

	// expected hash of the loaded image. empty string indicates that the
	// hash is unknown and need not be validated. after a load operation the
	// value will be the hash of the loaded data
	Hash string

	// copy of the loaded data
	Data []byte
}

// NewLoader is the preferred method of initialisation for the Loader type.
func NewLoader(filename string) Loader {
	return Loader{
		Filename: strings.TrimSpace(filename),
	}
}

// IsDefault returns true if the loader refers to the built-in image.
func (ld Loader) IsDefault() bool {
	return ld.Filename == ""
}

// ShortName returns a shortened version of the filename.
func (ld Loader) ShortName() string {
	if ld.IsDefault() {
		return DefaultName
	}
	s := filepath.Base(ld.Filename)
	return strings.TrimSuffix(s, filepath.Ext(s))
}

// HasLoaded returns true if Load() has been successfully called.
func (ld Loader) HasLoaded() bool {
	return len(ld.Data) > 0
}

// Load the image data. Filenames with a URL scheme will use that method to
// load the data. Currently supported schemes are HTTP and local files.
//
// Calling Load() on a loader that has already loaded does nothing.
func (ld *Loader) Load() error {
	if ld.HasLoaded() {
		return nil
	}

	if ld.IsDefault() {
		ld.Data = make([]byte, len(defaultImage))
		copy(ld.Data, defaultImage)
		return ld.checkHash()
	}

	scheme := "file"

	u, err := url.Parse(ld.Filename)
	if err == nil && u.Scheme != "" {
		scheme = u.Scheme
	}

	// a single letter scheme is a windows drive letter
	if len(scheme) == 1 {
		scheme = "file"
	}

	switch scheme {
	case "http", "https":
		resp, err := http.Get(ld.Filename)
		if err != nil {
			return fmt.Errorf("imageloader: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("imageloader: %s: %s", ld.Filename, resp.Status)
		}

		ld.Data, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("imageloader: %w", err)
		}

	case "file":
		ld.Data, err = os.ReadFile(ld.Filename)
		if err != nil {
			return fmt.Errorf("imageloader: %w", err)
		}

	default:
		return fmt.Errorf("imageloader: unsupported URL scheme (%s)", scheme)
	}

	if len(ld.Data) == 0 {
		return fmt.Errorf("imageloader: %s: empty image", ld.Filename)
	}

	return ld.checkHash()
}

func (ld *Loader) checkHash() error {
	hash := fmt.Sprintf("%x", sha1.Sum(ld.Data))

	if ld.Hash != "" && ld.Hash != hash {
		ld.Data = nil
		return fmt.Errorf("imageloader: %s: %w", ld.ShortName(), ErrUnexpectedHash)
	}
	ld.Hash = hash

	return nil
}
