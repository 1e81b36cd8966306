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

// Package paths contains functions to prepare paths to gopher386 resources.
//
// ResourcePath() prepends the supplied resource with the base resource path.
// If a directory named ".gopher386" exists in the current directory then that
// is the base path. Otherwise the base path is "gopher386" in the directory
// returned by os.UserConfigDir(). On a Linux system the following:
//
//	pth, err := paths.ResourcePath("", "preferences")
//
// will usually return:
//
//	/home/user/.config/gopher386/preferences
//
// The directory part of the returned path is created if necessary.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// name of the local resource directory. the user config directory uses the
// same name without the leading dot.
const baseResourcePath = ".gopher386"

// ResourcePath returns the path of the resource, which is specified as a
// sub-directory and a filename. Either part can be empty.
func ResourcePath(subPth string, file string) (string, error) {
	base, err := basePath()
	if err != nil {
		return "", fmt.Errorf("paths: %w", err)
	}

	pth := filepath.Join(base, subPth)
	if err := os.MkdirAll(pth, 0700); err != nil {
		return "", fmt.Errorf("paths: %w", err)
	}

	return filepath.Join(pth, file), nil
}

func basePath() (string, error) {
	if _, err := os.Stat(baseResourcePath); err == nil {
		return baseResourcePath, nil
	}

	cnf, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(cnf, baseResourcePath[1:]), nil
}

// UniqueFilename creates a filename that should not collide with any existing
// file, assuming a functioning clock. The function does not check that the
// file doesn't exist. The format of the returned string is:
//
//	prepend_imagename_YYYYMMDD_HHMMSS
//
// or if the image name is empty:
//
//	prepend_YYYYMMDD_HHMMSS
func UniqueFilename(prepend string, imageName string) string {
	n := time.Now()
	timestamp := fmt.Sprintf("%04d%02d%02d_%02d%02d%02d", n.Year(), n.Month(), n.Day(), n.Hour(), n.Minute(), n.Second())

	imageName = strings.TrimSuffix(filepath.Base(strings.TrimSpace(imageName)), filepath.Ext(imageName))
	if imageName == "" || imageName == "." {
		return fmt.Sprintf("%s_%s", prepend, timestamp)
	}
	return fmt.Sprintf("%s_%s_%s", prepend, imageName, timestamp)
}
