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

package preferences_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jetsetilly/gopher386/hardware/preferences"
	"github.com/jetsetilly/gopher386/prefs"
	"github.com/jetsetilly/gopher386/test"
)

func TestDefaults(t *testing.T) {
	p, err := preferences.NewPreferencesFile(filepath.Join(t.TempDir(), "prefs"))
	test.DemandSuccess(t, err)

	test.ExpectEquality(t, p.MemorySize.Get().(int), 128)
	test.ExpectEquality(t, p.MemoryBytes(), 128<<20)
	test.ExpectEquality(t, p.TimerInterval.Get().(int), 0)
	test.ExpectEquality(t, p.SerialEcho.Get().(bool), true)
	test.ExpectEquality(t, p.VGAEnabled.Get().(bool), true)
	test.ExpectEquality(t, p.Paging.Get().(bool), false)
	test.ExpectEquality(t, p.Syscalls.Get().(bool), false)
}

func TestRoundTrip(t *testing.T) {
	pth := filepath.Join(t.TempDir(), "prefs")

	p, err := preferences.NewPreferencesFile(pth)
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, p.MemorySize.Set(16))
	test.DemandSuccess(t, p.TimerInterval.Set("1000"))
	test.DemandSuccess(t, p.Save())

	data, err := os.ReadFile(pth)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, strings.HasPrefix(string(data), prefs.WarningBoilerPlate), true)
	test.ExpectEquality(t, strings.Contains(string(data), "memory.size :: 16\n"), true)

	q, err := preferences.NewPreferencesFile(pth)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, q.MemorySize.Get().(int), 16)
	test.ExpectEquality(t, q.TimerInterval.Get().(int), 1000)
}

func TestLimits(t *testing.T) {
	p, err := preferences.NewPreferencesFile(filepath.Join(t.TempDir(), "prefs"))
	test.DemandSuccess(t, err)
	test.ExpectFailure(t, p.MemorySize.Set(0))
	test.ExpectFailure(t, p.MemorySize.Set(256))
	test.ExpectEquality(t, p.MemorySize.Get().(int), preferences.DefaultMemorySize)
	test.ExpectFailure(t, p.TimerInterval.Set(-1))
	test.ExpectEquality(t, p.TimerInterval.Get().(int), 0)
	test.ExpectSuccess(t, p.MemorySize.Set(64))
}

func TestCommandLine(t *testing.T) {
	prefs.PushCommandLineStack("memory.size::32; serial.echo::false")
	defer prefs.PopCommandLineStack()

	p, err := preferences.NewPreferencesFile(filepath.Join(t.TempDir(), "prefs"))
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, p.MemorySize.Get().(int), 32)
	test.ExpectEquality(t, p.SerialEcho.Get().(bool), false)
}
