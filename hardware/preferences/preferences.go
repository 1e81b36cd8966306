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

// Package preferences holds the preferences that configure the emulated
// machine. Values are stored on disk with the prefs package and can be
// overridden on the command line.
package preferences

import (
	"fmt"
	"strings"

	"github.com/jetsetilly/gopher386/paths"
	"github.com/jetsetilly/gopher386/prefs"
)

// default values
const (
	DefaultMemorySize = 128
	MaxMemorySize     = 128
)

// Preferences defines and collates all the preference values used by the
// machine.
type Preferences struct {
	dsk *prefs.Disk

	// size of physical memory in MiB
	MemorySize prefs.Int

	// number of instructions between timer interrupts. zero disables the
	// timer
	TimerInterval prefs.Int

	// send serial output to the terminal
	SerialEcho prefs.Bool

	// map the framebuffer device. if false the framebuffer addresses are
	// ordinary memory
	VGAEnabled prefs.Bool

	// identity map physical memory and enable paging before the guest
	// starts
	Paging prefs.Bool

	// service system calls made with INT 0x80 in the host
	Syscalls prefs.Bool
}

func (p *Preferences) String() string {
	var s strings.Builder
	fmt.Fprintf(&s, "memory.size :: %s\n", p.MemorySize.String())
	fmt.Fprintf(&s, "memory.paging :: %s\n", p.Paging.String())
	fmt.Fprintf(&s, "cpu.timerinterval :: %s\n", p.TimerInterval.String())
	fmt.Fprintf(&s, "cpu.syscalls :: %s\n", p.Syscalls.String())
	fmt.Fprintf(&s, "serial.echo :: %s\n", p.SerialEcho.String())
	fmt.Fprintf(&s, "vga.enabled :: %s", p.VGAEnabled.String())
	return s.String()
}

// NewPreferences is the preferred method of initialisation for the
// Preferences type. Values are loaded from the default preferences file.
func NewPreferences() (*Preferences, error) {
	pth, err := paths.ResourcePath("", prefs.DefaultPrefsFile)
	if err != nil {
		return nil, fmt.Errorf("preferences: %w", err)
	}
	return NewPreferencesFile(pth)
}

// NewPreferencesFile creates preferences stored in the named file.
func NewPreferencesFile(pth string) (*Preferences, error) {
	p := &Preferences{}
	p.SetDefaults()

	var err error
	p.dsk, err = prefs.NewDisk(pth)
	if err != nil {
		return nil, fmt.Errorf("preferences: %w", err)
	}

	err = p.dsk.Add("memory.size", &p.MemorySize)
	if err != nil {
		return nil, fmt.Errorf("preferences: %w", err)
	}
	err = p.dsk.Add("memory.paging", &p.Paging)
	if err != nil {
		return nil, fmt.Errorf("preferences: %w", err)
	}
	err = p.dsk.Add("cpu.timerinterval", &p.TimerInterval)
	if err != nil {
		return nil, fmt.Errorf("preferences: %w", err)
	}
	err = p.dsk.Add("cpu.syscalls", &p.Syscalls)
	if err != nil {
		return nil, fmt.Errorf("preferences: %w", err)
	}
	err = p.dsk.Add("serial.echo", &p.SerialEcho)
	if err != nil {
		return nil, fmt.Errorf("preferences: %w", err)
	}
	err = p.dsk.Add("vga.enabled", &p.VGAEnabled)
	if err != nil {
		return nil, fmt.Errorf("preferences: %w", err)
	}

	// invalid values revert to the default. memory size is limited by the
	// memory map
	p.MemorySize.SetHookPost(func(v prefs.Value) error {
		if n := v.(int); n < 1 || n > MaxMemorySize {
			_ = p.MemorySize.Set(DefaultMemorySize)
			return fmt.Errorf("memory.size must be between 1 and %d", MaxMemorySize)
		}
		return nil
	})
	p.TimerInterval.SetHookPost(func(v prefs.Value) error {
		if v.(int) < 0 {
			_ = p.TimerInterval.Set(0)
			return fmt.Errorf("cpu.timerinterval cannot be negative")
		}
		return nil
	})

	if err := p.dsk.Load(); err != nil {
		return nil, fmt.Errorf("preferences: %w", err)
	}

	return p, nil
}

// SetDefaults reverts all preferences to their default values.
func (p *Preferences) SetDefaults() {
	p.MemorySize.Set(DefaultMemorySize)
	p.Paging.Set(false)
	p.TimerInterval.Set(0)
	p.Syscalls.Set(false)
	p.SerialEcho.Set(true)
	p.VGAEnabled.Set(true)
}

// Load preferences from disk.
func (p *Preferences) Load() error {
	return p.dsk.Load()
}

// Save current preferences to disk.
func (p *Preferences) Save() error {
	return p.dsk.Save()
}

// MemoryBytes returns the size of physical memory in bytes.
func (p *Preferences) MemoryBytes() uint32 {
	return uint32(p.MemorySize.Get().(int)) << 20
}
