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

package hardware

import (
	"fmt"
	"io"

	"github.com/jetsetilly/gopher386/hardware/cpu"
	"github.com/jetsetilly/gopher386/hardware/cpu/registers"
	"github.com/jetsetilly/gopher386/hardware/memory"
	"github.com/jetsetilly/gopher386/hardware/memory/addrspace"
	"github.com/jetsetilly/gopher386/hardware/memory/memorymap"
	"github.com/jetsetilly/gopher386/hardware/memory/mmio"
	"github.com/jetsetilly/gopher386/hardware/peripherals"
	"github.com/jetsetilly/gopher386/hardware/preferences"
	"github.com/jetsetilly/gopher386/logger"
)

// the top of the guest stack after reset. the stack grows down from the
// origin of the image
const resetESP = memorymap.OriginImage

// amount of memory reserved at the top of physical memory for page tables
// when paging is enabled by the machine
const pageTableReserve = 1 << 20

// vector used by guest programs for system calls
const syscallVector = 0x80

// Machine is the emulated computer.
type Machine struct {
	Prefs *preferences.Preferences

	Regs *registers.Registers
	Phys *memory.Physical
	Mem  *memory.Memory
	CPU  *cpu.CPU

	// device tables
	MMIO  *mmio.Table
	Ports *mmio.Table

	Serial   *peripherals.Serial
	RTC      *peripherals.RTC
	Keyboard *peripherals.Keyboard
	VGA      *peripherals.VGA
	Audio    *peripherals.Audio

	// address space manager. only created when the machine enables paging
	AddrSpace *addrspace.Manager

	// the serial output when echo is enabled
	serialOutput io.Writer

	// image loaded by LoadImage(). reloaded on reset
	image []byte

	// instructions since the last timer interrupt
	timerCount int
}

// NewMachine creates a new Machine and everything associated with the
// hardware. The serial output is written to the supplied writer if serial
// echo is enabled in the preferences.
func NewMachine(prefs *preferences.Preferences, serialOutput io.Writer) (*Machine, error) {
	m := &Machine{
		Prefs:        prefs,
		serialOutput: serialOutput,
		MMIO:         mmio.NewTable("mmio"),
		Ports:        mmio.NewTable("ports"),
		Serial:       peripherals.NewSerial(nil),
		RTC:          peripherals.NewRTC(),
		Keyboard:     peripherals.NewKeyboard(),
		VGA:          peripherals.NewVGA(),
		Audio:        &peripherals.Audio{},
	}

	if err := m.registerDevices(); err != nil {
		return nil, err
	}

	m.Regs = registers.NewRegisters()
	m.Phys = memory.NewPhysical(prefs.MemoryBytes(), m.MMIO)
	m.Mem = memory.NewMemory(m.Phys, m.Regs)
	m.CPU = cpu.NewCPU(m.Regs, m.Mem, m.Ports)
	m.CPU.InterruptSource = m.timerEnabled

	if err := m.Reset(); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *Machine) registerDevices() error {
	type device struct {
		table  *mmio.Table
		label  string
		origin uint32
		size   uint32
		dev    mmio.Device
	}

	devices := []device{
		{m.Ports, "serial", memorymap.PortSerial, memorymap.SizeSerial, m.Serial},
		{m.Ports, "rtc", memorymap.PortRTC, memorymap.SizeRTC, m.RTC},
		{m.Ports, "keyboard", memorymap.PortKeyboardData, 4, m.Keyboard},
		{m.Ports, "kbstatus", memorymap.PortKeyboardStatus, 1, m.Keyboard.Status()},
		{m.Ports, "screen", memorymap.PortScreen, memorymap.SizeScreen, m.VGA.Screen()},
		{m.Ports, "audio", memorymap.PortAudio, memorymap.SizeAudio, m.Audio},
	}

	if m.Prefs.VGAEnabled.Get().(bool) {
		devices = append(devices, device{m.MMIO, "vga", memorymap.OriginVGA, memorymap.SizeVGA, m.VGA})
	}

	for _, d := range devices {
		if _, err := d.table.Add(d.label, d.origin, d.size, d.dev); err != nil {
			return fmt.Errorf("machine: %w", err)
		}
	}

	return nil
}

// Reset the machine. Memory is cleared and the image, if any, is loaded
// again. The CPU starts at the image origin.
func (m *Machine) Reset() error {
	m.Phys.Clear()
	m.CPU.Reset()
	m.RTC.Reset()
	m.Keyboard.Reset()
	m.VGA.Clear()
	m.timerCount = 0
	m.AddrSpace = nil

	if m.Prefs.SerialEcho.Get().(bool) {
		m.Serial.SetOutput(m.serialOutput)
	} else {
		m.Serial.SetOutput(nil)
	}

	if len(m.image) > 0 {
		if err := m.Phys.Load(memorymap.OriginImage, m.image); err != nil {
			return fmt.Errorf("machine: %w", err)
		}
	}

	m.Regs.EIP = memorymap.OriginImage
	m.Regs.Write(registers.ESP, 4, resetESP)

	if m.Prefs.Syscalls.Get().(bool) {
		m.CPU.AttachTrapHandler(syscallVector, &syscalls{m: m})
	} else {
		m.CPU.AttachTrapHandler(syscallVector, nil)
	}

	if m.Prefs.Paging.Get().(bool) {
		if err := m.enablePaging(); err != nil {
			return err
		}
	}

	return nil
}

// identity maps physical memory and enables paging. page tables are taken
// from the top of physical memory
func (m *Machine) enablePaging() error {
	size := m.Phys.Size()
	if size <= pageTableReserve {
		return fmt.Errorf("machine: not enough memory for page tables")
	}

	alloc := addrspace.NewBumpAllocator(size-pageTableReserve, size)
	m.AddrSpace = addrspace.NewManager(m.Phys, alloc, m.Regs)
	if err := m.AddrSpace.Init(size); err != nil {
		return fmt.Errorf("machine: %w", err)
	}

	logger.Logf(logger.Allow, "machine", "paging enabled. page directory at %#08x", m.Regs.PageDirectory())
	return nil
}

// LoadImage loads the guest image at the image origin and resets the machine.
func (m *Machine) LoadImage(image []byte) error {
	if uint32(len(image)) > m.Phys.Size()-memorymap.OriginImage {
		return fmt.Errorf("machine: image too large (%d bytes)", len(image))
	}

	m.image = image
	logger.Logf(logger.Allow, "machine", "image of %d bytes loaded at %#08x", len(image), memorymap.OriginImage)

	return m.Reset()
}

// the timer is the only source of external interrupts
func (m *Machine) timerEnabled() bool {
	return m.Prefs.TimerInterval.Get().(int) > 0
}

// tick the timer. an interrupt is requested every timer interval
func (m *Machine) tick() {
	if !m.timerEnabled() {
		return
	}
	interval := m.Prefs.TimerInterval.Get().(int)

	m.timerCount++
	if m.timerCount >= interval {
		m.timerCount = 0
		m.CPU.Interrupts().Request()
	}
}

// Step executes a single instruction.
func (m *Machine) Step() error {
	if err := m.CPU.Step(); err != nil {
		return err
	}
	m.tick()
	return nil
}

// Run executes up to n instructions. Use cpu.Unbounded for no limit. The
// callback is called after every instruction. See cpu.Run() for details.
func (m *Machine) Run(n uint64, callback func() (bool, error)) (uint64, error) {
	return m.CPU.Run(n, func() (bool, error) {
		m.tick()
		if callback != nil {
			return callback()
		}
		return true, nil
	})
}
