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

package cpu

import (
	"errors"
	"fmt"
	"math"

	"github.com/jetsetilly/gopher386/hardware/cpu/interrupts"
	"github.com/jetsetilly/gopher386/hardware/cpu/registers"
	"github.com/jetsetilly/gopher386/hardware/cpu/rtl"
	"github.com/jetsetilly/gopher386/hardware/memory/mmio"
	"github.com/jetsetilly/gopher386/logger"
)

// Sentinel errors returned by Step() and Run().
var (
	// opcode has no entry in the opcode tables
	ErrUnimplemented = errors.New("unimplemented instruction")

	// the guest program has ended. not a fatal error
	ErrEnded = errors.New("program execution has ended")
)

// Unbounded can be used as the instruction count for Run().
const Unbounded = math.MaxUint64

// State of the CPU.
type State int

// List of valid State values.
const (
	Running State = iota

	// the trap instruction or HLT with interrupts disabled has been
	// executed
	Ended

	// a fatal error has occurred
	Aborted
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Ended:
		return "ended"
	case Aborted:
		return "aborted"
	}
	return "unknown"
}

// CPU is the 32-bit processor.
type CPU struct {
	Regs *registers.Registers

	rtl   *rtl.RTL
	intr  *interrupts.Controller
	ports *mmio.Table

	// decode context of the instruction currently being executed
	dc DecodeContext

	// host trap handlers indexed by interrupt vector
	traps map[uint8]TrapHandler

	State State

	// exit code of the guest program. only valid when State is Ended
	ExitCode uint32

	// the error that caused the CPU to abort
	abortErr error

	// HLT has been executed with interrupts enabled. the CPU is idle until
	// an external interrupt arrives
	Waiting bool

	// InterruptSource reports whether anything can request an external
	// interrupt. a nil function means there is no source, in which case
	// HLT ends the program unless a request is already pending
	InterruptSource func() bool

	// information about the most recently executed instruction
	LastResult Result

	// number of instructions executed since reset
	Instructions uint64
}

// NewCPU is the preferred method of initialisation for the CPU type. The
// memory argument is the virtual memory path and ports is the table of I/O
// port devices. The register file is created by the caller because the
// memory's address translation requires it.
func NewCPU(regs *registers.Registers, mem rtl.Memory, ports *mmio.Table) *CPU {
	if ports == nil {
		ports = mmio.NewTable("ports")
	}

	mc := &CPU{
		Regs:  regs,
		ports: ports,
		traps: make(map[uint8]TrapHandler),
	}
	mc.rtl = rtl.NewRTL(regs, mem)
	mc.intr = interrupts.NewController(regs, mc.rtl)
	mc.Reset()

	return mc
}

// Reset the CPU to its initial state. Memory is not changed.
func (mc *CPU) Reset() {
	mc.Regs.Reset()
	mc.intr.Acknowledge()
	mc.State = Running
	mc.ExitCode = 0
	mc.abortErr = nil
	mc.Waiting = false
	mc.LastResult = Result{}
	mc.Instructions = 0
}

func (mc *CPU) String() string {
	return mc.Regs.String()
}

// Interrupts returns the interrupt controller. Devices use this to request
// external interrupts.
func (mc *CPU) Interrupts() *interrupts.Controller {
	return mc.intr
}

// Ports returns the table of I/O port devices.
func (mc *CPU) Ports() *mmio.Table {
	return mc.ports
}

// AttachTrapHandler arranges for the INT instruction with the vector to be
// handled by the host. A nil handler removes an existing handler.
func (mc *CPU) AttachTrapHandler(vector uint8, h TrapHandler) {
	if h == nil {
		delete(mc.traps, vector)
		return
	}
	mc.traps[vector] = h
}

// Err returns the error that caused the CPU to abort. Returns nil if the CPU
// has not aborted.
func (mc *CPU) Err() error {
	return mc.abortErr
}

// abort the CPU with the error. the error is returned for convenience.
func (mc *CPU) abort(err error) error {
	mc.State = Aborted
	mc.abortErr = err
	logger.Log(logger.Allow, "cpu", err)
	return err
}

// Step executes a single instruction. Any error other than ErrEnded is fatal
// and aborts the CPU.
func (mc *CPU) Step() error {
	switch mc.State {
	case Ended:
		return ErrEnded
	case Aborted:
		return mc.abortErr
	}

	if err := mc.step(); err != nil {
		return mc.abort(err)
	}

	return nil
}

func (mc *CPU) step() error {
	// external interrupts are delivered before the next instruction is
	// fetched
	if mc.intr.Pending() && mc.Regs.Status.InterruptEnabled {
		mc.intr.Acknowledge()
		mc.Waiting = false

		target, err := mc.intr.Raise(interrupts.IRQTimer, mc.Regs.EIP)
		if err != nil {
			return err
		}
		mc.Regs.EIP = target
	}

	if mc.Waiting {
		// the interrupt source has gone away
		if !mc.canWake() {
			mc.Waiting = false
			mc.End(mc.Regs.Read(registers.EAX, 4))
		}
		return nil
	}

	mc.dc.reset(mc.Regs.EIP)

	op, err := mc.fetch(1)
	if err != nil {
		return err
	}

	// operand size prefix
	if op == 0x66 {
		mc.dc.OperandSize16 = true
		op, err = mc.fetch(1)
		if err != nil {
			return err
		}
	}

	entry := &oneByte[op]
	mc.dc.Opcode = uint16(op)

	// two byte opcodes
	if op == 0x0f {
		op, err = mc.fetch(1)
		if err != nil {
			return err
		}
		entry = &twoByte[op]
		mc.dc.Opcode = 0x0f00 | uint16(op)
	}

	if err := mc.exec(entry); err != nil {
		return err
	}

	// commit
	if mc.dc.IsJump {
		mc.Regs.EIP = mc.dc.JumpTarget
	} else {
		mc.Regs.EIP = mc.dc.SeqEIP
	}

	mc.Instructions++
	mc.LastResult.set(&mc.dc)

	return nil
}

// exec decodes and executes the opcode entry.
func (mc *CPU) exec(entry *opcodeEntry) error {
	if entry.execute == nil {
		return fmt.Errorf("cpu: %w (%s) at %#08x", ErrUnimplemented, mc.dc.opcodeString(), mc.dc.Address)
	}

	mc.dc.Mnemonic = entry.mnemonic
	switch entry.width {
	case 0:
		if mc.dc.OperandSize16 {
			mc.dc.Width = 2
		} else {
			mc.dc.Width = 4
		}
	default:
		mc.dc.Width = entry.width
	}

	if entry.decode != nil {
		if err := entry.decode(mc); err != nil {
			return err
		}
	}

	return entry.execute(mc)
}

// Run executes instructions until n instructions have been executed, the
// program ends or a fatal error occurs. The callback, if not nil, is called
// after every step, including steps where the CPU is waiting for an
// interrupt. The run stops early if the callback returns false or an error.
//
// Returns the number of instructions executed. Steps spent waiting are not
// counted.
func (mc *CPU) Run(n uint64, callback func() (bool, error)) (uint64, error) {
	start := mc.Instructions
	executed := func() uint64 {
		return mc.Instructions - start
	}

	for executed() < n {
		if err := mc.Step(); err != nil {
			return executed(), err
		}

		if mc.State == Ended {
			return executed(), nil
		}

		if callback != nil {
			cont, err := callback()
			if err != nil {
				return executed(), err
			}
			if !cont {
				return executed(), nil
			}
		}
	}
	return executed(), nil
}

// a waiting CPU can only be woken by an external interrupt
func (mc *CPU) canWake() bool {
	if mc.intr.Pending() {
		return true
	}
	return mc.InterruptSource != nil && mc.InterruptSource()
}

// End the program with the exit code. Host trap handlers use this to end
// the program on behalf of the guest.
func (mc *CPU) End(code uint32) {
	mc.State = Ended
	mc.ExitCode = code
	if code == 0 {
		logger.Logf(logger.Allow, "cpu", "hit good trap at eip = %#08x", mc.dc.Address)
	} else {
		logger.Logf(logger.Allow, "cpu", "hit bad trap at eip = %#08x (exit code %d)", mc.dc.Address, code)
	}
}
