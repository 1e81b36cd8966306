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

// Package interrupts raises interrupts and exceptions on behalf of the CPU.
//
// Raise() is used for synchronous interrupts, for example those caused by
// the INT instruction. It builds the interrupt frame on the current stack
// and returns the address of the handler from the interrupt descriptor
// table. The CPU is responsible for jumping to that address.
//
// Request() is used by devices to request an external interrupt. The CPU
// checks for a pending request before fetching each instruction.
package interrupts

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/jetsetilly/gopher386/hardware/cpu/registers"
	"github.com/jetsetilly/gopher386/hardware/cpu/rtl"
)

// IRQTimer is the vector used for external interrupts.
const IRQTimer = 32

// ErrVectorLimit is returned when the descriptor for the vector is beyond the
// limit of the interrupt descriptor table.
var ErrVectorLimit = errors.New("interrupt vector beyond descriptor table limit")

// size of a gate descriptor in the interrupt descriptor table
const gateSize = 8

// Controller raises interrupts and records requests for external
// interrupts.
type Controller struct {
	regs *registers.Registers
	rtl  *rtl.RTL

	// external interrupts can be requested from outside the emulation
	// goroutine
	pending atomic.Bool
}

// NewController is the preferred method of initialisation for the
// Controller type.
func NewController(regs *registers.Registers, r *rtl.RTL) *Controller {
	return &Controller{
		regs: regs,
		rtl:  r,
	}
}

// Raise the interrupt with the vector. The return address is the address
// the handler will return to with IRET. Returns the address of the handler.
//
// The flags, the code segment selector and the return address are pushed
// onto the stack, in that order. Interrupts are disabled.
func (c *Controller) Raise(vector uint8, returnAddr uint32) (uint32, error) {
	if uint32(vector)*gateSize+gateSize-1 > uint32(c.regs.IDTR.Limit) {
		return 0, fmt.Errorf("interrupts: vector %d (limit %#04x): %w", vector, c.regs.IDTR.Limit, ErrVectorLimit)
	}

	if err := c.rtl.Push(c.regs.Status.Value()); err != nil {
		return 0, fmt.Errorf("interrupts: %w", err)
	}
	c.rtl.SetIF(false)
	if err := c.rtl.Push(uint32(c.regs.CS)); err != nil {
		return 0, fmt.Errorf("interrupts: %w", err)
	}
	if err := c.rtl.Push(returnAddr); err != nil {
		return 0, fmt.Errorf("interrupts: %w", err)
	}

	gate := c.regs.IDTR.Base + uint32(vector)*gateSize
	lo, err := c.rtl.Lm(gate, 4)
	if err != nil {
		return 0, fmt.Errorf("interrupts: %w", err)
	}
	hi, err := c.rtl.Lm(gate+4, 4)
	if err != nil {
		return 0, fmt.Errorf("interrupts: %w", err)
	}

	return (lo & 0x0000ffff) | (hi & 0xffff0000), nil
}

// Request an external interrupt.
func (c *Controller) Request() {
	c.pending.Store(true)
}

// Pending returns true if an external interrupt has been requested and not
// yet acknowledged.
func (c *Controller) Pending() bool {
	return c.pending.Load()
}

// Acknowledge clears the pending request.
func (c *Controller) Acknowledge() {
	c.pending.Store(false)
}
