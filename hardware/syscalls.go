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
	"github.com/jetsetilly/gopher386/hardware/cpu"
	"github.com/jetsetilly/gopher386/logger"
)

// system call numbers
const (
	sysNone  = 0
	sysWrite = 3
	sysExit  = 4
	sysBrk   = 9
)

// file descriptors that write to the serial port
const (
	fdStdout = 1
	fdStderr = 2
)

// return value of a failed system call
const sysFailed = 0xffffffff

// syscalls services the system calls of a guest program that has no kernel.
// calls that are not recognised are declined and passed to the guest's
// interrupt descriptor table.
type syscalls struct {
	m *Machine
}

// HandleTrap implements the cpu.TrapHandler interface.
func (s *syscalls) HandleTrap(tf *cpu.TrapFrame) *cpu.TrapFrame {
	switch tf.SyscallArg(0) {
	case sysNone:
		tf.SetSyscallReturn(1)

	case sysWrite:
		tf.SetSyscallReturn(s.write(tf.SyscallArg(1), tf.SyscallArg(2), tf.SyscallArg(3)))

	case sysExit:
		s.m.CPU.End(tf.SyscallArg(1))

	case sysBrk:
		// there is no memory protection so the program break can always
		// move
		tf.SetSyscallReturn(0)

	default:
		logger.Logf(logger.Allow, "syscalls", "unhandled system call %d", tf.SyscallArg(0))
		return nil
	}

	return tf
}

// write count bytes from the guest buffer to the serial port.
func (s *syscalls) write(fd uint32, buf uint32, count uint32) uint32 {
	if fd != fdStdout && fd != fdStderr {
		return sysFailed
	}

	for i := uint32(0); i < count; i++ {
		v, err := s.m.Mem.Read(buf+i, 1)
		if err != nil {
			logger.Logf(logger.Allow, "syscalls", "write: %v", err)
			return sysFailed
		}
		s.m.Serial.Write(0, 1, v)
	}

	return count
}
