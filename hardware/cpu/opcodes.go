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

import "fmt"

// opcodeEntry describes how an opcode is decoded and executed. An entry with
// no execute function is an unimplemented opcode.
type opcodeEntry struct {
	mnemonic string
	decode   decoder
	execute  executor

	// operand width in bytes. zero means the default operand size, which is
	// four bytes or two bytes if the 0x66 prefix is present
	width int
}

// group is the set of instructions selected by the reg field of the ModR/M
// byte. the ModR/M byte is decoded by the entry that refers to the group.
type group [8]opcodeEntry

// execGroup returns an executor that dispatches to the group member selected
// by the reg field.
func execGroup(g *group) executor {
	return func(mc *CPU) error {
		dc := &mc.dc
		e := &g[dc.ModRM.Reg]
		if e.execute == nil {
			return fmt.Errorf("cpu: %w (%s /%d) at %#08x", ErrUnimplemented, dc.opcodeString(), dc.ModRM.Reg, dc.Address)
		}
		dc.Mnemonic = e.mnemonic
		if e.decode != nil {
			if err := e.decode(mc); err != nil {
				return err
			}
		}
		return e.execute(mc)
	}
}

var gp1 = group{
	{"add", nil, execAdd, 0},
	{"or", nil, execOr, 0},
	{"adc", nil, execAdc, 0},
	{"sbb", nil, execSbb, 0},
	{"and", nil, execAnd, 0},
	{"sub", nil, execSub, 0},
	{"xor", nil, execXor, 0},
	{"cmp", nil, execCmp, 0},
}

// rotate through carry is not supported
var gp2 = group{
	{"rol", nil, execRol, 0},
	{"ror", nil, execRor, 0},
	{},
	{},
	{"shl", nil, execShl, 0},
	{"shr", nil, execShr, 0},
	{"shl", nil, execShl, 0},
	{"sar", nil, execSar, 0},
}

var gp3 = group{
	{"test", decodeI, execTest, 0},
	{},
	{"not", nil, execNot, 0},
	{"neg", nil, execNeg, 0},
	{"mul", nil, execMul, 0},
	{"imul", nil, execImul1, 0},
	{"div", nil, execDiv, 0},
	{"idiv", nil, execIdiv, 0},
}

var gp4 = group{
	{"inc", nil, execInc, 0},
	{"dec", nil, execDec, 0},
}

// far calls and jumps are not supported
var gp5 = group{
	{"inc", nil, execInc, 0},
	{"dec", nil, execDec, 0},
	{"call", nil, execCallE, 0},
	{},
	{"jmp", nil, execJmpE, 0},
	{},
	{"push", nil, execPush, 0},
	{},
}

var gp7 = group{
	3: {"lidt", nil, execLidt, 0},
}

// the one byte opcode table
var oneByte = [256]opcodeEntry{
	0x00: {"add", decodeG2E, execAdd, 1},
	0x01: {"add", decodeG2E, execAdd, 0},
	0x02: {"add", decodeE2G, execAdd, 1},
	0x03: {"add", decodeE2G, execAdd, 0},
	0x04: {"add", decodeI2a, execAdd, 1},
	0x05: {"add", decodeI2a, execAdd, 0},

	0x08: {"or", decodeG2E, execOr, 1},
	0x09: {"or", decodeG2E, execOr, 0},
	0x0a: {"or", decodeE2G, execOr, 1},
	0x0b: {"or", decodeE2G, execOr, 0},
	0x0c: {"or", decodeI2a, execOr, 1},
	0x0d: {"or", decodeI2a, execOr, 0},

	0x10: {"adc", decodeG2E, execAdc, 1},
	0x11: {"adc", decodeG2E, execAdc, 0},
	0x12: {"adc", decodeE2G, execAdc, 1},
	0x13: {"adc", decodeE2G, execAdc, 0},
	0x14: {"adc", decodeI2a, execAdc, 1},
	0x15: {"adc", decodeI2a, execAdc, 0},

	0x18: {"sbb", decodeG2E, execSbb, 1},
	0x19: {"sbb", decodeG2E, execSbb, 0},
	0x1a: {"sbb", decodeE2G, execSbb, 1},
	0x1b: {"sbb", decodeE2G, execSbb, 0},
	0x1c: {"sbb", decodeI2a, execSbb, 1},
	0x1d: {"sbb", decodeI2a, execSbb, 0},

	0x20: {"and", decodeG2E, execAnd, 1},
	0x21: {"and", decodeG2E, execAnd, 0},
	0x22: {"and", decodeE2G, execAnd, 1},
	0x23: {"and", decodeE2G, execAnd, 0},
	0x24: {"and", decodeI2a, execAnd, 1},
	0x25: {"and", decodeI2a, execAnd, 0},

	0x28: {"sub", decodeG2E, execSub, 1},
	0x29: {"sub", decodeG2E, execSub, 0},
	0x2a: {"sub", decodeE2G, execSub, 1},
	0x2b: {"sub", decodeE2G, execSub, 0},
	0x2c: {"sub", decodeI2a, execSub, 1},
	0x2d: {"sub", decodeI2a, execSub, 0},

	0x30: {"xor", decodeG2E, execXor, 1},
	0x31: {"xor", decodeG2E, execXor, 0},
	0x32: {"xor", decodeE2G, execXor, 1},
	0x33: {"xor", decodeE2G, execXor, 0},
	0x34: {"xor", decodeI2a, execXor, 1},
	0x35: {"xor", decodeI2a, execXor, 0},

	0x38: {"cmp", decodeG2E, execCmp, 1},
	0x39: {"cmp", decodeG2E, execCmp, 0},
	0x3a: {"cmp", decodeE2G, execCmp, 1},
	0x3b: {"cmp", decodeE2G, execCmp, 0},
	0x3c: {"cmp", decodeI2a, execCmp, 1},
	0x3d: {"cmp", decodeI2a, execCmp, 0},

	0x40: {"inc", decodeR, execInc, 0},
	0x41: {"inc", decodeR, execInc, 0},
	0x42: {"inc", decodeR, execInc, 0},
	0x43: {"inc", decodeR, execInc, 0},
	0x44: {"inc", decodeR, execInc, 0},
	0x45: {"inc", decodeR, execInc, 0},
	0x46: {"inc", decodeR, execInc, 0},
	0x47: {"inc", decodeR, execInc, 0},
	0x48: {"dec", decodeR, execDec, 0},
	0x49: {"dec", decodeR, execDec, 0},
	0x4a: {"dec", decodeR, execDec, 0},
	0x4b: {"dec", decodeR, execDec, 0},
	0x4c: {"dec", decodeR, execDec, 0},
	0x4d: {"dec", decodeR, execDec, 0},
	0x4e: {"dec", decodeR, execDec, 0},
	0x4f: {"dec", decodeR, execDec, 0},

	0x50: {"push", decodeR, execPush, 0},
	0x51: {"push", decodeR, execPush, 0},
	0x52: {"push", decodeR, execPush, 0},
	0x53: {"push", decodeR, execPush, 0},
	0x54: {"push", decodeR, execPush, 0},
	0x55: {"push", decodeR, execPush, 0},
	0x56: {"push", decodeR, execPush, 0},
	0x57: {"push", decodeR, execPush, 0},
	0x58: {"pop", decodeR, execPop, 0},
	0x59: {"pop", decodeR, execPop, 0},
	0x5a: {"pop", decodeR, execPop, 0},
	0x5b: {"pop", decodeR, execPop, 0},
	0x5c: {"pop", decodeR, execPop, 0},
	0x5d: {"pop", decodeR, execPop, 0},
	0x5e: {"pop", decodeR, execPop, 0},
	0x5f: {"pop", decodeR, execPop, 0},

	0x60: {"pusha", nil, execPusha, 0},
	0x61: {"popa", nil, execPopa, 0},

	0x68: {"push", decodeI, execPush, 0},
	0x69: {"imul", decodeIE2G, execImul2, 0},
	0x6a: {"push", decodeSI, execPush, 0},
	0x6b: {"imul", decodeSIE2G, execImul2, 0},

	0x70: {"jo", decodeJ, execJcc, 1},
	0x71: {"jno", decodeJ, execJcc, 1},
	0x72: {"jb", decodeJ, execJcc, 1},
	0x73: {"jnb", decodeJ, execJcc, 1},
	0x74: {"je", decodeJ, execJcc, 1},
	0x75: {"jne", decodeJ, execJcc, 1},
	0x76: {"jbe", decodeJ, execJcc, 1},
	0x77: {"jnbe", decodeJ, execJcc, 1},
	0x78: {"js", decodeJ, execJcc, 1},
	0x79: {"jns", decodeJ, execJcc, 1},
	0x7a: {"jp", decodeJ, execJcc, 1},
	0x7b: {"jnp", decodeJ, execJcc, 1},
	0x7c: {"jl", decodeJ, execJcc, 1},
	0x7d: {"jnl", decodeJ, execJcc, 1},
	0x7e: {"jle", decodeJ, execJcc, 1},
	0x7f: {"jnle", decodeJ, execJcc, 1},

	0x80: {"", decodeI2E, execGroup(&gp1), 1},
	0x81: {"", decodeI2E, execGroup(&gp1), 0},
	0x83: {"", decodeSI2E, execGroup(&gp1), 0},
	0x84: {"test", decodeG2E, execTest, 1},
	0x85: {"test", decodeG2E, execTest, 0},
	0x86: {"xchg", decodeG2E, execXchg, 1},
	0x87: {"xchg", decodeG2E, execXchg, 0},
	0x88: {"mov", decodeMovG2E, execMov, 1},
	0x89: {"mov", decodeMovG2E, execMov, 0},
	0x8a: {"mov", decodeE2G, execMov, 1},
	0x8b: {"mov", decodeE2G, execMov, 0},
	0x8d: {"lea", decodeLea, execLea, 0},
	0x8f: {"pop", decodeMovE, execPop, 0},

	0x90: {"nop", nil, execNop, 0},
	0x91: {"xchg", decodeXchgA, execXchg, 0},
	0x92: {"xchg", decodeXchgA, execXchg, 0},
	0x93: {"xchg", decodeXchgA, execXchg, 0},
	0x94: {"xchg", decodeXchgA, execXchg, 0},
	0x95: {"xchg", decodeXchgA, execXchg, 0},
	0x96: {"xchg", decodeXchgA, execXchg, 0},
	0x97: {"xchg", decodeXchgA, execXchg, 0},
	0x98: {"cwtl", nil, execCwtl, 0},
	0x99: {"cltd", nil, execCltd, 0},

	0xa0: {"mov", decodeO2a, execMov, 1},
	0xa1: {"mov", decodeO2a, execMov, 0},
	0xa2: {"mov", decodeA2O, execMov, 1},
	0xa3: {"mov", decodeA2O, execMov, 0},
	0xa8: {"test", decodeI2a, execTest, 1},
	0xa9: {"test", decodeI2a, execTest, 0},

	0xb0: {"mov", decodeI2r, execMov, 1},
	0xb1: {"mov", decodeI2r, execMov, 1},
	0xb2: {"mov", decodeI2r, execMov, 1},
	0xb3: {"mov", decodeI2r, execMov, 1},
	0xb4: {"mov", decodeI2r, execMov, 1},
	0xb5: {"mov", decodeI2r, execMov, 1},
	0xb6: {"mov", decodeI2r, execMov, 1},
	0xb7: {"mov", decodeI2r, execMov, 1},
	0xb8: {"mov", decodeI2r, execMov, 0},
	0xb9: {"mov", decodeI2r, execMov, 0},
	0xba: {"mov", decodeI2r, execMov, 0},
	0xbb: {"mov", decodeI2r, execMov, 0},
	0xbc: {"mov", decodeI2r, execMov, 0},
	0xbd: {"mov", decodeI2r, execMov, 0},
	0xbe: {"mov", decodeI2r, execMov, 0},
	0xbf: {"mov", decodeI2r, execMov, 0},

	0xc0: {"", decodeIb2E, execGroup(&gp2), 1},
	0xc1: {"", decodeIb2E, execGroup(&gp2), 0},
	0xc2: {"ret", decodeIw, execRetImm, 0},
	0xc3: {"ret", nil, execRet, 0},
	0xc6: {"mov", decodeMovI2E, execMov, 1},
	0xc7: {"mov", decodeMovI2E, execMov, 0},
	0xc9: {"leave", nil, execLeave, 0},
	0xcd: {"int", decodeIb, execInt, 1},
	0xcf: {"iret", nil, execIret, 0},

	0xd0: {"", decode12E, execGroup(&gp2), 1},
	0xd1: {"", decode12E, execGroup(&gp2), 0},
	0xd2: {"", decodeCL2E, execGroup(&gp2), 1},
	0xd3: {"", decodeCL2E, execGroup(&gp2), 0},
	0xd6: {"trap", nil, execTrap, 0},

	0xe4: {"in", decodeIb, execIn, 1},
	0xe5: {"in", decodeIb, execIn, 0},
	0xe6: {"out", decodeIb, execOut, 1},
	0xe7: {"out", decodeIb, execOut, 0},
	0xe8: {"call", decodeJ, execCall, 0},
	0xe9: {"jmp", decodeJ, execJmp, 0},
	0xeb: {"jmp", decodeJ, execJmp, 1},
	0xec: {"in", nil, execIn, 1},
	0xed: {"in", nil, execIn, 0},
	0xee: {"out", nil, execOut, 1},
	0xef: {"out", nil, execOut, 0},

	0xf4: {"hlt", nil, execHlt, 0},
	0xf5: {"cmc", nil, execCmc, 0},
	0xf6: {"", decodeE, execGroup(&gp3), 1},
	0xf7: {"", decodeE, execGroup(&gp3), 0},
	0xf8: {"clc", nil, execClc, 0},
	0xf9: {"stc", nil, execStc, 0},
	0xfa: {"cli", nil, execCli, 0},
	0xfb: {"sti", nil, execSti, 0},

	// there is no direction flag so cld has no effect
	0xfc: {"cld", nil, execNop, 0},
	0xfe: {"", decodeE, execGroup(&gp4), 1},
	0xff: {"", decodeE, execGroup(&gp5), 0},
}

// the two byte opcode table. opcodes follow the 0x0f escape
var twoByte = [256]opcodeEntry{
	0x01: {"", decodeMovE, execGroup(&gp7), 0},
	0x20: {"mov", decodeControl, execMovFromCR, 4},
	0x22: {"mov", decodeControl, execMovToCR, 4},

	0x80: {"jo", decodeJ, execJcc, 0},
	0x81: {"jno", decodeJ, execJcc, 0},
	0x82: {"jb", decodeJ, execJcc, 0},
	0x83: {"jnb", decodeJ, execJcc, 0},
	0x84: {"je", decodeJ, execJcc, 0},
	0x85: {"jne", decodeJ, execJcc, 0},
	0x86: {"jbe", decodeJ, execJcc, 0},
	0x87: {"jnbe", decodeJ, execJcc, 0},
	0x88: {"js", decodeJ, execJcc, 0},
	0x89: {"jns", decodeJ, execJcc, 0},
	0x8a: {"jp", decodeJ, execJcc, 0},
	0x8b: {"jnp", decodeJ, execJcc, 0},
	0x8c: {"jl", decodeJ, execJcc, 0},
	0x8d: {"jnl", decodeJ, execJcc, 0},
	0x8e: {"jle", decodeJ, execJcc, 0},
	0x8f: {"jnle", decodeJ, execJcc, 0},

	0x90: {"seto", decodeMovE, execSetcc, 1},
	0x91: {"setno", decodeMovE, execSetcc, 1},
	0x92: {"setb", decodeMovE, execSetcc, 1},
	0x93: {"setnb", decodeMovE, execSetcc, 1},
	0x94: {"sete", decodeMovE, execSetcc, 1},
	0x95: {"setne", decodeMovE, execSetcc, 1},
	0x96: {"setbe", decodeMovE, execSetcc, 1},
	0x97: {"setnbe", decodeMovE, execSetcc, 1},
	0x98: {"sets", decodeMovE, execSetcc, 1},
	0x99: {"setns", decodeMovE, execSetcc, 1},
	0x9a: {"setp", decodeMovE, execSetcc, 1},
	0x9b: {"setnp", decodeMovE, execSetcc, 1},
	0x9c: {"setl", decodeMovE, execSetcc, 1},
	0x9d: {"setnl", decodeMovE, execSetcc, 1},
	0x9e: {"setle", decodeMovE, execSetcc, 1},
	0x9f: {"setnle", decodeMovE, execSetcc, 1},

	0xaf: {"imul", decodeE2G, execImul2, 0},
	0xb6: {"movzb", decodeExtend, execMovzx, 1},
	0xb7: {"movzw", decodeExtend, execMovzx, 2},
	0xbe: {"movsb", decodeExtend, execMovsx, 1},
	0xbf: {"movsw", decodeExtend, execMovsx, 2},
}
