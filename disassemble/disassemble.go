// Package disassemble renders a single 6502 instruction as text,
// sharing cpu.OpcodeTable so the mnemonic/mode mapping used for
// execution and for display can never drift apart. Modeled on the
// jmchacon/6502 disassemble package's Step function, which likewise
// takes a raw memory reader rather than a live CPU so that
// disassembling never perturbs register state.
package disassemble

import (
	"fmt"

	"github.com/sixfiveohtwo/core/cpu"
	"github.com/sixfiveohtwo/core/memory"
)

// Format disassembles the instruction at pc, reading operand bytes
// from bus as needed, and returns its text form plus the number of
// bytes the caller should advance pc by. It returns ("", 0) if the
// opcode at pc isn't in cpu.OpcodeTable.
//
// Every byte it reads goes through bus, so disassembling at a
// device-mapped address has that device's read side effects.
//
// This never reads from or resolves an X/Y-indexed effective address:
// indexed modes render symbolically ("$12,X") the way assembly source
// would, since disassembly has no register state to resolve against.
// REL is the one exception — its target is derivable from pc alone,
// per the resolved "MNE  d ; ($addr)" rendering.
func Format(bus memory.Bus, pc uint16) (string, int) {
	op := bus.Read(pc)
	entry := cpu.OpcodeTable[op]
	if !entry.Valid || entry.Mode == cpu.ModeNone {
		return "", 0
	}

	var arg8 uint8
	var arg16 uint16
	switch entry.Mode {
	case cpu.ModeImpl, cpu.ModeAcc:
	case cpu.ModeAbs, cpu.ModeAbsX, cpu.ModeAbsY, cpu.ModeInd:
		arg8 = bus.Read(pc + 1)
		arg16 = uint16(arg8) | uint16(bus.Read(pc+2))<<8
	default:
		arg8 = bus.Read(pc + 1)
	}

	switch entry.Mode {
	case cpu.ModeImpl:
		return entry.Mnemonic, 1
	case cpu.ModeAcc:
		return fmt.Sprintf("%s A", entry.Mnemonic), 1
	case cpu.ModeImm:
		return fmt.Sprintf("%s #$%02X", entry.Mnemonic, arg8), 2
	case cpu.ModeZeroP:
		return fmt.Sprintf("%s $%02X", entry.Mnemonic, arg8), 2
	case cpu.ModeZeroPX:
		return fmt.Sprintf("%s $%02X,X", entry.Mnemonic, arg8), 2
	case cpu.ModeZeroPY:
		return fmt.Sprintf("%s $%02X,Y", entry.Mnemonic, arg8), 2
	case cpu.ModeXInd:
		return fmt.Sprintf("%s ($%02X,X)", entry.Mnemonic, arg8), 2
	case cpu.ModeIndY:
		return fmt.Sprintf("%s ($%02X),Y", entry.Mnemonic, arg8), 2
	case cpu.ModeAbs:
		return fmt.Sprintf("%s $%04X", entry.Mnemonic, arg16), 3
	case cpu.ModeAbsX:
		return fmt.Sprintf("%s $%04X,X", entry.Mnemonic, arg16), 3
	case cpu.ModeAbsY:
		return fmt.Sprintf("%s $%04X,Y", entry.Mnemonic, arg16), 3
	case cpu.ModeInd:
		return fmt.Sprintf("%s ($%04X)", entry.Mnemonic, arg16), 3
	case cpu.ModeRel:
		offset := int16(int8(arg8))
		target := uint16(int32(pc) + 2 + int32(offset))
		return fmt.Sprintf("%s  %d ; ($%04X)", entry.Mnemonic, offset, target), 2
	default:
		return "", 0
	}
}
