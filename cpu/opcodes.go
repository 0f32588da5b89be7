package cpu

// OpcodeEntry describes one byte of the opcode space: its mnemonic,
// addressing mode, and the evaluator to run once decoded. This is the
// Go realization of the original C source's widget_t (name + mode +
// evaluator), collapsed to a single table serving both Step (via
// eval) and disassembly (via Mnemonic/Mode).
type OpcodeEntry struct {
	Valid    bool
	Mnemonic string
	Mode     Mode
	eval     evalFunc
}

// evalFunc is one mnemonic's evaluator: it consumes the decoded
// instruction (already holding the operand/effective address) and
// mutates the Chip's registers, flags, and memory as needed. It may
// add to inst.ExtraCycles (branches) and may return an error (VMCALL
// dispatch failure only; every other evaluator always succeeds).
type evalFunc func(c *Chip, inst *Instruction) error

// BaseCycles holds the un-penalized cycle cost of every opcode, taken
// verbatim from the instr_cycles[256] table in the original
// mos6502.c this spec was distilled from. Entries for opcodes this
// core doesn't implement keep that table's values but are never
// consulted (OpcodeTable marks them invalid).
var BaseCycles = [256]uint8{
	7, 6, 2, 8, 3, 3, 5, 5, 3, 2, 2, 2, 4, 4, 6, 6,
	2, 5, 2, 8, 4, 4, 6, 6, 2, 4, 2, 7, 4, 4, 7, 7,
	6, 6, 2, 8, 3, 3, 5, 5, 4, 2, 2, 2, 4, 4, 6, 6,
	2, 5, 2, 8, 4, 4, 6, 6, 2, 4, 2, 7, 4, 4, 7, 7,
	6, 6, 2, 8, 3, 3, 5, 5, 3, 2, 2, 2, 3, 4, 6, 6,
	2, 5, 2, 8, 4, 4, 6, 6, 2, 4, 2, 7, 4, 4, 7, 7,
	6, 6, 2, 8, 3, 3, 5, 5, 4, 2, 2, 2, 5, 4, 6, 6,
	2, 5, 2, 8, 4, 4, 6, 6, 2, 4, 2, 7, 4, 4, 7, 7,
	2, 6, 2, 8, 3, 3, 3, 3, 2, 2, 2, 2, 4, 4, 4, 4,
	2, 6, 2, 6, 4, 4, 4, 4, 2, 5, 2, 5, 5, 5, 5, 5,
	2, 6, 2, 6, 3, 3, 3, 3, 2, 2, 2, 2, 4, 4, 4, 4,
	2, 5, 2, 5, 4, 4, 4, 4, 2, 4, 2, 4, 4, 4, 4, 4,
	2, 6, 2, 8, 3, 3, 5, 5, 2, 2, 2, 2, 4, 4, 6, 6,
	2, 5, 2, 8, 4, 4, 6, 6, 2, 4, 2, 7, 4, 4, 7, 7,
	2, 6, 2, 8, 3, 3, 5, 5, 2, 2, 2, 2, 4, 4, 6, 6,
	2, 5, 2, 8, 4, 4, 6, 6, 2, 4, 2, 7, 4, 4, 7, 7,
}

// OpcodeTable is the static, process-lifetime-immutable 256-entry
// decode/dispatch map. Opcodes not listed here default to the zero
// value (Valid: false), which Decode reports as an illegal
// instruction. Only the documented NMOS mnemonics plus the
// nonstandard VMCALL (0x80) are populated; undocumented opcodes are
// intentionally absent per this core's non-goals.
var OpcodeTable = buildOpcodeTable()

func buildOpcodeTable() [256]OpcodeEntry {
	var t [256]OpcodeEntry
	set := func(op uint8, mnemonic string, mode Mode, fn evalFunc) {
		t[op] = OpcodeEntry{Valid: true, Mnemonic: mnemonic, Mode: mode, eval: fn}
	}

	// Load/store.
	set(0xA9, "LDA", ModeImm, evalLDA)
	set(0xA5, "LDA", ModeZeroP, evalLDA)
	set(0xB5, "LDA", ModeZeroPX, evalLDA)
	set(0xAD, "LDA", ModeAbs, evalLDA)
	set(0xBD, "LDA", ModeAbsX, evalLDA)
	set(0xB9, "LDA", ModeAbsY, evalLDA)
	set(0xA1, "LDA", ModeXInd, evalLDA)
	set(0xB1, "LDA", ModeIndY, evalLDA)

	set(0xA2, "LDX", ModeImm, evalLDX)
	set(0xA6, "LDX", ModeZeroP, evalLDX)
	set(0xB6, "LDX", ModeZeroPY, evalLDX)
	set(0xAE, "LDX", ModeAbs, evalLDX)
	set(0xBE, "LDX", ModeAbsY, evalLDX)

	set(0xA0, "LDY", ModeImm, evalLDY)
	set(0xA4, "LDY", ModeZeroP, evalLDY)
	set(0xB4, "LDY", ModeZeroPX, evalLDY)
	set(0xAC, "LDY", ModeAbs, evalLDY)
	set(0xBC, "LDY", ModeAbsX, evalLDY)

	set(0x85, "STA", ModeZeroP, evalSTA)
	set(0x95, "STA", ModeZeroPX, evalSTA)
	set(0x8D, "STA", ModeAbs, evalSTA)
	set(0x9D, "STA", ModeAbsX, evalSTA)
	set(0x99, "STA", ModeAbsY, evalSTA)
	set(0x81, "STA", ModeXInd, evalSTA)
	set(0x91, "STA", ModeIndY, evalSTA)

	set(0x86, "STX", ModeZeroP, evalSTX)
	set(0x96, "STX", ModeZeroPY, evalSTX)
	set(0x8E, "STX", ModeAbs, evalSTX)

	set(0x84, "STY", ModeZeroP, evalSTY)
	set(0x94, "STY", ModeZeroPX, evalSTY)
	set(0x8C, "STY", ModeAbs, evalSTY)

	// Register transfers.
	set(0xAA, "TAX", ModeImpl, evalTAX)
	set(0xA8, "TAY", ModeImpl, evalTAY)
	set(0x8A, "TXA", ModeImpl, evalTXA)
	set(0x98, "TYA", ModeImpl, evalTYA)
	set(0xBA, "TSX", ModeImpl, evalTSX)
	set(0x9A, "TXS", ModeImpl, evalTXS)

	// Stack.
	set(0x48, "PHA", ModeImpl, evalPHA)
	set(0x68, "PLA", ModeImpl, evalPLA)
	set(0x08, "PHP", ModeImpl, evalPHP)
	set(0x28, "PLP", ModeImpl, evalPLP)

	// Logic.
	set(0x29, "AND", ModeImm, evalAND)
	set(0x25, "AND", ModeZeroP, evalAND)
	set(0x35, "AND", ModeZeroPX, evalAND)
	set(0x2D, "AND", ModeAbs, evalAND)
	set(0x3D, "AND", ModeAbsX, evalAND)
	set(0x39, "AND", ModeAbsY, evalAND)
	set(0x21, "AND", ModeXInd, evalAND)
	set(0x31, "AND", ModeIndY, evalAND)

	set(0x09, "ORA", ModeImm, evalORA)
	set(0x05, "ORA", ModeZeroP, evalORA)
	set(0x15, "ORA", ModeZeroPX, evalORA)
	set(0x0D, "ORA", ModeAbs, evalORA)
	set(0x1D, "ORA", ModeAbsX, evalORA)
	set(0x19, "ORA", ModeAbsY, evalORA)
	set(0x01, "ORA", ModeXInd, evalORA)
	set(0x11, "ORA", ModeIndY, evalORA)

	set(0x49, "EOR", ModeImm, evalEOR)
	set(0x45, "EOR", ModeZeroP, evalEOR)
	set(0x55, "EOR", ModeZeroPX, evalEOR)
	set(0x4D, "EOR", ModeAbs, evalEOR)
	set(0x5D, "EOR", ModeAbsX, evalEOR)
	set(0x59, "EOR", ModeAbsY, evalEOR)
	set(0x41, "EOR", ModeXInd, evalEOR)
	set(0x51, "EOR", ModeIndY, evalEOR)

	set(0x24, "BIT", ModeZeroP, evalBIT)
	set(0x2C, "BIT", ModeAbs, evalBIT)

	// Arithmetic.
	set(0x69, "ADC", ModeImm, evalADC)
	set(0x65, "ADC", ModeZeroP, evalADC)
	set(0x75, "ADC", ModeZeroPX, evalADC)
	set(0x6D, "ADC", ModeAbs, evalADC)
	set(0x7D, "ADC", ModeAbsX, evalADC)
	set(0x79, "ADC", ModeAbsY, evalADC)
	set(0x61, "ADC", ModeXInd, evalADC)
	set(0x71, "ADC", ModeIndY, evalADC)

	set(0xE9, "SBC", ModeImm, evalSBC)
	set(0xE5, "SBC", ModeZeroP, evalSBC)
	set(0xF5, "SBC", ModeZeroPX, evalSBC)
	set(0xED, "SBC", ModeAbs, evalSBC)
	set(0xFD, "SBC", ModeAbsX, evalSBC)
	set(0xF9, "SBC", ModeAbsY, evalSBC)
	set(0xE1, "SBC", ModeXInd, evalSBC)
	set(0xF1, "SBC", ModeIndY, evalSBC)

	set(0xC9, "CMP", ModeImm, evalCMP)
	set(0xC5, "CMP", ModeZeroP, evalCMP)
	set(0xD5, "CMP", ModeZeroPX, evalCMP)
	set(0xCD, "CMP", ModeAbs, evalCMP)
	set(0xDD, "CMP", ModeAbsX, evalCMP)
	set(0xD9, "CMP", ModeAbsY, evalCMP)
	set(0xC1, "CMP", ModeXInd, evalCMP)
	set(0xD1, "CMP", ModeIndY, evalCMP)

	set(0xE0, "CPX", ModeImm, evalCPX)
	set(0xE4, "CPX", ModeZeroP, evalCPX)
	set(0xEC, "CPX", ModeAbs, evalCPX)

	set(0xC0, "CPY", ModeImm, evalCPY)
	set(0xC4, "CPY", ModeZeroP, evalCPY)
	set(0xCC, "CPY", ModeAbs, evalCPY)

	// Increment/decrement.
	set(0xE6, "INC", ModeZeroP, evalINC)
	set(0xF6, "INC", ModeZeroPX, evalINC)
	set(0xEE, "INC", ModeAbs, evalINC)
	set(0xFE, "INC", ModeAbsX, evalINC)
	set(0xE8, "INX", ModeImpl, evalINX)
	set(0xC8, "INY", ModeImpl, evalINY)

	set(0xC6, "DEC", ModeZeroP, evalDEC)
	set(0xD6, "DEC", ModeZeroPX, evalDEC)
	set(0xCE, "DEC", ModeAbs, evalDEC)
	set(0xDE, "DEC", ModeAbsX, evalDEC)
	set(0xCA, "DEX", ModeImpl, evalDEX)
	set(0x88, "DEY", ModeImpl, evalDEY)

	// Shifts/rotates.
	set(0x0A, "ASL", ModeAcc, evalASL)
	set(0x06, "ASL", ModeZeroP, evalASL)
	set(0x16, "ASL", ModeZeroPX, evalASL)
	set(0x0E, "ASL", ModeAbs, evalASL)
	set(0x1E, "ASL", ModeAbsX, evalASL)

	set(0x4A, "LSR", ModeAcc, evalLSR)
	set(0x46, "LSR", ModeZeroP, evalLSR)
	set(0x56, "LSR", ModeZeroPX, evalLSR)
	set(0x4E, "LSR", ModeAbs, evalLSR)
	set(0x5E, "LSR", ModeAbsX, evalLSR)

	set(0x2A, "ROL", ModeAcc, evalROL)
	set(0x26, "ROL", ModeZeroP, evalROL)
	set(0x36, "ROL", ModeZeroPX, evalROL)
	set(0x2E, "ROL", ModeAbs, evalROL)
	set(0x3E, "ROL", ModeAbsX, evalROL)

	set(0x6A, "ROR", ModeAcc, evalROR)
	set(0x66, "ROR", ModeZeroP, evalROR)
	set(0x76, "ROR", ModeZeroPX, evalROR)
	set(0x6E, "ROR", ModeAbs, evalROR)
	set(0x7E, "ROR", ModeAbsX, evalROR)

	// Jumps/calls.
	set(0x4C, "JMP", ModeAbs, evalJMP)
	set(0x6C, "JMP", ModeInd, evalJMP)
	set(0x20, "JSR", ModeAbs, evalJSR)
	set(0x60, "RTS", ModeImpl, evalRTS)

	// Interrupts.
	set(0x00, "BRK", ModeImpl, evalBRK)
	set(0x40, "RTI", ModeImpl, evalRTI)

	// Branches.
	set(0x10, "BPL", ModeRel, evalBranch(PNegative, false))
	set(0x30, "BMI", ModeRel, evalBranch(PNegative, true))
	set(0x50, "BVC", ModeRel, evalBranch(POverflow, false))
	set(0x70, "BVS", ModeRel, evalBranch(POverflow, true))
	set(0x90, "BCC", ModeRel, evalBranch(PCarry, false))
	set(0xB0, "BCS", ModeRel, evalBranch(PCarry, true))
	set(0xD0, "BNE", ModeRel, evalBranch(PZero, false))
	set(0xF0, "BEQ", ModeRel, evalBranch(PZero, true))

	// Flag ops.
	set(0x18, "CLC", ModeImpl, evalFlag(PCarry, false))
	set(0x38, "SEC", ModeImpl, evalFlag(PCarry, true))
	set(0x58, "CLI", ModeImpl, evalFlag(PInterupt, false))
	set(0x78, "SEI", ModeImpl, evalFlag(PInterupt, true))
	set(0xB8, "CLV", ModeImpl, evalFlag(POverflow, false))
	set(0xD8, "CLD", ModeImpl, evalFlag(PDecimal, false))
	set(0xF8, "SED", ModeImpl, evalFlag(PDecimal, true))

	// Misc.
	set(0xEA, "NOP", ModeImpl, evalNOP)
	set(0x80, "VMCALL", ModeImm, evalVMCALL)

	return t
}
