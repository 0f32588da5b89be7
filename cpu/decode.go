package cpu

// Mode enumerates the 6502 addressing modes, named after the
// enum addr_mode tags in the original mos6502.c source this core is
// distilled from.
type Mode int

const (
	ModeNone Mode = iota
	ModeImpl
	ModeAcc
	ModeImm
	ModeZeroP
	ModeZeroPX
	ModeZeroPY
	ModeRel
	ModeAbs
	ModeAbsX
	ModeAbsY
	ModeInd
	ModeXInd
	ModeIndY
)

// Instruction is the transient record produced by Decode for a single
// opcode. It lives only across one Step (or one direct Decode call).
type Instruction struct {
	Opcode        uint8
	Mode          Mode
	Mnemonic      string
	Arg8          uint8
	Arg16         uint16
	EffectiveAddr uint16
	ExtraCycles   int
	Valid         bool
	// NextPC is the address of the byte following this instruction,
	// i.e. where PC should advance to before the evaluator runs.
	NextPC uint16
}

// Decode reads the opcode at pc plus whatever operand bytes its
// addressing mode needs, using x/y for modes whose effective address
// depends on the index registers, and returns the decoded instruction
// and the PC of the next opcode. All instruction-stream bus reads
// happen here; the ModeImm operand is cached in Arg8 and evaluators use
// it rather than re-reading it, matching the teacher's convention of
// caching opVal once the mode's decode reads it.
//
// Decode never mutates the Chip; callers that want PC to actually
// advance must assign c.pc = result.NextPC themselves (Step does this).
func (c *Chip) Decode(pc uint16) Instruction {
	op := c.bus.Read(pc)
	entry := OpcodeTable[op]
	inst := Instruction{Opcode: op, Mode: entry.Mode, Mnemonic: entry.Mnemonic}
	if !entry.Valid || entry.Mode == ModeNone {
		inst.Valid = false
		inst.NextPC = pc
		return inst
	}
	inst.Valid = true

	switch entry.Mode {
	case ModeImpl, ModeAcc:
		inst.NextPC = pc + 1

	case ModeImm:
		inst.Arg8 = c.bus.Read(pc + 1)
		inst.EffectiveAddr = pc + 1
		inst.NextPC = pc + 2

	case ModeZeroP:
		inst.Arg8 = c.bus.Read(pc + 1)
		inst.EffectiveAddr = uint16(inst.Arg8)
		inst.NextPC = pc + 2

	case ModeZeroPX:
		inst.Arg8 = c.bus.Read(pc + 1)
		inst.EffectiveAddr = uint16(inst.Arg8 + c.x)
		inst.NextPC = pc + 2

	case ModeZeroPY:
		inst.Arg8 = c.bus.Read(pc + 1)
		inst.EffectiveAddr = uint16(inst.Arg8 + c.y)
		inst.NextPC = pc + 2

	case ModeRel:
		inst.Arg8 = c.bus.Read(pc + 1)
		inst.NextPC = pc + 2
		offset := int16(int8(inst.Arg8))
		inst.EffectiveAddr = uint16(int32(inst.NextPC) + int32(offset))

	case ModeAbs:
		inst.Arg16 = c.read16(pc + 1)
		inst.EffectiveAddr = inst.Arg16
		inst.NextPC = pc + 3

	case ModeAbsX:
		inst.Arg16 = c.read16(pc + 1)
		inst.EffectiveAddr = inst.Arg16 + uint16(c.x)
		inst.NextPC = pc + 3

	case ModeAbsY:
		inst.Arg16 = c.read16(pc + 1)
		inst.EffectiveAddr = inst.Arg16 + uint16(c.y)
		inst.NextPC = pc + 3

	case ModeInd:
		inst.Arg16 = c.read16(pc + 1)
		inst.EffectiveAddr = c.buggyRead16(inst.Arg16)
		inst.NextPC = pc + 3

	case ModeXInd:
		inst.Arg8 = c.bus.Read(pc + 1)
		inst.EffectiveAddr = c.zpRead16(inst.Arg8 + c.x)
		inst.NextPC = pc + 2

	case ModeIndY:
		inst.Arg8 = c.bus.Read(pc + 1)
		inst.EffectiveAddr = c.zpRead16(inst.Arg8) + uint16(c.y)
		inst.NextPC = pc + 2

	default:
		inst.Valid = false
		inst.NextPC = pc
	}
	return inst
}

// buggyRead16 implements the NMOS indirect-JMP page-wrap bug: the high
// byte of the target is fetched from (ptr & 0xFF00) | ((ptr+1) & 0xFF)
// instead of carrying into the next page.
func (c *Chip) buggyRead16(ptr uint16) uint16 {
	lo := uint16(c.bus.Read(ptr))
	hiAddr := (ptr & 0xFF00) | ((ptr + 1) & 0x00FF)
	hi := uint16(c.bus.Read(hiAddr))
	return lo | hi<<8
}

// zpRead16 reads a 16-bit pointer from zero page starting at addr,
// wrapping the high-byte fetch within zero page (addr+1 wraps to 0x00
// rather than spilling into page 1).
func (c *Chip) zpRead16(addr uint8) uint16 {
	lo := uint16(c.bus.Read(uint16(addr)))
	hi := uint16(c.bus.Read(uint16(addr + 1)))
	return lo | hi<<8
}
