package cpu

// Step services any pending interrupt, then decodes and executes
// exactly one instruction at the current PC, billing the whole result
// to the configured Timekeeper in a single Advance call. It returns
// IllegalInstruction (with no state change beyond interrupt service,
// and no cycles billed for the fetch itself) if the opcode at PC isn't
// in OpcodeTable.
func (c *Chip) Step() (StepResult, error) {
	billed := c.serviceInterrupts()

	inst := c.Decode(c.pc)
	if !inst.Valid {
		if billed > 0 {
			c.timekeeper.Advance(billed)
		}
		return IllegalInstruction, nil
	}

	c.pc = inst.NextPC
	entry := OpcodeTable[inst.Opcode]
	err := entry.eval(c, &inst)

	billed += uint32(BaseCycles[inst.Opcode]) + uint32(inst.ExtraCycles)
	c.timekeeper.Advance(billed)

	if err != nil {
		return Success, err
	}
	return Success, nil
}
