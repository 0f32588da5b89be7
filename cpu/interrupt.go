package cpu

// serviceInterrupts polls/consumes pending interrupt state and, if one
// is due, pushes PC and status and vectors into the handler. NMI has
// priority over IRQ and cannot be masked by PInterupt; IRQ is
// level-sensitive and masked by PInterupt. Returns the number of
// cycles the service itself cost, or 0 if nothing fired.
//
// This mirrors the priority ordering of the teacher's Tick/TickDone
// NMI-over-IRQ polling, collapsed from a per-cycle state machine to a
// single call made once per Step since this core doesn't model
// sub-instruction cycle timing.
func (c *Chip) serviceInterrupts() uint32 {
	if c.irqSender != nil {
		c.irqPending = c.irqPending || c.irqSender.Raised()
	}
	if c.nmiSender != nil {
		level := c.nmiSender.Raised()
		if level && !c.prevNMI {
			c.nmiPending = true
		}
		c.prevNMI = level
	}

	switch {
	case c.nmiPending:
		c.nmiPending = false
		c.runInterrupt(NMIVector)
		return 8
	case c.irqPending && !c.Flag(PInterupt):
		c.irqPending = false
		c.runInterrupt(IRQVector)
		return 7
	default:
		return 0
	}
}

// runInterrupt pushes PC and status (B clear, unused set, matching a
// hardware-initiated interrupt rather than BRK) and vectors PC to the
// given address, setting the interrupt-disable flag.
func (c *Chip) runInterrupt(vector uint16) {
	c.push(uint8(c.pc >> 8))
	c.push(uint8(c.pc))
	c.push((c.p &^ PBreak) | PUnused)
	c.setFlag(PInterupt, true)
	c.pc = c.read16(vector)
}
