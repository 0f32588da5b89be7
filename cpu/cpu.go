// Package cpu implements the MOS 6502 instruction set: decode,
// per-opcode evaluators, interrupt delivery, and cycle accounting,
// driven one instruction at a time via Step.
package cpu

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/sixfiveohtwo/core/clock"
	"github.com/sixfiveohtwo/core/hostcall"
	"github.com/sixfiveohtwo/core/irq"
	"github.com/sixfiveohtwo/core/memory"
)

// Status register flag bits.
const (
	PCarry    = uint8(0x01)
	PZero     = uint8(0x02)
	PInterupt = uint8(0x04)
	PDecimal  = uint8(0x08)
	PBreak    = uint8(0x10)
	PUnused   = uint8(0x20)
	POverflow = uint8(0x40)
	PNegative = uint8(0x80)
)

// Interrupt and reset vector addresses.
const (
	NMIVector   = uint16(0xFFFA)
	ResetVector = uint16(0xFFFC)
	IRQVector   = uint16(0xFFFE)
)

const stackBase = uint16(0x0100)

// InvalidCPUState represents a programmer error in how the core was
// configured or driven (not a guest-program error).
type InvalidCPUState struct {
	Reason string
}

// Error implements error.
func (e InvalidCPUState) Error() string {
	return fmt.Sprintf("invalid CPU state: %s", e.Reason)
}

// VMCallError wraps a failure from the embedding system's VMCALL handler.
type VMCallError struct {
	Arg uint8
	Err error
}

// Error implements error.
func (e VMCallError) Error() string {
	return fmt.Sprintf("VMCALL(0x%02X) failed: %v", e.Arg, e.Err)
}

// Unwrap allows errors.Is/As to see through to the underlying handler error.
func (e VMCallError) Unwrap() error {
	return e.Err
}

// StepResult tags the outcome of a single Step call.
type StepResult int

const (
	// Success means exactly one instruction (and any serviced
	// interrupts) executed normally.
	Success StepResult = iota
	// IllegalInstruction means the fetched opcode wasn't in the table,
	// or decoded with ModeNone. No cycles are billed for it.
	IllegalInstruction
)

// String renders the result for logging.
func (r StepResult) String() string {
	switch r {
	case Success:
		return "Success"
	case IllegalInstruction:
		return "IllegalInstruction"
	default:
		return fmt.Sprintf("StepResult(%d)", int(r))
	}
}

// ChipDef configures a new Chip.
type ChipDef struct {
	// Bus is the memory bus the CPU reads/writes through. Required.
	Bus memory.Bus
	// IRQ is an optional level-triggered interrupt source.
	IRQ irq.Sender
	// NMI is an optional edge-triggered interrupt source.
	NMI irq.Sender
	// HostCall services the VMCALL opcode. May be nil, in which case
	// VMCALL is a silent no-op.
	HostCall hostcall.Handler
	// Timekeeper is billed cycles once per Step. Defaults to
	// clock.NullTimekeeper if nil.
	Timekeeper clock.Timekeeper
}

// Chip is one emulated 6502 processor instance.
type Chip struct {
	a, x, y uint8
	s       uint8
	p       uint8
	pc      uint16

	bus        memory.Bus
	irqSender  irq.Sender
	nmiSender  irq.Sender
	hostCall   hostcall.Handler
	timekeeper clock.Timekeeper

	nmiPending bool
	irqPending bool
	prevNMI    bool
}

// Init creates a new Chip in powered-on state. The bus is required;
// callers using memory.RAM should call its PowerOn themselves before
// or after Init, as their device model requires.
func Init(def *ChipDef) (*Chip, error) {
	if def == nil || def.Bus == nil {
		return nil, InvalidCPUState{"ChipDef.Bus must be non-nil"}
	}
	tk := def.Timekeeper
	if tk == nil {
		tk = clock.NullTimekeeper{}
	}
	c := &Chip{
		bus:        def.Bus,
		irqSender:  def.IRQ,
		nmiSender:  def.NMI,
		hostCall:   def.HostCall,
		timekeeper: tk,
	}
	c.PowerOn()
	return c, nil
}

// PowerOn resets the chip to its power-on state: registers randomized
// (matching real NMOS hardware's indeterminate power-up state), stack
// pointer and status forced to their documented post-reset values, PC
// loaded from the reset vector.
func (c *Chip) PowerOn() {
	rand.Seed(time.Now().UnixNano())
	c.a = uint8(rand.Intn(256))
	c.x = uint8(rand.Intn(256))
	c.y = uint8(rand.Intn(256))
	c.Reset()
}

// Reset performs a 6502 RESET: stack pointer set to 0xFD, status set
// to 0x24 (unused bit set, interrupts disabled), PC loaded from the
// reset vector. Registers A/X/Y are left untouched, matching real
// hardware (PowerOn randomizes them first; a mid-session Reset leaves
// whatever a guest program left in them).
func (c *Chip) Reset() {
	c.s = 0xFD
	c.p = PUnused | PInterupt
	c.pc = c.read16(ResetVector)
	c.nmiPending = false
	c.irqPending = false
	c.prevNMI = false
}

// --- hostcall.Machine implementation, plus general register access ---

// A returns the accumulator.
func (c *Chip) A() uint8 { return c.a }

// SetA sets the accumulator.
func (c *Chip) SetA(v uint8) { c.a = v }

// X returns the X register.
func (c *Chip) X() uint8 { return c.x }

// SetX sets the X register.
func (c *Chip) SetX(v uint8) { c.x = v }

// Y returns the Y register.
func (c *Chip) Y() uint8 { return c.y }

// SetY sets the Y register.
func (c *Chip) SetY(v uint8) { c.y = v }

// PC returns the program counter.
func (c *Chip) PC() uint16 { return c.pc }

// SetPC sets the program counter.
func (c *Chip) SetPC(v uint16) { c.pc = v }

// SP returns the stack pointer.
func (c *Chip) SP() uint8 { return c.s }

// SetSP sets the stack pointer.
func (c *Chip) SetSP(v uint8) { c.s = v }

// Status returns the raw status byte.
func (c *Chip) Status() uint8 { return c.p }

// SetStatus sets the raw status byte (bit 5 is not forced here; callers
// modeling PLP semantics should OR in PUnused themselves, as evalPLP does).
func (c *Chip) SetStatus(v uint8) { c.p = v }

// Read reads a byte from the bus.
func (c *Chip) Read(addr uint16) uint8 { return c.bus.Read(addr) }

// Write writes a byte to the bus.
func (c *Chip) Write(addr uint16, val uint8) { c.bus.Write(addr, val) }

// Flag returns whether the given status bit is set.
func (c *Chip) Flag(mask uint8) bool { return c.p&mask != 0 }

// setFlag sets or clears the given status bit.
func (c *Chip) setFlag(mask uint8, on bool) {
	if on {
		c.p |= mask
	} else {
		c.p &^= mask
	}
}

// read16 reads a little-endian 16-bit value from the bus.
func (c *Chip) read16(addr uint16) uint16 {
	lo := uint16(c.bus.Read(addr))
	hi := uint16(c.bus.Read(addr + 1))
	return lo | hi<<8
}

// push writes v to the stack and decrements S, wrapping within page 1.
func (c *Chip) push(v uint8) {
	c.bus.Write(stackBase|uint16(c.s), v)
	c.s--
}

// pop increments S and reads from the stack, wrapping within page 1.
func (c *Chip) pop() uint8 {
	c.s++
	return c.bus.Read(stackBase | uint16(c.s))
}

// setZN sets Z and N from the low 8 bits of v, the convention nearly
// every data-touching instruction ends with.
func (c *Chip) setZN(v uint8) {
	c.setFlag(PZero, v == 0)
	c.setFlag(PNegative, v&0x80 != 0)
}

// RaiseIRQ marks a level-triggered IRQ as pending. Devices that don't
// implement irq.Sender can call this directly instead.
func (c *Chip) RaiseIRQ() { c.irqPending = true }

// RaiseNMI marks an edge-triggered NMI as pending. Devices that don't
// implement irq.Sender can call this directly instead.
func (c *Chip) RaiseNMI() { c.nmiPending = true }
