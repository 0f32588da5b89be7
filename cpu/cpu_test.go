package cpu

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/go-test/deep"

	"github.com/sixfiveohtwo/core/clock"
	"github.com/sixfiveohtwo/core/hostcall"
)

// flatMemory is a 64KB flat RAM fixture, in the spirit of the
// teacher's flatMemory type in cpu/cpu_test.go, but trimmed to just
// the memory.Bus surface this core's tests need.
type flatMemory struct {
	mem [65536]uint8
}

func (f *flatMemory) Read(addr uint16) uint8     { return f.mem[addr] }
func (f *flatMemory) Write(addr uint16, v uint8) { f.mem[addr] = v }

func (f *flatMemory) setVector(addr uint16, val uint16) {
	f.mem[addr] = uint8(val)
	f.mem[addr+1] = uint8(val >> 8)
}

func newChip(t *testing.T, mem *flatMemory, resetTo uint16) *Chip {
	t.Helper()
	mem.setVector(ResetVector, resetTo)
	c, err := Init(&ChipDef{Bus: mem, Timekeeper: clock.NullTimekeeper{}})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	return c
}

func step(t *testing.T, c *Chip) {
	t.Helper()
	res, err := c.Step()
	if err != nil {
		t.Fatalf("Step error: %v\nstate: %s", err, spew.Sdump(c))
	}
	if res != Success {
		t.Fatalf("Step result = %v, want Success\nstate: %s", res, spew.Sdump(c))
	}
}

func TestDecodeLengthsPerMode(t *testing.T) {
	tests := []struct {
		mode Mode
		want int
	}{
		{ModeImpl, 1}, {ModeAcc, 1},
		{ModeImm, 2}, {ModeRel, 2}, {ModeZeroP, 2}, {ModeZeroPX, 2}, {ModeZeroPY, 2},
		{ModeXInd, 2}, {ModeIndY, 2},
		{ModeAbs, 3}, {ModeAbsX, 3}, {ModeAbsY, 3}, {ModeInd, 3},
	}
	opByMode := map[Mode]uint8{
		ModeImpl: 0xEA, ModeAcc: 0x0A, ModeImm: 0xA9, ModeRel: 0x10,
		ModeZeroP: 0xA5, ModeZeroPX: 0xB5, ModeZeroPY: 0xB6,
		ModeXInd: 0xA1, ModeIndY: 0xB1,
		ModeAbs: 0xAD, ModeAbsX: 0xBD, ModeAbsY: 0xB9, ModeInd: 0x6C,
	}
	mem := &flatMemory{}
	c := newChip(t, mem, 0x0200)
	for _, tt := range tests {
		inst := c.Decode(0x0200)
		_ = inst
		op := opByMode[tt.mode]
		mem.Write(0x0200, op)
		inst = c.Decode(0x0200)
		if got := int(inst.NextPC - 0x0200); got != tt.want {
			t.Errorf("mode %v: new_pc-pc = %d, want %d", tt.mode, got, tt.want)
		}
	}
}

func TestLDAImmediateSetsFlags(t *testing.T) {
	mem := &flatMemory{}
	c := newChip(t, mem, 0x0200)
	mem.Write(0x0200, 0xA9) // LDA #$00
	mem.Write(0x0201, 0x00)
	step(t, c)
	if c.A() != 0 || !c.Flag(PZero) || c.Flag(PNegative) {
		t.Fatalf("LDA #$00: A=%#x Z=%v N=%v, want A=0 Z=true N=false", c.A(), c.Flag(PZero), c.Flag(PNegative))
	}

	mem.Write(0x0202, 0xA9) // LDA #$80
	mem.Write(0x0203, 0x80)
	step(t, c)
	if c.A() != 0x80 || c.Flag(PZero) || !c.Flag(PNegative) {
		t.Fatalf("LDA #$80: A=%#x Z=%v N=%v, want A=0x80 Z=false N=true", c.A(), c.Flag(PZero), c.Flag(PNegative))
	}
}

func TestADCOverflowAndCarry(t *testing.T) {
	mem := &flatMemory{}
	c := newChip(t, mem, 0x0200)
	c.SetA(0x7F) // +127
	mem.Write(0x0200, 0x69) // ADC #$01
	mem.Write(0x0201, 0x01)
	step(t, c)
	if diff := deep.Equal(c.A(), uint8(0x80)); diff != nil {
		t.Fatalf("ADC 0x7F+0x01: %v\nstate: %s", diff, spew.Sdump(c))
	}
	if !c.Flag(POverflow) {
		t.Fatalf("ADC 0x7F+0x01: want overflow set")
	}
	if c.Flag(PCarry) {
		t.Fatalf("ADC 0x7F+0x01: want carry clear")
	}

	c.SetA(0xFF)
	c.setFlag(PCarry, false)
	mem.Write(0x0202, 0x69) // ADC #$01
	mem.Write(0x0203, 0x01)
	step(t, c)
	if c.A() != 0x00 || !c.Flag(PCarry) {
		t.Fatalf("ADC 0xFF+0x01: A=%#x C=%v, want A=0 C=true", c.A(), c.Flag(PCarry))
	}
}

func TestSBCIsComplementedADC(t *testing.T) {
	mem := &flatMemory{}
	c := newChip(t, mem, 0x0200)
	c.SetA(0x00)
	c.setFlag(PCarry, true) // no borrow
	mem.Write(0x0200, 0xE9) // SBC #$01
	mem.Write(0x0201, 0x01)
	step(t, c)
	if c.A() != 0xFF {
		t.Fatalf("SBC 0-1: A=%#x, want 0xFF", c.A())
	}
	if c.Flag(PCarry) {
		t.Fatalf("SBC 0-1: want carry clear (borrow occurred)")
	}
}

func TestCompareFamily(t *testing.T) {
	mem := &flatMemory{}
	c := newChip(t, mem, 0x0200)
	c.SetA(0x10)
	mem.Write(0x0200, 0xC9) // CMP #$10
	mem.Write(0x0201, 0x10)
	step(t, c)
	if !c.Flag(PCarry) || !c.Flag(PZero) {
		t.Fatalf("CMP equal: want C=1 Z=1, got C=%v Z=%v", c.Flag(PCarry), c.Flag(PZero))
	}
	if c.A() != 0x10 {
		t.Fatalf("CMP must not mutate A, got %#x", c.A())
	}
}

func TestIndirectJMPPageWrapBug(t *testing.T) {
	mem := &flatMemory{}
	c := newChip(t, mem, 0x0500)
	// ptr = $02FF; low byte at $02FF, buggy high byte read from $0200
	// (not $0300, which holds a deliberately different value).
	mem.Write(0x02FF, 0x34)
	mem.Write(0x0300, 0x99) // the "correct" high byte, must be ignored
	mem.Write(0x0200, 0x12) // the buggy high byte actually read
	mem.Write(0x0500, 0x6C) // JMP ($02FF)
	mem.Write(0x0501, 0xFF)
	mem.Write(0x0502, 0x02)
	step(t, c)
	if got, want := c.PC(), uint16(0x1234); got != want {
		t.Fatalf("indirect JMP page-wrap bug: PC=%#x, want %#x", got, want)
	}
}

func TestXIndZeroPageWrap(t *testing.T) {
	mem := &flatMemory{}
	c := newChip(t, mem, 0x0300)
	c.SetX(0x01)
	mem.Write(0x00FF, 0x00) // lo byte of pointer at zp 0xFF
	mem.Write(0x0000, 0x80) // hi byte wraps to zp 0x00, not 0x0100
	mem.Write(0x8000, 0x42)
	mem.Write(0x0300, 0xA1) // LDA ($FE,X) with X=1 -> zp ptr at 0xFF
	mem.Write(0x0301, 0xFE)
	step(t, c)
	if c.A() != 0x42 {
		t.Fatalf("XInd zero-page wrap: A=%#x, want 0x42", c.A())
	}
}

func TestBranchCyclePenalties(t *testing.T) {
	mem := &flatMemory{}
	counter := &clock.CycleCounter{}
	mem.setVector(ResetVector, 0x0200)
	c, err := Init(&ChipDef{Bus: mem, Timekeeper: counter})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	// BEQ +0x7F from 0x02F0 crosses from page 2 to page 3: NextPC is
	// 0x02F2, and 0x02F2+0x7F = 0x0371.
	mem.setVector(ResetVector, 0x02F0)
	c.Reset()
	c.setFlag(PZero, true)
	mem.Write(0x02F0, 0xF0)
	mem.Write(0x02F1, 0x7F)
	step(t, c)
	if counter.Total != uint64(BaseCycles[0xF0])+2 {
		t.Fatalf("taken branch w/ page cross billed %d cycles, want base+2", counter.Total)
	}
}

func TestPHAPLARoundTrip(t *testing.T) {
	mem := &flatMemory{}
	c := newChip(t, mem, 0x0200)
	c.SetA(0x99)
	mem.Write(0x0200, 0x48) // PHA
	mem.Write(0x0201, 0xA9) // LDA #$00 clobber
	mem.Write(0x0202, 0x00)
	mem.Write(0x0203, 0x68) // PLA
	step(t, c)
	step(t, c)
	step(t, c)
	if c.A() != 0x99 {
		t.Fatalf("PHA/PLA round trip: A=%#x, want 0x99", c.A())
	}
}

func TestPHPPLPForcesBreakAndUnused(t *testing.T) {
	mem := &flatMemory{}
	c := newChip(t, mem, 0x0200)
	c.SetStatus(PCarry | POverflow)
	mem.Write(0x0200, 0x08) // PHP
	mem.Write(0x0201, 0x28) // PLP
	step(t, c)
	step(t, c)
	if got := c.Status(); got&PBreak != 0 || got&PUnused == 0 {
		t.Fatalf("PLP: status=%#x, want b=0 u=1", got)
	}
	if !c.Flag(PCarry) || !c.Flag(POverflow) {
		t.Fatalf("PLP: want carry and overflow preserved, got status=%#x", c.Status())
	}
}

func TestJSRRTSRoundTrip(t *testing.T) {
	mem := &flatMemory{}
	c := newChip(t, mem, 0x0200)
	mem.Write(0x0200, 0x20) // JSR $0300
	mem.Write(0x0201, 0x00)
	mem.Write(0x0202, 0x03)
	mem.Write(0x0300, 0x60) // RTS
	step(t, c)
	if c.PC() != 0x0300 {
		t.Fatalf("JSR: PC=%#x, want 0x0300", c.PC())
	}
	step(t, c)
	if c.PC() != 0x0203 {
		t.Fatalf("RTS: PC=%#x, want 0x0203 (instruction after JSR)", c.PC())
	}
}

func TestIRQSequence(t *testing.T) {
	mem := &flatMemory{}
	mem.setVector(IRQVector, 0x9000)
	c := newChip(t, mem, 0x0200)
	c.setFlag(PInterupt, false)
	c.RaiseIRQ()
	mem.Write(0x0200, 0xEA) // not fetched this Step: the IRQ is serviced first
	mem.Write(0x9000, 0xEA) // handler's first instruction, run in the same Step
	step(t, c)

	if c.PC() != 0x9001 {
		t.Fatalf("IRQ: PC=%#x, want 0x9001 (vector 0x9000, then the handler's NOP)", c.PC())
	}
	if !c.Flag(PInterupt) {
		t.Fatalf("IRQ: want I=1 after service")
	}
	pushedP := mem.Read(stackBase | uint16(c.SP()+1))
	pushedPCL := mem.Read(stackBase | uint16(c.SP()+2))
	pushedPCH := mem.Read(stackBase | uint16(c.SP()+3))
	if diff := deep.Equal([]uint8{pushedPCH, pushedPCL}, []uint8{0x02, 0x00}); diff != nil {
		t.Fatalf("IRQ stacked return addr: %v", diff)
	}
	if pushedP&PBreak != 0 || pushedP&PUnused == 0 {
		t.Fatalf("IRQ stacked P=%#x, want b=0 u=1", pushedP)
	}
}

func TestBRKPushesPadAndVectors(t *testing.T) {
	mem := &flatMemory{}
	mem.setVector(IRQVector, 0xA000)
	c := newChip(t, mem, 0x0200)
	mem.Write(0x0200, 0x00) // BRK
	mem.Write(0x0201, 0xFF) // padding byte, skipped
	step(t, c)
	if c.PC() != 0xA000 {
		t.Fatalf("BRK: PC=%#x, want 0xA000", c.PC())
	}
	pushedPCL := mem.Read(stackBase | uint16(c.SP()+2))
	pushedPCH := mem.Read(stackBase | uint16(c.SP()+3))
	if got := uint16(pushedPCH)<<8 | uint16(pushedPCL); got != 0x0202 {
		t.Fatalf("BRK pushed return = %#x, want 0x0202", got)
	}
}

func TestIllegalOpcodeReportsWithoutBillingCycles(t *testing.T) {
	mem := &flatMemory{}
	counter := &clock.CycleCounter{}
	mem.setVector(ResetVector, 0x0200)
	c, err := Init(&ChipDef{Bus: mem, Timekeeper: counter})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	mem.Write(0x0200, 0x02) // not in OpcodeTable
	res, err := c.Step()
	if err != nil {
		t.Fatalf("Step: unexpected error %v", err)
	}
	if res != IllegalInstruction {
		t.Fatalf("Step result = %v, want IllegalInstruction", res)
	}
	if counter.Total != 0 {
		t.Fatalf("illegal opcode billed %d cycles, want 0", counter.Total)
	}
}

type stubHandler struct {
	lastArg uint8
	called  bool
}

func (s *stubHandler) Handle(m hostcall.Machine, arg8 uint8) error {
	s.lastArg = arg8
	s.called = true
	m.SetA(0xAA)
	return nil
}

func TestNMITakesPriorityOverIRQ(t *testing.T) {
	mem := &flatMemory{}
	mem.setVector(NMIVector, 0xB000)
	mem.setVector(IRQVector, 0xC000)
	c := newChip(t, mem, 0x0200)
	c.setFlag(PInterupt, false)
	c.RaiseIRQ()
	c.RaiseNMI()
	mem.Write(0x0200, 0xEA)
	mem.Write(0xB000, 0xEA) // NMI handler's first instruction
	step(t, c)
	if c.PC() != 0xB001 {
		t.Fatalf("NMI+IRQ both pending: PC=%#x, want 0xB001 (NMI wins, then its handler's NOP)", c.PC())
	}
	// IRQ is still pending; servicing NMI also set I, so the NMI handler
	// must clear it (as CLI would) before the pending IRQ can fire.
	c.setFlag(PInterupt, false)
	mem.Write(0xC000, 0xEA) // IRQ handler's first instruction
	step(t, c)
	if c.PC() != 0xC001 {
		t.Fatalf("IRQ after NMI: PC=%#x, want 0xC001", c.PC())
	}
}

func TestRTIRestoresPCAndStatus(t *testing.T) {
	mem := &flatMemory{}
	mem.setVector(IRQVector, 0x9000)
	c := newChip(t, mem, 0x0200)
	c.setFlag(PInterupt, false)
	c.RaiseIRQ()
	mem.Write(0x0200, 0xEA)
	mem.Write(0x9000, 0xEA)
	step(t, c) // services IRQ with return addr 0x0200 on stack, then runs the NOP at 0x9000
	mem.Write(0x9001, 0x40) // RTI
	step(t, c)
	if c.PC() != 0x0200 {
		t.Fatalf("RTI: PC=%#x, want 0x0200", c.PC())
	}
	if c.Flag(PInterupt) {
		t.Fatalf("RTI: want I restored to 0 (pre-IRQ state)")
	}
}

func TestVMCallDispatchesToHandler(t *testing.T) {
	mem := &flatMemory{}
	mem.setVector(ResetVector, 0x0200)
	h := &stubHandler{}
	c, err := Init(&ChipDef{Bus: mem, HostCall: h, Timekeeper: clock.NullTimekeeper{}})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	mem.Write(0x0200, 0x80) // VMCALL #$07
	mem.Write(0x0201, 0x07)
	step(t, c)
	if !h.called || h.lastArg != 0x07 {
		t.Fatalf("VMCALL: handler called=%v arg=%#x, want true/0x07", h.called, h.lastArg)
	}
	if c.A() != 0xAA {
		t.Fatalf("VMCALL: handler's SetA not observed, A=%#x", c.A())
	}
}
