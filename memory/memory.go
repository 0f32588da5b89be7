// Package memory defines the abstract bus the cpu package reads and
// writes through, plus a concrete flat RAM implementation suitable for
// tests and the cmd/ tools.
package memory

import (
	"fmt"
	"math/rand"
	"time"
)

// Bus is the narrow interface the cpu package depends on. Both
// operations are total and side-effecting: memory-mapped devices may
// produce externally observable effects on read, so the core never
// reads speculatively. All address arithmetic wraps modulo 2^16.
type Bus interface {
	// Read returns the data byte stored at addr.
	Read(addr uint16) uint8
	// Write updates addr with the new value.
	Write(addr uint16, val uint8)
}

// RAM implements Bus as a flat, fixed-size byte array. If the array is
// smaller than the full 64k address space, addresses alias modulo its
// length.
type RAM struct {
	mem []uint8
}

// NewRAM creates a RAM bank of the given size. Size must be a power of
// two no larger than 64k.
func NewRAM(size int) (*RAM, error) {
	if size <= 0 || size&(size-1) != 0 {
		return nil, fmt.Errorf("invalid size: %d must be a power of 2", size)
	}
	if size > 1<<16 {
		return nil, fmt.Errorf("invalid size: %d is bigger than 64k", size)
	}
	return &RAM{mem: make([]uint8, size)}, nil
}

// Read implements Bus.
func (r *RAM) Read(addr uint16) uint8 {
	return r.mem[int(addr)&(len(r.mem)-1)]
}

// Write implements Bus.
func (r *RAM) Write(addr uint16, val uint8) {
	r.mem[int(addr)&(len(r.mem)-1)] = val
}

// PowerOn randomizes the contents of RAM, matching the indeterminate
// state of real hardware at power-up.
func (r *RAM) PowerOn() {
	rand.Seed(time.Now().UnixNano())
	for i := range r.mem {
		r.mem[i] = uint8(rand.Intn(256))
	}
}

// Load copies data into RAM starting at addr, wrapping per Write.
func (r *RAM) Load(addr uint16, data []uint8) {
	for i, b := range data {
		r.Write(addr+uint16(i), b)
	}
}

// SetVector writes a little-endian 16-bit vector at addr (addr, addr+1).
func (r *RAM) SetVector(addr uint16, val uint16) {
	r.Write(addr, uint8(val&0xFF))
	r.Write(addr+1, uint8(val>>8))
}
