// sixrun loads a raw binary image into a flat 64K bus and drives the
// 6502 core's Step loop until an illegal opcode, a Step error, or the
// step limit is hit. No host-call handler is installed, so VMCALL is a
// no-op here.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/davecgh/go-spew/spew"

	"github.com/sixfiveohtwo/core/clock"
	"github.com/sixfiveohtwo/core/cpu"
	"github.com/sixfiveohtwo/core/memory"
)

var (
	image     = flag.String("image", "", "Path to a raw binary image to load")
	loadAddr  = flag.Uint("load_addr", 0x0000, "Address to load the image at")
	resetAddr = flag.Int("reset_addr", -1, "If >= 0, override the reset vector to this address instead of reading it from the image")
	steps     = flag.Int("steps", 1000000, "Maximum instructions to execute before stopping")
	trace     = flag.Bool("trace", false, "If true, dump full CPU state via go-spew after every step")
	hz        = flag.Int("hz", 0, "If > 0, pace execution to approximately this clock rate instead of running unthrottled")
)

func main() {
	flag.Parse()
	if *image == "" {
		log.Fatalf("sixrun: -image is required")
	}

	data, err := os.ReadFile(*image)
	if err != nil {
		log.Fatalf("sixrun: reading %q: %v", *image, err)
	}

	ram, err := memory.NewRAM(65536)
	if err != nil {
		log.Fatalf("sixrun: %v", err)
	}
	ram.PowerOn()
	ram.Load(uint16(*loadAddr), data)
	if *resetAddr >= 0 {
		ram.SetVector(cpu.ResetVector, uint16(*resetAddr))
	}

	var tk clock.Timekeeper = clock.NullTimekeeper{}
	if *hz > 0 {
		wc, err := clock.NewWallClock(*hz)
		if err != nil {
			log.Fatalf("sixrun: %v", err)
		}
		tk = wc
	}

	chip, err := cpu.Init(&cpu.ChipDef{Bus: ram, Timekeeper: tk})
	if err != nil {
		log.Fatalf("sixrun: %v", err)
	}

	for i := 0; i < *steps; i++ {
		res, err := chip.Step()
		if *trace {
			fmt.Fprintf(os.Stderr, "step %d: %s\n", i, spew.Sdump(chip))
		}
		if err != nil {
			log.Fatalf("sixrun: step %d: %v", i, err)
		}
		if res == cpu.IllegalInstruction {
			log.Fatalf("sixrun: illegal opcode at PC=$%04X after %d steps", chip.PC(), i)
		}
	}
	fmt.Printf("sixrun: completed %d steps, final PC=$%04X A=$%02X X=$%02X Y=$%02X P=$%02X\n",
		*steps, chip.PC(), chip.A(), chip.X(), chip.Y(), chip.Status())
}
