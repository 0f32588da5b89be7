// sixdump is a disassembler front-end: given a raw binary image, it
// prints one disassembled line per instruction starting at a given
// address. Adapted from the teacher's disassembler command, swapping
// its flag-based CLI for urfave/cli.v2 (as used elsewhere in the
// example pack for single-purpose conversion tools) and dropping the
// C64 BASIC-header detection branch, which has no bearing on a bare
// 6502 core.
package main

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/urfave/cli.v2"

	"github.com/sixfiveohtwo/core/disassemble"
	"github.com/sixfiveohtwo/core/memory"
)

func main() {
	app := &cli.App{
		Name:    "sixdump",
		Usage:   "Disassemble a raw 6502 binary image",
		Version: "v0.0.1",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "image",
				Aliases:  []string{"i"},
				Usage:    "path to the raw binary image",
				Required: true,
			},
			&cli.UintFlag{
				Name:    "load-addr",
				Aliases: []string{"l"},
				Usage:   "address the image is loaded at",
				Value:   0,
			},
			&cli.UintFlag{
				Name:    "start",
				Aliases: []string{"s"},
				Usage:   "address to begin disassembly at (defaults to load-addr)",
				Value:   0,
			},
			&cli.IntFlag{
				Name:    "count",
				Aliases: []string{"n"},
				Usage:   "number of instructions to disassemble (0 means until end of image)",
				Value:   0,
			},
		},
		Action: run,
	}
	sort.Sort(cli.FlagsByName(app.Flags))
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	data, err := os.ReadFile(c.String("image"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("sixdump: reading image: %v", err), 1)
	}

	loadAddr := uint16(c.Uint("load-addr"))
	start := uint16(c.Uint("start"))
	if start == 0 {
		start = loadAddr
	}
	count := c.Int("count")

	ram, err := memory.NewRAM(65536)
	if err != nil {
		return cli.Exit(fmt.Sprintf("sixdump: %v", err), 1)
	}
	ram.Load(loadAddr, data)

	pc := start
	end := loadAddr + uint16(len(data))
	for i := 0; count == 0 || i < count; i++ {
		if pc >= end {
			break
		}
		text, n := disassemble.Format(ram, pc)
		if n == 0 {
			fmt.Printf("%04X: ??? (illegal opcode $%02X)\n", pc, ram.Read(pc))
			pc++
			continue
		}
		fmt.Printf("%04X: %s\n", pc, text)
		pc += uint16(n)
	}
	return nil
}
