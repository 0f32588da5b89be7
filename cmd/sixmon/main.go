// sixmon is an interactive terminal monitor for the 6502 core: it
// loads a binary image, shows registers/flags/the surrounding memory
// page, and single-steps on keypress. Modeled closely on the debugger
// TUI in the example pack's gone/cpu/debugger.go, which uses the same
// bubbletea/lipgloss pairing for a register-and-memory-page view.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sixfiveohtwo/core/clock"
	"github.com/sixfiveohtwo/core/cpu"
	"github.com/sixfiveohtwo/core/disassemble"
	"github.com/sixfiveohtwo/core/memory"
)

var (
	image    = flag.String("image", "", "Path to a raw binary image to load")
	loadAddr = flag.Uint("load_addr", 0x0000, "Address to load the image at")
)

type model struct {
	chip   *cpu.Chip
	ram    *memory.RAM
	prevPC uint16
	err    error
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ", "s":
		m.prevPC = m.chip.PC()
		if _, err := m.chip.Step(); err != nil {
			m.err = err
			return m, tea.Quit
		}
	}
	return m, nil
}

const pageWidth = 16

func (m model) renderPage(start uint16) string {
	s := fmt.Sprintf("%04X | ", start)
	for i := uint16(0); i < pageWidth; i++ {
		addr := start + i
		b := m.ram.Read(addr)
		if addr == m.chip.PC() {
			s += fmt.Sprintf("[%02X] ", b)
		} else {
			s += fmt.Sprintf(" %02X  ", b)
		}
	}
	return s
}

func (m model) pageTable() string {
	base := m.chip.PC() &^ (pageWidth - 1)
	lines := []string{"addr | " + strings.Repeat(" 0  1  2  3  4  5  6  7  8  9  A  B  C  D  E  F ", 1)}
	for row := -2; row <= 2; row++ {
		start := int(base) + row*pageWidth
		if start < 0 || start > 0xFFFF-pageWidth {
			continue
		}
		lines = append(lines, m.renderPage(uint16(start)))
	}
	return strings.Join(lines, "\n")
}

func (m model) status() string {
	flagBits := []struct {
		name string
		set  bool
	}{
		{"N", m.chip.Flag(cpu.PNegative)},
		{"V", m.chip.Flag(cpu.POverflow)},
		{"U", m.chip.Flag(cpu.PUnused)},
		{"B", m.chip.Flag(cpu.PBreak)},
		{"D", m.chip.Flag(cpu.PDecimal)},
		{"I", m.chip.Flag(cpu.PInterupt)},
		{"Z", m.chip.Flag(cpu.PZero)},
		{"C", m.chip.Flag(cpu.PCarry)},
	}
	var header, row string
	for _, f := range flagBits {
		header += f.name + " "
		if f.set {
			row += "1 "
		} else {
			row += "0 "
		}
	}
	return fmt.Sprintf("PC: $%04X (was $%04X)\nA:  $%02X\nX:  $%02X\nY:  $%02X\nSP: $%02X\n%s\n%s",
		m.chip.PC(), m.prevPC, m.chip.A(), m.chip.X(), m.chip.Y(), m.chip.SP(), header, row)
}

func (m model) View() string {
	text, _ := disassemble.Format(m.ram, m.chip.PC())
	if text == "" {
		text = "???"
	}
	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, m.pageTable(), "   "+m.status()),
		"",
		"next: "+text,
		"",
		"[space/s] step   [q] quit",
	)
}

func main() {
	flag.Parse()
	if *image == "" {
		log.Fatalf("sixmon: -image is required")
	}
	data, err := os.ReadFile(*image)
	if err != nil {
		log.Fatalf("sixmon: reading %q: %v", *image, err)
	}

	ram, err := memory.NewRAM(65536)
	if err != nil {
		log.Fatalf("sixmon: %v", err)
	}
	ram.PowerOn()
	ram.Load(uint16(*loadAddr), data)

	chip, err := cpu.Init(&cpu.ChipDef{Bus: ram, Timekeeper: clock.NullTimekeeper{}})
	if err != nil {
		log.Fatalf("sixmon: %v", err)
	}

	final, err := tea.NewProgram(model{chip: chip, ram: ram}).Run()
	if err != nil {
		log.Fatalf("sixmon: %v", err)
	}
	if fm, ok := final.(model); ok && fm.err != nil {
		fmt.Fprintln(os.Stderr, "sixmon:", fm.err)
		os.Exit(1)
	}
}
