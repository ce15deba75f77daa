package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lc3run/lc3vm/internal/image"
	"github.com/lc3run/lc3vm/internal/machine"
)

// loadedMemory is the tiny adapter the disassembler needs: a place to put
// words and a way to read them back, without pulling in a whole Machine
// (no registers, no console, no execution — just memory).
type loadedMemory struct {
	words [machine.MemorySize]uint16
}

func (m *loadedMemory) SetMem(addr, v uint16) { m.words[addr] = v }

func newDisassembleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "disassemble <image>",
		Short: "print one decoded instruction per resident word",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return disassembleImage(args[0])
		},
	}
	return cmd
}

func disassembleImage(path string) error {
	fp, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("lc3vm: opening image: %w", err)
	}
	defer fp.Close()

	mem := &loadedMemory{}
	origin, err := image.Load(fp, mem)
	if err != nil {
		return fmt.Errorf("lc3vm: loading image: %w", err)
	}

	end := origin
	for addr := uint32(origin); addr <= 0xFFFF; addr++ {
		if mem.words[addr] != 0 {
			end = uint16(addr)
		}
	}

	for addr := uint32(origin); addr <= uint32(end); addr++ {
		w := mem.words[addr]
		fmt.Printf("%#04x  %#04x  %s\n", addr, w, machine.Disassemble(w))
	}
	return nil
}
