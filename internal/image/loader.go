// Package image loads LC-3 object files: a big-endian stream of 16-bit
// words whose first word is the origin (load address) and whose remaining
// words are written to memory starting at that origin, in order.
package image

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Memory is the narrow interface the loader needs from a machine: just the
// ability to place a word at an address. internal/machine.Machine
// satisfies this via SetMem.
type Memory interface {
	SetMem(addr, v uint16)
}

// Load reads an LC-3 object image from r and writes it into mem, returning
// the origin address the image was loaded at. It swaps every word from
// big-endian (the on-disk format) to host order, exactly as the reference
// loader's swap_16 does for every word including the origin itself.
func Load(r io.Reader, mem Memory) (origin uint16, err error) {
	var hdr [2]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return 0, fmt.Errorf("image: reading origin: %w", err)
	}
	origin = binary.BigEndian.Uint16(hdr[:])

	addr := uint32(origin)
	var word [2]byte
	for {
		_, err := io.ReadFull(r, word[:])
		if err == io.EOF {
			break
		}
		if err == io.ErrUnexpectedEOF {
			return 0, fmt.Errorf("image: truncated word at offset %d", 2+2*(addr-uint32(origin)))
		}
		if err != nil {
			return 0, fmt.Errorf("image: %w", err)
		}
		if addr > 0xFFFF {
			return 0, fmt.Errorf("image: overflows address space past origin %#04x", origin)
		}
		mem.SetMem(uint16(addr), binary.BigEndian.Uint16(word[:]))
		addr++
	}
	return origin, nil
}
