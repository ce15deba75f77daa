package machine

import "fmt"

// Trap vectors serviced by TRAP.
const (
	trapGETC  Word = 0x20
	trapOUT   Word = 0x21
	trapPUTS  Word = 0x22
	trapIN    Word = 0x23
	trapPUTSP Word = 0x24
	trapHALT  Word = 0x25
)

// trap dispatches a TRAP instruction's 8-bit vector. PC has already been
// advanced past the TRAP instruction by Step before this runs. An undefined
// vector is a silent no-op, matching the reference's switch with no default
// case. A failed Flush of host output is ignored; write and read failures
// are returned.
func (m *Machine) trap(vector Word) error {
	switch vector {
	case trapGETC:
		b, err := m.console.ReadByte()
		if err != nil {
			return fmt.Errorf("trap GETC: %w", err)
		}
		m.reg[R0] = Word(b)

	case trapOUT:
		if err := m.console.WriteByte(byte(m.reg[R0])); err != nil {
			return fmt.Errorf("trap OUT: %w", err)
		}
		_ = m.console.Flush()

	case trapPUTS:
		addr := m.reg[R0]
		for {
			w := m.mem[addr]
			if w == 0 {
				break
			}
			if err := m.console.WriteByte(byte(w)); err != nil {
				return fmt.Errorf("trap PUTS: %w", err)
			}
			addr++
		}
		_ = m.console.Flush()

	case trapIN:
		if err := writeString(m.console, "Enter character\n"); err != nil {
			return fmt.Errorf("trap IN: %w", err)
		}
		b, err := m.console.ReadByte()
		if err != nil {
			return fmt.Errorf("trap IN: %w", err)
		}
		if err := m.console.WriteByte(b); err != nil {
			return fmt.Errorf("trap IN: %w", err)
		}
		m.reg[R0] = Word(b)
		_ = m.console.Flush()

	case trapPUTSP:
		addr := m.reg[R0]
		for {
			w := m.mem[addr]
			if w == 0 {
				break
			}
			lo := byte(w & 0xFF)
			if err := m.console.WriteByte(lo); err != nil {
				return fmt.Errorf("trap PUTSP: %w", err)
			}
			hi := byte(w >> 8)
			if hi != 0 {
				if err := m.console.WriteByte(hi); err != nil {
					return fmt.Errorf("trap PUTSP: %w", err)
				}
			}
			addr++
		}
		_ = m.console.Flush()

	case trapHALT:
		if err := writeString(m.console, "HALT\n"); err != nil {
			return fmt.Errorf("trap HALT: %w", err)
		}
		_ = m.console.Flush()
		return ErrHalted
	}
	return nil
}

func writeString(c Console, s string) error {
	for i := 0; i < len(s); i++ {
		if err := c.WriteByte(s[i]); err != nil {
			return err
		}
	}
	return nil
}
