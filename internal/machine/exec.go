package machine

// Step fetches the instruction at PC, advances PC past it, and executes it.
// It returns ErrHalted when TRAP HALT ran and ErrIllegalOpcode when RTI or
// the reserved pattern was decoded; any other error comes from a trap's
// host I/O. A nil error means the machine is ready for the next Step.
func (m *Machine) Step() error {
	instr := m.memRead(m.reg[RPC])
	m.reg[RPC]++
	return m.execute(instr)
}

// Run repeatedly calls Step until it returns a non-nil error. ErrHalted is
// reported back to the caller as a normal, successful stop (not wrapped),
// so callers can tell a clean halt apart from every other failure with a
// single errors.Is check.
func (m *Machine) Run() error {
	for {
		if err := m.Step(); err != nil {
			return err
		}
	}
}

// execute decodes the top 4 bits of instr and routes to per-opcode
// semantics. Operand fields are decoded inline in each case, matching the
// ISA table in the specification rather than a generic field struct,
// since every opcode slices the remaining 12 bits differently.
func (m *Machine) execute(instr Word) error {
	switch opcode(instr >> 12) {
	case opBR:
		nzp := (instr >> 9) & 0x7
		if nzp&(m.reg[RCOND]) != 0 {
			m.reg[RPC] += sext(instr&0x1FF, 9)
		}

	case opADD:
		dr := Register((instr >> 9) & 0x7)
		sr1 := Register((instr >> 6) & 0x7)
		if (instr>>5)&0x1 != 0 {
			imm5 := sext(instr&0x1F, 5)
			m.reg[dr] = m.reg[sr1] + imm5
		} else {
			sr2 := Register(instr & 0x7)
			m.reg[dr] = m.reg[sr1] + m.reg[sr2]
		}
		m.updateFlags(dr)

	case opAND:
		dr := Register((instr >> 9) & 0x7)
		sr1 := Register((instr >> 6) & 0x7)
		if (instr>>5)&0x1 != 0 {
			imm5 := sext(instr&0x1F, 5)
			m.reg[dr] = m.reg[sr1] & imm5
		} else {
			sr2 := Register(instr & 0x7)
			m.reg[dr] = m.reg[sr1] & m.reg[sr2]
		}
		m.updateFlags(dr)

	case opXOR:
		dr := Register((instr >> 9) & 0x7)
		sr1 := Register((instr >> 6) & 0x7)
		if (instr>>5)&0x1 != 0 {
			imm5 := sext(instr&0x1F, 5)
			m.reg[dr] = m.reg[sr1] ^ imm5
		} else {
			sr2 := Register(instr & 0x7)
			m.reg[dr] = m.reg[sr1] ^ m.reg[sr2]
		}
		m.updateFlags(dr)

	case opNOT:
		dr := Register((instr >> 9) & 0x7)
		sr := Register((instr >> 6) & 0x7)
		m.reg[dr] = ^m.reg[sr]
		m.updateFlags(dr)

	case opLD:
		dr := Register((instr >> 9) & 0x7)
		offset := sext(instr&0x1FF, 9)
		m.reg[dr] = m.memRead(m.reg[RPC] + offset)
		m.updateFlags(dr)

	case opLDI:
		dr := Register((instr >> 9) & 0x7)
		offset := sext(instr&0x1FF, 9)
		m.reg[dr] = m.memRead(m.memRead(m.reg[RPC] + offset))
		m.updateFlags(dr)

	case opLDR:
		dr := Register((instr >> 9) & 0x7)
		base := Register((instr >> 6) & 0x7)
		offset := sext(instr&0x3F, 6)
		m.reg[dr] = m.memRead(m.reg[base] + offset)
		m.updateFlags(dr)

	case opLEA:
		dr := Register((instr >> 9) & 0x7)
		offset := sext(instr&0x1FF, 9)
		m.reg[dr] = m.reg[RPC] + offset
		m.updateFlags(dr)

	case opST:
		sr := Register((instr >> 9) & 0x7)
		offset := sext(instr&0x1FF, 9)
		m.memWrite(m.reg[RPC]+offset, m.reg[sr])

	case opSTI:
		sr := Register((instr >> 9) & 0x7)
		offset := sext(instr&0x1FF, 9)
		m.memWrite(m.memRead(m.reg[RPC]+offset), m.reg[sr])

	case opSTR:
		sr := Register((instr >> 9) & 0x7)
		base := Register((instr >> 6) & 0x7)
		offset := sext(instr&0x3F, 6)
		m.memWrite(m.reg[base]+offset, m.reg[sr])

	case opJMP:
		base := Register((instr >> 6) & 0x7)
		m.reg[RPC] = m.reg[base]

	case opJSR:
		m.reg[R7] = m.reg[RPC]
		if (instr>>11)&0x1 != 0 {
			offset := sext(instr&0x7FF, 11)
			m.reg[RPC] += offset
		} else {
			base := Register((instr >> 6) & 0x7)
			m.reg[RPC] = m.reg[base]
		}

	case opTRAP:
		return m.trap(instr & 0xFF)

	case opRTI:
		return ErrIllegalOpcode

	default:
		return ErrIllegalOpcode
	}
	return nil
}
