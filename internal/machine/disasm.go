package machine

import "fmt"

// Disassemble renders a single instruction word as LC-3 assembly text, in
// the teacher's one-opcode-per-case Disassemble style. It is a read-only
// diagnostic: nothing in Step or execute calls it.
func Disassemble(instr Word) string {
	dr := (instr >> 9) & 0x7
	sr1 := (instr >> 6) & 0x7
	sr2 := instr & 0x7

	switch opcode(instr >> 12) {
	case opBR:
		n, z, p := (instr>>11)&1, (instr>>10)&1, (instr>>9)&1
		return fmt.Sprintf("BR%s%s%s #%d", flagLetter(n, "n"), flagLetter(z, "z"), flagLetter(p, "p"), int16(sext(instr&0x1FF, 9)))
	case opADD:
		if (instr>>5)&1 != 0 {
			return fmt.Sprintf("ADD R%d, R%d, #%d", dr, sr1, int16(sext(instr&0x1F, 5)))
		}
		return fmt.Sprintf("ADD R%d, R%d, R%d", dr, sr1, sr2)
	case opAND:
		if (instr>>5)&1 != 0 {
			return fmt.Sprintf("AND R%d, R%d, #%d", dr, sr1, int16(sext(instr&0x1F, 5)))
		}
		return fmt.Sprintf("AND R%d, R%d, R%d", dr, sr1, sr2)
	case opXOR:
		if (instr>>5)&1 != 0 {
			return fmt.Sprintf("XOR R%d, R%d, #%d", dr, sr1, int16(sext(instr&0x1F, 5)))
		}
		return fmt.Sprintf("XOR R%d, R%d, R%d", dr, sr1, sr2)
	case opNOT:
		return fmt.Sprintf("NOT R%d, R%d", dr, sr1)
	case opLD:
		return fmt.Sprintf("LD R%d, #%d", dr, int16(sext(instr&0x1FF, 9)))
	case opLDI:
		return fmt.Sprintf("LDI R%d, #%d", dr, int16(sext(instr&0x1FF, 9)))
	case opLDR:
		return fmt.Sprintf("LDR R%d, R%d, #%d", dr, sr1, int16(sext(instr&0x3F, 6)))
	case opLEA:
		return fmt.Sprintf("LEA R%d, #%d", dr, int16(sext(instr&0x1FF, 9)))
	case opST:
		return fmt.Sprintf("ST R%d, #%d", dr, int16(sext(instr&0x1FF, 9)))
	case opSTI:
		return fmt.Sprintf("STI R%d, #%d", dr, int16(sext(instr&0x1FF, 9)))
	case opSTR:
		return fmt.Sprintf("STR R%d, R%d, #%d", dr, sr1, int16(sext(instr&0x3F, 6)))
	case opJMP:
		if sr1 == 7 {
			return "RET"
		}
		return fmt.Sprintf("JMP R%d", sr1)
	case opJSR:
		if (instr>>11)&1 != 0 {
			return fmt.Sprintf("JSR #%d", int16(sext(instr&0x7FF, 11)))
		}
		return fmt.Sprintf("JSRR R%d", sr1)
	case opTRAP:
		return fmt.Sprintf("TRAP x%02X", instr&0xFF)
	case opRTI:
		return "RTI"
	default:
		return fmt.Sprintf("<reserved %#04x>", instr)
	}
}

func flagLetter(bit Word, letter string) string {
	if bit != 0 {
		return letter
	}
	return ""
}
