// Package machine implements the LC-3 instruction-set interpreter: the
// register file, the linear memory, the decode-and-dispatch loop, and the
// trap service routines. The package has no knowledge of argv, files, or
// terminal modes; it only requires a populated Memory and a Console to
// service host I/O.
package machine

import "fmt"

// Word is a 16-bit LC-3 machine word. All arithmetic on Word wraps modulo
// 2^16, which is exactly what uint16 arithmetic already does in Go.
type Word = uint16

// Register names index the GPR file. PC and COND live alongside R0..R7 so
// that every piece of state the interpreter touches lives in one array.
type Register int

const (
	R0 Register = iota
	R1
	R2
	R3
	R4
	R5
	R6
	R7
	RPC
	RCOND
	RPSR // reserved: never read or written by any opcode in scope
	registerCount
)

// Condition flags. The bit values are significant: BR masks them directly
// against the encoded nzp field of the instruction.
const (
	FlagPOS  Word = 1 << 0
	FlagZRO  Word = 1 << 1
	FlagNEG  Word = 1 << 2
)

// MemorySize is the size of the address space in words: the full 16-bit
// range, so every Word value is automatically a valid address.
const MemorySize = 1 << 16

// Memory-mapped I/O addresses.
const (
	MMIOKBSR Word = 0xFE00 // keyboard status register
	MMIOKBDR Word = 0xFE02 // keyboard data register
)

// PCStart is the address where execution begins. The loader itself places
// an image at the origin stored in the image, not at PCStart.
const PCStart Word = 0x3000

// Machine owns the entire interpreter state: registers, memory, and the
// console used to service MMIO and TRAP I/O. One Machine corresponds to one
// run; there is no process-global state anywhere in this package.
type Machine struct {
	reg [registerCount]Word
	mem [MemorySize]Word

	console Console
}

// New returns a Machine with zeroed memory, PC at PCStart, and COND at ZRO,
// ready to have an image loaded into it.
func New(console Console) *Machine {
	m := &Machine{console: console}
	m.Reset()
	return m
}

// Reset restores the initial machine state without touching the console.
// Memory is zeroed, every register is zeroed, then PC and COND are set to
// their startup values.
func (m *Machine) Reset() {
	for i := range m.mem {
		m.mem[i] = 0
	}
	for i := range m.reg {
		m.reg[i] = 0
	}
	m.reg[RPC] = PCStart
	m.reg[RCOND] = FlagZRO
}

// PC returns the current program counter.
func (m *Machine) PC() Word { return m.reg[RPC] }

// Reg returns the current value of a general-purpose register or PC/COND.
func (m *Machine) Reg(r Register) Word { return m.reg[r] }

// SetMem writes a word directly into memory, bypassing the MMIO read
// protocol (which only applies to reads). Used by the image loader.
func (m *Machine) SetMem(addr Word, v Word) { m.mem[addr] = v }

// Mem returns the raw contents of an address without the MMIO read
// side-channel. Used by the disassembler and tests that need to inspect
// memory without perturbing KBSR/KBDR.
func (m *Machine) Mem(addr Word) Word { return m.mem[addr] }

// String renders a compact snapshot of register state, in the teacher's
// %+v-dump style, useful for -v tracing.
func (m *Machine) String() string {
	return fmt.Sprintf(
		"{PC:%#04x COND:%#x R0:%#04x R1:%#04x R2:%#04x R3:%#04x R4:%#04x R5:%#04x R6:%#04x R7:%#04x}",
		m.reg[RPC], m.reg[RCOND],
		m.reg[R0], m.reg[R1], m.reg[R2], m.reg[R3],
		m.reg[R4], m.reg[R5], m.reg[R6], m.reg[R7],
	)
}
