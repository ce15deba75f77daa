package machine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// encRRR/encRRImm build an ADD/AND/XOR instruction word in its
// register-register (mode bit clear) or register-immediate (mode bit set)
// form, matching the bit layout in the ISA table.
func encRRR(op opcode, dr, sr1, sr2 uint16) uint16 {
	return uint16(op)<<12 | dr<<9 | sr1<<6 | sr2
}

func encRRImm(op opcode, dr, sr1 uint16, imm5 uint16) uint16 {
	return uint16(op)<<12 | dr<<9 | sr1<<6 | 1<<5 | (imm5 & 0x1F)
}

func encBR(n, z, p uint16, off9 uint16) uint16 {
	return uint16(opBR)<<12 | n<<11 | z<<10 | p<<9 | (off9 & 0x1FF)
}

func encTRAP(vector uint16) uint16 {
	return uint16(opTRAP)<<12 | (vector & 0xFF)
}

func newTestMachine(t *testing.T, in []byte) (*Machine, *fakeConsole) {
	t.Helper()
	fc := &fakeConsole{in: in}
	m := New(fc)
	return m, fc
}

func loadProgram(m *Machine, origin uint16, words ...uint16) {
	m.reg[RPC] = origin
	for i, w := range words {
		m.SetMem(origin+uint16(i), w)
	}
}

func TestImmediateArithmeticAndHalt(t *testing.T) {
	m, _ := newTestMachine(t, nil)
	loadProgram(m, PCStart,
		encRRImm(opADD, 1, 1, 5),            // ADD R1, R1, #5
		uint16(opADD)<<12|1<<9|1<<6|1<<5|uint16(0x1D), // ADD R1, R1, #-3 (imm5 = -3 & 0x1F = 0x1D)
		encTRAP(trapHALT),
	)

	err := m.Run()
	require.ErrorIs(t, err, ErrHalted)
	require.EqualValues(t, 2, m.Reg(R1))
	require.Equal(t, FlagPOS, m.Reg(RCOND))
}

func TestLeaAndPuts(t *testing.T) {
	m, fc := newTestMachine(t, nil)
	loadProgram(m, PCStart,
		uint16(opLEA)<<12|0<<9|uint16(2&0x1FF), // LEA R0, #2
		encTRAP(trapPUTS),
		encTRAP(trapHALT),
		'H', 'i', 0,
	)

	err := m.Run()
	require.ErrorIs(t, err, ErrHalted)
	// PUTS prints "Hi"; TRAP HALT then prints its own "HALT\n".
	require.Equal(t, "HiHALT\n", string(fc.out))
}

func TestLdiIndirection(t *testing.T) {
	m, _ := newTestMachine(t, nil)
	loadProgram(m, PCStart,
		uint16(opLDI)<<12|2<<9|uint16(2&0x1FF), // LDI R2, #2
		encTRAP(trapHALT),
		0,      // padding at 0x3002
		0x3005, // 0x3003: pointer read by LDI (PC 0x3001 + 2)
		0,      // padding at 0x3004
		0xBEEF, // 0x3005: value loaded into R2
	)

	err := m.Run()
	require.ErrorIs(t, err, ErrHalted)
	require.EqualValues(t, 0xBEEF, m.Reg(R2))
	require.Equal(t, FlagNEG, m.Reg(RCOND))
}

func TestBranchBackwardLoop(t *testing.T) {
	m, _ := newTestMachine(t, nil)
	m.reg[R0] = 3
	// loop: ADD R0,R0,#-1 ; BRp #-2 (back to loop) ; TRAP HALT
	loadProgram(m, PCStart,
		encRRImm(opADD, 0, 0, 0x1F),                // ADD R0, R0, #-1
		encBR(0, 0, 1, uint16(int16(-2))&0x1FF), // BRp #-2
		encTRAP(trapHALT),
	)

	err := m.Run()
	require.ErrorIs(t, err, ErrHalted)
	require.EqualValues(t, 0, m.Reg(R0))
	require.Equal(t, FlagZRO, m.Reg(RCOND))
}

func TestJsrAndRet(t *testing.T) {
	m, _ := newTestMachine(t, nil)
	// 0x3000: JSR #2 (to 0x3003); 0x3001: TRAP HALT
	// 0x3003: ADD R0,R0,#1; 0x3004: JMP R7 (RET)
	loadProgram(m, PCStart,
		uint16(opJSR)<<12|1<<11|uint16(2&0x7FF),
		encTRAP(trapHALT),
		0, // padding at 0x3002
		encRRImm(opADD, 0, 0, 1),
		uint16(opJMP)<<12|7<<6,
	)

	// JSR target: PC after JSR instruction is 0x3001, +2 = 0x3003.
	require.NoError(t, m.Step()) // JSR
	require.EqualValues(t, 0x3001, m.Reg(R7))
	require.EqualValues(t, 0x3003, m.PC())

	require.NoError(t, m.Step()) // ADD R0,R0,#1
	require.EqualValues(t, 1, m.Reg(R0))

	require.NoError(t, m.Step()) // JMP R7 (RET)
	require.EqualValues(t, 0x3001, m.PC())
}

func TestKeyboardMMIO(t *testing.T) {
	m, _ := newTestMachine(t, []byte{'x'})

	require.EqualValues(t, 0x8000, m.memRead(MMIOKBSR))
	require.EqualValues(t, 'x', m.memRead(MMIOKBDR))

	require.EqualValues(t, 0, m.memRead(MMIOKBSR))
}

func TestNotTwiceRestoresValue(t *testing.T) {
	m, _ := newTestMachine(t, nil)
	m.reg[R1] = 0x1234
	loadProgram(m, PCStart,
		uint16(opNOT)<<12|2<<9|1<<6,
		uint16(opNOT)<<12|2<<9|2<<6,
	)

	require.NoError(t, m.Step())
	require.EqualValues(t, ^uint16(0x1234), m.Reg(R2))

	require.NoError(t, m.Step())
	require.EqualValues(t, 0x1234, m.Reg(R2))
}

func TestXorSelfIsZero(t *testing.T) {
	m, _ := newTestMachine(t, nil)
	m.reg[R3] = 0x55AA
	loadProgram(m, PCStart, encRRR(opXOR, 3, 3, 3))

	require.NoError(t, m.Step())
	require.EqualValues(t, 0, m.Reg(R3))
	require.Equal(t, FlagZRO, m.Reg(RCOND))
}

func TestAddZeroCopiesSign(t *testing.T) {
	m, _ := newTestMachine(t, nil)
	m.reg[R4] = 0x8001 // negative
	loadProgram(m, PCStart, encRRImm(opADD, 5, 4, 0))

	require.NoError(t, m.Step())
	require.EqualValues(t, m.Reg(R4), m.Reg(R5))
	require.Equal(t, FlagNEG, m.Reg(RCOND))
}

func TestIllegalOpcodeRTI(t *testing.T) {
	m, _ := newTestMachine(t, nil)
	loadProgram(m, PCStart, uint16(opRTI)<<12)

	err := m.Step()
	require.True(t, errors.Is(err, ErrIllegalOpcode))
}

func TestUndefinedTrapIsNoop(t *testing.T) {
	m, _ := newTestMachine(t, nil)
	loadProgram(m, PCStart, encTRAP(0x99))

	require.NoError(t, m.Step())
}

func TestSext(t *testing.T) {
	require.EqualValues(t, 0x000F, sext(0x0F, 5))
	require.EqualValues(t, 0xFFFF, sext(0x0F|0x10, 5))
}
