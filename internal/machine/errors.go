package machine

import "errors"

// The following errors may be returned by Machine.Step or Machine.Run.
var (
	// ErrHalted indicates that TRAP HALT ran. This is the expected,
	// successful way for a program to stop.
	ErrHalted = errors.New("machine: halted")

	// ErrIllegalOpcode indicates RTI or the reserved opcode pattern was
	// decoded. Both are fatal: there is no supervisor mode to return to.
	ErrIllegalOpcode = errors.New("machine: illegal opcode")
)
