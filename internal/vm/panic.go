package vm

import (
	"fmt"

	"nuir/internal/ir"
	"nuir/internal/source"
)

// PanicCode is the numeric part of a VMxxxx runtime error. Values are
// printed in user output and must stay stable.
type PanicCode int

const (
	PanicUseBeforeInit   PanicCode = 1001 // VM1001: register read before any write
	PanicOutOfBounds     PanicCode = 1004 // VM1004: register outside RegisterCount
	PanicIntOverflow     PanicCode = 1007 // VM1007: int64 overflow
	PanicMissingReturn   PanicCode = 1008 // VM1008: block ended without return
	PanicUnknownOperator PanicCode = 1009 // VM1009: operator has no evaluation rule
	PanicUnimplemented   PanicCode = 1999 // VM1999: unimplemented instruction
)

func (c PanicCode) String() string { return fmt.Sprintf("VM%d", int(c)) }

// VMError is what Run returns when evaluation cannot continue.
type VMError struct {
	Code    PanicCode
	Message string
	PC      int         // index of the failing instruction, -1 past the end
	Span    source.Span // from Block.Spans; zero while spans are placeholders
}

func (e *VMError) Error() string {
	where := ""
	if e.PC >= 0 {
		where = fmt.Sprintf(" at instr %d", e.PC)
	}
	return "panic " + e.Code.String() + where + ": " + e.Message
}

func (vm *VM) panicf(code PanicCode, format string, args ...any) *VMError {
	e := &VMError{Code: code, Message: fmt.Sprintf(format, args...), PC: vm.pc}
	if vm.pc >= 0 && vm.pc < len(vm.block.Spans) {
		e.Span = vm.block.Spans[vm.pc]
	}
	return e
}

func (vm *VM) useBeforeInit(r ir.RegID) *VMError {
	return vm.panicf(PanicUseBeforeInit, "use of uninitialized register %s", r)
}
