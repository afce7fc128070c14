// Package vm is a reference interpreter for IR blocks.
package vm

import (
	"context"

	"nuir/internal/ir"
	"nuir/internal/trace"
)

// VM executes one block. Registers hold int64 values.
type VM struct {
	block *ir.Block
	regs  []int64
	set   []bool
	pc    int

	Tracer trace.Tracer
	// Steps counts executed instructions.
	Steps uint64
}

func New(b *ir.Block) *VM {
	return &VM{
		block:  b,
		regs:   make([]int64, b.RegisterCount),
		set:    make([]bool, b.RegisterCount),
		Tracer: trace.Nop,
	}
}

// Run executes b and returns the value of its return instruction.
func Run(ctx context.Context, b *ir.Block) (int64, error) {
	vm := New(b)
	vm.Tracer = trace.FromContext(ctx)
	return vm.Run(ctx)
}

// Run executes the block from the start. Cancellation is checked between
// instructions.
func (vm *VM) Run(ctx context.Context) (int64, error) {
	span := trace.Begin(vm.Tracer, trace.ScopePass, "run", trace.CurrentSpan(ctx))
	defer span.End("")

	clear(vm.set)
	vm.Steps = 0
	for vm.pc = 0; vm.pc < len(vm.block.Instrs); vm.pc++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		vm.Steps++
		in := &vm.block.Instrs[vm.pc]
		switch in.Kind {
		case ir.InstrLoadLiteral:
			if err := vm.write(in.LoadLiteral.Dst, in.LoadLiteral.Lit.Int); err != nil {
				return 0, err
			}
		case ir.InstrBinaryOp:
			if err := vm.binaryOp(&in.BinaryOp); err != nil {
				return 0, err
			}
		case ir.InstrReturn:
			v, err := vm.read(in.Return.Src)
			if err != nil {
				return 0, err
			}
			return v, nil
		default:
			return 0, vm.panicf(PanicUnimplemented, "instruction %s", in.Kind)
		}
	}
	vm.pc = -1
	return 0, vm.panicf(PanicMissingReturn, "block has no return")
}

func (vm *VM) binaryOp(op *ir.BinaryOpInstr) *VMError {
	lhs, err := vm.read(op.LHSDst)
	if err != nil {
		return err
	}
	rhs, err := vm.read(op.RHS)
	if err != nil {
		return err
	}
	res, known, ok := arith(op.Op, lhs, rhs)
	if !known {
		return vm.panicf(PanicUnknownOperator, "operator %s", op.Op)
	}
	if !ok {
		return vm.panicf(PanicIntOverflow, "%d %s %d overflows int64", lhs, op.Op, rhs)
	}
	return vm.write(op.LHSDst, res)
}

func (vm *VM) read(r ir.RegID) (int64, *VMError) {
	if int(r) >= len(vm.regs) {
		return 0, vm.panicf(PanicOutOfBounds, "register %s out of range (%d registers)", r, len(vm.regs))
	}
	if !vm.set[r] {
		return 0, vm.useBeforeInit(r)
	}
	return vm.regs[r], nil
}

func (vm *VM) write(r ir.RegID, v int64) *VMError {
	if int(r) >= len(vm.regs) {
		return vm.panicf(PanicOutOfBounds, "register %s out of range (%d registers)", r, len(vm.regs))
	}
	vm.regs[r] = v
	vm.set[r] = true
	return nil
}
