package ir

import (
	"errors"
	"fmt"
)

// Validate checks block invariants and returns every violation joined.
func Validate(b *Block) error {
	if b == nil {
		return nil
	}
	var errs []error

	if len(b.Spans) != len(b.Instrs) {
		errs = append(errs, fmt.Errorf("spans: %d entries for %d instructions", len(b.Spans), len(b.Instrs)))
	}
	if len(b.AST) != len(b.Instrs) {
		errs = append(errs, fmt.Errorf("ast: %d entries for %d instructions", len(b.AST), len(b.Instrs)))
	}

	defined := make([]bool, b.RegisterCount)
	for pc := range b.Instrs {
		in := &b.Instrs[pc]
		for _, r := range in.Uses() {
			switch {
			case uint32(r) >= b.RegisterCount:
				errs = append(errs, fmt.Errorf("pc %d: %s uses %s beyond register count %d", pc, in.Kind, r, b.RegisterCount))
			case !defined[r]:
				errs = append(errs, fmt.Errorf("pc %d: %s uses %s before definition", pc, in.Kind, r))
			}
		}
		if in.Kind == InstrReturn && pc != len(b.Instrs)-1 {
			errs = append(errs, fmt.Errorf("pc %d: return is not the last instruction", pc))
		}
		if in.Kind == InstrBinaryOp && in.BinaryOp.Op != OpPlus && in.BinaryOp.Op != OpMultiply {
			errs = append(errs, fmt.Errorf("pc %d: unknown operator %s", pc, in.BinaryOp.Op))
		}
		if r, ok := in.Def(); ok {
			if uint32(r) >= b.RegisterCount {
				if in.Kind == InstrLoadLiteral {
					errs = append(errs, fmt.Errorf("pc %d: %s defines %s beyond register count %d", pc, in.Kind, r, b.RegisterCount))
				}
				continue
			}
			if in.Kind == InstrLoadLiteral && defined[r] {
				errs = append(errs, fmt.Errorf("pc %d: %s redefined by load-literal", pc, r))
			}
			defined[r] = true
		}
	}
	return errors.Join(errs...)
}
