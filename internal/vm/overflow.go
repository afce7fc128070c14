package vm

import (
	"math"

	"nuir/internal/ir"
)

// arith evaluates lhs op rhs on int64. known is false for an operator the VM
// has no rule for; ok is false on signed overflow.
func arith(op ir.Operator, lhs, rhs int64) (res int64, known, ok bool) {
	switch op {
	case ir.OpPlus:
		res = lhs + rhs
		// переполнение: знак результата отличается от знаков обоих операндов
		return res, true, (lhs^res)&(rhs^res) >= 0
	case ir.OpMultiply:
		if lhs == 0 || rhs == 0 {
			return 0, true, true
		}
		if lhs == -1 {
			return -rhs, true, rhs != math.MinInt64
		}
		if rhs == -1 {
			return -lhs, true, lhs != math.MinInt64
		}
		res = lhs * rhs
		return res, true, res/rhs == lhs
	}
	return 0, false, false
}
