package mir

import (
	"github.com/ruchy-lang/ruchy/internal/diagnostics"
	"github.com/ruchy-lang/ruchy/internal/token"
)

// foldConstants replaces any binary/unary op whose operands are
// compile-time literals with its result,
// respecting the source language's overflow policy: wrapping signed
// integer arithmetic, NaN-propagating floats, and preserved boolean
// short-circuit (short-circuit is already expressed as a diamond CFG by
// the lowerer, so this pass only ever sees the non-short-circuit
// operators). Division/modulo by a literal zero is deliberately left
// unfolded so the runtime trap stays observable, but is flagged with a
// warning.
func foldConstants(f *Function, diags *diagnostics.Sink) bool {
	changed := false
	forEachStatement(f, func(_ *BasicBlock, _ int, s *Statement) {
		switch rv := s.Rvalue.(type) {
		case BinaryOp:
			lc, lok := constOf(f, rv.Left)
			rc, rok := constOf(f, rv.Right)
			if !lok || !rok {
				return
			}
			if folded, skip := foldBinary(rv.Op, lc, rc, diags); !skip {
				s.Rvalue = folded
				changed = true
			}
		case UnaryOp:
			sc, ok := constOf(f, rv.Src)
			if !ok {
				return
			}
			if folded, ok := foldUnary(rv.Op, sc); ok {
				s.Rvalue = folded
				changed = true
			}
		case Proj:
			def, ok := defOf(f, rv.Src)
			if !ok {
				return
			}
			if agg, ok := def.(Aggregate); ok && rv.Index >= 0 && rv.Index < len(agg.Elems) {
				s.Rvalue = Copy{Src: agg.Elems[rv.Index]}
				changed = true
			}
		}
	})
	return changed
}

func foldUnary(op UnOp, src Rvalue) (Rvalue, bool) {
	switch op {
	case UNeg:
		switch v := src.(type) {
		case ConstInt:
			return ConstInt{Value: -v.Value}, true
		case ConstFloat:
			return ConstFloat{Value: -v.Value}, true
		}
	case UNot:
		if v, ok := src.(ConstBool); ok {
			return ConstBool{Value: !v.Value}, true
		}
	case UBitNot:
		if v, ok := src.(ConstInt); ok {
			return ConstInt{Value: ^v.Value}, true
		}
	}
	return nil, false
}

// foldBinary returns (result, skip). skip is true when the operator is
// a div/mod by a literal zero: folding is withheld and a warning is
// recorded instead.
func foldBinary(op BinOp, l, r Rvalue, diags *diagnostics.Sink) (Rvalue, bool) {
	li, lIsInt := l.(ConstInt)
	ri, rIsInt := r.(ConstInt)
	if lIsInt && rIsInt {
		if (op == BDiv || op == BMod) && ri.Value == 0 {
			if diags != nil {
				diags.Add(diagnostics.NewWarning(diagnostics.ErrR003, token.Token{}))
			}
			return nil, true
		}
		v, ok := foldInt(op, li.Value, ri.Value)
		if !ok {
			return nil, true
		}
		return v, false
	}
	lf, lIsFloat := asFloat(l)
	rf, rIsFloat := asFloat(r)
	if lIsFloat && rIsFloat {
		if v := foldFloat(op, lf, rf); v != nil {
			return v, false
		}
		return nil, true
	}
	lb, lIsBool := l.(ConstBool)
	rb, rIsBool := r.(ConstBool)
	if lIsBool && rIsBool {
		if v := foldBool(op, lb.Value, rb.Value); v != nil {
			return v, false
		}
		return nil, true
	}
	return nil, true
}

func asFloat(v Rvalue) (float64, bool) {
	switch n := v.(type) {
	case ConstFloat:
		return n.Value, true
	case ConstInt:
		return float64(n.Value), true
	}
	return 0, false
}

func foldInt(op BinOp, l, r int64) (Rvalue, bool) {
	switch op {
	case BAdd:
		return ConstInt{Value: l + r}, true // wraps per Go int64 semantics
	case BSub:
		return ConstInt{Value: l - r}, true
	case BMul:
		return ConstInt{Value: l * r}, true
	case BDiv:
		return ConstInt{Value: l / r}, true
	case BMod:
		return ConstInt{Value: l % r}, true
	case BEq:
		return ConstBool{Value: l == r}, true
	case BNeq:
		return ConstBool{Value: l != r}, true
	case BLt:
		return ConstBool{Value: l < r}, true
	case BLte:
		return ConstBool{Value: l <= r}, true
	case BGt:
		return ConstBool{Value: l > r}, true
	case BGte:
		return ConstBool{Value: l >= r}, true
	case BBitAnd:
		return ConstInt{Value: l & r}, true
	case BBitOr:
		return ConstInt{Value: l | r}, true
	case BBitXor:
		return ConstInt{Value: l ^ r}, true
	case BShl:
		return ConstInt{Value: l << uint(r)}, true
	case BShr:
		return ConstInt{Value: l >> uint(r)}, true
	}
	return nil, false
}

func foldFloat(op BinOp, l, r float64) Rvalue {
	switch op {
	case BAdd:
		return ConstFloat{Value: l + r}
	case BSub:
		return ConstFloat{Value: l - r}
	case BMul:
		return ConstFloat{Value: l * r}
	case BDiv:
		return ConstFloat{Value: l / r} // NaN/Inf propagate per IEEE 754, matching Go's float64 division
	case BEq:
		return ConstBool{Value: l == r}
	case BNeq:
		return ConstBool{Value: l != r}
	case BLt:
		return ConstBool{Value: l < r}
	case BLte:
		return ConstBool{Value: l <= r}
	case BGt:
		return ConstBool{Value: l > r}
	case BGte:
		return ConstBool{Value: l >= r}
	}
	return nil
}

func foldBool(op BinOp, l, r bool) Rvalue {
	switch op {
	case BEq:
		return ConstBool{Value: l == r}
	case BNeq:
		return ConstBool{Value: l != r}
	}
	return nil
}
