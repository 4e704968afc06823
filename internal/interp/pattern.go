package interp

import "github.com/ruchy-lang/ruchy/internal/ast"

// bindPattern matches a value against a pattern and, on success,
// returns every name the pattern binds. Guard evaluation is left to
// the caller (evalMatch): structural match first, guard check second,
// as two separate steps.
func bindPattern(pat ast.Pattern, val Value) (map[string]Value, bool) {
	bindings := map[string]Value{}
	ok := matchInto(pat, val, bindings)
	if !ok {
		return nil, false
	}
	return bindings, true
}

func matchInto(pat ast.Pattern, val Value, bindings map[string]Value) bool {
	switch p := pat.(type) {
	case *ast.WildcardPattern:
		return true
	case *ast.IdentPattern:
		bindings[p.Name] = val
		return true
	case *ast.LiteralPattern:
		lit, err := literalValue(p.Literal)
		if err != nil {
			return false
		}
		return valuesEqual(lit, val)
	case *ast.RangePattern:
		return matchRange(p, val)
	case *ast.TuplePattern:
		tv, ok := val.(TupleValue)
		if !ok || len(tv.Elems) != len(p.Elements) {
			return false
		}
		for i, sub := range p.Elements {
			if !matchInto(sub, tv.Elems[i], bindings) {
				return false
			}
		}
		return true
	case *ast.ListPattern:
		lv, ok := val.(ListValue)
		if !ok {
			return false
		}
		if p.Rest == nil {
			if len(lv.Elems) != len(p.Elements) {
				return false
			}
			for i, sub := range p.Elements {
				if !matchInto(sub, lv.Elems[i], bindings) {
					return false
				}
			}
			return true
		}
		if len(lv.Elems) < len(p.Elements) {
			return false
		}
		for i, sub := range p.Elements {
			if !matchInto(sub, lv.Elems[i], bindings) {
				return false
			}
		}
		if *p.Rest != "" {
			bindings[*p.Rest] = ListValue{Elems: append([]Value{}, lv.Elems[len(p.Elements):]...)}
		}
		return true
	case *ast.StructPattern:
		rv, ok := val.(RecordValue)
		if ok {
			for _, f := range p.Fields {
				fv, exists := rv.Fields[f.Name]
				if !exists {
					return false
				}
				if f.Pattern != nil {
					if !matchInto(f.Pattern, fv, bindings) {
						return false
					}
				} else {
					bindings[f.Name] = fv
				}
			}
			return true
		}
		vv, ok := val.(VariantValue)
		if !ok || vv.VariantName != p.Name {
			return false
		}
		for _, f := range p.Fields {
			fv, exists := vv.Fields[f.Name]
			if !exists {
				return false
			}
			if f.Pattern != nil {
				if !matchInto(f.Pattern, fv, bindings) {
					return false
				}
			} else {
				bindings[f.Name] = fv
			}
		}
		return true
	case *ast.VariantPattern:
		vv, ok := val.(VariantValue)
		if !ok || vv.VariantName != p.Name {
			return false
		}
		if len(vv.Tuple) != len(p.Payload) {
			return false
		}
		for i, sub := range p.Payload {
			if !matchInto(sub, vv.Tuple[i], bindings) {
				return false
			}
		}
		return true
	case *ast.OrPattern:
		for _, alt := range p.Alternatives {
			trial := map[string]Value{}
			if matchInto(alt, val, trial) {
				for k, v := range trial {
					bindings[k] = v
				}
				return true
			}
		}
		return false
	case *ast.GuardedPattern:
		return matchInto(p.Inner, val, bindings)
	default:
		return false
	}
}

func matchRange(p *ast.RangePattern, val Value) bool {
	iv, ok := val.(IntValue)
	if !ok {
		return false
	}
	low, err := literalValue(p.Low)
	if err != nil {
		return false
	}
	high, err := literalValue(p.High)
	if err != nil {
		return false
	}
	lo, lok := low.(IntValue)
	hi, hok := high.(IntValue)
	if !lok || !hok {
		return false
	}
	if p.Inclusive {
		return iv >= lo && iv <= hi
	}
	return iv >= lo && iv < hi
}

// literalValue evaluates a pattern's literal sub-expression, which the
// parser restricts to self-contained literal nodes (no identifiers or
// calls), so it never needs an Environment or an Interp.
func literalValue(expr ast.Expression) (Value, error) {
	switch n := expr.(type) {
	case *ast.IntegerLiteral:
		return IntValue(n.Value), nil
	case *ast.FloatLiteral:
		return FloatValue(n.Value), nil
	case *ast.BoolLiteral:
		return BoolValue(n.Value), nil
	case *ast.CharLiteral:
		return CharValue(n.Value), nil
	case *ast.StringLiteral:
		return StringValue(n.Value), nil
	case *ast.UnaryExpr:
		if n.Op == ast.OpNeg {
			inner, err := literalValue(n.Right)
			if err != nil {
				return nil, err
			}
			switch x := inner.(type) {
			case IntValue:
				return IntValue(-x), nil
			case FloatValue:
				return FloatValue(-x), nil
			}
		}
	}
	return nil, newRuntimeError(ErrTypeMismatch, "non-literal pattern expression")
}

func (in *Interp) evalMatch(n *ast.MatchExpr, env *Environment) (Value, error) {
	subject, err := in.Eval(n.Subject, env)
	if err != nil {
		return nil, err
	}
	for _, arm := range n.Arms {
		bindings := map[string]Value{}
		if !matchInto(arm.Pattern, subject, bindings) {
			continue
		}
		armEnv := NewEnclosedEnvironment(env)
		for k, v := range bindings {
			armEnv.Define(k, v)
		}
		if arm.Guard != nil {
			g, err := in.Eval(arm.Guard, armEnv)
			if err != nil {
				return nil, err
			}
			if !truthy(g) {
				continue
			}
		}
		return in.Eval(arm.Body, armEnv)
	}
	return nil, newRuntimeError(ErrNonExhaustive, "no pattern matched value %s", subject.Inspect())
}
