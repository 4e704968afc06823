package interp

import "strings"

// methodFn is a builtin method bound to a receiver value.
type methodFn func(in *Interp, recv Value, args []Value) (Value, error)

// methodsOf returns the builtin method table for a value's dynamic
// kind: the core sequence/string/optional operations, not a sprawling
// per-type surface.
func methodsOf(v Value) map[string]methodFn {
	switch v.(type) {
	case ListValue:
		return listMethods
	case StringValue:
		return stringMethods
	case OptionalValue:
		return optionMethods
	case VariantValue:
		return resultMethods
	case TupleValue:
		return tupleMethods
	default:
		return nil
	}
}

var listMethods map[string]methodFn

func init() {
	listMethods = map[string]methodFn{
		"len": func(_ *Interp, recv Value, _ []Value) (Value, error) {
			return IntValue(len(recv.(ListValue).Elems)), nil
		},
		"is_empty": func(_ *Interp, recv Value, _ []Value) (Value, error) {
			return BoolValue(len(recv.(ListValue).Elems) == 0), nil
		},
		"push": func(_ *Interp, recv Value, args []Value) (Value, error) {
			l := recv.(ListValue)
			if len(args) != 1 {
				return nil, newRuntimeError(ErrArity, "push expects 1 argument")
			}
			return ListValue{Elems: append(append([]Value{}, l.Elems...), args[0])}, nil
		},
		"pop": func(_ *Interp, recv Value, _ []Value) (Value, error) {
			l := recv.(ListValue)
			if len(l.Elems) == 0 {
				return OptionalValue{Present: false}, nil
			}
			last := l.Elems[len(l.Elems)-1]
			return OptionalValue{Present: true, Elem: last}, nil
		},
		"map": func(in *Interp, recv Value, args []Value) (Value, error) {
			l := recv.(ListValue)
			if len(args) != 1 {
				return nil, newRuntimeError(ErrArity, "map expects 1 argument")
			}
			out := make([]Value, len(l.Elems))
			for i, e := range l.Elems {
				r, err := in.callValue(args[0], []Value{e})
				if err != nil {
					return nil, err
				}
				out[i] = r
			}
			return ListValue{Elems: out}, nil
		},
		"filter": func(in *Interp, recv Value, args []Value) (Value, error) {
			l := recv.(ListValue)
			if len(args) != 1 {
				return nil, newRuntimeError(ErrArity, "filter expects 1 argument")
			}
			var out []Value
			for _, e := range l.Elems {
				r, err := in.callValue(args[0], []Value{e})
				if err != nil {
					return nil, err
				}
				if truthy(r) {
					out = append(out, e)
				}
			}
			return ListValue{Elems: out}, nil
		},
		"sum": func(_ *Interp, recv Value, _ []Value) (Value, error) {
			l := recv.(ListValue)
			var acc int64
			var facc float64
			isFloat := false
			for _, e := range l.Elems {
				switch n := e.(type) {
				case IntValue:
					acc += int64(n)
					facc += float64(n)
				case FloatValue:
					isFloat = true
					facc += float64(n)
				default:
					return nil, newRuntimeError(ErrTypeMismatch, "sum expects a list of numbers, found %s", e.Kind())
				}
			}
			if isFloat {
				return FloatValue(facc), nil
			}
			return IntValue(acc), nil
		},
		"reduce": func(in *Interp, recv Value, args []Value) (Value, error) {
			l := recv.(ListValue)
			if len(args) != 2 {
				return nil, newRuntimeError(ErrArity, "reduce expects 2 arguments (init, fn)")
			}
			acc := args[0]
			for _, e := range l.Elems {
				r, err := in.callValue(args[1], []Value{acc, e})
				if err != nil {
					return nil, err
				}
				acc = r
			}
			return acc, nil
		},
		"contains": func(_ *Interp, recv Value, args []Value) (Value, error) {
			l := recv.(ListValue)
			if len(args) != 1 {
				return nil, newRuntimeError(ErrArity, "contains expects 1 argument")
			}
			for _, e := range l.Elems {
				if valuesEqual(e, args[0]) {
					return BoolValue(true), nil
				}
			}
			return BoolValue(false), nil
		},
		"reverse": func(_ *Interp, recv Value, _ []Value) (Value, error) {
			l := recv.(ListValue)
			out := make([]Value, len(l.Elems))
			for i, e := range l.Elems {
				out[len(l.Elems)-1-i] = e
			}
			return ListValue{Elems: out}, nil
		},
		"join": func(_ *Interp, recv Value, args []Value) (Value, error) {
			l := recv.(ListValue)
			sep := ""
			if len(args) == 1 {
				if s, ok := args[0].(StringValue); ok {
					sep = string(s)
				}
			}
			parts := make([]string, len(l.Elems))
			for i, e := range l.Elems {
				parts[i] = inspectPlain(e)
			}
			return StringValue(strings.Join(parts, sep)), nil
		},
	}
}

var stringMethods = map[string]methodFn{
	"len": func(_ *Interp, recv Value, _ []Value) (Value, error) {
		return IntValue(len([]rune(string(recv.(StringValue))))), nil
	},
	"to_upper": func(_ *Interp, recv Value, _ []Value) (Value, error) {
		return StringValue(strings.ToUpper(string(recv.(StringValue)))), nil
	},
	"to_lower": func(_ *Interp, recv Value, _ []Value) (Value, error) {
		return StringValue(strings.ToLower(string(recv.(StringValue)))), nil
	},
	"trim": func(_ *Interp, recv Value, _ []Value) (Value, error) {
		return StringValue(strings.TrimSpace(string(recv.(StringValue)))), nil
	},
	"split": func(_ *Interp, recv Value, args []Value) (Value, error) {
		s := string(recv.(StringValue))
		sep := ""
		if len(args) == 1 {
			if a, ok := args[0].(StringValue); ok {
				sep = string(a)
			}
		}
		var parts []string
		if sep == "" {
			parts = strings.Fields(s)
		} else {
			parts = strings.Split(s, sep)
		}
		elems := make([]Value, len(parts))
		for i, p := range parts {
			elems[i] = StringValue(p)
		}
		return ListValue{Elems: elems}, nil
	},
	"contains": func(_ *Interp, recv Value, args []Value) (Value, error) {
		if len(args) != 1 {
			return nil, newRuntimeError(ErrArity, "contains expects 1 argument")
		}
		needle, ok := args[0].(StringValue)
		if !ok {
			return nil, newRuntimeError(ErrTypeMismatch, "contains expects a String argument")
		}
		return BoolValue(strings.Contains(string(recv.(StringValue)), string(needle))), nil
	},
	"chars": func(_ *Interp, recv Value, _ []Value) (Value, error) {
		runes := []rune(string(recv.(StringValue)))
		elems := make([]Value, len(runes))
		for i, r := range runes {
			elems[i] = CharValue(r)
		}
		return ListValue{Elems: elems}, nil
	},
}

var optionMethods map[string]methodFn

func init() {
	optionMethods = map[string]methodFn{
		"is_some": func(_ *Interp, recv Value, _ []Value) (Value, error) {
			return BoolValue(recv.(OptionalValue).Present), nil
		},
		"is_none": func(_ *Interp, recv Value, _ []Value) (Value, error) {
			return BoolValue(!recv.(OptionalValue).Present), nil
		},
		"unwrap": func(_ *Interp, recv Value, _ []Value) (Value, error) {
			opt := recv.(OptionalValue)
			if !opt.Present {
				return nil, newRuntimeError(ErrNonExhaustive, "unwrap called on an empty Optional")
			}
			return opt.Elem, nil
		},
		"unwrap_or": func(_ *Interp, recv Value, args []Value) (Value, error) {
			opt := recv.(OptionalValue)
			if opt.Present {
				return opt.Elem, nil
			}
			if len(args) != 1 {
				return nil, newRuntimeError(ErrArity, "unwrap_or expects 1 argument")
			}
			return args[0], nil
		},
		"map": func(in *Interp, recv Value, args []Value) (Value, error) {
			opt := recv.(OptionalValue)
			if !opt.Present || len(args) != 1 {
				return opt, nil
			}
			r, err := in.callValue(args[0], []Value{opt.Elem})
			if err != nil {
				return nil, err
			}
			return OptionalValue{Present: true, Elem: r}, nil
		},
	}
}

// resultMethods handles the Ok/Err variant shape, dispatched through the same VariantValue representation user
// enums use rather than a dedicated Go type, since Result is just
// `enum Result<T, E> { Ok(T), Err(E) }` at the language level.
var resultMethods = map[string]methodFn{
	"is_ok": func(_ *Interp, recv Value, _ []Value) (Value, error) {
		return BoolValue(recv.(VariantValue).VariantName == "Ok"), nil
	},
	"is_err": func(_ *Interp, recv Value, _ []Value) (Value, error) {
		return BoolValue(recv.(VariantValue).VariantName == "Err"), nil
	},
	"unwrap": func(_ *Interp, recv Value, _ []Value) (Value, error) {
		v := recv.(VariantValue)
		if v.VariantName != "Ok" || len(v.Tuple) != 1 {
			return nil, newRuntimeError(ErrNonExhaustive, "unwrap called on %s", v.Inspect())
		}
		return v.Tuple[0], nil
	},
	"unwrap_or": func(_ *Interp, recv Value, args []Value) (Value, error) {
		v := recv.(VariantValue)
		if v.VariantName == "Ok" && len(v.Tuple) == 1 {
			return v.Tuple[0], nil
		}
		if len(args) != 1 {
			return nil, newRuntimeError(ErrArity, "unwrap_or expects 1 argument")
		}
		return args[0], nil
	},
}

var tupleMethods = map[string]methodFn{
	"len": func(_ *Interp, recv Value, _ []Value) (Value, error) {
		return IntValue(len(recv.(TupleValue).Elems)), nil
	},
}
