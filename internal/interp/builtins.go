package interp

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite"
)

// registerBuiltins installs the global function catalogue: the core
// print/len/assert set plus the host-backed primitives, each wired
// against its library's public API (see per-function comments below).
func registerBuiltins(in *Interp) {
	def := func(name string, fn func(in *Interp, args []Value) (Value, error)) {
		in.Globals.Define(name, Builtin{Name: name, Fn: fn})
	}

	def("print", func(in *Interp, args []Value) (Value, error) {
		for i, a := range args {
			if i > 0 {
				fmt.Fprint(in.Out, " ")
			}
			fmt.Fprint(in.Out, inspectPlain(a))
		}
		return UnitValue{}, nil
	})
	def("println", func(in *Interp, args []Value) (Value, error) {
		for i, a := range args {
			if i > 0 {
				fmt.Fprint(in.Out, " ")
			}
			fmt.Fprint(in.Out, inspectPlain(a))
		}
		fmt.Fprintln(in.Out)
		return UnitValue{}, nil
	})
	def("len", func(_ *Interp, args []Value) (Value, error) {
		if len(args) != 1 {
			return nil, newRuntimeError(ErrArity, "len expects 1 argument")
		}
		switch x := args[0].(type) {
		case ListValue:
			return IntValue(len(x.Elems)), nil
		case StringValue:
			return IntValue(len([]rune(string(x)))), nil
		case TupleValue:
			return IntValue(len(x.Elems)), nil
		case SetValue:
			return IntValue(len(x.Elems)), nil
		}
		return nil, newRuntimeError(ErrTypeMismatch, "len not defined for %s", args[0].Kind())
	})
	def("assert", func(_ *Interp, args []Value) (Value, error) {
		if len(args) == 0 || !truthy(args[0]) {
			msg := "assertion failed"
			if len(args) == 2 {
				msg = inspectPlain(args[1])
			}
			return nil, newRuntimeError(ErrNonExhaustive, "%s", msg)
		}
		return UnitValue{}, nil
	})

	// uuid() — google/uuid, uuid.New().String().
	def("uuid", func(_ *Interp, _ []Value) (Value, error) {
		return StringValue(uuid.New().String()), nil
	})

	// to_yaml/from_yaml — yaml.Marshal on the plain-Go form of a value,
	// and yaml.Unmarshal([]byte(content), &data) into an interface{}
	// the other way.
	def("to_yaml", func(_ *Interp, args []Value) (Value, error) {
		if len(args) != 1 {
			return nil, newRuntimeError(ErrArity, "to_yaml expects 1 argument")
		}
		out, err := yaml.Marshal(toPlain(args[0]))
		if err != nil {
			return nil, newRuntimeError(ErrTypeMismatch, "to_yaml: %v", err)
		}
		return StringValue(string(out)), nil
	})
	def("from_yaml", func(_ *Interp, args []Value) (Value, error) {
		if len(args) != 1 {
			return nil, newRuntimeError(ErrArity, "from_yaml expects 1 argument")
		}
		s, ok := args[0].(StringValue)
		if !ok {
			return nil, newRuntimeError(ErrTypeMismatch, "from_yaml expects a String")
		}
		var data interface{}
		if err := yaml.Unmarshal([]byte(s), &data); err != nil {
			return nil, newRuntimeError(ErrTypeMismatch, "from_yaml: %v", err)
		}
		return fromPlain(data), nil
	})

	// is_tty — whether stdout is a real terminal, for scripts that vary
	// color/interactive output.
	def("is_tty", func(_ *Interp, _ []Value) (Value, error) {
		fd := os.Stdout.Fd()
		return BoolValue(isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)), nil
	})

	// humanize_bytes/humanize_number — dustin/go-humanize Bytes/Comma.
	def("humanize_bytes", func(_ *Interp, args []Value) (Value, error) {
		if len(args) != 1 {
			return nil, newRuntimeError(ErrArity, "humanize_bytes expects 1 argument")
		}
		n, ok := args[0].(IntValue)
		if !ok {
			return nil, newRuntimeError(ErrTypeMismatch, "humanize_bytes expects an Int")
		}
		return StringValue(humanize.Bytes(uint64(n))), nil
	})
	def("humanize_number", func(_ *Interp, args []Value) (Value, error) {
		if len(args) != 1 {
			return nil, newRuntimeError(ErrArity, "humanize_number expects 1 argument")
		}
		n, ok := args[0].(IntValue)
		if !ok {
			return nil, newRuntimeError(ErrTypeMismatch, "humanize_number expects an Int")
		}
		return StringValue(humanize.Comma(int64(n))), nil
	})

	// db_open/db_exec/db_query — database/sql over the blank-imported
	// modernc.org/sqlite driver (pure Go, registered under driver name
	// "sqlite").
	def("db_open", func(_ *Interp, args []Value) (Value, error) {
		if len(args) != 1 {
			return nil, newRuntimeError(ErrArity, "db_open expects 1 argument (path)")
		}
		path, ok := args[0].(StringValue)
		if !ok {
			return nil, newRuntimeError(ErrTypeMismatch, "db_open expects a String path")
		}
		db, err := sql.Open("sqlite", string(path))
		if err != nil {
			return nil, newRuntimeError(ErrTypeMismatch, "db_open: %v", err)
		}
		return Native{TypeName: "DBConn", Data: db}, nil
	})
	def("db_exec", func(_ *Interp, args []Value) (Value, error) {
		if len(args) < 2 {
			return nil, newRuntimeError(ErrArity, "db_exec expects (conn, query,...args)")
		}
		conn, ok := args[0].(Native)
		if !ok {
			return nil, newRuntimeError(ErrTypeMismatch, "db_exec expects a DBConn")
		}
		db, ok := conn.Data.(*sql.DB)
		if !ok {
			return nil, newRuntimeError(ErrTypeMismatch, "db_exec: not a live connection")
		}
		query, ok := args[1].(StringValue)
		if !ok {
			return nil, newRuntimeError(ErrTypeMismatch, "db_exec expects a String query")
		}
		params := make([]interface{}, len(args)-2)
		for i, a := range args[2:] {
			params[i] = toPlain(a)
		}
		res, err := db.Exec(string(query), params...)
		if err != nil {
			return nil, newRuntimeError(ErrTypeMismatch, "db_exec: %v", err)
		}
		n, _ := res.RowsAffected()
		return IntValue(n), nil
	})
	def("db_query", func(_ *Interp, args []Value) (Value, error) {
		if len(args) < 2 {
			return nil, newRuntimeError(ErrArity, "db_query expects (conn, query,...args)")
		}
		conn, ok := args[0].(Native)
		if !ok {
			return nil, newRuntimeError(ErrTypeMismatch, "db_query expects a DBConn")
		}
		db, ok := conn.Data.(*sql.DB)
		if !ok {
			return nil, newRuntimeError(ErrTypeMismatch, "db_query: not a live connection")
		}
		query, ok := args[1].(StringValue)
		if !ok {
			return nil, newRuntimeError(ErrTypeMismatch, "db_query expects a String query")
		}
		params := make([]interface{}, len(args)-2)
		for i, a := range args[2:] {
			params[i] = toPlain(a)
		}
		rows, err := db.Query(string(query), params...)
		if err != nil {
			return nil, newRuntimeError(ErrTypeMismatch, "db_query: %v", err)
		}
		defer rows.Close()
		cols, err := rows.Columns()
		if err != nil {
			return nil, newRuntimeError(ErrTypeMismatch, "db_query: %v", err)
		}
		var out []Value
		for rows.Next() {
			raw := make([]interface{}, len(cols))
			ptrs := make([]interface{}, len(cols))
			for i := range raw {
				ptrs[i] = &raw[i]
			}
			if err := rows.Scan(ptrs...); err != nil {
				return nil, newRuntimeError(ErrTypeMismatch, "db_query: %v", err)
			}
			rec := RecordValue{Fields: map[string]Value{}}
			for i, c := range cols {
				rec.Order = append(rec.Order, c)
				rec.Fields[c] = fromPlain(raw[i])
			}
			out = append(out, rec)
		}
		return ListValue{Elems: out}, nil
	})

	// net_rpc_dial — a plaintext gRPC client connection. Dynamic proto
	// message construction is out of scope (nothing in the surface
	// grammar carries a schema literal to hang it on), so the handle
	// only reports connectivity state.
	def("net_rpc_dial", func(_ *Interp, args []Value) (Value, error) {
		if len(args) != 1 {
			return nil, newRuntimeError(ErrArity, "net_rpc_dial expects 1 argument (target)")
		}
		target, ok := args[0].(StringValue)
		if !ok {
			return nil, newRuntimeError(ErrTypeMismatch, "net_rpc_dial expects a String target")
		}
		conn, err := grpc.NewClient(string(target), grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			return nil, newRuntimeError(ErrTypeMismatch, "net_rpc_dial: %v", err)
		}
		return Native{TypeName: "GrpcConn", Data: conn}, nil
	})
}

// ToPlain exports toPlain for hosts outside this package — the REPL's
// JSON session persistence
// reuses the same conversion rather than inventing a second one.
func ToPlain(v Value) interface{} { return toPlain(v) }

// FromPlain exports fromPlain for the same reason as ToPlain.
func FromPlain(v interface{}) Value { return fromPlain(v) }

// toPlain converts an interpreter Value to a plain Go value suitable
// for yaml.Marshal or a database/sql parameter.
func toPlain(v Value) interface{} {
	switch x := v.(type) {
	case IntValue:
		return int64(x)
	case FloatValue:
		return float64(x)
	case BoolValue:
		return bool(x)
	case StringValue:
		return string(x)
	case CharValue:
		return string(rune(x))
	case UnitValue:
		return nil
	case OptionalValue:
		if !x.Present {
			return nil
		}
		return toPlain(x.Elem)
	case ListValue:
		out := make([]interface{}, len(x.Elems))
		for i, e := range x.Elems {
			out[i] = toPlain(e)
		}
		return out
	case RecordValue:
		out := map[string]interface{}{}
		for _, k := range x.Order {
			out[k] = toPlain(x.Fields[k])
		}
		return out
	default:
		return x.Inspect()
	}
}

// fromPlain converts a plain Go value decoded by yaml.Unmarshal or
// database/sql's Scan back into an interpreter Value.
func fromPlain(v interface{}) Value {
	switch x := v.(type) {
	case nil:
		return OptionalValue{Present: false}
	case int64:
		return IntValue(x)
	case int:
		return IntValue(x)
	case float64:
		return FloatValue(x)
	case bool:
		return BoolValue(x)
	case string:
		return StringValue(x)
	case []byte:
		return StringValue(string(x))
	case []interface{}:
		out := make([]Value, len(x))
		for i, e := range x {
			out[i] = fromPlain(e)
		}
		return ListValue{Elems: out}
	case map[string]interface{}:
		rec := RecordValue{Fields: map[string]Value{}}
		for k, e := range x {
			rec.Order = append(rec.Order, k)
			rec.Fields[k] = fromPlain(e)
		}
		return rec
	default:
		return StringValue(fmt.Sprintf("%v", x))
	}
}
