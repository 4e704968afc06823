package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/ruchy-lang/ruchy/internal/arena"
	"github.com/ruchy-lang/ruchy/internal/ast"
	"github.com/ruchy-lang/ruchy/internal/config"
	"github.com/ruchy-lang/ruchy/internal/diagnostics"
	"github.com/ruchy-lang/ruchy/internal/format"
	"github.com/ruchy-lang/ruchy/internal/infer"
	"github.com/ruchy-lang/ruchy/internal/interp"
	"github.com/ruchy-lang/ruchy/internal/mir"
	"github.com/ruchy-lang/ruchy/internal/parser"
	"github.com/ruchy-lang/ruchy/internal/repl"
	"github.com/ruchy-lang/ruchy/internal/transpile"
	"github.com/ruchy-lang/ruchy/internal/vm"
)

// Exit codes per the command table: 0 ok, 1 runtime error, 2 parse or
// type error.
const (
	exitOK      = 0
	exitRuntime = 1
	exitCompile = 2
)

type options struct {
	vmMode  string // "ast" or "bytecode"
	format  string // "text" or "json"
	trace   bool
	verbose bool
	expr    string // -e <src>
}

func usage() {
	fmt.Fprintf(os.Stderr, `ruchy %s

Usage:
  ruchy run <file>        parse, infer, interpret main
  ruchy eval -e <src>     parse and interpret, print last value
  ruchy transpile <file>  emit Rust source to stdout
  ruchy fmt <file>        format in place
  ruchy check <file>      parse and infer only
  ruchy repl              interactive session (default with no arguments)

Flags:
  --vm-mode ast|bytecode  execution backend (default ast)
  --format text|json      diagnostic output format (default text)
  --trace                 log every VM instruction before executing it
  -v, --verbose           print result values
`, config.Version)
}

// parseOptions splits host flags from positional arguments. Flag values
// may be attached (--vm-mode=bytecode) or follow as the next argument.
func parseOptions(args []string) (options, []string, error) {
	opts := options{vmMode: "ast", format: "text"}
	var rest []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		takeValue := func(name string) (string, error) {
			if eq := strings.IndexByte(arg, '='); eq >= 0 {
				return arg[eq+1:], nil
			}
			if i+1 >= len(args) {
				return "", fmt.Errorf("%s requires a value", name)
			}
			i++
			return args[i], nil
		}
		switch {
		case arg == "--vm-mode" || strings.HasPrefix(arg, "--vm-mode="):
			v, err := takeValue("--vm-mode")
			if err != nil {
				return opts, nil, err
			}
			if v != "ast" && v != "bytecode" {
				return opts, nil, fmt.Errorf("--vm-mode must be ast or bytecode, got %q", v)
			}
			opts.vmMode = v
		case arg == "--format" || strings.HasPrefix(arg, "--format="):
			v, err := takeValue("--format")
			if err != nil {
				return opts, nil, err
			}
			if v != "text" && v != "json" {
				return opts, nil, fmt.Errorf("--format must be text or json, got %q", v)
			}
			opts.format = v
		case arg == "--trace":
			opts.trace = true
		case arg == "-v" || arg == "--verbose":
			opts.verbose = true
		case arg == "-e":
			v, err := takeValue("-e")
			if err != nil {
				return opts, nil, err
			}
			opts.expr = v
		default:
			rest = append(rest, arg)
		}
	}
	return opts, rest, nil
}

func main() {
	// Catch panics and show a user-friendly error; internal invariant
	// violations are bugs, not user-visible failures.
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("DEBUG") == "1" {
				panic(r)
			}
			fmt.Fprintf(os.Stderr, "Internal error: %v\n", r)
			fmt.Fprintln(os.Stderr, "This is a bug. Please report it.")
			os.Exit(exitRuntime)
		}
	}()

	opts, rest, err := parseOptions(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCompile)
	}

	if len(rest) == 0 {
		if opts.expr != "" {
			os.Exit(cmdEval(opts.expr, opts))
		}
		os.Exit(runRepl(opts))
	}

	switch rest[0] {
	case "help", "-help", "--help":
		usage()
		os.Exit(exitOK)
	case "run":
		os.Exit(withSource(rest, opts, cmdRun))
	case "eval":
		if opts.expr == "" {
			fmt.Fprintln(os.Stderr, "eval requires -e <src>")
			os.Exit(exitCompile)
		}
		os.Exit(cmdEval(opts.expr, opts))
	case "transpile":
		os.Exit(withSource(rest, opts, cmdTranspile))
	case "fmt":
		os.Exit(withSource(rest, opts, cmdFmt))
	case "check":
		os.Exit(withSource(rest, opts, cmdCheck))
	case "repl":
		os.Exit(runRepl(opts))
	default:
		// A bare source path runs it, matching the usual `ruchy file.ruchy`
		// invocation shape.
		if config.HasSourceExt(rest[0]) {
			os.Exit(cmdRun(rest[0], "", opts))
		}
		fmt.Fprintf(os.Stderr, "unknown command %q\n", rest[0])
		usage()
		os.Exit(exitCompile)
	}
}

// withSource reads the command's file argument and hands its contents to
// the handler.
func withSource(rest []string, opts options, handler func(path, src string, opts options) int) int {
	if len(rest) < 2 {
		fmt.Fprintf(os.Stderr, "%s requires a file argument\n", rest[0])
		return exitCompile
	}
	path := rest[1]
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot read %s: %v\n", path, err)
		return exitCompile
	}
	return handler(path, string(data), opts)
}

func cmdRun(path, src string, opts options) int {
	if src == "" && path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "cannot read %s: %v\n", path, err)
			return exitCompile
		}
		src = string(data)
	}
	prog, diags := parser.ParseProgram(src)
	if printDiagnostics(diags, opts) {
		return exitCompile
	}
	types, typeDiags := infer.InferProgram(prog)
	if printDiagnostics(typeDiags, opts) {
		return exitCompile
	}

	if opts.vmMode == "bytecode" {
		optDiags := &diagnostics.Sink{}
		mp := mir.LowerProgram(prog, types, optDiags)
		if printDiagnostics(optDiags, opts) {
			return exitCompile
		}
		mir.OptimizeProgram(mp, optDiags)
		printDiagnostics(optDiags, opts) // warnings only at this point
		machine := vm.NewVM(vm.Compile(mp))
		machine.Trace = opts.trace
		machine.Budget = defaultBudget()
		v, err := machine.Run("main", nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "runtime error: %v\n", err)
			return exitRuntime
		}
		if opts.verbose {
			fmt.Println(v.Inspect())
		}
		return exitOK
	}

	in := interp.New()
	in.Budget = defaultBudget()
	if _, err := in.Run(prog); err != nil {
		fmt.Fprintf(os.Stderr, "runtime error: %v\n", err)
		return exitRuntime
	}
	if _, ok := in.Globals.Get("main"); ok {
		v, err := in.CallMain()
		if err != nil {
			fmt.Fprintf(os.Stderr, "runtime error: %v\n", err)
			return exitRuntime
		}
		if opts.verbose {
			fmt.Println(v.Inspect())
		}
	}
	return exitOK
}

func cmdEval(src string, opts options) int {
	prog, diags := parser.ParseProgram(src)
	if printDiagnostics(diags, opts) {
		return exitCompile
	}
	_, typeDiags := infer.InferProgram(prog)
	if printDiagnostics(typeDiags, opts) {
		return exitCompile
	}
	in := interp.New()
	in.Budget = defaultBudget()
	v, err := in.Run(prog)
	if err != nil {
		fmt.Fprintf(os.Stderr, "runtime error: %v\n", err)
		return exitRuntime
	}
	fmt.Println(v.Inspect())
	return exitOK
}

func cmdTranspile(_, src string, opts options) int {
	prog, diags := parser.ParseProgram(src)
	if printDiagnostics(diags, opts) {
		return exitCompile
	}
	types, typeDiags := infer.InferProgram(prog)
	if printDiagnostics(typeDiags, opts) {
		return exitCompile
	}
	out, emitDiags := transpile.Transpile(prog, types)
	if printDiagnostics(emitDiags, opts) {
		return exitCompile
	}
	fmt.Print(out)
	return exitOK
}

func cmdFmt(path, src string, opts options) int {
	prog, diags := parser.ParseProgram(src)
	if printDiagnostics(diags, opts) {
		return exitCompile
	}
	formatted := format.Format(prog)
	if formatted == src {
		return exitOK
	}
	if err := os.WriteFile(path, []byte(formatted), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "cannot write %s: %v\n", path, err)
		return exitCompile
	}
	if opts.verbose {
		fmt.Fprintf(os.Stderr, "formatted %s\n", path)
	}
	return exitOK
}

func cmdCheck(_, src string, opts options) int {
	prog, diags := parser.ParseProgram(src)
	if printDiagnostics(diags, opts) {
		return exitCompile
	}
	_, typeDiags := infer.InferProgram(prog)
	if printDiagnostics(typeDiags, opts) {
		return exitCompile
	}
	if opts.format == "json" {
		dump := struct {
			OK           bool             `json:"ok"`
			Declarations []jsonDecl       `json:"declarations"`
			Diagnostics  []jsonDiagnostic `json:"diagnostics"`
		}{OK: true, Declarations: summarize(prog), Diagnostics: []jsonDiagnostic{}}
		data, _ := json.MarshalIndent(dump, "", "  ")
		fmt.Println(string(data))
	} else if opts.verbose {
		fmt.Println("ok")
	}
	return exitOK
}

// jsonDecl is one top-level item in the `check --format json` dump.
type jsonDecl struct {
	Kind string `json:"kind"`
	Name string `json:"name,omitempty"`
	Line int    `json:"line"`
}

func summarize(prog *ast.Program) []jsonDecl {
	out := make([]jsonDecl, 0, len(prog.Statements))
	for _, stmt := range prog.Statements {
		d := jsonDecl{Line: stmt.GetToken().Line}
		switch n := stmt.(type) {
		case *ast.FunctionDecl:
			d.Kind, d.Name = "function", n.Name
		case *ast.StructDecl:
			d.Kind, d.Name = "struct", n.Name
		case *ast.EnumDecl:
			d.Kind, d.Name = "enum", n.Name
		case *ast.TraitDecl:
			d.Kind, d.Name = "trait", n.Name
		case *ast.ImplDecl:
			d.Kind = "impl"
		case *ast.ImportStatement:
			d.Kind = "import"
		case *ast.ModuleDecl:
			d.Kind, d.Name = "module", n.Name
		default:
			d.Kind = "statement"
		}
		out = append(out, d)
	}
	return out
}

// defaultBudget is the resource envelope applied when the user passes
// no explicit limits: a generous instruction cap and the default
// stack depth, no wall-clock deadline.
func defaultBudget() *arena.Budget {
	return arena.NewBudget(config.DefaultMaxInstructions, config.DefaultMaxStackDepth, config.DefaultMaxArenaBytes, time.Time{})
}

// jsonDiagnostic is the wire shape of one diagnostic under
// --format json.
type jsonDiagnostic struct {
	Severity    string   `json:"severity"`
	Code        string   `json:"code"`
	Message     string   `json:"message"`
	Line        int      `json:"line"`
	Column      int      `json:"column"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// printDiagnostics renders every collected diagnostic and reports
// whether any of them is an error (warnings alone do not fail a run).
func printDiagnostics(sink *diagnostics.Sink, opts options) bool {
	if sink == nil || len(sink.All()) == 0 {
		return false
	}
	if opts.format == "json" {
		out := make([]jsonDiagnostic, 0, len(sink.All()))
		for _, d := range sink.All() {
			out = append(out, jsonDiagnostic{
				Severity:    d.Severity.String(),
				Code:        string(d.Code),
				Message:     d.Message,
				Line:        d.Token.Line,
				Column:      d.Token.Column,
				Suggestions: d.Suggestions,
			})
		}
		data, _ := json.MarshalIndent(out, "", "  ")
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		for _, d := range sink.All() {
			fmt.Fprintf(os.Stderr, "- %s\n", d.Error())
		}
	}
	return sink.HasErrors()
}

func runRepl(opts options) int {
	interactive := isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	session := repl.New(config.DefaultMaxArenaBytes)
	if interactive {
		fmt.Printf("ruchy %s — :quit to exit, :save/:load <file> for sessions\n", config.Version)
	}
	sc := bufio.NewScanner(os.Stdin)
	for {
		if interactive {
			fmt.Print("ruchy> ")
		}
		if !sc.Scan() {
			break
		}
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "":
			continue
		case line == ":quit" || line == ":q" || line == "exit":
			return exitOK
		case strings.HasPrefix(line, ":save "):
			path := strings.TrimSpace(strings.TrimPrefix(line, ":save "))
			data, err := session.Save()
			if err == nil {
				err = os.WriteFile(path, data, 0o644)
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "save failed: %v\n", err)
			}
			continue
		case strings.HasPrefix(line, ":load "):
			path := strings.TrimSpace(strings.TrimPrefix(line, ":load "))
			data, err := os.ReadFile(path)
			if err != nil {
				fmt.Fprintf(os.Stderr, "load failed: %v\n", err)
				continue
			}
			restored, err := repl.Load(data, config.DefaultMaxArenaBytes)
			if err != nil {
				fmt.Fprintf(os.Stderr, "load failed: %v\n", err)
				continue
			}
			session = restored
			continue
		}
		res, err := session.Eval(line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		if res.Value != nil {
			fmt.Println(res.Value.Inspect())
		}
	}
	return exitOK
}
