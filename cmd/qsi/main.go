// qsi — partial-evaluation driver and program inspector.
//
// `qsi run` lowers a flattened package against a target profile and prints
// the resulting RIR program. `qsi inspect` does the same and then drops into
// an interactive prompt for browsing callables and blocks.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/charmbracelet/x/ansi"
	"github.com/peterh/liner"
	"go.uber.org/zap"

	qsharp "github.com/nirajvenkat/qsharp"
)

const (
	appName     = "qsi"
	historyFile = ".qsi_history"
	prompt      = "rir> "
)

var colorEnabled = os.Getenv("NO_COLOR") == ""

// paint wraps s in an SGR sequence, or strips all sequences when color is
// disabled so piped output stays clean.
func paint(code, s string) string {
	out := "\x1b[" + code + "m" + s + "\x1b[0m"
	if !colorEnabled {
		return ansi.Strip(out)
	}
	return out
}

func red(s string) string  { return paint("31", s) }
func blue(s string) string { return paint("94", s) }
func dim(s string) string  { return paint("2", s) }

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch cmd := os.Args[1]; cmd {
	case "run":
		os.Exit(cmdRun(os.Args[2:]))
	case "inspect":
		os.Exit(cmdInspect(os.Args[2:]))
	case "version":
		fmt.Println(qsharp.Version)
	case "-h", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", appName, cmd)
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Printf(`qsi %s

Usage:
  %s run <package.yaml> [options]       Partially evaluate and print the RIR program.
  %s inspect <package.yaml> [options]   Partially evaluate and browse the result.
  %s version                            Print the compiled version.

Options:
  -target <base|adaptive>   Built-in target profile (default base)
  -profile <file.yaml>      Load a target profile from a file (overrides -target)
  -cap <n>                  Loop unrolling cap
  -trace                    Debug-level evaluation tracing to stderr
`, qsharp.Version, appName, appName, appName)
}

type runConfig struct {
	pkgFile string
	target  qsharp.TargetProfile
	opts    []qsharp.Option
}

func parseRunArgs(args []string) (*runConfig, error) {
	if len(args) < 1 || strings.HasPrefix(args[0], "-") {
		return nil, fmt.Errorf("usage: %s run <package.yaml> [options]", appName)
	}
	cfg := &runConfig{pkgFile: args[0], target: qsharp.BaseProfile()}

	for i := 1; i < len(args); i++ {
		next := func() (string, error) {
			if i+1 >= len(args) {
				return "", fmt.Errorf("%s requires a value", args[i])
			}
			i++
			return args[i], nil
		}
		switch args[i] {
		case "-target":
			val, err := next()
			if err != nil {
				return nil, err
			}
			profile, err := qsharp.NamedProfile(val)
			if err != nil {
				return nil, err
			}
			cfg.target = profile
		case "-profile":
			val, err := next()
			if err != nil {
				return nil, err
			}
			profile, err := qsharp.LoadTargetProfile(val)
			if err != nil {
				return nil, err
			}
			cfg.target = profile
		case "-cap":
			val, err := next()
			if err != nil {
				return nil, err
			}
			n, err := strconv.Atoi(val)
			if err != nil || n <= 0 {
				return nil, fmt.Errorf("invalid -cap value %q", val)
			}
			cfg.opts = append(cfg.opts, qsharp.WithIterationCap(n))
		case "-trace":
			logger, err := zap.NewDevelopment()
			if err != nil {
				return nil, err
			}
			cfg.opts = append(cfg.opts, qsharp.WithLogger(logger))
		default:
			return nil, fmt.Errorf("unknown flag %q", args[i])
		}
	}
	return cfg, nil
}

func specialize(cfg *runConfig) (*qsharp.Program, error) {
	pkg, err := qsharp.LoadPackage(cfg.pkgFile)
	if err != nil {
		return nil, err
	}
	return qsharp.Specialize(pkg, cfg.target, cfg.opts...)
}

func cmdRun(args []string) int {
	cfg, err := parseRunArgs(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, red(err.Error()))
		return 2
	}
	prog, err := specialize(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, red(err.Error()))
		return 1
	}
	fmt.Println(prog.String())
	return 0
}

func cmdInspect(args []string) int {
	cfg, err := parseRunArgs(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, red(err.Error()))
		return 2
	}
	prog, err := specialize(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, red(err.Error()))
		return 1
	}

	fmt.Printf("%s: %d callables, %d blocks, %d qubits, %d results\n",
		filepath.Base(cfg.pkgFile), len(prog.Callables()), len(prog.Blocks()),
		prog.NumQubits, prog.NumResults)
	fmt.Println(dim("Commands: program, callables, callable <id>, blocks, block <id>, quit"))

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	for {
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			fmt.Println()
			return 0
		}
		if err != nil {
			continue
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ln.AppendHistory(line)

		if out, done := inspectCommand(prog, line); done {
			return 0
		} else if out != "" {
			fmt.Println(out)
		}
	}
}

// inspectCommand evaluates one inspector command against the program. The
// boolean reports a quit request.
func inspectCommand(prog *qsharp.Program, line string) (string, bool) {
	fields := strings.Fields(line)
	arg := func() (int, bool) {
		if len(fields) < 2 {
			return 0, false
		}
		n, err := strconv.Atoi(fields[1])
		return n, err == nil
	}

	switch fields[0] {
	case "quit", "exit", "q":
		return "", true
	case "program":
		return blue(prog.String()), false
	case "callables":
		var sb strings.Builder
		for _, c := range prog.Callables() {
			fmt.Fprintf(&sb, "%d: %s (%s)\n", c.ID, c.Name, c.CallType)
		}
		return blue(strings.TrimRight(sb.String(), "\n")), false
	case "callable":
		id, ok := arg()
		if !ok || id < 0 || id >= len(prog.Callables()) {
			return red("usage: callable <id>"), false
		}
		return blue(prog.GetCallable(qsharp.CallableID(id)).String()), false
	case "blocks":
		var sb strings.Builder
		for _, b := range prog.Blocks() {
			fmt.Fprintf(&sb, "%d: %d instructions\n", b.ID, len(b.Instrs))
		}
		return blue(strings.TrimRight(sb.String(), "\n")), false
	case "block":
		id, ok := arg()
		if !ok || id < 0 || id >= len(prog.Blocks()) {
			return red("usage: block <id>"), false
		}
		return blue(prog.GetBlock(qsharp.BlockID(id)).String()), false
	default:
		return red(fmt.Sprintf("unknown command %q; type quit to exit", fields[0])), false
	}
}
