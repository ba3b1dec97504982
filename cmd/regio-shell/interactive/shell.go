// Package interactive provides the interactive command-line interface of
// regio-shell.
package interactive

import (
	"context"
	"errors"
	"fmt"
	"io"
	stdlog "log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/regio-project/regio-go/pkg/async"
	"github.com/regio-project/regio-go/pkg/inspect"
	"github.com/regio-project/regio-go/pkg/log"
	"github.com/regio-project/regio-go/pkg/model"
	"github.com/regio-project/regio-go/pkg/path"
	"github.com/regio-project/regio-go/pkg/regio"
	"github.com/regio-project/regio-go/pkg/wire"
)

// Describer is implemented by buses that can list their memory regions,
// such as a remote bus.
type Describer interface {
	Describe(ctx context.Context) ([]wire.RegionInfo, error)
}

// Shell runs register commands against one group.
type Shell struct {
	group     *model.Group
	formatter *inspect.Formatter
	tracer    *log.SwitchLogger
	traceFile *log.FileLogger
	describer Describer
	timeout   time.Duration
	out       io.Writer
	rl        *readline.Instance
}

// New creates a shell for g. Tracing commands drive tracer, which should
// be the logger of the group's traced bus; it may be nil.
func New(g *model.Group, tracer *log.SwitchLogger) *Shell {
	return &Shell{
		group:     g,
		formatter: inspect.NewFormatter(),
		tracer:    tracer,
		timeout:   5 * time.Second,
		out:       os.Stdout,
	}
}

// SetOutput redirects command output.
func (s *Shell) SetOutput(w io.Writer) { s.out = w }

// SetDescriber sets the source of the regions command, usually the
// remote bus underneath the group's traced bus.
func (s *Shell) SetDescriber(d Describer) { s.describer = d }

// SetTimeout bounds every command.
func (s *Shell) SetTimeout(d time.Duration) { s.timeout = d }

// Formatter returns the value formatter.
func (s *Shell) Formatter() *inspect.Formatter { return s.formatter }

// Stdout returns a writer that coordinates with the readline prompt.
// Valid after Run has started.
func (s *Shell) Stdout() io.Writer {
	if s.rl != nil {
		return s.rl.Stdout()
	}
	return s.out
}

// Run starts the interactive command loop.
func (s *Shell) Run(ctx context.Context, cancel context.CancelFunc) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          s.group.Name() + "> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    s.completer(),
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()
	s.rl = rl
	s.out = rl.Stdout()
	defer s.stopTrace()

	s.printHelp()
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			fmt.Fprintln(s.out, "Exiting...")
			cancel()
			return nil
		}
		if s.Execute(ctx, line) {
			fmt.Fprintln(s.out, "Exiting...")
			cancel()
			return nil
		}
	}
}

func (s *Shell) completer() *readline.PrefixCompleter {
	var regs []readline.PrefixCompleterInterface
	for _, r := range s.group.Registers() {
		regs = append(regs, readline.PcItem(r.Name()))
	}
	return readline.NewPrefixCompleter(
		readline.PcItem("tree"),
		readline.PcItem("read", regs...),
		readline.PcItem("write", regs...),
		readline.PcItem("rmw", regs...),
		readline.PcItem("dump", regs...),
		readline.PcItem("radix", readline.PcItem("hex"), readline.PcItem("bin"), readline.PcItem("dec")),
		readline.PcItem("trace", readline.PcItem("on"), readline.PcItem("off")),
		readline.PcItem("regions"),
		readline.PcItem("help"),
		readline.PcItem("quit"),
	)
}

// Execute runs one command line and reports whether the shell should exit.
func (s *Shell) Execute(ctx context.Context, line string) bool {
	parts := strings.Fields(strings.TrimSpace(line))
	if len(parts) == 0 {
		return false
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var err error
	switch cmd {
	case "help", "?":
		s.printHelp()
	case "tree", "t":
		fmt.Fprint(s.out, s.formatter.FormatTree(s.group))
	case "read", "r":
		err = s.cmdRead(ctx, args)
	case "write", "w":
		err = s.cmdWrite(ctx, args)
	case "rmw", "m":
		err = s.cmdModify(ctx, args)
	case "dump", "d":
		err = s.cmdDump(ctx, args)
	case "radix":
		err = s.cmdRadix(args)
	case "trace":
		err = s.cmdTrace(args)
	case "regions":
		err = s.cmdRegions(ctx)
	case "quit", "exit", "q":
		return true
	default:
		fmt.Fprintf(s.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
	}
	return false
}

func (s *Shell) printHelp() {
	fmt.Fprintln(s.out, `
Register Shell Commands:
  Inspection:
    tree                          - Show registers, fields and write policies
    dump [register...]            - Read whole registers with a field breakdown
    regions                       - List the memory regions of a remote bus

  Access:
    read <path>...                - Read registers or fields
    write <path=value>...         - Write fields, e.g. ctrl.parity=EVEN ctrl.baud_div=0x1a
    rmw <path> <op> [value]       - Read, modify and write back one field
                                    ops: set add sub mul div mod or and xor inc dec

  Settings:
    radix hex|bin|dec             - Value display format
    trace on [file] | off         - Trace bus transactions to the log or a file

  General:
    help                          - Show this help
    quit                          - Exit

  Path Format:
    register[.field[.subfield]], e.g. status.errors.overrun`)
}

func (s *Shell) cmdRead(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: read <path>...")
	}
	r, err := regio.BlockingRead(ctx, s.group, args...)
	if err != nil {
		return err
	}
	fmt.Fprint(s.out, s.formatter.FormatAssignments(s.group, r.Values()))
	return nil
}

func (s *Shell) cmdWrite(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: write <path=value>...")
	}
	values, err := inspect.ParseAssignments(s.group, args)
	if err != nil {
		return err
	}
	if err := regio.BlockingWrite(ctx, s.group, values...); err != nil {
		return err
	}
	fmt.Fprintln(s.out, "OK")
	return nil
}

func (s *Shell) cmdModify(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: rmw <path> <op> [value]")
	}
	target, op := args[0], strings.ToLower(args[1])

	var operand uint64
	if op != "inc" && op != "dec" {
		if len(args) < 3 {
			return fmt.Errorf("rmw %s needs a value", op)
		}
		v, err := inspect.ParseValue(args[2])
		if err != nil {
			return err
		}
		operand = v
	}

	spec, err := regio.NewReadSpec(s.group, target)
	if err != nil {
		return err
	}

	var result uint64
	modify := func(w *regio.WriteSpec) error {
		f, err := w.Field(target)
		if err != nil {
			return err
		}
		switch op {
		case "set":
			f.Set(operand)
		case "add":
			f.Add(operand)
		case "sub":
			f.Sub(operand)
		case "mul":
			f.Mul(operand)
		case "div", "mod":
			if operand == 0 {
				return errors.New("division by zero")
			}
			if op == "div" {
				f.Div(operand)
			} else {
				f.Mod(operand)
			}
		case "or":
			f.Or(operand)
		case "and":
			f.And(operand)
		case "xor":
			f.Xor(operand)
		case "inc":
			f.Inc()
		case "dec":
			f.Dec()
		default:
			return fmt.Errorf("unknown operation %q", op)
		}
		result = f.Value()
		return nil
	}

	if _, err := async.SyncWait(ctx, regio.ReadThen(spec, modify)); err != nil {
		return err
	}
	fmt.Fprint(s.out, s.formatter.FormatAssignments(s.group, []path.Assignment{
		{Path: spec.Paths()[0], Value: result},
	}))
	return nil
}

func (s *Shell) cmdDump(ctx context.Context, args []string) error {
	names := args
	if len(names) == 0 {
		for _, r := range s.group.Registers() {
			if !r.Policy().IsWriteOnly() {
				names = append(names, r.Name())
			}
		}
	}
	res, err := regio.BlockingRead(ctx, s.group, names...)
	if err != nil {
		return err
	}
	for _, rv := range res.Registers() {
		fmt.Fprint(s.out, s.formatter.FormatRegister(rv.Register, rv.Value))
	}
	return nil
}

func (s *Shell) cmdRadix(args []string) error {
	if len(args) != 1 {
		fmt.Fprintf(s.out, "radix: %s\n", s.formatter.Radix)
		return nil
	}
	r, err := inspect.ParseRadix(args[0])
	if err != nil {
		return err
	}
	s.formatter.Radix = r
	return nil
}

func (s *Shell) cmdTrace(args []string) error {
	if s.tracer == nil {
		return errors.New("tracing not available")
	}
	if len(args) == 0 {
		state := "off"
		if s.tracer.Enabled() {
			state = "on"
		}
		fmt.Fprintf(s.out, "trace: %s\n", state)
		return nil
	}

	switch strings.ToLower(args[0]) {
	case "on":
		s.stopTrace()
		if len(args) > 1 {
			fl, err := log.NewFileLogger(args[1])
			if err != nil {
				return err
			}
			s.traceFile = fl
			s.tracer.Set(fl)
			fmt.Fprintf(s.out, "Tracing to %s\n", args[1])
			return nil
		}
		handler := slog.NewTextHandler(s.Stdout(), &slog.HandlerOptions{Level: slog.LevelDebug})
		s.tracer.Set(log.NewSlogAdapter(slog.New(handler)))
		fmt.Fprintln(s.out, "Tracing to console")
	case "off":
		s.stopTrace()
		fmt.Fprintln(s.out, "Tracing off")
	default:
		return errors.New("usage: trace on [file] | off")
	}
	return nil
}

func (s *Shell) stopTrace() {
	if s.tracer != nil {
		s.tracer.Set(nil)
	}
	if s.traceFile != nil {
		if err := s.traceFile.Close(); err != nil {
			stdlog.Printf("closing trace file: %v", err)
		} else {
			stdlog.Printf("wrote %d trace events", s.traceFile.Count())
		}
		s.traceFile = nil
	}
}

func (s *Shell) cmdRegions(ctx context.Context) error {
	if s.describer == nil {
		return errors.New("bus does not describe its regions")
	}
	regions, err := s.describer.Describe(ctx)
	if err != nil {
		return err
	}
	for _, r := range regions {
		fmt.Fprintf(s.out, "  %-12s 0x%08x-0x%08x (%d bytes)\n", r.Name, r.Base, r.Base+r.Size-1, r.Size)
	}
	return nil
}
