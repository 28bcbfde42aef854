// Command probevm is a local development front end for the execution core:
// it loads an encoded program, runs it against an integer argument, or
// disassembles/dumps it for inspection. A host embedding package vm is never
// required to use this binary; it exists for local iteration only.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/urfave/cli.v1"

	"github.com/probevm/probevm/internal/hostconfig"
	"github.com/probevm/probevm/internal/xlog"
	"github.com/probevm/probevm/loader"
	"github.com/probevm/probevm/vm"
)

var configFlag = cli.StringFlag{
	Name:  "config",
	Usage: "path to a probevm TOML configuration file",
}

func main() {
	app := cli.NewApp()
	app.Name = "probevm"
	app.Usage = "run and inspect probevm programs"
	app.Flags = []cli.Flag{configFlag}
	app.Commands = []cli.Command{
		runCommand,
		disasmCommand,
		dumpCommand,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var runCommand = cli.Command{
	Name:      "run",
	Usage:     "load a program and invoke its entry function",
	ArgsUsage: "<program-file> <argument>",
	Action: func(c *cli.Context) error {
		if c.NArg() != 2 {
			return fmt.Errorf("run: expected <program-file> <argument>")
		}
		arg, err := strconv.ParseInt(c.Args().Get(1), 10, 64)
		if err != nil {
			return fmt.Errorf("run: invalid argument: %w", err)
		}

		log, cfg, err := setup(c)
		if err != nil {
			return err
		}

		traceID := uuid.New().String()
		log.Info("run starting", "trace", traceID, "program", c.Args().Get(0), "argument", arg)

		prog, err := loadProgram(cfg, c.Args().Get(0))
		if err != nil {
			log.Error("load failed", "trace", traceID, "err", err)
			return err
		}

		entry := entryFunction(prog)
		bounded := hostconfig.NewBoundedEngine(vm.NewEngine(prog), cfg.Execution.StepBudget)
		result, err := bounded.Invoke(entry, arg)
		if err != nil {
			log.Error("run failed", "trace", traceID, "err", err)
			return err
		}

		log.Info("run finished", "trace", traceID, "result", result)
		fmt.Println(result)
		return nil
	},
}

var disasmCommand = cli.Command{
	Name:      "disasm",
	Usage:     "disassemble every function in a program",
	ArgsUsage: "<program-file>",
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return fmt.Errorf("disasm: expected <program-file>")
		}

		_, cfg, err := setup(c)
		if err != nil {
			return err
		}
		prog, err := loadProgram(cfg, c.Args().Get(0))
		if err != nil {
			return err
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Function", "Ints", "Bools", "Funcs", "Instructions"})
		for i, fn := range prog.Functions {
			table.Append([]string{
				strconv.Itoa(i),
				strconv.Itoa(fn.Locals.Ints),
				strconv.Itoa(fn.Locals.Bools),
				strconv.Itoa(fn.Locals.Funcs),
				strconv.Itoa(len(fn.Code)),
			})
		}
		table.Render()

		for i, fn := range prog.Functions {
			fmt.Printf("\nfunction %d:\n%s", i, vm.Disassemble(fn))
		}
		return nil
	},
}

var dumpCommand = cli.Command{
	Name:      "dump",
	Usage:     "pretty-print the decoded program structure",
	ArgsUsage: "<program-file>",
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return fmt.Errorf("dump: expected <program-file>")
		}

		_, cfg, err := setup(c)
		if err != nil {
			return err
		}
		prog, err := loadProgram(cfg, c.Args().Get(0))
		if err != nil {
			return err
		}
		spew.Dump(prog)
		return nil
	},
}

func setup(c *cli.Context) (*xlog.Logger, *hostconfig.Config, error) {
	cfg := hostconfig.Default()
	if path := c.GlobalString(configFlag.Name); path != "" {
		loaded, err := hostconfig.Load(path)
		if err != nil {
			return nil, nil, fmt.Errorf("config: %w", err)
		}
		cfg = loaded
	}

	levels := map[string]xlog.Level{
		"debug": xlog.LevelDebug,
		"info":  xlog.LevelInfo,
		"warn":  xlog.LevelWarn,
		"error": xlog.LevelError,
	}
	var useColor *bool
	switch cfg.Logging.Color {
	case "always", "never":
		on := cfg.Logging.Color == "always"
		useColor = &on
	}
	return xlog.New(os.Stderr, levels[cfg.Logging.Level], useColor), cfg, nil
}

func loadProgram(cfg *hostconfig.Config, path string) (*vm.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	cache, err := loader.NewCache(cfg.Cache.Capacity)
	if err != nil {
		return nil, err
	}
	return cache.Load(data)
}

// entryFunction resolves the program's entry point: the function named
// "main" in Program.Names if present, otherwise function 0.
func entryFunction(prog *vm.Program) *vm.Function {
	if prog.Names != nil {
		if fn, ok := prog.Names["main"]; ok {
			return fn
		}
	}
	return prog.Functions[0]
}
