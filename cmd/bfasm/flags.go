package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"

	"github.com/sarchlab/bfasm/config"
	"github.com/sarchlab/bfasm/program"
	"github.com/sarchlab/bfasm/samples"
)

var (
	compileFlag = &cli.StringFlag{
		Name:    "compile",
		Aliases: []string{"c"},
		Usage:   "write assembly to `FILE` instead of running the program",
	}
	memoryFlag = &cli.IntFlag{
		Name:    "memory",
		Aliases: []string{"m"},
		Usage:   "number of tape cells",
		Value:   config.Default().TapeSize,
	}
	eofFlag = &cli.StringFlag{
		Name:  "eof",
		Usage: "what ',' stores at end of input: unchanged or zero",
		Value: config.Default().EOF,
	}
	configFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration `FILE`",
	}
	verbosityFlag = &cli.StringFlag{
		Name:  "verbosity",
		Usage: "log level: trace, debug, info, warn or error",
		Value: config.Default().Verbosity,
	}
	logFileFlag = &cli.StringFlag{
		Name:  "logfile",
		Usage: "write logs to a rotated `FILE` instead of stderr",
	}
	sampleFlag = &cli.StringFlag{
		Name:  "sample",
		Usage: "use an embedded sample instead of a file: " + strings.Join(samples.Names(), ", "),
	}
	dumpFlag = &cli.IntFlag{
		Name:  "dump",
		Usage: "print the cells within `N` of the cursor after the run",
		Value: -1,
	}
)

// current is the configuration of this invocation, set by setup.
var current config.Config

// setup loads the configuration and installs the logger. It runs once
// before any command.
func setup(ctx *cli.Context) error {
	if !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		color.NoColor = true
	}

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	if err := setupLogging(cfg); err != nil {
		return err
	}

	current = cfg

	return nil
}

func loadConfig(ctx *cli.Context) (config.Config, error) {
	cfg := config.Default()

	if file := ctx.String(configFlag.Name); file != "" {
		var err error
		if cfg, err = config.Load(file); err != nil {
			return cfg, err
		}
	}

	if ctx.IsSet(memoryFlag.Name) {
		cfg.TapeSize = ctx.Int(memoryFlag.Name)
	}

	if ctx.IsSet(eofFlag.Name) {
		cfg.EOF = ctx.String(eofFlag.Name)
	}

	if ctx.IsSet(compileFlag.Name) {
		cfg.Output = ctx.String(compileFlag.Name)
	}

	if ctx.IsSet(verbosityFlag.Name) {
		cfg.Verbosity = ctx.String(verbosityFlag.Name)
	}

	if ctx.IsSet(logFileFlag.Name) {
		cfg.LogFile = ctx.String(logFileFlag.Name)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// source returns the name and text of the program selected by the
// arguments: an embedded sample or the first file argument.
func source(ctx *cli.Context) (string, string, error) {
	if name := ctx.String(sampleFlag.Name); name != "" {
		src, err := samples.Get(name)
		return name, src, err
	}

	if ctx.NArg() < 1 {
		return "", "", fmt.Errorf("no program given, see %s --help", ctx.App.Name)
	}

	file := ctx.Args().First()
	src, err := os.ReadFile(file)
	if err != nil {
		return "", "", err
	}

	return file, string(src), nil
}

func loadProgram(ctx *cli.Context) (string, program.Program, error) {
	name, src, err := source(ctx)
	if err != nil {
		return "", nil, err
	}

	p, err := parseNamed(name, src)

	return name, p, err
}

// parseNamed parses src and prefixes errors with name and the line and
// column of the offending bracket.
func parseNamed(name, src string) (program.Program, error) {
	p, err := program.Parse(src)
	if err == nil {
		return p, nil
	}

	var perr *program.ParseError
	if errors.As(err, &perr) {
		line, col := program.Position(src, perr.Offset)
		return nil, fmt.Errorf("%s:%d:%d: %w", name, line, col, err)
	}

	return nil, fmt.Errorf("%s: %w", name, err)
}
