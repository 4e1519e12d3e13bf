package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/sarchlab/bfasm/api"
	"github.com/sarchlab/bfasm/config"
	"github.com/sarchlab/bfasm/core"
	"github.com/sarchlab/bfasm/program"
	"github.com/sarchlab/bfasm/verify"
)

var (
	freqFlag = &cli.Float64Flag{
		Name:    "freq",
		Aliases: []string{"f"},
		Usage:   "core frequency in GHz",
	}
	maxCyclesFlag = &cli.Uint64Flag{
		Name:  "max-cycles",
		Usage: "stop runs after `N` cycles, 0 for no limit",
	}
	inputFlag = &cli.StringFlag{
		Name:  "input",
		Usage: "feed the contents of `FILE` to the cross check",
	}
	reportFlag = &cli.StringFlag{
		Name:  "report",
		Usage: "also save each report to `DIR`/<name>.report",
	}
)

var commandLint = &cli.Command{
	Name:      "lint",
	Usage:     "lint programs and cross check the interpreter against the timed core",
	ArgsUsage: "<file>...",
	Flags: []cli.Flag{
		inputFlag,
		maxCyclesFlag,
		reportFlag,
	},
	Action: lint,
}

var commandTime = &cli.Command{
	Name:      "time",
	Usage:     "run a program on the cycle-counting core",
	ArgsUsage: "<file>",
	Flags: []cli.Flag{
		freqFlag,
		maxCyclesFlag,
	},
	Action: timeProgram,
}

var commandFmt = &cli.Command{
	Name:      "fmt",
	Usage:     "print a program as minimal folded source",
	ArgsUsage: "<file>",
	Action: func(ctx *cli.Context) error {
		_, p, err := loadProgram(ctx)
		if err != nil {
			return err
		}

		fmt.Fprintln(stdout, p.String())

		return nil
	},
}

var commandDumpConfig = &cli.Command{
	Name:  "dumpconfig",
	Usage: "print the effective configuration as TOML",
	Action: func(ctx *cli.Context) error {
		return config.Dump(stdout, current)
	},
}

func newDriver(cfg config.Config) api.Driver {
	return api.DriverBuilder{}.
		WithConfig(cfg).
		WithInput(core.InputFunc(func() (byte, error) {
			// Prompts must be visible before the program blocks on input.
			if err := stdout.Flush(); err != nil {
				return 0, err
			}

			return stdin.ReadByte()
		})).
		WithOutput(stdout).
		Build("Driver")
}

func runOrCompile(ctx *cli.Context) error {
	cfg := current

	name, p, err := loadProgram(ctx)
	if err != nil {
		return err
	}

	driver := newDriver(cfg)

	if cfg.Output != "" {
		return compile(driver, p, cfg.Output)
	}

	runCtx, stop := signal.NotifyContext(ctx.Context, os.Interrupt)
	defer stop()

	err = driver.Interpret(runCtx, p)

	if window := ctx.Int(dumpFlag.Name); window >= 0 {
		stdout.Flush()
		driver.DumpState(os.Stderr, window)
	}

	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	return nil
}

func compile(driver api.Driver, p program.Program, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(f)
	if err := driver.Compile(p, w); err != nil {
		f.Close()
		return err
	}

	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

func timeProgram(ctx *cli.Context) error {
	cfg := current

	if ctx.IsSet(freqFlag.Name) {
		cfg.Timing.FreqGHz = ctx.Float64(freqFlag.Name)
	}

	if ctx.IsSet(maxCyclesFlag.Name) {
		cfg.Timing.MaxCycles = ctx.Uint64(maxCyclesFlag.Name)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	name, p, err := loadProgram(ctx)
	if err != nil {
		return err
	}

	stats, err := newDriver(cfg).Time(p)
	stdout.Flush()

	t := table.NewWriter()
	t.SetOutputMirror(os.Stderr)
	t.SetTitle(name)
	t.AppendHeader(table.Row{"Cycles", "Steps", "Freq", "Time (ns)"})
	t.AppendRow(table.Row{
		stats.Cycles,
		stats.Steps,
		fmt.Sprintf("%g GHz", cfg.Timing.FreqGHz),
		fmt.Sprintf("%.1f", stats.TimeNS),
	})
	t.Render()

	return err
}

type lintJob struct {
	name   string
	report *verify.VerificationReport
	text   bytes.Buffer
}

func lint(ctx *cli.Context) error {
	cfg := current

	if ctx.IsSet(maxCyclesFlag.Name) {
		cfg.Timing.MaxCycles = ctx.Uint64(maxCyclesFlag.Name)
	}

	var input []byte
	if file := ctx.String(inputFlag.Name); file != "" {
		var err error
		if input, err = os.ReadFile(file); err != nil {
			return err
		}
	}

	files := ctx.Args().Slice()
	if ctx.String(sampleFlag.Name) != "" {
		files = nil
	}

	jobs, err := lintAll(ctx, cfg, files, input)
	if err != nil {
		return err
	}

	failed := 0
	for _, job := range jobs {
		stdout.Write(job.text.Bytes())

		if dir := ctx.String(reportFlag.Name); dir != "" {
			path := filepath.Join(dir, filepath.Base(job.name)+".report")
			if err := job.report.SaveReportToFile(path); err != nil {
				return err
			}
		}

		if !job.report.OK() {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d programs failed", failed, len(jobs))
	}

	return nil
}

// lintAll verifies files concurrently. Without files it verifies the
// program selected by --sample.
func lintAll(
	ctx *cli.Context,
	cfg config.Config,
	files []string,
	input []byte,
) ([]*lintJob, error) {
	if len(files) == 0 {
		name, p, err := loadProgram(ctx)
		if err != nil {
			return nil, err
		}

		job := &lintJob{name: name}
		job.report = newDriver(cfg).Verify(name, p, input)
		job.report.WriteReport(&job.text)

		return []*lintJob{job}, nil
	}

	jobs := make([]*lintJob, len(files))

	g, gctx := errgroup.WithContext(ctx.Context)
	g.SetLimit(runtime.NumCPU())

	for i, file := range files {
		jobs[i] = &lintJob{name: file}
		job := jobs[i]
		driverName := fmt.Sprintf("Lint[%d]", i)

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			src, err := os.ReadFile(job.name)
			if err != nil {
				return err
			}

			p, err := parseNamed(job.name, string(src))
			if err != nil {
				return err
			}

			job.report = api.DriverBuilder{}.
				WithConfig(cfg).
				Build(driverName).
				Verify(job.name, p, input)
			job.report.WriteReport(&job.text)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("lint interrupted: %w", err)
		}

		return nil, err
	}

	return jobs, nil
}
