// Command bfasm runs tape programs or compiles them to AArch64 assembly.
//
//	bfasm hello.b              run hello.b
//	bfasm -c hello.s hello.b   write the assembly of hello.b to hello.s
//	bfasm lint *.b             lint and cross check files
//	bfasm time hello.b         count the cycles of the generated code
package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/tebeka/atexit"
	"github.com/urfave/cli/v2"
)

var (
	stdout = bufio.NewWriter(os.Stdout)
	stdin  = bufio.NewReader(os.Stdin)
)

var app = &cli.App{
	Name:      "bfasm",
	Usage:     "run tape programs or compile them to AArch64 assembly",
	ArgsUsage: "<file>",
	Flags: []cli.Flag{
		compileFlag,
		memoryFlag,
		eofFlag,
		configFlag,
		verbosityFlag,
		logFileFlag,
		sampleFlag,
		dumpFlag,
	},
	Before: setup,
	Action: runOrCompile,
	Commands: []*cli.Command{
		commandLint,
		commandTime,
		commandFmt,
		commandDumpConfig,
	},
}

func main() {
	atexit.Register(func() {
		stdout.Flush()
	})

	if err := app.Run(os.Args); err != nil {
		fatal(err)
	}

	atexit.Exit(0)
}

func fatal(err error) {
	stdout.Flush()
	fmt.Fprintf(os.Stderr, "%s %v\n", color.New(color.FgRed, color.Bold).Sprint("error:"), err)
	atexit.Exit(1)
}
