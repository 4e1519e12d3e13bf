package main

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/bfasm/api"
	"github.com/sarchlab/bfasm/core"
	"github.com/sarchlab/bfasm/program"
)

//go:embed passthrough.b
var passThroughKernel string

func passThrough(driver api.Driver, out *strings.Builder) {
	p := program.MustParse(passThroughKernel)

	stats, err := driver.Time(p)
	if err != nil {
		panic(err)
	}

	fmt.Println(out.String())
	fmt.Printf("%d cycles, %d steps\n", stats.Cycles, stats.Steps)
}

func main() {
	engine := sim.NewSerialEngine()
	out := &strings.Builder{}

	driver := api.DriverBuilder{}.
		WithEngine(engine).
		WithFreq(1 * sim.GHz).
		WithTapeSize(16).
		WithEOFPolicy(core.EOFZero).
		WithInput(strings.NewReader("0123456789abcdef")).
		WithOutput(core.OutputFunc(out.WriteByte)).
		Build("Driver")

	passThrough(driver, out)

	atexit.Exit(0)
}
