package main

import (
	"log"
	"os"

	"github.com/sarchlab/bfasm/core"
	"github.com/sarchlab/bfasm/program"
	"github.com/sarchlab/bfasm/samples"
	"github.com/sarchlab/bfasm/verify"
)

// main runs lint and the cross check on every embedded sample
func main() {
	input := os.Getenv("BFASM_SAMPLE_INPUT")
	if input == "" {
		input = "Hello, World!"
	}

	failed := 0

	for _, name := range samples.Names() {
		src, err := samples.Get(name)
		if err != nil {
			log.Fatal(err)
		}

		p, err := program.Parse(src)
		if err != nil {
			log.Fatalf("Failed to parse sample %s: %v", name, err)
		}

		report := verify.GenerateReport(name, p, verify.CheckConfig{
			TapeSize: core.DefaultTapeSize,
			Input:    []byte(input),
		})
		report.WriteReport(os.Stdout)

		if !report.OK() {
			failed++
		}
	}

	if failed > 0 {
		log.Fatalf("Sample verification failed for %d programs", failed)
	}
}
