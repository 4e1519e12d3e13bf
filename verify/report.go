package verify

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/sarchlab/bfasm/program"
)

var (
	okMark   = color.New(color.FgGreen).Sprint("✓")
	warnMark = color.New(color.FgYellow).Sprint("⚠")
	failMark = color.New(color.FgRed, color.Bold).Sprint("✗")
)

// VerificationReport represents a complete verification report
type VerificationReport struct {
	Name       string
	Stats      program.Stats
	LintIssues []Issue
	Severe     []Issue
	Check      *CrossCheckResult
}

// GenerateReport runs both lint and the cross check, returns a report
func GenerateReport(name string, p program.Program, cfg CheckConfig) *VerificationReport {
	report := &VerificationReport{
		Name:  name,
		Stats: p.Stats(),
	}

	report.LintIssues = RunLint(p, cfg.TapeSize)
	for _, issue := range report.LintIssues {
		if issue.Severe() {
			report.Severe = append(report.Severe, issue)
		}
	}

	report.Check = CrossCheck(p, cfg)

	return report
}

// OK reports whether the program passed every check.
func (r *VerificationReport) OK() bool {
	return len(r.Severe) == 0 && r.Check != nil && r.Check.Err == nil
}

// WriteReport writes a formatted report to a writer
func (r *VerificationReport) WriteReport(w io.Writer) {
	separator := strings.Repeat("=", 60)

	fmt.Fprintln(w, separator)
	fmt.Fprintf(w, "VERIFICATION REPORT: %s\n", r.Name)
	fmt.Fprintln(w, separator)

	stats := table.NewWriter()
	stats.SetOutputMirror(w)
	stats.AppendHeader(table.Row{"Instructions", "<>", "+-", ".", ",", "Loops", "Depth"})
	stats.AppendRow(table.Row{
		r.Stats.Instructions,
		r.Stats.PointerShift,
		r.Stats.ValueShift,
		r.Stats.Output,
		r.Stats.Input,
		r.Stats.Loops,
		r.Stats.MaxDepth,
	})
	stats.Render()

	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "STAGE 1: STATIC LINT CHECKS")
	fmt.Fprintln(w, separator)

	if len(r.LintIssues) == 0 {
		fmt.Fprintf(w, "%s No lint issues found!\n", okMark)
	} else {
		fmt.Fprintf(w, "%s Found %d lint issues (%d severe):\n",
			warnMark, len(r.LintIssues), len(r.Severe))

		issues := table.NewWriter()
		issues.SetOutputMirror(w)
		issues.AppendHeader(table.Row{"Type", "Location", "Severe", "Message"})
		for _, issue := range r.LintIssues {
			severe := ""
			if issue.Severe() {
				severe = "yes"
			}
			issues.AppendRow(table.Row{issue.Type, issue.Location(), severe, issue.Message})
		}
		issues.Render()
	}

	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "STAGE 2: CROSS CHECK")
	fmt.Fprintln(w, separator)

	switch {
	case r.Check == nil:
		fmt.Fprintf(w, "%s Cross check skipped\n", warnMark)
	case r.Check.Err == nil:
		fmt.Fprintf(w, "%s Core and machine agree\n", okMark)
	default:
		fmt.Fprintf(w, "%s %v\n", failMark, r.Check.Err)
	}

	if r.Check != nil {
		fmt.Fprintf(w, "Cycles: %d  Steps: %d  Time: %.0f ns  Output: %d bytes\n",
			r.Check.Stats.Cycles, r.Check.Stats.Steps, r.Check.Stats.TimeNS, len(r.Check.Output))
	}

	fmt.Fprintln(w, "\n"+separator)
	if r.OK() {
		fmt.Fprintf(w, "%s PROGRAM PASSED ALL CHECKS\n", okMark)
	} else {
		fmt.Fprintf(w, "%s PROGRAM FAILED\n", failMark)
	}

	fmt.Fprintln(w)
}

// SaveReportToFile saves the report to a file
func (r *VerificationReport) SaveReportToFile(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	r.WriteReport(file)
	return nil
}
