package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/programme-lv/dsalearn/judge"
)

var (
	passColor  = color.New(color.FgGreen, color.Bold)
	failColor  = color.New(color.FgRed, color.Bold)
	tleColor   = color.New(color.FgYellow, color.Bold)
	faintColor = color.New(color.Faint)
)

func verdict(res judge.TestResult) string {
	switch {
	case res.Passed:
		return passColor.Sprint("PASS ")
	case res.TimedOut:
		return tleColor.Sprint("TLE  ")
	case res.Fault:
		return failColor.Sprint("FAULT")
	default:
		return failColor.Sprint("FAIL ")
	}
}

func printReport(w io.Writer, report judge.SubmissionReport, total time.Duration) {
	faintColor.Fprintf(w, "submission %s\n", report.ID)
	for _, res := range report.Results {
		fmt.Fprintf(w, "test %d  %s  %s\n", res.TestCase, verdict(res), res.ExecutionTime)
		if res.Passed {
			continue
		}
		fmt.Fprintf(w, "    input:    %s\n", res.Input)
		fmt.Fprintf(w, "    expected: %s\n", res.Expected)
		fmt.Fprintf(w, "    output:   %s\n", res.Output)
		if res.Error != nil {
			fmt.Fprintf(w, "    error:    %s\n", indent(strings.TrimSpace(*res.Error), "              "))
		}
	}

	summary := fmt.Sprintf("passed %d/%d in %.3fs", report.PassedCount(), len(report.Results), total.Seconds())
	if report.AllPassed {
		passColor.Fprintln(w, summary)
	} else {
		failColor.Fprintln(w, summary)
	}
}

func indent(s, prefix string) string {
	return strings.ReplaceAll(s, "\n", "\n"+prefix)
}
