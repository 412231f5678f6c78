package judge

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const TimeLimitExceededMsg = "Time Limit Exceeded"

// ExecutionResult is the outcome of a free-form run.
type ExecutionResult struct {
	Stdout  string
	Stderr  string
	Elapsed time.Duration
}

func (r ExecutionResult) ExecutionTime() string {
	return formatElapsed(r.Elapsed)
}

// TestResult is the verdict for one test case.
type TestResult struct {
	TestCase int // 1-based
	Input    string
	Expected string
	Output   string // trimmed value written to the result channel
	Stdout   string // what the candidate printed on its own
	Passed   bool

	Elapsed       time.Duration
	ExecutionTime string // "0.123s", ">5s" on timeout, "0s" on fault

	Error    *string // stderr, timeout marker or fault description
	TimedOut bool
	Fault    bool
}

type SubmissionReport struct {
	ID        uuid.UUID
	ProblemID string
	// no test case wrote to stderr or hit an execution fault
	Success   bool
	AllPassed bool
	Results   []TestResult
}

func (r SubmissionReport) PassedCount() int {
	n := 0
	for _, res := range r.Results {
		if res.Passed {
			n++
		}
	}
	return n
}

func formatElapsed(d time.Duration) string {
	return fmt.Sprintf("%.3fs", d.Seconds())
}

func formatTimeout(timeout time.Duration) string {
	return fmt.Sprintf(">%gs", timeout.Seconds())
}
