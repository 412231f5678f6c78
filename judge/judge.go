// Package judge executes candidate Python code, either free-form or
// against the hidden test cases of a practice problem.
package judge

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/programme-lv/dsalearn/content"
	"github.com/programme-lv/dsalearn/logger"
)

const (
	DefaultTimeout       = 5 * time.Second
	DefaultMaxCodeLength = 10000
	DefaultPythonBin     = "python3"
)

//go:embed harness.py
var harnessSrc []byte

type ProblemGetter interface {
	GetProblem(problemID string) (content.Problem, error)
}

type Params struct {
	PythonBin     string
	Timeout       time.Duration // wall clock, per execution
	MaxCodeLength int           // in characters
}

type Judge struct {
	problems      ProblemGetter
	pythonBin     string
	timeout       time.Duration
	maxCodeLength int
}

// NewJudge fills zero params with the defaults.
func NewJudge(problems ProblemGetter, params Params) *Judge {
	j := &Judge{
		problems:      problems,
		pythonBin:     params.PythonBin,
		timeout:       params.Timeout,
		maxCodeLength: params.MaxCodeLength,
	}
	if j.pythonBin == "" {
		j.pythonBin = DefaultPythonBin
	}
	if j.timeout <= 0 {
		j.timeout = DefaultTimeout
	}
	if j.maxCodeLength <= 0 {
		j.maxCodeLength = DefaultMaxCodeLength
	}
	return j
}

func (j *Judge) validateCode(code string) error {
	if code == "" {
		return ErrNoCode()
	}
	if n := utf8.RuneCountInString(code); n > j.maxCodeLength {
		return ErrCodeTooLong(n, j.maxCodeLength)
	}
	return nil
}

// RunSubmission judges code against every test case of the problem, one
// after another. Per-case timeouts and faults are recorded in the report
// and never stop the remaining cases; only invalid input, an unknown
// problem or a cancelled ctx fail the whole call.
func (j *Judge) RunSubmission(ctx context.Context, code string, problemID string) (SubmissionReport, error) {
	if err := j.validateCode(code); err != nil {
		return SubmissionReport{}, err
	}
	problem, err := j.problems.GetProblem(problemID)
	if err != nil {
		return SubmissionReport{}, err
	}

	submID, err := uuid.NewV7()
	if err != nil {
		return SubmissionReport{}, fmt.Errorf("failed to generate submission id: %w", err)
	}
	ctx = logger.WithSubmissionID(ctx, submID.String())
	log := logger.FromContext(ctx).With("problem_id", problem.ID)

	report := SubmissionReport{
		ID:        submID,
		ProblemID: problem.ID,
		Success:   true,
		AllPassed: true,
		Results:   make([]TestResult, 0, len(problem.TestCases)),
	}

	for i, tc := range problem.TestCases {
		res, err := j.runTestCase(ctx, code, problem, tc)
		if err != nil {
			if ctx.Err() != nil {
				return SubmissionReport{}, err
			}
			msg := err.Error()
			res = TestResult{
				Output:        "",
				Passed:        false,
				ExecutionTime: "0s",
				Error:         &msg,
				Fault:         true,
			}
		}
		res.TestCase = i + 1
		res.Input = tc.Input
		res.Expected = tc.Expected

		log.Debug("test case judged",
			"test_case", res.TestCase,
			"passed", res.Passed,
			"timed_out", res.TimedOut,
			"elapsed", res.Elapsed)

		if !res.Passed {
			report.AllPassed = false
		}
		if res.Fault || (res.Error != nil && !res.TimedOut) {
			report.Success = false
		}
		report.Results = append(report.Results, res)
	}

	log.Info("submission judged",
		"passed", report.PassedCount(),
		"total", len(report.Results),
		"all_passed", report.AllPassed)

	return report, nil
}

type invocation struct {
	Entry   string `json:"entry"`
	Args    string `json:"args"`
	InPlace bool   `json:"in_place"`
}

func (j *Judge) runTestCase(ctx context.Context, code string, problem content.Problem, tc content.TestCase) (TestResult, error) {
	stdin, err := json.Marshal(invocation{
		Entry:   problem.EntryPoint,
		Args:    tc.Input,
		InPlace: problem.InPlace,
	})
	if err != nil {
		return TestResult{}, fmt.Errorf("failed to encode invocation: %w", err)
	}

	dir, err := workspace(map[string][]byte{
		"solution.py": []byte(code),
		"harness.py":  harnessSrc,
	})
	if err != nil {
		return TestResult{}, err
	}
	defer os.RemoveAll(dir)

	out, err := process{
		pythonBin:     j.pythonBin,
		dir:           dir,
		args:          []string{"-I", "harness.py"},
		stdin:         stdin,
		resultChannel: true,
	}.run(ctx, j.timeout)
	if err != nil {
		return TestResult{}, err
	}

	if out.timedOut {
		msg := TimeLimitExceededMsg
		return TestResult{
			Output:        "",
			Passed:        false,
			Elapsed:       out.elapsed,
			ExecutionTime: formatTimeout(j.timeout),
			Error:         &msg,
			TimedOut:      true,
		}, nil
	}

	output := strings.TrimSpace(out.result)
	res := TestResult{
		Output:        output,
		Stdout:        out.stdout,
		Passed:        outputMatches(output, tc.Expected),
		Elapsed:       out.elapsed,
		ExecutionTime: formatElapsed(out.elapsed),
	}
	if out.stderr != "" {
		stderr := out.stderr
		res.Error = &stderr
	}
	return res, nil
}

// RunRaw executes code as a standalone script without any comparison.
// A timeout is returned as a time_limit_exceeded error.
func (j *Judge) RunRaw(ctx context.Context, code string) (ExecutionResult, error) {
	if err := j.validateCode(code); err != nil {
		return ExecutionResult{}, err
	}

	dir, err := workspace(map[string][]byte{"main.py": []byte(code)})
	if err != nil {
		return ExecutionResult{}, ErrExecutionFault(err)
	}
	defer os.RemoveAll(dir)

	out, err := process{
		pythonBin: j.pythonBin,
		dir:       dir,
		args:      []string{"-I", "main.py"},
	}.run(ctx, j.timeout)
	if err != nil {
		return ExecutionResult{}, ErrExecutionFault(err)
	}
	if out.timedOut {
		logger.FromContext(ctx).Debug("raw run timed out", "timeout", j.timeout)
		return ExecutionResult{}, ErrTimeLimitExceeded()
	}

	return ExecutionResult{
		Stdout:  out.stdout,
		Stderr:  out.stderr,
		Elapsed: out.elapsed,
	}, nil
}
