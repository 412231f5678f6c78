package judge

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

const (
	maxCapturedBytes = 1 << 20 // per stream
	pipeDrainDelay   = time.Second
)

type process struct {
	pythonBin string
	dir       string
	args      []string // after the interpreter
	stdin     []byte
	// open fd 3 in the child and capture what is written to it
	resultChannel bool
}

type processOutput struct {
	stdout   string
	stderr   string
	result   string
	elapsed  time.Duration
	timedOut bool
}

// run starts the interpreter in its own process group and waits for it,
// killing the whole group once timeout elapses. A timeout is reported
// through processOutput.timedOut; the returned error is reserved for
// faults such as a missing interpreter or a cancelled parent context.
func (p process) run(ctx context.Context, timeout time.Duration) (processOutput, error) {
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, p.pythonBin, p.args...)
	cmd.Dir = p.dir
	cmd.Env = sandboxEnv(p.dir)
	cmd.Stdin = bytes.NewReader(p.stdin)
	cmd.WaitDelay = pipeDrainDelay
	configureProcessGroup(cmd)

	stdout := &cappedBuffer{limit: maxCapturedBytes}
	stderr := &cappedBuffer{limit: maxCapturedBytes}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	var resultR, resultW *os.File
	if p.resultChannel {
		r, w, err := os.Pipe()
		if err != nil {
			return processOutput{}, fmt.Errorf("failed to create result pipe: %w", err)
		}
		defer r.Close()
		resultR, resultW = r, w
		cmd.ExtraFiles = []*os.File{w}
	}

	start := time.Now()
	err := cmd.Start()
	if resultW != nil {
		// the child holds its own copy of the write end
		resultW.Close()
	}
	if err != nil {
		return processOutput{}, fmt.Errorf("failed to start %s: %w", p.pythonBin, err)
	}

	resultCh := make(chan string, 1)
	if resultR != nil {
		go func() {
			// keep reading past the cap, a blocked writer would look like a timeout
			result := &cappedBuffer{limit: maxCapturedBytes}
			io.Copy(result, resultR)
			resultCh <- result.String()
		}()
	} else {
		resultCh <- ""
	}

	waitErr := cmd.Wait()
	elapsed := time.Since(start)
	// leftovers the child started in its group
	killProcessGroup(cmd)

	if resultR != nil {
		// a detached grandchild may still hold the pipe open
		resultR.SetReadDeadline(time.Now().Add(pipeDrainDelay))
	}
	result := <-resultCh

	if ctx.Err() != nil {
		return processOutput{}, fmt.Errorf("execution aborted: %w", ctx.Err())
	}

	out := processOutput{
		stdout:  stdout.String(),
		stderr:  stderr.String(),
		result:  result,
		elapsed: elapsed,
	}
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		out.timedOut = true
		return out, nil
	}

	// a non-zero exit is a normal outcome, its traceback is on stderr
	var exitErr *exec.ExitError
	switch {
	case waitErr == nil, errors.Is(waitErr, exec.ErrWaitDelay), errors.As(waitErr, &exitErr):
	default:
		return processOutput{}, fmt.Errorf("failed to wait for %s: %w", p.pythonBin, waitErr)
	}
	return out, nil
}

// sandboxEnv gives the child a minimal environment so nothing from the
// server's own environment (secrets included) leaks into candidate code.
func sandboxEnv(dir string) []string {
	return []string{
		"PATH=" + os.Getenv("PATH"),
		"HOME=" + dir,
		"TMPDIR=" + dir,
		"LANG=C.UTF-8",
		"PYTHONIOENCODING=utf-8",
		"PYTHONDONTWRITEBYTECODE=1",
		"PYTHONHASHSEED=0",
	}
}

// workspace creates a fresh directory holding the given files.
func workspace(files map[string][]byte) (string, error) {
	dir, err := os.MkdirTemp("", "dsalearn-run-*")
	if err != nil {
		return "", fmt.Errorf("failed to create workspace: %w", err)
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), body, 0o600); err != nil {
			os.RemoveAll(dir)
			return "", fmt.Errorf("failed to write %s: %w", name, err)
		}
	}
	return dir, nil
}

// cappedBuffer keeps the first limit bytes and silently drops the rest,
// so a runaway print loop cannot exhaust server memory.
type cappedBuffer struct {
	buf       bytes.Buffer
	limit     int
	truncated bool
}

func (c *cappedBuffer) Write(p []byte) (int, error) {
	room := c.limit - c.buf.Len()
	if room <= 0 {
		c.truncated = true
		return len(p), nil
	}
	if len(p) > room {
		c.buf.Write(p[:room])
		c.truncated = true
		return len(p), nil
	}
	return c.buf.Write(p)
}

func (c *cappedBuffer) String() string {
	if c.truncated {
		return c.buf.String() + "\n[output truncated]"
	}
	return c.buf.String()
}
