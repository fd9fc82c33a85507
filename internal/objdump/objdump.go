// Package objdump runs the external GNU objdump and streams its listing.
package objdump

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// DefaultArgs disassemble executable sections without the raw byte column.
var DefaultArgs = []string{"-d", "--no-show-raw-insn"}

// ErrNotFound is returned when the objdump executable cannot be resolved.
var ErrNotFound = errors.New("objdump not found")

// lookPath and execCommandContext are replaced in tests.
var (
	lookPath           = exec.LookPath
	execCommandContext = exec.CommandContext
)

// Runner invokes objdump on one binary at a time.
type Runner struct {
	Path string
	Args []string
}

// New returns a runner for path. An empty path falls back to
// $SIMDSCAN_OBJDUMP and then to "objdump" on PATH.
func New(path string) *Runner {
	if path == "" {
		path = os.Getenv("SIMDSCAN_OBJDUMP")
	}
	if path == "" {
		path = "objdump"
	}
	return &Runner{Path: path, Args: DefaultArgs}
}

// Available reports whether the executable resolves.
func (r *Runner) Available() bool {
	_, err := lookPath(r.Path)
	return err == nil
}

// Disassemble runs objdump on binary and hands its stdout to consume. The
// process is killed if ctx is cancelled. A non-zero exit is reported with the
// tool's stderr.
func (r *Runner) Disassemble(ctx context.Context, binary string, consume func(io.Reader) error) error {
	if _, err := os.Stat(binary); err != nil {
		return fmt.Errorf("binary file '%s' not found: %w", binary, err)
	}
	tool, err := lookPath(r.Path)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrNotFound, r.Path, err)
	}

	args := append(append([]string{}, r.Args...), binary)
	cmd := execCommandContext(ctx, tool, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("objdump stdout: %w", err)
	}

	slog.Debug("Running objdump", "cmd", cmd.String())
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start objdump: %w", err)
	}

	consumeErr := consume(stdout)
	if consumeErr != nil {
		// Drain so the process is not blocked on a full pipe.
		_, _ = io.Copy(io.Discard, stdout)
	}
	waitErr := cmd.Wait()

	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if waitErr != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = waitErr.Error()
		}
		return fmt.Errorf("objdump failed: %s: %w", msg, waitErr)
	}
	if consumeErr != nil {
		return fmt.Errorf("read objdump output: %w", consumeErr)
	}
	return nil
}
