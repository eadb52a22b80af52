// Package toolchain drives the external compiler and linker as blocking
// processes.
package toolchain

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/qobs-build/qbuild/internal/msg"
)

var ErrToolchainTimeout = errors.New("toolchain timed out")

// waitDelay bounds how long a killed tool may keep its output pipes open
const waitDelay = 2 * time.Second

// Toolchain translates one source into one object, and links objects into an executable
type Toolchain interface {
	Compile(ctx context.Context, src, obj string) error
	Link(ctx context.Context, objs []string, out string) error
}

// CC is a gcc-compatible driver, used for both compiling and linking
type CC struct {
	Compiler string
	// Timeout applies to each invocation, zero disables it
	Timeout time.Duration
	Stdout  io.Writer
	Stderr  io.Writer
}

func NewCC(compiler string, timeout time.Duration) *CC {
	return &CC{
		Compiler: compiler,
		Timeout:  timeout,
		Stdout:   msg.Stdout,
		Stderr:   msg.Stderr,
	}
}

func (c *CC) Compile(ctx context.Context, src, obj string) error {
	return c.run(ctx, "-c", src, "-o", obj)
}

func (c *CC) Link(ctx context.Context, objs []string, out string) error {
	args := make([]string, 0, len(objs)+2)
	args = append(args, objs...)
	args = append(args, "-o", out)
	return c.run(ctx, args...)
}

func (c *CC) run(ctx context.Context, args ...string) error {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, c.Compiler, args...)
	cmd.Stdout = &msg.IndentWriter{Indent: "    ", W: c.Stdout}
	cmd.Stderr = &msg.IndentWriter{Indent: "    ", W: c.Stderr}
	cmd.WaitDelay = waitDelay

	msg.Debug("exec", "cmd", c.Compiler+" "+strings.Join(args, " "))
	err := cmd.Run()
	if err == nil {
		return nil
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s killed after %s", ErrToolchainTimeout, c.Compiler, c.Timeout)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return fmt.Errorf("%s: %w", c.Compiler, err)
}
