// qbuild <project_dir> <output_name> run [args...]
package cmd

import (
	"context"
	"errors"
	"os/exec"

	"github.com/qobs-build/qbuild/internal/builder"
	"github.com/qobs-build/qbuild/internal/msg"
)

// doRun starts the freshly built target. A non-zero exit from the program is
// reported, not treated as a build failure.
func doRun(ctx context.Context, b *builder.Builder, target string, args []string) {
	err := b.Run(ctx, target, args)
	if err == nil {
		return
	}

	var exitErr *exec.ExitError
	switch {
	case errors.Is(err, builder.ErrExecutableNotFound):
		msg.Error("%v", err)
	case errors.As(err, &exitErr):
		msg.Warn("%s exited with status %d", target, exitErr.ExitCode())
	default:
		msg.Fatal("failed to run %s: %v", target, err)
	}
}
