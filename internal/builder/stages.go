package builder

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/qobs-build/qbuild/internal/msg"
)

// compile translates a single source into its object file
func (b *Builder) compile(ctx context.Context, step, src, obj string) error {
	if err := os.MkdirAll(filepath.Dir(obj), 0o755); err != nil {
		return fmt.Errorf("failed to create object directory: %w", err)
	}

	msg.Status("Compiling", "%s %s -> %s", step, src, obj)
	if err := b.tc.Compile(ctx, src, obj); err != nil {
		// a partial object would be newer than its source and pass as up to date
		if rmErr := os.Remove(obj); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			msg.Warn("could not remove partial object %s: %v", obj, rmErr)
		}
		return fmt.Errorf("%w: %s: %w", ErrCompileFailure, src, err)
	}
	return nil
}

// link produces the executable from every object, fresh or reused
func (b *Builder) link(ctx context.Context, objs []string, out string) error {
	if len(objs) == 0 {
		return ErrNothingToLink
	}

	msg.Status("Linking", "%d object files -> %s", len(objs), out)
	if err := b.tc.Link(ctx, objs, out); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrLinkFailure, out, err)
	}
	return nil
}
