package builder

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/qobs-build/qbuild/internal/config"
	"github.com/qobs-build/qbuild/internal/msg"
	"github.com/qobs-build/qbuild/internal/toolchain"
)

type Builder struct {
	cfg    *config.Config
	layout Layout
	mapper PathMapper
	tc     toolchain.Toolchain
}

func NewBuilder(cfg *config.Config, tc toolchain.Toolchain) *Builder {
	layout := NewLayout(cfg.OutputDir)
	return &Builder{
		cfg:    cfg,
		layout: layout,
		mapper: PathMapper{
			ObjDir:       layout.ObjDir,
			SourceSuffix: cfg.SourceSuffix,
			ObjectSuffix: cfg.ObjectSuffix,
		},
		tc: tc,
	}
}

func (b *Builder) Layout() Layout { return b.layout }

// TargetPath returns the executable path for an output name, e.g. `app` -> `app.out`
func (b *Builder) TargetPath(outputName string) string {
	return outputName + b.cfg.ExecutableSuffix
}

// Result describes what a build did
type Result struct {
	Sources   []string
	Artifacts []string // one per source, in source order
	Compiled  []string
	UpToDate  []string
	Target    string
}

// EnsureOutputDir creates the object directory, reporting whether it already existed
func (b *Builder) EnsureOutputDir() (bool, error) {
	if stat, err := os.Stat(b.layout.ObjDir); err == nil && stat.IsDir() {
		msg.Status("Found", "build directory %s", b.layout.ObjDir)
		return true, nil
	}
	if err := os.MkdirAll(b.layout.ObjDir, 0o755); err != nil {
		return false, err
	}
	msg.Status("Created", "build directory %s", b.layout.ObjDir)
	return false, nil
}

// Clean removes the whole output tree. Nothing to remove is not an error.
func (b *Builder) Clean() (bool, error) {
	if _, err := os.Lstat(b.layout.Root); errors.Is(err, fs.ErrNotExist) {
		msg.Info("no build directory to clean")
		return false, nil
	}
	if err := os.RemoveAll(b.layout.Root); err != nil {
		return false, err
	}
	msg.Status("Cleaned", "%s", b.layout.Root)
	return true, nil
}

// Build compiles every stale source under projectDir and links all objects into
// the target for outputName. The first compile failure stops the build unless
// keep_going is set, in which case every stale source is attempted and the link
// is skipped.
func (b *Builder) Build(ctx context.Context, projectDir, outputName string) (*Result, error) {
	if err := ValidateRoot(projectDir); err != nil {
		return nil, err
	}

	sources, err := DiscoverSources(projectDir, b.cfg.SourceSuffix)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Sources:   sources,
		Artifacts: make([]string, 0, len(sources)),
		Target:    b.TargetPath(outputName),
	}

	progress := msg.NewProgress(len(sources))
	owners := make(map[string]string, len(sources))
	var failures []error

	for _, src := range sources {
		obj := b.mapper.Map(projectDir, src)
		if prev, ok := owners[obj]; ok {
			msg.Warn("%s and %s both map to %s", prev, src, obj)
		}
		owners[obj] = src
		res.Artifacts = append(res.Artifacts, obj)

		step := progress.Step()
		stale, err := NeedsRebuild(src, obj)
		if err != nil {
			return res, err
		}
		if !stale {
			msg.Status("Up-to-date", "%s %s", step, src)
			res.UpToDate = append(res.UpToDate, src)
			continue
		}

		if err := b.compile(ctx, step, src, obj); err != nil {
			if !b.cfg.KeepGoing || ctx.Err() != nil {
				return res, err
			}
			msg.Error("%v", err)
			failures = append(failures, err)
			continue
		}
		res.Compiled = append(res.Compiled, src)
	}

	if len(failures) > 0 {
		return res, fmt.Errorf("%d of %d sources failed to compile, not linking: %w",
			len(failures), len(sources), errors.Join(failures...))
	}

	if err := b.link(ctx, res.Artifacts, res.Target); err != nil {
		return res, err
	}

	msg.Status("Finished", "%s (%d compiled, %d up-to-date) in %s",
		res.Target, len(res.Compiled), len(res.UpToDate), progress.Elapsed())
	return res, nil
}

// Run executes a built target with the terminal's stdio attached
func (b *Builder) Run(ctx context.Context, target string, args []string) error {
	path, err := filepath.Abs(target)
	if err != nil {
		return err
	}
	if stat, err := os.Stat(path); err != nil || stat.IsDir() {
		return fmt.Errorf("%w: %s", ErrExecutableNotFound, target)
	}

	msg.Status("Running", "%s", target)
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	return cmd.Run()
}
