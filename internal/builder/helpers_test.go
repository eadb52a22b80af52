package builder

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/qobs-build/qbuild/internal/config"
	"github.com/qobs-build/qbuild/internal/msg"
	"github.com/stretchr/testify/require"
)

var errFakeCompile = errors.New("exit status 1")

// fakeToolchain records invocations and writes placeholder outputs
type fakeToolchain struct {
	compiled []string
	links    [][]string
	failOn   map[string]bool
	failLink bool
	// partial writes the object before a failing compile returns
	partial bool
}

func (f *fakeToolchain) Compile(ctx context.Context, src, obj string) error {
	f.compiled = append(f.compiled, filepath.Base(src))
	if f.failOn[filepath.Base(src)] {
		if f.partial {
			os.WriteFile(obj, []byte("partial"), 0o644)
		}
		return errFakeCompile
	}
	return os.WriteFile(obj, []byte("obj:"+src), 0o644)
}

func (f *fakeToolchain) Link(ctx context.Context, objs []string, out string) error {
	f.links = append(f.links, objs)
	if f.failLink {
		return errors.New("undefined reference to `main'")
	}
	return os.WriteFile(out, []byte("#!/bin/sh\n"), 0o755)
}

// testProject lays out files under a temp dir, all with an mtime in the past
type testProject struct {
	dir    string
	srcDir string
	cfg    *config.Config
	tc     *fakeToolchain
}

func newTestProject(t *testing.T, files ...string) *testProject {
	t.Helper()
	quiet(t)
	dir := t.TempDir()
	p := &testProject{
		dir:    dir,
		srcDir: filepath.Join(dir, "project"),
		cfg:    config.Default(),
		tc:     &fakeToolchain{failOn: map[string]bool{}},
	}
	p.cfg.OutputDir = filepath.Join(dir, "build")
	require.NoError(t, os.MkdirAll(p.srcDir, 0o755))

	past := time.Now().Add(-2 * time.Hour)
	for _, f := range files {
		path := filepath.Join(p.srcDir, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("int x;\n"), 0o644))
		require.NoError(t, os.Chtimes(path, past, past))
	}
	return p
}

func (p *testProject) builder() *Builder {
	return NewBuilder(p.cfg, p.tc)
}

func (p *testProject) output() string {
	return filepath.Join(p.dir, "out")
}

func (p *testProject) src(rel string) string {
	return filepath.Join(p.srcDir, filepath.FromSlash(rel))
}

func (p *testProject) obj(name string) string {
	return filepath.Join(p.dir, "build", "objs", name)
}

// touch sets a file's mtime to t
func touch(t *testing.T, path string, at time.Time) {
	t.Helper()
	require.NoError(t, os.Chtimes(path, at, at))
}

// quiet discards status output for the duration of the test
func quiet(t *testing.T) {
	t.Helper()
	oldOut, oldErr := msg.Stdout, msg.Stderr
	msg.Stdout, msg.Stderr = io.Discard, io.Discard
	t.Cleanup(func() { msg.Stdout, msg.Stderr = oldOut, oldErr })
}
