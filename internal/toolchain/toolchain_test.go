package toolchain

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeCompiler writes an executable shell script standing in for a compiler
func fakeCompiler(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script compilers need a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "fakecc")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func newTestCC(compiler string, timeout time.Duration) (*CC, *bytes.Buffer) {
	var out bytes.Buffer
	cc := NewCC(compiler, timeout)
	cc.Stdout = &out
	cc.Stderr = &out
	return cc, &out
}

func TestCompilePassesSourceAndObject(t *testing.T) {
	cc, out := newTestCC(fakeCompiler(t, `echo "$@"`), 0)

	err := cc.Compile(context.Background(), "src/main.cpp", "build/objs/src_main.o")

	require.NoError(t, err)
	require.Equal(t, "    -c src/main.cpp -o build/objs/src_main.o\n", out.String())
}

func TestLinkPassesObjectsInOrder(t *testing.T) {
	cc, out := newTestCC(fakeCompiler(t, `echo "$@"`), 0)

	err := cc.Link(context.Background(), []string{"a.o", "b.o", "c.o"}, "app.out")

	require.NoError(t, err)
	require.Equal(t, "    a.o b.o c.o -o app.out\n", out.String())
}

func TestNonZeroExitIsAnError(t *testing.T) {
	cc, _ := newTestCC(fakeCompiler(t, `echo "boom" >&2; exit 3`), 0)

	err := cc.Compile(context.Background(), "main.cpp", "main.o")

	require.Error(t, err)
	require.NotErrorIs(t, err, ErrToolchainTimeout)
}

func TestTimeoutKillsHungTool(t *testing.T) {
	cc, _ := newTestCC(fakeCompiler(t, `exec sleep 10`), 100*time.Millisecond)

	start := time.Now()
	err := cc.Compile(context.Background(), "main.cpp", "main.o")

	require.ErrorIs(t, err, ErrToolchainTimeout)
	require.Less(t, time.Since(start), 5*time.Second)
}

func TestCancelledContext(t *testing.T) {
	cc, _ := newTestCC(fakeCompiler(t, `exit 0`), 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := cc.Link(ctx, []string{"a.o"}, "app.out")

	require.ErrorIs(t, err, context.Canceled)
}

func TestFindCompilerPrefersEnvironment(t *testing.T) {
	t.Setenv("CXX", "my-c++")
	t.Setenv("CC", "my-cc")
	cc, err := FindCompiler()
	require.NoError(t, err)
	require.Equal(t, "my-c++", cc)

	t.Setenv("CXX", "")
	cc, err = FindCompiler()
	require.NoError(t, err)
	require.Equal(t, "my-cc", cc)
}

func TestFindCompilerWithEmptyPath(t *testing.T) {
	t.Setenv("CXX", "")
	t.Setenv("CC", "")
	t.Setenv("PATH", t.TempDir())

	_, err := FindCompiler()
	require.ErrorIs(t, err, ErrNoCompiler)
}
