package builder

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNeedsRebuild(t *testing.T) {
	base := time.Now().Add(-time.Hour).Truncate(time.Second)

	tests := []struct {
		name    string
		objTime *time.Time
		want    bool
	}{
		{name: "missing object", objTime: nil, want: true},
		{name: "object older", objTime: ptr(base.Add(-time.Second)), want: true},
		{name: "equal timestamps", objTime: ptr(base), want: false},
		{name: "object newer", objTime: ptr(base.Add(time.Second)), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestProject(t, "main.cpp")
			src := p.src("main.cpp")
			touch(t, src, base)

			obj := p.obj("main.o")
			if tt.objTime != nil {
				require.NoError(t, os.MkdirAll(p.obj(""), 0o755))
				require.NoError(t, os.WriteFile(obj, nil, 0o644))
				touch(t, obj, *tt.objTime)
			}

			got, err := NeedsRebuild(src, obj)

			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestNeedsRebuildMissingSource(t *testing.T) {
	p := newTestProject(t)
	require.NoError(t, os.MkdirAll(p.obj(""), 0o755))
	require.NoError(t, os.WriteFile(p.obj("gone.o"), nil, 0o644))

	_, err := NeedsRebuild(p.src("gone.cpp"), p.obj("gone.o"))

	require.ErrorIs(t, err, os.ErrNotExist)
}

func ptr[T any](v T) *T { return &v }
