package builder

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/qobs-build/qbuild/internal/msg"
)

// NeedsRebuild reports whether obj is missing or strictly older than src.
// Headers included by src are not considered.
func NeedsRebuild(src, obj string) (bool, error) {
	objStat, err := os.Stat(obj)
	if errors.Is(err, fs.ErrNotExist) {
		msg.Debug("stale", "src", src, "reason", "object missing")
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("could not check status of %s: %w", obj, err)
	}

	srcStat, err := os.Stat(src)
	if err != nil {
		return false, fmt.Errorf("could not check status of %s: %w", src, err)
	}

	if objStat.ModTime().Before(srcStat.ModTime()) {
		msg.Debug("stale", "src", src, "reason", "source newer than object",
			"src_mtime", srcStat.ModTime(), "obj_mtime", objStat.ModTime())
		return true, nil
	}
	return false, nil
}
