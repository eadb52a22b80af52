package builder

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/qobs-build/qbuild/internal/msg"
)

// ValidateRoot checks that the project root exists and is a directory
func ValidateRoot(root string) error {
	stat, err := os.Stat(root)
	if err != nil || !stat.IsDir() {
		return fmt.Errorf("%w: %s", ErrInvalidProjectRoot, root)
	}
	return nil
}

// DiscoverSources returns every regular file under root whose name ends with
// suffix. Symlinked directories are not descended into, and symlinks are only
// kept when they resolve to a regular file.
func DiscoverSources(root, suffix string) ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(root), "**/*"+suffix,
		doublestar.WithFilesOnly(),
		doublestar.WithNoFollow(),
		doublestar.WithFailOnIOErrors(),
	)
	if err != nil {
		return nil, fmt.Errorf("while globbing directory %s: %w", root, err)
	}

	sources := make([]string, 0, len(matches))
	for _, match := range matches {
		path := filepath.Join(root, filepath.FromSlash(match))
		stat, err := os.Stat(path)
		if err != nil || !stat.Mode().IsRegular() {
			msg.Debug("skipping", "path", path, "reason", "not a regular file")
			continue
		}
		sources = append(sources, path)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("%w in %s (looking for *%s)", ErrNoSourcesFound, root, suffix)
	}
	return sources, nil
}
