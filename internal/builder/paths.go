package builder

import (
	"path/filepath"
	"strings"

	"github.com/qobs-build/qbuild/internal/config"
)

// Layout is the on-disk build state: an output root with an object directory inside it
type Layout struct {
	Root   string
	ObjDir string
}

func NewLayout(outputDir string) Layout {
	return Layout{
		Root:   outputDir,
		ObjDir: filepath.Join(outputDir, config.DefaultObjDir),
	}
}

var separatorFlattener = strings.NewReplacer("/", "_", "\\", "_")

// PathMapper maps source files to object files in a single flat directory
type PathMapper struct {
	ObjDir       string
	SourceSuffix string
	ObjectSuffix string
}

// Map returns the object path for src, e.g. `<root>/lib/helper.cpp` -> `<objdir>/lib_helper.o`.
//
// Flattening is not injective: `a/b.cpp` and `a_b.cpp` both map to `a_b.o`.
func (m PathMapper) Map(root, src string) string {
	rel, err := filepath.Rel(root, src)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		rel = filepath.Base(src)
	}

	name := separatorFlattener.Replace(rel)
	name = strings.TrimSuffix(name, m.SourceSuffix)
	return filepath.Join(m.ObjDir, name+m.ObjectSuffix)
}
