package toolchain

import (
	"errors"
	"os"
	"os/exec"
)

var ErrNoCompiler = errors.New("no C++ compiler found (set CXX or install one of clang++, g++)")

var commonCxxCompilers = []string{"clang++", "g++", "c++", "icpx", "icpc"}

// FindCompiler returns the compiler to use: CXX, then CC, then the first
// common C++ compiler found on PATH
func FindCompiler() (string, error) {
	if cxx := os.Getenv("CXX"); cxx != "" {
		return cxx, nil
	}
	if cc := os.Getenv("CC"); cc != "" {
		return cc, nil
	}

	for _, compiler := range commonCxxCompilers {
		path, err := exec.LookPath(compiler)
		if err == nil {
			return path, nil
		}
	}

	return "", ErrNoCompiler
}
