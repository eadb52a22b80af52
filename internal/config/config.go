// Package config holds qbuild's tool settings: which compiler to drive,
// which file suffixes to use and where build output lives.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const (
	DefaultSourceSuffix     = ".cpp"
	DefaultObjectSuffix     = ".o"
	DefaultExecutableSuffix = ".out"
	DefaultOutputDir        = "build"
	DefaultObjDir           = "objs"
)

var errEmptySuffix = errors.New("source_suffix must not be empty")

// duration is a time.Duration written as a string such as "30s" or "2m"
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

type Config struct {
	// Compiler is used for both compiling and linking. Empty means autodetect.
	Compiler         string   `toml:"compiler"`
	SourceSuffix     string   `toml:"source_suffix"`
	ObjectSuffix     string   `toml:"object_suffix"`
	ExecutableSuffix string   `toml:"executable_suffix"`
	OutputDir        string   `toml:"output_dir"`
	Timeout          duration `toml:"timeout"`
	KeepGoing        bool     `toml:"keep_going"`
}

func Default() *Config {
	return &Config{
		SourceSuffix:     DefaultSourceSuffix,
		ObjectSuffix:     DefaultObjectSuffix,
		ExecutableSuffix: DefaultExecutableSuffix,
		OutputDir:        DefaultOutputDir,
	}
}

// ToolchainTimeout is the per-invocation limit for external tools, zero means none
func (c *Config) ToolchainTimeout() time.Duration { return c.Timeout.Duration }

func (c *Config) SetToolchainTimeout(d time.Duration) { c.Timeout.Duration = d }

// Parse reads TOML settings from rdr on top of the defaults
func Parse(rdr io.Reader) (*Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bufio.NewReader(rdr))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load parses the config at path. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.SourceSuffix == "" {
		return errEmptySuffix
	}
	if strings.ContainsAny(c.SourceSuffix, `*?[]{}\/`) {
		return fmt.Errorf("source_suffix %q contains pattern or path characters", c.SourceSuffix)
	}
	if strings.ContainsAny(c.ObjectSuffix, `\/`) || strings.ContainsAny(c.ExecutableSuffix, `\/`) {
		return errors.New("object_suffix and executable_suffix must not contain path separators")
	}
	if c.OutputDir == "" {
		return errors.New("output_dir must not be empty")
	}
	if c.Timeout.Duration < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout.Duration)
	}
	return nil
}

// String renders the effective settings as TOML
func (c *Config) String() string {
	b, err := toml.Marshal(c)
	if err != nil {
		return fmt.Sprintf("<invalid config: %v>", err)
	}
	return string(b)
}
