// qbuild <project_dir> <output_name> [run]
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/qobs-build/qbuild/internal/builder"
	"github.com/qobs-build/qbuild/internal/config"
	"github.com/qobs-build/qbuild/internal/msg"
	"github.com/qobs-build/qbuild/internal/toolchain"
	"github.com/spf13/cobra"
)

const (
	modeFailFast  = "fail-fast"
	modeKeepGoing = "keep-going"
)

var (
	flagConfig  string
	flagTimeout time.Duration
	flagVerbose bool
	flagMode    EnumValue = NewEnumValue(modeFailFast, map[string]string{
		modeFailFast:  "Stop at the first source that fails to compile (default)",
		modeKeepGoing: "Compile every stale source, report all failures, skip linking",
	})
)

const usage = `Usage: qbuild [flags] <project_dir> <output_name> [run [args...]]
       qbuild clean
`

func printUsage() {
	fmt.Fprint(msg.Stderr, usage)
}

// loadConfig applies CLI flags on top of the config file
func loadConfig(cmd *cobra.Command) *config.Config {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		msg.Fatal("%v", err)
	}
	if cmd.Flags().Changed("timeout") {
		cfg.SetToolchainTimeout(flagTimeout)
	}
	if cmd.Flags().Changed("mode") {
		cfg.KeepGoing = flagMode.Value() == modeKeepGoing
	}
	if err := cfg.Validate(); err != nil {
		msg.Fatal("invalid configuration: %v", err)
	}
	msg.Debug("config", "settings", cfg.String())
	return cfg
}

func newToolchain(cfg *config.Config) toolchain.Toolchain {
	compiler := cfg.Compiler
	if compiler == "" {
		var err error
		if compiler, err = toolchain.FindCompiler(); err != nil {
			msg.Fatal("%v", err)
		}
	}
	msg.Debug("toolchain", "compiler", compiler, "timeout", cfg.ToolchainTimeout())
	return toolchain.NewCC(compiler, cfg.ToolchainTimeout())
}

// reportBuildError prints err and exits non-zero unless it is one of the
// early-exit conditions detected before any compilation
func reportBuildError(err error) {
	if errors.Is(err, builder.ErrInvalidProjectRoot) || errors.Is(err, builder.ErrNoSourcesFound) {
		msg.Error("%v", err)
		return
	}
	msg.Fatal("%v", err)
}

func doBuild(cmd *cobra.Command, args []string) {
	if len(args) == 0 {
		printUsage()
		return
	}
	if len(args) < 2 {
		msg.Error("specify output executable name")
		printUsage()
		return
	}
	projectDir, outputName := args[0], args[1]
	runAfter := len(args) >= 3 && args[2] == "run"
	if len(args) >= 3 && !runAfter {
		msg.Warn("ignoring unexpected arguments: %v", args[2:])
	}

	cfg := loadConfig(cmd)
	b := builder.NewBuilder(cfg, newToolchain(cfg))

	if _, err := b.EnsureOutputDir(); err != nil {
		msg.Fatal("could not create build directory: %v", err)
	}

	res, err := b.Build(cmd.Context(), projectDir, outputName)
	if err != nil {
		reportBuildError(err)
		return
	}
	msg.Info("build succeeded, executable: %s", res.Target)

	if runAfter {
		doRun(cmd.Context(), b, res.Target, args[3:])
	}
}

var rootCmd = &cobra.Command{
	Use:   "qbuild [flags] <project_dir> <output_name> [run [args...]]",
	Short: "Incremental C++ build tool",
	Long: `Compiles every source under <project_dir> whose object file is missing or
older than the source, then links all objects into <output_name>.out.
With a trailing "run" the executable is started after a successful build.`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		msg.SetVerbose(flagVerbose)
	},
	Run: doBuild,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Read tool settings from this TOML file")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log staleness decisions and tool invocations")
	addBuildFlags(rootCmd)
	// everything after <project_dir> belongs to the program started by `run`
	rootCmd.Flags().SetInterspersed(false)
}

func addBuildFlags(cmd *cobra.Command) {
	cmd.Flags().DurationVarP(&flagTimeout, "timeout", "t", 0, "Kill a compiler or linker invocation after this long (0 disables)")
	cmd.Flags().VarP(&flagMode, "mode", "m", "Failure handling, one of "+flagMode.HelpString())
	cmd.RegisterFlagCompletionFunc("mode", flagMode.CompletionFunc())
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
