// qbuild clean
package cmd

import (
	"github.com/qobs-build/qbuild/internal/builder"
	"github.com/qobs-build/qbuild/internal/msg"
	"github.com/spf13/cobra"
)

func doClean(cmd *cobra.Command, args []string) {
	cfg := loadConfig(cmd)
	// cleaning never invokes the toolchain
	b := builder.NewBuilder(cfg, nil)
	if _, err := b.Clean(); err != nil {
		msg.Fatal("failed to clean %s: %v", b.Layout().Root, err)
	}
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the build directory",
	Long:  `Remove the whole build directory, including all object files. Extra arguments are ignored.`,
	Args:  cobra.ArbitraryArgs,
	Run:   doClean,
}

func init() {
	// qbuild clean subcommand
	rootCmd.AddCommand(cleanCmd)
}
