// Package cli defines the hubkit command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"hubkit.dev/hubkit/internal/tui/style"
)

// NewRootCmd creates the root cobra command
func NewRootCmd(version, commit, date string) *cobra.Command {
	var debug bool

	rootCmd := &cobra.Command{
		Use:   "hubkit",
		Short: "Hubkit helps maintainers keep GitHub repositories and their pull requests in shape",
		Long: `Hubkit helps maintainers keep GitHub repositories and their pull requests in shape.

It moves pull requests between release branches, keeps local branches in sync
with their remote counterparts and explains which branch configuration applies.`,
		Version:      fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				_ = os.Setenv("HUBKIT_DEBUG", "1")
			}
			style.ConfigureColors(os.Stdout)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVar(&debug, "debug", false, "Write debug output to the terminal")
	flags.BoolP("quiet", "q", false, "Only print warnings, errors and command results")
	flags.String("remote", "", "Remote of the main repository (default: configured remote, upstream or origin)")
	flags.String("config", "", "Path of the configuration file (default: $HUBKIT_CONFIG or the user config directory)")

	rootCmd.AddCommand(newSwitchBaseCmd())
	rootCmd.AddCommand(newBranchConfigCmd())
	rootCmd.AddCommand(newSyncStatusCmd())
	rootCmd.AddCommand(newSyncCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}
