package cli

import (
	"github.com/spf13/cobra"

	"hubkit.dev/hubkit/internal/actions/branchconfig"
	"hubkit.dev/hubkit/internal/cli/helpers"
	"hubkit.dev/hubkit/internal/runtime"
)

// newBranchConfigCmd creates the branch-config command
func newBranchConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "branch-config [branch]",
		Short: "Show the configuration that applies to a branch",
		Long: `Show the configuration that applies to a branch: the branch table key that
matched, where it was found and the resulting options.

The local override on the _hubkit branch takes the place of the global
configuration when the repository has one. If no branch is given the
current branch is used.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: helpers.CompleteFirstBranch,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := branchconfig.Options{}
			if len(args) > 0 {
				opts.Branch = args[0]
			}
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				_, err := branchconfig.Action(ctx, opts)
				return err
			})
		},
	}
	return cmd
}
