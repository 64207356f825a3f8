package cli

import (
	"github.com/spf13/cobra"

	"hubkit.dev/hubkit/internal/actions/sync"
	"hubkit.dev/hubkit/internal/cli/helpers"
	"hubkit.dev/hubkit/internal/runtime"
)

// newSyncCmd creates the sync command
func newSyncCmd() *cobra.Command {
	var (
		force        bool
		dryRun       bool
		remoteBranch string
	)

	cmd := &cobra.Command{
		Use:   "sync [branch]",
		Short: "Pull or push a branch so it matches its remote counterpart",
		Long: `Fetch the remote, then fast-forward the branch when the remote is ahead or
push it when the local branch is ahead. A branch the remote does not have yet
is published.

Diverged branches are refused unless --force is given, in which case the
remote branch is overwritten with the local one.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: helpers.CompleteFirstBranch,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := sync.Options{
				Force:        force,
				DryRun:       dryRun,
				RemoteBranch: remoteBranch,
			}
			if len(args) > 0 {
				opts.Branch = args[0]
			}

			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				_, err := sync.Action(ctx, opts)
				return err
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite the remote branch when the two have diverged")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Only report what would be done")
	cmd.Flags().StringVar(&remoteBranch, "remote-branch", "", "Name of the branch on the remote (default: same as the local branch)")

	return cmd
}
