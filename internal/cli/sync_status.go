package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"hubkit.dev/hubkit/internal/actions/sync"
	"hubkit.dev/hubkit/internal/cli/helpers"
	"hubkit.dev/hubkit/internal/git"
	"hubkit.dev/hubkit/internal/runtime"
	"hubkit.dev/hubkit/internal/tui/style"
)

// newSyncStatusCmd creates the sync-status command
func newSyncStatusCmd() *cobra.Command {
	var remoteBranch string

	cmd := &cobra.Command{
		Use:   "sync-status [branch]",
		Short: "Compare a branch with its remote counterpart",
		Long: `Fetch the remote and report whether a branch is up-to-date, needs a pull,
needs a push or has diverged from its remote counterpart. Nothing is changed.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: helpers.CompleteFirstBranch,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := sync.Options{RemoteBranch: remoteBranch}
			if len(args) > 0 {
				opts.Branch = args[0]
			}

			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				result, err := sync.Status(ctx, opts)
				if err != nil {
					return err
				}
				remoteRef := git.RemoteRef(ctx.Remote, result.RemoteBranch)
				if result.Published {
					ctx.Splog.Page(fmt.Sprintf("%s: %s is not on the remote yet\n",
						style.ColorBranchName(result.Branch, false), remoteRef))
					return nil
				}
				ctx.Splog.Page(fmt.Sprintf("%s: %s (%s)\n",
					style.ColorBranchName(result.Branch, false), style.ColorSyncStatus(result.Status.String()), remoteRef))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&remoteBranch, "remote-branch", "", "Name of the branch on the remote (default: same as the local branch)")

	return cmd
}
