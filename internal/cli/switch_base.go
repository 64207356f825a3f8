package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"hubkit.dev/hubkit/internal/actions/switchbase"
	"hubkit.dev/hubkit/internal/cli/helpers"
	"hubkit.dev/hubkit/internal/runtime"
)

// newSwitchBaseCmd creates the switch-base command
func newSwitchBaseCmd() *cobra.Command {
	var comment bool

	cmd := &cobra.Command{
		Use:   "switch-base <number> <new-base>",
		Short: "Move a pull request onto another base branch",
		Long: `Rebase the commits of a pull request onto another base branch, force-push
them to the pull request's head branch and change the base of the pull request.

The work happens in a temporary branch. When a rebase conflict stops the
command, resolve it, run "git rebase --continue" and run the same command
again to finish. Do not push the branch yourself.`,
		Args: cobra.ExactArgs(2),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) != 1 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return helpers.CompleteBranches(cmd, args, toComplete)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := strconv.Atoi(strings.TrimPrefix(args[0], "#"))
			if err != nil || number <= 0 {
				return fmt.Errorf("invalid pull request number %q", args[0])
			}

			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				_, err := switchbase.Action(ctx, switchbase.Options{
					Number:  number,
					NewBase: args[1],
					Comment: comment,
				})
				return err
			})
		},
	}

	cmd.Flags().BoolVar(&comment, "comment", false, "Ask the author to reset their local branch in a pull request comment")

	return cmd
}
