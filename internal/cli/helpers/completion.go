package helpers

import (
	"github.com/spf13/cobra"

	"hubkit.dev/hubkit/internal/git"
)

// CompleteBranches is a helper for cobra.ValidArgsFunction and RegisterFlagCompletionFunc
// that returns all branch names in the repository.
func CompleteBranches(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	runner, err := git.NewRealRunner(".")
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	branches, err := runner.BranchNames()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return branches, cobra.ShellCompDirectiveNoFileComp
}

// CompleteFirstBranch completes branch names for the first positional argument only
func CompleteFirstBranch(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return CompleteBranches(cmd, args, toComplete)
}
