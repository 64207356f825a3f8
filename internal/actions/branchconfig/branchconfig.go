// Package branchconfig prints the effective configuration of a branch.
package branchconfig

import (
	"fmt"
	"strings"

	"hubkit.dev/hubkit/internal/config"
	"hubkit.dev/hubkit/internal/errors"
	"hubkit.dev/hubkit/internal/runtime"
	"hubkit.dev/hubkit/internal/tui/style"
)

// Options contains options for the branch-config command
type Options struct {
	// Branch to resolve; empty means the current branch
	Branch string
}

// Action resolves the branch and prints the result
func Action(ctx *runtime.Context, opts Options) (*config.BranchConfig, error) {
	current, err := ctx.Git.GetCurrentBranch()
	if err != nil {
		return nil, err
	}

	branch := opts.Branch
	if branch == "" {
		if current == "" {
			return nil, errors.NewPreconditionError("HEAD is detached, name the branch to resolve")
		}
		branch = current
	}

	resolved, err := ctx.ResolveBranch(branch)
	if err != nil {
		return nil, err
	}

	ctx.Splog.Page(Render(resolved, branch == current))
	return resolved, nil
}

// Render formats a resolved configuration for the terminal
func Render(c *config.BranchConfig, isCurrent bool) string {
	var b strings.Builder

	matched := style.ColorPattern(c.MatchedPattern)
	if c.Local {
		matched += " " + style.ColorDim("(local override)")
	}
	fmt.Fprintf(&b, "Branch:         %s\n", style.ColorBranchName(c.Name, isCurrent))
	fmt.Fprintf(&b, "Matched:        %s\n", matched)
	fmt.Fprintf(&b, "Path:           %s\n", style.ColorDim(c.PathString()))
	fmt.Fprintf(&b, "maintained:     %s\n", style.ColorFlag(c.Config.IsMaintained()))
	fmt.Fprintf(&b, "upmerge:        %s\n", style.ColorFlag(c.Config.UpmergeEnabled()))
	fmt.Fprintf(&b, "sync-tags:      %s\n", style.ColorFlag(c.Config.SyncTagsEnabled()))
	fmt.Fprintf(&b, "ignore-default: %s\n", style.ColorFlag(c.Config.IgnoresDefault()))

	prefixes := c.Config.SplitPrefixes()
	if len(prefixes) == 0 {
		b.WriteString("split:          " + style.ColorDim("none") + "\n")
		return b.String()
	}
	b.WriteString("split:\n")
	for _, prefix := range prefixes {
		target := c.Config.Split[prefix]
		syncTags := c.Config.SyncTagsEnabled()
		if target.SyncTags != nil {
			syncTags = *target.SyncTags
		}
		fmt.Fprintf(&b, "  %s -> %s (sync-tags: %s)\n", prefix, target.URL, style.ColorFlag(syncTags))
	}
	return b.String()
}
