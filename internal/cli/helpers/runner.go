// Package helpers provides shared helper functions for CLI commands.
package helpers

import (
	"github.com/spf13/cobra"

	"hubkit.dev/hubkit/internal/runtime"
)

// Run is a helper that provides a runtime context to a command's execution function
func Run(cmd *cobra.Command, fn func(ctx *runtime.Context) error) error {
	ctx, err := runtime.GetContext(cmd.Context(), ContextOptions(cmd))
	if err != nil {
		return err
	}
	defer func() { _ = ctx.Splog.Close() }()
	ctx.Splog.SetQuiet(Quiet(cmd))
	return fn(ctx)
}

// Quiet reads the persistent --quiet flag
func Quiet(cmd *cobra.Command) bool {
	quiet, _ := cmd.Flags().GetBool("quiet")
	return quiet
}

// ContextOptions reads the persistent --remote and --config flags
func ContextOptions(cmd *cobra.Command) runtime.Options {
	remote, _ := cmd.Flags().GetString("remote")
	configPath, _ := cmd.Flags().GetString("config")
	return runtime.Options{Remote: remote, ConfigPath: configPath}
}
