package cli

import (
	"github.com/spf13/cobra"

	"hubkit.dev/hubkit/internal/actions/configcheck"
	"hubkit.dev/hubkit/internal/cli/helpers"
	"hubkit.dev/hubkit/internal/config"
	"hubkit.dev/hubkit/internal/git"
	"hubkit.dev/hubkit/internal/tui"
)

// newConfigCmd creates the config command
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the hubkit configuration",
		Args:  cobra.NoArgs,
	}
	cmd.AddCommand(newConfigValidateCmd())
	return cmd
}

func newConfigValidateCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration file and the repository's local override",
		Long: `Check the global configuration file and, when run inside a repository, the
config.yml of its _hubkit branch. Every problem is reported, not only the first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := file
			if path == "" {
				path, _ = cmd.Flags().GetString("config")
			}
			if path == "" {
				path = config.DefaultConfigPath()
			}

			splog, err := tui.NewSplogWithConfig(tui.GetLogFilePath())
			if err != nil {
				splog = tui.NewSplog()
			}
			defer func() { _ = splog.Close() }()
			splog.SetQuiet(helpers.Quiet(cmd))

			opts := configcheck.Options{Path: path}

			// The local override is optional, outside a repository only the file is checked
			if runner, err := git.NewRealRunner("."); err == nil {
				opts.Local = runner
				opts.Remote, _ = cmd.Flags().GetString("remote")
				if opts.Remote == "" {
					opts.Remote = config.DefaultRemote
				}
			}

			_, err = configcheck.Action(splog, opts)
			return err
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Configuration file to check (default: the --config path)")

	return cmd
}
