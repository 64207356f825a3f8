// Package configcheck validates the global configuration file and the
// repository's local override.
package configcheck

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"hubkit.dev/hubkit/internal/config"
	"hubkit.dev/hubkit/internal/tui"
)

// Options contains options for the config validate command
type Options struct {
	// Path of the global configuration file
	Path string
	// Local reads the _hubkit branch; nil skips the local override
	Local config.RefFileReader
	// Remote whose tracking branch is tried for the local override
	Remote string
}

// Result counts what was checked
type Result struct {
	GlobalChecked bool
	LocalChecked  bool
	Issues        []config.ValidationIssue
}

// Action validates every configuration source and prints each issue.
// It returns an error when any source is invalid.
func Action(splog *tui.Splog, opts Options) (*Result, error) {
	result := &Result{}

	data, err := os.ReadFile(opts.Path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		splog.Info("No configuration file at %s.", opts.Path)
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		result.GlobalChecked = true
		if _, err := config.Parse(data); err != nil {
			if !collect(result, err) {
				return nil, err
			}
		}
	}

	if opts.Local != nil {
		local, err := config.LoadLocal(opts.Local, opts.Remote)
		if err != nil && !collect(result, err) {
			return nil, err
		}
		result.LocalChecked = local != nil || err != nil
	}

	if len(result.Issues) > 0 {
		for _, issue := range result.Issues {
			splog.Error("%s: %s", issue.Ref, issue.Message)
		}
		return result, fmt.Errorf("configuration has %d issue(s)", len(result.Issues))
	}

	switch {
	case result.GlobalChecked && result.LocalChecked:
		splog.Success("%s and the %s branch are valid.", opts.Path, config.LocalConfigBranch)
	case result.GlobalChecked:
		splog.Success("%s is valid.", opts.Path)
	case result.LocalChecked:
		splog.Success("The %s branch is valid.", config.LocalConfigBranch)
	}
	return result, nil
}

func collect(result *Result, err error) bool {
	var verr *config.ValidationError
	if !errors.As(err, &verr) {
		return false
	}
	result.Issues = append(result.Issues, verr.Issues...)
	return true
}
