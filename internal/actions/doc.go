// Package actions groups the logic behind the hubkit commands.
//
// Each subpackage corresponds to one command (switchbase, sync, branchconfig,
// configcheck) and exposes an Options struct with an Action function.
//
// Key patterns:
//   - Actions accept runtime.Context which provides the git runner, the
//     configuration, the GitHub gateway and Splog
//   - Actions never read flags, the cli package translates flags into Options
//   - User interaction goes through the Prompter of the context
//
// Dependencies:
//   - git: Low-level git operations
//   - github: Pull request gateway
//   - config: Branch configuration resolution
package actions
