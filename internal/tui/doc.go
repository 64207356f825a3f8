// Package tui provides the terminal surface of hubkit.
//
// It handles:
//   - Console and rotating file logging (Splog)
//   - Yes/no prompts (using survey)
//   - Terminal styling (see the style subpackage)
package tui
