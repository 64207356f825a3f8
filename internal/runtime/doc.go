// Package runtime provides the execution context for hubkit commands.
//
// It encapsulates shared dependencies needed by actions, such as the git
// runner, the configuration tree, the GitHub gateway and the logger.
package runtime
