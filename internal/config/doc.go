// Package config manages hubkit configuration.
//
// It handles:
//   - Loading the global configuration tree (hosts, repositories, branch tables)
//   - Loading the local override stored on the repository's _hubkit branch
//   - Validating branch pattern keys and option shapes
//   - Resolving the effective configuration of a single branch
package config
