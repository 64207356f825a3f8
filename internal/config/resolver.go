package config

import (
	"strings"
)

// BranchConfig is the resolved configuration of one branch
type BranchConfig struct {
	// Name is the branch name that was resolved
	Name string
	// Config holds the effective options
	Config BranchOptions
	// MatchedPattern is the key that matched, :default, or Name when nothing did
	MatchedPattern string
	// Path describes where the match was found, for diagnostics only
	Path []string
	// Local is true when the repository-local override was used
	Local bool
}

// PathString joins Path for display
func (c *BranchConfig) PathString() string {
	return strings.Join(c.Path, " > ")
}

// Resolve returns the effective configuration of branchName in
// host/repository. It never fails for a missing entry: the :default entry
// or an empty configuration is returned instead.
func Resolve(tree *Tree, host, repository, branchName string) (*BranchConfig, error) {
	var table *BranchTable
	if repo := tree.Repository(host, repository); repo != nil {
		table = &repo.Branches
	}
	return resolveInTable(table, []string{"repositories", host, repository, "branches"}, branchName, false)
}

// ResolveWithLocal resolves against the local override when one is given,
// in place of the global tree's entry for this repository.
func ResolveWithLocal(tree *Tree, local *LocalTree, host, repository, branchName string) (*BranchConfig, error) {
	if local == nil {
		return Resolve(tree, host, repository, branchName)
	}

	if local.Host != "" {
		host = local.Host
	}
	if local.Repository != "" {
		repository = local.Repository
	}
	return resolveInTable(&local.Branches, []string{"repositories", host, repository, "branches"}, branchName, true)
}

func resolveInTable(table *BranchTable, path []string, branchName string, local bool) (*BranchConfig, error) {
	matched, err := findEntry(table, branchName)
	if err != nil {
		return nil, err
	}

	defaultEntry, hasDefault := table.Default()

	result := &BranchConfig{
		Name:  branchName,
		Local: local,
	}

	switch {
	case matched != nil:
		result.MatchedPattern = matched.Pattern.Key
		if hasDefault && matched != defaultEntry && !matched.Options.IgnoresDefault() {
			result.Config = overlay(defaultEntry.Options, matched.Options)
		} else {
			result.Config = matched.Options.clone()
		}
	case hasDefault:
		result.MatchedPattern = DefaultKey
		result.Config = defaultEntry.Options.clone()
	default:
		result.MatchedPattern = branchName
	}

	if !result.Config.IsMaintained() {
		result.Config = unmaintained()
	}

	result.Path = append(append([]string{}, path...), result.MatchedPattern)
	return result, nil
}

// findEntry applies the match precedence: exact name (with #name winning
// for .x names), then regex keys, then version keys, in document order.
func findEntry(table *BranchTable, branchName string) (*BranchEntry, error) {
	if table == nil {
		return nil, nil
	}

	if strings.HasSuffix(branchName, ".x") {
		if entry, ok := table.Lookup("#" + branchName); ok {
			return entry, nil
		}
	}

	for i := range table.Entries {
		entry := &table.Entries[i]
		switch entry.Pattern.Kind {
		case PatternExact, PatternVersion, PatternLiteral:
			if entry.Pattern.Key == branchName || (entry.Pattern.Kind == PatternLiteral && entry.Pattern.Name == branchName) {
				return entry, nil
			}
		}
	}

	for _, kind := range []PatternKind{PatternRegex, PatternVersion} {
		for i := range table.Entries {
			entry := &table.Entries[i]
			if entry.Pattern.Kind != kind {
				continue
			}
			ok, err := entry.Pattern.Match(branchName)
			if err != nil {
				return nil, err
			}
			if ok {
				return entry, nil
			}
		}
	}

	return nil, nil
}
