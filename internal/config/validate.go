package config

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/samber/lo"
)

// ValidationIssue is one problem found in a configuration tree.
// Ref is a logical reference path like repositories.github.com.acme/app.branches./x/
type ValidationIssue struct {
	Ref     string
	Message string
}

// ValidationError collects every issue of a configuration tree
type ValidationError struct {
	Issues []ValidationIssue
}

func (e *ValidationError) Error() string {
	lines := lo.Map(e.Issues, func(issue ValidationIssue, _ int) string {
		return fmt.Sprintf("  %s: %s", issue.Ref, issue.Message)
	})
	return "invalid configuration:\n" + strings.Join(lines, "\n")
}

var (
	exactVersionKey   = regexp.MustCompile(`^\d+\.\d+$`)
	wildcardKey       = regexp.MustCompile(`(?i)^\d+\.[x*]$`)
	explicitBranchKey = regexp.MustCompile(`(?i)^#\d+\.x$`)
	inlineFlags       = regexp.MustCompile(`\(\?[a-zA-Z-]+[:)]`)
)

// Validate checks every branch table of the tree
func Validate(tree *Tree) error {
	var issues []ValidationIssue

	hosts := lo.Keys(tree.Repositories)
	sort.Strings(hosts)
	for _, host := range hosts {
		repos := tree.Repositories[host]
		names := lo.Keys(repos)
		sort.Strings(names)
		for _, name := range names {
			repo := repos[name]
			if repo == nil {
				continue
			}
			ref := fmt.Sprintf("repositories.%s.%s.branches", host, name)
			issues = append(issues, validateBranchTable(ref, &repo.Branches)...)
		}
	}

	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

// ValidateLocal checks the branch table of a local override
func ValidateLocal(local *LocalTree) error {
	issues := validateBranchTable("branches", &local.Branches)
	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

func validateBranchTable(ref string, table *BranchTable) []ValidationIssue {
	var issues []ValidationIssue
	for _, entry := range table.Entries {
		entryRef := ref + "." + entry.Pattern.Key
		if msg := validateKey(entry.Pattern); msg != "" {
			issues = append(issues, ValidationIssue{Ref: entryRef, Message: msg})
		}
		issues = append(issues, validateOptions(entryRef, entry)...)
	}
	return issues
}

func validateKey(p Pattern) string {
	switch p.Kind {
	case PatternDefault:
		return ""
	case PatternLiteral:
		if !explicitBranchKey.MatchString(p.Key) {
			return "explicit branch keys must look like #<major>.x"
		}
		return ""
	case PatternRegex:
		return validateRegexKey(p)
	case PatternVersion:
		if !exactVersionKey.MatchString(p.Key) && !wildcardKey.MatchString(p.Key) {
			return "invalid version pattern"
		}
		return ""
	default:
		if p.Key == "main" || p.Key == "master" {
			return ""
		}
		return "branch key must be :default, main, master, a version (1.0, 1.x, #1.x) or a /regex/"
	}
}

func validateRegexKey(p Pattern) string {
	source := p.Source
	if source == "" {
		return "empty regex"
	}
	if hasAnchor(source) {
		return "regex must not contain anchors, it is always matched against the whole branch name"
	}
	if inlineFlags.MatchString(source) {
		return "regex must not contain inline flags"
	}
	if err := p.Err(); err != nil {
		return fmt.Sprintf("regex does not compile: %v", err)
	}
	return ""
}

// hasAnchor reports whether source contains an unescaped ^ or $, or one of
// the \A and \z assertions. Inside a character class ^ and $ are not anchors.
func hasAnchor(source string) bool {
	inClass := false
	for i := 0; i < len(source); i++ {
		switch c := source[i]; {
		case c == '\\':
			if i+1 < len(source) && !inClass && (source[i+1] == 'A' || source[i+1] == 'z') {
				return true
			}
			i++
		case inClass:
			if c == ']' {
				inClass = false
			}
		case c == '[':
			inClass = true
			// negation and a leading ] belong to the class
			if i+1 < len(source) && source[i+1] == '^' {
				i++
			}
			if i+1 < len(source) && source[i+1] == ']' {
				i++
			}
		case c == '^' || c == '$':
			return true
		}
	}
	return false
}

func validateOptions(ref string, entry BranchEntry) []ValidationIssue {
	var issues []ValidationIssue
	for _, key := range entry.Options.unknown {
		issues = append(issues, ValidationIssue{Ref: ref + "." + key, Message: "unknown option"})
	}

	if entry.Pattern.Kind == PatternDefault && entry.Options.IgnoreDefault != nil {
		issues = append(issues, ValidationIssue{Ref: ref + "." + OptionIgnoreDefault, Message: "cannot be set on :default"})
	}

	for _, prefix := range entry.Options.SplitPrefixes() {
		target := entry.Options.Split[prefix]
		if strings.TrimSpace(prefix) == "" {
			issues = append(issues, ValidationIssue{Ref: ref + ".split", Message: "split prefix must not be empty"})
		}
		if strings.TrimSpace(target.URL) == "" {
			issues = append(issues, ValidationIssue{Ref: ref + ".split." + prefix, Message: "split target needs a url"})
		}
	}
	return issues
}
