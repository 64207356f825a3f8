package config

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultKey is the branch table key used when nothing else matches
const DefaultKey = ":default"

// PatternKind tells how a branch table key is matched against branch names
type PatternKind int

const (
	// PatternExact matches one branch name literally (main, master, 2.1, ...)
	PatternExact PatternKind = iota
	// PatternDefault is the :default entry
	PatternDefault
	// PatternLiteral is a #-prefixed key naming a branch that looks like a pattern (#2.x)
	PatternLiteral
	// PatternVersion is a numeric version pattern (2.x, 2.*, 2.1)
	PatternVersion
	// PatternRegex is a /regex/ key
	PatternRegex
)

func (k PatternKind) String() string {
	switch k {
	case PatternExact:
		return "exact"
	case PatternDefault:
		return "default"
	case PatternLiteral:
		return "literal"
	case PatternVersion:
		return "version"
	case PatternRegex:
		return "regex"
	default:
		return fmt.Sprintf("PatternKind(%d)", int(k))
	}
}

var versionKeyRegex = regexp.MustCompile(`(?i)^\d+\.([x*]|\d+)$`)

// Pattern is a classified branch table key. Keys are classified once when
// the configuration is loaded.
type Pattern struct {
	Kind PatternKind
	// Key is the key as written in the configuration
	Key string
	// Name is the branch name a literal or exact key stands for
	Name string
	// Source is the expression a regex or version key compiles from
	Source string

	matcher    *regexp.Regexp
	compileErr error
}

// ClassifyPattern turns a branch table key into a Pattern
func ClassifyPattern(key string) Pattern {
	switch {
	case key == DefaultKey:
		return Pattern{Kind: PatternDefault, Key: key}
	case strings.HasPrefix(key, "#"):
		return Pattern{Kind: PatternLiteral, Key: key, Name: key[1:]}
	case len(key) >= 2 && strings.HasPrefix(key, "/") && strings.HasSuffix(key, "/"):
		source := key[1 : len(key)-1]
		p := Pattern{Kind: PatternRegex, Key: key, Source: source}
		p.matcher, p.compileErr = regexp.Compile("^(" + source + ")$")
		return p
	case versionKeyRegex.MatchString(key):
		source := versionSource(key)
		p := Pattern{Kind: PatternVersion, Key: key, Name: key, Source: source}
		p.matcher, p.compileErr = regexp.Compile("^" + source + "$")
		return p
	default:
		return Pattern{Kind: PatternExact, Key: key, Name: key}
	}
}

// versionSource translates 2.x / 2.* into 2\.\d+
func versionSource(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch r {
		case '.':
			b.WriteString(`\.`)
		case 'x', 'X', '*':
			b.WriteString(`\d+`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsPattern reports whether the key is matched structurally rather than by name
func (p Pattern) IsPattern() bool {
	return p.Kind == PatternRegex || p.Kind == PatternVersion
}

// Err returns the compile error of a regex or version key
func (p Pattern) Err() error {
	return p.compileErr
}

// Match tests a branch name against a regex or version pattern.
// Other kinds never match structurally.
func (p Pattern) Match(branchName string) (bool, error) {
	if !p.IsPattern() {
		return false, nil
	}
	if p.compileErr != nil {
		return false, fmt.Errorf("invalid branch pattern %q: %w", p.Key, p.compileErr)
	}
	return p.matcher.MatchString(branchName), nil
}
