package config_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"hubkit.dev/hubkit/internal/config"
)

func TestClassifyPattern(t *testing.T) {
	tests := []struct {
		key  string
		kind config.PatternKind
		name string
	}{
		{key: ":default", kind: config.PatternDefault},
		{key: "main", kind: config.PatternExact, name: "main"},
		{key: "#2.x", kind: config.PatternLiteral, name: "2.x"},
		{key: "2.x", kind: config.PatternVersion, name: "2.x"},
		{key: "2.*", kind: config.PatternVersion, name: "2.*"},
		{key: "2.1", kind: config.PatternVersion, name: "2.1"},
		{key: "/v\\d+/", kind: config.PatternRegex},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			p := config.ClassifyPattern(tt.key)
			require.Equal(t, tt.kind, p.Kind)
			require.Equal(t, tt.key, p.Key)
			require.Equal(t, tt.name, p.Name)
		})
	}
}

func TestPatternMatch(t *testing.T) {
	t.Run("version wildcards match a single numeric segment", func(t *testing.T) {
		for _, key := range []string{"2.x", "2.X", "2.*"} {
			p := config.ClassifyPattern(key)
			require.True(t, must(p.Match("2.0")), key)
			require.True(t, must(p.Match("2.15")), key)
			require.False(t, must(p.Match("2.x")), key)
			require.False(t, must(p.Match("12.0")), key)
			require.False(t, must(p.Match("2.0.1")), key)
		}
	})

	t.Run("regex is matched against the whole name", func(t *testing.T) {
		p := config.ClassifyPattern(`/[1-5]\.[0-9]/`)
		require.Equal(t, `[1-5]\.[0-9]`, p.Source)
		require.True(t, must(p.Match("3.2")))
		require.False(t, must(p.Match("30.2")))
		require.False(t, must(p.Match("3.2-dev")))
	})

	t.Run("alternation stays anchored", func(t *testing.T) {
		p := config.ClassifyPattern(`/release|hotfix/`)
		require.True(t, must(p.Match("hotfix")))
		require.False(t, must(p.Match("my-release")))
	})

	t.Run("exact and literal keys never match structurally", func(t *testing.T) {
		for _, key := range []string{"main", "#2.x", ":default"} {
			p := config.ClassifyPattern(key)
			require.False(t, p.IsPattern())
			require.False(t, must(p.Match("main")))
		}
	})

	t.Run("broken regex reports its key", func(t *testing.T) {
		p := config.ClassifyPattern(`/[/`)
		require.Error(t, p.Err())

		_, err := p.Match("x")
		require.ErrorContains(t, err, `"/[/"`)
	})
}

func must(ok bool, err error) bool {
	if err != nil {
		panic(err)
	}
	return ok
}
