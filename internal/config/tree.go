package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	hubkiterrors "hubkit.dev/hubkit/internal/errors"
)

const (
	// ConfigFileName is the name of the global configuration file
	ConfigFileName = "config.yml"
	// LocalConfigBranch is the branch holding the repository's own configuration
	LocalConfigBranch = "_hubkit"
	// DefaultRemote is the remote used for the main repository when none is configured
	DefaultRemote = "upstream"
)

// BranchEntry is one key of a branch table with its options
type BranchEntry struct {
	Pattern Pattern
	Options BranchOptions
	Line    int
}

// BranchTable is an ordered branch table. Order follows the configuration
// document so "first match" is deterministic.
type BranchTable struct {
	Entries []BranchEntry
}

// UnmarshalYAML decodes the mapping while keeping key order
func (t *BranchTable) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: branches must be a mapping", node.Line)
	}

	t.Entries = make([]BranchEntry, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode := node.Content[i]
		valueNode := node.Content[i+1]

		entry := BranchEntry{
			Pattern: ClassifyPattern(keyNode.Value),
			Line:    keyNode.Line,
		}
		if valueNode.Tag != "!!null" {
			if err := valueNode.Decode(&entry.Options); err != nil {
				return fmt.Errorf("branch %q: %w", keyNode.Value, err)
			}
		}
		t.Entries = append(t.Entries, entry)
	}
	return nil
}

// Lookup returns the entry whose key is exactly key
func (t *BranchTable) Lookup(key string) (*BranchEntry, bool) {
	if t == nil {
		return nil, false
	}
	for i := range t.Entries {
		if t.Entries[i].Pattern.Key == key {
			return &t.Entries[i], true
		}
	}
	return nil, false
}

// Default returns the :default entry
func (t *BranchTable) Default() (*BranchEntry, bool) {
	return t.Lookup(DefaultKey)
}

// HostConfig holds API access settings for one repository host
type HostConfig struct {
	Username string `yaml:"username,omitempty"`
	APIToken string `yaml:"api-token,omitempty"`
	APIURL   string `yaml:"api-url,omitempty"`
}

// RepositoryConfig is the configuration of a single repository
type RepositoryConfig struct {
	Branches BranchTable `yaml:"branches"`
}

// Tree is the global configuration tree: host -> repository -> branches
type Tree struct {
	Remote       string                                  `yaml:"remote,omitempty"`
	GitHub       map[string]HostConfig                   `yaml:"github,omitempty"`
	Repositories map[string]map[string]*RepositoryConfig `yaml:"repositories,omitempty"`
}

// Repository returns the configuration of host/repository, or nil
func (t *Tree) Repository(host, repository string) *RepositoryConfig {
	if t == nil {
		return nil
	}
	repos, ok := t.Repositories[host]
	if !ok {
		return nil
	}
	return repos[repository]
}

// Host returns the API settings of a host
func (t *Tree) Host(host string) HostConfig {
	if t == nil {
		return HostConfig{}
	}
	return t.GitHub[host]
}

// RemoteName returns the configured main remote, or DefaultRemote
func (t *Tree) RemoteName() string {
	if t == nil || t.Remote == "" {
		return DefaultRemote
	}
	return t.Remote
}

// LocalTree is the repository-local override. Host and Repository are
// optional and only change how resolution paths are reported.
type LocalTree struct {
	Host       string      `yaml:"host,omitempty"`
	Repository string      `yaml:"repository,omitempty"`
	Branches   BranchTable `yaml:"branches"`
}

// DefaultConfigPath returns $HUBKIT_CONFIG or <user config dir>/hubkit/config.yml
func DefaultConfigPath() string {
	if customPath := os.Getenv("HUBKIT_CONFIG"); customPath != "" {
		return customPath
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return ConfigFileName
	}
	return filepath.Join(configDir, "hubkit", ConfigFileName)
}

// Load reads and validates the global configuration file.
// A missing file yields an empty tree.
func Load(path string) (*Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Tree{}, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a global configuration document
func Parse(data []byte) (*Tree, error) {
	var tree Tree
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := Validate(&tree); err != nil {
		return nil, err
	}
	return &tree, nil
}

// ParseLocal decodes and validates a local override document
func ParseLocal(data []byte) (*LocalTree, error) {
	var local LocalTree
	if err := yaml.Unmarshal(data, &local); err != nil {
		return nil, fmt.Errorf("failed to parse local config: %w", err)
	}
	if err := ValidateLocal(&local); err != nil {
		return nil, err
	}
	return &local, nil
}

// RefFileReader reads a file from the commit a ref points to
type RefFileReader interface {
	ReadFileAtRef(refName, path string) ([]byte, error)
}

// LoadLocal reads the local override from the _hubkit branch, preferring the
// local branch over the remote-tracking one. It returns nil when neither
// exists or the branch has no config file.
func LoadLocal(reader RefFileReader, remote string) (*LocalTree, error) {
	refs := []string{"refs/heads/" + LocalConfigBranch}
	if remote != "" {
		refs = append(refs, "refs/remotes/"+remote+"/"+LocalConfigBranch)
	}

	for _, ref := range refs {
		data, err := reader.ReadFileAtRef(ref, ConfigFileName)
		if err != nil {
			if errors.Is(err, hubkiterrors.ErrBranchNotFound) {
				continue
			}
			if errors.Is(err, fs.ErrNotExist) {
				return nil, nil
			}
			return nil, err
		}
		return ParseLocal(data)
	}
	return nil, nil
}
