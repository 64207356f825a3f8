package config

import (
	"fmt"
	"sort"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// Option keys as written in configuration files
const (
	OptionMaintained    = "maintained"
	OptionUpmerge       = "upmerge"
	OptionSyncTags      = "sync-tags"
	OptionIgnoreDefault = "ignore-default"
	OptionSplit         = "split"
)

// SplitTarget describes where a directory of the repository is split to
type SplitTarget struct {
	URL      string `yaml:"url"`
	SyncTags *bool  `yaml:"sync-tags,omitempty"`
}

// UnmarshalYAML accepts either a bare URL string or a mapping
func (s *SplitTarget) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		s.URL = node.Value
		return nil
	}

	var raw struct {
		URL      string `yaml:"url"`
		SyncTags *bool  `yaml:"sync-tags"`
	}
	if err := node.Decode(&raw); err != nil {
		return fmt.Errorf("line %d: invalid split target: %w", node.Line, err)
	}
	s.URL = raw.URL
	s.SyncTags = raw.SyncTags
	return nil
}

// BranchOptions holds the options of one branch table entry, or the
// effective options of a resolved branch. A nil field means "not set".
type BranchOptions struct {
	Maintained    *bool
	Upmerge       *bool
	SyncTags      *bool
	IgnoreDefault *bool
	Split         map[string]SplitTarget

	// unknown keeps option keys the decoder did not recognise, for Validate
	unknown []string
}

// UnmarshalYAML decodes a branch options mapping
func (o *BranchOptions) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: branch options must be a mapping", node.Line)
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		value := node.Content[i+1]

		var err error
		switch key {
		case OptionMaintained:
			o.Maintained, err = decodeBool(key, value)
		case OptionUpmerge:
			o.Upmerge, err = decodeBool(key, value)
		case OptionSyncTags:
			o.SyncTags, err = decodeBool(key, value)
		case OptionIgnoreDefault:
			o.IgnoreDefault, err = decodeBool(key, value)
		case OptionSplit:
			split := map[string]SplitTarget{}
			if value.Tag != "!!null" {
				err = value.Decode(&split)
			}
			o.Split = split
		default:
			o.unknown = append(o.unknown, key)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func decodeBool(key string, node *yaml.Node) (*bool, error) {
	var v bool
	if err := node.Decode(&v); err != nil {
		return nil, fmt.Errorf("line %d: option %q must be a boolean", node.Line, key)
	}
	return &v, nil
}

// IsMaintained returns whether the branch is maintained (default true)
func (o BranchOptions) IsMaintained() bool {
	return o.Maintained == nil || *o.Maintained
}

// UpmergeEnabled returns whether changes are merged up into newer branches (default true)
func (o BranchOptions) UpmergeEnabled() bool {
	return o.Upmerge == nil || *o.Upmerge
}

// SyncTagsEnabled returns whether tags are synced to split repositories (default true)
func (o BranchOptions) SyncTagsEnabled() bool {
	return o.SyncTags == nil || *o.SyncTags
}

// IgnoresDefault returns whether the :default entry is skipped when merging
func (o BranchOptions) IgnoresDefault() bool {
	return o.IgnoreDefault != nil && *o.IgnoreDefault
}

// IsEmpty returns true when no option is set
func (o BranchOptions) IsEmpty() bool {
	return o.Maintained == nil && o.Upmerge == nil && o.SyncTags == nil && o.IgnoreDefault == nil && len(o.Split) == 0
}

// SplitPrefixes returns the split directory prefixes in sorted order
func (o BranchOptions) SplitPrefixes() []string {
	prefixes := lo.Keys(o.Split)
	sort.Strings(prefixes)
	return prefixes
}

// clone returns a deep copy so resolved configs never share state with the tree
func (o BranchOptions) clone() BranchOptions {
	out := BranchOptions{
		Maintained:    cloneBool(o.Maintained),
		Upmerge:       cloneBool(o.Upmerge),
		SyncTags:      cloneBool(o.SyncTags),
		IgnoreDefault: cloneBool(o.IgnoreDefault),
	}
	if o.Split != nil {
		out.Split = make(map[string]SplitTarget, len(o.Split))
		for prefix, target := range o.Split {
			target.SyncTags = cloneBool(target.SyncTags)
			out.Split[prefix] = target
		}
	}
	return out
}

// overlay returns base with every option set in top written over it.
// Split targets are merged per prefix.
func overlay(base, top BranchOptions) BranchOptions {
	out := base.clone()
	top = top.clone()

	if top.Maintained != nil {
		out.Maintained = top.Maintained
	}
	if top.Upmerge != nil {
		out.Upmerge = top.Upmerge
	}
	if top.SyncTags != nil {
		out.SyncTags = top.SyncTags
	}
	if top.IgnoreDefault != nil {
		out.IgnoreDefault = top.IgnoreDefault
	}
	if out.Split != nil || top.Split != nil {
		out.Split = lo.Assign(out.Split, top.Split)
	}
	return out
}

// unmaintained is the fixed option set of a branch marked maintained: false
func unmaintained() BranchOptions {
	return BranchOptions{
		Maintained:    boolPtr(false),
		Upmerge:       boolPtr(false),
		SyncTags:      boolPtr(false),
		IgnoreDefault: boolPtr(true),
		Split:         map[string]SplitTarget{},
	}
}

func boolPtr(v bool) *bool {
	return &v
}

func cloneBool(v *bool) *bool {
	if v == nil {
		return nil
	}
	return boolPtr(*v)
}
