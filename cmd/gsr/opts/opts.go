// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package opts

import (
	"context"
	"os"
	"path/filepath"

	"github.com/coregx/coregex"
	"github.com/spf13/pflag"
	"github.com/walteh/gitsr/pkg/config"
	"github.com/walteh/gitsr/pkg/filter"
	"github.com/walteh/gitsr/pkg/log"
	"gitlab.com/tozd/go/errors"
)

const (
	// DefaultSearchConfig is looked up under <executable dir>/config
	DefaultSearchConfig = "gsr-config.json"
	// DefaultFileTypesConfig is looked up under <executable dir>/config
	DefaultFileTypesConfig = "gsr-filetypes-config.json"
	// ResultsDirName is created next to the repository root by default
	ResultsDirName = "search-results"
)

// RootOpts contains everything parsed from the command line
type RootOpts struct {
	Fix       bool
	NoRenames bool
	Regex     bool
	Diff      bool
	Debug     bool

	// Directory is where the repository is looked up; empty means cwd
	Directory  string
	ResultsDir string

	SearchConfig    config.Source
	FileTypesConfig config.Source

	// Rules holds -i/-e in command line order
	Rules []filter.Rule
	// Positional holds the FROM TO arguments
	Positional []string
}

// 🏭 New returns options with the default config locations filled in
func New() *RootOpts {
	dir := ConfigDir()
	return &RootOpts{
		SearchConfig:    config.Source{Path: filepath.Join(dir, DefaultSearchConfig)},
		FileTypesConfig: config.Source{Path: filepath.Join(dir, DefaultFileTypesConfig)},
	}
}

// ConfigDir is the config directory shipped next to the executable
func ConfigDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "config"
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Join(filepath.Dir(exe), "config")
}

// ResultsDirFor returns the results directory for a repository root
func (o *RootOpts) ResultsDirFor(root string) string {
	if o.ResultsDir != "" {
		return o.ResultsDir
	}
	return filepath.Join(filepath.Dir(root), ResultsDirName)
}

// 🚩 RuleValue appends a filter rule of one mode to a shared list, so
// includes and excludes keep their relative order
type RuleValue struct {
	mode  filter.Mode
	rules *[]filter.Rule
}

var _ pflag.Value = (*RuleValue)(nil)

// IncludeValue is the -i/--include flag value
func (o *RootOpts) IncludeValue() *RuleValue {
	return &RuleValue{mode: filter.ModeInclude, rules: &o.Rules}
}

// ExcludeValue is the -e/--exclude flag value
func (o *RootOpts) ExcludeValue() *RuleValue {
	return &RuleValue{mode: filter.ModeExclude, rules: &o.Rules}
}

func (v *RuleValue) String() string {
	if v == nil || v.rules == nil {
		return ""
	}
	out := ""
	for _, r := range *v.rules {
		if r.Mode != v.mode {
			continue
		}
		if out != "" {
			out += ","
		}
		out += r.Pattern
	}
	return out
}

func (v *RuleValue) Set(pattern string) error {
	if pattern == "" {
		return errors.Errorf("%w: empty pattern", filter.ErrBadPattern)
	}
	*v.rules = append(*v.rules, filter.Rule{Mode: v.mode, Pattern: pattern})
	return nil
}

func (v *RuleValue) Type() string {
	return "pattern"
}

// 📝 ExpressionList loads the search config and appends the positional
// pairs. Positional FROM values are literal unless Regex is set. Every pair
// is announced through user.
func (o *RootOpts) ExpressionList(ctx context.Context, user *log.UserLogger) ([]string, error) {
	pairs, err := config.LoadSearchPairs(ctx, o.SearchConfig)
	if err != nil {
		return nil, err
	}
	for _, p := range pairs {
		user.Preparing(p.OldString, p.NewString, string(p.Anchoring()))
	}

	list := config.ExpressionList(ctx, pairs)

	if len(o.Positional)%2 != 0 {
		return nil, errors.Errorf("%w: odd number of FROM-TO arguments (%d)", config.ErrConfiguration, len(o.Positional))
	}
	for i := 0; i < len(o.Positional); i += 2 {
		from, to := o.Positional[i], o.Positional[i+1]
		if from == "" {
			return nil, errors.Errorf("%w: empty FROM argument at position %d", config.ErrConfiguration, i+1)
		}
		pattern := from
		if !o.Regex {
			pattern = coregex.QuoteMeta(from)
		}
		list = append(list, pattern, to)
	}

	if len(list) == 0 {
		return nil, errors.Errorf("%w: no search-replace pairs given on the command line or in %s", config.ErrConfiguration, o.SearchConfig.Path)
	}
	return list, nil
}

// 🔍 FilterRules returns the command line rules followed by the filetypes
// config entries. Skipped entries are reported through user.
func (o *RootOpts) FilterRules(ctx context.Context, user *log.UserLogger) ([]filter.Rule, error) {
	entries, err := config.LoadFileTypes(ctx, o.FileTypesConfig)
	if err != nil {
		return nil, err
	}
	rules := append([]filter.Rule(nil), o.Rules...)
	return append(rules, config.FilterRules(ctx, user, entries)...), nil
}
