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

package filter

import (
	"context"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

var (
	// ErrConflictingRule is returned when one pattern is both included and excluded
	ErrConflictingRule = errors.Base("conflicting include/exclude rule")

	// ErrBadPattern is returned for globs doublestar cannot parse
	ErrBadPattern = errors.Base("bad glob pattern")
)

// 🚦 Mode says what happens to a path selected by a rule
type Mode string

const (
	ModeInclude Mode = "include"
	ModeExclude Mode = "exclude"
)

// ParseMode turns a config/flag value into a Mode. The second return is false
// for anything other than include or exclude.
func ParseMode(s string) (Mode, bool) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeInclude:
		return ModeInclude, true
	case ModeExclude:
		return ModeExclude, true
	}
	return "", false
}

// 📏 Rule is a single include/exclude glob
type Rule struct {
	Mode    Mode
	Pattern string
}

func (r Rule) String() string {
	return string(r.Mode) + ":" + r.Pattern
}

// matches reports whether the rule's glob selects p. Patterns without a
// separator are also tried against the base name, so "*.go" selects Go files
// at any depth.
func (r Rule) matches(p string) bool {
	if ok, err := doublestar.Match(r.Pattern, p); err == nil && ok {
		return true
	}
	if !strings.Contains(r.Pattern, "/") {
		if ok, err := doublestar.Match(r.Pattern, path.Base(p)); err == nil && ok {
			return true
		}
	}
	return false
}

// 🧹 Normalize returns the rule list that resolution actually runs against.
// When the caller's first rule is an include, an exclude-all rule is
// prepended so the set becomes an allow-list.
func Normalize(rules []Rule) []Rule {
	out := make([]Rule, 0, len(rules)+1)
	if len(rules) > 0 && rules[0].Mode == ModeInclude {
		out = append(out, Rule{Mode: ModeExclude, Pattern: "**"})
	}
	return append(out, rules...)
}

// 🔍 Validate rejects unparsable globs and patterns that appear with both modes
func Validate(rules []Rule) error {
	seen := make(map[string]Mode, len(rules))
	for _, r := range rules {
		if !doublestar.ValidatePattern(r.Pattern) {
			return errors.Errorf("%w: %q", ErrBadPattern, r.Pattern)
		}
		if prev, ok := seen[r.Pattern]; ok && prev != r.Mode {
			return errors.Errorf("%w: conflicting include/exclude for pattern: %s", ErrConflictingRule, r.Pattern)
		}
		seen[r.Pattern] = r.Mode
	}
	return nil
}

// 🎯 Resolver decides which paths are eligible for processing
type Resolver struct {
	rules []Rule
}

// 🏭 New normalizes rules into a Resolver. Validation runs on the normalized
// list, so an include of "**" conflicts with the implied exclude-all.
func New(rules []Rule) (*Resolver, error) {
	normalized := Normalize(rules)
	if err := Validate(normalized); err != nil {
		return nil, err
	}
	return &Resolver{rules: normalized}, nil
}

// Rules returns the normalized rule list
func (r *Resolver) Rules() []Rule {
	return append([]Rule(nil), r.rules...)
}

// Winner returns the most specific rule selecting p, if any. The longest
// pattern wins; on equal length the earlier rule is kept.
func (r *Resolver) Winner(p string) (Rule, bool) {
	var (
		best  Rule
		found bool
	)
	for _, rule := range r.rules {
		if !rule.matches(p) {
			continue
		}
		if !found || len(rule.Pattern) > len(best.Pattern) {
			best = rule
			found = true
		}
	}
	return best, found
}

// ✅ Allowed reports whether p survives the filter set
func (r *Resolver) Allowed(p string) bool {
	rule, ok := r.Winner(p)
	if !ok {
		return true
	}
	return rule.Mode != ModeExclude
}

// Filter keeps the allowed paths, preserving order
func (r *Resolver) Filter(ctx context.Context, paths []string) []string {
	logger := zerolog.Ctx(ctx)
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if !r.Allowed(p) {
			logger.Trace().Str("path", p).Msg("filtered out")
			continue
		}
		out = append(out, p)
	}
	logger.Debug().Int("total", len(paths)).Int("selected", len(out)).Msg("applied file filters")
	return out
}
