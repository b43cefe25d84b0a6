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

package expression

import (
	"regexp"
	"regexp/syntax"
	"strings"

	"github.com/coregx/coregex"
	"gitlab.com/tozd/go/errors"
)

var (
	// ErrMalformedList is returned when the FROM/TO list is empty or odd
	ErrMalformedList = errors.Base("malformed expression list")

	// ErrPatternCompilation covers bad patterns, templates and dynamic blocks
	ErrPatternCompilation = errors.Base("pattern compilation error")

	// ErrEvaluation is returned when a dynamic block fails on a match
	ErrEvaluation = errors.Base("evaluation error")
)

// 🧭 Stage is the kind of text an expression is applied to
type Stage int

const (
	StageContent Stage = iota
	StagePath
)

// Separator is the value of `sep` inside dynamic blocks
func (s Stage) Separator() string {
	if s == StagePath {
		return "/"
	}
	return "."
}

func (s Stage) String() string {
	if s == StagePath {
		return "path"
	}
	return "content"
}

// 🔄 Expression is a compiled (pattern, replacement) pair
type Expression struct {
	// Index is the position of the pair in the configured list
	Index int

	// Pattern is the compiled regular expression
	Pattern *coregex.Regex

	// Template is the replacement as written by the user
	Template string

	// Dynamic is set when Template contains at least one \G{...} block
	Dynamic *Replacer

	template *template

	// scanner replaces Pattern's FindAll for patterns whose matches depend on
	// the text before the search position (^, \b, \B) or that can be empty.
	// coregex resumes each search on a re-sliced haystack, which drops that
	// context and steps one byte past empty matches.
	scanner *regexp.Regexp

	// dollar is set when the pattern uses a non-multiline $
	dollar bool
}

// 📍 Replacement is one substitution performed by Replace
type Replacement struct {
	Start int // byte offset of the match in the input
	End   int
	Old   string // matched text
	New   string // text it was replaced with
}

// 🏭 Compile builds expressions from an interleaved FROM/TO list
func Compile(list []string) ([]*Expression, error) {
	if len(list) == 0 {
		return nil, errors.Errorf("%w: no FROM-TO expressions specified", ErrMalformedList)
	}
	if len(list)%2 != 0 {
		return nil, errors.Errorf("%w: odd number of FROM-TO arguments (%d)", ErrMalformedList, len(list))
	}

	exprs := make([]*Expression, 0, len(list)/2)
	for i := 0; i < len(list); i += 2 {
		expr, err := New(i/2, list[i], list[i+1])
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}
	return exprs, nil
}

// New compiles a single pair
func New(index int, pattern, replacement string) (*Expression, error) {
	re, err := coregex.Compile(pattern)
	if err != nil {
		return nil, errors.Errorf("%w: pair %d (%q): %s", ErrPatternCompilation, index, pattern, err.Error())
	}

	expr := &Expression{
		Index:    index,
		Pattern:  re,
		Template: replacement,
	}

	if tree, perr := syntax.Parse(pattern, syntax.Perl); perr == nil {
		expr.dollar = hasOp(tree, func(r *syntax.Regexp) bool {
			return r.Op == syntax.OpEndText && r.Flags&syntax.WasDollar != 0
		})
		if re.MatchString("") || hasOp(tree, leftContext) {
			if expr.scanner, err = regexp.Compile(pattern); err != nil {
				return nil, errors.Errorf("%w: pair %d (%q): %s", ErrPatternCompilation, index, pattern, err.Error())
			}
		}
	}

	if HasDynamicBlock(replacement) {
		expr.Dynamic, err = ParseReplacer(replacement)
	} else {
		expr.template, err = parseTemplate(replacement, subexpNames(re))
	}
	if err != nil {
		return nil, errors.Errorf("%w: pair %d (%q -> %q): %s", ErrPatternCompilation, index, pattern, replacement, err.Error())
	}

	return expr, nil
}

// Replace substitutes every match of the expression in text
func (e *Expression) Replace(text string, stage Stage) (string, []Replacement, error) {
	locs := e.locate(text)
	if len(locs) == 0 {
		return text, nil, nil
	}

	names := subexpNames(e.Pattern)
	reps := make([]Replacement, 0, len(locs))

	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, loc := range locs {
		m := &Match{text: text, loc: loc, names: names}

		var repl string
		var err error
		if e.Dynamic != nil {
			repl, err = e.Dynamic.Expand(m, stage)
		} else {
			repl = e.template.expand(m)
		}
		if err != nil {
			return "", nil, errors.Errorf("expression %d (%s): %w", e.Index, e.Pattern.String(), err)
		}

		b.WriteString(text[last:loc[0]])
		b.WriteString(repl)
		last = loc[1]

		reps = append(reps, Replacement{
			Start: loc[0],
			End:   loc[1],
			Old:   text[loc[0]:loc[1]],
			New:   repl,
		})
	}
	b.WriteString(text[last:])

	return b.String(), reps, nil
}

func (e *Expression) findAll(text string) [][]int {
	if e.scanner != nil {
		return e.scanner.FindAllStringSubmatchIndex(text, -1)
	}
	return e.Pattern.FindAllStringSubmatchIndex(text, -1)
}

// locate returns the matches in text, in order and without overlaps. A
// non-multiline $ also matches just before a final newline, so "^foo$"
// selects the whole of "foo\n".
func (e *Expression) locate(text string) [][]int {
	locs := e.findAll(text)
	if !e.dollar || !strings.HasSuffix(text, "\n") {
		return locs
	}
	for _, extra := range e.findAll(text[:len(text)-1]) {
		locs = insertMatch(locs, extra)
	}
	return locs
}

// insertMatch adds loc to the sorted list unless it repeats or overlaps an
// existing match
func insertMatch(locs [][]int, loc []int) [][]int {
	at := len(locs)
	for i, l := range locs {
		if l[0] == loc[0] && l[1] == loc[1] {
			return locs
		}
		if loc[0] < l[1] && l[0] < loc[1] {
			return locs
		}
		if loc[0] == loc[1] && l[0] < loc[0] && loc[0] < l[1] {
			return locs
		}
		if at == len(locs) && (loc[0] < l[0] || (loc[0] == l[0] && loc[1] < l[1])) {
			at = i
		}
	}
	locs = append(locs, nil)
	copy(locs[at+1:], locs[at:])
	locs[at] = loc
	return locs
}

func leftContext(r *syntax.Regexp) bool {
	switch r.Op {
	case syntax.OpBeginLine, syntax.OpBeginText, syntax.OpWordBoundary, syntax.OpNoWordBoundary:
		return true
	}
	return false
}

func hasOp(r *syntax.Regexp, pred func(*syntax.Regexp) bool) bool {
	if pred(r) {
		return true
	}
	for _, sub := range r.Sub {
		if hasOp(sub, pred) {
			return true
		}
	}
	return false
}

// String returns the pair the way it was configured
func (e *Expression) String() string {
	return e.Pattern.String() + " -> " + e.Template
}

// subexpNames always includes the unnamed entry for group 0
func subexpNames(re *coregex.Regex) []string {
	names := re.SubexpNames()
	if len(names) == 0 {
		return []string{""}
	}
	return names
}

// 🎯 Match is a read-only view of one regex match
type Match struct {
	text  string
	loc   []int
	names []string
}

// NewMatch wraps submatch indices as returned by FindAllStringSubmatchIndex
func NewMatch(text string, loc []int, names []string) *Match {
	return &Match{text: text, loc: loc, names: names}
}

// NumGroups counts the groups including group 0
func (m *Match) NumGroups() int {
	return len(m.loc) / 2
}

// Group returns group i's text; groups that did not participate yield ""
func (m *Match) Group(i int) (string, error) {
	if i < 0 || i >= m.NumGroups() {
		return "", errors.Errorf("no such group: %d", i)
	}
	start, end := m.loc[2*i], m.loc[2*i+1]
	if start < 0 || end < 0 {
		return "", nil
	}
	return m.text[start:end], nil
}

// Named returns the text of a named group
func (m *Match) Named(name string) (string, error) {
	for i, n := range m.names {
		if n != "" && n == name {
			return m.Group(i)
		}
	}
	return "", errors.Errorf("no such group: %q", name)
}

// Text is the whole match
func (m *Match) Text() string {
	s, _ := m.Group(0)
	return s
}
