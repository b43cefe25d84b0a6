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
	"strconv"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// segment is either literal text (group < 0) or a group reference
type segment struct {
	literal string
	group   int
}

// template is a parsed back-reference replacement.
//
// Syntax:
//   - \1 .. \99: group by number (\0 is the whole match)
//   - \g<n>, \g<name>: group by number or name
//   - \\, \n, \t, \r: escapes
//   - any other backslash sequence is kept as written
type template struct {
	segments []segment
}

func parseTemplate(src string, names []string) (*template, error) {
	t := &template{}
	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			t.segments = append(t.segments, segment{literal: lit.String(), group: -1})
			lit.Reset()
		}
	}
	ref := func(n int) error {
		if n >= len(names) {
			return errors.Errorf("invalid group reference %d", n)
		}
		flush()
		t.segments = append(t.segments, segment{group: n})
		return nil
	}

	for i := 0; i < len(src); {
		c := src[i]
		if c != '\\' || i+1 >= len(src) {
			lit.WriteByte(c)
			i++
			continue
		}

		next := src[i+1]
		switch {
		case isDigit(next):
			end := i + 2
			if end < len(src) && isDigit(src[end]) {
				end++
			}
			n, _ := strconv.Atoi(src[i+1 : end])
			if err := ref(n); err != nil {
				return nil, err
			}
			i = end
		case next == 'g':
			if i+2 >= len(src) || src[i+2] != '<' {
				return nil, errors.Errorf("missing < after \\g at position %d", i)
			}
			closing := strings.IndexByte(src[i+3:], '>')
			if closing < 0 {
				return nil, errors.Errorf("missing > in group reference at position %d", i)
			}
			name := src[i+3 : i+3+closing]
			n, err := resolveGroup(name, names)
			if err != nil {
				return nil, err
			}
			if err := ref(n); err != nil {
				return nil, err
			}
			i += 3 + closing + 1
		case next == '\\':
			lit.WriteByte('\\')
			i += 2
		case next == 'n':
			lit.WriteByte('\n')
			i += 2
		case next == 't':
			lit.WriteByte('\t')
			i += 2
		case next == 'r':
			lit.WriteByte('\r')
			i += 2
		default:
			lit.WriteByte(c)
			lit.WriteByte(next)
			i += 2
		}
	}
	flush()

	return t, nil
}

func resolveGroup(name string, names []string) (int, error) {
	if name == "" {
		return 0, errors.New("empty group name")
	}
	if n, err := strconv.Atoi(name); err == nil {
		return n, nil
	}
	for i, n := range names {
		if n == name {
			return i, nil
		}
	}
	return 0, errors.Errorf("unknown group name %q", name)
}

func (t *template) expand(m *Match) string {
	var b strings.Builder
	for _, seg := range t.segments {
		if seg.group < 0 {
			b.WriteString(seg.literal)
			continue
		}
		s, _ := m.Group(seg.group)
		b.WriteString(s)
	}
	return b.String()
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
