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

package log

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/walteh/gitsr/pkg/text"
)

const trailingSpace = " \t\r\n\v\f"

// 🎨 palette for the grep-like output
var (
	headerColor = color.New(color.Bold, color.FgCyan)
	fileColor   = color.New(color.FgMagenta)
	lineColor   = color.New(color.FgGreen)
	renameColor = color.New(color.FgYellow)
)

// 🎯 Reporter prints matches and renames in a grep-like layout
type Reporter struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
	diff    bool
	total   int
}

// 🏭 New creates a reporter writing to console
func New(ctx context.Context, console io.Writer) *Reporter {
	return &Reporter{
		zlog:    *zerolog.Ctx(ctx),
		console: console,
	}
}

// WithDiff enables inline character diffs under every fix-mode match
func (r *Reporter) WithDiff(enabled bool) *Reporter {
	r.diff = enabled
	return r
}

func (r *Reporter) println(s string) {
	fmt.Fprintln(r.console, s)
}

// matchLine renders "<file>:<line>:<prefix><text>" with the text's trailing
// whitespace removed
func matchLine(file string, line int, prefix, content string) string {
	return fmt.Sprintf("%s:%s:%s%s",
		fileColor.Sprint(file),
		lineColor.Sprint(line),
		prefix,
		strings.TrimRight(content, trailingSpace))
}

// 📝 Banner announces the start of a run
func (r *Reporter) Banner(root string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.total = 0
	r.println("")
	r.println(headerColor.Sprintf("=== Running git-search-replace in repository: '%s' ===", root))
	r.println("")
	r.zlog.Info().Str("root", root).Msg("starting run")
}

// 📝 Search prints every match of a search-mode pass over file. Lines are
// prefixed with one '_' per expression index and sorted.
func (r *Reporter) Search(file string, res *text.Result) {
	if len(res.Matches) == 0 {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	lines := make([]string, 0, len(res.Matches))
	plain := make(map[string]string, len(res.Matches))
	for _, m := range res.Matches {
		prefix := strings.Repeat("_", m.Expression)
		key := fmt.Sprintf("%s:%d:%s%s", file, m.Line, prefix, strings.TrimRight(m.Before, trailingSpace))
		if _, ok := plain[key]; !ok {
			plain[key] = matchLine(file, m.Line, prefix, m.Before)
		}
		lines = append(lines, key)
	}
	sort.Strings(lines)

	r.println(headerColor.Sprintf("--- Matches in %s ---", file))
	for _, l := range lines {
		r.println(plain[l])
	}
	r.println("")

	r.total += len(res.Matches)
	r.zlog.Debug().Str("file", file).Int("matches", len(res.Matches)).Msg("search matches")
}

// 📝 Fix prints the before and after view of a file that changed
func (r *Reporter) Fix(file string, res *text.Result) {
	if !res.Changed() {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.println(headerColor.Sprintf("--- Matches BEFORE change in %s ---", file))
	for _, group := range res.ByExpression() {
		for _, m := range group {
			r.println(matchLine(file, m.Line, "_", m.Before))
			if r.diff {
				r.println("    " + InlineDiff(m.Old, m.New))
			}
		}
	}

	r.println("")
	r.println(headerColor.Sprintf("--- Matches AFTER change in %s ---", file))
	for _, m := range res.Matches {
		r.println(matchLine(file, m.Line, "_", m.After))
	}
	r.println("")

	r.total += len(res.Matches)
	r.zlog.Debug().Str("file", file).Int("matches", len(res.Matches)).Msg("fixed matches")
}

// 📝 Rename reports one path rewrite
func (r *Reporter) Rename(from, to string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.println("")
	r.println(renameColor.Sprint("rename-src-file: ") + from)
	r.println(renameColor.Sprint("rename-dst-file: ") + to)
	r.zlog.Debug().Str("from", from).Str("to", to).Msg("rename")
}

// 📝 Total prints the number of matches reported since Banner
func (r *Reporter) Total() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.println("")
	r.println(headerColor.Sprintf("=== Total matches found across all files: %d ===", r.total))
	r.println("")
	r.zlog.Info().Int("matches", r.total).Msg("run complete")
	return r.total
}

// Count returns the number of matches reported so far
func (r *Reporter) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.total
}
