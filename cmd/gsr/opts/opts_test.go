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
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/gitsr/pkg/config"
	"github.com/walteh/gitsr/pkg/filter"
	"github.com/walteh/gitsr/pkg/log"
	"gitlab.com/tozd/go/errors"
)

func testContext(t *testing.T) context.Context {
	return zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	return p
}

func TestRuleFlagsKeepOrder(t *testing.T) {
	o := &RootOpts{}
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.VarP(o.IncludeValue(), "include", "i", "")
	fs.VarP(o.ExcludeValue(), "exclude", "e", "")

	require.NoError(t, fs.Parse([]string{"-i", "*.go", "-e", "vendor/**", "--include", "*.md"}))

	assert.Equal(t, []filter.Rule{
		{Mode: filter.ModeInclude, Pattern: "*.go"},
		{Mode: filter.ModeExclude, Pattern: "vendor/**"},
		{Mode: filter.ModeInclude, Pattern: "*.md"},
	}, o.Rules)
	assert.Equal(t, "*.go,*.md", o.IncludeValue().String())
	assert.Equal(t, "vendor/**", o.ExcludeValue().String())

	assert.Error(t, fs.Parse([]string{"-i", ""}))
}

func TestExpressionList(t *testing.T) {
	pterm.DisableStyling()
	defer pterm.EnableStyling()

	dir := t.TempDir()
	pairs := writeFile(t, dir, "pairs.json", `[
  {"OldString": "foo.bar", "NewString": "baz", "Match": "full"},
  {"OldString": "x", "NewString": "y"}
]`)

	tests := []struct {
		name        string
		opts        *RootOpts
		want        []string
		wantErr     error
		wantConsole string
	}{
		{
			name: "positional_literals_are_quoted",
			opts: &RootOpts{
				SearchConfig: config.Source{Path: filepath.Join(dir, "missing.json")},
				Positional:   []string{"a.b", "c", "(x)", "y"},
			},
			want: []string{`a\.b`, "c", `\(x\)`, "y"},
		},
		{
			name: "positional_regex",
			opts: &RootOpts{
				SearchConfig: config.Source{Path: filepath.Join(dir, "missing.json")},
				Positional:   []string{"a.b", "c"},
				Regex:        true,
			},
			want: []string{"a.b", "c"},
		},
		{
			name: "config_pairs_come_first",
			opts: &RootOpts{
				SearchConfig: config.Source{Path: pairs, Explicit: true},
				Positional:   []string{"p", "q"},
			},
			want:        []string{`^foo\.bar$`, "baz", "x", "y", "p", "q"},
			wantConsole: "Preparing search-replace: 'foo.bar' -> 'baz' (Match: full)",
		},
		{
			name: "odd_positional",
			opts: &RootOpts{
				SearchConfig: config.Source{Path: filepath.Join(dir, "missing.json")},
				Positional:   []string{"a"},
			},
			wantErr: config.ErrConfiguration,
		},
		{
			name: "nothing_to_do",
			opts: &RootOpts{
				SearchConfig: config.Source{Path: filepath.Join(dir, "missing.json")},
			},
			wantErr: config.ErrConfiguration,
		},
		{
			name: "missing_explicit_config",
			opts: &RootOpts{
				SearchConfig: config.Source{Path: filepath.Join(dir, "missing.json"), Explicit: true},
				Positional:   []string{"a", "b"},
			},
			wantErr: config.ErrConfiguration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testContext(t)
			var console bytes.Buffer

			got, err := tt.opts.ExpressionList(ctx, log.NewUserLogger(ctx, &console))
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "unexpected error: %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			if tt.wantConsole != "" {
				assert.Contains(t, console.String(), tt.wantConsole)
			}
		})
	}
}

func TestFilterRules(t *testing.T) {
	pterm.DisableStyling()
	defer pterm.EnableStyling()

	dir := t.TempDir()
	ft := writeFile(t, dir, "filetypes.json", `[
  {"fileType": "*.go", "option": "include"},
  {"fileType": "*.pb.go", "option": "EXCLUDE"},
  {"fileType": "", "option": "include"}
]`)

	o := &RootOpts{
		FileTypesConfig: config.Source{Path: ft, Explicit: true},
		Rules:           []filter.Rule{{Mode: filter.ModeExclude, Pattern: "vendor/**"}},
	}

	ctx := testContext(t)
	var console bytes.Buffer
	user := log.NewUserLogger(ctx, &console)

	rules, err := o.FilterRules(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, []filter.Rule{
		{Mode: filter.ModeExclude, Pattern: "vendor/**"},
		{Mode: filter.ModeInclude, Pattern: "*.go"},
		{Mode: filter.ModeExclude, Pattern: "*.pb.go"},
	}, rules)
	assert.Contains(t, console.String(), "Skipping filetype entry 2: no fileType")

	o.FileTypesConfig = config.Source{Path: filepath.Join(dir, "nope.json")}
	rules, err = o.FilterRules(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, o.Rules, rules)
}

func TestResultsDirFor(t *testing.T) {
	o := &RootOpts{}
	assert.Equal(t, filepath.Join("/work", ResultsDirName), o.ResultsDirFor("/work/repo"))

	o.ResultsDir = "/tmp/out"
	assert.Equal(t, "/tmp/out", o.ResultsDirFor("/work/repo"))
}

func TestNewDefaults(t *testing.T) {
	o := New()
	assert.Equal(t, DefaultSearchConfig, filepath.Base(o.SearchConfig.Path))
	assert.Equal(t, DefaultFileTypesConfig, filepath.Base(o.FileTypesConfig.Path))
	assert.Equal(t, "config", filepath.Base(filepath.Dir(o.SearchConfig.Path)))
	assert.False(t, o.SearchConfig.Explicit)
}
