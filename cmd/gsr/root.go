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

package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/gitsr/cmd/gsr/opts"
	"github.com/walteh/gitsr/pkg/expression"
	"github.com/walteh/gitsr/pkg/filter"
	"github.com/walteh/gitsr/pkg/log"
	"github.com/walteh/gitsr/pkg/operation"
	"github.com/walteh/gitsr/pkg/provider"
	"github.com/walteh/gitsr/pkg/state"
	"gitlab.com/tozd/go/errors"

	_ "github.com/walteh/gitsr/pkg/provider/git"
)

const providerName = "git"

// newRootCmd builds the gsr command. Reports and status lines go to console.
func newRootCmd(console io.Writer) *cobra.Command {
	o := opts.New()

	cmd := &cobra.Command{
		Use:   "gsr [flags] [FROM TO]...",
		Short: "Search and replace across every tracked file of a git repository",
		Long: `gsr runs an ordered chain of FROM TO substitutions over the tracked files of
the current git repository. Without --fix it only reports matches. Paths are
rewritten too unless --no-renames is given.

Replacements may reference groups (\1, \g<name>) and embed expressions with
\G{...}, for example \G{m(1).upper()} or \G{snake_to_pascal(m(1))}.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(o.Debug, console)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			o.Positional = args
			o.SearchConfig.Explicit = cmd.Flags().Changed("search-config")
			o.FileTypesConfig.Explicit = cmd.Flags().Changed("filetypes-config")
			return run(cmd.Context(), o, console)
		},
	}

	addRootFlags(cmd, o)
	cmd.AddCommand(newVersionCmd(console))
	return cmd
}

// addRootFlags adds the flags of the root command
func addRootFlags(cmd *cobra.Command, o *opts.RootOpts) {
	flags := cmd.Flags()
	flags.BoolVarP(&o.Fix, "fix", "f", false, "rewrite files and rename paths instead of only reporting")
	flags.VarP(o.IncludeValue(), "include", "i", "only process files matching pattern (repeatable)")
	flags.VarP(o.ExcludeValue(), "exclude", "e", "skip files matching pattern (repeatable)")
	flags.BoolVarP(&o.NoRenames, "no-renames", "n", false, "do not rewrite file paths")
	flags.StringVarP(&o.SearchConfig.Path, "search-config", "c", o.SearchConfig.Path, "search pairs config file")
	flags.StringVarP(&o.FileTypesConfig.Path, "filetypes-config", "t", o.FileTypesConfig.Path, "file type filter config file")
	flags.BoolVarP(&o.Regex, "regex", "r", false, "treat positional FROM values as regular expressions")
	flags.StringVar(&o.ResultsDir, "results-dir", "", "directory for match logs (default <repo parent>/search-results)")
	flags.BoolVar(&o.Diff, "diff", false, "show an inline diff under every fixed match")
	flags.StringVarP(&o.Directory, "directory", "C", "", "run as if started in this directory")

	cmd.PersistentFlags().BoolVarP(&o.Debug, "debug", "d", false, "enable debug logging")
}

// setupLogging configures zerolog based on flags
func setupLogging(debug bool, w io.Writer) {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger
}

// 🚀 run resolves configuration, then performs the search or fix run.
// Every configuration error surfaces before a file is read.
func run(ctx context.Context, o *opts.RootOpts, console io.Writer) error {
	logger := zerolog.Ctx(ctx)
	ctx = logger.WithContext(ctx)
	user := log.NewUserLogger(ctx, console)

	list, err := o.ExpressionList(ctx, user)
	if err != nil {
		return err
	}
	exprs, err := expression.Compile(list)
	if err != nil {
		return err
	}

	rules, err := o.FilterRules(ctx, user)
	if err != nil {
		return err
	}
	resolver, err := filter.New(rules)
	if err != nil {
		return err
	}
	logger.Debug().Interface("rules", resolver.Rules()).Msg("filter rules")

	p, err := provider.Get(ctx, providerName, o.Directory)
	if err != nil {
		return err
	}
	repo, err := provider.Resolve(ctx, p)
	if err != nil {
		return err
	}

	resultsDir := o.ResultsDirFor(repo.Root)
	now := time.Now()
	searchStore := state.New(filepath.Join(resultsDir, state.TimestampedName(state.SearchLogName, now)))
	fixStore := state.New(filepath.Join(resultsDir, state.TimestampedName(state.FixLogName, now)))
	reporter := log.New(ctx, console).WithDiff(o.Diff)

	err = operation.Run(ctx, operation.Options{
		Expressions: exprs,
		Resolver:    resolver,
		Provider:    p,
		Repository:  repo,
		SearchStore: searchStore,
		FixStore:    fixStore,
		Reporter:    reporter,
		Fix:         o.Fix,
		Renames:     !o.NoRenames,
	})
	if err != nil {
		return errors.Errorf("running on %s: %w", repo.Root, err)
	}

	summarize(user, reporter.Count(), o.Fix, searchStore, fixStore)
	return nil
}

// summarize points at the match log of the run and prints the closing line
func summarize(user *log.UserLogger, count int, fix bool, searchStore, fixStore *state.Store) {
	store := searchStore
	if fix {
		store = fixStore
	}
	if _, err := os.Stat(store.Path()); err == nil {
		user.Info("Match log: %s", store.Path())
	}

	switch {
	case count == 0:
		user.Success("No matches found")
	case fix:
		user.Success("Replaced %d matches", count)
	default:
		user.Success("Found %d matches, run again with --fix to apply them", count)
	}
}
