// Package operation runs search, fix and rename passes over a repository
package operation

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/gitsr/pkg/expression"
	"github.com/walteh/gitsr/pkg/filter"
	"github.com/walteh/gitsr/pkg/log"
	"github.com/walteh/gitsr/pkg/provider"
	"github.com/walteh/gitsr/pkg/state"
	"gitlab.com/tozd/go/errors"
)

// 🎯 Operation is one pass of a run
type Operation interface {
	// Name is used in logs and errors
	Name() string
	// Execute performs the pass
	Execute(ctx context.Context) error
}

// 🔧 Options contains everything a run needs
type Options struct {
	// Expressions is the compiled, ordered expression chain
	Expressions []*expression.Expression
	// Resolver selects the files a run may touch
	Resolver *filter.Resolver
	// Provider is the version control collaborator
	Provider provider.Provider
	// Repository is the resolved root, name and branch
	Repository provider.Repository
	// SearchStore receives search mode matches
	SearchStore *state.Store
	// FixStore receives fix mode matches
	FixStore *state.Store
	// Reporter prints matches and renames
	Reporter *log.Reporter
	// Fix rewrites files and performs renames instead of only reporting
	Fix bool
	// Renames enables the rename pass
	Renames bool
}

func (o Options) validate() error {
	if len(o.Expressions) == 0 {
		return errors.Errorf("expressions are required")
	}
	if o.Resolver == nil {
		return errors.Errorf("resolver is required")
	}
	if o.Provider == nil {
		return errors.Errorf("provider is required")
	}
	if o.Repository.Root == "" {
		return errors.Errorf("repository root is required")
	}
	if o.Reporter == nil {
		return errors.Errorf("reporter is required")
	}
	if o.Fix && o.FixStore == nil {
		return errors.Errorf("fix store is required in fix mode")
	}
	if !o.Fix && o.SearchStore == nil {
		return errors.Errorf("search store is required in search mode")
	}
	return nil
}

// SelectFiles lists tracked files and applies the filter set
func SelectFiles(ctx context.Context, opts Options) ([]string, error) {
	files, err := opts.Provider.ListFiles(ctx)
	if err != nil {
		return nil, errors.Errorf("listing files: %w", err)
	}
	return opts.Resolver.Filter(ctx, files), nil
}

// 🚀 Run performs a complete run: content pass, total, then renames
func Run(ctx context.Context, opts Options) error {
	if err := opts.validate(); err != nil {
		return err
	}

	logger := zerolog.Ctx(ctx)
	logger.Debug().
		Bool("fix", opts.Fix).
		Bool("renames", opts.Renames).
		Int("expressions", len(opts.Expressions)).
		Msg("starting run")

	files, err := SelectFiles(ctx, opts)
	if err != nil {
		return err
	}

	opts.Reporter.Banner(opts.Repository.Root)

	ops := []Operation{NewContentOperation(opts, files)}
	if opts.Renames {
		ops = append(ops, NewRenameOperation(opts, files))
	}

	return NewRunner(logger).Run(ctx, ops...)
}
