package operation

import (
	"context"
	"os"
	"path"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/gitsr/pkg/expression"
	"github.com/walteh/gitsr/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 🚚 renameOperation rewrites paths with the expression chain
type renameOperation struct {
	opts  Options
	files []string
}

// NewRenameOperation passes every path in files through the expression chain
// (path stage). Changed paths are reported; in fix mode they are moved through
// the provider. Target collisions are not detected.
func NewRenameOperation(opts Options, files []string) Operation {
	return &renameOperation{opts: opts, files: files}
}

func (r *renameOperation) Name() string {
	return "rename"
}

func (r *renameOperation) Execute(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)

	for _, from := range r.files {
		if err := ctx.Err(); err != nil {
			return errors.Errorf("operation cancelled: %w", err)
		}

		to, err := text.Substitute(from, r.opts.Expressions, expression.StagePath)
		if err != nil {
			return err
		}
		if to == from {
			continue
		}

		r.opts.Reporter.Rename(from, to)
		if !r.opts.Fix {
			continue
		}

		if dir := path.Dir(to); dir != "." && dir != "/" {
			if err := os.MkdirAll(filepath.Join(r.opts.Repository.Root, filepath.FromSlash(dir)), 0755); err != nil {
				return errors.Errorf("creating directory for %s: %w", to, err)
			}
		}
		if err := r.opts.Provider.Move(ctx, from, to); err != nil {
			return errors.Errorf("moving %s to %s: %w", from, to, err)
		}
		logger.Debug().Str("from", from).Str("to", to).Msg("renamed file")
	}
	return nil
}
