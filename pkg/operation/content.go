package operation

import (
	"bytes"
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/gitsr/pkg/expression"
	"github.com/walteh/gitsr/pkg/state"
	"github.com/walteh/gitsr/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 📝 contentOperation searches, and in fix mode rewrites, file contents
type contentOperation struct {
	opts  Options
	files []string
}

// NewContentOperation runs the expression chain over the contents of files
// (repository-relative paths). The match total is printed when it finishes.
func NewContentOperation(opts Options, files []string) Operation {
	return &contentOperation{opts: opts, files: files}
}

func (c *contentOperation) Name() string {
	if c.opts.Fix {
		return "fix"
	}
	return "search"
}

func (c *contentOperation) Execute(ctx context.Context) error {
	for _, rel := range c.files {
		if err := ctx.Err(); err != nil {
			return errors.Errorf("operation cancelled: %w", err)
		}
		if err := c.processFile(ctx, rel); err != nil {
			return errors.Errorf("processing %s: %w", rel, err)
		}
	}
	c.opts.Reporter.Total()
	return nil
}

func (c *contentOperation) processFile(ctx context.Context, rel string) error {
	logger := zerolog.Ctx(ctx).With().Str("file", rel).Logger()
	abs := filepath.Join(c.opts.Repository.Root, filepath.FromSlash(rel))

	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug().Msg("skipping missing file")
			return nil
		}
		return errors.Errorf("stat: %w", err)
	}
	if !info.Mode().IsRegular() {
		logger.Debug().Str("mode", info.Mode().String()).Msg("skipping non-regular file")
		return nil
	}

	raw, err := os.ReadFile(abs)
	if err != nil {
		return errors.Errorf("reading file: %w", err)
	}

	content, enc, err := text.Decode(raw)
	if err != nil {
		return err
	}

	mode := text.ModeSearch
	if c.opts.Fix {
		mode = text.ModeFix
	}

	res, err := text.Transform(content, c.opts.Expressions, expression.StageContent, mode)
	if err != nil {
		return err
	}

	repo := c.opts.Repository
	if !c.opts.Fix {
		if len(res.Matches) == 0 {
			return nil
		}
		c.opts.Reporter.Search(rel, res)
		return c.opts.SearchStore.Upsert(ctx, Entries(rel, res), repo.Name, repo.Branch)
	}

	if !res.Changed() {
		return nil
	}
	c.opts.Reporter.Fix(rel, res)

	out, err := text.Encode(res.Modified, enc)
	if err != nil {
		return err
	}
	if !bytes.Equal(out, raw) {
		if err := os.WriteFile(abs, out, info.Mode().Perm()); err != nil {
			return errors.Errorf("writing file: %w", err)
		}
		logger.Debug().Str("encoding", enc.String()).Int("matches", len(res.Matches)).Msg("rewrote file")
	}

	return c.opts.FixStore.Upsert(ctx, Entries(rel, res), repo.Name, repo.Branch)
}

// Entries converts transform matches into log entries for file
func Entries(file string, res *text.Result) []state.MatchEntry {
	entries := make([]state.MatchEntry, 0, len(res.Matches))
	for _, m := range res.Matches {
		entries = append(entries, state.MatchEntry{
			Filename: file,
			Line:     m.Line,
			Before:   m.Before,
			After:    m.After,
			ChangedText: state.ChangedText{
				Old: m.Old,
				New: m.New,
			},
		})
	}
	return entries
}
