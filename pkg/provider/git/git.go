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

package git

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/gitsr/pkg/provider"
	"gitlab.com/tozd/go/errors"
)

func init() {
	provider.Register("git", New)
}

// 🎯 Provider runs the git binary against a working directory
type Provider struct {
	dir string
	bin string
}

// 🏭 New creates a git provider for dir ("" means the process working directory)
func New(ctx context.Context, dir string) (provider.Provider, error) {
	bin, err := exec.LookPath("git")
	if err != nil {
		return nil, errors.Errorf("%w: git executable not found: %s", provider.ErrGit, err.Error())
	}
	zerolog.Ctx(ctx).Debug().Str("bin", bin).Str("dir", dir).Msg("using git provider")
	return &Provider{dir: dir, bin: bin}, nil
}

// 📂 ListFiles implements Provider.ListFiles
func (p *Provider) ListFiles(ctx context.Context) ([]string, error) {
	out, err := p.run(ctx, p.dir, "ls-files", "-z", "--full-name")
	if err != nil {
		return nil, err
	}

	var files []string
	for _, f := range strings.Split(out, "\x00") {
		if f != "" {
			files = append(files, f)
		}
	}
	zerolog.Ctx(ctx).Debug().Int("count", len(files)).Msg("listed tracked files")
	return files, nil
}

// 🏠 Root implements Provider.Root
func (p *Provider) Root(ctx context.Context) (string, error) {
	out, err := p.run(ctx, p.dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// 🌿 Branch implements Provider.Branch
func (p *Provider) Branch(ctx context.Context) (string, error) {
	out, err := p.run(ctx, p.dir, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// 🚚 Move implements Provider.Move
func (p *Provider) Move(ctx context.Context, from, to string) error {
	root, err := p.Root(ctx)
	if err != nil {
		return err
	}
	_, err = p.run(ctx, root, "mv", "--", from, to)
	return err
}

func (p *Provider) run(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, p.bin, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	zerolog.Ctx(ctx).Trace().Strs("args", args).Str("dir", dir).Msg("running git")

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", errors.Errorf("%w: git %s: %s", provider.ErrGit, strings.Join(args, " "), msg)
	}
	return stdout.String(), nil
}
