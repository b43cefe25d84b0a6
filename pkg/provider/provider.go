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

package provider

import (
	"context"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// ErrGit is returned when a version control command fails
var ErrGit = errors.Base("git error")

// 🔌 Provider is the version control collaborator of a run
type Provider interface {
	// 📂 ListFiles returns tracked files under the working directory,
	// relative to the repository root
	ListFiles(ctx context.Context) ([]string, error)

	// 🏠 Root returns the absolute path of the working tree
	Root(ctx context.Context) (string, error)

	// 🌿 Branch returns the current branch name
	Branch(ctx context.Context) (string, error)

	// 🚚 Move renames a tracked file; both paths are relative to the root
	Move(ctx context.Context, from, to string) error
}

// 📦 Repository is what a run needs to know about the working tree
type Repository struct {
	Root   string // absolute path of the working tree
	Name   string // base name of Root, used as the log key
	Branch string
}

// 🔍 Resolve looks up the root and branch concurrently
func Resolve(ctx context.Context, p Provider) (Repository, error) {
	var repo Repository

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		root, err := p.Root(gctx)
		if err != nil {
			return errors.Errorf("resolving repository root: %w", err)
		}
		repo.Root = root
		return nil
	})
	g.Go(func() error {
		branch, err := p.Branch(gctx)
		if err != nil {
			return errors.Errorf("resolving branch: %w", err)
		}
		repo.Branch = branch
		return nil
	})
	if err := g.Wait(); err != nil {
		return Repository{}, err
	}

	repo.Name = filepath.Base(repo.Root)

	zerolog.Ctx(ctx).Debug().
		Str("root", repo.Root).
		Str("name", repo.Name).
		Str("branch", repo.Branch).
		Msg("resolved repository")

	return repo, nil
}

// 🏭 Factory creates a provider rooted at dir
type Factory func(ctx context.Context, dir string) (Provider, error)

var (
	// 🗺️ providers is a map of provider names to factories
	providers = make(map[string]Factory)
)

// 📝 Register registers a provider factory
func Register(name string, factory Factory) {
	providers[name] = factory
}

// 🎯 Get builds the named provider
func Get(ctx context.Context, name, dir string) (Provider, error) {
	factory, ok := providers[name]
	if !ok {
		return nil, errors.Errorf("unknown provider: %s", name)
	}
	return factory(ctx, dir)
}

// Names lists the registered providers
func Names() []string {
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
