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
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/gitsr/pkg/provider"
	"gitlab.com/tozd/go/errors"
)

func gitCmd(t *testing.T, dir string, args ...string) {
	t.Helper()
	args = append([]string{"-c", "user.name=test", "-c", "user.email=test@example.com", "-c", "commit.gpgsign=false"}, args...)
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v: %s", args, out)
}

// setupRepo creates a repository with one commit on branch main
func setupRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("hello world\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "b.txt"), []byte("b\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "untracked.txt"), []byte("u\n"), 0644))

	gitCmd(t, dir, "init", "-q")
	gitCmd(t, dir, "add", "a.txt", "sub/b.txt")
	gitCmd(t, dir, "commit", "-q", "-m", "init")
	gitCmd(t, dir, "branch", "-M", "main")
	return dir
}

func testContext(t *testing.T) context.Context {
	return zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
}

func TestProvider(t *testing.T) {
	dir := setupRepo(t)
	ctx := testContext(t)

	p, err := New(ctx, dir)
	require.NoError(t, err)

	t.Run("list_files", func(t *testing.T) {
		files, err := p.ListFiles(ctx)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"a.txt", "sub/b.txt"}, files)
	})

	t.Run("list_files_from_subdirectory_uses_full_names", func(t *testing.T) {
		sub, err := New(ctx, filepath.Join(dir, "sub"))
		require.NoError(t, err)

		files, err := sub.ListFiles(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"sub/b.txt"}, files)
	})

	t.Run("root", func(t *testing.T) {
		root, err := p.Root(ctx)
		require.NoError(t, err)

		want, err := filepath.EvalSymlinks(dir)
		require.NoError(t, err)
		got, err := filepath.EvalSymlinks(root)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("branch", func(t *testing.T) {
		branch, err := p.Branch(ctx)
		require.NoError(t, err)
		assert.Equal(t, "main", branch)
	})

	t.Run("move", func(t *testing.T) {
		require.NoError(t, p.Move(ctx, "a.txt", "sub/a.txt"))

		_, err := os.Stat(filepath.Join(dir, "sub", "a.txt"))
		require.NoError(t, err)

		files, err := p.ListFiles(ctx)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"sub/a.txt", "sub/b.txt"}, files)
	})

	t.Run("move_missing_file_reports_git_error", func(t *testing.T) {
		err := p.Move(ctx, "does-not-exist.txt", "x.txt")
		require.Error(t, err)
		assert.True(t, errors.Is(err, provider.ErrGit), "unexpected error: %v", err)
	})
}

func TestProviderOutsideRepository(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	ctx := testContext(t)
	t.Setenv("GIT_CEILING_DIRECTORIES", os.TempDir())

	p, err := New(ctx, t.TempDir())
	require.NoError(t, err)

	_, err = p.Root(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, provider.ErrGit), "unexpected error: %v", err)
}

func TestRegistered(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	p, err := provider.Get(testContext(t), "git", ".")
	require.NoError(t, err)
	assert.IsType(t, &Provider{}, p)
}
