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

package provider_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/walteh/gitsr/pkg/provider"
	"github.com/walteh/gitsr/pkg/testutils"
	"gitlab.com/tozd/go/errors"
)

func TestResolve(t *testing.T) {
	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())

	t.Run("root_and_branch", func(t *testing.T) {
		p := &testutils.MockProvider{}
		p.On("Root", mock.Anything).Return("/work/my-repo", nil)
		p.On("Branch", mock.Anything).Return("feature/x", nil)

		repo, err := provider.Resolve(ctx, p)
		require.NoError(t, err)
		assert.Equal(t, provider.Repository{Root: "/work/my-repo", Name: "my-repo", Branch: "feature/x"}, repo)
		p.AssertExpectations(t)
	})

	t.Run("branch_failure", func(t *testing.T) {
		p := &testutils.MockProvider{}
		p.On("Root", mock.Anything).Return("/work/my-repo", nil).Maybe()
		p.On("Branch", mock.Anything).Return("", errors.Errorf("%w: not a repository", provider.ErrGit))

		_, err := provider.Resolve(ctx, p)
		require.Error(t, err)
		assert.True(t, errors.Is(err, provider.ErrGit), "unexpected error: %v", err)
	})
}

func TestRegistry(t *testing.T) {
	called := ""
	provider.Register("test-dir", func(ctx context.Context, dir string) (provider.Provider, error) {
		called = dir
		return &testutils.DirProvider{Dir: dir}, nil
	})

	p, err := provider.Get(context.Background(), "test-dir", "/tmp/x")
	require.NoError(t, err)
	assert.NotNil(t, p)
	assert.Equal(t, "/tmp/x", called)
	assert.Contains(t, provider.Names(), "test-dir")

	_, err = provider.Get(context.Background(), "nope", "")
	assert.Error(t, err)
}
