package testutils

import (
	"context"
	"os"
	"path/filepath"

	"github.com/stretchr/testify/mock"
	"github.com/walteh/gitsr/pkg/provider"
)

var _ provider.Provider = (*MockProvider)(nil)

// MockProvider is a testify mock of provider.Provider
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) ListFiles(ctx context.Context) ([]string, error) {
	result := m.Called(ctx)
	files, _ := result.Get(0).([]string)
	return files, result.Error(1)
}

func (m *MockProvider) Root(ctx context.Context) (string, error) {
	result := m.Called(ctx)
	return result.String(0), result.Error(1)
}

func (m *MockProvider) Branch(ctx context.Context) (string, error) {
	result := m.Called(ctx)
	return result.String(0), result.Error(1)
}

func (m *MockProvider) Move(ctx context.Context, from, to string) error {
	result := m.Called(ctx, from, to)
	return result.Error(0)
}

// DirProvider serves a plain directory as if every file in it were tracked.
// Move renames on disk.
type DirProvider struct {
	Dir        string
	BranchName string
	Moves      [][2]string
}

var _ provider.Provider = (*DirProvider)(nil)

func (d *DirProvider) ListFiles(ctx context.Context) ([]string, error) {
	var files []string
	err := filepath.WalkDir(d.Dir, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(d.Dir, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	return files, err
}

func (d *DirProvider) Root(ctx context.Context) (string, error) {
	return d.Dir, nil
}

func (d *DirProvider) Branch(ctx context.Context) (string, error) {
	if d.BranchName == "" {
		return "main", nil
	}
	return d.BranchName, nil
}

func (d *DirProvider) Move(ctx context.Context, from, to string) error {
	d.Moves = append(d.Moves, [2]string{from, to})
	return os.Rename(filepath.Join(d.Dir, from), filepath.Join(d.Dir, to))
}
