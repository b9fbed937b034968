package shadow

import (
	"context"
	"io/fs"
	"path/filepath"
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"pathshadow/internal/model"
)

// newTree builds an in-memory filesystem from directory -> file names.
func newTree(t *testing.T, tree map[string][]string) afero.Fs {
	t.Helper()
	fsys := afero.NewMemMapFs()
	for dir, files := range tree {
		require.NoError(t, fsys.MkdirAll(dir, 0o755))
		for _, name := range files {
			require.NoError(t, afero.WriteFile(fsys, filepath.Join(dir, name), []byte("#!"), 0o755))
		}
	}
	return fsys
}

// faultFs fails Open for selected directories while Stat keeps working, so
// the directory resolves but cannot be listed.
type faultFs struct {
	afero.Fs
	faults map[string]error
}

func (f *faultFs) Open(name string) (afero.File, error) {
	if err, ok := f.faults[filepath.Clean(name)]; ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}
	return f.Fs.Open(name)
}

// blockingFs holds Open on one directory until release is closed.
type blockingFs struct {
	afero.Fs
	dir     string
	release chan struct{}
}

func (b *blockingFs) Open(name string) (afero.File, error) {
	if filepath.Clean(name) == b.dir {
		<-b.release
	}
	return b.Fs.Open(name)
}

// hookFs runs a callback the first time a directory is opened.
type hookFs struct {
	afero.Fs
	dir  string
	once sync.Once
	hook func()
}

func (h *hookFs) Open(name string) (afero.File, error) {
	if filepath.Clean(name) == h.dir {
		h.once.Do(h.hook)
	}
	return h.Fs.Open(name)
}

func entries(paths ...string) []model.DirectoryEntry {
	out := make([]model.DirectoryEntry, len(paths))
	for i, p := range paths {
		out[i] = model.DirectoryEntry{Path: p, Ordinal: i}
	}
	return out
}

func paths(occ model.OccurrenceList) []string {
	var out []string
	for _, c := range occ.Candidates {
		out = append(out, c.Path)
	}
	return out
}

func aggregate(t *testing.T, fsys afero.Fs, opts Options, dirs ...string) model.ShadowReport {
	t.Helper()
	report, err := NewAggregator(fsys, opts).Aggregate(context.Background(), entries(dirs...))
	require.NoError(t, err)
	return report
}
