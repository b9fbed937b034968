package model

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOccurrenceList(t *testing.T) {
	occ := OccurrenceList{Name: "make", Candidates: []Candidate{
		{Path: "/usr/bin/make", Ordinal: 0},
		{Path: "/usr/local/bin/make", Ordinal: 1},
	}}
	assert.Equal(t, "/usr/bin/make", occ.Active().Path)
	assert.Equal(t, []Candidate{{Path: "/usr/local/bin/make", Ordinal: 1}}, occ.Shadowed())
	assert.Nil(t, OccurrenceList{Candidates: occ.Candidates[:1]}.Shadowed())
}

func TestScanFault(t *testing.T) {
	f := ScanFault{
		Directory: DirectoryEntry{Path: "/root/bin"},
		Err:       fs.ErrPermission,
		Message:   "permission denied",
	}
	assert.Equal(t, "/root/bin: permission denied", f.Error())
	assert.True(t, errors.Is(f, fs.ErrPermission))
}

func TestGetFileDetails(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/bin/tool", []byte("abc"), 0o755))
	require.NoError(t, afero.WriteFile(fsys, "/bin/notes", []byte("x"), 0o644))

	d := GetFileDetails(fsys, "/bin/tool")
	assert.Empty(t, d.ErrorMsg)
	assert.Equal(t, int64(3), d.Size)
	assert.True(t, d.Executable)

	assert.False(t, GetFileDetails(fsys, "/bin/notes").Executable)
	assert.Contains(t, GetFileDetails(fsys, "/bin/missing").ErrorMsg, "Could not inspect file")
}

func TestGetFileDetails_Symlink(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "tool")
	link := filepath.Join(dir, "link")
	require.NoError(t, os.WriteFile(target, []byte("#!"), 0o755))
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	broken := filepath.Join(dir, "broken")
	require.NoError(t, os.Symlink(filepath.Join(dir, "gone"), broken))

	d := GetFileDetails(afero.NewOsFs(), link)
	assert.True(t, d.IsSymlink)
	assert.Equal(t, target, d.SymlinkTarget)
	assert.True(t, d.Executable)
	assert.False(t, d.BrokenLink)

	b := GetFileDetails(afero.NewOsFs(), broken)
	assert.True(t, b.IsSymlink)
	assert.True(t, b.BrokenLink)
}
