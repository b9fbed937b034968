package web

import (
	"context"
	"encoding/json"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pathshadow/internal/model"
	"pathshadow/internal/shadow"
)

type lockedFs struct {
	afero.Fs
	dir string
}

func (l *lockedFs) Open(name string) (afero.File, error) {
	if filepath.Clean(name) == l.dir {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrPermission}
	}
	return l.Fs.Open(name)
}

// stuckFs never finishes opening dir until release is closed.
type stuckFs struct {
	afero.Fs
	dir     string
	release chan struct{}
}

func (s *stuckFs) Open(name string) (afero.File, error) {
	if filepath.Clean(name) == s.dir {
		<-s.release
	}
	return s.Fs.Open(name)
}

func newTestServer(t *testing.T, raw string) *httptest.Server {
	t.Helper()
	base := afero.NewMemMapFs()
	for _, f := range []string{"/a/python.exe", "/a/pip.exe", "/b/python.exe", "/b/pydoc.exe", "/locked/python.exe"} {
		require.NoError(t, afero.WriteFile(base, f, []byte("MZ"), 0o755))
	}
	fsys := &lockedFs{Fs: base, dir: "/locked"}

	scan := shadow.Scanner(fsys, raw, ':', shadow.Options{})
	lister := shadow.NewAggregator(fsys, shadow.Options{})
	srv := httptest.NewServer(NewServer(scan, lister, fsys, nil).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, v any) int {
	t.Helper()
	res, err := http.Get(url)
	require.NoError(t, err)
	defer res.Body.Close()
	require.NoError(t, json.NewDecoder(res.Body).Decode(v))
	return res.StatusCode
}

func TestHandleReport(t *testing.T) {
	srv := newTestServer(t, "/a:/locked:/b")

	var got struct {
		model.ShadowReport
		Report  string `json:"report"`
		Version string `json:"version"`
	}
	status := getJSON(t, srv.URL+"/api/report", &got)

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, model.Version, got.Version)
	assert.Equal(t, 3, got.DirectoriesSearched)
	require.Len(t, got.Shadows, 1)
	assert.Equal(t, "/a/python.exe", got.Shadows[0].Active().Path)
	assert.Equal(t, "/b/python.exe", got.Shadows[0].Shadowed()[0].Path)
	require.Len(t, got.Faults, 1)
	assert.Equal(t, model.FaultPermission, got.Faults[0].Kind)
	assert.Contains(t, got.Report, "Access denied to directory: /locked")
}

func TestHandleReport_EmptyPath(t *testing.T) {
	srv := newTestServer(t, "")

	var got map[string]string
	status := getJSON(t, srv.URL+"/api/report", &got)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, got["error"], "search path is not set or empty")
}

func TestHandleWhich(t *testing.T) {
	srv := newTestServer(t, "/a:/b")

	var got []WhichMatch
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/which?query=PY", &got))

	require.Len(t, got, 2)
	assert.Equal(t, WhichMatch{Ordinal: 0, Directory: "/a", MatchedFile: "python.exe", Active: true}, got[0])
	assert.Equal(t, "/b", got[1].Directory)
	assert.Equal(t, "pydoc.exe", got[1].MatchedFile)
	assert.False(t, got[1].Active)

	var bad map[string]string
	assert.Equal(t, http.StatusBadRequest, getJSON(t, srv.URL+"/api/which", &bad))
}

func TestHandleWhich_SkipsLockedDirectory(t *testing.T) {
	srv := newTestServer(t, "/a:/locked:/b")

	var got []WhichMatch
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/which?query=python", &got))

	require.Len(t, got, 2)
	assert.Equal(t, "/a", got[0].Directory)
	assert.Equal(t, "/b", got[1].Directory)
}

func TestHandleWhich_StuckDirectoryTimesOut(t *testing.T) {
	base := afero.NewMemMapFs()
	for _, f := range []string{"/a/python.exe", "/stuck/python.exe"} {
		require.NoError(t, afero.WriteFile(base, f, []byte("MZ"), 0o755))
	}
	fsys := &stuckFs{Fs: base, dir: "/stuck", release: make(chan struct{})}
	t.Cleanup(func() { close(fsys.release) })

	opts := shadow.Options{Timeout: 50 * time.Millisecond}
	scan := shadow.Scanner(fsys, "/a:/stuck", ':', opts)
	srv := httptest.NewServer(NewServer(scan, shadow.NewAggregator(fsys, opts), fsys, nil).Handler())
	defer srv.Close()

	client := &http.Client{Timeout: 2 * time.Second}
	res, err := client.Get(srv.URL + "/api/which?query=py")
	require.NoError(t, err, "which must not hang on a stuck directory")
	defer res.Body.Close()

	var got []WhichMatch
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.NoError(t, json.NewDecoder(res.Body).Decode(&got))
	require.Len(t, got, 1)
	assert.Equal(t, WhichMatch{Ordinal: 0, Directory: "/a", MatchedFile: "python.exe", Active: true}, got[0])
}

func TestHandleReport_EmptyListsEncodeAsArrays(t *testing.T) {
	srv := newTestServer(t, "/a")

	res, err := http.Get(srv.URL + "/api/report")
	require.NoError(t, err)
	defer res.Body.Close()

	var raw map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(res.Body).Decode(&raw))
	assert.JSONEq(t, `[]`, string(raw["shadows"]))
	assert.JSONEq(t, `[]`, string(raw["faults"]))
}

func TestHandleFile(t *testing.T) {
	srv := newTestServer(t, "/a")

	var details model.FileDetails
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/file?path=/a/pip.exe", &details))
	assert.Equal(t, int64(2), details.Size)
	assert.True(t, details.Executable)

	var missing map[string]string
	assert.Equal(t, http.StatusNotFound, getJSON(t, srv.URL+"/api/file?path=/nope", &missing))
}

func TestHandleHelp(t *testing.T) {
	srv := newTestServer(t, "/a")

	res, err := http.Get(srv.URL + "/api/help")
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, "text/markdown", res.Header.Get("Content-Type"))
}

func TestListenAndServe_StopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	scan := shadow.Scanner(afero.NewMemMapFs(), "/a", ':', shadow.Options{})
	done := make(chan error, 1)
	go func() {
		fsys := afero.NewMemMapFs()
		done <- NewServer(scan, shadow.NewAggregator(fsys, shadow.Options{}), fsys, nil).ListenAndServe(ctx, "127.0.0.1:0")
	}()
	cancel()
	assert.NoError(t, <-done)
}
