package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"pathshadow/internal/model"
	"pathshadow/internal/shadow"
)

//go:embed static/*
var staticFS embed.FS

//go:embed help.md
var helpMD string

// DirLister lists one search-path directory with a bounded wait.
// *shadow.Aggregator satisfies it.
type DirLister interface {
	List(ctx context.Context, path string) ([]os.FileInfo, error)
}

// Server exposes Shadow Reports over HTTP.
type Server struct {
	scan   shadow.ScanFunc
	lister DirLister
	files  afero.Fs
	logger *log.Logger
	mux    *http.ServeMux
}

// NewServer wires the API routes. lister backs /api/which and files is used
// to inspect candidates.
func NewServer(scan shadow.ScanFunc, lister DirLister, files afero.Fs, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Server{scan: scan, lister: lister, files: files, logger: logger, mux: http.NewServeMux()}

	// Serve static files
	subFS, _ := fs.Sub(staticFS, "static")
	s.mux.Handle("/", http.FileServer(http.FS(subFS)))

	// API Endpoints
	s.mux.HandleFunc("/api/report", s.handleReport)
	s.mux.HandleFunc("/api/which", s.handleWhich)
	s.mux.HandleFunc("/api/file", s.handleFile)
	s.mux.HandleFunc("/api/help", s.handleHelp)
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe serves on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.logger.Info("web server started", "url", "http://"+addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

type reportResponse struct {
	model.ShadowReport
	Report        string `json:"report"`
	VerboseReport string `json:"verboseReport"`
	Version       string `json:"version"`
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.scan(r.Context())
	if err != nil {
		var cfgErr *shadow.ConfigurationError
		switch {
		case errors.As(err, &cfgErr):
			writeError(w, http.StatusBadRequest, err)
			return
		case !report.Partial:
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		s.logger.Warn("returning partial report", "err", err)
	}

	for _, f := range report.Faults {
		s.logger.Warn("directory scan fault", "dir", f.Directory.Path, "kind", f.Kind, "err", f.Message)
	}

	writeJSON(w, reportResponse{
		ShadowReport:  report,
		Report:        shadow.GenerateReport(report, false),
		VerboseReport: shadow.GenerateReport(report, true),
		Version:       model.Version,
	})
}

// WhichMatch is the first file in one search-path directory whose name
// starts with the query.
type WhichMatch struct {
	Ordinal     int    `json:"ordinal"`
	Directory   string `json:"directory"`
	MatchedFile string `json:"matchedFile"`
	Active      bool   `json:"active"` // First directory with a match
}

func (s *Server) handleWhich(w http.ResponseWriter, r *http.Request) {
	query := shadow.FoldName(r.URL.Query().Get("query"))
	if query == "" {
		writeError(w, http.StatusBadRequest, errors.New("query is required"))
		return
	}

	report, err := s.scan(r.Context())
	if err != nil && !report.Partial {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	matches := []WhichMatch{}
	for _, dir := range report.Directories {
		files, err := s.lister.List(r.Context(), dir.Path)
		if err != nil {
			s.logger.Debug("skipping directory", "dir", dir.Path, "err", err)
			continue
		}

		var matchedFile string
		found := false
		for _, f := range files {
			if f.IsDir() {
				continue
			}
			name := shadow.FoldName(f.Name())
			if strings.HasPrefix(name, query) {
				// Keep the first prefix match unless an exact one turns up
				if !found || name == query {
					matchedFile = f.Name()
				}
				found = true
				if name == query {
					break
				}
			}
		}

		if found {
			matches = append(matches, WhichMatch{
				Ordinal:     dir.Ordinal,
				Directory:   dir.Path,
				MatchedFile: matchedFile,
				Active:      len(matches) == 0,
			})
		}
	}

	writeJSON(w, matches)
}

func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeError(w, http.StatusBadRequest, errors.New("path is required"))
		return
	}

	details := model.GetFileDetails(s.files, path)
	if details.ErrorMsg != "" {
		writeError(w, http.StatusNotFound, errors.New(details.ErrorMsg))
		return
	}
	writeJSON(w, details)
}

func (s *Server) handleHelp(w http.ResponseWriter, r *http.Request) {
	// Use the embedded help content
	text := strings.ReplaceAll(helpMD, "{{VERSION}}", model.Version)

	w.Header().Set("Content-Type", "text/markdown")
	_, _ = w.Write([]byte(text))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": fmt.Sprint(err)})
}
