package shadow

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"pathshadow/internal/model"
)

// Resolver turns a raw search path string into ordered directory entries.
type Resolver struct {
	fs     afero.Fs
	logger *log.Logger
}

// NewResolver creates a Resolver backed by fsys. A nil logger discards.
func NewResolver(fsys afero.Fs, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Resolver{fs: fsys, logger: logger}
}

// Resolve splits raw on sep, keeping only segments that currently exist as
// directories. Order is preserved and repeated directories are kept, each
// with its own ordinal.
func (r *Resolver) Resolve(raw string, sep rune) ([]model.DirectoryEntry, error) {
	if raw == "" {
		return nil, &ConfigurationError{Field: "path", Err: ErrNoSearchPath}
	}
	if sep == 0 {
		return nil, &ConfigurationError{Field: "separator", Err: ErrNoSeparator}
	}

	var dirs []model.DirectoryEntry
	for _, seg := range strings.Split(raw, string(sep)) {
		if strings.TrimSpace(seg) == "" {
			continue
		}
		ok, err := afero.DirExists(r.fs, seg)
		if err != nil || !ok {
			r.logger.Debug("skipping path entry", "dir", seg, "err", err)
			continue
		}
		dirs = append(dirs, model.DirectoryEntry{Path: seg, Ordinal: len(dirs)})
	}
	return dirs, nil
}
