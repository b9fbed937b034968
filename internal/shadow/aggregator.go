package shadow

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"pathshadow/internal/model"
)

// DefaultTimeout bounds a single directory listing.
const DefaultTimeout = 5 * time.Second

// Options configures an Aggregator.
type Options struct {
	Extensions ExtensionSet  // Defaults to DefaultExtensions when empty
	Timeout    time.Duration // Per-directory listing bound; zero disables it
	Workers    int           // Directories listed concurrently; <= 1 is sequential
	Logger     *log.Logger   // Debug output; nil discards
}

// Aggregator walks resolved directories and reports shadowed executables.
type Aggregator struct {
	fs      afero.Fs
	exts    ExtensionSet
	timeout time.Duration
	workers int
	logger  *log.Logger
}

// listing is the outcome of reading one directory.
type listing struct {
	infos   []os.FileInfo
	err     error
	scanned bool
}

func NewAggregator(fsys afero.Fs, opts Options) *Aggregator {
	if opts.Extensions.Empty() {
		opts.Extensions = NewExtensionSet(DefaultExtensions...)
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Aggregator{
		fs:      fsys,
		exts:    opts.Extensions,
		timeout: opts.Timeout,
		workers: opts.Workers,
		logger:  opts.Logger,
	}
}

// Aggregate lists every directory, groups matching files by case-folded
// name, and keeps the names found more than once. Directory faults are
// collected in the report and never stop the scan.
//
// If ctx is cancelled, the remaining directories are skipped and the partial
// report is returned together with ctx.Err().
func (a *Aggregator) Aggregate(ctx context.Context, dirs []model.DirectoryEntry) (model.ShadowReport, error) {
	listings := a.fetch(ctx, dirs)

	// Merge strictly in ordinal order so the active candidate never depends
	// on which listing finished first.
	index := make(map[string]int)
	var all []model.OccurrenceList
	report := model.ShadowReport{
		Directories: dirs,
		Shadows:     []model.OccurrenceList{},
		Faults:      []model.ScanFault{},
	}
	if report.Directories == nil {
		report.Directories = []model.DirectoryEntry{}
	}

	for i, dir := range dirs {
		l := listings[i]
		if !l.scanned {
			continue
		}
		report.DirectoriesSearched++

		if l.err != nil {
			report.Faults = append(report.Faults, newFault(dir, l.err))
			continue
		}

		found := a.candidates(dir, l.infos)
		a.logger.Debug("scanned directory", "dir", dir.Path, "ordinal", dir.Ordinal, "candidates", len(found))
		for _, c := range found {
			report.CandidatesSeen++
			key := FoldName(c.Name)
			pos, ok := index[key]
			if !ok {
				pos = len(all)
				index[key] = pos
				all = append(all, model.OccurrenceList{Name: c.Name, Key: key})
			}
			// One candidate per directory: names differing only in case
			// within a directory are both reachable and do not shadow each other
			cands := all[pos].Candidates
			if n := len(cands); n > 0 && cands[n-1].Ordinal == c.Ordinal {
				continue
			}
			all[pos].Candidates = append(cands, c)
		}
	}

	for _, occ := range all {
		if len(occ.Candidates) > 1 {
			report.Shadows = append(report.Shadows, occ)
		}
	}

	if report.DirectoriesSearched < len(dirs) {
		if err := ctx.Err(); err != nil {
			report.Partial = true
			return report, err
		}
	}
	return report, nil
}

// fetch lists each directory, concurrently when workers > 1. Every listing
// lands in its own slot so the merge can run in ordinal order.
func (a *Aggregator) fetch(ctx context.Context, dirs []model.DirectoryEntry) []listing {
	listings := make([]listing, len(dirs))

	if a.workers == 1 {
		for i, dir := range dirs {
			if ctx.Err() != nil {
				break
			}
			listings[i] = a.scan(ctx, dir)
		}
		return listings
	}

	var g errgroup.Group
	g.SetLimit(a.workers)
	for i, dir := range dirs {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			listings[i] = a.scan(ctx, dir)
			return nil
		})
	}
	_ = g.Wait() // workers never return errors
	return listings
}

// scan reads one directory. A listing interrupted by cancellation of ctx
// itself is not counted as scanned.
func (a *Aggregator) scan(ctx context.Context, dir model.DirectoryEntry) listing {
	infos, err := a.readDir(ctx, dir.Path)
	if err != nil && ctx.Err() != nil {
		return listing{}
	}
	return listing{infos: infos, err: err, scanned: true}
}

// List reads one directory under the same timeout as a scan. Callers that
// need a listing outside Aggregate use this so a stuck directory faults
// instead of blocking.
func (a *Aggregator) List(ctx context.Context, path string) ([]os.FileInfo, error) {
	return a.readDir(ctx, path)
}

func (a *Aggregator) readDir(ctx context.Context, path string) ([]os.FileInfo, error) {
	if a.timeout <= 0 {
		return afero.ReadDir(a.fs, path)
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	done := make(chan listing, 1) // Buffered so a late reader never blocks
	go func() {
		infos, err := afero.ReadDir(a.fs, path)
		done <- listing{infos: infos, err: err}
	}()

	select {
	case l := <-done:
		return l.infos, l.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// candidates filters a listing down to executable candidates.
func (a *Aggregator) candidates(dir model.DirectoryEntry, infos []os.FileInfo) []model.Candidate {
	var out []model.Candidate
	for _, info := range infos {
		if info.IsDir() || !a.exts.Matches(info.Name()) {
			continue
		}
		full := filepath.Join(dir.Path, info.Name())
		if info.Mode()&os.ModeSymlink != 0 {
			// Only links that resolve to a file can be invoked
			target, err := a.fs.Stat(full)
			if err != nil || target.IsDir() {
				continue
			}
		}
		out = append(out, model.Candidate{
			Name:    info.Name(),
			Path:    full,
			Ordinal: dir.Ordinal,
		})
	}
	return out
}

func newFault(dir model.DirectoryEntry, err error) model.ScanFault {
	return model.ScanFault{
		Directory: dir,
		Kind:      classifyFault(err),
		Err:       err,
		Message:   err.Error(),
	}
}

func classifyFault(err error) model.FaultKind {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return model.FaultTimeout
	case errors.Is(err, fs.ErrPermission):
		return model.FaultPermission
	case errors.Is(err, fs.ErrNotExist):
		return model.FaultNotFound
	default:
		return model.FaultIO
	}
}
