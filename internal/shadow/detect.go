package shadow

import (
	"context"

	"github.com/spf13/afero"

	"pathshadow/internal/model"
)

// Detect resolves raw into directories and aggregates them. A
// ConfigurationError comes back with an empty report.
func Detect(ctx context.Context, fsys afero.Fs, raw string, sep rune, opts Options) (model.ShadowReport, error) {
	dirs, err := NewResolver(fsys, opts.Logger).Resolve(raw, sep)
	if err != nil {
		return model.ShadowReport{}, err
	}
	return NewAggregator(fsys, opts).Aggregate(ctx, dirs)
}

// ScanFunc produces a fresh Shadow Report on each call.
type ScanFunc func(ctx context.Context) (model.ShadowReport, error)

// Scanner binds a search path and options into a ScanFunc, so callers can
// rescan without knowing where the path came from.
func Scanner(fsys afero.Fs, raw string, sep rune, opts Options) ScanFunc {
	return func(ctx context.Context) (model.ShadowReport, error) {
		return Detect(ctx, fsys, raw, sep, opts)
	}
}
