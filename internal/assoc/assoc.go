// Package assoc lists which command opens each registered file extension.
// It is independent of shadow detection.
package assoc

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupported is returned where the platform has no handler store.
var ErrUnsupported = errors.New("file associations are not available on this platform")

// HandlerResolver maps an extension such as ".txt" to the command that opens
// it. ok is false when no handler is registered.
type HandlerResolver interface {
	Resolve(ext string) (command string, ok bool, err error)
}

// Store is a HandlerResolver that can also enumerate its extensions.
type Store interface {
	HandlerResolver
	Extensions() ([]string, error)
}

// Association is one extension with a registered open command.
type Association struct {
	Extension string `json:"extension"`
	Command   string `json:"command"`
}

// List resolves every extension in store order and keeps those with a
// non-empty command. Failures on single extensions are joined into the
// returned error; the rows found so far are still returned.
func List(ctx context.Context, store Store) ([]Association, error) {
	exts, err := store.Extensions()
	if err != nil {
		return nil, fmt.Errorf("enumerate extensions: %w", err)
	}

	var rows []Association
	var errs []error
	for _, ext := range exts {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		cmd, ok, err := store.Resolve(ext)
		if err != nil {
			errs = append(errs, fmt.Errorf("resolve %s: %w", ext, err))
			continue
		}
		if !ok || cmd == "" {
			continue
		}
		rows = append(rows, Association{Extension: ext, Command: cmd})
	}
	return rows, errors.Join(errs...)
}

// Format renders rows as a two-column table.
func Format(rows []Association) string {
	var sb strings.Builder
	sb.WriteString("Extension\tHandler\n")
	sb.WriteString("---------\t-------\n")
	for _, r := range rows {
		fmt.Fprintf(&sb, "%-10s\t%s\n", r.Extension, r.Command)
	}
	return sb.String()
}
