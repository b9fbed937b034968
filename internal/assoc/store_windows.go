//go:build windows

package assoc

import (
	"errors"
	"strings"

	"golang.org/x/sys/windows/registry"
)

// registryStore reads associations from HKEY_CLASSES_ROOT:
// .ext -> ProgID -> ProgID\shell\open\command.
type registryStore struct{}

// NewStore returns the system handler store.
func NewStore() Store {
	return registryStore{}
}

func (registryStore) Extensions() ([]string, error) {
	names, err := registry.CLASSES_ROOT.ReadSubKeyNames(-1)
	if err != nil {
		return nil, err
	}
	var exts []string
	for _, name := range names {
		if strings.HasPrefix(name, ".") {
			exts = append(exts, name)
		}
	}
	return exts, nil
}

func (registryStore) Resolve(ext string) (string, bool, error) {
	progID, ok, err := defaultValue(ext)
	if err != nil || !ok {
		return "", false, err
	}
	return defaultValue(progID + `\shell\open\command`)
}

// defaultValue reads the unnamed value of a HKEY_CLASSES_ROOT subkey.
func defaultValue(path string) (string, bool, error) {
	k, err := registry.OpenKey(registry.CLASSES_ROOT, path, registry.QUERY_VALUE)
	if err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return "", false, nil
		}
		return "", false, err
	}
	defer k.Close()

	v, _, err := k.GetStringValue("")
	if err != nil {
		if errors.Is(err, registry.ErrNotExist) || errors.Is(err, registry.ErrUnexpectedType) {
			return "", false, nil
		}
		return "", false, err
	}
	return v, v != "", nil
}
