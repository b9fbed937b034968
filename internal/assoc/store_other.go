//go:build !windows

package assoc

// unsupportedStore stands in where there is no registry.
type unsupportedStore struct{}

// NewStore returns the system handler store.
func NewStore() Store {
	return unsupportedStore{}
}

func (unsupportedStore) Extensions() ([]string, error) {
	return nil, ErrUnsupported
}

func (unsupportedStore) Resolve(string) (string, bool, error) {
	return "", false, ErrUnsupported
}
