package stepwise

import (
	"sync"

	"github.com/aretw0/stepwise/pkg/catalog"
	"github.com/aretw0/stepwise/pkg/driver"
)

var defaultCatalog = sync.OnceValues(catalog.Default)

// Catalog returns the built-in problem catalog.
func Catalog() (*catalog.Catalog, error) {
	return defaultCatalog()
}

// Open starts a session on a built-in problem, looked up by slug or catalog ID.
// The session plays its default input until another one is applied.
func Open(problem string, opts ...driver.Option) (driver.Session, error) {
	cat, err := defaultCatalog()
	if err != nil {
		return nil, err
	}
	_, sess, err := cat.Open(problem, opts...)
	return sess, err
}
