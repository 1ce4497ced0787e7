package catalog

import "errors"

var (
	// ErrInvalidCatalog wraps every problem found while loading a catalog.
	ErrInvalidCatalog = errors.New("invalid catalog")
	// ErrUnknownItem is returned for lookups of ids not in the catalog.
	ErrUnknownItem = errors.New("unknown item")
)
