package catalog

import "errors"

var (
	ErrInvalidCatalog     = errors.New("invalid catalog document")
	ErrInvalidCatalogData = errors.New("invalid catalog data")
	ErrUnexpectedStatus   = errors.New("unexpected status code")
	ErrCatalogContention  = errors.New("catalog changed concurrently too many times")
)
