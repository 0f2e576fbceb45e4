package domain

import "errors"

var (
	ErrAdvertisementIDMissing = errors.New("advertisement id is required")
	ErrDuplicateAdvertisement = errors.New("duplicate advertisement id")
	ErrCatalogNotFound        = errors.New("catalog not found")
	ErrCatalogReadOnly        = errors.New("catalog source is read-only")
)
