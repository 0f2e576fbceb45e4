package domain

import "context"

//go:generate mockgen -source=catalog_repository.go -destination=catalog_repository_mock.go -package=domain

// CatalogLoader fetches the current advertisement catalog from its source.
type CatalogLoader interface {
	LoadCatalog(ctx context.Context) (*Catalog, error)
}

// CatalogWriter persists a replacement catalog.
type CatalogWriter interface {
	SaveCatalog(ctx context.Context, catalog *Catalog) error
}
