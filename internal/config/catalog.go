package config

import (
	"os"
	"strings"
	"time"
)

const (
	catalogSourceEnv         = "CATALOG_SOURCE"
	catalogPathEnv           = "CATALOG_PATH"
	catalogURLEnv            = "CATALOG_URL"
	catalogReloadIntervalEnv = "CATALOG_RELOAD_INTERVAL"

	defaultCatalogSource = CatalogSourceFile
	defaultCatalogPath   = "ad_db.json"
)

type CatalogSource string

const (
	CatalogSourceFile  CatalogSource = "file"
	CatalogSourceHTTP  CatalogSource = "http"
	CatalogSourceRedis CatalogSource = "redis"
)

type CatalogConfig struct {
	Source CatalogSource
	Path   string
	URL    string

	// ReloadInterval of zero disables periodic reloads.
	ReloadInterval time.Duration
}

func LoadCatalogConfig() *CatalogConfig {
	source := CatalogSource(strings.ToLower(os.Getenv(catalogSourceEnv)))
	if source != CatalogSourceFile && source != CatalogSourceHTTP && source != CatalogSourceRedis {
		source = defaultCatalogSource
	}

	path := os.Getenv(catalogPathEnv)
	if path == "" {
		path = defaultCatalogPath
	}

	return &CatalogConfig{
		Source:         source,
		Path:           path,
		URL:            os.Getenv(catalogURLEnv),
		ReloadInterval: durationEnv(catalogReloadIntervalEnv, 0),
	}
}

func (c *CatalogConfig) Validate() error {
	if c.Source == CatalogSourceHTTP && c.URL == "" {
		return ErrCatalogURLMissing
	}
	return nil
}
