package config

import "errors"

var (
	ErrRedisAddrMissing  = errors.New("REDIS_ADDR is required")
	ErrInvalidRedisDB    = errors.New("REDIS_DB must be an integer between 0 and 15")
	ErrCatalogURLMissing = errors.New("CATALOG_URL is required when CATALOG_SOURCE=http")
	ErrInvalidTimezone   = errors.New("CONTEXT_TIMEZONE must be an IANA time zone")
)
