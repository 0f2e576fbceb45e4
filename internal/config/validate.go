package config

import "errors"

// ValidateForRun checks the settings the server cannot start without.
func ValidateForRun(cfg *Config) error {
	var errs []error

	if err := cfg.Catalog.Validate(); err != nil {
		errs = append(errs, err)
	}
	if cfg.Catalog.Source == CatalogSourceRedis {
		if err := cfg.Redis.Validate(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
