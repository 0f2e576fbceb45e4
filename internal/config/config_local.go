//go:build !gcloud

package config

// Validate accepts an empty sink URL; dispatch is then disabled.
func (c *DisplayConfig) Validate() error {
	return nil
}
