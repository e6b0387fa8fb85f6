// Package env reads raw process environment values for the few knobs, like
// the log format, that sit outside the typed storefront config.
package env

import "os"

// Get returns the named environment variable, or fallback when unset or empty.
func Get(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
