// Package config handles YAML configuration loading with environment variable substitution.
//
// Configuration files support ${VAR} syntax for environment variable interpolation.
// After the file is parsed, BAZAAR_-prefixed variables (for example BAZAAR_API_BASE_URL)
// override individual fields.
package config
