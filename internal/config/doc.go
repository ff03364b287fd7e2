// Package config manages user-level settings stored at ~/.bootstrap/config.yaml.
// It provides functions to load, read, and write the defaults used by
// "bootstrap new": owning user, hosting domain, template reference, hook
// policy and template cache directory.
package config
