// Package config provides the configuration of pepaudit: built-in defaults,
// the expected status table, XDG directory locations and the optional
// .pepaudit YAML file that overrides them.
package config
