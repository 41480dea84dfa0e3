// Package config defines configuration for the competag CLI.
//
// Configuration can be provided via:
//   - Command-line flags
//   - Environment variables (COMPETAG_ prefix)
//   - YAML configuration file
//
// Precedence is flags over environment over file over defaults; callers
// layer the sources with Merge.
package config
