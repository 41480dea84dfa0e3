// Package progress provides human-readable byte sizes and a progress bar for
// long-running hash computations.
//
// ParseBytes accepts the size notation used on the command line and in
// configuration files: an integer with an optional KB, MB, GB, or TB suffix
// (powers of 1024), e.g. "8MB". FormatBytes renders the reverse direction
// for display.
package progress
