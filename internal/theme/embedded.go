package theme

import "embed"

// EmbeddedThemes ships the built-in theme files so a name like "dark" works
// without any files installed.
//
//go:embed defaults/*.theme
var EmbeddedThemes embed.FS
