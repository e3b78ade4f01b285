// Package resources bundles the default configuration and locale catalogs
// shipped with the plugin.
package resources

import (
	"embed"
	"io/fs"
)

//go:embed config.yml locale/*.toml
var files embed.FS

// FS returns the bundled resources rooted at the resource directory
func FS() fs.FS {
	return files
}
