package docgen

import (
	"os"
	"path"
	"path/filepath"

	"golang.org/x/mod/modfile"
)

// readModulePath returns the module path declared in root/go.mod, or the
// directory name when there is no go.mod.
func readModulePath(root string) string {
	data, err := os.ReadFile(filepath.Join(root, "go.mod"))
	if err == nil {
		if mp := modfile.ModulePath(data); mp != "" {
			return mp
		}
	}
	return filepath.Base(root)
}

func importPathFor(modulePath, rel string) string {
	if rel == "." {
		return modulePath
	}
	return path.Join(modulePath, rel)
}
