package docgen

import (
	"io/fs"
	"path"
	"path/filepath"
	"slices"
	"strings"
)

// discoverPackageDirs returns slash-separated directories below root that
// contain Go source files, sorted, with "." for root itself. Hidden,
// underscore-prefixed, testdata, vendor and node_modules directories are
// skipped, as is every directory listed in skip (relative to root).
func discoverPackageDirs(root string, skip []string) ([]string, error) {
	skipSet := make(map[string]struct{}, len(skip))
	for _, s := range skip {
		skipSet[path.Clean(filepath.ToSlash(s))] = struct{}{}
	}

	seen := map[string]struct{}{}
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(root, p)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel == "." {
				return nil
			}
			name := d.Name()
			if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") ||
				name == "testdata" || name == "vendor" || name == "node_modules" {
				return filepath.SkipDir
			}
			if _, ok := skipSet[rel]; ok {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasSuffix(d.Name(), ".go") && !strings.HasSuffix(d.Name(), "_test.go") {
			seen[path.Dir(rel)] = struct{}{}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	dirs := make([]string, 0, len(seen))
	for dir := range seen {
		dirs = append(dirs, dir)
	}
	slices.Sort(dirs)
	return dirs, nil
}

// matchPatterns filters dirs by go-style package patterns. No patterns means all.
func matchPatterns(dirs, patterns []string) []string {
	if len(patterns) == 0 {
		return dirs
	}
	var out []string
	for _, dir := range dirs {
		for _, pattern := range patterns {
			if matchPattern(dir, pattern) {
				out = append(out, dir)
				break
			}
		}
	}
	return out
}

func matchPattern(dir, pattern string) bool {
	pattern = strings.TrimPrefix(filepath.ToSlash(pattern), "./")
	switch pattern {
	case "...":
		return true
	case "", ".":
		return dir == "."
	}
	if prefix, ok := strings.CutSuffix(pattern, "/..."); ok {
		return dir == prefix || strings.HasPrefix(dir, prefix+"/")
	}
	return dir == path.Clean(pattern)
}
